package shared

// DomainError is a business rule violation. Code is stable and mapped to an
// HTTP status by the interface layer; Message is shown to the user as is.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewDomainError(code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError with the same code, so
// errors.Is(NewDomainError("NOT_FOUND", "Client not found"), ErrNotFound) holds.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	return ok && t.Code == e.Code
}

// Sentinels for the codes shared by every aggregate. Entity specific codes
// (INVALID_AUTHOR, INVALID_YEAR, ...) are built where they are raised.
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
	ErrProtected           = NewDomainError("PROTECTED", "Resource is referenced by other records and cannot be deleted")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
)
