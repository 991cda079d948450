package persistence

import (
	"strings"

	"github.com/gestion/backend/internal/domain/shared"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// orderClause builds the ORDER BY expression for a filter. Without a valid
// requested field the repository's natural ordering is used.
func orderClause(filter shared.Filter, allowedFields map[string]bool, natural string) string {
	field := ValidateSortField(filter.OrderBy, allowedFields, "")
	if field == "" {
		return natural
	}
	return field + " " + ValidateSortOrder(filter.OrderDir)
}

// ClientSortFields contains allowed sort fields for clients
var ClientSortFields = map[string]bool{
	"created_at":  true,
	"updated_at":  true,
	"entity_name": true,
	"city":        true,
	"zip_code":    true,
}

// AffaireSortFields contains allowed sort fields for affaires
var AffaireSortFields = map[string]bool{
	"created_at":         true,
	"updated_at":         true,
	"affaire_number":     true,
	"budget":             true,
	"client_entity_name": true,
}
