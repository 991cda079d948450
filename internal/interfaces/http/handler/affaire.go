package handler

import (
	affaireapp "github.com/gestion/backend/internal/application/affaire"
	financeapp "github.com/gestion/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// AffaireHandler handles affaire endpoints, including the contact lines of an affaire
type AffaireHandler struct {
	BaseHandler
	affaireService *affaireapp.AffaireService
	contactService *affaireapp.ContactService
	invoiceService *financeapp.InvoiceService
}

// NewAffaireHandler creates a new AffaireHandler
func NewAffaireHandler(
	affaireService *affaireapp.AffaireService,
	contactService *affaireapp.ContactService,
	invoiceService *financeapp.InvoiceService,
) *AffaireHandler {
	return &AffaireHandler{
		affaireService: affaireService,
		contactService: contactService,
		invoiceService: invoiceService,
	}
}

// List godoc
// @Summary      List affaires
// @Tags         affaires
// @Produce      json
// @Param        search     query string false "Search by number, description or client"
// @Param        client_id  query string false "Client ID"
// @Param        author_id  query string false "Author ID"
// @Param        order_by   query string false "Sort field"
// @Param        order_dir  query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]affaireapp.AffaireResponse}
// @Router       /affaires [get]
func (h *AffaireHandler) List(c *gin.Context) {
	clientID, ok := h.queryID(c, "client_id")
	if !ok {
		return
	}
	authorID, ok := h.queryID(c, "author_id")
	if !ok {
		return
	}
	filter := affaireapp.AffaireListFilter{
		Search:   c.Query("search"),
		ClientID: clientID,
		AuthorID: authorID,
		OrderBy:  c.Query("order_by"),
		OrderDir: c.Query("order_dir"),
	}
	if !h.validate(c, &filter) {
		return
	}

	affaires, err := h.affaireService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, affaires)
}

// Get godoc
// @Summary      Get an affaire with its invoicing progress
// @Tags         affaires
// @Param        id path string true "Affaire ID"
// @Success      200 {object} dto.Response{data=affaireapp.AffaireResponse}
// @Router       /affaires/{id} [get]
func (h *AffaireHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	a, err := h.affaireService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Create godoc
// @Summary      Create an affaire
// @Tags         affaires
// @Param        request body affaireapp.AffaireRequest true "Affaire"
// @Success      201 {object} dto.Response{data=affaireapp.AffaireResponse}
// @Router       /affaires [post]
func (h *AffaireHandler) Create(c *gin.Context) {
	var req affaireapp.AffaireRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.affaireService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// Update godoc
// @Summary      Update an affaire
// @Tags         affaires
// @Param        id      path string                  true "Affaire ID"
// @Param        request body affaireapp.AffaireRequest true "Affaire"
// @Success      200 {object} dto.Response{data=affaireapp.AffaireResponse}
// @Router       /affaires/{id} [put]
func (h *AffaireHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req affaireapp.AffaireRequest
	if !h.bindJSON(c, &req) {
		return
	}

	a, err := h.affaireService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, a)
}

// Delete godoc
// @Summary      Delete an affaire
// @Description  Blocked with 409 while the affaire has invoices
// @Tags         affaires
// @Param        id path string true "Affaire ID"
// @Success      204
// @Router       /affaires/{id} [delete]
func (h *AffaireHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.affaireService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListContacts godoc
// @Summary      List the contacts of an affaire
// @Tags         affaires
// @Param        id path string true "Affaire ID"
// @Success      200 {object} dto.Response{data=[]affaireapp.ContactResponse}
// @Router       /affaires/{id}/contacts [get]
func (h *AffaireHandler) ListContacts(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	contacts, err := h.contactService.ListByAffaire(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// CreateContact godoc
// @Summary      Add a contact to an affaire
// @Description  The first contact of an affaire becomes principal
// @Tags         affaires
// @Param        id      path string                  true "Affaire ID"
// @Param        request body affaireapp.ContactRequest true "Contact"
// @Success      201 {object} dto.Response{data=affaireapp.ContactResponse}
// @Router       /affaires/{id}/contacts [post]
func (h *AffaireHandler) CreateContact(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req affaireapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.CreateContact(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, contact)
}

// SaveContacts godoc
// @Summary      Replace the contact lines of an affaire
// @Description  Lines with an id are updated, lines without one are created
// @Tags         affaires
// @Param        id      path string                       true "Affaire ID"
// @Param        request body affaireapp.ContactBatchRequest true "Contacts"
// @Success      200 {object} dto.Response{data=[]affaireapp.ContactResponse}
// @Router       /affaires/{id}/contacts [put]
func (h *AffaireHandler) SaveContacts(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req affaireapp.ContactBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contacts, err := h.contactService.SaveAffaireContacts(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// ListInvoices godoc
// @Summary      List the invoices of an affaire
// @Tags         affaires
// @Param        id path string true "Affaire ID"
// @Success      200 {object} dto.Response{data=[]financeapp.InvoiceResponse}
// @Router       /affaires/{id}/invoices [get]
func (h *AffaireHandler) ListInvoices(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	invoices, err := h.invoiceService.ListByAffaire(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}
