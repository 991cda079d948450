package handler

import (
	affaireapp "github.com/gestion/backend/internal/application/affaire"
	partnerapp "github.com/gestion/backend/internal/application/partner"
	"github.com/gin-gonic/gin"
)

// ClientHandler handles client endpoints
type ClientHandler struct {
	BaseHandler
	clientService  *partnerapp.ClientService
	affaireService *affaireapp.AffaireService
	contactService *affaireapp.ContactService
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(
	clientService *partnerapp.ClientService,
	affaireService *affaireapp.AffaireService,
	contactService *affaireapp.ContactService,
) *ClientHandler {
	return &ClientHandler{
		clientService:  clientService,
		affaireService: affaireService,
		contactService: contactService,
	}
}

// List godoc
// @Summary      List clients
// @Description  Clients ordered by entity name, with their affaire totals
// @Tags         clients
// @Produce      json
// @Param        search     query string false "Search by entity name"
// @Param        order_by   query string false "Sort field"
// @Param        order_dir  query string false "asc or desc"
// @Success      200 {object} dto.Response{data=[]partnerapp.ClientResponse}
// @Router       /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	var filter partnerapp.ClientListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	clients, err := h.clientService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, clients)
}

// Get godoc
// @Summary      Get a client
// @Tags         clients
// @Produce      json
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/{id} [get]
func (h *ClientHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Create godoc
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        request body partnerapp.ClientRequest true "Client"
// @Success      201 {object} dto.Response{data=partnerapp.ClientResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	var req partnerapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, client)
}

// Update godoc
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        id      path string                 true "Client ID"
// @Param        request body partnerapp.ClientRequest true "Client"
// @Success      200 {object} dto.Response{data=partnerapp.ClientResponse}
// @Router       /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req partnerapp.ClientRequest
	if !h.bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, client)
}

// Delete godoc
// @Summary      Delete a client
// @Description  Blocked with 409 while one of its affaires still has invoices
// @Tags         clients
// @Param        id path string true "Client ID"
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListContacts godoc
// @Summary      List the contacts of a client's affaires
// @Tags         clients
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=[]affaireapp.ContactResponse}
// @Router       /clients/{id}/contacts [get]
func (h *ClientHandler) ListContacts(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	contacts, err := h.contactService.ListByClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contacts)
}

// ListAffaires godoc
// @Summary      List the affaires of a client
// @Tags         clients
// @Param        id path string true "Client ID"
// @Success      200 {object} dto.Response{data=[]affaireapp.AffaireResponse}
// @Router       /clients/{id}/affaires [get]
func (h *ClientHandler) ListAffaires(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	affaires, err := h.affaireService.ListByClient(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, affaires)
}
