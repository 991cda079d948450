package handler

import (
	affaireapp "github.com/gestion/backend/internal/application/affaire"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles single-contact endpoints
type ContactHandler struct {
	BaseHandler
	contactService *affaireapp.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contactService *affaireapp.ContactService) *ContactHandler {
	return &ContactHandler{contactService: contactService}
}

// Get godoc
// @Summary      Get a contact
// @Tags         contacts
// @Param        id path string true "Contact ID"
// @Success      200 {object} dto.Response{data=affaireapp.ContactResponse}
// @Router       /contacts/{id} [get]
func (h *ContactHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	contact, err := h.contactService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// Update godoc
// @Summary      Update a contact
// @Description  Marking a contact principal unmarks the previous principal of its affaire
// @Tags         contacts
// @Param        id      path string                  true "Contact ID"
// @Param        request body affaireapp.ContactRequest true "Contact"
// @Success      200 {object} dto.Response{data=affaireapp.ContactResponse}
// @Router       /contacts/{id} [put]
func (h *ContactHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req affaireapp.ContactRequest
	if !h.bindJSON(c, &req) {
		return
	}

	contact, err := h.contactService.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, contact)
}

// Delete godoc
// @Summary      Delete a contact
// @Description  When the principal is deleted the earliest remaining contact is promoted
// @Tags         contacts
// @Param        id path string true "Contact ID"
// @Success      204
// @Router       /contacts/{id} [delete]
func (h *ContactHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.contactService.DeleteContact(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
