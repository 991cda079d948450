package handler

import (
	financeapp "github.com/gestion/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles single-payment endpoints
type PaymentHandler struct {
	BaseHandler
	paymentService *financeapp.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(paymentService *financeapp.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Update godoc
// @Summary      Update a payment
// @Description  The invoice status is recomputed in the same transaction
// @Tags         payments
// @Param        id      path string                    true "Payment ID"
// @Param        request body financeapp.PaymentRequest true "Payment"
// @Success      200 {object} dto.Response{data=financeapp.PaymentResponse}
// @Router       /payments/{id} [put]
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.UpdatePayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payment)
}

// Delete godoc
// @Summary      Delete a payment
// @Tags         payments
// @Param        id path string true "Payment ID"
// @Success      204
// @Router       /payments/{id} [delete]
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.paymentService.DeletePayment(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
