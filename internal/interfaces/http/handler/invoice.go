package handler

import (
	financeapp "github.com/gestion/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// InvoiceHandler handles invoice endpoints and the payments recorded against an invoice
type InvoiceHandler struct {
	BaseHandler
	invoiceService *financeapp.InvoiceService
	paymentService *financeapp.PaymentService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *financeapp.InvoiceService, paymentService *financeapp.PaymentService) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService: invoiceService,
		paymentService: paymentService,
	}
}

// List godoc
// @Summary      List invoices
// @Tags         invoices
// @Produce      json
// @Param        statut      query string false "Status" Enums(a_payer, partiellement_payee, payee, en_retard, annulee)
// @Param        affaire_id  query string false "Affaire ID"
// @Param        client_id   query string false "Client ID"
// @Param        date_debut  query string false "Invoices dated on or after (YYYY-MM-DD)"
// @Param        date_fin    query string false "Invoices dated on or before (YYYY-MM-DD)"
// @Param        search      query string false "Search by number, object or client"
// @Success      200 {object} dto.Response{data=[]financeapp.InvoiceResponse}
// @Router       /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	affaireID, ok := h.queryID(c, "affaire_id")
	if !ok {
		return
	}
	clientID, ok := h.queryID(c, "client_id")
	if !ok {
		return
	}
	filter := financeapp.InvoiceListFilter{
		Statut:    c.Query("statut"),
		AffaireID: affaireID,
		ClientID:  clientID,
		DateDebut: c.Query("date_debut"),
		DateFin:   c.Query("date_fin"),
		Search:    c.Query("search"),
	}
	if !h.validate(c, &filter) {
		return
	}

	invoices, err := h.invoiceService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, invoices)
}

// Get godoc
// @Summary      Get an invoice with its payments
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Router       /invoices/{id} [get]
func (h *InvoiceHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoiceService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Create godoc
// @Summary      Create an invoice
// @Tags         invoices
// @Param        request body financeapp.InvoiceRequest true "Invoice"
// @Success      201 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoices [post]
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req financeapp.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, inv)
}

// Update godoc
// @Summary      Update an invoice
// @Description  A stale version answers 409
// @Tags         invoices
// @Param        id      path string                    true "Invoice ID"
// @Param        request body financeapp.InvoiceRequest true "Invoice"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoices/{id} [put]
func (h *InvoiceHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.InvoiceRequest
	if !h.bindJSON(c, &req) {
		return
	}

	inv, err := h.invoiceService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// Delete godoc
// @Summary      Delete an invoice
// @Description  Blocked with 409 while the invoice has payments
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      204
// @Router       /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Cancel godoc
// @Summary      Cancel an invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Router       /invoices/{id}/cancel [post]
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoiceService.Cancel(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// RefreshStatus godoc
// @Summary      Recompute the status of an invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=financeapp.InvoiceResponse}
// @Router       /invoices/{id}/refresh-status [post]
func (h *InvoiceHandler) RefreshStatus(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	inv, err := h.invoiceService.RefreshStatus(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, inv)
}

// ListPayments godoc
// @Summary      List the payments of an invoice
// @Tags         invoices
// @Param        id path string true "Invoice ID"
// @Success      200 {object} dto.Response{data=[]financeapp.PaymentResponse}
// @Router       /invoices/{id}/payments [get]
func (h *InvoiceHandler) ListPayments(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.paymentService.ListByInvoice(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, payments)
}

// RecordPayment godoc
// @Summary      Record a payment against an invoice
// @Tags         invoices
// @Param        id      path string                    true "Invoice ID"
// @Param        request body financeapp.PaymentRequest true "Payment"
// @Success      201 {object} dto.Response{data=financeapp.PaymentResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /invoices/{id}/payments [post]
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	payment, err := h.paymentService.RecordPayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, payment)
}
