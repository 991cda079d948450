package router

import (
	"github.com/gestion/backend/internal/interfaces/http/handler"
)

// Handlers groups the HTTP handlers served by the API
type Handlers struct {
	System    *handler.SystemHandler
	Client    *handler.ClientHandler
	Affaire   *handler.AffaireHandler
	Contact   *handler.ContactHandler
	Invoice   *handler.InvoiceHandler
	Payment   *handler.PaymentHandler
	User      *handler.UserHandler
	Dashboard *handler.DashboardHandler
}

// RegisterAPI wires the health check on the engine root and every
// resource group under the versioned prefix, then calls Setup.
func (r *Router) RegisterAPI(h Handlers) {
	r.engine.GET("/health", h.System.Health)

	system := NewDomainGroup("/system")
	system.GET("/ping", h.System.Ping)

	clients := NewDomainGroup("/clients")
	clients.GET("", h.Client.List).
		POST("", h.Client.Create).
		GET("/:id", h.Client.Get).
		PUT("/:id", h.Client.Update).
		DELETE("/:id", h.Client.Delete).
		GET("/:id/contacts", h.Client.ListContacts).
		GET("/:id/affaires", h.Client.ListAffaires)

	affaires := NewDomainGroup("/affaires")
	affaires.GET("", h.Affaire.List).
		POST("", h.Affaire.Create).
		GET("/:id", h.Affaire.Get).
		PUT("/:id", h.Affaire.Update).
		DELETE("/:id", h.Affaire.Delete).
		GET("/:id/contacts", h.Affaire.ListContacts).
		POST("/:id/contacts", h.Affaire.CreateContact).
		PUT("/:id/contacts", h.Affaire.SaveContacts).
		GET("/:id/invoices", h.Affaire.ListInvoices)

	contacts := NewDomainGroup("/contacts")
	contacts.GET("/:id", h.Contact.Get).
		PUT("/:id", h.Contact.Update).
		DELETE("/:id", h.Contact.Delete)

	invoices := NewDomainGroup("/invoices")
	invoices.GET("", h.Invoice.List).
		POST("", h.Invoice.Create).
		GET("/:id", h.Invoice.Get).
		PUT("/:id", h.Invoice.Update).
		DELETE("/:id", h.Invoice.Delete).
		POST("/:id/cancel", h.Invoice.Cancel).
		POST("/:id/refresh-status", h.Invoice.RefreshStatus).
		GET("/:id/payments", h.Invoice.ListPayments).
		POST("/:id/payments", h.Invoice.RecordPayment)

	payments := NewDomainGroup("/payments")
	payments.PUT("/:id", h.Payment.Update).
		DELETE("/:id", h.Payment.Delete)

	users := NewDomainGroup("/users")
	users.GET("", h.User.List).
		POST("", h.User.Create).
		GET("/:id", h.User.Get).
		PUT("/:id", h.User.Update).
		DELETE("/:id", h.User.Delete)

	dashboard := NewDomainGroup("/dashboard")
	dashboard.GET("", h.Dashboard.Summary).
		GET("/revenue", h.Dashboard.Revenue)

	r.Register(system).
		Register(clients).
		Register(affaires).
		Register(contacts).
		Register(invoices).
		Register(payments).
		Register(users).
		Register(dashboard)
	r.Setup()
}
