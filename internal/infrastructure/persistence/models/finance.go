package models

import (
	"time"

	"github.com/gestion/backend/internal/domain/finance"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice domain entity.
type InvoiceModel struct {
	AggregateModel
	AffaireID        uuid.UUID             `gorm:"type:uuid;not null;index"`
	AffaireNumber    string                `gorm:"type:varchar(10)"`
	ClientID         *uuid.UUID            `gorm:"type:uuid;index"`
	ClientEntityName string                `gorm:"type:varchar(100)"`
	AuthorID         *uuid.UUID            `gorm:"type:uuid;index"`
	ContactID        *uuid.UUID            `gorm:"type:uuid"`
	Date             time.Time             `gorm:"type:date;not null;index"`
	Type             finance.InvoiceType   `gorm:"type:varchar(20);not null;default:'facture'"`
	InvoiceNumber    string                `gorm:"type:varchar(10);not null;uniqueIndex"`
	InvoiceObject    string                `gorm:"type:varchar(200)"`
	AmountHT         decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0"`
	VATRate          decimal.Decimal       `gorm:"column:vat_rate;type:decimal(5,2);not null"`
	Status           finance.InvoiceStatus `gorm:"column:statut;type:varchar(20);not null;default:'a_payer';index"`

	Affaire *AffaireModel `gorm:"foreignKey:AffaireID;constraint:OnDelete:RESTRICT"`
	Client  *ClientModel  `gorm:"foreignKey:ClientID;constraint:OnDelete:RESTRICT"`
	Author  *UserModel    `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
	Contact *ContactModel `gorm:"foreignKey:ContactID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// ToDomain converts the persistence model to a domain Invoice entity.
func (m *InvoiceModel) ToDomain() *finance.Invoice {
	return &finance.Invoice{
		BaseAggregateRoot: m.Root(),
		AffaireID:         m.AffaireID,
		AffaireNumber:     m.AffaireNumber,
		ClientID:          m.ClientID,
		ClientEntityName:  m.ClientEntityName,
		AuthorID:          m.AuthorID,
		ContactID:         m.ContactID,
		Date:              m.Date.UTC(),
		Type:              m.Type,
		InvoiceNumber:     m.InvoiceNumber,
		InvoiceObject:     m.InvoiceObject,
		AmountHT:          m.AmountHT,
		VATRate:           m.VATRate,
		Status:            m.Status,
	}
}

// FromDomain populates the persistence model from a domain Invoice entity.
func (m *InvoiceModel) FromDomain(i *finance.Invoice) {
	m.SetRoot(i.BaseAggregateRoot)
	m.AffaireID = i.AffaireID
	m.AffaireNumber = i.AffaireNumber
	m.ClientID = i.ClientID
	m.ClientEntityName = i.ClientEntityName
	m.AuthorID = i.AuthorID
	m.ContactID = i.ContactID
	m.Date = i.Date
	m.Type = i.Type
	m.InvoiceNumber = i.InvoiceNumber
	m.InvoiceObject = i.InvoiceObject
	m.AmountHT = i.AmountHT
	m.VATRate = i.VATRate
	m.Status = i.Status
}

// InvoiceModelFromDomain creates a new persistence model from a domain Invoice entity.
func InvoiceModelFromDomain(i *finance.Invoice) *InvoiceModel {
	m := &InvoiceModel{}
	m.FromDomain(i)
	return m
}

// PaymentModel is the persistence model for the Payment domain entity.
type PaymentModel struct {
	BaseModel
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date          time.Time       `gorm:"type:date;not null"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PaymentMethod string          `gorm:"type:varchar(50);not null"`

	Invoice *InvoiceModel `gorm:"foreignKey:InvoiceID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment entity.
func (m *PaymentModel) ToDomain() *finance.Payment {
	return &finance.Payment{
		BaseEntity:    m.Entity(),
		InvoiceID:     m.InvoiceID,
		Date:          m.Date.UTC(),
		Amount:        m.Amount,
		PaymentMethod: m.PaymentMethod,
	}
}

// FromDomain populates the persistence model from a domain Payment entity.
func (m *PaymentModel) FromDomain(p *finance.Payment) {
	m.SetEntity(p.BaseEntity)
	m.InvoiceID = p.InvoiceID
	m.Date = p.Date
	m.Amount = p.Amount
	m.PaymentMethod = p.PaymentMethod
}

// PaymentModelFromDomain creates a new persistence model from a domain Payment entity.
func PaymentModelFromDomain(p *finance.Payment) *PaymentModel {
	m := &PaymentModel{}
	m.FromDomain(p)
	return m
}
