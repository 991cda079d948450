package models

import (
	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AffaireModel is the persistence model for the Affaire domain entity.
type AffaireModel struct {
	AggregateModel
	AffaireNumber      string          `gorm:"type:varchar(10);not null;uniqueIndex"`
	AffaireDescription string          `gorm:"type:varchar(200)"`
	Budget             decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ClientID           *uuid.UUID      `gorm:"type:uuid;index"`
	ClientEntityName   string          `gorm:"type:varchar(100)"`
	AuthorID           *uuid.UUID      `gorm:"type:uuid;index"`

	Client *ClientModel `gorm:"foreignKey:ClientID;constraint:OnDelete:SET NULL"`
	Author *UserModel   `gorm:"foreignKey:AuthorID;constraint:OnDelete:RESTRICT"`
}

// TableName returns the table name for GORM
func (AffaireModel) TableName() string {
	return "affaires"
}

// ToDomain converts the persistence model to a domain Affaire entity.
func (m *AffaireModel) ToDomain() *affaire.Affaire {
	return &affaire.Affaire{
		BaseAggregateRoot:  m.Root(),
		AffaireNumber:      m.AffaireNumber,
		AffaireDescription: m.AffaireDescription,
		Budget:             m.Budget,
		ClientID:           m.ClientID,
		ClientEntityName:   m.ClientEntityName,
		AuthorID:           m.AuthorID,
	}
}

// FromDomain populates the persistence model from a domain Affaire entity.
func (m *AffaireModel) FromDomain(a *affaire.Affaire) {
	m.SetRoot(a.BaseAggregateRoot)
	m.AffaireNumber = a.AffaireNumber
	m.AffaireDescription = a.AffaireDescription
	m.Budget = a.Budget
	m.ClientID = a.ClientID
	m.ClientEntityName = a.ClientEntityName
	m.AuthorID = a.AuthorID
}

// AffaireModelFromDomain creates a new persistence model from a domain Affaire entity.
func AffaireModelFromDomain(a *affaire.Affaire) *AffaireModel {
	m := &AffaireModel{}
	m.FromDomain(a)
	return m
}

// ContactModel is the persistence model for the Contact domain entity.
// The partial unique index keeps at most one principal contact per affaire.
type ContactModel struct {
	BaseModel
	AffaireID   *uuid.UUID `gorm:"type:uuid;index;uniqueIndex:idx_contacts_affaire_principal,where:is_principal = true AND affaire_id IS NOT NULL"`
	Nom         string     `gorm:"type:varchar(100)"`
	Prenom      string     `gorm:"type:varchar(100)"`
	Fonction    string     `gorm:"type:varchar(100)"`
	PhoneNumber string     `gorm:"type:varchar(10)"`
	Email       string     `gorm:"type:varchar(254)"`
	IsPrincipal bool       `gorm:"not null"`

	Affaire *AffaireModel `gorm:"foreignKey:AffaireID;constraint:OnDelete:SET NULL"`
}

// TableName returns the table name for GORM
func (ContactModel) TableName() string {
	return "contacts"
}

// ToDomain converts the persistence model to a domain Contact entity.
func (m *ContactModel) ToDomain() *affaire.Contact {
	return &affaire.Contact{
		BaseEntity:  m.Entity(),
		AffaireID:   m.AffaireID,
		Nom:         m.Nom,
		Prenom:      m.Prenom,
		Fonction:    m.Fonction,
		PhoneNumber: m.PhoneNumber,
		Email:       m.Email,
		IsPrincipal: m.IsPrincipal,
	}
}

// FromDomain populates the persistence model from a domain Contact entity.
func (m *ContactModel) FromDomain(c *affaire.Contact) {
	m.SetEntity(c.BaseEntity)
	m.AffaireID = c.AffaireID
	m.Nom = c.Nom
	m.Prenom = c.Prenom
	m.Fonction = c.Fonction
	m.PhoneNumber = c.PhoneNumber
	m.Email = c.Email
	m.IsPrincipal = c.IsPrincipal
}

// ContactModelFromDomain creates a new persistence model from a domain Contact entity.
func ContactModelFromDomain(c *affaire.Contact) *ContactModel {
	m := &ContactModel{}
	m.FromDomain(c)
	return m
}
