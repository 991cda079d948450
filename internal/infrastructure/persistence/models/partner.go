package models

import (
	"github.com/gestion/backend/internal/domain/partner"
	"github.com/gestion/backend/internal/domain/shared/valueobject"
)

// ClientModel is the persistence model for the Client domain entity.
type ClientModel struct {
	AggregateModel
	EntityName  string `gorm:"type:varchar(100);not null;index"`
	Address     string `gorm:"type:varchar(255)"`
	ZipCode     string `gorm:"type:varchar(5)"`
	City        string `gorm:"type:varchar(100)"`
	Contact     string `gorm:"type:varchar(100)"`
	PhoneNumber string `gorm:"type:varchar(10)"`
	Email       string `gorm:"type:varchar(254)"`
}

// TableName returns the table name for GORM
func (ClientModel) TableName() string {
	return "clients"
}

// ToDomain converts the persistence model to a domain Client entity.
// Stored addresses were validated on write and are restored as is.
func (m *ClientModel) ToDomain() *partner.Client {
	return &partner.Client{
		BaseAggregateRoot: m.Root(),
		EntityName:        m.EntityName,
		Address:           valueobject.RestoreAddress(m.Address, m.ZipCode, m.City),
		Contact:           m.Contact,
		PhoneNumber:       m.PhoneNumber,
		Email:             m.Email,
	}
}

// FromDomain populates the persistence model from a domain Client entity.
func (m *ClientModel) FromDomain(c *partner.Client) {
	m.SetRoot(c.BaseAggregateRoot)
	m.EntityName = c.EntityName
	m.Address = c.Address.Street()
	m.ZipCode = c.Address.ZipCode()
	m.City = c.Address.City()
	m.Contact = c.Contact
	m.PhoneNumber = c.PhoneNumber
	m.Email = c.Email
}

// ClientModelFromDomain creates a new persistence model from a domain Client entity.
func ClientModelFromDomain(c *partner.Client) *ClientModel {
	m := &ClientModel{}
	m.FromDomain(c)
	return m
}
