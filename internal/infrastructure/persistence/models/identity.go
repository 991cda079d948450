package models

import (
	"time"

	"github.com/gestion/backend/internal/domain/identity"
)

// UserModel is the persistence model for the User domain entity.
type UserModel struct {
	AggregateModel
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex"`
	FirstName    string    `gorm:"type:varchar(150)"`
	LastName     string    `gorm:"type:varchar(150)"`
	IsActive     bool      `gorm:"not null"`
	IsStaff      bool      `gorm:"not null"`
	IsAuthor     bool      `gorm:"not null;index"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	DateJoined   time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// ToDomain converts the persistence model to a domain User entity.
func (m *UserModel) ToDomain() *identity.User {
	return &identity.User{
		BaseAggregateRoot: m.Root(),
		Email:             m.Email,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		IsActive:          m.IsActive,
		IsStaff:           m.IsStaff,
		IsAuthor:          m.IsAuthor,
		PasswordHash:      m.PasswordHash,
		DateJoined:        m.DateJoined,
	}
}

// FromDomain populates the persistence model from a domain User entity.
func (m *UserModel) FromDomain(u *identity.User) {
	m.SetRoot(u.BaseAggregateRoot)
	m.Email = u.Email
	m.FirstName = u.FirstName
	m.LastName = u.LastName
	m.IsActive = u.IsActive
	m.IsStaff = u.IsStaff
	m.IsAuthor = u.IsAuthor
	m.PasswordHash = u.PasswordHash
	m.DateJoined = u.DateJoined
}

// UserModelFromDomain creates a new persistence model from a domain User entity.
func UserModelFromDomain(u *identity.User) *UserModel {
	m := &UserModel{}
	m.FromDomain(u)
	return m
}
