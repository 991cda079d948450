// Package models contains GORM-specific persistence models that map to database tables.
// These models are separate from domain entities to keep the domain layer free
// from ORM concerns. Each model has ToDomain / FromDomain mappers.
//
// Foreign keys are declared through belongs-to association fields so that
// AutoMigrate (SQLite, tests) produces the same protection as the SQL
// migrations used in production: RESTRICT where history must be kept,
// SET NULL where the child outlives its parent.
package models
