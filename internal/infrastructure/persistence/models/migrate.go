package models

import "gorm.io/gorm"

// All returns every model in dependency order
func All() []interface{} {
	return []interface{}{
		&UserModel{},
		&ClientModel{},
		&AffaireModel{},
		&ContactModel{},
		&InvoiceModel{},
		&PaymentModel{},
	}
}

// AutoMigrate creates or updates the schema from the models. Production
// databases are migrated with the SQL files under migrations/; this is used
// for SQLite development databases and tests.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(All()...)
}
