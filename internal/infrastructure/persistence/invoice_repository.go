package persistence

import (
	"context"

	"github.com/gestion/backend/internal/domain/finance"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInvoiceRepository implements finance.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByID finds an invoice by its ID
func (r *GormInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds an invoice with SELECT ... FOR UPDATE.
// SQLite has no row locks and serializes writers instead.
func (r *GormInvoiceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an invoice by its unique number
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, number string) (*finance.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).Where("invoice_number = ?", number).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all invoices matching the filter, most recent first
func (r *GormInvoiceRepository) FindAll(ctx context.Context, filter finance.InvoiceFilter) ([]finance.Invoice, error) {
	var invoiceModels []models.InvoiceModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.InvoiceModel{}), filter)

	if err := query.Order("date DESC, invoice_number DESC").Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// FindByAffaire returns the invoices of an affaire, most recent first
func (r *GormInvoiceRepository) FindByAffaire(ctx context.Context, affaireID uuid.UUID) ([]finance.Invoice, error) {
	return r.FindAll(ctx, finance.InvoiceFilter{AffaireID: &affaireID})
}

// FindByAffaires returns the invoices of several affaires
func (r *GormInvoiceRepository) FindByAffaires(ctx context.Context, affaireIDs []uuid.UUID) ([]finance.Invoice, error) {
	if len(affaireIDs) == 0 {
		return []finance.Invoice{}, nil
	}

	var invoiceModels []models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Where("affaire_id IN ?", affaireIDs).
		Order("date DESC, invoice_number DESC").
		Find(&invoiceModels).Error; err != nil {
		return nil, err
	}
	return invoicesToDomain(invoiceModels), nil
}

// Save creates or updates an invoice
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error)
}

// SaveWithLock saves an invoice with optimistic locking (version check).
// The invoice's version must already have been incremented by the caller.
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, invoice *finance.Invoice) error {
	model := models.InvoiceModelFromDomain(invoice)
	result := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where("id = ? AND version = ?", invoice.ID, invoice.Version-1).
		Select("*").
		Omit(clause.Associations).
		Updates(model)

	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete deletes an invoice
func (r *GormInvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.InvoiceModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByAffaire counts invoices of an affaire
func (r *GormInvoiceRepository) CountByAffaire(ctx context.Context, affaireID uuid.UUID) (int64, error) {
	return r.count(ctx, "affaire_id = ?", affaireID)
}

// CountByClient counts invoices referencing the client directly or through one of its affaires
func (r *GormInvoiceRepository) CountByClient(ctx context.Context, clientID uuid.UUID) (int64, error) {
	return r.count(ctx, "(client_id = ? OR affaire_id IN (?))", clientID, r.affairesOfClient(clientID))
}

// CountByAuthor counts invoices authored by the user
func (r *GormInvoiceRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	return r.count(ctx, "author_id = ?", authorID)
}

func (r *GormInvoiceRepository) count(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.InvoiceModel{}).
		Where(query, args...).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormInvoiceRepository) affairesOfClient(clientID uuid.UUID) *gorm.DB {
	return r.db.Model(&models.AffaireModel{}).Select("id").Where("client_id = ?", clientID)
}

// applyFilter applies the invoice filter to the query
func (r *GormInvoiceRepository) applyFilter(query *gorm.DB, filter finance.InvoiceFilter) *gorm.DB {
	if filter.Status != "" {
		query = query.Where("statut = ?", filter.Status)
	}
	if filter.AffaireID != nil {
		query = query.Where("affaire_id = ?", *filter.AffaireID)
	}
	if filter.ClientID != nil {
		query = query.Where("(client_id = ? OR affaire_id IN (?))", *filter.ClientID, r.affairesOfClient(*filter.ClientID))
	}
	if filter.DateDebut != nil {
		query = query.Where("date >= ?", shared.DateOf(*filter.DateDebut))
	}
	if filter.DateFin != nil {
		query = query.Where("date <= ?", shared.DateOf(*filter.DateFin))
	}
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(invoice_number) LIKE LOWER(?) OR LOWER(invoice_object) LIKE LOWER(?) OR LOWER(client_entity_name) LIKE LOWER(?) OR LOWER(affaire_number) LIKE LOWER(?))",
			pattern, pattern, pattern, pattern)
	}
	return query
}

func invoicesToDomain(invoiceModels []models.InvoiceModel) []finance.Invoice {
	invoices := make([]finance.Invoice, len(invoiceModels))
	for i, model := range invoiceModels {
		invoices[i] = *model.ToDomain()
	}
	return invoices
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ finance.InvoiceRepository = (*GormInvoiceRepository)(nil)
