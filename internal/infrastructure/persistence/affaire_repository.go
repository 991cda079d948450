package persistence

import (
	"context"

	"github.com/gestion/backend/internal/domain/affaire"
	"github.com/gestion/backend/internal/domain/shared"
	"github.com/gestion/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAffaireRepository implements affaire.AffaireRepository using GORM
type GormAffaireRepository struct {
	db *gorm.DB
}

// NewGormAffaireRepository creates a new GormAffaireRepository
func NewGormAffaireRepository(db *gorm.DB) *GormAffaireRepository {
	return &GormAffaireRepository{db: db}
}

// FindByID finds an affaire by its ID
func (r *GormAffaireRepository) FindByID(ctx context.Context, id uuid.UUID) (*affaire.Affaire, error) {
	var model models.AffaireModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByNumber finds an affaire by its unique number
func (r *GormAffaireRepository) FindByNumber(ctx context.Context, number string) (*affaire.Affaire, error) {
	var model models.AffaireModel
	if err := r.db.WithContext(ctx).Where("affaire_number = ?", number).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all affaires matching the filter
func (r *GormAffaireRepository) FindAll(ctx context.Context, filter shared.Filter) ([]affaire.Affaire, error) {
	var affaireModels []models.AffaireModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.AffaireModel{}), filter)

	if err := query.Find(&affaireModels).Error; err != nil {
		return nil, err
	}
	return affairesToDomain(affaireModels), nil
}

// FindByClient returns the client's affaires, earliest first
func (r *GormAffaireRepository) FindByClient(ctx context.Context, clientID uuid.UUID) ([]affaire.Affaire, error) {
	var affaireModels []models.AffaireModel
	if err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC").
		Find(&affaireModels).Error; err != nil {
		return nil, err
	}
	return affairesToDomain(affaireModels), nil
}

// Save creates or updates an affaire
func (r *GormAffaireRepository) Save(ctx context.Context, a *affaire.Affaire) error {
	model := models.AffaireModelFromDomain(a)
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error)
}

// Delete deletes an affaire
func (r *GormAffaireRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AffaireModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts all affaires
func (r *GormAffaireRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AffaireModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByAuthor counts affaires authored by the user
func (r *GormAffaireRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AffaireModel{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// DetachClient clears the client reference of every affaire of the client.
// The client_entity_name snapshot is left untouched.
func (r *GormAffaireRepository) DetachClient(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.AffaireModel{}).
		Where("client_id = ?", clientID).
		Update("client_id", nil).Error
}

// applyFilter applies search, filters and ordering to the query
func (r *GormAffaireRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := likePattern(filter.Search)
		query = query.Where("(LOWER(affaire_number) LIKE LOWER(?) OR LOWER(affaire_description) LIKE LOWER(?) OR LOWER(client_entity_name) LIKE LOWER(?))",
			pattern, pattern, pattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "client_id":
			query = query.Where("client_id = ?", value)
		case "author_id":
			query = query.Where("author_id = ?", value)
		}
	}

	return query.Order(orderClause(filter, AffaireSortFields, "affaire_number ASC"))
}

func affairesToDomain(affaireModels []models.AffaireModel) []affaire.Affaire {
	affaires := make([]affaire.Affaire, len(affaireModels))
	for i, model := range affaireModels {
		affaires[i] = *model.ToDomain()
	}
	return affaires
}

// Ensure GormAffaireRepository implements AffaireRepository
var _ affaire.AffaireRepository = (*GormAffaireRepository)(nil)
