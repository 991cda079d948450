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

// GormContactRepository implements affaire.ContactRepository using GORM
type GormContactRepository struct {
	db *gorm.DB
}

// NewGormContactRepository creates a new GormContactRepository
func NewGormContactRepository(db *gorm.DB) *GormContactRepository {
	return &GormContactRepository{db: db}
}

// FindByID finds a contact by its ID
func (r *GormContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*affaire.Contact, error) {
	var model models.ContactModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByAffaire returns the contacts of an affaire, oldest first
func (r *GormContactRepository) FindByAffaire(ctx context.Context, affaireID uuid.UUID) ([]affaire.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("affaire_id = ?", affaireID).
		Order("created_at ASC, id ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	return contactsToDomain(contactModels), nil
}

// FindByAffaires returns the contacts of several affaires, oldest first
func (r *GormContactRepository) FindByAffaires(ctx context.Context, affaireIDs []uuid.UUID) ([]affaire.Contact, error) {
	if len(affaireIDs) == 0 {
		return []affaire.Contact{}, nil
	}

	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("affaire_id IN ?", affaireIDs).
		Order("created_at ASC, id ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	return contactsToDomain(contactModels), nil
}

// FindOrphans returns contacts left without an affaire
func (r *GormContactRepository) FindOrphans(ctx context.Context) ([]affaire.Contact, error) {
	var contactModels []models.ContactModel
	if err := r.db.WithContext(ctx).
		Where("affaire_id IS NULL").
		Order("created_at ASC, id ASC").
		Find(&contactModels).Error; err != nil {
		return nil, err
	}
	return contactsToDomain(contactModels), nil
}

// Save creates or updates a contact
func (r *GormContactRepository) Save(ctx context.Context, contact *affaire.Contact) error {
	model := models.ContactModelFromDomain(contact)
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Save(model).Error)
}

// Delete deletes a contact
func (r *GormContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ContactModel{}, "id = ?", id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ClearPrincipal un-marks every principal contact of the affaire except keepID
func (r *GormContactRepository) ClearPrincipal(ctx context.Context, affaireID, keepID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("affaire_id = ? AND is_principal = ? AND id <> ?", affaireID, true, keepID).
		Update("is_principal", false).Error
}

// DetachAffaire clears the affaire reference of every contact of the affaire
func (r *GormContactRepository) DetachAffaire(ctx context.Context, affaireID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.ContactModel{}).
		Where("affaire_id = ?", affaireID).
		Updates(map[string]interface{}{"affaire_id": nil, "is_principal": false}).Error
}

func contactsToDomain(contactModels []models.ContactModel) []affaire.Contact {
	contacts := make([]affaire.Contact, len(contactModels))
	for i, model := range contactModels {
		contacts[i] = *model.ToDomain()
	}
	return contacts
}

// Ensure GormContactRepository implements ContactRepository
var _ affaire.ContactRepository = (*GormContactRepository)(nil)
