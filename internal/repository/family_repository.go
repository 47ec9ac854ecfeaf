package repository

import (
	"errors"
	"strings"

	"github.com/brightpods/admin-api/internal/models"

	"gorm.io/gorm"
)

// FamilyRepository is the family data access interface.
type FamilyRepository interface {
	Create(family *models.Family) error
	Update(family *models.Family) error
	Delete(family *models.Family) error
	GetByID(id uint) (*models.Family, error)
	GetByEmail(email string) (*models.Family, error)
	ListLegacyLeads() ([]models.Family, error)
	WithTx(tx *gorm.DB) *GormFamilyRepository
}

// GormFamilyRepository is the GORM implementation.
type GormFamilyRepository struct {
	db *gorm.DB
}

// NewFamilyRepository creates a family repository.
func NewFamilyRepository(db *gorm.DB) *GormFamilyRepository {
	return &GormFamilyRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormFamilyRepository) WithTx(tx *gorm.DB) *GormFamilyRepository {
	if tx == nil {
		return r
	}
	return &GormFamilyRepository{db: tx}
}

// Create inserts a family.
func (r *GormFamilyRepository) Create(family *models.Family) error {
	return r.db.Create(family).Error
}

// Update saves a family.
func (r *GormFamilyRepository) Update(family *models.Family) error {
	return r.db.Save(family).Error
}

// Delete soft-deletes a family.
func (r *GormFamilyRepository) Delete(family *models.Family) error {
	return r.db.Delete(family).Error
}

// GetByID fetches a family by id.
func (r *GormFamilyRepository) GetByID(id uint) (*models.Family, error) {
	var family models.Family
	if err := r.db.First(&family, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &family, nil
}

// GetByEmail fetches a family by email, matched case-insensitively.
func (r *GormFamilyRepository) GetByEmail(email string) (*models.Family, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var family models.Family
	result := r.db.Where("LOWER(email) = ?", email).Limit(1).Find(&family)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &family, nil
}

// ListLegacyLeads lists families still carrying the legacy lead flag.
func (r *GormFamilyRepository) ListLegacyLeads() ([]models.Family, error) {
	var families []models.Family
	if err := r.db.Where("is_lead = ?", true).Order("id asc").Find(&families).Error; err != nil {
		return nil, err
	}
	return families, nil
}
