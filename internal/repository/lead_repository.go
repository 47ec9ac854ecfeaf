package repository

import (
	"strings"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"

	"gorm.io/gorm"
)

// LeadRepository is the lead data access interface.
type LeadRepository interface {
	Create(lead *models.Lead) error
	GetOpenByEmailAndType(email, leadType string) (*models.Lead, error)
	ExistsByEmail(email string) (bool, error)
	WithTx(tx *gorm.DB) *GormLeadRepository
}

// GormLeadRepository is the GORM implementation.
type GormLeadRepository struct {
	db *gorm.DB
}

// NewLeadRepository creates a lead repository.
func NewLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormLeadRepository) WithTx(tx *gorm.DB) *GormLeadRepository {
	if tx == nil {
		return r
	}
	return &GormLeadRepository{db: tx}
}

// Create inserts a lead.
func (r *GormLeadRepository) Create(lead *models.Lead) error {
	return r.db.Create(lead).Error
}

// GetOpenByEmailAndType fetches an unresolved lead for the email and type,
// matched case-insensitively on email. Converted and closed leads do not
// block a new capture.
func (r *GormLeadRepository) GetOpenByEmailAndType(email, leadType string) (*models.Lead, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}
	var lead models.Lead
	result := r.db.
		Where("LOWER(email) = ? AND lead_type = ? AND status IN ?", email, leadType, []string{
			constants.LeadStatusNew,
			constants.LeadStatusContacted,
		}).
		Order("id desc").Limit(1).Find(&lead)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &lead, nil
}

// ExistsByEmail reports whether any lead row carries the email.
func (r *GormLeadRepository) ExistsByEmail(email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, nil
	}
	var total int64
	if err := r.db.Model(&models.Lead{}).Where("LOWER(email) = ?", email).Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}
