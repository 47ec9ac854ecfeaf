package repository

import (
	"time"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"

	"gorm.io/gorm"
)

// OnboardingRepository is the onboarding item data access interface.
type OnboardingRepository interface {
	Create(item *models.OnboardingItem) error
	ListPendingByEnrollmentID(enrollmentID uint) ([]models.OnboardingItem, error)
	ListSentFormsByEnrollmentID(enrollmentID uint) ([]models.OnboardingItem, error)
	MarkCompleted(ids []uint, completedAt time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormOnboardingRepository
}

// GormOnboardingRepository is the GORM implementation.
type GormOnboardingRepository struct {
	db *gorm.DB
}

// NewOnboardingRepository creates an onboarding repository.
func NewOnboardingRepository(db *gorm.DB) *GormOnboardingRepository {
	return &GormOnboardingRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormOnboardingRepository) WithTx(tx *gorm.DB) *GormOnboardingRepository {
	if tx == nil {
		return r
	}
	return &GormOnboardingRepository{db: tx}
}

// Create inserts an onboarding item.
func (r *GormOnboardingRepository) Create(item *models.OnboardingItem) error {
	return r.db.Create(item).Error
}

// ListPendingByEnrollmentID lists items not yet completed for an enrollment.
func (r *GormOnboardingRepository) ListPendingByEnrollmentID(enrollmentID uint) ([]models.OnboardingItem, error) {
	var items []models.OnboardingItem
	err := r.db.
		Where("enrollment_id = ? AND status <> ?", enrollmentID, constants.OnboardingStatusCompleted).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// ListSentFormsByEnrollmentID lists sent form items carrying an external form
// id, the ones whose completion can be checked upstream.
func (r *GormOnboardingRepository) ListSentFormsByEnrollmentID(enrollmentID uint) ([]models.OnboardingItem, error) {
	var items []models.OnboardingItem
	err := r.db.
		Where("enrollment_id = ? AND item_type = ? AND status = ? AND form_id <> ''",
			enrollmentID, constants.OnboardingItemTypeForm, constants.OnboardingStatusSent).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// MarkCompleted stamps the given items completed and returns how many rows
// actually moved.
func (r *GormOnboardingRepository) MarkCompleted(ids []uint, completedAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.OnboardingItem{}).
		Where("id IN ? AND status <> ?", ids, constants.OnboardingStatusCompleted).
		Updates(map[string]interface{}{
			"status":       constants.OnboardingStatusCompleted,
			"completed_at": completedAt,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
