package repository

import (
	"errors"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"

	"gorm.io/gorm"
)

// EnrollmentRepository is the enrollment data access interface.
type EnrollmentRepository interface {
	Create(enrollment *models.Enrollment) error
	GetByID(id uint) (*models.Enrollment, error)
	HasOpenByFamilyID(familyID uint) (bool, error)
	ListOpenWithStudents() ([]models.Enrollment, error)
	WithTx(tx *gorm.DB) *GormEnrollmentRepository
}

// GormEnrollmentRepository is the GORM implementation.
type GormEnrollmentRepository struct {
	db *gorm.DB
}

// NewEnrollmentRepository creates an enrollment repository.
func NewEnrollmentRepository(db *gorm.DB) *GormEnrollmentRepository {
	return &GormEnrollmentRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormEnrollmentRepository) WithTx(tx *gorm.DB) *GormEnrollmentRepository {
	if tx == nil {
		return r
	}
	return &GormEnrollmentRepository{db: tx}
}

// openStatuses are the enrollment states that count as a current customer
// relationship.
var openStatuses = []string{
	constants.EnrollmentStatusTrial,
	constants.EnrollmentStatusActive,
}

// Create inserts an enrollment.
func (r *GormEnrollmentRepository) Create(enrollment *models.Enrollment) error {
	return r.db.Create(enrollment).Error
}

// GetByID fetches an enrollment with its family and student preloaded.
func (r *GormEnrollmentRepository) GetByID(id uint) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := r.db.Preload("Family").Preload("Student").First(&enrollment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &enrollment, nil
}

// HasOpenByFamilyID reports whether the family holds a trial or active
// enrollment.
func (r *GormEnrollmentRepository) HasOpenByFamilyID(familyID uint) (bool, error) {
	var total int64
	err := r.db.Model(&models.Enrollment{}).
		Where("family_id = ? AND status IN ?", familyID, openStatuses).
		Count(&total).Error
	if err != nil {
		return false, err
	}
	return total > 0, nil
}

// ListOpenWithStudents lists trial and active enrollments with family and
// student preloaded, for roster reconciliation.
func (r *GormEnrollmentRepository) ListOpenWithStudents() ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := r.db.Preload("Family").Preload("Student").
		Where("status IN ?", openStatuses).
		Order("id asc").
		Find(&enrollments).Error
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
