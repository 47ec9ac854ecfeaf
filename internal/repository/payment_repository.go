package repository

import (
	"strings"

	"github.com/brightpods/admin-api/internal/models"

	"gorm.io/gorm"
)

// PaymentRepository is the payment data access interface.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	ListByInvoiceID(invoiceID uint) ([]models.Payment, error)
	GetLatestByProviderRef(providerRef string) (*models.Payment, error)
	CountByProviderRef(providerRef string) (int64, error)
	WithTx(tx *gorm.DB) *GormPaymentRepository
}

// GormPaymentRepository is the GORM implementation.
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewPaymentRepository creates a payment repository.
func NewPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormPaymentRepository) WithTx(tx *gorm.DB) *GormPaymentRepository {
	if tx == nil {
		return r
	}
	return &GormPaymentRepository{db: tx}
}

// Create inserts a payment row. Payments are immutable once written.
func (r *GormPaymentRepository) Create(payment *models.Payment) error {
	return r.db.Create(payment).Error
}

// ListByInvoiceID lists payments applied to an invoice, newest first.
func (r *GormPaymentRepository) ListByInvoiceID(invoiceID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := r.db.Where("invoice_id = ?", invoiceID).Order("id desc").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// GetLatestByProviderRef fetches the newest payment for a provider reference.
func (r *GormPaymentRepository) GetLatestByProviderRef(providerRef string) (*models.Payment, error) {
	providerRef = strings.TrimSpace(providerRef)
	if providerRef == "" {
		return nil, nil
	}
	var payment models.Payment
	result := r.db.Where("provider_ref = ?", providerRef).Order("id desc").Limit(1).Find(&payment)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &payment, nil
}

// CountByProviderRef counts payments carrying a provider reference.
func (r *GormPaymentRepository) CountByProviderRef(providerRef string) (int64, error) {
	providerRef = strings.TrimSpace(providerRef)
	if providerRef == "" {
		return 0, nil
	}
	var total int64
	if err := r.db.Model(&models.Payment{}).Where("provider_ref = ?", providerRef).Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}
