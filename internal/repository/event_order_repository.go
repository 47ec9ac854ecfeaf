package repository

import (
	"time"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"

	"gorm.io/gorm"
)

// EventOrderRepository is the event order data access interface.
type EventOrderRepository interface {
	ListByInvoiceID(invoiceID uint) ([]models.EventOrder, error)
	MarkPaid(orderID uint, paidAt time.Time) error
	WithTx(tx *gorm.DB) *GormEventOrderRepository
}

// GormEventOrderRepository is the GORM implementation.
type GormEventOrderRepository struct {
	db *gorm.DB
}

// NewEventOrderRepository creates an event order repository.
func NewEventOrderRepository(db *gorm.DB) *GormEventOrderRepository {
	return &GormEventOrderRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormEventOrderRepository) WithTx(tx *gorm.DB) *GormEventOrderRepository {
	if tx == nil {
		return r
	}
	return &GormEventOrderRepository{db: tx}
}

// ListByInvoiceID lists orders linked to an invoice.
func (r *GormEventOrderRepository) ListByInvoiceID(invoiceID uint) ([]models.EventOrder, error) {
	var orders []models.EventOrder
	if err := r.db.Where("invoice_id = ?", invoiceID).Order("id asc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// MarkPaid stamps an order as paid.
func (r *GormEventOrderRepository) MarkPaid(orderID uint, paidAt time.Time) error {
	return r.db.Model(&models.EventOrder{}).
		Where("id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_status": constants.OrderPaymentStatusPaid,
			"paid_at":        paidAt,
		}).Error
}
