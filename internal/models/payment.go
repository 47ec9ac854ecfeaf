package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment is an immutable ledger entry of money applied to an invoice.
// At most one row ever exists per provider event id; the webhook_events
// table is the gate enforcing that.
type Payment struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	InvoiceID   uint           `gorm:"index;not null" json:"invoice_id"`
	Amount      Money          `gorm:"type:decimal(20,2);not null" json:"amount"`
	Method      string         `gorm:"not null" json:"method"`
	ProviderRef string         `gorm:"index" json:"provider_ref"`
	PaidAt      time.Time      `gorm:"index;not null" json:"paid_at"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Payment) TableName() string {
	return "payments"
}
