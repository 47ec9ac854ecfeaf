package models

import (
	"time"

	"gorm.io/gorm"
)

// EventOrder is a purchase linked to an invoice. Its payment status is
// cascaded to paid only when the linked invoice reaches status paid.
type EventOrder struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	InvoiceID     uint           `gorm:"index;not null" json:"invoice_id"`
	Description   string         `gorm:"type:text" json:"description,omitempty"`
	PaymentStatus string         `gorm:"index;not null" json:"payment_status"`
	PaidAt        *time.Time     `gorm:"index" json:"paid_at,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (EventOrder) TableName() string {
	return "event_orders"
}
