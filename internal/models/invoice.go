package models

import (
	"time"

	"gorm.io/gorm"
)

// Invoice is a billable document for a family. BalanceDue is always recomputed
// as TotalAmount - AmountPaid when a payment is applied, never drifted separately.
type Invoice struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	FamilyID    uint           `gorm:"index;not null" json:"family_id"`
	InvoiceNo   string         `gorm:"uniqueIndex;not null" json:"invoice_no"`
	Description string         `gorm:"type:text" json:"description,omitempty"`
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`
	AmountPaid  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount_paid"`
	BalanceDue  Money          `gorm:"type:decimal(20,2);not null;default:0" json:"balance_due"`
	Status      string         `gorm:"index;not null" json:"status"`
	DueDate     *time.Time     `gorm:"index" json:"due_date,omitempty"`
	PaidAt      *time.Time     `gorm:"index" json:"paid_at,omitempty"`
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	Orders []EventOrder `gorm:"foreignKey:InvoiceID" json:"orders,omitempty"`
}

// TableName sets the table name.
func (Invoice) TableName() string {
	return "invoices"
}
