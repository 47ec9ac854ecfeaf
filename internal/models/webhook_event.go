package models

import (
	"time"
)

// WebhookEvent is the idempotency ledger: one row per provider event id,
// recording processing status so repeated deliveries never apply twice.
// The unique index on EventID is the sole serialization point for
// concurrent deliveries of the same event.
type WebhookEvent struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	EventID       string     `gorm:"uniqueIndex;not null" json:"event_id"`
	EventType     string     `gorm:"index;not null" json:"event_type"`
	Status        string     `gorm:"index;not null" json:"status"`
	InvoiceID     *uint      `gorm:"index" json:"invoice_id,omitempty"`
	AmountApplied Money      `gorm:"type:decimal(20,2);not null;default:0" json:"amount_applied"`
	ErrorMessage  string     `gorm:"type:text" json:"error_message,omitempty"`
	Payload       JSON       `gorm:"type:json" json:"payload,omitempty"`
	ProcessedAt   *time.Time `gorm:"index" json:"processed_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TableName sets the table name.
func (WebhookEvent) TableName() string {
	return "webhook_events"
}
