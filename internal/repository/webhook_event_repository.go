package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WebhookEventRepository is the idempotency ledger data access interface.
type WebhookEventRepository interface {
	InsertProcessing(event *models.WebhookEvent) (bool, error)
	GetByEventID(eventID string) (*models.WebhookEvent, error)
	ReclaimForRetry(eventID string, payload models.JSON) (bool, error)
	MarkProcessed(eventID string, invoiceID uint, amount models.Money, processedAt time.Time) error
	MarkFailed(eventID string, message string) error
	WithTx(tx *gorm.DB) *GormWebhookEventRepository
}

// GormWebhookEventRepository is the GORM implementation.
type GormWebhookEventRepository struct {
	db *gorm.DB
}

// NewWebhookEventRepository creates a webhook event repository.
func NewWebhookEventRepository(db *gorm.DB) *GormWebhookEventRepository {
	return &GormWebhookEventRepository{db: db}
}

// WithTx binds the repository to a transaction.
func (r *GormWebhookEventRepository) WithTx(tx *gorm.DB) *GormWebhookEventRepository {
	if tx == nil {
		return r
	}
	return &GormWebhookEventRepository{db: tx}
}

// InsertProcessing inserts a fresh processing row for the event id. The unique
// index on event_id serializes concurrent deliveries: the insert reports false
// when another row already holds the id, without error.
func (r *GormWebhookEventRepository) InsertProcessing(event *models.WebhookEvent) (bool, error) {
	if event == nil {
		return false, errors.New("webhook event is nil")
	}
	event.Status = constants.WebhookEventStatusProcessing
	result := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetByEventID fetches the ledger row for a provider event id.
func (r *GormWebhookEventRepository) GetByEventID(eventID string) (*models.WebhookEvent, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return nil, nil
	}
	var event models.WebhookEvent
	result := r.db.Where("event_id = ?", eventID).Limit(1).Find(&event)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, nil
	}
	return &event, nil
}

// ReclaimForRetry resets a failed or stuck processing row to a fresh
// processing attempt with a single guarded update. The row never disappears
// between attempts, so a concurrent duplicate delivery always observes it.
func (r *GormWebhookEventRepository) ReclaimForRetry(eventID string, payload models.JSON) (bool, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return false, nil
	}
	updates := map[string]interface{}{
		"status":         constants.WebhookEventStatusProcessing,
		"error_message":  "",
		"amount_applied": models.Money{},
		"processed_at":   nil,
	}
	if payload != nil {
		updates["payload"] = payload
	}
	result := r.db.Model(&models.WebhookEvent{}).
		Where("event_id = ? AND status IN ?", eventID, []string{
			constants.WebhookEventStatusProcessing,
			constants.WebhookEventStatusFailed,
		}).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// MarkProcessed records a terminal success with the applied amount.
func (r *GormWebhookEventRepository) MarkProcessed(eventID string, invoiceID uint, amount models.Money, processedAt time.Time) error {
	return r.db.Model(&models.WebhookEvent{}).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Updates(map[string]interface{}{
			"status":         constants.WebhookEventStatusProcessed,
			"invoice_id":     invoiceID,
			"amount_applied": amount,
			"error_message":  "",
			"processed_at":   processedAt,
		}).Error
}

// MarkFailed records a terminal, retryable failure with its error message.
func (r *GormWebhookEventRepository) MarkFailed(eventID string, message string) error {
	return r.db.Model(&models.WebhookEvent{}).
		Where("event_id = ?", strings.TrimSpace(eventID)).
		Updates(map[string]interface{}{
			"status":        constants.WebhookEventStatusFailed,
			"error_message": strings.TrimSpace(message),
		}).Error
}
