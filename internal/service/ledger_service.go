package service

import (
	"strings"
	"time"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"

	"go.uber.org/zap"
)

// LedgerService guards payment event processing: one provider event id is
// applied at most once, no matter how many times the provider delivers it.
type LedgerService struct {
	eventRepo repository.WebhookEventRepository
}

// NewLedgerService creates a ledger service.
func NewLedgerService(eventRepo repository.WebhookEventRepository) *LedgerService {
	return &LedgerService{eventRepo: eventRepo}
}

func ledgerLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// BeginProcessing registers an event for processing. It returns
// alreadyProcessed=true when a prior delivery reached terminal success, in
// which case the caller must skip all side effects and report success.
//
// A row left in failed, or stuck in processing by a crashed attempt, is
// reclaimed with a single guarded update so the row never disappears between
// attempts. Concurrent deliveries race on the event_id unique index; the
// loser of both the insert and the reclaim reports alreadyProcessed=true and
// backs off.
func (s *LedgerService) BeginProcessing(eventID, eventType string, payload models.JSON) (bool, error) {
	log := ledgerLogger("event_id", eventID, "event_type", eventType)

	inserted, err := s.eventRepo.InsertProcessing(&models.WebhookEvent{
		EventID:   strings.TrimSpace(eventID),
		EventType: strings.TrimSpace(eventType),
		Payload:   payload,
	})
	if err != nil {
		log.Errorw("ledger_insert_failed", "error", err)
		return false, ErrLedgerUpdateFailed
	}
	if inserted {
		return false, nil
	}

	existing, err := s.eventRepo.GetByEventID(eventID)
	if err != nil {
		log.Errorw("ledger_lookup_failed", "error", err)
		return false, ErrLedgerUpdateFailed
	}
	if existing == nil {
		// Insert lost the race and the winner's row is not visible yet.
		log.Warnw("ledger_row_missing_after_conflict")
		return true, nil
	}
	if existing.Status == constants.WebhookEventStatusProcessed {
		log.Infow("ledger_event_already_processed")
		return true, nil
	}

	reclaimed, err := s.eventRepo.ReclaimForRetry(eventID, payload)
	if err != nil {
		log.Errorw("ledger_reclaim_failed", "error", err)
		return false, ErrLedgerUpdateFailed
	}
	if !reclaimed {
		// A concurrent attempt finished or took the row between the read
		// and the update.
		log.Infow("ledger_reclaim_lost_race")
		return true, nil
	}
	log.Infow("ledger_event_reclaimed", "previous_status", existing.Status)
	return false, nil
}

// FinishProcessed records terminal success. Best-effort: the payment has
// already been applied, so a ledger write failure is logged and swallowed.
func (s *LedgerService) FinishProcessed(eventID string, invoiceID uint, amount models.Money) {
	if err := s.eventRepo.MarkProcessed(eventID, invoiceID, amount, time.Now().UTC()); err != nil {
		ledgerLogger("event_id", eventID, "invoice_id", invoiceID).
			Errorw("ledger_mark_processed_failed", "error", err)
	}
}

// FinishFailed records a terminal, retryable failure. Best-effort.
func (s *LedgerService) FinishFailed(eventID string, cause error) {
	message := ""
	if cause != nil {
		message = cause.Error()
	}
	if err := s.eventRepo.MarkFailed(eventID, message); err != nil {
		ledgerLogger("event_id", eventID).
			Errorw("ledger_mark_failed_failed", "error", err)
	}
}
