package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupWebhookEventRepositoryTest(t *testing.T) (*GormWebhookEventRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:webhook_event_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.WebhookEvent{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewWebhookEventRepository(db), db
}

func TestWebhookEventRepositoryInsertProcessingDeduplicates(t *testing.T) {
	repo, _ := setupWebhookEventRepositoryTest(t)

	first := models.WebhookEvent{
		EventID:   "evt_dup_001",
		EventType: "checkout.session.completed",
	}
	inserted, err := repo.InsertProcessing(&first)
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if !inserted {
		t.Fatalf("first insert should report inserted")
	}

	second := models.WebhookEvent{
		EventID:   "evt_dup_001",
		EventType: "checkout.session.completed",
	}
	inserted, err = repo.InsertProcessing(&second)
	if err != nil {
		t.Fatalf("duplicate insert failed: %v", err)
	}
	if inserted {
		t.Fatalf("duplicate insert should report not inserted")
	}

	row, err := repo.GetByEventID("evt_dup_001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if row == nil {
		t.Fatalf("expected ledger row")
	}
	if row.Status != constants.WebhookEventStatusProcessing {
		t.Fatalf("status want processing got %s", row.Status)
	}
}

func TestWebhookEventRepositoryReclaimForRetry(t *testing.T) {
	repo, _ := setupWebhookEventRepositoryTest(t)

	event := models.WebhookEvent{
		EventID:   "evt_retry_001",
		EventType: "payment_intent.succeeded",
	}
	if _, err := repo.InsertProcessing(&event); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	if err := repo.MarkFailed("evt_retry_001", "invoice not found"); err != nil {
		t.Fatalf("mark failed failed: %v", err)
	}

	reclaimed, err := repo.ReclaimForRetry("evt_retry_001", models.JSON{"attempt": float64(2)})
	if err != nil {
		t.Fatalf("reclaim failed: %v", err)
	}
	if !reclaimed {
		t.Fatalf("failed row should be reclaimable")
	}

	row, err := repo.GetByEventID("evt_retry_001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if row.Status != constants.WebhookEventStatusProcessing {
		t.Fatalf("status want processing got %s", row.Status)
	}
	if row.ErrorMessage != "" {
		t.Fatalf("error message should be cleared, got %q", row.ErrorMessage)
	}
}

func TestWebhookEventRepositoryReclaimSkipsProcessed(t *testing.T) {
	repo, _ := setupWebhookEventRepositoryTest(t)

	event := models.WebhookEvent{
		EventID:   "evt_done_001",
		EventType: "checkout.session.completed",
	}
	if _, err := repo.InsertProcessing(&event); err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	amount := models.NewMoneyFromDecimal(decimal.NewFromInt(40))
	if err := repo.MarkProcessed("evt_done_001", 7, amount, time.Now().UTC()); err != nil {
		t.Fatalf("mark processed failed: %v", err)
	}

	reclaimed, err := repo.ReclaimForRetry("evt_done_001", nil)
	if err != nil {
		t.Fatalf("reclaim failed: %v", err)
	}
	if reclaimed {
		t.Fatalf("processed row must not be reclaimed")
	}

	row, err := repo.GetByEventID("evt_done_001")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if row.Status != constants.WebhookEventStatusProcessed {
		t.Fatalf("status want processed got %s", row.Status)
	}
	if row.InvoiceID == nil || *row.InvoiceID != 7 {
		t.Fatalf("invoice id want 7 got %v", row.InvoiceID)
	}
	if !row.AmountApplied.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("amount applied want 40 got %s", row.AmountApplied.String())
	}
}
