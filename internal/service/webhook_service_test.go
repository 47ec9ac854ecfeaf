package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const testWebhookSecret = "whsec_test_secret"

func setupWebhookServiceTest(t *testing.T) (*WebhookService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:webhook_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Invoice{},
		&models.Payment{},
		&models.EventOrder{},
		&models.WebhookEvent{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	eventRepo := repository.NewWebhookEventRepository(db)
	settlement := NewSettlementService(
		repository.NewInvoiceRepository(db),
		repository.NewPaymentRepository(db),
		repository.NewEventOrderRepository(db),
	)
	svc := NewWebhookService(
		config.StripeConfig{
			SecretKey:               "sk_test_123",
			WebhookSecret:           testWebhookSecret,
			WebhookToleranceSeconds: 300,
		},
		NewLedgerService(eventRepo),
		settlement,
	)
	return svc, db
}

func buildCheckoutSessionBody(eventID string, invoiceID uint, amountMinor int64) []byte {
	return []byte(fmt.Sprintf(
		`{"id":%q,"type":"checkout.session.completed","data":{"object":{"object":"checkout.session","id":"cs_%s","amount_total":%d,"currency":"usd","created":%d,"metadata":{"invoice_id":"%d"}}}}`,
		eventID, eventID, amountMinor, time.Now().Unix(), invoiceID,
	))
}

func signStripeBody(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(fmt.Sprintf("%d.%s", timestamp, body)))
	return fmt.Sprintf("t=%d,v1=%s", timestamp, hex.EncodeToString(mac.Sum(nil)))
}

func signedWebhookInput(body []byte) WebhookInput {
	return WebhookInput{
		Headers: map[string]string{
			"Stripe-Signature": signStripeBody(testWebhookSecret, time.Now().Unix(), body),
		},
		Body: body,
	}
}

func TestHandleStripeWebhookDuplicateDeliveryAppliesOnce(t *testing.T) {
	svc, db := setupWebhookServiceTest(t)
	invoice := createTestInvoice(t, db, 100)

	body := buildCheckoutSessionBody("evt_once_001", invoice.ID, 4000)

	first, err := svc.HandleStripeWebhook(signedWebhookInput(body))
	if err != nil {
		t.Fatalf("first delivery failed: %v", err)
	}
	if first.Action != WebhookActionProcessed {
		t.Fatalf("first action want processed got %s", first.Action)
	}

	second, err := svc.HandleStripeWebhook(signedWebhookInput(body))
	if err != nil {
		t.Fatalf("second delivery failed: %v", err)
	}
	if second.Action != WebhookActionDuplicate {
		t.Fatalf("second action want duplicate got %s", second.Action)
	}

	var paymentCount int64
	if err := db.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if paymentCount != 1 {
		t.Fatalf("payment rows want 1 got %d", paymentCount)
	}

	var reloaded models.Invoice
	if err := db.First(&reloaded, invoice.ID).Error; err != nil {
		t.Fatalf("reload invoice failed: %v", err)
	}
	if !reloaded.AmountPaid.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("amount paid want 40 got %s", reloaded.AmountPaid.String())
	}
	if reloaded.Status != constants.InvoiceStatusPartial {
		t.Fatalf("invoice status want partial got %s", reloaded.Status)
	}
}

func TestHandleStripeWebhookInvalidSignatureHasNoSideEffects(t *testing.T) {
	svc, db := setupWebhookServiceTest(t)
	invoice := createTestInvoice(t, db, 100)

	body := buildCheckoutSessionBody("evt_badsig_001", invoice.ID, 4000)
	input := WebhookInput{
		Headers: map[string]string{
			"Stripe-Signature": signStripeBody("whsec_wrong_secret", time.Now().Unix(), body),
		},
		Body: body,
	}

	_, err := svc.HandleStripeWebhook(input)
	if !errors.Is(err, ErrWebhookSignatureInvalid) {
		t.Fatalf("want ErrWebhookSignatureInvalid got %v", err)
	}

	var ledgerCount int64
	if err := db.Model(&models.WebhookEvent{}).Count(&ledgerCount).Error; err != nil {
		t.Fatalf("count ledger rows failed: %v", err)
	}
	if ledgerCount != 0 {
		t.Fatalf("ledger rows want 0 got %d", ledgerCount)
	}
	var paymentCount int64
	if err := db.Model(&models.Payment{}).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if paymentCount != 0 {
		t.Fatalf("payment rows want 0 got %d", paymentCount)
	}
}

func TestHandleStripeWebhookReclaimsStuckProcessing(t *testing.T) {
	svc, db := setupWebhookServiceTest(t)
	invoice := createTestInvoice(t, db, 100)

	// A crashed prior attempt left the row in processing.
	stuck := models.WebhookEvent{
		EventID:   "evt_stuck_001",
		EventType: "checkout.session.completed",
		Status:    constants.WebhookEventStatusProcessing,
	}
	if err := db.Create(&stuck).Error; err != nil {
		t.Fatalf("seed stuck ledger row failed: %v", err)
	}

	body := buildCheckoutSessionBody("evt_stuck_001", invoice.ID, 10000)
	outcome, err := svc.HandleStripeWebhook(signedWebhookInput(body))
	if err != nil {
		t.Fatalf("redelivery failed: %v", err)
	}
	if outcome.Action != WebhookActionProcessed {
		t.Fatalf("action want processed got %s", outcome.Action)
	}

	var paymentCount int64
	if err := db.Model(&models.Payment{}).Where("invoice_id = ?", invoice.ID).Count(&paymentCount).Error; err != nil {
		t.Fatalf("count payments failed: %v", err)
	}
	if paymentCount != 1 {
		t.Fatalf("payment rows want 1 got %d", paymentCount)
	}

	var ledgerRow models.WebhookEvent
	if err := db.Where("event_id = ?", "evt_stuck_001").First(&ledgerRow).Error; err != nil {
		t.Fatalf("reload ledger row failed: %v", err)
	}
	if ledgerRow.Status != constants.WebhookEventStatusProcessed {
		t.Fatalf("ledger status want processed got %s", ledgerRow.Status)
	}

	var reloaded models.Invoice
	if err := db.First(&reloaded, invoice.ID).Error; err != nil {
		t.Fatalf("reload invoice failed: %v", err)
	}
	if reloaded.Status != constants.InvoiceStatusPaid {
		t.Fatalf("invoice status want paid got %s", reloaded.Status)
	}
}

func TestHandleStripeWebhookIgnoresNonSettlementEvents(t *testing.T) {
	svc, db := setupWebhookServiceTest(t)

	body := []byte(fmt.Sprintf(
		`{"id":"evt_refund_001","type":"charge.refunded","data":{"object":{"object":"charge","id":"ch_1","amount":4000,"currency":"usd","created":%d}}}`,
		time.Now().Unix(),
	))
	outcome, err := svc.HandleStripeWebhook(signedWebhookInput(body))
	if err != nil {
		t.Fatalf("delivery failed: %v", err)
	}
	if outcome.Action != WebhookActionIgnored {
		t.Fatalf("action want ignored got %s", outcome.Action)
	}

	var ledgerCount int64
	if err := db.Model(&models.WebhookEvent{}).Count(&ledgerCount).Error; err != nil {
		t.Fatalf("count ledger rows failed: %v", err)
	}
	if ledgerCount != 0 {
		t.Fatalf("ignored event must not touch the ledger, got %d rows", ledgerCount)
	}
}

func TestHandleStripeWebhookMissingInvoiceMarksFailed(t *testing.T) {
	svc, db := setupWebhookServiceTest(t)

	body := buildCheckoutSessionBody("evt_noinv_001", 4242, 4000)
	_, err := svc.HandleStripeWebhook(signedWebhookInput(body))
	if !errors.Is(err, ErrInvoiceNotFound) {
		t.Fatalf("want ErrInvoiceNotFound got %v", err)
	}

	var ledgerRow models.WebhookEvent
	if err := db.Where("event_id = ?", "evt_noinv_001").First(&ledgerRow).Error; err != nil {
		t.Fatalf("reload ledger row failed: %v", err)
	}
	if ledgerRow.Status != constants.WebhookEventStatusFailed {
		t.Fatalf("ledger status want failed got %s", ledgerRow.Status)
	}
	if ledgerRow.ErrorMessage == "" {
		t.Fatalf("failed ledger row must carry an error message")
	}
}
