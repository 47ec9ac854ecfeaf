package stripe

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"
)

const testSecret = "whsec_test_secret"

func signBody(secret string, timestamp int64, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(fmt.Sprintf("%d.%s", timestamp, body)))
	return hex.EncodeToString(mac.Sum(nil))
}

func signedHeaders(secret string, timestamp int64, body []byte) map[string]string {
	return map[string]string{
		"Stripe-Signature": fmt.Sprintf("t=%d,v1=%s", timestamp, signBody(secret, timestamp, body)),
	}
}

func checkoutBody(eventID string, invoiceID uint, amountMinor int64, currency string) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_001",
				"object": "checkout.session",
				"amount_total": %d,
				"currency": %q,
				"created": 1756000000,
				"metadata": {"invoice_id": "%d"}
			}
		}
	}`, eventID, amountMinor, currency, invoiceID))
}

func TestVerifyAndParseWebhookValid(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret}
	body := checkoutBody("evt_001", 42, 12550, "usd")
	now := time.Unix(1756000100, 0)

	result, err := VerifyAndParseWebhook(cfg, signedHeaders(testSecret, now.Unix(), body), body, now)
	if err != nil {
		t.Fatalf("VerifyAndParseWebhook error: %v", err)
	}
	if result.EventID != "evt_001" {
		t.Fatalf("event id = %q", result.EventID)
	}
	if result.EventType != "checkout.session.completed" {
		t.Fatalf("event type = %q", result.EventType)
	}
	if result.InvoiceID != 42 {
		t.Fatalf("invoice id = %d", result.InvoiceID)
	}
	if result.ProviderRef != "cs_test_001" {
		t.Fatalf("provider ref = %q", result.ProviderRef)
	}
	if result.Amount != "125.50" {
		t.Fatalf("amount = %q, want 125.50", result.Amount)
	}
	if result.Currency != "USD" {
		t.Fatalf("currency = %q", result.Currency)
	}
	if result.PaidAt == nil || result.PaidAt.Unix() != 1756000000 {
		t.Fatalf("paid at = %v", result.PaidAt)
	}
}

func TestVerifyAndParseWebhookHeaderCaseInsensitive(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret}
	body := checkoutBody("evt_002", 7, 5000, "usd")
	now := time.Unix(1756000100, 0)
	headers := map[string]string{
		"stripe-signature": fmt.Sprintf("t=%d,v1=%s", now.Unix(), signBody(testSecret, now.Unix(), body)),
	}

	if _, err := VerifyAndParseWebhook(cfg, headers, body, now); err != nil {
		t.Fatalf("lowercase header rejected: %v", err)
	}
}

func TestVerifyAndParseWebhookWrongSecret(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret}
	body := checkoutBody("evt_003", 7, 5000, "usd")
	now := time.Unix(1756000100, 0)

	_, err := VerifyAndParseWebhook(cfg, signedHeaders("whsec_other", now.Unix(), body), body, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyAndParseWebhookTamperedBody(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret}
	body := checkoutBody("evt_004", 7, 5000, "usd")
	now := time.Unix(1756000100, 0)
	headers := signedHeaders(testSecret, now.Unix(), body)
	tampered := checkoutBody("evt_004", 7, 1, "usd")

	_, err := VerifyAndParseWebhook(cfg, headers, tampered, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyAndParseWebhookTimestampOutsideTolerance(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret, WebhookToleranceSeconds: 300}
	body := checkoutBody("evt_005", 7, 5000, "usd")
	signedAt := time.Unix(1756000000, 0)
	now := signedAt.Add(10 * time.Minute)

	_, err := VerifyAndParseWebhook(cfg, signedHeaders(testSecret, signedAt.Unix(), body), body, now)
	if !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("err = %v, want ErrSignatureInvalid", err)
	}
}

func TestVerifyAndParseWebhookMissingConfig(t *testing.T) {
	body := checkoutBody("evt_006", 7, 5000, "usd")
	now := time.Unix(1756000100, 0)

	_, err := VerifyAndParseWebhook(&Config{}, signedHeaders(testSecret, now.Unix(), body), body, now)
	if !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("err = %v, want ErrConfigInvalid", err)
	}
}

func TestVerifyAndParseWebhookBadPayload(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret}
	now := time.Unix(1756000100, 0)

	cases := []struct {
		name string
		body []byte
	}{
		{"not json", []byte("not-json")},
		{"missing id", []byte(`{"type":"checkout.session.completed","data":{"object":{}}}`)},
		{"missing type", []byte(`{"id":"evt_007","data":{"object":{}}}`)},
		{"missing data object", []byte(`{"id":"evt_007","type":"checkout.session.completed"}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := VerifyAndParseWebhook(cfg, signedHeaders(testSecret, now.Unix(), tc.body), tc.body, now)
			if !errors.Is(err, ErrPayloadInvalid) {
				t.Fatalf("err = %v, want ErrPayloadInvalid", err)
			}
		})
	}
}

func TestVerifyAndParseWebhookPaymentIntentAmount(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret}
	body := []byte(`{
		"id": "evt_pi_001",
		"type": "payment_intent.succeeded",
		"data": {
			"object": {
				"id": "pi_test_001",
				"object": "payment_intent",
				"amount": 20000,
				"amount_received": 15000,
				"currency": "usd",
				"metadata": {"invoice_id": "9"}
			}
		}
	}`)
	now := time.Unix(1756000100, 0)

	result, err := VerifyAndParseWebhook(cfg, signedHeaders(testSecret, now.Unix(), body), body, now)
	if err != nil {
		t.Fatalf("VerifyAndParseWebhook error: %v", err)
	}
	if result.Amount != "150.00" {
		t.Fatalf("amount = %q, want amount_received 150.00", result.Amount)
	}
	if result.InvoiceID != 9 {
		t.Fatalf("invoice id = %d", result.InvoiceID)
	}
}

func TestVerifyAndParseWebhookZeroDecimalCurrency(t *testing.T) {
	cfg := &Config{WebhookSecret: testSecret}
	body := checkoutBody("evt_jpy_001", 3, 12000, "jpy")
	now := time.Unix(1756000100, 0)

	result, err := VerifyAndParseWebhook(cfg, signedHeaders(testSecret, now.Unix(), body), body, now)
	if err != nil {
		t.Fatalf("VerifyAndParseWebhook error: %v", err)
	}
	if result.Amount != "12000" {
		t.Fatalf("amount = %q, want 12000 (no minor units)", result.Amount)
	}
	if result.Currency != "JPY" {
		t.Fatalf("currency = %q", result.Currency)
	}
}

func TestParseSignatureHeader(t *testing.T) {
	timestamp, signatures, err := parseSignatureHeader("t=1756000000, v1=abc, v1=def, v0=ignored")
	if err != nil {
		t.Fatalf("parseSignatureHeader error: %v", err)
	}
	if timestamp != 1756000000 {
		t.Fatalf("timestamp = %d", timestamp)
	}
	if len(signatures) != 2 || signatures[0] != "abc" || signatures[1] != "def" {
		t.Fatalf("signatures = %v", signatures)
	}

	if _, _, err := parseSignatureHeader("v1=abc"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("missing timestamp: err = %v", err)
	}
	if _, _, err := parseSignatureHeader("t=1756000000"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("missing v1: err = %v", err)
	}
	if _, _, err := parseSignatureHeader("t=bad,v1=abc"); !errors.Is(err, ErrSignatureInvalid) {
		t.Fatalf("bad timestamp: err = %v", err)
	}
}

func TestIsSettlementEvent(t *testing.T) {
	settling := []string{
		"checkout.session.completed",
		"checkout.session.async_payment_succeeded",
		"payment_intent.succeeded",
		" Checkout.Session.Completed ",
	}
	for _, eventType := range settling {
		if !IsSettlementEvent(eventType) {
			t.Fatalf("IsSettlementEvent(%q) = false", eventType)
		}
	}
	for _, eventType := range []string{"charge.refunded", "invoice.paid", ""} {
		if IsSettlementEvent(eventType) {
			t.Fatalf("IsSettlementEvent(%q) = true", eventType)
		}
	}
}
