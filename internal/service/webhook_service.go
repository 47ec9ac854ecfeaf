package service

import (
	"errors"
	"strings"
	"time"

	"github.com/brightpods/admin-api/internal/config"
	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/payment/stripe"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Webhook outcome actions reported to the provider.
const (
	WebhookActionProcessed = "processed"
	WebhookActionDuplicate = "duplicate"
	WebhookActionIgnored   = "ignored"
)

// WebhookService verifies inbound Stripe events and drives them through the
// idempotency ledger and the settlement engine.
type WebhookService struct {
	cfg        config.StripeConfig
	ledger     *LedgerService
	settlement *SettlementService
}

// NewWebhookService creates a webhook service.
func NewWebhookService(cfg config.StripeConfig, ledger *LedgerService, settlement *SettlementService) *WebhookService {
	return &WebhookService{
		cfg:        cfg,
		ledger:     ledger,
		settlement: settlement,
	}
}

func webhookLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// WebhookInput carries the raw request exactly as received. Body must be the
// untouched bytes; signature verification runs over them.
type WebhookInput struct {
	Headers map[string]string
	Body    []byte
}

// WebhookOutcome is the handler-facing result of one delivery.
type WebhookOutcome struct {
	EventID   string
	EventType string
	Action    string
	InvoiceID uint
	Amount    models.Money
}

// HandleStripeWebhook verifies, deduplicates, and settles one delivery.
//
// Verification failures reject the request with no state change. Non-settling
// event types are acknowledged and ignored. Settlement failures after ledger
// registration are recorded as a failed ledger row so a later redelivery
// retries them.
func (s *WebhookService) HandleStripeWebhook(input WebhookInput) (*WebhookOutcome, error) {
	log := webhookLogger("provider", constants.PaymentMethodStripe, "body_size", len(input.Body))

	stripeCfg := &stripe.Config{
		SecretKey:               s.cfg.SecretKey,
		WebhookSecret:           s.cfg.WebhookSecret,
		WebhookToleranceSeconds: s.cfg.WebhookToleranceSeconds,
	}
	if err := stripe.ValidateConfig(stripeCfg); err != nil {
		log.Errorw("payment_webhook_config_invalid", "error", err)
		return nil, ErrWebhookConfigInvalid
	}

	result, err := stripe.VerifyAndParseWebhook(stripeCfg, input.Headers, input.Body, time.Now())
	if err != nil {
		log.Warnw("payment_webhook_verify_failed", "error", err)
		return nil, mapStripeError(err)
	}
	log = webhookLogger(
		"provider", constants.PaymentMethodStripe,
		"event_id", result.EventID,
		"event_type", result.EventType,
	)
	log.Infow("payment_webhook_event_parsed",
		"invoice_id", result.InvoiceID,
		"provider_ref", result.ProviderRef,
	)

	if !stripe.IsSettlementEvent(result.EventType) {
		log.Infow("payment_webhook_event_ignored")
		return &WebhookOutcome{
			EventID:   result.EventID,
			EventType: result.EventType,
			Action:    WebhookActionIgnored,
		}, nil
	}

	payload := models.JSON{}
	if result.Raw != nil {
		payload = models.JSON(result.Raw)
	}
	alreadyProcessed, err := s.ledger.BeginProcessing(result.EventID, result.EventType, payload)
	if err != nil {
		return nil, err
	}
	if alreadyProcessed {
		log.Infow("payment_webhook_duplicate_delivery")
		return &WebhookOutcome{
			EventID:   result.EventID,
			EventType: result.EventType,
			Action:    WebhookActionDuplicate,
		}, nil
	}

	amount, err := parseWebhookAmount(result.Amount)
	if err != nil {
		log.Warnw("payment_webhook_amount_invalid", "amount", result.Amount)
		s.ledger.FinishFailed(result.EventID, err)
		return nil, err
	}
	if result.InvoiceID == 0 {
		log.Warnw("payment_webhook_invoice_missing")
		err := ErrInvoiceNotFound
		s.ledger.FinishFailed(result.EventID, err)
		return nil, err
	}

	applied, err := s.settlement.ApplyPayment(ApplyPaymentInput{
		InvoiceID:   result.InvoiceID,
		Amount:      amount,
		Method:      constants.PaymentMethodStripe,
		ProviderRef: result.ProviderRef,
		PaidAt:      result.PaidAt,
	})
	if err != nil {
		log.Errorw("payment_webhook_settlement_failed", "error", err)
		s.ledger.FinishFailed(result.EventID, err)
		return nil, err
	}

	s.ledger.FinishProcessed(result.EventID, applied.Invoice.ID, amount)
	log.Infow("payment_webhook_processed",
		"invoice_id", applied.Invoice.ID,
		"invoice_status", applied.Invoice.Status,
		"amount", amount.String(),
		"orders_marked", applied.OrdersMarked,
	)
	return &WebhookOutcome{
		EventID:   result.EventID,
		EventType: result.EventType,
		Action:    WebhookActionProcessed,
		InvoiceID: applied.Invoice.ID,
		Amount:    amount,
	}, nil
}

func parseWebhookAmount(raw string) (models.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.Money{}, ErrWebhookPayloadInvalid
	}
	parsed, err := decimal.NewFromString(raw)
	if err != nil || parsed.LessThanOrEqual(decimal.Zero) {
		return models.Money{}, ErrWebhookPayloadInvalid
	}
	return models.NewMoneyFromDecimal(parsed), nil
}

func mapStripeError(err error) error {
	switch {
	case errors.Is(err, stripe.ErrConfigInvalid):
		return ErrWebhookConfigInvalid
	case errors.Is(err, stripe.ErrSignatureInvalid):
		return ErrWebhookSignatureInvalid
	default:
		return ErrWebhookPayloadInvalid
	}
}
