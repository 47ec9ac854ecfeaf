package service

import "errors"

// Sentinel errors returned by services, mapped to HTTP statuses at the
// handler boundary.
var (
	ErrValidation = errors.New("validation failed")

	ErrWebhookConfigInvalid    = errors.New("webhook config invalid")
	ErrWebhookSignatureInvalid = errors.New("webhook signature invalid")
	ErrWebhookPayloadInvalid   = errors.New("webhook payload invalid")

	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrSettlementFailed    = errors.New("settlement failed")
	ErrLedgerUpdateFailed  = errors.New("ledger update failed")
	ErrEnrollmentNotFound  = errors.New("enrollment not found")
	ErrLeadCreateFailed    = errors.New("lead create failed")
	ErrFormCheckFailed     = errors.New("form check request failed")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
