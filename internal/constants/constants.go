package constants

// Invoice status constants
const (
	InvoiceStatusDraft   = "draft"
	InvoiceStatusSent    = "sent"
	InvoiceStatusPartial = "partial"
	InvoiceStatusPaid    = "paid"
	InvoiceStatusOverdue = "overdue"
)

// Webhook event (idempotency ledger) status constants
const (
	WebhookEventStatusProcessing = "processing"
	WebhookEventStatusProcessed  = "processed"
	WebhookEventStatusFailed     = "failed"
)

// Event order payment status constants
const (
	OrderPaymentStatusUnpaid = "unpaid"
	OrderPaymentStatusPaid   = "paid"
)

// Payment method constants
const (
	PaymentMethodStripe = "stripe"
	PaymentMethodManual = "manual"
)

// Lead type constants
const (
	LeadTypeExitIntent = "exit_intent"
	LeadTypeWaitlist   = "waitlist"
)

// Lead status constants
const (
	LeadStatusNew       = "new"
	LeadStatusContacted = "contacted"
	LeadStatusConverted = "converted"
	LeadStatusClosed    = "closed"
)

// Family status constants
const (
	FamilyStatusLead     = "lead"
	FamilyStatusActive   = "active"
	FamilyStatusInactive = "inactive"
)

// Enrollment status constants
const (
	EnrollmentStatusTrial  = "trial"
	EnrollmentStatusActive = "active"
	EnrollmentStatusPaused = "paused"
	EnrollmentStatusEnded  = "ended"
)

// Onboarding item status and type constants
const (
	OnboardingStatusPending   = "pending"
	OnboardingStatusSent      = "sent"
	OnboardingStatusCompleted = "completed"

	OnboardingItemTypeForm     = "form"
	OnboardingItemTypeDocument = "document"
)
