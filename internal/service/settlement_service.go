package service

import (
	"time"

	"github.com/brightpods/admin-api/internal/constants"
	"github.com/brightpods/admin-api/internal/logger"
	"github.com/brightpods/admin-api/internal/models"
	"github.com/brightpods/admin-api/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettlementService applies confirmed payment amounts to invoices and
// cascades paid status to linked event orders.
type SettlementService struct {
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	orderRepo   repository.EventOrderRepository
}

// NewSettlementService creates a settlement service.
func NewSettlementService(invoiceRepo repository.InvoiceRepository, paymentRepo repository.PaymentRepository, orderRepo repository.EventOrderRepository) *SettlementService {
	return &SettlementService{
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		orderRepo:   orderRepo,
	}
}

func settlementLogger(kv ...interface{}) *zap.SugaredLogger {
	if len(kv) == 0 {
		return logger.S()
	}
	return logger.SW(kv...)
}

// ApplyPaymentInput describes one payment to settle against an invoice.
type ApplyPaymentInput struct {
	InvoiceID   uint
	Amount      models.Money
	Method      string
	ProviderRef string
	PaidAt      *time.Time
}

// ApplyPaymentResult reports the invoice state after settlement.
type ApplyPaymentResult struct {
	Invoice      *models.Invoice
	Payment      *models.Payment
	BecamePaid   bool
	OrdersMarked int
	OrdersFailed int
}

// ApplyPayment inserts the Payment row and advances the invoice balance and
// status in one transaction. The Payment insert runs first: a crash between
// the two leaves a Payment with no balance update, so the recorded balance
// understates rather than overstates what was received.
//
// Invoice status only moves forward here: partial when a balance remains,
// paid when the balance reaches zero or below. The order cascade runs after
// the transaction commits; a cascade failure is logged and surfaced in the
// result, never retried and never unwinding the settlement.
func (s *SettlementService) ApplyPayment(input ApplyPaymentInput) (*ApplyPaymentResult, error) {
	log := settlementLogger(
		"invoice_id", input.InvoiceID,
		"amount", input.Amount.String(),
		"provider_ref", input.ProviderRef,
	)
	if input.InvoiceID == 0 {
		return nil, ErrInvoiceNotFound
	}
	if input.Amount.LessThanOrEqual(decimal.Zero) {
		log.Warnw("settlement_amount_invalid")
		return nil, ErrValidation
	}
	method := input.Method
	if method == "" {
		method = constants.PaymentMethodStripe
	}
	paidAt := time.Now().UTC()
	if input.PaidAt != nil && !input.PaidAt.IsZero() {
		paidAt = input.PaidAt.UTC()
	}

	result := &ApplyPaymentResult{}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		invoiceRepo := s.invoiceRepo.WithTx(tx)
		invoice, err := invoiceRepo.GetByID(input.InvoiceID)
		if err != nil {
			log.Errorw("settlement_invoice_fetch_failed", "error", err)
			return ErrSettlementFailed
		}
		if invoice == nil {
			return ErrInvoiceNotFound
		}

		payment := &models.Payment{
			InvoiceID:   invoice.ID,
			Amount:      input.Amount,
			Method:      method,
			ProviderRef: input.ProviderRef,
			PaidAt:      paidAt,
		}
		if err := s.paymentRepo.WithTx(tx).Create(payment); err != nil {
			log.Errorw("settlement_payment_insert_failed", "error", err)
			return ErrSettlementFailed
		}

		newPaid := models.NewMoneyFromDecimal(invoice.AmountPaid.Add(input.Amount.Decimal))
		newBalance := models.NewMoneyFromDecimal(invoice.TotalAmount.Sub(newPaid.Decimal))
		invoice.AmountPaid = newPaid
		invoice.BalanceDue = newBalance
		if newBalance.LessThanOrEqual(decimal.Zero) {
			invoice.Status = constants.InvoiceStatusPaid
			invoice.PaidAt = &paidAt
			result.BecamePaid = true
		} else {
			invoice.Status = constants.InvoiceStatusPartial
		}
		if err := invoiceRepo.Update(invoice); err != nil {
			log.Errorw("settlement_invoice_update_failed", "error", err)
			return ErrSettlementFailed
		}

		result.Invoice = invoice
		result.Payment = payment
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.BecamePaid {
		marked, failed := s.cascadeOrders(result.Invoice.ID, paidAt)
		result.OrdersMarked = marked
		result.OrdersFailed = failed
	}

	log.Infow("settlement_applied",
		"status", result.Invoice.Status,
		"amount_paid", result.Invoice.AmountPaid.String(),
		"balance_due", result.Invoice.BalanceDue.String(),
		"orders_marked", result.OrdersMarked,
	)
	return result, nil
}

// cascadeOrders marks the invoice's unpaid orders paid. Per-row failures are
// logged and counted for manual reconciliation.
func (s *SettlementService) cascadeOrders(invoiceID uint, paidAt time.Time) (int, int) {
	log := settlementLogger("invoice_id", invoiceID)
	orders, err := s.orderRepo.ListByInvoiceID(invoiceID)
	if err != nil {
		log.Errorw("settlement_cascade_list_failed", "error", err)
		return 0, 0
	}
	marked := 0
	failed := 0
	for i := range orders {
		order := &orders[i]
		if order.PaymentStatus == constants.OrderPaymentStatusPaid {
			continue
		}
		if err := s.orderRepo.MarkPaid(order.ID, paidAt); err != nil {
			failed++
			log.Errorw("settlement_cascade_order_failed",
				"order_id", order.ID,
				"error", err,
			)
			continue
		}
		marked++
	}
	return marked, failed
}
