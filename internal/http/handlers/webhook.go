package handlers

import (
	"errors"
	"io"

	"github.com/brightpods/admin-api/internal/http/response"
	"github.com/brightpods/admin-api/internal/service"

	"github.com/gin-gonic/gin"
)

// StripeWebhook receives Stripe event deliveries. The raw body is passed to
// verification untouched; any re-serialization would break the signature.
func (h *Handler) StripeWebhook(c *gin.Context) {
	log := requestLog(c)

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		log.Warnw("stripe_webhook_body_read_failed", "error", err)
		response.BadRequest(c, "request body unreadable")
		return
	}
	headers := make(map[string]string, len(c.Request.Header))
	for key, values := range c.Request.Header {
		if len(values) == 0 {
			continue
		}
		headers[key] = values[0]
	}

	outcome, err := h.WebhookService.HandleStripeWebhook(service.WebhookInput{
		Headers: headers,
		Body:    body,
	})
	if err != nil {
		log.Warnw("stripe_webhook_handle_failed", "error", err)
		switch {
		case errors.Is(err, service.ErrWebhookSignatureInvalid),
			errors.Is(err, service.ErrWebhookPayloadInvalid):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrWebhookConfigInvalid):
			response.Internal(c, "webhook configuration missing")
		default:
			response.Internal(c, err.Error())
		}
		return
	}

	response.Success(c, gin.H{
		"event_id":   outcome.EventID,
		"event_type": outcome.EventType,
		"action":     outcome.Action,
		"invoice_id": outcome.InvoiceID,
		"amount":     outcome.Amount,
	})
}
