package controller

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	domainErrors "github.com/haimle/botshop/internal/domain/errors"
	"github.com/haimle/botshop/internal/infrastructure/observability"
	"github.com/haimle/botshop/internal/service"
	"github.com/haimle/botshop/pkg/sepay"
)

// maxWebhookBodyBytes caps webhook payload size. SePay payloads are small;
// anything bigger is not a legitimate delivery.
const maxWebhookBodyBytes = 1 << 20

// WebhookController receives payment notifications from SePay.
type WebhookController struct {
	fulfillment   *service.FulfillmentService
	webhookSecret string
	metrics       *observability.Metrics
	logger        zerolog.Logger
}

// NewWebhookController creates a new WebhookController.
func NewWebhookController(
	fulfillment *service.FulfillmentService,
	webhookSecret string,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *WebhookController {
	return &WebhookController{
		fulfillment:   fulfillment,
		webhookSecret: webhookSecret,
		metrics:       metrics,
		logger:        logger,
	}
}

// HandleSePay handles POST /api/v1/webhooks/sepay.
//
// The signature is checked against the raw body before any parsing: a payload
// that fails verification must not influence anything, including logs keyed by
// fields it claims to carry.
func (c *WebhookController) HandleSePay(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBodyBytes))
	if err != nil {
		c.observe("read_error", start)
		writeError(w, domainErrors.NewValidationError("body", "failed to read request body"))
		return
	}

	signature := r.Header.Get("X-Sepay-Signature")
	if !sepay.VerifySignature(body, signature, c.webhookSecret) {
		c.logger.Warn().Str("remote_addr", r.RemoteAddr).Msg("webhook signature verification failed")
		c.observe("invalid_signature", start)
		writeError(w, domainErrors.ErrInvalidSignature)
		return
	}

	var payload sepay.WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		c.observe("invalid_payload", start)
		writeError(w, domainErrors.NewValidationError("body", "invalid JSON payload"))
		return
	}
	if payload.TransactionID == "" {
		c.observe("invalid_payload", start)
		writeError(w, domainErrors.NewValidationError("transaction_id", "required"))
		return
	}

	result, err := c.fulfillment.ProcessWebhook(r.Context(), body, payload)
	if err != nil {
		c.observe(outcomeForError(err), start)
		writeError(w, err)
		return
	}

	c.observe(result.Outcome, start)
	writeJSON(w, http.StatusOK, WebhookResponse{Success: true, Message: result.Outcome})
}

func (c *WebhookController) observe(outcome string, start time.Time) {
	c.metrics.WebhookEventsTotal.WithLabelValues(outcome).Inc()
	c.metrics.WebhookDuration.Observe(time.Since(start).Seconds())
}

func outcomeForError(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrMalformedContent):
		return "malformed_content"
	case errors.Is(err, domainErrors.ErrOrderNotFound):
		return "order_not_found"
	case errors.Is(err, domainErrors.ErrAmountMismatch):
		return "amount_mismatch"
	case errors.Is(err, domainErrors.ErrCodeAssignment):
		return "code_assignment_failed"
	default:
		return "error"
	}
}
