package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/infrastructure/metrics"
	"github.com/wekeepgrowing/semo-billing/internal/usecase"
	apperrors "github.com/wekeepgrowing/semo-billing/pkg/errors"
	"go.uber.org/zap"
)

// maxWebhookBodyBytes caps the size of a webhook delivery.
const maxWebhookBodyBytes int64 = 1 << 20

// WebhookProcessor verifies and applies billing provider events
type WebhookProcessor interface {
	Verify(payload []byte, signature string) (*entity.BillingEvent, error)
	Apply(ctx context.Context, event *entity.BillingEvent) (usecase.WebhookOutcome, error)
}

type WebhookHandler struct {
	logger    *zap.Logger
	processor WebhookProcessor
}

func NewWebhookHandler(logger *zap.Logger, processor WebhookProcessor) *WebhookHandler {
	return &WebhookHandler{
		logger:    logger,
		processor: processor,
	}
}

func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	start := time.Now()
	eventType := "unknown"

	respond := func(status int, body interface{}) error {
		metrics.WebhookRequestsTotal.WithLabelValues(eventType, strconv.Itoa(status)).Inc()
		metrics.WebhookDuration.WithLabelValues(eventType).Observe(time.Since(start).Seconds())
		return c.JSON(status, body)
	}

	c.Request().Body = http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBodyBytes)
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("Webhook body too large", zap.Int64("limit", tooLarge.Limit))
			return respond(http.StatusRequestEntityTooLarge, echo.Map{"error": "Request body too large"})
		}
		h.logger.Error("Error reading request body", zap.Error(err))
		return respond(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}
	if len(body) == 0 {
		return respond(http.StatusBadRequest, echo.Map{"error": "Invalid request body"})
	}

	sig := c.Request().Header.Get("Stripe-Signature")
	if sig == "" {
		return respond(http.StatusBadRequest, echo.Map{"error": "Invalid stripe-signature"})
	}

	event, err := h.processor.Verify(body, sig)
	if err != nil {
		h.logger.Warn("Webhook signature verification failed", zap.Error(err))
		return respond(http.StatusBadRequest, echo.Map{
			"error": "Webhook error: " + err.Error(),
		})
	}
	eventType = event.Type

	h.logger.Info("Webhook Event Received",
		zap.String("type", event.Type),
		zap.String("id", event.ID),
		zap.Time("created", event.Created),
	)

	outcome, err := h.processor.Apply(c.Request().Context(), event)
	if err != nil {
		apperrors.LogError(h.logger, apperrors.Wrap(err, "webhook processing failed"), "Webhook processing failed",
			zap.String("id", event.ID),
			zap.String("type", event.Type),
		)
		return respond(http.StatusInternalServerError, echo.Map{"error": "processing failed"})
	}

	h.logger.Debug("Webhook processed",
		zap.String("id", event.ID),
		zap.String("outcome", string(outcome)),
	)

	return respond(http.StatusOK, echo.Map{"received": true})
}
