package http

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	apperrors "github.com/wekeepgrowing/semo-billing/pkg/errors"
	"go.uber.org/zap"
)

// CheckoutIssuer issues hosted checkout sessions
type CheckoutIssuer interface {
	Issue(ctx context.Context, email, lookupKey string) (*entity.SessionResult, error)
}

// PortalIssuer issues billing portal sessions
type PortalIssuer interface {
	Issue(ctx context.Context, email string) (*entity.SessionResult, error)
}

type CheckoutHandler struct {
	logger   *zap.Logger
	checkout CheckoutIssuer
	portal   PortalIssuer
}

func NewCheckoutHandler(logger *zap.Logger, checkout CheckoutIssuer, portal PortalIssuer) *CheckoutHandler {
	return &CheckoutHandler{
		logger:   logger,
		checkout: checkout,
		portal:   portal,
	}
}

type CreateCheckoutRequest struct {
	LookupKey string `json:"lookup_key" validate:"required"`
}

type SessionURLResponse struct {
	URL string `json:"url"`
}

type refusal struct {
	// kind is the pkg/errors code that decides the status
	kind    string
	message string
	code    string
}

var refusals = map[entity.FailureReason]refusal{
	entity.ReasonUnauthenticated:    {apperrors.ErrUnauthenticated, "User not authenticated", "UNAUTHENTICATED"},
	entity.ReasonAccountNotFound:    {apperrors.ErrNotFound, "Account not found", "ACCOUNT_NOT_FOUND"},
	entity.ReasonCustomerNotFound:   {apperrors.ErrNotFound, "Stripe customer not found", "CUSTOMER_NOT_FOUND"},
	entity.ReasonAlreadySubscribed:  {apperrors.ErrConflict, "Already subscribed", "ALREADY_SUBSCRIBED"},
	entity.ReasonPriceNotFound:      {apperrors.ErrNotFound, "Price not found", "PRICE_NOT_FOUND"},
	entity.ReasonInvalidRequest:     {apperrors.ErrInvalidArgument, "lookup_key is required", "INVALID_REQUEST"},
	entity.ReasonSessionUnavailable: {apperrors.ErrUnavailable, "Checkout session unavailable", "SESSION_UNAVAILABLE"},
}

func (h *CheckoutHandler) CreateCheckoutSession(c echo.Context) error {
	var req CreateCheckoutRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
			"code":  "INVALID_REQUEST",
		})
	}

	// Validation failures fall through so the issuer applies its gates in order.
	if err := c.Validate(&req); err != nil {
		req.LookupKey = ""
	}

	result, err := h.checkout.Issue(c.Request().Context(), auth.SessionEmail(c), req.LookupKey)
	if err != nil {
		return internalError(c, h.logger, err, "Failed to create checkout session",
			zap.String("lookup_key", req.LookupKey),
		)
	}

	return h.respond(c, result)
}

func (h *CheckoutHandler) CreatePortalSession(c echo.Context) error {
	result, err := h.portal.Issue(c.Request().Context(), auth.SessionEmail(c))
	if err != nil {
		return internalError(c, h.logger, err, "Failed to create portal session")
	}

	return h.respond(c, result)
}

func (h *CheckoutHandler) respond(c echo.Context, result *entity.SessionResult) error {
	if result.OK() {
		return c.JSON(http.StatusOK, SessionURLResponse{URL: result.URL})
	}

	r, ok := refusals[result.Reason]
	if !ok {
		r = refusals[entity.ReasonSessionUnavailable]
	}

	h.logger.Info("Session refused",
		zap.String("path", c.Path()),
		zap.String("reason", string(result.Reason)),
	)

	return errorJSON(c, apperrors.NewAppError(r.kind, r.message, nil), r.code)
}
