package http

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/middleware/auth"
	"go.uber.org/zap"
)

// SubscriptionReader reports the subscription flag for a session email
type SubscriptionReader interface {
	IsSubscribed(ctx context.Context, email string) (bool, error)
}

type SessionHandler struct {
	logger   *zap.Logger
	sessions SubscriptionReader
}

func NewSessionHandler(logger *zap.Logger, sessions SubscriptionReader) *SessionHandler {
	return &SessionHandler{
		logger:   logger,
		sessions: sessions,
	}
}

type SessionResponse struct {
	User         *auth.AuthUser `json:"user"`
	IsSubscribed bool           `json:"isSubscribed"`
	Expires      time.Time      `json:"expires"`
}

// GetSession returns the authenticated user augmented with the subscription flag.
func (h *SessionHandler) GetSession(c echo.Context) error {
	user, err := auth.RequireAuth(c)
	if user == nil {
		// RequireAuth has already written the 401
		return err
	}

	subscribed, err := h.sessions.IsSubscribed(c.Request().Context(), user.Email)
	if err != nil {
		return internalError(c, h.logger, err, "Failed to load session",
			zap.String("user_id", user.UserID),
		)
	}

	return c.JSON(http.StatusOK, SessionResponse{
		User:         user,
		IsSubscribed: subscribed,
		Expires:      user.ExpiresAt,
	})
}
