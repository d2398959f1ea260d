package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSessionHandler_GetSession(t *testing.T) {
	t.Run("subscribed user", func(t *testing.T) {
		sessions := new(MockSubscriptionReader)
		sessions.On("IsSubscribed", mock.Anything, "test@example.com").Return(true, nil)
		handler := NewSessionHandler(zap.NewNop(), sessions)

		e := newTestEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/session", nil), rec)
		withSession(c, "test@example.com")

		require.NoError(t, handler.GetSession(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"isSubscribed":true`)
		assert.Contains(t, rec.Body.String(), `"email":"test@example.com"`)
		assert.Contains(t, rec.Body.String(), `"id":"550e8400-e29b-41d4-a716-446655440000"`)
	})

	t.Run("no session", func(t *testing.T) {
		sessions := new(MockSubscriptionReader)
		handler := NewSessionHandler(zap.NewNop(), sessions)

		e := newTestEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/session", nil), rec)

		require.NoError(t, handler.GetSession(c))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		sessions.AssertNotCalled(t, "IsSubscribed", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		sessions := new(MockSubscriptionReader)
		sessions.On("IsSubscribed", mock.Anything, "test@example.com").Return(false, errors.New("db down"))
		handler := NewSessionHandler(zap.NewNop(), sessions)

		e := newTestEcho()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/v1/session", nil), rec)
		withSession(c, "test@example.com")

		require.NoError(t, handler.GetSession(c))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotContains(t, rec.Body.String(), "db down")
	})
}
