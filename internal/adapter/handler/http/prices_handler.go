package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	apperrors "github.com/wekeepgrowing/semo-billing/pkg/errors"
	"go.uber.org/zap"
)

// PriceLookup resolves a public price by lookup key
type PriceLookup interface {
	GetByLookupKey(ctx context.Context, lookupKey string) (*entity.PriceView, error)
}

type PricesHandler struct {
	logger *zap.Logger
	prices PriceLookup
}

func NewPricesHandler(logger *zap.Logger, prices PriceLookup) *PricesHandler {
	return &PricesHandler{
		logger: logger,
		prices: prices,
	}
}

func (h *PricesHandler) GetPrice(c echo.Context) error {
	lookupKey := c.Param("lookup_key")

	view, err := h.prices.GetByLookupKey(c.Request().Context(), lookupKey)
	if err != nil {
		if errors.Is(err, domainErrors.ErrPriceNotFound) {
			return errorJSON(c, apperrors.NewAppError(apperrors.ErrNotFound, "Price not found", err), "PRICE_NOT_FOUND")
		}
		return internalError(c, h.logger, err, "Failed to fetch price",
			zap.String("lookup_key", lookupKey),
		)
	}

	return c.JSON(http.StatusOK, view)
}
