package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wekeepgrowing/semo-billing/internal/domain/entity"
	domainErrors "github.com/wekeepgrowing/semo-billing/internal/domain/errors"
	"github.com/wekeepgrowing/semo-billing/internal/domain/provider"
	"go.uber.org/zap"
)

// zeroDecimalCurrencies are charged in whole units by Stripe.
var zeroDecimalCurrencies = map[string]bool{
	"bif": true, "clp": true, "djf": true, "gnf": true, "jpy": true, "kmf": true,
	"krw": true, "mga": true, "pyg": true, "rwf": true, "ugx": true, "vnd": true,
	"vuv": true, "xaf": true, "xof": true, "xpf": true,
}

// PriceCatalog resolves public price information by lookup key
type PriceCatalog struct {
	billing provider.BillingProvider
	logger  *zap.Logger
}

// NewPriceCatalog creates a new price catalog
func NewPriceCatalog(billing provider.BillingProvider, logger *zap.Logger) *PriceCatalog {
	return &PriceCatalog{
		billing: billing,
		logger:  logger,
	}
}

// GetByLookupKey returns ErrPriceNotFound when no price carries the key.
func (c *PriceCatalog) GetByLookupKey(ctx context.Context, lookupKey string) (*entity.PriceView, error) {
	price, err := c.billing.FindPriceByLookupKey(ctx, lookupKey)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve price: %w", err)
	}
	if price == nil {
		return nil, domainErrors.ErrPriceNotFound
	}

	return &entity.PriceView{
		ID:         price.ID,
		LookupKey:  price.LookupKey,
		Currency:   price.Currency,
		UnitAmount: FormatAmount(price.UnitAmount, price.Currency),
		Interval:   price.Interval,
		Product:    price.ProductName,
	}, nil
}

// FormatAmount converts an amount in minor units to a fixed-point string in major units.
func FormatAmount(minor int64, currency string) string {
	if zeroDecimalCurrencies[strings.ToLower(currency)] {
		return decimal.NewFromInt(minor).StringFixed(0)
	}
	return decimal.New(minor, -2).StringFixed(2)
}
