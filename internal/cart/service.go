package cart

import (
	"context"
	"errors"

	"tradehub-be/internal/access"
	"tradehub-be/internal/apperr"
	"tradehub-be/internal/logger"
	"tradehub-be/internal/product"
	"tradehub-be/internal/validation"

	"go.uber.org/zap"
)

type ProductLookup interface {
	GetByID(ctx context.Context, id string) (*product.Product, error)
}

// Service prices carts against the live catalog.
type Service interface {
	Price(ctx context.Context, actor access.Actor, in QuoteInput) (*Quote, error)
}

type service struct {
	products ProductLookup
}

func NewService(products ProductLookup) Service {
	return &service{products: products}
}

// Price looks up every line's product, captures its current price and
// returns the aggregated quote. Lines for the same product are merged before
// the minimum order quantity is checked.
func (s *service) Price(ctx context.Context, actor access.Actor, in QuoteInput) (*Quote, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "PriceCart"),
		zap.String("user_id", actor.UserID),
	)

	if err := validation.Struct(in); err != nil {
		return nil, err
	}

	var (
		c        Cart
		currency string
		minimums = make(map[string]int, len(in.Items))
	)
	for _, line := range in.Items {
		p, err := s.products.GetByID(ctx, line.ProductID)
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			return nil, ErrProductUnavailable
		case err != nil:
			log.Error("product lookup failed", zap.String("product_id", line.ProductID), zap.Error(err))
			return nil, err
		case !p.IsActive:
			log.Warn("inactive product in cart", zap.String("product_id", p.ID))
			return nil, ErrProductUnavailable
		}

		if currency == "" {
			currency = string(p.Currency)
		} else if currency != string(p.Currency) {
			return nil, ErrMixedCurrency
		}

		if err := c.Add(p.ID, p.Name, line.Quantity, p.Price); err != nil {
			return nil, err
		}
		minimums[p.ID] = p.MinOrderQuantity
	}

	items := c.Items()
	for _, it := range items {
		if it.Quantity < minimums[it.ProductID] {
			return nil, BelowMinimum(it.ProductID, minimums[it.ProductID])
		}
	}

	q := &Quote{Currency: currency, Items: items, Totals: c.Totals()}
	log.Debug("cart priced",
		zap.Int("items", len(items)),
		zap.String("total", q.Total.StringFixed(currencyPlaces)),
	)
	return q, nil
}
