// Package enricher prices a cart and collects its product categories.
package enricher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ErrEmptyCart is returned when Enrich is called for a cart without items.
// Callers must filter empty carts out first.
var ErrEmptyCart = errors.New("cannot enrich an empty cart")

// valuePlaces is the precision of Profile.TotalValue.
const valuePlaces = 2

type ProductSource interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

type Enricher struct {
	products ProductSource
}

func New(products ProductSource) *Enricher {
	return &Enricher{products: products}
}

// Enrich fetches every line item's product concurrently and aggregates the
// cart value and category set. The returned profile has no inactivity set.
// If any fetch fails the whole enrichment fails.
func (e *Enricher) Enrich(ctx context.Context, cart *domain.Cart) (*domain.Profile, error) {
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}

	products := make([]*domain.Product, len(cart.Items))
	g, gctx := errgroup.WithContext(ctx)
	for i, item := range cart.Items {
		g.Go(func() error {
			p, err := e.products.GetProduct(gctx, item.ProductID)
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", item.ProductID, err)
			}
			if p == nil {
				return fmt.Errorf("failed to get product %s: empty response", item.ProductID)
			}
			products[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := decimal.Zero
	seen := make(map[string]struct{})
	categories := make([]string, 0)
	for i, item := range cart.Items {
		unit := domain.ToDecimal(products[i].Price)
		total = total.Add(unit.Mul(decimal.NewFromInt32(item.Quantity)))

		for _, c := range products[i].Categories {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			categories = append(categories, c)
		}
	}
	sort.Strings(categories)

	items := make([]domain.CartItem, len(cart.Items))
	copy(items, cart.Items)

	return &domain.Profile{
		UserID:     cart.UserID,
		TotalValue: total.Round(valuePlaces),
		Categories: categories,
		Items:      items,
	}, nil
}
