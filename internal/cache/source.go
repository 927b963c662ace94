package cache

import (
	"context"
	"errors"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// DefaultFetchTimeout bounds a shared upstream fetch.
const DefaultFetchTimeout = 5 * time.Second

// ProductSource is anything that can load a product by id.
type ProductSource interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// CachedSource is a read-through cache in front of a ProductSource. Concurrent
// misses for the same product share a single upstream call.
type CachedSource struct {
	next         ProductSource
	cache        ProductCache
	sfg          singleflight.Group
	fetchTimeout time.Duration
	log          *zap.Logger
}

func NewCachedSource(next ProductSource, cache ProductCache, log *zap.Logger) *CachedSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &CachedSource{next: next, cache: cache, fetchTimeout: DefaultFetchTimeout, log: log}
}

// GetProduct waits for the shared fetch only as long as ctx allows. The shared
// fetch itself is detached from any single caller, so one caller giving up
// does not fail the others waiting on the same product.
func (s *CachedSource) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	ch := s.sfg.DoChan(productID, func() (interface{}, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.fetchTimeout)
		defer cancel()
		return s.load(fetchCtx, productID)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*domain.Product), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *CachedSource) load(ctx context.Context, productID string) (*domain.Product, error) {
	product, err := s.cache.Get(ctx, productID)
	if err == nil {
		return product, nil
	}
	switch {
	case errors.Is(err, ErrCacheMiss):
	case errors.Is(err, ErrCorruptEntry):
		s.log.Warn("evicting corrupt product cache entry", zap.String("product_id", productID), zap.Error(err))
		if err := s.cache.Delete(ctx, productID); err != nil {
			s.log.Warn("product cache delete failed", zap.String("product_id", productID), zap.Error(err))
		}
	default:
		s.log.Warn("product cache get failed", zap.String("product_id", productID), zap.Error(err))
	}

	product, err = s.next.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	go func() {
		setCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.cache.Set(setCtx, productID, product); err != nil {
			s.log.Warn("product cache set failed", zap.String("product_id", productID), zap.Error(err))
		}
	}()
	return product, nil
}
