package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCatalog(t *testing.T) *Catalog {
	catalog, err := NewCatalog(":memory:")
	require.NoError(t, err)
	require.NoError(t, catalog.RunMigrations("./migrations"))
	t.Cleanup(func() { _ = catalog.Close() })
	return catalog
}

func TestCatalog_GetProduct(t *testing.T) {
	catalog := setupCatalog(t)

	p, err := catalog.GetProduct(context.Background(), "66VCHSJNUP")
	require.NoError(t, err)
	assert.Equal(t, "Tank Top", p.Name)
	assert.Equal(t, []string{"clothing", "tops"}, p.Categories)
	assert.Equal(t, "18.99", domain.ToDecimal(p.Price).StringFixed(2))
}

func TestCatalog_NotFound(t *testing.T) {
	catalog := setupCatalog(t)

	_, err := catalog.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalog_MigrationsIdempotent(t *testing.T) {
	catalog := setupCatalog(t)
	require.NoError(t, catalog.RunMigrations("./migrations"))
}

func TestCatalog_CancelledContext(t *testing.T) {
	catalog := setupCatalog(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	_, err := catalog.GetProduct(ctx, "OLJCESPC7Z")
	assert.Error(t, err)
}
