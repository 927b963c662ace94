package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	pb "github.com/fjod/go_cart/cart-recovery-service/pkg/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var ErrProductNotFound = errors.New("product not found")

type CatalogClient struct {
	productClient pb.ProductCatalogServiceClient
	timeout       time.Duration
}

func NewCatalogClient(productClient pb.ProductCatalogServiceClient, timeout time.Duration) *CatalogClient {
	return &CatalogClient{
		productClient: productClient,
		timeout:       timeout,
	}
}

func (c *CatalogClient) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	productCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	p, err := c.productClient.GetProduct(productCtx, &pb.GetProductRequest{Id: productID})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
		}
		return nil, fmt.Errorf("failed to get product %s: %w", productID, err)
	}

	product := &domain.Product{
		ID:         p.Id,
		Name:       p.Name,
		Categories: p.Categories,
	}
	if p.PriceUsd != nil {
		product.Price = &domain.Money{
			CurrencyCode: p.PriceUsd.CurrencyCode,
			Units:        p.PriceUsd.Units,
			Nanos:        p.PriceUsd.Nanos,
		}
	}
	return product, nil
}
