package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	pb "github.com/fjod/go_cart/cart-recovery-service/pkg/proto"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type CartClient struct {
	cartClient pb.CartServiceClient
	timeout    time.Duration
}

func NewCartClient(cartClient pb.CartServiceClient, timeout time.Duration) *CartClient {
	return &CartClient{
		cartClient: cartClient,
		timeout:    timeout,
	}
}

// GetCart returns the user's cart. A cart the service does not know about is
// reported as empty rather than as an error.
func (c *CartClient) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cartCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.cartClient.GetCart(cartCtx, &pb.GetCartRequest{UserId: userID})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return &domain.Cart{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}

	cart := &domain.Cart{
		UserID: userID,
		Items:  make([]domain.CartItem, 0, len(resp.Items)),
	}
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		cart.Items = append(cart.Items, domain.CartItem{
			ProductID: item.ProductId,
			Quantity:  item.Quantity,
		})
	}
	return cart, nil
}
