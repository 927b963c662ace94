package clients

import (
	"context"
	"errors"
	"testing"
	"time"

	pb "github.com/fjod/go_cart/cart-recovery-service/pkg/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// mockCartServiceClient implements pb.CartServiceClient
type mockCartServiceClient struct {
	cart  *pb.Cart
	err   error
	block bool
}

func (m *mockCartServiceClient) GetCart(ctx context.Context, _ *pb.GetCartRequest, _ ...grpc.CallOption) (*pb.Cart, error) {
	if m.block {
		<-ctx.Done()
		return nil, status.FromContextError(ctx.Err()).Err()
	}
	return m.cart, m.err
}

// mockProductCatalogServiceClient implements pb.ProductCatalogServiceClient
type mockProductCatalogServiceClient struct {
	products map[string]*pb.Product
	err      error
}

func (m *mockProductCatalogServiceClient) GetProduct(_ context.Context, req *pb.GetProductRequest, _ ...grpc.CallOption) (*pb.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.products[req.Id]
	if !ok {
		return nil, status.Error(codes.NotFound, "no such product")
	}
	return p, nil
}

func TestCartClient_GetCart_Success(t *testing.T) {
	mock := &mockCartServiceClient{cart: &pb.Cart{
		UserId: "42",
		Items: []*pb.CartItem{
			{ProductId: "A", Quantity: 2},
			nil,
			{ProductId: "B", Quantity: 1},
		},
	}}
	client := NewCartClient(mock, time.Second)

	cart, err := client.GetCart(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "42", cart.UserID)
	require.Len(t, cart.Items, 2)
	assert.Equal(t, "A", cart.Items[0].ProductID)
	assert.Equal(t, int32(2), cart.Items[0].Quantity)
	assert.Equal(t, "B", cart.Items[1].ProductID)
}

func TestCartClient_GetCart_NotFoundIsEmpty(t *testing.T) {
	mock := &mockCartServiceClient{err: status.Error(codes.NotFound, "cart not found")}
	client := NewCartClient(mock, time.Second)

	cart, err := client.GetCart(context.Background(), "42")
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())
	assert.Equal(t, "42", cart.UserID)
}

func TestCartClient_GetCart_Error(t *testing.T) {
	mock := &mockCartServiceClient{err: status.Error(codes.Unavailable, "down")}
	client := NewCartClient(mock, time.Second)

	cart, err := client.GetCart(context.Background(), "42")
	assert.Nil(t, cart)
	assert.Equal(t, codes.Unavailable, status.Code(errors.Unwrap(err)))
	assert.ErrorContains(t, err, "failed to get cart for user 42")
}

func TestCartClient_GetCart_Timeout(t *testing.T) {
	mock := &mockCartServiceClient{block: true}
	client := NewCartClient(mock, 20*time.Millisecond)

	_, err := client.GetCart(context.Background(), "42")
	require.Error(t, err)
	assert.Equal(t, codes.DeadlineExceeded, status.Code(errors.Unwrap(err)))
}

func TestCatalogClient_GetProduct(t *testing.T) {
	mock := &mockProductCatalogServiceClient{products: map[string]*pb.Product{
		"A": {Id: "A", Name: "Mug", PriceUsd: &pb.Money{CurrencyCode: "USD", Units: 8, Nanos: 990000000}, Categories: []string{"kitchen"}},
		"B": {Id: "B", Name: "Free sticker"},
	}}
	client := NewCatalogClient(mock, time.Second)

	p, err := client.GetProduct(context.Background(), "A")
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
	require.NotNil(t, p.Price)
	assert.Equal(t, int64(8), p.Price.Units)
	assert.Equal(t, int32(990000000), p.Price.Nanos)
	assert.Equal(t, []string{"kitchen"}, p.Categories)

	p, err = client.GetProduct(context.Background(), "B")
	require.NoError(t, err)
	assert.Nil(t, p.Price)
}

func TestCatalogClient_GetProduct_NotFound(t *testing.T) {
	client := NewCatalogClient(&mockProductCatalogServiceClient{}, time.Second)

	_, err := client.GetProduct(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestCatalogClient_GetProduct_Error(t *testing.T) {
	client := NewCatalogClient(&mockProductCatalogServiceClient{err: errors.New("boom")}, time.Second)

	_, err := client.GetProduct(context.Background(), "A")
	assert.ErrorContains(t, err, "failed to get product A: boom")
	assert.NotErrorIs(t, err, ErrProductNotFound)
}

func TestDial(t *testing.T) {
	conn, err := Dial("localhost:1")
	require.NoError(t, err)
	assert.NoError(t, conn.Close())
}
