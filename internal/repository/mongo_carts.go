package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fjod/go_cart/cart-recovery-service/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const cartsCollection = "carts"

// MongoCarts reads the cart service's collection directly. It serves as a
// candidate source and, optionally, as the cart source.
type MongoCarts struct {
	collection *mongo.Collection
}

func NewMongoCarts(db *mongo.Database) *MongoCarts {
	return &MongoCarts{collection: db.Collection(cartsCollection)}
}

// Candidates returns every user that currently has at least one cart line,
// sorted for stable tick order.
func (m *MongoCarts) Candidates(ctx context.Context) ([]string, error) {
	filter := bson.M{"items.0": bson.M{"$exists": true}}
	values, err := m.collection.Distinct(ctx, "user_id", filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart owners: %w", err)
	}

	users := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok && id != "" {
			users = append(users, id)
		}
	}
	sort.Strings(users)
	return users, nil
}

// GetCart returns an empty cart when the user has no document.
func (m *MongoCarts) GetCart(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := m.collection.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return &domain.Cart{UserID: userID}, nil
		}
		return nil, fmt.Errorf("failed to get cart for user %s: %w", userID, err)
	}
	cart.UserID = userID
	return &cart, nil
}

func (m *MongoCarts) Close(ctx context.Context) error {
	return m.collection.Database().Client().Disconnect(ctx)
}
