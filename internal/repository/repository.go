package repository

import (
	"context"
	"errors"

	"github.com/4PPL8/wahabstore/internal/domain"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrUserNotFound = errors.New("user not found")
)

// CartRepository is the durable scope for cart documents, one per session.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, sessionID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

// UserRepository is the durable scope for confirmed users. A pending,
// unverified login never reaches this store.
type UserRepository interface {
	GetUser(ctx context.Context, sessionID string) (*domain.User, error)
	UpsertUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, sessionID string) error
}
