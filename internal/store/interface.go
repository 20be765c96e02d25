// Package store defines the persistence contract for the Shopfront server.
package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/shopfront-server/internal/domain"
)

// Users persists accounts.
type Users interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, id string) error
}

// Sessions persists refresh-token sessions.
type Sessions interface {
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error)
	UpdateSession(ctx context.Context, session *domain.Session) error
	DeleteSession(ctx context.Context, id string) error
	DeleteUserSessions(ctx context.Context, userID string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error)
}

// Products persists the catalog.
type Products interface {
	CreateProduct(ctx context.Context, product *domain.Product) error
	UpdateProduct(ctx context.Context, product *domain.Product) error
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	// GetAvailableProductBySlug ignores products whose available flag is off.
	GetAvailableProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	GetAvailableProductsByIDs(ctx context.Context, ids []string) ([]*domain.Product, error)
	ListAvailableProducts(ctx context.Context, params PageParams) (*Page[*domain.Product], error)
	ListAllProducts(ctx context.Context) ([]*domain.Product, error)
}

// Carts persists carts and their line items. There is one cart per user and
// one line per (cart, product).
type Carts interface {
	// GetOrCreateCart returns the user's cart, creating an empty one if needed.
	// Concurrent callers for the same user observe the same cart.
	GetOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error)
	GetCartByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// GetOrCreateItem returns the line for (cart, product), creating it with
	// quantity 1 if absent. created reports whether the line is new.
	GetOrCreateItem(ctx context.Context, cartID, productID string) (item *domain.CartItem, created bool, err error)
	IncrementItem(ctx context.Context, itemID string) error
	// DeleteItem removes the whole line. ErrCartItemNotFound if absent.
	DeleteItem(ctx context.Context, cartID, productID string) error
	// LoadCart returns the cart with its lines and their products.
	LoadCart(ctx context.Context, cartID string) (*domain.Cart, error)
	CartTotal(ctx context.Context, cartID string) (decimal.Decimal, error)
	// DeleteCart removes the cart together with its lines.
	DeleteCart(ctx context.Context, cartID string) error
}

// Tx is the set of operations available inside a transaction.
type Tx interface {
	Users
	Sessions
	Products
	Carts
}

// Store is the full persistence interface.
type Store interface {
	Tx

	// WithTx runs fn in one transaction. It commits when fn returns nil and
	// rolls back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Ping(ctx context.Context) error
	Close() error
}
