package service

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront-server/internal/auth"
	"github.com/shopfront/shopfront-server/internal/domain"
	"github.com/shopfront/shopfront-server/internal/search"
	"github.com/shopfront/shopfront-server/internal/store"
	"github.com/shopfront/shopfront-server/internal/store/sqlite"
	"github.com/shopfront/shopfront-server/internal/validation"
)

// testEnv wires the services against a temporary SQLite store and an
// in-memory search index.
type testEnv struct {
	store    *sqlite.Store
	index    *search.Index
	tokens   *auth.TokenService
	auth     *AuthService
	sessions *SessionService
	catalog  *CatalogService
	carts    *CartService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	index, err := search.NewIndex(search.Options{Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	tokens, err := auth.NewTokenService(bytes.Repeat([]byte{7}, 32), 15*time.Minute, 24*time.Hour)
	require.NoError(t, err)

	v := validation.New()
	sessions := NewSessionService(s, tokens, logger)
	authService := NewAuthService(s, tokens, sessions, v, logger)
	authService.hashParams = auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16}

	return &testEnv{
		store:    s,
		index:    index,
		tokens:   tokens,
		auth:     authService,
		sessions: sessions,
		catalog:  NewCatalogService(s, index, v, CatalogOptions{PageSize: 6, FeaturedLimit: 8}, logger),
		carts:    NewCartService(s, logger),
	}
}

// register creates a customer and returns it.
func (e *testEnv) register(t *testing.T, email string) *domain.User {
	t.Helper()
	resp, err := e.auth.Register(context.Background(), RegisterRequest{
		Email:    email,
		Password: "password123",
	}, ClientInfo{IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	return resp.User
}

// product creates a product through the catalog.
func (e *testEnv) product(t *testing.T, title, price string, available bool) *domain.Product {
	t.Helper()
	p, err := e.catalog.CreateProduct(context.Background(), CreateProductRequest{
		Title:     title,
		Price:     price,
		Stock:     5,
		Available: &available,
	})
	require.NoError(t, err)
	return p
}

// failingStore injects errors into transactional cart operations.
type failingStore struct {
	store.Store
	incrementErr error
}

func (f *failingStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return f.Store.WithTx(ctx, func(tx store.Tx) error {
		return fn(&failingTx{Tx: tx, incrementErr: f.incrementErr})
	})
}

type failingTx struct {
	store.Tx
	incrementErr error
}

func (f *failingTx) IncrementItem(ctx context.Context, itemID string) error {
	if f.incrementErr != nil {
		return f.incrementErr
	}
	return f.Tx.IncrementItem(ctx, itemID)
}
