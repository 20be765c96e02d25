package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/shopfront/shopfront-server/internal/domain"
	domainerrors "github.com/shopfront/shopfront-server/internal/errors"
	"github.com/shopfront/shopfront-server/internal/store"
)

// CartService implements the shopping cart use cases. Every use case runs
// in a single store transaction and starts by lazily creating the user's
// cart.
type CartService struct {
	store  store.Store
	logger *slog.Logger
}

// NewCartService creates a new cart service.
func NewCartService(store store.Store, logger *slog.Logger) *CartService {
	return &CartService{store: store, logger: logger}
}

// CartView is a cart with its lines, their products and the exact total.
type CartView struct {
	Cart  *domain.Cart
	Total decimal.Decimal
}

// ItemCount returns the number of units in the cart.
func (v *CartView) ItemCount() int {
	return v.Cart.ItemCount()
}

// Add puts one unit of the product into the user's cart. A new line starts
// at quantity 1; an existing line grows by exactly one. Stock is not
// checked.
func (s *CartService) Add(ctx context.Context, userID, productSlug string) (*CartView, error) {
	if userID == "" {
		return nil, domainerrors.Unauthenticated("authentication required")
	}

	// Resolved outside the transaction: an unknown product must not leave a
	// cart behind.
	product, err := s.resolveProduct(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	var (
		view    *CartView
		created bool
	)
	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		cart, err := tx.GetOrCreateCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("get or create cart: %w", err)
		}

		var item *domain.CartItem
		item, created, err = tx.GetOrCreateItem(ctx, cart.ID, product.ID)
		if err != nil {
			return fmt.Errorf("get or create cart item: %w", err)
		}
		if !created {
			if err := tx.IncrementItem(ctx, item.ID); err != nil {
				return fmt.Errorf("increment cart item: %w", err)
			}
		}

		view, err = loadCartView(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err, "user not found")
	}

	s.logger.Info("Cart item added",
		"user_id", userID,
		"cart_id", view.Cart.ID,
		"product", product.Slug,
		"new_line", created,
	)
	return view, nil
}

// Remove deletes the whole line for the product, whatever its quantity.
// A product that is not in the cart is NotFound and nothing changes.
func (s *CartService) Remove(ctx context.Context, userID, productSlug string) (*CartView, error) {
	if userID == "" {
		return nil, domainerrors.Unauthenticated("authentication required")
	}

	product, err := s.resolveProduct(ctx, productSlug)
	if err != nil {
		return nil, err
	}

	var view *CartView
	err = s.store.WithTx(ctx, func(tx store.Tx) error {
		// A cart created here is empty, so the delete fails and the rollback
		// discards it.
		cart, err := tx.GetOrCreateCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("get or create cart: %w", err)
		}

		if err := tx.DeleteItem(ctx, cart.ID, product.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return domainerrors.NotFoundf("product %q is not in the cart", product.Slug).WithCause(err)
			}
			return fmt.Errorf("delete cart item: %w", err)
		}

		view, err = loadCartView(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err, "user not found")
	}

	s.logger.Info("Cart item removed",
		"user_id", userID,
		"cart_id", view.Cart.ID,
		"product", product.Slug,
	)
	return view, nil
}

// View returns the user's cart, creating an empty one on first use.
func (s *CartService) View(ctx context.Context, userID string) (*CartView, error) {
	if userID == "" {
		return nil, domainerrors.Unauthenticated("authentication required")
	}

	var view *CartView
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		cart, err := tx.GetOrCreateCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("get or create cart: %w", err)
		}
		view, err = loadCartView(ctx, tx, cart.ID)
		return err
	})
	if err != nil {
		return nil, translateStoreError(err, "user not found")
	}
	return view, nil
}

func (s *CartService) resolveProduct(ctx context.Context, productSlug string) (*domain.Product, error) {
	if productSlug == "" {
		return nil, domainerrors.NotFound("product not found")
	}
	product, err := s.store.GetAvailableProductBySlug(ctx, productSlug)
	if err != nil {
		return nil, translateStoreError(err, fmt.Sprintf("product %q not found", productSlug))
	}
	return product, nil
}

func loadCartView(ctx context.Context, tx store.Tx, cartID string) (*CartView, error) {
	cart, err := tx.LoadCart(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	total, err := tx.CartTotal(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("cart total: %w", err)
	}
	return &CartView{Cart: cart, Total: total}, nil
}
