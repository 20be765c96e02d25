package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/shopfront/shopfront-server/internal/domain"
	"github.com/shopfront/shopfront-server/internal/id"
	"github.com/shopfront/shopfront-server/internal/store"
)

const cartColumns = `id, user_id, created_at, updated_at`

const cartItemColumns = `id, cart_id, product_id, quantity, created_at, updated_at`

func scanCart(scanner interface{ Scan(dest ...any) error }) (*domain.Cart, error) {
	var (
		c         domain.Cart
		createdAt string
		updatedAt string
	)

	if err := scanner.Scan(&c.ID, &c.UserID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	c.Items = []domain.CartItem{}
	return &c, nil
}

func scanCartItem(scanner interface{ Scan(dest ...any) error }, extra ...any) (*domain.CartItem, error) {
	var (
		item      domain.CartItem
		createdAt string
		updatedAt string
	)

	dest := []any{&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &createdAt, &updatedAt}
	if err := scanner.Scan(append(dest, extra...)...); err != nil {
		return nil, err
	}

	var err error
	if item.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if item.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}

// GetOrCreateCart returns the user's cart, creating it if absent. The insert
// is a no-op when another request created the cart first, so the re-read
// always observes the single cart for the user.
func (q *queries) GetOrCreateCart(ctx context.Context, userID string) (*domain.Cart, error) {
	cartID, err := id.Generate(id.PrefixCart)
	if err != nil {
		return nil, err
	}
	now := formatTime(time.Now())

	_, err = q.q.ExecContext(ctx, `
		INSERT INTO carts (`+cartColumns+`) VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id) DO NOTHING`,
		cartID, userID, now, now)
	if isForeignKeyViolation(err) {
		return nil, store.ErrUserNotFound.WithCause(err)
	}
	if err != nil {
		return nil, fmt.Errorf("insert cart: %w", err)
	}

	return q.GetCartByUser(ctx, userID)
}

// GetCartByUser returns the user's cart without its lines.
func (q *queries) GetCartByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	row := q.q.QueryRowContext(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE user_id = ?`, userID)

	c, err := scanCart(row)
	if isNoRows(err) {
		return nil, store.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}
	return c, nil
}

// GetOrCreateItem returns the line for (cart, product), inserting one with
// quantity 1 when absent. created is true only for the request whose insert
// took effect.
func (q *queries) GetOrCreateItem(ctx context.Context, cartID, productID string) (*domain.CartItem, bool, error) {
	itemID, err := id.Generate(id.PrefixCartItem)
	if err != nil {
		return nil, false, err
	}
	now := formatTime(time.Now())

	result, err := q.q.ExecContext(ctx, `
		INSERT INTO cart_items (`+cartItemColumns+`) VALUES (?, ?, ?, 1, ?, ?)
		ON CONFLICT(cart_id, product_id) DO NOTHING`,
		itemID, cartID, productID, now, now)
	if isForeignKeyViolation(err) {
		return nil, false, store.ErrNotFound.WithMessage("cart or product not found").WithCause(err)
	}
	if err != nil {
		return nil, false, fmt.Errorf("insert cart item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	row := q.q.QueryRowContext(ctx,
		`SELECT `+cartItemColumns+` FROM cart_items WHERE cart_id = ? AND product_id = ?`,
		cartID, productID)
	item, err := scanCartItem(row)
	if isNoRows(err) {
		return nil, false, store.ErrCartItemNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("get cart item: %w", err)
	}
	return item, n == 1, nil
}

// IncrementItem adds one to a line's quantity.
func (q *queries) IncrementItem(ctx context.Context, itemID string) error {
	result, err := q.q.ExecContext(ctx,
		`UPDATE cart_items SET quantity = quantity + 1, updated_at = ? WHERE id = ?`,
		formatTime(time.Now()), itemID)
	if err != nil {
		return fmt.Errorf("increment cart item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrCartItemNotFound
	}
	return nil
}

// DeleteItem removes the line for (cart, product) regardless of quantity.
func (q *queries) DeleteItem(ctx context.Context, cartID, productID string) error {
	result, err := q.q.ExecContext(ctx,
		`DELETE FROM cart_items WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrCartItemNotFound
	}
	return nil
}

// LoadCart returns the cart with its lines, oldest line first, each with its
// product attached.
func (q *queries) LoadCart(ctx context.Context, cartID string) (*domain.Cart, error) {
	row := q.q.QueryRowContext(ctx,
		`SELECT `+cartColumns+` FROM carts WHERE id = ?`, cartID)
	cart, err := scanCart(row)
	if isNoRows(err) {
		return nil, store.ErrCartNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	rows, err := q.q.QueryContext(ctx, `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.created_at, ci.updated_at,
			p.id, p.created_at, p.updated_at, p.slug, p.title, p.description,
			p.image_url, p.stock, p.price, p.available
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?
		ORDER BY ci.created_at, ci.id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var product productRow
		item, err := scanCartItem(rows, product.dest()...)
		if err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		if item.Product, err = product.toDomain(); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

// CartTotal sums price × quantity over the cart's lines with exact decimal
// arithmetic.
func (q *queries) CartTotal(ctx context.Context, cartID string) (decimal.Decimal, error) {
	rows, err := q.q.QueryContext(ctx, `
		SELECT p.price, ci.quantity
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?`, cartID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("cart total: %w", err)
	}
	defer rows.Close()

	total := decimal.Zero
	for rows.Next() {
		var (
			price    string
			quantity int64
		)
		if err := rows.Scan(&price, &quantity); err != nil {
			return decimal.Zero, err
		}
		p, err := decimal.NewFromString(price)
		if err != nil {
			return decimal.Zero, fmt.Errorf("parse price %q: %w", price, err)
		}
		total = total.Add(p.Mul(decimal.NewFromInt(quantity)))
	}
	return total, rows.Err()
}

// DeleteCart removes the cart's lines and then the cart. Call it inside
// WithTx so both deletes commit together; Store.DeleteCart does that.
func (q *queries) DeleteCart(ctx context.Context, cartID string) error {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return fmt.Errorf("delete cart items: %w", err)
	}

	result, err := q.q.ExecContext(ctx, `DELETE FROM carts WHERE id = ?`, cartID)
	if err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrCartNotFound
	}
	return nil
}
