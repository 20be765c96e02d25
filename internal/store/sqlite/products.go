package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/shopfront/shopfront-server/internal/domain"
	"github.com/shopfront/shopfront-server/internal/store"
)

// productColumns must match productRow.dest.
const productColumns = `id, created_at, updated_at, slug, title, description,
	image_url, stock, price, available`

// Newest first; id breaks ties between rows created in the same instant.
const productOrder = ` ORDER BY created_at DESC, id DESC`

// productRow holds raw product columns. It is scanned directly for product
// queries and appended to the line columns when loading a cart.
type productRow struct {
	id, createdAt, updatedAt, slug, title, description string
	imageURL                                           sql.NullString
	stock                                              int
	price                                              string
	available                                          int
}

// dest must match productColumns.
func (r *productRow) dest() []any {
	return []any{
		&r.id, &r.createdAt, &r.updatedAt, &r.slug, &r.title, &r.description,
		&r.imageURL, &r.stock, &r.price, &r.available,
	}
}

func (r *productRow) toDomain() (*domain.Product, error) {
	p := domain.Product{
		Entity:      domain.Entity{ID: r.id},
		Slug:        r.slug,
		Title:       r.title,
		Description: r.description,
		ImageURL:    r.imageURL.String,
		Stock:       r.stock,
		Available:   r.available != 0,
	}

	var err error
	if p.CreatedAt, err = parseTime(r.createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(r.updatedAt); err != nil {
		return nil, err
	}
	if p.Price, err = decimal.NewFromString(r.price); err != nil {
		return nil, fmt.Errorf("parse price %q: %w", r.price, err)
	}
	return &p, nil
}

func scanProduct(scanner interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var r productRow
	if err := scanner.Scan(r.dest()...); err != nil {
		return nil, err
	}
	return r.toDomain()
}

// CreateProduct inserts a product. Returns store.ErrSlugExists when the slug
// is taken.
func (q *queries) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO products (`+productColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		formatTime(p.CreatedAt),
		formatTime(p.UpdatedAt),
		p.Slug,
		p.Title,
		p.Description,
		nullString(p.ImageURL),
		p.Stock,
		p.Price.StringFixed(2),
		boolToInt(p.Available),
	)
	if isUniqueViolation(err) {
		return store.ErrSlugExists.WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

// UpdateProduct overwrites a product's mutable fields. The slug is not
// changed.
func (q *queries) UpdateProduct(ctx context.Context, p *domain.Product) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE products SET
			updated_at = ?,
			title = ?,
			description = ?,
			image_url = ?,
			stock = ?,
			price = ?,
			available = ?
		WHERE id = ?`,
		formatTime(p.UpdatedAt),
		p.Title,
		p.Description,
		nullString(p.ImageURL),
		p.Stock,
		p.Price.StringFixed(2),
		boolToInt(p.Available),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrProductNotFound
	}
	return nil
}

func (q *queries) getProduct(ctx context.Context, where string, arg any) (*domain.Product, error) {
	row := q.q.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE `+where, arg)

	p, err := scanProduct(row)
	if isNoRows(err) {
		return nil, store.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// GetProduct retrieves a product by ID regardless of availability.
func (q *queries) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return q.getProduct(ctx, `id = ?`, id)
}

// GetProductBySlug retrieves a product by slug regardless of availability.
func (q *queries) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return q.getProduct(ctx, `slug = ?`, slug)
}

// GetAvailableProductBySlug retrieves an available product by slug.
func (q *queries) GetAvailableProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return q.getProduct(ctx, `slug = ? AND available = 1`, slug)
}

// GetAvailableProductsByIDs returns the available products among ids, in the
// order of ids. Unknown or unavailable IDs are skipped.
func (q *queries) GetAvailableProductsByIDs(ctx context.Context, ids []string) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	found, err := q.listProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE available = 1 AND id IN (`+placeholders(len(ids))+`)`,
		args...)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*domain.Product, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]*domain.Product, 0, len(found))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
			delete(byID, id)
		}
	}
	return ordered, nil
}

// ListAvailableProducts returns one page of available products, newest
// first. A page past the end yields the last page.
func (q *queries) ListAvailableProducts(ctx context.Context, params store.PageParams) (*store.Page[*domain.Product], error) {
	var total int
	if err := q.q.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products WHERE available = 1`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}

	params = params.Clamp(total)

	items, err := q.listProducts(ctx,
		`SELECT `+productColumns+` FROM products WHERE available = 1`+productOrder+` LIMIT ? OFFSET ?`,
		params.PerPage, params.Offset())
	if err != nil {
		return nil, err
	}

	return store.NewPage(items, params, total), nil
}

// ListAllProducts returns every product, including unavailable ones.
func (q *queries) ListAllProducts(ctx context.Context) ([]*domain.Product, error) {
	return q.listProducts(ctx, `SELECT `+productColumns+` FROM products`+productOrder)
}

func (q *queries) listProducts(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	rows, err := q.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
