// Package main seeds the database with a demo catalog and an admin account.
//
// Product IDs are derived from their slugs, so running the tool twice leaves
// the catalog unchanged. Stop the server first: the search index is opened
// exclusively.
//
// Usage:
//
//	DATA_PATH=~/shopfront ADMIN_EMAIL=admin@example.com ADMIN_PASSWORD=changeme go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopfront/shopfront-server/internal/auth"
	"github.com/shopfront/shopfront-server/internal/config"
	"github.com/shopfront/shopfront-server/internal/domain"
	"github.com/shopfront/shopfront-server/internal/id"
	"github.com/shopfront/shopfront-server/internal/logger"
	"github.com/shopfront/shopfront-server/internal/search"
	"github.com/shopfront/shopfront-server/internal/service"
	"github.com/shopfront/shopfront-server/internal/store"
	"github.com/shopfront/shopfront-server/internal/store/sqlite"
	"github.com/shopfront/shopfront-server/internal/validation"
)

// productNamespace scopes the SHA-1 UUIDs of seeded products.
var productNamespace = uuid.MustParse("6f1c2a9e-4d1b-5c0e-9a37-2b8e4f7d3c61")

type demoProduct struct {
	title       string
	description string
	price       string
	stock       int
}

var demoCatalog = []demoProduct{
	{"Linen Shirt", "Breathable summer shirt in natural linen.", "34.90", 25},
	{"Flannel Shirt", "Brushed cotton check for cold mornings.", "39.00", 18},
	{"Wool Scarf", "Merino scarf, long enough to wrap twice.", "24.50", 40},
	{"Canvas Tote", "Heavy canvas bag with an inside pocket.", "15.00", 60},
	{"Leather Belt", "Full grain leather with a brass buckle.", "29.99", 30},
	{"Cotton Socks", "Three pairs of ribbed everyday socks.", "9.99", 120},
	{"Rain Jacket", "Packable shell with taped seams.", "89.00", 12},
	{"Knit Beanie", "Chunky knit hat in charcoal.", "18.00", 45},
	{"Denim Jeans", "Straight cut selvedge denim.", "74.50", 20},
	{"Shoe Laces", "Waxed cotton laces, 120 cm.", "3.50", 200},
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Environment: cfg.App.Environment,
	})

	db, err := sqlite.Open(cfg.Data.DatabasePath(), log.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	index, err := search.NewIndex(search.Options{DataPath: cfg.Data.SearchPath(), Logger: log.Logger})
	if err != nil {
		return err
	}
	defer index.Close()

	created := 0
	for _, demo := range demoCatalog {
		p := newProduct(demo)
		err := db.CreateProduct(ctx, p)
		switch {
		case errors.Is(err, store.ErrSlugExists):
			continue
		case err != nil:
			return fmt.Errorf("create %s: %w", p.Slug, err)
		}
		created++
	}
	log.Info("Demo catalog seeded", "created", created, "total", len(demoCatalog))

	validator := validation.New()
	catalog := service.NewCatalogService(db, index, validator, service.CatalogOptions{}, log.Logger)
	indexed, err := catalog.ReindexAll(ctx)
	if err != nil {
		return fmt.Errorf("reindex: %w", err)
	}
	log.Info("Search index rebuilt", "documents", indexed)

	return seedAdmin(ctx, cfg, db, validator, log)
}

func newProduct(demo demoProduct) *domain.Product {
	p := &domain.Product{
		Title:       demo.title,
		Description: demo.description,
		Price:       decimal.RequireFromString(demo.price),
		Stock:       demo.stock,
		Available:   true,
	}
	p.EnsureSlug()
	p.ID = id.PrefixProduct + "-" + uuid.NewSHA1(productNamespace, []byte(p.Slug)).String()
	p.InitTimestamps()
	return p
}

// seedAdmin creates or promotes the account named by ADMIN_EMAIL. It is
// skipped when no password is given.
func seedAdmin(ctx context.Context, cfg *config.Config, db *sqlite.Store, validator *validation.Validator, log *logger.Logger) error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		log.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin account")
		return nil
	}

	key, err := auth.LoadOrGenerateKey(cfg.Data.BasePath)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenService(key, cfg.Auth.AccessTokenDuration, cfg.Auth.RefreshTokenDuration)
	if err != nil {
		return err
	}

	sessions := service.NewSessionService(db, tokens, log.Logger)
	authService := service.NewAuthService(db, tokens, sessions, validator, log.Logger)

	admin, err := authService.EnsureAdmin(ctx, email, password)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}
	log.Info("Admin account ready", "user_id", admin.ID, "email", admin.Email)
	return nil
}
