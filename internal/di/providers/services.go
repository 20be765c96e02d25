package providers

import (
	"github.com/samber/do/v2"

	"github.com/shopfront/shopfront-server/internal/auth"
	"github.com/shopfront/shopfront-server/internal/config"
	"github.com/shopfront/shopfront-server/internal/logger"
	"github.com/shopfront/shopfront-server/internal/service"
	"github.com/shopfront/shopfront-server/internal/validation"
)

// ProvideSessionService provides the session management service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, validator, log.Logger), nil
}

// ProvideCatalogService provides the product catalog service.
func ProvideCatalogService(i do.Injector) (*service.CatalogService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCatalogService(
		storeHandle.Store,
		indexHandle.Index,
		validator,
		service.CatalogOptions{
			PageSize:      cfg.Catalog.PageSize,
			FeaturedLimit: cfg.Catalog.FeaturedLimit,
		},
		log.Logger,
	), nil
}

// ProvideCartService provides the shopping cart service.
func ProvideCartService(i do.Injector) (*service.CartService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewCartService(storeHandle.Store, log.Logger), nil
}
