package app

import (
	"go-storefront/internal/cart"
	"go-storefront/internal/cart/adapters"
	"go-storefront/internal/catalog"
	"go-storefront/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (a *App) registerModules(router *gin.Engine, catalogCache catalog.Cache, publisher cart.EventPublisher, idem middleware.IdempotencyStore) {
	// --- Services ---
	catalogService := catalog.NewService(catalog.Deps{
		Client:         catalog.NewHTTPClient(a.cfg.CatalogBaseURL, a.cfg.CatalogCityID, a.cfg.CatalogTimeout),
		Cache:          catalogCache,
		ImageBaseURL:   a.cfg.CatalogImageBaseURL,
		DefaultKeyword: a.cfg.CatalogKeyword,
		Logger:         a.logger.Named("catalog.service"),
	})

	// --- Adapters ---
	catalogLookupAdapter := adapters.NewCatalogLookupAdapter(catalogService)

	a.carts = cart.NewService(cart.Deps{
		Catalog:         catalogLookupAdapter,
		Publisher:       publisher,
		BillingDebounce: a.cfg.BillingDebounce,
		IdleTTL:         a.cfg.CartIdleTTL,
		Logger:          a.logger.Named("cart.service"),
	})

	// --- Handlers ---
	catalogHandler := catalog.NewHandler(catalogService, a.logger)
	cartHandler := cart.NewHandler(a.carts, a.logger)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		catalog.RegisterRoutes(api, catalogHandler)
		cart.RegisterRoutes(api, cartHandler, idem)
	}
}
