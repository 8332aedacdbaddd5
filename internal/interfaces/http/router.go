// Package http registra las rutas de la API y los handlers Fiber.
package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/auth"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/billing"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/catalog"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/packages"
	"github.com/gajjarumesh/erp-beta-sub001/internal/application/subscription"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.UseCase
	CatalogUC      *catalog.UseCase
	PackageUC      *packages.UseCase
	SubscriptionUC *subscription.UseCase
	ReceiptUC      *billing.ReceiptUseCase
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Solo admin muta paquetes y suscripciones; member es de lectura.
	adminOnly := RequireRole(entity.RoleAdmin)

	// Catálogo y configurador de paquetes (protegido)
	pkgGroup := protected.Group("/packages")
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	pkgGroup.Get("/catalog/modules", catalogHandler.ListModules)
	pkgGroup.Get("/catalog/limits", catalogHandler.ListLimitTypes)

	packageHandler := NewPackageHandler(deps.PackageUC, deps.SubscriptionUC)
	pkgGroup.Post("/calculate-price", packageHandler.CalculatePrice)
	pkgGroup.Post("/custom", adminOnly, packageHandler.Create)
	pkgGroup.Get("/custom", packageHandler.List)
	pkgGroup.Get("/custom/:id", packageHandler.GetByID)
	pkgGroup.Get("/custom/:id/limits", packageHandler.GetLimits)
	pkgGroup.Put("/custom/:id/activate", adminOnly, packageHandler.Activate)
	pkgGroup.Put("/custom/:id/suspend", adminOnly, packageHandler.Suspend)
	pkgGroup.Put("/custom/:id/cancel", adminOnly, packageHandler.Cancel)
	pkgGroup.Put("/custom/:id/upgrade", adminOnly, packageHandler.Upgrade)

	// Suscripciones (protegido)
	subGroup := protected.Group("/subscriptions")
	subscriptionHandler := NewSubscriptionHandler(deps.SubscriptionUC, deps.ReceiptUC)
	subGroup.Post("/trial", adminOnly, subscriptionHandler.StartTrial)
	subGroup.Post("/", adminOnly, subscriptionHandler.Start)
	subGroup.Get("/current", subscriptionHandler.Current)
	subGroup.Put("/:id/activate", adminOnly, subscriptionHandler.Activate)
	subGroup.Put("/:id/cancel", adminOnly, subscriptionHandler.Cancel)
	subGroup.Get("/:id/receipt", subscriptionHandler.Receipt)
}
