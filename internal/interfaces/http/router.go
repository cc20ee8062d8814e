package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/fulcrum-shipping/internal/application/auth"
	"github.com/jhoicas/fulcrum-shipping/internal/application/carrier"
	"github.com/jhoicas/fulcrum-shipping/internal/application/resolution"
	"github.com/jhoicas/fulcrum-shipping/internal/domain/entity"
	"github.com/jhoicas/fulcrum-shipping/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ResolveUC       *resolution.ResolveUseCase
	ReconcileUC     *carrier.ReconcileUseCase
	AdminUC         *carrier.AdminUseCase
	AuthUC          *auth.AuthUseCase
	JWTSecret       string
	DefaultStoreKey string
	Log             *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}

	// Webhook del checkout (público: la verificación de firma queda fuera de este servicio)
	shippingHandler := NewShippingHandler(deps.ResolveUC, log.Component("webhook"))
	app.Post("/webhooks/shipping-methods", shippingHandler.ShippingMethods)

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleViewer)

	// Operadores (solo admin)
	protected.Post("/operators", adminOnly, authHandler.RegisterOperator)
	protected.Get("/operators", adminOnly, authHandler.ListOperators)

	carrierHandler := NewCarrierHandler(deps.ReconcileUC, deps.AdminUC, deps.DefaultStoreKey)

	// Carriers: lectura para cualquier operador, escritura solo admin
	carriers := protected.Group("/carriers")
	carriers.Get("/", anyRole, carrierHandler.List)
	carriers.Post("/", adminOnly, carrierHandler.Upsert)
	carriers.Delete("/:code", adminOnly, carrierHandler.Delete)

	protected.Get("/stores", anyRole, carrierHandler.Stores)
	protected.Get("/customer-groups", anyRole, carrierHandler.CustomerGroups)
	protected.Get("/customizations/:storeKey", anyRole, carrierHandler.Customizations)
}
