package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/pos-api/internal/application/analytics"
	"github.com/jhoicas/pos-api/internal/application/auth"
	"github.com/jhoicas/pos-api/internal/application/catalog"
	"github.com/jhoicas/pos-api/internal/application/inventory"
	"github.com/jhoicas/pos-api/internal/application/notifications"
	apppos "github.com/jhoicas/pos-api/internal/application/pos"
	"github.com/jhoicas/pos-api/internal/application/sales"
	"github.com/jhoicas/pos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	CompanyUC        *auth.CompanyUseCase
	LocationUC       *catalog.LocationUseCase
	ProductUC        *catalog.ProductUseCase
	CustomerUC       *catalog.CustomerUseCase
	Codes            CodeRenderer
	RegisterMovement *inventory.RegisterMovementUseCase
	RegisterSale     *sales.RegisterSaleUseCase
	Receipt          *sales.ReceiptUseCase
	Terminal         *apppos.TerminalUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	Feed             *notifications.FeedUseCase
	JWTSecret        string
	ServiceName      string
	// Health verifica dependencias externas (DB). nil = siempre sano.
	Health func(ctx context.Context) error
	// Metrics gatherer para /metrics. nil = sin endpoint.
	Metrics     prometheus.Gatherer
	MetricsPath string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", healthHandler(deps))
	if deps.Metrics != nil {
		path := deps.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		app.Get(path, adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público: alta inicial de la empresa antes del primer usuario)
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Locations
	locations := protected.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)
	locations.Post("/", adminOnly, locationHandler.Create)
	locations.Put("/:id", adminOnly, locationHandler.Update)
	locations.Delete("/:id", adminOnly, locationHandler.Delete)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Codes)
	products.Get("/", productHandler.List)
	products.Get("/search", productHandler.Search)
	products.Get("/:id", productHandler.GetByID)
	products.Get("/:id/barcode.png", productHandler.BarcodePNG)
	products.Get("/:id/qr.png", productHandler.QRPNG)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)

	// Inventory movements
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.RegisterMovement)
	invGroup.Post("/movements", stockRoles, inventoryHandler.RegisterMovement)
	invGroup.Get("/movements", inventoryHandler.ListMovements)

	// POS
	posGroup := protected.Group("/pos")
	posHandler := NewPOSHandler(deps.Terminal)
	posGroup.Get("/locations", posHandler.Locations)
	posGroup.Get("/products", posHandler.Products)
	posGroup.Post("/sessions", posHandler.Open)
	posGroup.Get("/sessions/:id", posHandler.Get)
	posGroup.Delete("/sessions/:id", posHandler.Close)
	posGroup.Put("/sessions/:id/location", posHandler.SelectLocation)
	posGroup.Post("/sessions/:id/items", posHandler.AddItem)
	posGroup.Put("/sessions/:id/items/:productId", posHandler.SetQuantity)
	posGroup.Delete("/sessions/:id/items/:productId", posHandler.RemoveItem)
	posGroup.Put("/sessions/:id/items/:productId/discount", posHandler.SetLineDiscount)
	posGroup.Put("/sessions/:id/pricing", posHandler.SetPricing)
	posGroup.Put("/sessions/:id/details", posHandler.SetDetails)
	posGroup.Post("/sessions/:id/reset", posHandler.Reset)
	posGroup.Post("/sessions/:id/checkout", posHandler.Checkout)

	// Sales
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.RegisterSale, deps.Receipt)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Get("/:id/receipt.pdf", saleHandler.ReceiptPDF)

	// Dashboard y notificaciones
	protected.Get("/dashboard/summary", adminOnly, NewDashboardHandler(deps.DashboardUC).GetSummary)
	protected.Get("/notifications", NewNotificationHandler(deps.Feed).Feed)
}

func healthHandler(deps RouterDeps) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Health != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := deps.Health(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": deps.ServiceName, "error": err.Error()})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	}
}
