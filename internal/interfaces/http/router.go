package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jhoicas/comercializacion-api/internal/application/auth"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/application/purchasing"
	"github.com/jhoicas/comercializacion-api/internal/application/sales"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/pkg/jwt"
	"github.com/jhoicas/comercializacion-api/pkg/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	ProductUC  *usecase.ProductUseCase
	CategoryUC *usecase.CategoryUseCase
	CustomerUC *usecase.CustomerUseCase
	SupplierUC *usecase.SupplierUseCase
	Ledger     *inventory.StockLedger
	Adjustment *inventory.AdjustmentCoordinator
	Reports    *inventory.ReportUseCase
	Exporter   inventory.ReportExporter
	Sales      *sales.Coordinator
	Voucher    *sales.VoucherUseCase
	Purchases  *purchasing.Coordinator
	Tokens     *jwt.Manager
}

// AppConfig opciones de la aplicación Fiber.
type AppConfig struct {
	Name   string
	Logger *logger.Logger
	// Ping verifica el almacenamiento para /health; nil lo omite.
	Ping func(ctx context.Context) error
}

// NewApp crea la aplicación Fiber con middlewares, /health, /metrics y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: ErrorHandler,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(cfg.Logger.Component("http")))
	app.Use(Metrics())
	app.Use(recover.New())
	app.Use(cors.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if cfg.Ping != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if err := cfg.Ping(ctx); err != nil {
				requestLogger(c).Error().Err(err).Msg("health: almacenamiento no disponible")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.Name})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	Router(app, deps)
	return app
}

// Router registra las rutas de la API.
// admin accede a todo; vendedor registra ventas; almacenero compras y ajustes. Todos los roles leen.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.Tokens))
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleVendedor, entity.RoleAlmacenero)
	adminOnly := RequireRole(entity.RoleAdmin)
	seller := RequireRole(entity.RoleAdmin, entity.RoleVendedor)
	warehouse := RequireRole(entity.RoleAdmin, entity.RoleAlmacenero)

	protected.Get("/auth/me", anyRole, authHandler.Me)
	users := protected.Group("/users", adminOnly)
	users.Post("/", authHandler.CreateUser)
	users.Get("/", authHandler.ListUsers)

	// Products + kardex
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Adjustment, deps.Reports, deps.Exporter)
	products.Post("/", adminOnly, productHandler.Create)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Deactivate)
	products.Post("/:id/activate", adminOnly, productHandler.Activate)
	products.Get("/:id/stock", anyRole, inventoryHandler.Stock)
	products.Get("/:id/movements", anyRole, inventoryHandler.Movements)
	products.Get("/:id/reconcile", warehouse, inventoryHandler.Reconcile)

	categories := protected.Group("/categories")
	categoryHandler := NewCategoryHandler(deps.CategoryUC)
	categories.Post("/", adminOnly, categoryHandler.Create)
	categories.Get("/", anyRole, categoryHandler.List)
	categories.Get("/:id", anyRole, categoryHandler.GetByID)
	categories.Delete("/:id", adminOnly, categoryHandler.Deactivate)

	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", seller, customerHandler.Create)
	customers.Get("/", anyRole, customerHandler.List)
	customers.Get("/:id", anyRole, customerHandler.GetByID)
	customers.Delete("/:id", adminOnly, customerHandler.Deactivate)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", warehouse, supplierHandler.Create)
	suppliers.Get("/", anyRole, supplierHandler.List)
	suppliers.Get("/:id", anyRole, supplierHandler.GetByID)
	suppliers.Delete("/:id", adminOnly, supplierHandler.Deactivate)

	invGroup := protected.Group("/inventory")
	invGroup.Post("/adjustments", warehouse, inventoryHandler.Adjust)
	invGroup.Post("/counts", warehouse, inventoryHandler.Count)
	invGroup.Get("/low-stock", anyRole, inventoryHandler.LowStock)
	invGroup.Get("/valuation", anyRole, inventoryHandler.Valuation)
	invGroup.Get("/rotation", anyRole, inventoryHandler.Rotation)
	invGroup.Get("/idle", anyRole, inventoryHandler.Idle)
	invGroup.Get("/report.xlsx", warehouse, inventoryHandler.Export)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales, deps.Voucher)
	salesGroup.Post("/", seller, saleHandler.Create)
	salesGroup.Get("/", anyRole, saleHandler.List)
	salesGroup.Get("/summary", seller, saleHandler.Summary)
	salesGroup.Get("/daily", anyRole, saleHandler.Daily)
	salesGroup.Get("/:id", anyRole, saleHandler.GetByID)
	salesGroup.Post("/:id/void", seller, saleHandler.Void)
	salesGroup.Get("/:id/voucher.pdf", anyRole, saleHandler.Voucher)

	purchases := protected.Group("/purchases")
	purchaseHandler := NewPurchaseHandler(deps.Purchases)
	purchases.Post("/", warehouse, purchaseHandler.Create)
	purchases.Get("/", anyRole, purchaseHandler.List)
	purchases.Get("/summary", warehouse, purchaseHandler.Summary)
	purchases.Get("/:id", anyRole, purchaseHandler.GetByID)
	purchases.Post("/:id/receive", warehouse, purchaseHandler.Receive)
	purchases.Post("/:id/cancel", warehouse, purchaseHandler.Cancel)
}
