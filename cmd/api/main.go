// @title                       Comercialización API
// @version                     1.0
// @description                 Kardex, ventas, compras y ajustes de inventario.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/docs"
	"github.com/jhoicas/comercializacion-api/internal/application/auth"
	"github.com/jhoicas/comercializacion-api/internal/application/inventory"
	"github.com/jhoicas/comercializacion-api/internal/application/purchasing"
	"github.com/jhoicas/comercializacion-api/internal/application/sales"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/comercializacion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/storage"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/xlsx"
	httpRouter "github.com/jhoicas/comercializacion-api/internal/interfaces/http"
	"github.com/jhoicas/comercializacion-api/pkg/config"
	"github.com/jhoicas/comercializacion-api/pkg/jwt"
	"github.com/jhoicas/comercializacion-api/pkg/logger"
	"github.com/swaggo/swag"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer repos.Close()

	ledger := inventory.NewStockLedger(repos.TxRunner, repos.Products, repos.Movements)
	saleCoord := sales.NewCoordinator(repos.TxRunner, ledger, repos.Customers, repos.Sales, cfg.Business.TaxRate)
	purchaseCoord := purchasing.NewCoordinator(repos.TxRunner, ledger, repos.Suppliers, repos.Purchases, cfg.Business.TaxRate)
	voucherUC := sales.NewVoucherUseCase(
		repos.Sales, repos.Customers, repos.Products,
		infrapdf.NewVoucherGenerator(),
		sales.BusinessInfo{
			Name:           cfg.Business.Name,
			RUC:            cfg.Business.RUC,
			CurrencySymbol: cfg.Business.CurrencySymbol,
		},
	)
	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, time.Duration(cfg.JWT.Expiration)*time.Minute)
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}
	authUC := auth.NewAuthUseCase(repos.Users, tokens)

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:   cfg.App.Name,
		Logger: log,
		Ping:   repos.Ping,
	}, httpRouter.RouterDeps{
		AuthUC:     authUC,
		UserUC:     usecase.NewUserUseCase(repos.Users),
		ProductUC:  usecase.NewProductUseCase(repos.Products, repos.Categories),
		CategoryUC: usecase.NewCategoryUseCase(repos.Categories),
		CustomerUC: usecase.NewCustomerUseCase(repos.Customers),
		SupplierUC: usecase.NewSupplierUseCase(repos.Suppliers),
		Ledger:     ledger,
		Adjustment: inventory.NewAdjustmentCoordinator(repos.TxRunner, ledger),
		Reports:    inventory.NewReportUseCase(repos.Products, repos.Movements),
		Exporter:   xlsx.NewInventoryExporter(),
		Sales:      saleCoord,
		Voucher:    voucherUC,
		Purchases:  purchaseCoord,
		Tokens:     tokens,
	})

	// Swagger UI en local: http://localhost:<port>/docs
	docs.SwaggerInfo.Host = cfg.HTTP.Addr()
	app.Get("/docs/doc.json", func(c *fiber.Ctx) error {
		doc, err := swag.ReadDoc()
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.SendString(doc)
	})
	if _, err := os.Stat("./docs/swagger.json"); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: "./docs/swagger.json",
			Path:     "docs",
			Title:    "Comercialización API",
		}))
	} else {
		log.Warn().Msg("docs/swagger.json no encontrado, Swagger UI deshabilitado")
	}

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
