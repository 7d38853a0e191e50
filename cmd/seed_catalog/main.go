// seed_catalog carga categorías y productos desde un CSV (por defecto ISO-8859-1, separado por ';')
// y opcionalmente crea el usuario administrador inicial.
//
// Uso: go run ./cmd/seed_catalog -file catalogo.csv [-utf8] [-admin admin -admin-password secreto123]
//
// Formato: codigo;nombre;categoria;precio_compra;precio_venta;stock;stock_minimo
// El stock del CSV queda como stock inicial del producto (sin movimiento de kardex).
// Productos con código existente se omiten.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/internal/infrastructure/storage"
	"github.com/jhoicas/comercializacion-api/pkg/config"
	"github.com/jhoicas/comercializacion-api/pkg/logger"
)

func main() {
	file := flag.String("file", "catalogo.csv", "ruta del CSV")
	utf8 := flag.Bool("utf8", false, "el CSV ya está en UTF-8")
	adminUser := flag.String("admin", "", "username del administrador a crear si no existe")
	adminPass := flag.String("admin-password", "", "password del administrador")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Component("seed_catalog")

	f, err := os.Open(*file)
	if err != nil {
		log.Fatal().Err(err).Str("file", *file).Msg("abrir CSV")
	}
	defer f.Close()
	rows, err := parseCatalog(f, !*utf8)
	if err != nil {
		log.Fatal().Err(err).Msg("parsear CSV")
	}

	ctx := context.Background()
	repos, err := storage.Open(ctx, cfg.DB, log)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión al almacenamiento")
	}
	defer repos.Close()

	if *adminUser != "" {
		if err := ensureAdmin(ctx, usecase.NewUserUseCase(repos.Users), repos.Users, *adminUser, *adminPass); err != nil {
			log.Fatal().Err(err).Msg("crear administrador")
		}
	}

	res, err := importCatalog(ctx,
		usecase.NewCategoryUseCase(repos.Categories),
		usecase.NewProductUseCase(repos.Products, repos.Categories),
		rows,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("importar catálogo")
	}
	log.Info().
		Int("filas", len(rows)).
		Int("categorias_creadas", res.Categories).
		Int("productos_creados", res.Created).
		Int("omitidos", res.Skipped).
		Msg("catálogo importado")
}

type importResult struct {
	Categories int
	Created    int
	Skipped    int
}

// importCatalog crea las categorías que falten y los productos nuevos.
func importCatalog(ctx context.Context, categories *usecase.CategoryUseCase, products *usecase.ProductUseCase, rows []catalogRow) (importResult, error) {
	var res importResult
	existing, err := categories.List(ctx, repository.PartyFilter{IncludeInactive: true, Limit: 1000})
	if err != nil {
		return res, err
	}
	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		byName[strings.ToLower(c.Name)] = c.ID
	}

	for _, r := range rows {
		key := strings.ToLower(r.Category)
		catID, ok := byName[key]
		if !ok {
			cat, err := categories.Create(ctx, dto.CreateCategoryRequest{Name: r.Category})
			if err != nil {
				return res, fmt.Errorf("línea %d: categoría %q: %w", r.Line, r.Category, err)
			}
			catID = cat.ID
			byName[key] = catID
			res.Categories++
		}
		_, err := products.Create(ctx, dto.CreateProductRequest{
			Code:          r.Code,
			Name:          r.Name,
			CategoryID:    catID,
			PurchasePrice: r.PurchasePrice,
			SalePrice:     r.SalePrice,
			InitialStock:  r.Stock,
			MinStock:      r.MinStock,
		})
		if errors.Is(err, domain.ErrDuplicate) {
			res.Skipped++
			continue
		}
		if err != nil {
			return res, fmt.Errorf("línea %d: producto %q: %w", r.Line, r.Code, err)
		}
		res.Created++
	}
	return res, nil
}

func ensureAdmin(ctx context.Context, users *usecase.UserUseCase, repo repository.UserRepository, username, password string) error {
	u, err := repo.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u != nil {
		return nil
	}
	_, err = users.Create(ctx, dto.CreateUserRequest{
		Username: username,
		Email:    username + "@localhost",
		Password: password,
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	return err
}
