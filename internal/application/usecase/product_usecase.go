package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
)

// ProductUseCase casos de uso CRUD para productos. El stock solo cambia vía movimientos (StockLedger).
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, categoryRepo repository.CategoryRepository) *ProductUseCase {
	return &ProductUseCase{repo: repo, categoryRepo: categoryRepo}
}

func (uc *ProductUseCase) ensureCategory(ctx context.Context, id string) error {
	cat, err := uc.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if cat == nil || !cat.Active {
		return &domain.NotFoundError{Entity: "categoría", ID: id}
	}
	return nil
}

// Create crea un producto. InitialStock se registra como stock_inicial y stock_actual, sin movimiento.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	code := strings.TrimSpace(in.Code)
	if code == "" || strings.TrimSpace(in.Name) == "" {
		return nil, domain.Invalid("codigo", "código y nombre son requeridos")
	}
	if in.PurchasePrice.IsNegative() || in.SalePrice.IsNegative() {
		return nil, domain.Invalid("precio", "no puede ser negativo")
	}
	if in.InitialStock < 0 || in.MinStock < 0 {
		return nil, domain.Invalid("stock", "no puede ser negativo")
	}
	if in.InitialStock > entity.MaxStock || in.MinStock > entity.MaxStock {
		return nil, domain.Invalid("stock", "fuera de rango")
	}
	existing, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: ya existe un producto con código %s", domain.ErrDuplicate, code)
	}
	if err := uc.ensureCategory(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Code:          code,
		Name:          strings.TrimSpace(in.Name),
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		PurchasePrice: in.PurchasePrice.Round(2),
		SalePrice:     in.SalePrice.Round(2),
		InitialStock:  in.InitialStock,
		CurrentStock:  in.InitialStock,
		MinStock:      in.MinStock,
		Active:        true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", ID: id}
	}
	return ToProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar el stock (se maneja vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, &domain.NotFoundError{Entity: "producto", ID: id}
	}
	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
		if err := uc.ensureCategory(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		product.CategoryID = *in.CategoryID
	}
	if in.PurchasePrice != nil {
		if in.PurchasePrice.IsNegative() {
			return nil, domain.Invalid("precio_compra", "no puede ser negativo")
		}
		product.PurchasePrice = in.PurchasePrice.Round(2)
	}
	if in.SalePrice != nil {
		if in.SalePrice.IsNegative() {
			return nil, domain.Invalid("precio_venta", "no puede ser negativo")
		}
		product.SalePrice = in.SalePrice.Round(2)
	}
	if in.MinStock != nil {
		if *in.MinStock < 0 || *in.MinStock > entity.MaxStock {
			return nil, domain.Invalid("stock_minimo", "fuera de rango")
		}
		product.MinStock = *in.MinStock
	}
	product.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List lista productos con búsqueda, categoría y paginación.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) (*dto.ProductListResponse, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *ToProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: filter.Limit, Offset: filter.Offset},
	}, nil
}

// SetActive baja lógica (o reactivación). No toca el stock.
func (uc *ProductUseCase) SetActive(ctx context.Context, id string, active bool) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return &domain.NotFoundError{Entity: "producto", ID: id}
	}
	return uc.repo.SetActive(ctx, id, active)
}

// ToProductResponse convierte un producto a su DTO.
func ToProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:            p.ID,
		Code:          p.Code,
		Name:          p.Name,
		Description:   p.Description,
		CategoryID:    p.CategoryID,
		PurchasePrice: p.PurchasePrice,
		SalePrice:     p.SalePrice,
		InitialStock:  p.InitialStock,
		CurrentStock:  p.CurrentStock,
		MinStock:      p.MinStock,
		LowStock:      p.IsLowStock(),
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}
