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

// CategoryUseCase alta, consulta y baja lógica de categorías.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría; el nombre es único.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Invalid("nombre", "requerido")
	}
	now := time.Now().UTC()
	c := &entity.Category{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &domain.NotFoundError{Entity: "categoría", ID: id}
	}
	return toCategoryResponse(c), nil
}

// List lista categorías (activas salvo IncludeInactive).
func (uc *CategoryUseCase) List(ctx context.Context, filter repository.PartyFilter) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx, normalizeParty(filter))
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCategoryResponse(c))
	}
	return out, nil
}

// Deactivate baja lógica.
func (uc *CategoryUseCase) Deactivate(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return &domain.NotFoundError{Entity: "categoría", ID: id}
	}
	return uc.repo.SetActive(ctx, id, false)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Active:      c.Active,
		CreatedAt:   c.CreatedAt,
	}
}

func normalizeParty(f repository.PartyFilter) repository.PartyFilter {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	f.Search = strings.TrimSpace(f.Search)
	return f
}

func duplicate(what, value string) error {
	return fmt.Errorf("%w: ya existe %s %s", domain.ErrDuplicate, what, value)
}
