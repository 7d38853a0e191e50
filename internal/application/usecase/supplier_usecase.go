package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/entity"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/pkg/taxid"
)

// SupplierUseCase alta, consulta y baja lógica de proveedores.
type SupplierUseCase struct {
	repo repository.SupplierRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo}
}

// Create registra un proveedor; el RUC es único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	ruc := strings.TrimSpace(in.RUC)
	if ruc == "" || strings.TrimSpace(in.BusinessName) == "" {
		return nil, domain.Invalid("ruc", "RUC y razón social son requeridos")
	}
	if err := taxid.ValidateRUC(ruc); err != nil {
		return nil, domain.Invalid("ruc", err.Error())
	}
	existing, err := uc.repo.GetByRUC(ctx, ruc)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicate("un proveedor con RUC", ruc)
	}
	now := time.Now().UTC()
	s := &entity.Supplier{
		ID:           uuid.New().String(),
		RUC:          ruc,
		BusinessName: strings.TrimSpace(in.BusinessName),
		Contact:      in.Contact,
		Email:        in.Email,
		Phone:        in.Phone,
		Address:      in.Address,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return toSupplierResponse(s), nil
}

// GetByID obtiene un proveedor.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, &domain.NotFoundError{Entity: "proveedor", ID: id}
	}
	return toSupplierResponse(s), nil
}

// List lista proveedores por razón social o RUC.
func (uc *SupplierUseCase) List(ctx context.Context, filter repository.PartyFilter) ([]dto.SupplierResponse, error) {
	list, err := uc.repo.List(ctx, normalizeParty(filter))
	if err != nil {
		return nil, err
	}
	out := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSupplierResponse(s))
	}
	return out, nil
}

// Deactivate baja lógica.
func (uc *SupplierUseCase) Deactivate(ctx context.Context, id string) error {
	s, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return &domain.NotFoundError{Entity: "proveedor", ID: id}
	}
	return uc.repo.SetActive(ctx, id, false)
}

func toSupplierResponse(s *entity.Supplier) *dto.SupplierResponse {
	return &dto.SupplierResponse{
		ID:           s.ID,
		RUC:          s.RUC,
		BusinessName: s.BusinessName,
		Contact:      s.Contact,
		Email:        s.Email,
		Phone:        s.Phone,
		Address:      s.Address,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
	}
}
