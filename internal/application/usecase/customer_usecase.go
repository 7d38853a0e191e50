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

// CustomerUseCase alta, consulta y baja lógica de clientes.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create registra un cliente; el número de documento es único.
func (uc *CustomerUseCase) Create(ctx context.Context, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	doc := strings.TrimSpace(in.DocumentNumber)
	if doc == "" {
		return nil, domain.Invalid("numero_documento", "requerido")
	}
	if err := taxid.ValidateDocument(in.DocumentType, doc); err != nil {
		return nil, domain.Invalid("numero_documento", err.Error())
	}
	existing, err := uc.repo.GetByDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicate("un cliente con documento", doc)
	}
	now := time.Now().UTC()
	c := &entity.Customer{
		ID:             uuid.New().String(),
		DocumentType:   in.DocumentType,
		DocumentNumber: doc,
		FirstName:      strings.TrimSpace(in.FirstName),
		LastName:       strings.TrimSpace(in.LastName),
		Email:          in.Email,
		Phone:          in.Phone,
		Address:        in.Address,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCustomerResponse(c), nil
}

// GetByID obtiene un cliente.
func (uc *CustomerUseCase) GetByID(ctx context.Context, id string) (*dto.CustomerResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, &domain.NotFoundError{Entity: "cliente", ID: id}
	}
	return toCustomerResponse(c), nil
}

// List lista clientes por nombre o documento.
func (uc *CustomerUseCase) List(ctx context.Context, filter repository.PartyFilter) ([]dto.CustomerResponse, error) {
	list, err := uc.repo.List(ctx, normalizeParty(filter))
	if err != nil {
		return nil, err
	}
	out := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		out = append(out, *toCustomerResponse(c))
	}
	return out, nil
}

// Deactivate baja lógica. Las ventas existentes conservan la referencia.
func (uc *CustomerUseCase) Deactivate(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return &domain.NotFoundError{Entity: "cliente", ID: id}
	}
	return uc.repo.SetActive(ctx, id, false)
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	return &dto.CustomerResponse{
		ID:             c.ID,
		DocumentType:   c.DocumentType,
		DocumentNumber: c.DocumentNumber,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Email:          c.Email,
		Phone:          c.Phone,
		Address:        c.Address,
		Active:         c.Active,
		CreatedAt:      c.CreatedAt,
	}
}
