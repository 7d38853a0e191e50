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
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create hashea el password con bcrypt y persiste el usuario.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || len(in.Password) < 8 {
		return nil, domain.Invalid("username", "usuario requerido y password de al menos 8 caracteres")
	}
	if !entity.IsValidRole(in.Role) {
		return nil, domain.Invalid("rol", "debe ser admin, vendedor o almacenero")
	}
	existing, err := uc.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, duplicate("el usuario", username)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Name:         in.Name,
		Role:         in.Role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return EntityToUserResponse(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &domain.NotFoundError{Entity: "usuario", ID: id}
	}
	return EntityToUserResponse(user), nil
}

// List lista usuarios.
func (uc *UserUseCase) List(ctx context.Context, limit, offset int) ([]dto.UserResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	list, err := uc.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *EntityToUserResponse(u))
	}
	return out, nil
}

// EntityToUserResponse convierte un usuario a su DTO (sin password).
func EntityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
