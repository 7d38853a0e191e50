package auth

import (
	"context"
	"strings"

	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
	"github.com/jhoicas/comercializacion-api/internal/domain"
	"github.com/jhoicas/comercializacion-api/internal/domain/repository"
	"github.com/jhoicas/comercializacion-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// AuthUseCase login con usuario y password.
type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   *jwt.Manager
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tokens *jwt.Manager) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tokens: tokens}
}

// Login verifica usuario/password, genera JWT y retorna token + usuario.
// Usuario inexistente y password incorrecto devuelven el mismo ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByUsername(ctx, strings.TrimSpace(in.Username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.Active {
		return nil, domain.ErrForbidden
	}
	token, exp, err := uc.tokens.Issue(jwt.Identity{UserID: user.ID, Username: user.Username, Role: user.Role})
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: exp,
		User:      *usecase.EntityToUserResponse(user),
	}, nil
}
