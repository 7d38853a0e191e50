package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/auth"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/internal/application/usecase"
)

// AuthHandler maneja login y la gestión de usuarios.
type AuthHandler struct {
	uc    *auth.AuthUseCase
	users *usecase.UserUseCase
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(uc *auth.AuthUseCase, users *usecase.UserUseCase) *AuthHandler {
	return &AuthHandler{uc: uc, users: users}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "username, password"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.uc.Login(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Me devuelve el usuario autenticado.
// @Summary      Usuario actual
// @Tags         auth
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.UserResponse
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	out, err := h.users.GetByID(c.UserContext(), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateUser godoc
// @Summary      Crear usuario (admin)
// @Tags         users
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUserRequest  true  "Datos del usuario"
// @Success      201   {object}  dto.UserResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var in dto.CreateUserRequest
	if ok, err := bindAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.users.Create(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUsers godoc
// @Summary      Listar usuarios (admin)
// @Tags         users
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200     {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	limit, offset := pageParams(c, 20, 100)
	out, err := h.users.List(c.UserContext(), limit, offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
