package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/comercializacion-api/internal/application/dto"
	"github.com/jhoicas/comercializacion-api/pkg/jwt"
)

// Locals keys para los claims del token en Fiber.
const (
	LocalUserID   = "user_id"
	LocalUsername = "username"
	LocalRole     = "role"
)

// AuthMiddleware valida el Bearer Token JWT y deja UserID, Username y Role en c.Locals.
func AuthMiddleware(tokens *jwt.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := tokens.Verify(tokenString)
		if errors.Is(err, jwt.ErrExpired) {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "TOKEN_EXPIRED", Message: "token expirado"})
		}
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido"})
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalUsername, claims.Username)
		c.Locals(LocalRole, claims.Role)
		return c.Next()
	}
}

// RequireRole permite el paso solo si el rol del token está entre los indicados.
// Debe usarse después de AuthMiddleware.
func RequireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := GetRole(c)
		if role == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if _, ok := allowed[role]; !ok {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "el rol " + role + " no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

func localString(c *fiber.Ctx, key string) string {
	s, _ := c.Locals(key).(string)
	return s
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string { return localString(c, LocalUserID) }

// GetUsername devuelve el username del token.
func GetUsername(c *fiber.Ctx) string { return localString(c, LocalUsername) }

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string { return localString(c, LocalRole) }
