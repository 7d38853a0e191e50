package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/jhoicas/comercializacion-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/comercializacion-api/pkg/jwt"
)

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testUsername  = "cajero1"
	testIssuer    = "comercializacion-test"
	testTTL       = time.Hour
)

func testTokens(t *testing.T) *pkgjwt.Manager {
	t.Helper()
	m, err := pkgjwt.NewManager(testJWTSecret, testIssuer, testTTL)
	require.NoError(t, err)
	return m
}

func issue(t *testing.T, m *pkgjwt.Manager, role string) string {
	t.Helper()
	tok, _, err := m.Issue(pkgjwt.Identity{UserID: testUserID, Username: testUsername, Role: role})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return tok
}

// buildTestApp aplicación mínima: AuthMiddleware + RequireRole + handler que responde 200.
func buildTestApp(t *testing.T, allowedRoles ...string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testTokens(t)),
		apphttp.RequireRole(allowedRoles...),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	return "Bearer " + issue(t, testTokens(t), role)
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRequireRole_AdminAccedeRutaAdmin(t *testing.T) {
	app := buildTestApp(t, "admin")
	resp := doRequest(t, app, tokenForRole(t, "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, "admin", body["role"])
}

func TestRequireRole_AlmaceneroAccedeRutaCompartida(t *testing.T) {
	app := buildTestApp(t, "admin", "almacenero")
	resp := doRequest(t, app, tokenForRole(t, "almacenero"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRole_RolNoPermitido_Retorna403(t *testing.T) {
	tests := []struct {
		name    string
		allowed []string
		role    string
	}{
		{"vendedor en ruta admin", []string{"admin"}, "vendedor"},
		{"almacenero en ruta de ventas", []string{"admin", "vendedor"}, "almacenero"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := buildTestApp(t, tt.allowed...)
			resp := doRequest(t, app, tokenForRole(t, tt.role))
			defer resp.Body.Close()

			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), "FORBIDDEN")
		})
	}
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp(t, "admin")
	tok := issue(t, testTokens(t), "")

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

func TestAuthMiddleware_TokenRechazado(t *testing.T) {
	shortLived, err := pkgjwt.NewManager(testJWTSecret, testIssuer, -time.Hour)
	require.NoError(t, err)
	expired := issue(t, shortLived, "admin")
	otherSecret, err := pkgjwt.NewManager("otro-secret", testIssuer, testTTL)
	require.NoError(t, err)
	foreign := issue(t, otherSecret, "admin")
	otherIssuer, err := pkgjwt.NewManager(testJWTSecret, "otra-app", testTTL)
	require.NoError(t, err)
	wrongIssuer := issue(t, otherIssuer, "admin")

	tests := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"sin esquema Bearer", "Token abc", "INVALID_TOKEN"},
		{"malformado", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
		{"expirado", "Bearer " + expired, "TOKEN_EXPIRED"},
		{"otro secret", "Bearer " + foreign, "INVALID_TOKEN"},
		{"otro emisor", "Bearer " + wrongIssuer, "INVALID_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, buildTestApp(t, "admin"), tt.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tt.code)
		})
	}
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testTokens(t)), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id":  apphttp.GetUserID(c),
			"username": apphttp.GetUsername(c),
			"role":     apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, "vendedor"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testUsername, body["username"])
	assert.Equal(t, "vendedor", body["role"])
}
