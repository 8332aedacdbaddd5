package http

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gajjarumesh/erp-beta-sub001/internal/application/dto"
	"github.com/gajjarumesh/erp-beta-sub001/internal/domain/entity"
	"github.com/gajjarumesh/erp-beta-sub001/pkg/jwt"
)

const testSecret = "secreto-de-test-no-usar-en-prod"

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma una app mínima con auth + RBAC en /protegido.
func buildTestApp(allowedRoles ...string) *fiber.App {
	app := fiber.New()
	handlers := []fiber.Handler{AuthMiddleware(testSecret)}
	if len(allowedRoles) > 0 {
		handlers = append(handlers, RequireRole(allowedRoles...))
	}
	handlers = append(handlers, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userId":   GetUserID(c),
			"tenantId": GetTenantID(c),
			"role":     GetRole(c),
		})
	})
	app.Get("/protegido", handlers...)
	return app
}

func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	token, err := jwt.Generate(testSecret, "user-1", "tenant-1", role, "test", 15)
	require.NoError(t, err)
	return token
}

// doRequest ejecuta GET /protegido con el header Authorization dado y
// devuelve el status y el code del cuerpo de error (si lo hay).
func doRequest(t *testing.T, app *fiber.App, authHeader string) (int, string) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, "/protegido", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var errResp dto.ErrorResponse
	_ = json.Unmarshal(body, &errResp)
	return resp.StatusCode, errResp.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinHeader(t *testing.T) {
	app := buildTestApp()

	status, code := doRequest(t, app, "")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_TOKEN", code)
}

func TestAuthMiddleware_FormatoInvalido(t *testing.T) {
	app := buildTestApp()

	status, code := doRequest(t, app, "Basic abc123")
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", code)
}

func TestAuthMiddleware_TokenValido_ExponeLocals(t *testing.T) {
	app := buildTestApp()
	token := tokenForRole(t, entity.RoleAdmin)

	req := httptest.NewRequest(fiber.MethodGet, "/protegido", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "user-1", body["userId"])
	assert.Equal(t, "tenant-1", body["tenantId"])
	assert.Equal(t, entity.RoleAdmin, body["role"])
}

func TestAuthMiddleware_FirmaIncorrecta(t *testing.T) {
	app := buildTestApp()
	token, err := jwt.Generate("otro-secreto", "user-1", "tenant-1", entity.RoleAdmin, "test", 15)
	require.NoError(t, err)

	status, code := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", code)
}

func TestAuthMiddleware_TokenExpirado(t *testing.T) {
	app := buildTestApp()
	token, err := jwt.Generate(testSecret, "user-1", "tenant-1", entity.RoleAdmin, "test", -5)
	require.NoError(t, err)

	status, code := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "INVALID_TOKEN", code)
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireRole_AdminPasa(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	token := tokenForRole(t, entity.RoleAdmin)

	status, _ := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestRequireRole_MemberRechazadoEnRutaAdmin(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	token := tokenForRole(t, entity.RoleMember)

	status, code := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", code)
}

func TestRequireRole_SinClaimDeRol(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin)
	token := tokenForRole(t, "")

	status, code := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusUnauthorized, status)
	assert.Equal(t, "MISSING_ROLE", code)
}

func TestRequireRole_VariosRolesPermitidos(t *testing.T) {
	app := buildTestApp(entity.RoleAdmin, entity.RoleMember)
	token := tokenForRole(t, entity.RoleMember)

	status, _ := doRequest(t, app, "Bearer "+token)
	assert.Equal(t, fiber.StatusOK, status)
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt round-trip
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateYParse(t *testing.T) {
	token, err := jwt.Generate(testSecret, "user-9", "tenant-9", entity.RoleMember, "billing-api", 15)
	require.NoError(t, err)

	userID, tenantID, role, err := jwt.Parse(testSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "user-9", userID)
	assert.Equal(t, "tenant-9", tenantID)
	assert.Equal(t, entity.RoleMember, role)
}

func TestJWT_SecretVacio(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "tenant-1", entity.RoleAdmin, "test", 15)
	assert.Error(t, err)

	_, _, _, err = jwt.Parse("", "cualquier-token")
	assert.Error(t, err)
}
