package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Bodegas-api/internal/domain/entity"
	apphttp "github.com/jhoicas/Bodegas-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Bodegas-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testCompanyID = "00000000-0000-0000-0000-000000000002"
	testIssuer    = "bodegas-api-test"
	testExpMin    = 60
)

// buildRouterApp arma una app con la misma forma que el router real: un grupo
// /api protegido por AuthMiddleware, una lectura abierta a cualquier rol
// autenticado (como /warehouses) y una mutación solo para admin (como
// /groups). El handler final devuelve los locals que los handlers reales
// usan para delimitar las consultas por empresa.
func buildRouterApp() *fiber.App {
	app := fiber.New()
	echoLocals := func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"user_id":    apphttp.GetUserID(c),
			"company_id": apphttp.GetCompanyID(c),
			"role":       apphttp.GetRole(c),
		})
	}
	protected := app.Group("/api", apphttp.AuthMiddleware(testJWTSecret))
	protected.Get("/warehouses", echoLocals)
	protected.Post("/groups", apphttp.RequireRole(entity.RoleAdmin), echoLocals)
	protected.Post("/transfers", apphttp.RequireRole(entity.RoleAdmin, entity.RoleBodeguero), echoLocals)
	return app
}

func tokenFor(t *testing.T, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func request(t *testing.T, app *fiber.App, method, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireRole sobre rutas con la forma del router
// ──────────────────────────────────────────────────────────────────────────────

func TestRutasProtegidas_PorRol(t *testing.T) {
	app := buildRouterApp()

	cases := []struct {
		name   string
		role   string
		method string
		path   string
		want   int
	}{
		{"admin crea grupos", entity.RoleAdmin, http.MethodPost, "/api/groups", http.StatusOK},
		{"bodeguero no crea grupos", entity.RoleBodeguero, http.MethodPost, "/api/groups", http.StatusForbidden},
		{"conductor no crea grupos", entity.RoleConductor, http.MethodPost, "/api/groups", http.StatusForbidden},
		{"bodeguero lista bodegas", entity.RoleBodeguero, http.MethodGet, "/api/warehouses", http.StatusOK},
		{"conductor lista bodegas", entity.RoleConductor, http.MethodGet, "/api/warehouses", http.StatusOK},
		{"bodeguero crea solicitudes", entity.RoleBodeguero, http.MethodPost, "/api/transfers", http.StatusOK},
		{"conductor no crea solicitudes", entity.RoleConductor, http.MethodPost, "/api/transfers", http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := request(t, app, tc.method, tc.path, tokenFor(t, tc.role))
			defer resp.Body.Close()
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestRequireRole_RolNoPermitidoDevuelveCodigo(t *testing.T) {
	app := buildRouterApp()
	resp := request(t, app, http.MethodPost, "/api/groups", tokenFor(t, entity.RoleConductor))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN_ROLE",
		"la respuesta de error debe incluir el código FORBIDDEN_ROLE")
}

func TestRequireRole_TokenSinRol_Retorna401(t *testing.T) {
	// Un token con rol vacío simula un token emitido antes del claim de rol.
	app := buildRouterApp()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := request(t, app, http.MethodPost, "/api/groups", "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE")
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware — rechazo de tokens y carga de locals
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokensRechazados(t *testing.T) {
	app := buildRouterApp()

	cases := []struct {
		name   string
		header string
		code   string
	}{
		{"sin header", "", "MISSING_TOKEN"},
		{"esquema distinto de Bearer", "Basic dXNlcjpwYXNz", "INVALID_TOKEN"},
		{"bearer sin token", "Bearer ", "MISSING_TOKEN"},
		{"token corrupto", "Bearer token.invalido.aqui", "INVALID_TOKEN"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := request(t, app, http.MethodGet, "/api/warehouses", tc.header)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			body, _ := io.ReadAll(resp.Body)
			assert.Contains(t, string(body), tc.code)
		})
	}
}

func TestAuthMiddleware_TokenFirmadoConOtroSecret_Retorna401(t *testing.T) {
	app := buildRouterApp()
	tok, err := pkgjwt.Generate("otro-secret-completamente-distinto", testUserID, testCompanyID, entity.RoleAdmin, testIssuer, testExpMin)
	require.NoError(t, err)

	resp := request(t, app, http.MethodGet, "/api/warehouses", "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

// Los handlers delimitan toda consulta por la empresa del token: los locals
// que carga el middleware deben llegar intactos al handler.
func TestAuthMiddleware_LocalsParaDelimitarPorEmpresa(t *testing.T) {
	app := buildRouterApp()
	resp := request(t, app, http.MethodGet, "/api/warehouses", tokenFor(t, entity.RoleBodeguero))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, testCompanyID, body["company_id"])
	assert.Equal(t, entity.RoleBodeguero, body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// pkg/jwt — generate/parse
// ──────────────────────────────────────────────────────────────────────────────

func TestJWT_GenerateAndParse_ConRole(t *testing.T) {
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, entity.RoleConductor, testIssuer, testExpMin)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	userID, companyID, role, err := pkgjwt.Parse(testJWTSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
	assert.Equal(t, testCompanyID, companyID)
	assert.Equal(t, entity.RoleConductor, role)
}

func TestJWT_TokenExpirado_RetornaError(t *testing.T) {
	// Expiración -1 minuto: el token ya nació vencido.
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testCompanyID, entity.RoleAdmin, testIssuer, -1)
	require.NoError(t, err)

	_, _, _, err = pkgjwt.Parse(testJWTSecret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}
