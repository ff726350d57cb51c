package router_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agritrade/internal/config"
	"agritrade/internal/router"
	"agritrade/internal/store/memory"
)

func testConfig() config.Config {
	return config.Config{
		StorageDriver:          "memory",
		JWTSecret:              "test-secret",
		JWTTTL:                 time.Hour,
		BcryptCost:             4,
		RateLimitRPS:           1000,
		RateLimitBurst:         1000,
		RevealRoleMismatch:     true,
		AllowAdminSelfRegister: true,
		CORSAllowedOrigins:     []string{"*"},
	}
}

type client struct {
	t       *testing.T
	handler http.Handler
}

func newClient(t *testing.T, cfg config.Config) *client {
	t.Helper()
	h := router.SetupRouter(cfg, memory.New().Repositories(), prometheus.NewRegistry(), zerolog.Nop())
	return &client{t: t, handler: h}
}

func (c *client) do(method, path, token string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func (c *client) login(username, password, role string) string {
	c.t.Helper()
	rec := c.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": username, "password": password, "role": role,
	})
	require.Equal(c.t, http.StatusOK, rec.Code, rec.Body.String())
	token, _ := decode(c.t, rec)["token"].(string)
	require.NotEmpty(c.t, token)
	return token
}

func farmerBody(email string) map[string]string {
	return map[string]string{
		"name": "Farmer One", "email": email, "password": "secret",
		"phoneNumber": "555-0100", "address": "Green Valley",
	}
}

func TestMarketplaceFlow(t *testing.T) {
	c := newClient(t, testConfig())

	rec := c.do(http.MethodPost, "/api/farmers/register", "", farmerBody("a@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	farmer := decode(t, rec)
	assert.EqualValues(t, 1, farmer["id"])
	assert.NotContains(t, rec.Body.String(), "secret")
	assert.NotContains(t, farmer, "password")

	rec = c.do(http.MethodPost, "/api/merchants/register", "", farmerBody("a@x.com"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duplicate_identity", decode(t, rec)["error"])

	rec = c.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "a@x.com", "password": "secret", "role": "merchant",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "This email is registered as a Farmer. Please login as Farmer.", body["message"])

	farmerToken := c.login("a@x.com", "secret", "farmer")

	rec = c.do(http.MethodGet, "/api/auth/roles", farmerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"ROLE_FARMER"}, decode(t, rec)["roles"])

	rec = c.do(http.MethodGet, "/api/farmers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = c.do(http.MethodGet, "/api/farmers", farmerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var farmers []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &farmers))
	assert.Len(t, farmers, 1)

	rec = c.do(http.MethodPost, "/api/crops/farmer/1", farmerToken, map[string]any{
		"cropName": "Wheat", "price": 20.5, "quantity": 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	crop := decode(t, rec)["data"].(map[string]any)
	cropID := crop["id"]
	assert.EqualValues(t, 1, cropID)

	rec = c.do(http.MethodGet, "/api/crops", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listed := decode(t, rec)
	assert.EqualValues(t, 1, listed["count"])
	first := listed["data"].([]any)[0].(map[string]any)
	assert.Equal(t, "a@x.com", first["farmer"].(map[string]any)["email"])

	rec = c.do(http.MethodPut, "/api/crops/1", farmerToken, map[string]any{"quantity": 50})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 50, updated["quantity"])
	assert.EqualValues(t, 20.5, updated["price"])
	assert.Equal(t, "Wheat", updated["cropName"])

	rec = c.do(http.MethodGet, "/api/crops/search?cropName=WHE", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode(t, rec)["count"])

	rec = c.do(http.MethodGet, "/api/crops/search", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodGet, "/api/admin/statistics", farmerToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/register-admin", "", map[string]string{
		"username": "root", "email": "root@x.com", "password": "toor",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	adminToken := c.login("root", "toor", "")

	rec = c.do(http.MethodGet, "/api/admin/statistics", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	stats := decode(t, rec)["data"].(map[string]any)
	assert.EqualValues(t, 1, stats["totalFarmers"])
	assert.EqualValues(t, 0, stats["totalMerchants"])
	assert.EqualValues(t, 1, stats["totalUsers"])

	rec = c.do(http.MethodDelete, "/api/admin/deleteFarmer/1", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Farmer with ID 1 has been successfully deleted", decode(t, rec)["message"])

	rec = c.do(http.MethodDelete, "/api/admin/deleteFarmer/1", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = c.do(http.MethodGet, "/api/crops/farmer/1", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 0, decode(t, rec)["count"])

	// the farmer's token no longer resolves to an account
	rec = c.do(http.MethodGet, "/api/auth/roles", farmerToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRegisterAdminCanBeDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.AllowAdminSelfRegister = false
	c := newClient(t, cfg)

	rec := c.do(http.MethodPost, "/api/auth/register-admin", "", map[string]string{
		"username": "root", "email": "root@x.com", "password": "toor",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "alice", "email": "alice@x.com", "password": "pw",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestRoleMismatchHiddenByDefault(t *testing.T) {
	cfg := testConfig()
	cfg.RevealRoleMismatch = false
	c := newClient(t, cfg)

	rec := c.do(http.MethodPost, "/api/farmers/register", "", farmerBody("a@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": "a@x.com", "password": "secret", "role": "merchant",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decode(t, rec)["error"])
}

func TestInvalidTokenRejected(t *testing.T) {
	c := newClient(t, testConfig())

	rec := c.do(http.MethodGet, "/api/merchants", "not-a-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_token", decode(t, rec)["error"])

	rec = c.do(http.MethodGet, "/api/admin/farmers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestPostRequiresJSON(t *testing.T) {
	c := newClient(t, testConfig())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("username=a"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	c := newClient(t, testConfig())

	req := httptest.NewRequest(http.MethodOptions, "/api/auth/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	c.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "3600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	c := newClient(t, testConfig())

	rec := c.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	rec = c.do(http.MethodGet, "/api/crops", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "agritrade_http_requests_total")
	assert.Contains(t, rec.Body.String(), `route="/api/crops"`)

	rec = c.do(http.MethodGet, "/api/nothing-here", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["error"])
}

func TestEmailSharedByOneAccountOnly(t *testing.T) {
	c := newClient(t, testConfig())

	rec := c.do(http.MethodPost, "/api/farmers/register", "", farmerBody("a@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "mallory", "email": "a@x.com", "password": "evil",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duplicate_identity", decode(t, rec)["error"])

	rec = c.do(http.MethodPost, "/api/auth/register-admin", "", map[string]string{
		"username": "mallory", "email": "a@x.com", "password": "evil",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	c.login("a@x.com", "secret", "farmer")

	rec = c.do(http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "bob", "email": "b@x.com", "password": "pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = c.do(http.MethodPost, "/api/farmers/register", "", farmerBody("b@x.com"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "duplicate_identity", decode(t, rec)["error"])

	rec = c.do(http.MethodPost, "/api/merchants/register", "", farmerBody("b@x.com"))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	token := c.login("b@x.com", "pw", "")
	rec = c.do(http.MethodGet, "/api/auth/roles", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{"ROLE_USER"}, decode(t, rec)["roles"])
}
