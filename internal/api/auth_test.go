package api

import (
	"context"
	"net/http"
	"testing"

	"bookyard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProtectedRoutes_MissingCredential(t *testing.T) {
	env := newTestEnv(t)

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/books/seller@example.com"},
		{http.MethodGet, "/bookings?email=a@example.com"},
		{http.MethodPut, "/reportitem/1"},
		{http.MethodDelete, "/books/1"},
		{http.MethodPut, "/advertise/1"},
		{http.MethodPut, "/sellers/verified/1"},
		{http.MethodGet, "/reporteditems"},
		{http.MethodDelete, "/reportedbook/1"},
		{http.MethodDelete, "/sellers/1"},
		{http.MethodDelete, "/buyers/1"},
		{http.MethodGet, "/admin/export/bookings"},
	}

	for _, route := range protected {
		resp := env.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
			"%s %s without credential", route.method, route.path)
	}
}

func TestProtectedRoutes_InvalidToken(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/books/seller@example.com", "garbage-token", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "Forbidden Access", body["error"])
}

func TestAdminGuard_DeniesWrongRole(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "buyer@example.com", models.RoleBuyer)

	token := env.tokenFor(t, "buyer@example.com")
	resp := env.do(t, http.MethodGet, "/reporteditems", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "This is admin only functionality", body["error"])
}

func TestSellerGuard_DeniesWrongRole(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "buyer@example.com", models.RoleBuyer)

	token := env.tokenFor(t, "buyer@example.com")
	resp := env.do(t, http.MethodDelete, "/books/1", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeJSON[map[string]string](t, resp)
	assert.Equal(t, "This is seller only functionality", body["error"])
}

// Guards re-read the stored role every request, so a role lookup for an
// identity that no longer exists is denied too.
func TestGuard_DeniesDeletedUser(t *testing.T) {
	env := newTestEnv(t)
	admin := env.createUser(t, "admin@example.com", models.RoleAdmin)
	token := env.tokenFor(t, "admin@example.com")

	resp := env.do(t, http.MethodGet, "/reporteditems", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, env.db.DeleteUser(context.Background(), admin.ID, models.RoleAdmin))

	resp = env.do(t, http.MethodGet, "/reporteditems", token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIssueToken(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "known@example.com", models.RoleBuyer)

	// Known email: two calls, two valid tokens, same embedded identity.
	for i := 0; i < 2; i++ {
		resp := env.do(t, http.MethodGet, "/jwt?email=known@example.com", "", nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeJSON[map[string]string](t, resp)
		require.NotEmpty(t, body["accessToken"])

		claims, err := env.tokens.Verify(body["accessToken"])
		require.NoError(t, err)
		assert.Equal(t, "known@example.com", claims.Email)
	}

	// Unknown email: 403 with an empty token.
	resp := env.do(t, http.MethodGet, "/jwt?email=stranger@example.com", "", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body := decodeJSON[map[string]string](t, resp)
	assert.Empty(t, body["accessToken"])

	// No email at all is a client error.
	resp = env.do(t, http.MethodGet, "/jwt", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimit.RPS = 1
	cfg.RateLimit.Burst = 1
	env := newTestEnvWithConfig(t, cfg)

	first := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, first.StatusCode)

	second := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.StatusCode)
}
