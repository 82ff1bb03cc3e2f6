package api

import (
	"fmt"
	"net/http"
	"testing"

	"bookyard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoot(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Register, log in, show up in the buyer list.
func TestUserRegistrationFlow(t *testing.T) {
	env := newTestEnv(t)

	resp := env.do(t, http.MethodPost, "/users", "", map[string]string{
		"email": "a@x.com",
		"name":  "Alice",
		"role":  "buyer",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeJSON[models.User](t, resp)
	assert.NotZero(t, created.ID)
	assert.Equal(t, "a@x.com", created.Email)

	resp = env.do(t, http.MethodGet, "/jwt?email=a@x.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token := decodeJSON[map[string]string](t, resp)
	assert.NotEmpty(t, token["accessToken"])

	resp = env.do(t, http.MethodGet, "/buyers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	buyers := decodeJSON[[]models.User](t, resp)
	require.Len(t, buyers, 1)
	assert.Equal(t, "a@x.com", buyers[0].Email)
}

func TestCreateUser_Validation(t *testing.T) {
	env := newTestEnv(t)

	// Missing email.
	resp := env.do(t, http.MethodPost, "/users", "", map[string]string{"role": "buyer"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown role.
	resp = env.do(t, http.MethodPost, "/users", "", map[string]string{
		"email": "x@example.com", "role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Duplicate email.
	env.createUser(t, "dup@example.com", models.RoleBuyer)
	resp = env.do(t, http.MethodPost, "/users", "", map[string]string{
		"email": "dup@example.com", "role": "buyer",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestRoleChecks(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", models.RoleAdmin)
	env.createUser(t, "seller@example.com", models.RoleSeller)

	resp := env.do(t, http.MethodGet, "/users/admin/admin@example.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeJSON[map[string]bool](t, resp)["isAdmin"])

	resp = env.do(t, http.MethodGet, "/users/admin/seller@example.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeJSON[map[string]bool](t, resp)["isAdmin"])

	resp = env.do(t, http.MethodGet, "/users/seller/seller@example.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeJSON[map[string]bool](t, resp)["isSeller"])

	// Unknown users are simply not admins or sellers.
	resp = env.do(t, http.MethodGet, "/users/seller/nobody@example.com", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeJSON[map[string]bool](t, resp)["isSeller"])
}

func TestAdminRemovesSeller(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", models.RoleAdmin)
	seller := env.createUser(t, "seller@example.com", models.RoleSeller)
	adminToken := env.tokenFor(t, "admin@example.com")

	resp := env.do(t, http.MethodDelete, fmt.Sprintf("/sellers/%d", seller.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Gone now.
	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/sellers/%d", seller.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/sellers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeJSON[[]models.User](t, resp))
}

func TestAdminRemovesBuyer(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", models.RoleAdmin)
	buyer := env.createUser(t, "buyer@example.com", models.RoleBuyer)
	seller := env.createUser(t, "seller@example.com", models.RoleSeller)
	adminToken := env.tokenFor(t, "admin@example.com")

	// The buyer route cannot remove a seller.
	resp := env.do(t, http.MethodDelete, fmt.Sprintf("/buyers/%d", seller.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = env.do(t, http.MethodDelete, fmt.Sprintf("/buyers/%d", buyer.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestVerifySeller(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "admin@example.com", models.RoleAdmin)
	seller := env.createUser(t, "seller@example.com", models.RoleSeller)
	buyer := env.createUser(t, "buyer@example.com", models.RoleBuyer)
	adminToken := env.tokenFor(t, "admin@example.com")

	resp := env.do(t, http.MethodPut, fmt.Sprintf("/sellers/verified/%d", seller.ID), adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, http.MethodGet, "/sellers", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sellers := decodeJSON[[]models.User](t, resp)
	require.Len(t, sellers, 1)
	assert.True(t, sellers[0].SellerVerified)

	// Verifying a buyer or a missing id fails instead of fabricating a record.
	resp = env.do(t, http.MethodPut, fmt.Sprintf("/sellers/verified/%d", buyer.ID), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp = env.do(t, http.MethodPut, "/sellers/verified/99999", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Malformed id.
	resp = env.do(t, http.MethodPut, "/sellers/verified/abc", adminToken, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
