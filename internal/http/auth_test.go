package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/services"
)

func TestLoginIssuesTokens(t *testing.T) {
	a := newTestApp(t)

	var pair services.TokenPair
	entries := captureLogs(t, func() {
		resp := a.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "Passw0rd!"}, &pair)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	})
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	e, ok := findLog(entries, "auth.login.success")
	require.True(t, ok)
	assert.Equal(t, "u-alice", e.UserID)

	var me domain.User
	resp := a.do(t, "GET", "/api/v1/auth/me", pair.Access, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alice", me.Username)
	assert.Empty(t, me.Hash)

	var next services.TokenPair
	resp = a.do(t, "POST", "/api/v1/auth/refresh", "", map[string]string{"refresh": pair.Refresh}, &next)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, next.Access)

	resp = a.do(t, "POST", "/api/v1/auth/refresh", "", map[string]string{"refresh": pair.Access}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "access token cannot refresh")
}

func TestLoginFailureIsLogged(t *testing.T) {
	a := newTestApp(t)
	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = a.do(t, "POST", "/api/v1/auth/login", "", map[string]string{"username": "alice", "password": "Wr0ngPass!"}, nil)
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	e, ok := findLog(entries, "auth.login.fail")
	require.True(t, ok)
	assert.Equal(t, "alice", e.Fields["username"])
}

func TestInvalidBearerIsAnonymous(t *testing.T) {
	a := newTestApp(t)
	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = a.do(t, "GET", "/api/v1/auth/me", "garbage", nil, nil)
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	_, ok := findLog(entries, "auth.token.invalid")
	assert.True(t, ok)

	resp = a.do(t, "GET", "/api/v1/products", "garbage", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "public routes ignore a bad token")
}

func TestLoginRateLimit(t *testing.T) {
	a := newTestApp(t)
	body := map[string]string{"username": "bob", "password": "short"}
	for i := 0; i < 5; i++ {
		resp := a.do(t, "POST", "/api/v1/auth/login", "", body, nil)
		require.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode, "limited too early at %d", i)
	}
	var resp *http.Response
	entries := captureLogs(t, func() {
		resp = a.do(t, "POST", "/api/v1/auth/login", "", body, nil)
	})
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	_, ok := findLog(entries, "rate.login.hit")
	assert.True(t, ok)
}

func TestRegisterThenLogout(t *testing.T) {
	a := newTestApp(t)

	var pair services.TokenPair
	entries := captureLogs(t, func() {
		resp := a.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
			"username": "carol", "email": "carol@example.com", "password": "Passw0rd!",
		}, &pair)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	})
	require.NotEmpty(t, pair.Refresh)
	_, ok := findLog(entries, "auth.register.success")
	assert.True(t, ok)

	var errResp struct{ Error string }
	resp := a.do(t, "POST", "/api/v1/auth/register", "", map[string]string{
		"username": "Carol", "email": "other@example.com", "password": "Passw0rd!",
	}, &errResp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", errResp.Error)

	resp = a.do(t, "POST", "/api/v1/auth/logout", "", map[string]string{"refresh": pair.Refresh}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "logout needs a signed-in user")

	resp = a.do(t, "POST", "/api/v1/auth/logout", pair.Access, map[string]string{"refresh": pair.Refresh}, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = a.do(t, "POST", "/api/v1/auth/refresh", "", map[string]string{"refresh": pair.Refresh}, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "revoked refresh token")
}
