package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
	"storefront/internal/repos"
	"storefront/internal/services"
)

func newAuth(e *env) *services.AuthService {
	return &services.AuthService{
		DB:      e.db,
		Users:   repos.NewUserRepo(e.db),
		Tokens:  services.NewTokenManager(services.TokenConfig{Secret: "k", Issuer: "storefront", AccessTTL: time.Minute, RefreshTTL: time.Hour}),
		Revoked: repos.NewTokenRepo(e.db),
	}
}

func TestLoginAndRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	auth := newAuth(e)

	_, err := auth.Login(ctx, "alice", "wrong-Passw0rd!")
	assert.ErrorIs(t, err, services.ErrBadCreds)
	_, err = auth.Login(ctx, "nobody", "Passw0rd!")
	assert.ErrorIs(t, err, services.ErrBadCreds)

	pair, err := auth.Login(ctx, "alice", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "u-alice", pair.User.ID)
	assert.EqualValues(t, 60, pair.ExpiresIn)

	u, err := auth.CurrentUser(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = auth.CurrentUser(ctx, pair.Refresh)
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	next, err := auth.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.Equal(t, "u-alice", next.User.ID)
}

func TestRegister(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	auth := newAuth(e)

	pair, err := auth.Register(ctx, services.RegisterRequest{Username: "carol", Email: "carol@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, "carol", pair.User.Username)
	assert.False(t, pair.User.IsStaff)
	assert.NotEmpty(t, pair.Access)

	_, err = auth.Login(ctx, "carol", "Passw0rd!")
	require.NoError(t, err)

	cases := []struct {
		name string
		req  services.RegisterRequest
	}{
		{"taken username", services.RegisterRequest{Username: "ALICE", Email: "new@example.com", Password: "Passw0rd!"}},
		{"taken email", services.RegisterRequest{Username: "dave", Email: "Carol@Example.com", Password: "Passw0rd!"}},
		{"bad email", services.RegisterRequest{Username: "dave", Email: "not-an-email", Password: "Passw0rd!"}},
		{"weak password", services.RegisterRequest{Username: "dave", Email: "dave@example.com", Password: "password"}},
		{"bad username", services.RegisterRequest{Username: "has space", Email: "dave@example.com", Password: "Passw0rd!"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := auth.Register(ctx, tc.req)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestLogoutRevokesRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	auth := newAuth(e)

	pair, err := auth.Login(ctx, "alice", "Passw0rd!")
	require.NoError(t, err)

	assert.ErrorIs(t, auth.Logout(ctx, e.bob, pair.Refresh), services.ErrInvalidToken, "cannot revoke another user's token")
	assert.ErrorIs(t, auth.Logout(ctx, e.alice, pair.Access), services.ErrInvalidToken)

	require.NoError(t, auth.Logout(ctx, e.alice, pair.Refresh))
	_, err = auth.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, services.ErrInvalidToken)
	assert.ErrorIs(t, auth.Logout(ctx, e.alice, pair.Refresh), services.ErrInvalidToken)

	_, err = auth.CurrentUser(ctx, pair.Access)
	assert.NoError(t, err, "access tokens live until they expire")
}
