package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/clementroume/holbertonschool-files-manager/internal/kvstore"
	"github.com/clementroume/holbertonschool-files-manager/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_IssueResolveRevoke(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	userID, token := env.login(t, "bob@dylan.com")

	assert.Len(t, token, 64)

	got, err := env.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	stored, err := env.store.Get(ctx, "auth_"+token)
	require.NoError(t, err)
	assert.Equal(t, userID, stored)

	require.NoError(t, env.auth.Revoke(ctx, token))
	_, err = env.auth.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Revoking again is a no-op
	assert.NoError(t, env.auth.Revoke(ctx, token))
}

func TestAuthService_IssueRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.login(t, "bob@dylan.com")

	_, err := env.auth.Issue(ctx, "bob@dylan.com", "wrong")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	_, err = env.auth.Issue(ctx, "nobody@dylan.com", "secret")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	// Emails are matched case-insensitively
	token, err := env.auth.Issue(ctx, " Bob@Dylan.com ", "secret")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestAuthService_ResolveRejectsUnknownTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for _, token := range []string{"", "nope", "auth_nope"} {
		_, err := env.auth.Resolve(ctx, token)
		assert.ErrorIs(t, err, ErrUnauthenticated, token)
	}

	// A session pointing at a deleted user is not valid
	require.NoError(t, env.store.Set(ctx, "auth_orphan", "ghost", time.Hour))
	_, err := env.auth.Resolve(ctx, "orphan")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_TokenExpiresAfterTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	store := kvstore.NewRedisStore(kvstore.NewRedisClient(kvstore.RedisConfig{Addr: mr.Addr()}))
	env := newTestEnv(t, withStore(store))
	ctx := context.Background()
	userID, token := env.login(t, "bob@dylan.com")

	assert.Equal(t, 24*time.Hour, mr.TTL("auth_"+token))

	mr.FastForward(23 * time.Hour)
	got, err := env.auth.Resolve(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)

	mr.FastForward(time.Hour)
	_, err = env.auth.Resolve(ctx, token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_LegacyDigest(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	sum := sha1.Sum([]byte("toto1234!"))
	require.NoError(t, env.users.Create(ctx, &model.User{
		Email:        "legacy@dylan.com",
		PasswordHash: hex.EncodeToString(sum[:]),
	}))

	token, err := env.auth.Issue(ctx, "legacy@dylan.com", "toto1234!")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	_, err = env.auth.Issue(ctx, "legacy@dylan.com", "toto1234")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestAuthService_TokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateToken()
		require.NoError(t, err)
		assert.False(t, seen[token])
		seen[token] = true
	}
}
