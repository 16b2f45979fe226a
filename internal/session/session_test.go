package session

import (
	"context"
	"testing"
	"time"

	"github.com/creativehub205/ladies-tailor-shop/internal/cache"
	"github.com/creativehub205/ladies-tailor-shop/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var admin = &models.Tailor{ID: 1, Username: "admin", ShopName: "Ladies Tailor"}

func TestIssueAndParse(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", time.Hour, nil)

	token, issued, err := m.Issue(admin)
	require.NoError(t, err)
	assert.NotEmpty(t, issued.ID)

	claims, err := m.Parse(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.TailorID)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, issued.ID, claims.ID)
}

func TestParseRejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", time.Hour, nil)

	_, err := m.Parse(ctx, "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	other := NewManager("other-secret", time.Hour, nil)
	token, _, err := other.Issue(admin)
	require.NoError(t, err)
	_, err = m.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{TailorID: 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.Parse(ctx, none)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", time.Hour, nil)

	issuedAt := time.Now()
	m.now = func() time.Time { return issuedAt }
	token, _, err := m.Issue(admin)
	require.NoError(t, err)

	m.now = func() time.Time { return issuedAt.Add(2 * time.Hour) }
	_, err = m.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRevokeWithMemoryStore(t *testing.T) {
	ctx := context.Background()
	m := NewManager("secret", time.Hour, NewMemoryStore())

	token, claims, err := m.Issue(admin)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, claims))

	_, err = m.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrRevokedToken)

	fresh, _, err := m.Issue(admin)
	require.NoError(t, err)
	_, err = m.Parse(ctx, fresh)
	assert.NoError(t, err)
}

func TestMemoryStoreForgetsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "a", now.Add(time.Minute)))
	revoked, err := store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.True(t, revoked)

	store.now = func() time.Time { return now.Add(2 * time.Minute) }
	revoked, err = store.IsRevoked(ctx, "a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "b", now.Add(time.Hour)))
	assert.NotContains(t, store.revoked, "a")
}

func TestRevokeWithRedisStore(t *testing.T) {
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client, err := cache.NewRedisClientWithAddr(srv.Addr())
	require.NoError(t, err)
	defer client.Close()

	m := NewManager("secret", time.Hour, NewRedisStore(client))
	token, claims, err := m.Issue(admin)
	require.NoError(t, err)
	require.NoError(t, m.Revoke(ctx, claims))

	assert.True(t, srv.Exists(revokedKeyPrefix+claims.ID))
	ttl := srv.TTL(revokedKeyPrefix + claims.ID)
	assert.True(t, ttl > 0 && ttl <= time.Hour)

	_, err = m.Parse(ctx, token)
	assert.ErrorIs(t, err, ErrRevokedToken)
}
