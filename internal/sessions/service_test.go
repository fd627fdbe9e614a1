package sessions

import (
	"context"
	"errors"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/meetink/meetink/backend/go-services/internal/models"
	"github.com/meetink/meetink/backend/go-services/internal/tokens"
	"github.com/meetink/meetink/backend/go-services/internal/users"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenLookup struct{}

func (brokenLookup) GetByID(ctx context.Context, id string) (*models.User, error) {
	return nil, errors.New("mongo down")
}

func newTestService(t *testing.T) (*Service, *users.MemoryUserRepository, *mr.Miniredis) {
	t.Helper()
	m, err := mr.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)
	repo := users.NewMemoryUserRepository()
	codec := tokens.NewCodec("resolver-secret-32-bytes-xxxxxxxxxx", time.Hour)
	rl := NewRedisRevocationList(redis.NewClient(&redis.Options{Addr: m.Addr()}), "")
	return NewService(codec, repo, rl), repo, m
}

func TestCurrentUser_ResolvesProfile(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	u, err := repo.Create(ctx, &models.User{Email: "me@example.com", Name: "Me", Picture: "p.png", Provider: "google", Role: models.DefaultRole, CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	raw, err := svc.Codec().Mint(u.ID.Hex())
	require.NoError(t, err)

	p, err := svc.CurrentUser(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), p.ID)
	assert.Equal(t, "me@example.com", p.Email)
	assert.Equal(t, "Me", p.Name)
	assert.Equal(t, "google", p.Provider)
	assert.Equal(t, models.DefaultRole, p.Role)
}

func TestCurrentUser_Errors(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.CurrentUser(ctx, "")
	require.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = svc.CurrentUser(ctx, "garbage")
	require.ErrorIs(t, err, tokens.ErrInvalidToken)

	other := tokens.NewCodec("some-other-secret-xxxxxxxxxxxxxxxx", time.Hour)
	forged, err := other.Mint("64f1c0ffee00000000000001")
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, forged)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)

	u, err := repo.Create(ctx, &models.User{Email: "gone@example.com", Provider: "google"})
	require.NoError(t, err)
	raw, err := svc.Codec().Mint(u.ID.Hex())
	require.NoError(t, err)
	repo.Delete(ctx, u.ID.Hex())
	_, err = svc.CurrentUser(ctx, raw)
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestCurrentUser_DirectoryFailure(t *testing.T) {
	codec := tokens.NewCodec("dir-fail-secret-xxxxxxxxxxxxxxxxxx", time.Hour)
	svc := NewService(codec, brokenLookup{}, nil)
	raw, err := codec.Mint("64f1c0ffee00000000000001")
	require.NoError(t, err)

	_, err = svc.CurrentUser(context.Background(), raw)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, tokens.ErrInvalidToken)
}

func TestRevoke_RejectsTokenUntilExpiry(t *testing.T) {
	svc, repo, m := newTestService(t)
	ctx := context.Background()
	u, err := repo.Create(ctx, &models.User{Email: "out@example.com", Provider: "google"})
	require.NoError(t, err)

	raw, err := svc.Codec().Mint(u.ID.Hex())
	require.NoError(t, err)
	claims, err := svc.Codec().Verify(raw)
	require.NoError(t, err)

	require.NoError(t, svc.Revoke(ctx, raw))
	require.True(t, m.Exists("revoked:session:"+claims.ID))
	ttl := m.TTL("revoked:session:" + claims.ID)
	assert.True(t, ttl > 0 && ttl <= time.Hour, "ttl %v", ttl)

	_, err = svc.CurrentUser(ctx, raw)
	require.ErrorIs(t, err, tokens.ErrInvalidToken)

	// a fresh login is unaffected
	again, err := svc.Codec().Mint(u.ID.Hex())
	require.NoError(t, err)
	_, err = svc.CurrentUser(ctx, again)
	require.NoError(t, err)
}

func TestRevoke_IgnoresBadTokens(t *testing.T) {
	svc, _, _ := newTestService(t)
	require.NoError(t, svc.Revoke(context.Background(), ""))
	require.NoError(t, svc.Revoke(context.Background(), "not-a-token"))
}

func TestCurrentUser_RevocationStoreDownFailsOpen(t *testing.T) {
	svc, repo, m := newTestService(t)
	ctx := context.Background()
	u, err := repo.Create(ctx, &models.User{Email: "open@example.com", Provider: "google"})
	require.NoError(t, err)
	raw, err := svc.Codec().Mint(u.ID.Hex())
	require.NoError(t, err)

	m.Close()
	p, err := svc.CurrentUser(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, "open@example.com", p.Email)
}
