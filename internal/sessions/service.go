package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/meetink/meetink/backend/go-services/internal/models"
	"github.com/meetink/meetink/backend/go-services/internal/tokens"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
	"github.com/meetink/meetink/backend/go-services/pkg/metrics"
)

var (
	// ErrNotAuthenticated means the request carried no session cookie.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrUserNotFound means the token is valid but its subject no longer exists.
	ErrUserNotFound = errors.New("user not found")
)

// UserLookup is the slice of the user directory the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// Service turns a session cookie value into the user it belongs to.
type Service struct {
	codec       *tokens.Codec
	users       UserLookup
	revocations RevocationList
	now         func() time.Time
}

// NewService wires a resolver. revocations may be nil.
func NewService(codec *tokens.Codec, users UserLookup, revocations RevocationList) *Service {
	return &Service{codec: codec, users: users, revocations: revocations, now: time.Now}
}

// Codec exposes the token codec used by the resolver.
func (s *Service) Codec() *tokens.Codec { return s.codec }

// CurrentUser resolves a raw cookie value. Errors:
// ErrNotAuthenticated for an empty value, tokens.ErrInvalidToken (wrapped)
// for a bad, expired or revoked token, ErrUserNotFound when the subject
// is gone, anything else is a directory failure.
func (s *Service) CurrentUser(ctx context.Context, raw string) (*models.Profile, error) {
	if raw == "" {
		metrics.SessionChecks.WithLabelValues("missing").Inc()
		return nil, ErrNotAuthenticated
	}
	claims, err := s.codec.Verify(raw)
	if err != nil {
		metrics.SessionChecks.WithLabelValues("invalid").Inc()
		logger.Debugw("session rejected", "reason", err.Error())
		return nil, err
	}
	if s.isRevoked(ctx, claims.ID) {
		metrics.SessionChecks.WithLabelValues("revoked").Inc()
		return nil, fmt.Errorf("%w: revoked", tokens.ErrInvalidToken)
	}
	u, err := s.users.GetByID(ctx, claims.Subject)
	if err != nil {
		metrics.SessionChecks.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("lookup session user: %w", err)
	}
	if u == nil {
		metrics.SessionChecks.WithLabelValues("user_missing").Inc()
		return nil, ErrUserNotFound
	}
	metrics.SessionChecks.WithLabelValues("ok").Inc()
	return u.Profile(), nil
}

// Revoke invalidates the token in raw for its remaining lifetime.
// Unparseable or already expired tokens are ignored.
func (s *Service) Revoke(ctx context.Context, raw string) error {
	if raw == "" || s.revocations == nil {
		return nil
	}
	claims, err := s.codec.Verify(raw)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now())
	logger.Debugf("revoking session %s for %s", claims.ID, ttl.Round(time.Second))
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}

// isRevoked fails open: an unreachable revocation store only logs.
func (s *Service) isRevoked(ctx context.Context, jti string) bool {
	if s.revocations == nil {
		return false
	}
	revoked, err := s.revocations.IsRevoked(ctx, jti)
	if err != nil {
		logger.Warnf("session revocation check failed: %v", err)
		return false
	}
	return revoked
}
