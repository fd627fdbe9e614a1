package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meetink/meetink/backend/go-services/internal/models"
	"github.com/meetink/meetink/backend/go-services/pkg/logger"
	"github.com/meetink/meetink/backend/go-services/pkg/metrics"
)

// ErrMissingEmail is returned when the identity provider did not supply an email.
var ErrMissingEmail = errors.New("identity has no email")

// Identity is what the identity provider tells us about the person logging in.
type Identity struct {
	Email      string
	Name       string
	Picture    string
	Provider   string
	ProviderID string
}

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
	now  func() time.Time
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r, now: time.Now}
}

// FindOrCreate returns the user owning id.Email, creating it on first login.
// A concurrent first login for the same email surfaces as ErrDuplicateEmail
// from the store; the record the other request created is re-fetched.
// The bool result reports whether this call created the user.
func (s *Service) FindOrCreate(ctx context.Context, id Identity) (*models.User, bool, error) {
	email := strings.TrimSpace(id.Email)
	if email == "" {
		return nil, false, ErrMissingEmail
	}
	u, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, fmt.Errorf("find user by email: %w", err)
	}
	if u != nil {
		return u, false, nil
	}

	created, err := s.repo.Create(ctx, &models.User{
		Email:      email,
		Name:       id.Name,
		Picture:    id.Picture,
		Provider:   id.Provider,
		ProviderID: id.ProviderID,
		Role:       models.DefaultRole,
		CreatedAt:  s.now().UTC(),
	})
	if errors.Is(err, ErrDuplicateEmail) {
		logger.Infow("concurrent first login; re-fetching user", "provider", id.Provider)
		u, err = s.repo.FindByEmail(ctx, email)
		if err != nil {
			return nil, false, fmt.Errorf("re-fetch user after duplicate: %w", err)
		}
		if u == nil {
			return nil, false, fmt.Errorf("user vanished after duplicate-key conflict")
		}
		return u, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	metrics.UsersCreated.WithLabelValues(id.Provider).Inc()
	return created, true, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
