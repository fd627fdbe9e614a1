package users

import (
	"context"
	"sync"

	"github.com/meetink/meetink/backend/go-services/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository is an in-process UserRepository used in development
// when MongoDB is unavailable, and in tests. Email uniqueness is enforced
// the same way the Mongo unique index does.
type MemoryUserRepository struct {
	mu      sync.RWMutex
	byID    map[primitive.ObjectID]*models.User
	byEmail map[string]primitive.ObjectID
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		byID:    map[primitive.ObjectID]*models.User{},
		byEmail: map[string]primitive.ObjectID{},
	}
}

func (m *MemoryUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	id, ok := m.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := *m.byID[id]
	return &u, nil
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.byID[oid]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *MemoryUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[u.Email]; exists {
		return nil, ErrDuplicateEmail
	}
	u.ID = primitive.NewObjectID()
	stored := *u
	m.byID[u.ID] = &stored
	m.byEmail[u.Email] = u.ID
	return u, nil
}

// Delete removes a user; the login flow never deletes, this exists for
// out-of-band removal and tests.
func (m *MemoryUserRepository) Delete(ctx context.Context, id string) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.byID[oid]; ok {
		delete(m.byEmail, u.Email)
		delete(m.byID, oid)
	}
}

// Len returns the number of stored users.
func (m *MemoryUserRepository) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byID)
}
