package repository

import (
	"context"
	"sync"
	"time"

	"github.com/meetink/meetink/backend/go-services/internal/content"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo keeps content in process. Used by tests and by development
// runs without MongoDB. Returned values are copies.
type MemoryRepo struct {
	mu          sync.RWMutex
	confessions []*content.Confession
	comments    []*content.Comment
	earlyAccess []*content.EarlyAccess
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{}
}

func (m *MemoryRepo) CreateConfession(ctx context.Context, c *content.Confession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	cp := *c
	cp.Comments = nil
	m.confessions = append(m.confessions, &cp)
	return nil
}

func (m *MemoryRepo) GetConfession(ctx context.Context, id primitive.ObjectID) (*content.Confession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.confessions {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ListConfessions(ctx context.Context, category *string) ([]*content.Confession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*content.Confession, 0, len(m.confessions))
	for _, c := range m.confessions {
		if category != nil && (c.Category == nil || *c.Category != *category) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) IncrementLikes(ctx context.Context, id primitive.ObjectID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.confessions {
		if c.ID == id {
			c.Likes++
			c.UpdatedAt = time.Now().UTC()
			return c.Likes, nil
		}
	}
	return 0, ErrNotFound
}

func (m *MemoryRepo) CreateComment(ctx context.Context, c *content.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c.ID = primitive.NewObjectID()
	cp := *c
	m.comments = append(m.comments, &cp)
	return nil
}

func (m *MemoryRepo) GetComment(ctx context.Context, id primitive.ObjectID) (*content.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.comments {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ListComments(ctx context.Context) ([]*content.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*content.Comment, 0, len(m.comments))
	for _, c := range m.comments {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) CommentsFor(ctx context.Context, confessionIDs ...primitive.ObjectID) ([]*content.Comment, error) {
	want := make(map[primitive.ObjectID]struct{}, len(confessionIDs))
	for _, id := range confessionIDs {
		want[id] = struct{}{}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*content.Comment{}
	for _, c := range m.comments {
		if _, ok := want[c.ConfessionID]; ok {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemoryRepo) CreateEarlyAccess(ctx context.Context, e *content.EarlyAccess) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e.ID = primitive.NewObjectID()
	cp := *e
	m.earlyAccess = append(m.earlyAccess, &cp)
	return nil
}

func (m *MemoryRepo) GetEarlyAccess(ctx context.Context, id primitive.ObjectID) (*content.EarlyAccess, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, e := range m.earlyAccess {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) ListEarlyAccess(ctx context.Context) ([]*content.EarlyAccess, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*content.EarlyAccess, 0, len(m.earlyAccess))
	for _, e := range m.earlyAccess {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}
