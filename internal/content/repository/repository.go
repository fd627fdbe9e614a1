package repository

import (
	"context"
	"errors"

	"github.com/meetink/meetink/backend/go-services/internal/content"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound = errors.New("content not found")
)

// Repository persists confessions, comments and early-access signups.
// Lists are returned in insertion order. Create methods assign the ID.
type Repository interface {
	CreateConfession(ctx context.Context, c *content.Confession) error
	GetConfession(ctx context.Context, id primitive.ObjectID) (*content.Confession, error)
	// ListConfessions returns every confession when category is nil.
	ListConfessions(ctx context.Context, category *string) ([]*content.Confession, error)
	// IncrementLikes atomically adds one like and returns the new total.
	IncrementLikes(ctx context.Context, id primitive.ObjectID) (int, error)

	CreateComment(ctx context.Context, c *content.Comment) error
	GetComment(ctx context.Context, id primitive.ObjectID) (*content.Comment, error)
	ListComments(ctx context.Context) ([]*content.Comment, error)
	// CommentsFor returns the comments of the given confessions.
	CommentsFor(ctx context.Context, confessionIDs ...primitive.ObjectID) ([]*content.Comment, error)

	CreateEarlyAccess(ctx context.Context, e *content.EarlyAccess) error
	GetEarlyAccess(ctx context.Context, id primitive.ObjectID) (*content.EarlyAccess, error)
	ListEarlyAccess(ctx context.Context) ([]*content.EarlyAccess, error)
}
