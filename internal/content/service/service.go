package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/meetink/meetink/backend/go-services/internal/content"
	"github.com/meetink/meetink/backend/go-services/internal/content/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllCategories selects every confession in ConfessionsByCategory.
const AllCategories = "all"

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidID    = errors.New("invalid id")
	ErrInvalidInput = errors.New("invalid input")
)

// NewConfession is the input of CreateConfession.
type NewConfession struct {
	Content       string
	Category      *string
	Gender        string
	AnonymousName string
	AvatarSeed    int
}

// NewComment is the input of CreateComment.
type NewComment struct {
	ConfessionID  string
	Content       string
	Gender        string
	AnonymousName string
	AvatarSeed    int
}

// Service implements the content operations exposed over GraphQL.
type Service struct {
	repo repository.Repository
	now  func() time.Time
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return New(repository.NewMemoryRepo())
}

// Confessions lists all confessions with their comments attached.
func (s *Service) Confessions(ctx context.Context) ([]*content.Confession, error) {
	return s.listConfessions(ctx, nil)
}

// ConfessionsByCategory filters by exact category; "all" lists everything.
func (s *Service) ConfessionsByCategory(ctx context.Context, category string) ([]*content.Confession, error) {
	if category == AllCategories {
		return s.listConfessions(ctx, nil)
	}
	return s.listConfessions(ctx, &category)
}

func (s *Service) listConfessions(ctx context.Context, category *string) ([]*content.Confession, error) {
	list, err := s.repo.ListConfessions(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list confessions: %w", err)
	}
	if err := s.attachComments(ctx, list...); err != nil {
		return nil, err
	}
	return list, nil
}

// Confession returns one confession with its comments.
func (s *Service) Confession(ctx context.Context, id string) (*content.Confession, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetConfession(ctx, oid)
	if err != nil {
		return nil, mapErr("get confession", err)
	}
	if err := s.attachComments(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) attachComments(ctx context.Context, list ...*content.Confession) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]primitive.ObjectID, 0, len(list))
	byID := make(map[primitive.ObjectID]*content.Confession, len(list))
	for _, c := range list {
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}
	comments, err := s.repo.CommentsFor(ctx, ids...)
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	for _, cm := range comments {
		if c, ok := byID[cm.ConfessionID]; ok {
			c.Comments = append(c.Comments, cm)
		}
	}
	return nil
}

// CreateConfession stores a new confession. New confessions are approved
// immediately and start with zero likes.
func (s *Service) CreateConfession(ctx context.Context, in NewConfession) (*content.Confession, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	now := s.now().UTC()
	c := &content.Confession{
		Content:       in.Content,
		Category:      in.Category,
		Likes:         0,
		IsApproved:    true,
		Gender:        in.Gender,
		AnonymousName: in.AnonymousName,
		AvatarSeed:    in.AvatarSeed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.repo.CreateConfession(ctx, c); err != nil {
		return nil, fmt.Errorf("create confession: %w", err)
	}
	return c, nil
}

// LikeConfession adds one like and returns the new count.
func (s *Service) LikeConfession(ctx context.Context, id string) (int, error) {
	oid, err := parseID(id)
	if err != nil {
		return 0, err
	}
	n, err := s.repo.IncrementLikes(ctx, oid)
	if err != nil {
		return 0, mapErr("like confession", err)
	}
	return n, nil
}

func (s *Service) Comments(ctx context.Context) ([]*content.Comment, error) {
	list, err := s.repo.ListComments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return list, nil
}

func (s *Service) Comment(ctx context.Context, id string) (*content.Comment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.GetComment(ctx, oid)
	if err != nil {
		return nil, mapErr("get comment", err)
	}
	return c, nil
}

func (s *Service) CommentsByConfession(ctx context.Context, confessionID string) ([]*content.Comment, error) {
	oid, err := parseID(confessionID)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.CommentsFor(ctx, oid)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return list, nil
}

// CreateComment attaches a comment to an existing confession.
func (s *Service) CreateComment(ctx context.Context, in NewComment) (*content.Comment, error) {
	oid, err := parseID(in.ConfessionID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Content) == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if _, err := s.repo.GetConfession(ctx, oid); err != nil {
		return nil, mapErr("get confession", err)
	}
	c := &content.Comment{
		Content:       in.Content,
		Gender:        in.Gender,
		AnonymousName: in.AnonymousName,
		AvatarSeed:    in.AvatarSeed,
		ConfessionID:  oid,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.CreateComment(ctx, c); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return c, nil
}

func (s *Service) EarlyAccess(ctx context.Context) ([]*content.EarlyAccess, error) {
	list, err := s.repo.ListEarlyAccess(ctx)
	if err != nil {
		return nil, fmt.Errorf("list early access: %w", err)
	}
	return list, nil
}

func (s *Service) EarlyAccessByID(ctx context.Context, id string) (*content.EarlyAccess, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	e, err := s.repo.GetEarlyAccess(ctx, oid)
	if err != nil {
		return nil, mapErr("get early access", err)
	}
	return e, nil
}

func (s *Service) CreateEarlyAccess(ctx context.Context, email, name string) (*content.EarlyAccess, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	e := &content.EarlyAccess{Email: email, Name: name, CreatedAt: s.now().UTC()}
	if err := s.repo.CreateEarlyAccess(ctx, e); err != nil {
		return nil, fmt.Errorf("create early access: %w", err)
	}
	return e, nil
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}
	return oid, nil
}

func mapErr(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
