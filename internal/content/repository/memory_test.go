package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/meetink/meetink/backend/go-services/internal/content"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func strPtr(s string) *string { return &s }

func TestMemoryRepoConfessions(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()

	a := &content.Confession{Content: "first", Category: strPtr("love")}
	require.NoError(t, r.CreateConfession(ctx, a))
	require.False(t, a.ID.IsZero())
	b := &content.Confession{Content: "second"}
	require.NoError(t, r.CreateConfession(ctx, b))

	got, err := r.GetConfession(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "first", got.Content)

	all, err := r.ListConfessions(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, a.ID, all[0].ID)

	love, err := r.ListConfessions(ctx, strPtr("love"))
	require.NoError(t, err)
	require.Len(t, love, 1)

	none, err := r.ListConfessions(ctx, strPtr("work"))
	require.NoError(t, err)
	require.Empty(t, none)

	_, err = r.GetConfession(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoIncrementLikes(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	c := &content.Confession{Content: "likes"}
	require.NoError(t, r.CreateConfession(ctx, c))

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = r.IncrementLikes(ctx, c.ID)
		}()
	}
	wg.Wait()

	n, err := r.IncrementLikes(ctx, c.ID)
	require.NoError(t, err)
	require.Equal(t, 21, n)

	_, err = r.IncrementLikes(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoComments(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	c1 := &content.Confession{Content: "one"}
	c2 := &content.Confession{Content: "two"}
	require.NoError(t, r.CreateConfession(ctx, c1))
	require.NoError(t, r.CreateConfession(ctx, c2))

	for _, cid := range []primitive.ObjectID{c1.ID, c1.ID, c2.ID} {
		require.NoError(t, r.CreateComment(ctx, &content.Comment{Content: "hi", ConfessionID: cid}))
	}

	all, err := r.ListComments(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	forOne, err := r.CommentsFor(ctx, c1.ID)
	require.NoError(t, err)
	require.Len(t, forOne, 2)

	forBoth, err := r.CommentsFor(ctx, c1.ID, c2.ID)
	require.NoError(t, err)
	require.Len(t, forBoth, 3)

	got, err := r.GetComment(ctx, all[2].ID)
	require.NoError(t, err)
	require.Equal(t, c2.ID, got.ConfessionID)

	_, err = r.GetComment(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryRepoEarlyAccess(t *testing.T) {
	r := NewMemoryRepo()
	ctx := context.Background()
	e := &content.EarlyAccess{Email: "w@example.com", Name: "W"}
	require.NoError(t, r.CreateEarlyAccess(ctx, e))

	got, err := r.GetEarlyAccess(ctx, e.ID)
	require.NoError(t, err)
	require.Equal(t, "w@example.com", got.Email)

	list, err := r.ListEarlyAccess(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	_, err = r.GetEarlyAccess(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, ErrNotFound)
}
