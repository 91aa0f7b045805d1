package resolve_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/arbor/resolve"
	"github.com/jacentio/arbor/store"
)

func seeded(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.DefaultConfig())
	require.NoError(t, s.Load(store.DefaultSeed()))
	return s
}

func ids[T store.Record](records []T) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.RecordID()
	}
	return out
}

func TestAccountPosts(t *testing.T) {
	r := resolve.New(seeded(t), nil)
	ctx := context.Background()

	posts, err := r.AccountPosts(ctx, store.Account{ID: "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, ids(posts))

	posts, err = r.AccountPosts(ctx, store.Account{ID: "1"})
	require.NoError(t, err)
	assert.Empty(t, posts)
	assert.NotNil(t, posts)
}

func TestAccountComments(t *testing.T) {
	r := resolve.New(seeded(t), nil)

	comments, err := r.AccountComments(context.Background(), store.Account{ID: "3"})
	require.NoError(t, err)
	assert.Equal(t, []string{"102", "103", "104"}, ids(comments))
}

func TestPostComments(t *testing.T) {
	r := resolve.New(seeded(t), nil)

	comments, err := r.PostComments(context.Background(), store.Post{ID: "1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "102"}, ids(comments))
}

func TestSingleLookups(t *testing.T) {
	r := resolve.New(seeded(t), nil)
	ctx := context.Background()

	author, err := r.PostAuthor(ctx, store.Post{ID: "1", Author: "3"})
	require.NoError(t, err)
	assert.Equal(t, "Jack", author.Name)

	author, err = r.CommentAuthor(ctx, store.Comment{ID: "101", Author: "1", Post: "1"})
	require.NoError(t, err)
	assert.Equal(t, "Mars", author.Name)

	post, err := r.CommentPost(ctx, store.Comment{ID: "103", Author: "3", Post: "2"})
	require.NoError(t, err)
	assert.Equal(t, "標題2", post.Title)
}

// --- Dangling Reference Edge Cases ---

func TestDanglingReference(t *testing.T) {
	s := seeded(t)

	// Bypass the mutation engine to break referential integrity.
	require.NoError(t, s.Update(func(tx *store.Tx) error {
		if err := tx.InsertPost(store.Post{ID: "orphan", Title: "x", Author: "ghost"}); err != nil {
			return err
		}
		return tx.InsertComment(store.Comment{ID: "lost", Text: "y", Author: "ghost", Post: "gone"})
	}))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	r := resolve.New(s, logger)
	ctx := context.Background()

	var post store.Post
	require.NoError(t, s.View(func(tx *store.Tx) error {
		post, _ = tx.Post("orphan")
		return nil
	}))

	_, err := r.PostAuthor(ctx, post)
	assert.ErrorIs(t, err, store.ErrDanglingReference)

	lost := store.Comment{ID: "lost", Author: "ghost", Post: "gone"}
	_, err = r.CommentAuthor(ctx, lost)
	assert.ErrorIs(t, err, store.ErrDanglingReference)
	_, err = r.CommentPost(ctx, lost)
	assert.ErrorIs(t, err, store.ErrDanglingReference)

	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "dangling reference")
	assert.Contains(t, buf.String(), "from=post#orphan")
}

func TestResolver_CancelledContext(t *testing.T) {
	r := resolve.New(seeded(t), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.AccountPosts(ctx, store.Account{ID: "3"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.PostComments(ctx, store.Post{ID: "1"})
	assert.ErrorIs(t, err, context.Canceled)
	_, err = r.PostAuthor(ctx, store.Post{ID: "1", Author: "3"})
	assert.ErrorIs(t, err, context.Canceled)
}
