package mutation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jacentio/arbor/internal/topic"
	"github.com/jacentio/arbor/mutation"
	"github.com/jacentio/arbor/store"
)

func TestCreateComment(t *testing.T) {
	f := newFixture(t)

	c, err := f.engine.CreateComment(context.Background(), mutation.CreateCommentInput{
		Text:   "great",
		Author: "2",
		Post:   "1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)

	events := f.bus.all()
	require.Len(t, events, 1)
	assert.Equal(t, topic.Comments("1"), events[0].topic)
	assert.Equal(t, mutation.CommentEvent{Mutation: mutation.Created, Data: c}, events[0].payload)
}

func TestCreateComment_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input mutation.CreateCommentInput
		want  error
	}{
		{"missing author", mutation.CreateCommentInput{Text: "x", Author: "ghost", Post: "1"}, store.ErrAuthorNotFound},
		{"missing post", mutation.CreateCommentInput{Text: "x", Author: "1", Post: "ghost"}, store.ErrPostNotFound},
		{"unpublished post", mutation.CreateCommentInput{Text: "x", Author: "1", Post: "2"}, store.ErrPostNotPublished},
		{"author checked before post", mutation.CreateCommentInput{Text: "x", Author: "ghost", Post: "ghost"}, store.ErrAuthorNotFound},
		{"post checked before published", mutation.CreateCommentInput{Text: "x", Author: "1", Post: "ghost"}, store.ErrPostNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			before := f.store.Snapshot()

			_, err := f.engine.CreateComment(context.Background(), tt.input)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, before, f.store.Snapshot())
			assert.Empty(t, f.bus.all())
		})
	}
}

func TestCreateComment_GateIsCreationTimeOnly(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// Comments 101 and 102 survive post 1 being unpublished.
	_, err := f.engine.UpdatePost(ctx, "1", mutation.PostPatch{Published: store.Some(false)})
	require.NoError(t, err)
	assert.Equal(t, 4, f.store.Counts()[store.KindComment])

	_, err = f.engine.CreateComment(ctx, mutation.CreateCommentInput{Text: "late", Author: "1", Post: "1"})
	assert.ErrorIs(t, err, store.ErrPostNotPublished)
}

func TestUpdateComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.engine.UpdateComment(ctx, "103", mutation.CommentPatch{Text: store.Some("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", c.Text)
	assert.Equal(t, "2", c.Post)

	c, err = f.engine.UpdateComment(ctx, "103", mutation.CommentPatch{})
	require.NoError(t, err)
	assert.Equal(t, "edited", c.Text)

	_, err = f.engine.UpdateComment(ctx, "missing", mutation.CommentPatch{Text: store.Some("x")})
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Empty(t, f.bus.all())
}

func TestDeleteComment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c, err := f.engine.DeleteComment(ctx, "101")
	require.NoError(t, err)
	assert.Equal(t, "很棒的文章", c.Text)
	assert.Equal(t, 3, f.store.Counts()[store.KindComment])

	_, err = f.engine.DeleteComment(ctx, "101")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Empty(t, f.bus.all())
}
