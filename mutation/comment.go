package mutation

import (
	"context"
	"fmt"

	"github.com/jacentio/arbor/internal/topic"
	"github.com/jacentio/arbor/store"
)

// CreateComment inserts a comment on a published post and announces it on
// the post's comment topic. Author, post existence and the published gate
// are checked in that order.
func (e *Engine) CreateComment(ctx context.Context, in CreateCommentInput) (store.Comment, error) {
	var out store.Comment
	err := e.update(ctx, OpCreateComment, func(tx *store.Tx) error {
		if !tx.HasAccount(in.Author) {
			return fmt.Errorf("create comment: author %q: %w", in.Author, store.ErrAuthorNotFound)
		}
		p, ok := tx.Post(in.Post)
		if !ok {
			return fmt.Errorf("create comment: post %q: %w", in.Post, store.ErrPostNotFound)
		}
		if !p.Published {
			return fmt.Errorf("create comment: post %q: %w", in.Post, store.ErrPostNotPublished)
		}

		out = store.Comment{
			ID:     tx.NewID(store.KindComment),
			Text:   in.Text,
			Author: in.Author,
			Post:   in.Post,
		}
		if err := tx.InsertComment(out); err != nil {
			return err
		}
		e.publishAfterCommit(ctx, tx, topic.Comments(out.Post), CommentEvent{Mutation: Created, Data: out})
		return nil
	})
	if err != nil {
		return store.Comment{}, err
	}
	return out, nil
}

// UpdateComment replaces the text when present in patch. No event is published.
func (e *Engine) UpdateComment(ctx context.Context, id string, patch CommentPatch) (store.Comment, error) {
	var out store.Comment
	err := e.update(ctx, OpUpdateComment, func(tx *store.Tx) error {
		c, ok := tx.Comment(id)
		if !ok {
			return fmt.Errorf("update comment %q: %w", id, store.ErrNotFound)
		}
		c.Text = patch.Text.OrElse(c.Text)
		out = c
		return tx.PutComment(c)
	})
	if err != nil {
		return store.Comment{}, err
	}
	return out, nil
}

// DeleteComment removes a comment. No event is published.
func (e *Engine) DeleteComment(ctx context.Context, id string) (store.Comment, error) {
	var out store.Comment
	err := e.update(ctx, OpDeleteComment, func(tx *store.Tx) error {
		c, err := tx.RemoveComment(id)
		if err != nil {
			return fmt.Errorf("delete comment %q: %w", id, err)
		}
		out = c
		return nil
	})
	if err != nil {
		return store.Comment{}, err
	}
	return out, nil
}
