package mutation

import (
	"context"
	"fmt"

	"github.com/jacentio/arbor/internal/topic"
	"github.com/jacentio/arbor/store"
)

// CreatePost inserts a new post. A published post is announced with a
// CREATED event.
func (e *Engine) CreatePost(ctx context.Context, in CreatePostInput) (store.Post, error) {
	var out store.Post
	err := e.update(ctx, OpCreatePost, func(tx *store.Tx) error {
		if !tx.HasAccount(in.Author) {
			return fmt.Errorf("create post: author %q: %w", in.Author, store.ErrAuthorNotFound)
		}
		out = store.Post{
			ID:        tx.NewID(store.KindPost),
			Title:     in.Title,
			Body:      in.Body,
			Published: in.Published,
			Author:    in.Author,
		}
		if err := tx.InsertPost(out); err != nil {
			return err
		}
		if out.Published {
			e.publishAfterCommit(ctx, tx, topic.Posts, PostEvent{Mutation: Created, Data: out.Clone()})
		}
		return nil
	})
	if err != nil {
		return store.Post{}, err
	}
	return out.Clone(), nil
}

// UpdatePost replaces the fields present in patch. When patch carries
// Published, the transition decides the event:
//
//	true  -> false  DELETED with the post as it was before the update
//	false -> true   CREATED with the updated post
//	true  -> true   UPDATED with the updated post
//	false -> false  none
//
// Without Published in the patch nothing is published.
func (e *Engine) UpdatePost(ctx context.Context, id string, patch PostPatch) (store.Post, error) {
	var out store.Post
	err := e.update(ctx, OpUpdatePost, func(tx *store.Tx) error {
		before, ok := tx.Post(id)
		if !ok {
			return fmt.Errorf("update post %q: %w", id, store.ErrNotFound)
		}

		p := before.Clone()
		p.Title = patch.Title.OrElse(p.Title)
		if body, ok := patch.Body.Get(); ok {
			p.Body = body
		}
		published, hasPublished := patch.Published.Get()
		if hasPublished {
			p.Published = published
		}
		if err := tx.PutPost(p); err != nil {
			return err
		}
		out = p

		if !hasPublished {
			return nil
		}
		switch {
		case before.Published && !p.Published:
			e.publishAfterCommit(ctx, tx, topic.Posts, PostEvent{Mutation: Deleted, Data: before})
		case !before.Published && p.Published:
			e.publishAfterCommit(ctx, tx, topic.Posts, PostEvent{Mutation: Created, Data: p.Clone()})
		case before.Published && p.Published:
			e.publishAfterCommit(ctx, tx, topic.Posts, PostEvent{Mutation: Updated, Data: p.Clone()})
		}
		return nil
	})
	if err != nil {
		return store.Post{}, err
	}
	return out.Clone(), nil
}

// DeletePost removes a post and every comment on it. Removing a published
// post is announced with a DELETED event.
func (e *Engine) DeletePost(ctx context.Context, id string) (store.Post, error) {
	var out store.Post
	err := e.update(ctx, OpDeletePost, func(tx *store.Tx) error {
		res, err := e.planner.Delete(tx, store.Ref{Kind: store.KindPost, ID: id})
		if err != nil {
			return fmt.Errorf("delete post %q: %w", id, err)
		}
		out = res.Root.(store.Post)
		if out.Published {
			e.publishAfterCommit(ctx, tx, topic.Posts, PostEvent{Mutation: Deleted, Data: out.Clone()})
		}
		return nil
	})
	if err != nil {
		return store.Post{}, err
	}
	return out, nil
}
