// Package resolve traverses relationships between records.
//
// Every call re-scans the store under its read lock; nothing is cached.
// A single-record lookup that finds no target reports
// store.ErrDanglingReference, which means a store invariant was broken.
package resolve

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jacentio/arbor/store"
)

// Resolver computes the records related to a given record.
type Resolver struct {
	store  *store.Store
	logger *slog.Logger
}

// New creates a resolver over s.
func New(s *store.Store, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		store:  s,
		logger: logger,
	}
}

// AccountPosts returns the posts authored by a, in collection order.
func (r *Resolver) AccountPosts(ctx context.Context, a store.Account) ([]store.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []store.Post{}
	err := r.store.View(func(tx *store.Tx) error {
		for _, p := range tx.Posts() {
			if p.Author == a.ID {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

// AccountComments returns the comments authored by a, in collection order.
func (r *Resolver) AccountComments(ctx context.Context, a store.Account) ([]store.Comment, error) {
	return r.comments(ctx, func(c store.Comment) bool { return c.Author == a.ID })
}

// PostComments returns the comments on p, in collection order.
func (r *Resolver) PostComments(ctx context.Context, p store.Post) ([]store.Comment, error) {
	return r.comments(ctx, func(c store.Comment) bool { return c.Post == p.ID })
}

// PostAuthor returns the account that wrote p.
func (r *Resolver) PostAuthor(ctx context.Context, p store.Post) (store.Account, error) {
	return lookup(ctx, r, p, "author", p.Author, (*store.Tx).Account)
}

// CommentAuthor returns the account that wrote c.
func (r *Resolver) CommentAuthor(ctx context.Context, c store.Comment) (store.Account, error) {
	return lookup(ctx, r, c, "author", c.Author, (*store.Tx).Account)
}

// CommentPost returns the post c belongs to.
func (r *Resolver) CommentPost(ctx context.Context, c store.Comment) (store.Post, error) {
	return lookup(ctx, r, c, "post", c.Post, (*store.Tx).Post)
}

func (r *Resolver) comments(ctx context.Context, keep func(store.Comment) bool) ([]store.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []store.Comment{}
	err := r.store.View(func(tx *store.Tx) error {
		for _, c := range tx.Comments() {
			if keep(c) {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, err
}

func lookup[T store.Record](
	ctx context.Context,
	r *Resolver,
	from store.Record,
	field string,
	targetID string,
	get func(*store.Tx, string) (T, bool),
) (T, error) {
	var (
		out T
		ok  bool
	)
	if err := ctx.Err(); err != nil {
		return out, err
	}
	_ = r.store.View(func(tx *store.Tx) error {
		out, ok = get(tx, targetID)
		return nil
	})
	if !ok {
		ref := store.RefOf(from)
		r.logger.ErrorContext(ctx, "dangling reference",
			"from", ref.String(),
			"field", field,
			"targetID", targetID,
		)
		return out, fmt.Errorf("resolve %s.%s -> %q: %w", ref, field, targetID, store.ErrDanglingReference)
	}
	return out, nil
}
