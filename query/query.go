// Package query implements filtered top-level listing of records.
//
// A filter is matched as a case-insensitive substring. An empty filter
// lists the whole collection in order. Unpublished posts are listed like
// any other.
package query

import (
	"context"
	"fmt"

	"github.com/jacentio/arbor/store"
)

// Engine answers read-only listing queries against a Store.
type Engine struct {
	store *store.Store
}

// New creates a query engine over s.
func New(s *store.Store) *Engine {
	return &Engine{store: s}
}

// ListAccounts returns accounts whose name contains filter.
func (e *Engine) ListAccounts(ctx context.Context, filter string) ([]store.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := newMatcher(filter)

	out := []store.Account{}
	err := e.store.View(func(tx *store.Tx) error {
		for _, a := range tx.Accounts() {
			if m.match(a.Name) {
				out = append(out, a)
			}
		}
		return nil
	})
	return out, err
}

// ListPosts returns posts whose title, or body when present, contains filter.
func (e *Engine) ListPosts(ctx context.Context, filter string) ([]store.Post, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := newMatcher(filter)

	out := []store.Post{}
	err := e.store.View(func(tx *store.Tx) error {
		for _, p := range tx.Posts() {
			if m.match(p.Title) || (p.Body != nil && m.match(*p.Body)) {
				out = append(out, p)
			}
		}
		return nil
	})
	return out, err
}

// ListComments returns comments whose id or text contains filter.
func (e *Engine) ListComments(ctx context.Context, filter string) ([]store.Comment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m := newMatcher(filter)

	out := []store.Comment{}
	err := e.store.View(func(tx *store.Tx) error {
		for _, c := range tx.Comments() {
			if m.match(c.ID) || m.match(c.Text) {
				out = append(out, c)
			}
		}
		return nil
	})
	return out, err
}

// Account returns the account with the given id.
func (e *Engine) Account(ctx context.Context, id string) (store.Account, error) {
	return get(ctx, e.store, store.KindAccount, id, (*store.Tx).Account)
}

// Post returns the post with the given id.
func (e *Engine) Post(ctx context.Context, id string) (store.Post, error) {
	return get(ctx, e.store, store.KindPost, id, (*store.Tx).Post)
}

// Comment returns the comment with the given id.
func (e *Engine) Comment(ctx context.Context, id string) (store.Comment, error) {
	return get(ctx, e.store, store.KindComment, id, (*store.Tx).Comment)
}

func get[T store.Record](ctx context.Context, s *store.Store, kind store.Kind, id string, lookup func(*store.Tx, string) (T, bool)) (T, error) {
	var (
		out T
		ok  bool
	)
	if err := ctx.Err(); err != nil {
		return out, err
	}
	_ = s.View(func(tx *store.Tx) error {
		out, ok = lookup(tx, id)
		return nil
	})
	if !ok {
		return out, fmt.Errorf("get %s#%s: %w", kind, id, store.ErrNotFound)
	}
	return out, nil
}
