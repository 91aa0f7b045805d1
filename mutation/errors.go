package mutation

import (
	"context"
	"errors"

	"github.com/jacentio/arbor/store"
)

// Error types reported to metrics.
const (
	ErrTypeNotFound         = "not_found"
	ErrTypeDuplicateEmail   = "duplicate_email"
	ErrTypeAuthorNotFound   = "author_not_found"
	ErrTypePostNotFound     = "post_not_found"
	ErrTypePostNotPublished = "post_not_published"
	ErrTypeCanceled         = "canceled"
	ErrTypeInternal         = "internal"
)

// ClassifyError maps a mutation error to a bounded error type label.
func ClassifyError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, store.ErrNotFound):
		return ErrTypeNotFound
	case errors.Is(err, store.ErrDuplicateEmail):
		return ErrTypeDuplicateEmail
	case errors.Is(err, store.ErrAuthorNotFound):
		return ErrTypeAuthorNotFound
	case errors.Is(err, store.ErrPostNotFound):
		return ErrTypePostNotFound
	case errors.Is(err, store.ErrPostNotPublished):
		return ErrTypePostNotPublished
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrTypeCanceled
	default:
		return ErrTypeInternal
	}
}
