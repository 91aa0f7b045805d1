package store

import "errors"

var (
	// ErrNotFound is returned when the target record of an operation doesn't exist.
	ErrNotFound = errors.New("arbor: record not found")

	// ErrDuplicateEmail is returned when an account email is already in use.
	ErrDuplicateEmail = errors.New("arbor: email already in use")

	// ErrAuthorNotFound is returned when a referenced author account doesn't exist.
	ErrAuthorNotFound = errors.New("arbor: author not found")

	// ErrPostNotFound is returned when a referenced post doesn't exist.
	ErrPostNotFound = errors.New("arbor: post not found")

	// ErrPostNotPublished is returned when commenting on a post that isn't published.
	ErrPostNotPublished = errors.New("arbor: post is not published")

	// ErrDanglingReference is returned when a stored reference doesn't resolve.
	// It indicates a broken store invariant, not a caller mistake.
	ErrDanglingReference = errors.New("arbor: dangling reference")

	// ErrReadOnly is returned when a write primitive is called inside View.
	ErrReadOnly = errors.New("arbor: read-only transaction")

	// ErrAlreadyExists is returned when inserting a record whose id is taken.
	ErrAlreadyExists = errors.New("arbor: record already exists")

	// ErrNotNullable is returned when a patch sets a required field to null.
	ErrNotNullable = errors.New("arbor: field cannot be null")

	// ErrInvalidSeed is returned when a seed dataset breaks a store invariant.
	ErrInvalidSeed = errors.New("arbor: invalid seed dataset")
)
