// Package store provides the in-memory record store behind arbor's graph API.
//
// The store owns three ordered collections (accounts, posts and comments) and
// exposes primitive lookup, insert, replace and remove operations through a
// transaction handle. It holds no validation logic: referential integrity and
// uniqueness rules live in the mutation engine, cascades in package cascade.
//
// # Records
//
// Every record implements [Record]:
//
//	type Record interface {
//	    RecordID() string
//	    Kind() Kind
//	}
//
// A [Ref] names a record by kind and id ("post#2").
//
// # Transactions
//
// Reads run inside [Store.View] under a shared lock. Writes run inside
// [Store.Update] on a copy of the collections which replaces the live ones
// only when the callback returns nil, so a failed write leaves no trace and
// readers never observe a half-applied cascade:
//
//	err := s.Update(func(tx *store.Tx) error {
//	    if _, err := tx.RemovePost("2"); err != nil {
//	        return err
//	    }
//	    tx.AfterCommit(func() { publish(...) })
//	    return nil
//	})
//
// Hooks registered with [Tx.AfterCommit] run after the commit while the write
// lock is still held, which keeps notification order equal to write order.
//
// # Relationships
//
// A [Registry] declares which child kinds reference which parent kinds. The
// default registry knows:
//
//   - account -> post (post.author)
//   - account -> comment (comment.author)
//   - post -> comment (comment.post)
//
// # Errors
//
//   - [ErrNotFound] - record doesn't exist
//   - [ErrDuplicateEmail] - account email already in use
//   - [ErrAuthorNotFound] - referenced account missing
//   - [ErrPostNotFound] - referenced post missing
//   - [ErrPostNotPublished] - comment against an unpublished post
//   - [ErrDanglingReference] - internal consistency violation
package store
