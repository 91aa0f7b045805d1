package store

import (
	"fmt"
	"slices"
	"sync"
)

// Store is the sole owner of the account, post and comment collections.
// It is safe for concurrent use: writes are serialized, reads share a lock.
type Store struct {
	mu       sync.RWMutex
	config   Config
	accounts []Account
	posts    []Post
	comments []Comment
}

// New creates an empty Store.
func New(config Config) *Store {
	config.validate()
	return &Store{config: config}
}

// Registry returns the relationship registry used for cascades.
func (s *Store) Registry() *Registry {
	return s.config.Registry
}

// View runs fn under the shared read lock. Write primitives on the
// transaction fail with ErrReadOnly.
func (s *Store) View(fn func(tx *Tx) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx := &Tx{
		accounts: s.accounts,
		posts:    s.posts,
		comments: s.comments,
		newID:    s.config.IDGenerator,
	}
	return fn(tx)
}

// Update runs fn under the exclusive write lock on a private copy of the
// collections. The copy replaces the live collections only if fn returns nil;
// AfterCommit hooks then run in registration order before the lock is released.
func (s *Store) Update(fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{
		accounts: slices.Clone(s.accounts),
		posts:    slices.Clone(s.posts),
		comments: slices.Clone(s.comments),
		newID:    s.config.IDGenerator,
		writable: true,
	}
	if err := fn(tx); err != nil {
		return err
	}

	s.accounts, s.posts, s.comments = tx.accounts, tx.posts, tx.comments
	for _, hook := range tx.hooks {
		hook()
	}
	return nil
}

// Counts returns the current size of each collection.
func (s *Store) Counts() map[Kind]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return map[Kind]int{
		KindAccount: len(s.accounts),
		KindPost:    len(s.posts),
		KindComment: len(s.comments),
	}
}

// Tx is a handle on the collections for the duration of a View or Update
// callback. It must not be retained after the callback returns.
type Tx struct {
	accounts []Account
	posts    []Post
	comments []Comment
	newID    func() string
	writable bool
	hooks    []func()
}

// AfterCommit registers fn to run once the transaction commits.
// Hooks registered in View, or in an Update that fails, never run.
func (tx *Tx) AfterCommit(fn func()) {
	tx.hooks = append(tx.hooks, fn)
}

// NewID returns a generated id not yet used in the kind's collection.
func (tx *Tx) NewID(kind Kind) string {
	for {
		id := tx.newID()
		if _, ok := tx.Get(Ref{Kind: kind, ID: id}); !ok {
			return id
		}
	}
}

// --- Accounts ---

// Account returns the account with the given id.
func (tx *Tx) Account(id string) (Account, bool) {
	i := indexOf(tx.accounts, id)
	if i < 0 {
		return Account{}, false
	}
	return tx.accounts[i].Clone(), true
}

// HasAccount reports whether an account with the given id exists.
func (tx *Tx) HasAccount(id string) bool {
	return indexOf(tx.accounts, id) >= 0
}

// EmailTaken reports whether any account other than exceptID uses email.
func (tx *Tx) EmailTaken(email, exceptID string) bool {
	for i := range tx.accounts {
		if tx.accounts[i].Email == email && tx.accounts[i].ID != exceptID {
			return true
		}
	}
	return false
}

// Accounts returns all accounts in collection order.
func (tx *Tx) Accounts() []Account {
	out := make([]Account, 0, len(tx.accounts))
	for _, a := range tx.accounts {
		out = append(out, a.Clone())
	}
	return out
}

// InsertAccount appends an account to the collection.
func (tx *Tx) InsertAccount(a Account) error {
	if err := tx.checkInsert(KindAccount, a.ID, indexOf(tx.accounts, a.ID)); err != nil {
		return err
	}
	tx.accounts = append(tx.accounts, a.Clone())
	return nil
}

// PutAccount replaces the stored account with the same id.
func (tx *Tx) PutAccount(a Account) error {
	i, err := tx.checkPut(KindAccount, a.ID, indexOf(tx.accounts, a.ID))
	if err != nil {
		return err
	}
	tx.accounts[i] = a.Clone()
	return nil
}

// RemoveAccount removes and returns the account with the given id.
func (tx *Tx) RemoveAccount(id string) (Account, error) {
	i, err := tx.checkPut(KindAccount, id, indexOf(tx.accounts, id))
	if err != nil {
		return Account{}, err
	}
	removed := tx.accounts[i]
	tx.accounts = slices.Delete(tx.accounts, i, i+1)
	return removed, nil
}

// --- Posts ---

// Post returns the post with the given id.
func (tx *Tx) Post(id string) (Post, bool) {
	i := indexOf(tx.posts, id)
	if i < 0 {
		return Post{}, false
	}
	return tx.posts[i].Clone(), true
}

// HasPost reports whether a post with the given id exists.
func (tx *Tx) HasPost(id string) bool {
	return indexOf(tx.posts, id) >= 0
}

// Posts returns all posts in collection order.
func (tx *Tx) Posts() []Post {
	out := make([]Post, 0, len(tx.posts))
	for _, p := range tx.posts {
		out = append(out, p.Clone())
	}
	return out
}

// InsertPost appends a post to the collection.
func (tx *Tx) InsertPost(p Post) error {
	if err := tx.checkInsert(KindPost, p.ID, indexOf(tx.posts, p.ID)); err != nil {
		return err
	}
	tx.posts = append(tx.posts, p.Clone())
	return nil
}

// PutPost replaces the stored post with the same id.
func (tx *Tx) PutPost(p Post) error {
	i, err := tx.checkPut(KindPost, p.ID, indexOf(tx.posts, p.ID))
	if err != nil {
		return err
	}
	tx.posts[i] = p.Clone()
	return nil
}

// RemovePost removes and returns the post with the given id.
func (tx *Tx) RemovePost(id string) (Post, error) {
	i, err := tx.checkPut(KindPost, id, indexOf(tx.posts, id))
	if err != nil {
		return Post{}, err
	}
	removed := tx.posts[i]
	tx.posts = slices.Delete(tx.posts, i, i+1)
	return removed, nil
}

// --- Comments ---

// Comment returns the comment with the given id.
func (tx *Tx) Comment(id string) (Comment, bool) {
	i := indexOf(tx.comments, id)
	if i < 0 {
		return Comment{}, false
	}
	return tx.comments[i].Clone(), true
}

// HasComment reports whether a comment with the given id exists.
func (tx *Tx) HasComment(id string) bool {
	return indexOf(tx.comments, id) >= 0
}

// Comments returns all comments in collection order.
func (tx *Tx) Comments() []Comment {
	return slices.Clone(tx.comments)
}

// InsertComment appends a comment to the collection.
func (tx *Tx) InsertComment(c Comment) error {
	if err := tx.checkInsert(KindComment, c.ID, indexOf(tx.comments, c.ID)); err != nil {
		return err
	}
	tx.comments = append(tx.comments, c)
	return nil
}

// PutComment replaces the stored comment with the same id.
func (tx *Tx) PutComment(c Comment) error {
	i, err := tx.checkPut(KindComment, c.ID, indexOf(tx.comments, c.ID))
	if err != nil {
		return err
	}
	tx.comments[i] = c
	return nil
}

// RemoveComment removes and returns the comment with the given id.
func (tx *Tx) RemoveComment(id string) (Comment, error) {
	i, err := tx.checkPut(KindComment, id, indexOf(tx.comments, id))
	if err != nil {
		return Comment{}, err
	}
	removed := tx.comments[i]
	tx.comments = slices.Delete(tx.comments, i, i+1)
	return removed, nil
}

// --- Kind-generic access ---

// Get returns the record named by ref.
func (tx *Tx) Get(ref Ref) (Record, bool) {
	var (
		r  Record
		ok bool
	)
	switch ref.Kind {
	case KindAccount:
		r, ok = tx.Account(ref.ID)
	case KindPost:
		r, ok = tx.Post(ref.ID)
	case KindComment:
		r, ok = tx.Comment(ref.ID)
	}
	if !ok {
		return nil, false
	}
	return r, true
}

// Remove removes and returns the record named by ref.
func (tx *Tx) Remove(ref Ref) (Record, error) {
	var (
		r   Record
		err error
	)
	switch ref.Kind {
	case KindAccount:
		r, err = tx.RemoveAccount(ref.ID)
	case KindPost:
		r, err = tx.RemovePost(ref.ID)
	case KindComment:
		r, err = tx.RemoveComment(ref.ID)
	default:
		err = fmt.Errorf("remove %s: unknown kind: %w", ref, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// ChildIDs returns the ids of rel.ChildKind records whose rel.Field equals
// parentID, in collection order.
func (tx *Tx) ChildIDs(rel Relationship, parentID string) []string {
	var ids []string
	tx.each(rel.ChildKind, func(r Record) {
		if v, ok := fieldValue(r, rel.Field); ok && v == parentID {
			ids = append(ids, r.RecordID())
		}
	})
	return ids
}

// each calls fn for every record of kind in collection order.
func (tx *Tx) each(kind Kind, fn func(Record)) {
	switch kind {
	case KindAccount:
		for _, a := range tx.accounts {
			fn(a)
		}
	case KindPost:
		for _, p := range tx.posts {
			fn(p)
		}
	case KindComment:
		for _, c := range tx.comments {
			fn(c)
		}
	}
}

func (tx *Tx) checkInsert(kind Kind, id string, idx int) error {
	if !tx.writable {
		return fmt.Errorf("insert %s#%s: %w", kind, id, ErrReadOnly)
	}
	if idx >= 0 {
		return fmt.Errorf("insert %s#%s: %w", kind, id, ErrAlreadyExists)
	}
	return nil
}

func (tx *Tx) checkPut(kind Kind, id string, idx int) (int, error) {
	if !tx.writable {
		return -1, fmt.Errorf("write %s#%s: %w", kind, id, ErrReadOnly)
	}
	if idx < 0 {
		return -1, fmt.Errorf("%s#%s: %w", kind, id, ErrNotFound)
	}
	return idx, nil
}

// fieldValue extracts a reference attribute from a record.
func fieldValue(r Record, field string) (string, bool) {
	switch v := r.(type) {
	case Post:
		if field == "author" {
			return v.Author, true
		}
	case Comment:
		switch field {
		case "author":
			return v.Author, true
		case "post":
			return v.Post, true
		}
	}
	return "", false
}

func indexOf[T Record](items []T, id string) int {
	for i := range items {
		if items[i].RecordID() == id {
			return i
		}
	}
	return -1
}
