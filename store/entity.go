package store

// Kind is the record kind name.
type Kind string

const (
	KindAccount Kind = "account"
	KindPost    Kind = "post"
	KindComment Kind = "comment"
)

// Record is the base interface for all stored types.
type Record interface {
	// RecordID returns the record's unique id within its collection.
	RecordID() string

	// Kind returns the record kind.
	Kind() Kind
}

// Ref is a type-qualified record reference.
type Ref struct {
	Kind Kind
	ID   string
}

// RefOf returns the reference for a record.
func RefOf(r Record) Ref {
	return Ref{Kind: r.Kind(), ID: r.RecordID()}
}

// String returns the reference in "kind#id" form (e.g. "post#2").
func (r Ref) String() string {
	return string(r.Kind) + "#" + r.ID
}

// Account is a registered user of the API.
type Account struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
	Age   *int   `json:"age,omitempty" yaml:"age,omitempty"`
}

func (a Account) RecordID() string { return a.ID }
func (a Account) Kind() Kind       { return KindAccount }

// Clone returns a copy that shares no memory with a.
func (a Account) Clone() Account {
	a.Age = clonePtr(a.Age)
	return a
}

// Post is an article written by an account.
type Post struct {
	ID        string  `json:"id" yaml:"id"`
	Title     string  `json:"title" yaml:"title"`
	Body      *string `json:"body,omitempty" yaml:"body,omitempty"`
	Published bool    `json:"published" yaml:"published"`
	Author    string  `json:"author" yaml:"author"`
}

func (p Post) RecordID() string { return p.ID }
func (p Post) Kind() Kind       { return KindPost }

// Clone returns a copy that shares no memory with p.
func (p Post) Clone() Post {
	p.Body = clonePtr(p.Body)
	return p
}

// Comment is a reply by an account on a post.
type Comment struct {
	ID     string `json:"id" yaml:"id"`
	Text   string `json:"text" yaml:"text"`
	Author string `json:"author" yaml:"author"`
	Post   string `json:"post" yaml:"post"`
}

func (c Comment) RecordID() string { return c.ID }
func (c Comment) Kind() Kind       { return KindComment }

// Clone returns a copy of c. Comments hold no pointers.
func (c Comment) Clone() Comment {
	return c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
