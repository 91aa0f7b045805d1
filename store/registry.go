package store

// Relationship defines a parent-child reference used for cascade operations.
type Relationship struct {
	// ParentKind is the referenced record kind (e.g. "account").
	ParentKind Kind

	// ChildKind is the referencing record kind (e.g. "post").
	ChildKind Kind

	// Field is the child attribute that holds the parent's id (e.g. "author").
	Field string
}

// Registry holds all known record relationships for cascade operations.
type Registry struct {
	byParent map[Kind][]Relationship
}

// NewRegistry creates a new empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		byParent: make(map[Kind][]Relationship),
	}
}

// DefaultRegistry returns a registry describing the account/post/comment graph.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Relationship{ParentKind: KindAccount, ChildKind: KindPost, Field: "author"})
	r.Register(Relationship{ParentKind: KindPost, ChildKind: KindComment, Field: "post"})
	r.Register(Relationship{ParentKind: KindAccount, ChildKind: KindComment, Field: "author"})
	return r
}

// Register adds a relationship to the registry.
func (r *Registry) Register(rel Relationship) {
	r.byParent[rel.ParentKind] = append(r.byParent[rel.ParentKind], rel)
}

// ChildrenOf returns all child relationships for a given parent kind,
// in registration order.
func (r *Registry) ChildrenOf(parentKind Kind) []Relationship {
	return r.byParent[parentKind]
}

// HasChildren returns true if the parent kind has any registered child relationships.
func (r *Registry) HasChildren(parentKind Kind) bool {
	return len(r.byParent[parentKind]) > 0
}
