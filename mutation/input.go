package mutation

import "github.com/jacentio/arbor/store"

// CreateAccountInput holds the fields of a new account.
type CreateAccountInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Age   *int   `json:"age,omitempty"`
}

// AccountPatch holds the account fields to replace. Absent fields are kept;
// Age may be present and nil to clear it.
type AccountPatch struct {
	Name  store.Optional[string] `json:"name"`
	Email store.Optional[string] `json:"email"`
	Age   store.Optional[*int]   `json:"age"`
}

// CreatePostInput holds the fields of a new post.
type CreatePostInput struct {
	Title     string  `json:"title"`
	Body      *string `json:"body,omitempty"`
	Published bool    `json:"published"`
	Author    string  `json:"author"`
}

// PostPatch holds the post fields to replace. Body may be present and nil
// to clear it.
type PostPatch struct {
	Title     store.Optional[string]  `json:"title"`
	Body      store.Optional[*string] `json:"body"`
	Published store.Optional[bool]    `json:"published"`
}

// CreateCommentInput holds the fields of a new comment.
type CreateCommentInput struct {
	Text   string `json:"text"`
	Author string `json:"author"`
	Post   string `json:"post"`
}

// CommentPatch holds the comment fields to replace.
type CommentPatch struct {
	Text store.Optional[string] `json:"text"`
}
