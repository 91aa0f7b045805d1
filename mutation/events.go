package mutation

import "github.com/jacentio/arbor/store"

// MutationKind says what happened to the record carried by an event.
type MutationKind string

const (
	Created MutationKind = "CREATED"
	Updated MutationKind = "UPDATED"
	Deleted MutationKind = "DELETED"
)

// PostEvent is published on topic.Posts when a published post is created,
// changed, unpublished, republished or deleted.
type PostEvent struct {
	Mutation MutationKind `json:"mutation"`
	Data     store.Post   `json:"data"`
}

// CommentEvent is published on topic.Comments(postID) when a comment is
// created on that post.
type CommentEvent struct {
	Mutation MutationKind  `json:"mutation"`
	Data     store.Comment `json:"data"`
}
