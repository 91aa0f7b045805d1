// Package topic builds notification bus topic names.
package topic

import "strings"

// Posts is the topic carrying post change events.
const Posts = "post"

const commentPrefix = "comment:"

// Comments returns the per-post topic carrying newly created comments,
// e.g. "comment:2".
func Comments(postID string) string {
	return commentPrefix + postID
}

// PostID extracts the post id from a per-post comment topic.
func PostID(topic string) (string, bool) {
	id, ok := strings.CutPrefix(topic, commentPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

// Class returns the bounded label for a topic: "post", "comment" or "other".
// Per-post topics collapse into one class so metric label sets stay small.
func Class(topic string) string {
	if topic == Posts {
		return "post"
	}
	if _, ok := PostID(topic); ok {
		return "comment"
	}
	return "other"
}
