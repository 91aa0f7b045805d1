package httpapi

import (
	"net/http"

	"github.com/jacentio/arbor/mutation"
)

func (s *Server) listComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.query.ListComments(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}

func (s *Server) getComment(w http.ResponseWriter, r *http.Request) {
	c, err := s.query.Comment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) createComment(w http.ResponseWriter, r *http.Request) {
	var in mutation.CreateCommentInput
	if !decode(w, r, &in) {
		return
	}
	c, err := s.mutations.CreateComment(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) updateComment(w http.ResponseWriter, r *http.Request) {
	var patch mutation.CommentPatch
	if !decode(w, r, &patch) {
		return
	}
	c, err := s.mutations.UpdateComment(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) deleteComment(w http.ResponseWriter, r *http.Request) {
	c, err := s.mutations.DeleteComment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) commentAuthor(w http.ResponseWriter, r *http.Request) {
	c, err := s.query.Comment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.resolver.CommentAuthor(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) commentPost(w http.ResponseWriter, r *http.Request) {
	c, err := s.query.Comment(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.resolver.CommentPost(r.Context(), c)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
