package httpapi

import (
	"net/http"

	"github.com/jacentio/arbor/mutation"
)

func (s *Server) listPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := s.query.ListPosts(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) getPost(w http.ResponseWriter, r *http.Request) {
	p, err := s.query.Post(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createPost(w http.ResponseWriter, r *http.Request) {
	var in mutation.CreatePostInput
	if !decode(w, r, &in) {
		return
	}
	p, err := s.mutations.CreatePost(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updatePost(w http.ResponseWriter, r *http.Request) {
	var patch mutation.PostPatch
	if !decode(w, r, &patch) {
		return
	}
	p, err := s.mutations.UpdatePost(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) deletePost(w http.ResponseWriter, r *http.Request) {
	p, err := s.mutations.DeletePost(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) postAuthor(w http.ResponseWriter, r *http.Request) {
	p, err := s.query.Post(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	a, err := s.resolver.PostAuthor(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) postComments(w http.ResponseWriter, r *http.Request) {
	p, err := s.query.Post(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	comments, err := s.resolver.PostComments(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
