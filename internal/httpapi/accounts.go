package httpapi

import (
	"net/http"

	"github.com/jacentio/arbor/mutation"
)

func (s *Server) listAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.query.ListAccounts(r.Context(), r.URL.Query().Get("query"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, accounts)
}

func (s *Server) getAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.query.Account(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) createAccount(w http.ResponseWriter, r *http.Request) {
	var in mutation.CreateAccountInput
	if !decode(w, r, &in) {
		return
	}
	a, err := s.mutations.CreateAccount(r.Context(), in)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) updateAccount(w http.ResponseWriter, r *http.Request) {
	var patch mutation.AccountPatch
	if !decode(w, r, &patch) {
		return
	}
	a, err := s.mutations.UpdateAccount(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) deleteAccount(w http.ResponseWriter, r *http.Request) {
	a, err := s.mutations.DeleteAccount(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) accountPosts(w http.ResponseWriter, r *http.Request) {
	a, err := s.query.Account(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	posts, err := s.resolver.AccountPosts(r.Context(), a)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

func (s *Server) accountComments(w http.ResponseWriter, r *http.Request) {
	a, err := s.query.Account(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	comments, err := s.resolver.AccountComments(r.Context(), a)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
