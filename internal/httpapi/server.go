// Package httpapi exposes the arbor operations as JSON over HTTP, with
// Server-Sent Events for subscriptions.
package httpapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/jacentio/arbor/mutation"
	"github.com/jacentio/arbor/pubsub"
	"github.com/jacentio/arbor/query"
	"github.com/jacentio/arbor/resolve"
)

const defaultKeepAlive = 30 * time.Second

// Server routes HTTP requests to the query, resolver and mutation engines.
type Server struct {
	query     *query.Engine
	resolver  *resolve.Resolver
	mutations *mutation.Engine
	bus       *pubsub.Bus
	logger    *slog.Logger
	keepAlive time.Duration
	mux       *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithKeepAlive sets the interval of SSE keep-alive comments.
func WithKeepAlive(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.keepAlive = d
		}
	}
}

// WithHandler mounts an extra handler, e.g. "GET /metrics".
func WithHandler(pattern string, h http.Handler) Option {
	return func(s *Server) {
		s.mux.Handle(pattern, h)
	}
}

// New creates a Server.
func New(q *query.Engine, r *resolve.Resolver, m *mutation.Engine, bus *pubsub.Bus, opts ...Option) *Server {
	s := &Server{
		query:     q,
		resolver:  r,
		mutations: m,
		bus:       bus,
		logger:    slog.Default(),
		keepAlive: defaultKeepAlive,
		mux:       http.NewServeMux(),
	}
	s.routes()
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) routes() {
	// Accounts
	s.mux.HandleFunc("GET /accounts", s.listAccounts)
	s.mux.HandleFunc("POST /accounts", s.createAccount)
	s.mux.HandleFunc("GET /accounts/{id}", s.getAccount)
	s.mux.HandleFunc("PATCH /accounts/{id}", s.updateAccount)
	s.mux.HandleFunc("DELETE /accounts/{id}", s.deleteAccount)
	s.mux.HandleFunc("GET /accounts/{id}/posts", s.accountPosts)
	s.mux.HandleFunc("GET /accounts/{id}/comments", s.accountComments)

	// Posts
	s.mux.HandleFunc("GET /posts", s.listPosts)
	s.mux.HandleFunc("POST /posts", s.createPost)
	s.mux.HandleFunc("GET /posts/{id}", s.getPost)
	s.mux.HandleFunc("PATCH /posts/{id}", s.updatePost)
	s.mux.HandleFunc("DELETE /posts/{id}", s.deletePost)
	s.mux.HandleFunc("GET /posts/{id}/author", s.postAuthor)
	s.mux.HandleFunc("GET /posts/{id}/comments", s.postComments)

	// Comments
	s.mux.HandleFunc("GET /comments", s.listComments)
	s.mux.HandleFunc("POST /comments", s.createComment)
	s.mux.HandleFunc("GET /comments/{id}", s.getComment)
	s.mux.HandleFunc("PATCH /comments/{id}", s.updateComment)
	s.mux.HandleFunc("DELETE /comments/{id}", s.deleteComment)
	s.mux.HandleFunc("GET /comments/{id}/author", s.commentAuthor)
	s.mux.HandleFunc("GET /comments/{id}/post", s.commentPost)

	// Subscriptions
	s.mux.HandleFunc("GET /subscriptions/posts", s.subscribePosts)
	s.mux.HandleFunc("GET /subscriptions/posts/{id}/comments", s.subscribeComments)
}

// ServeHTTP implements http.Handler with panic recovery and access logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

	defer func() {
		if v := recover(); v != nil {
			s.logger.ErrorContext(r.Context(), "panic in handler",
				"method", r.Method,
				"path", r.URL.Path,
				"panic", v,
			)
			if !rec.wrote {
				writeError(rec, http.StatusInternalServerError, "internal error")
			}
		}
		s.logger.DebugContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	}()

	s.mux.ServeHTTP(rec, r)
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.wrote {
		r.status = code
		r.wrote = true
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	r.wrote = true
	return r.ResponseWriter.Write(b)
}

// Flush forwards to the underlying writer so SSE works through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		r.wrote = true
		f.Flush()
	}
}
