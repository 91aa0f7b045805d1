package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jacentio/arbor/internal/topic"
)

func (s *Server) subscribePosts(w http.ResponseWriter, r *http.Request) {
	s.stream(w, r, topic.Posts)
}

func (s *Server) subscribeComments(w http.ResponseWriter, r *http.Request) {
	postID := r.PathValue("id")
	if _, err := s.query.Post(r.Context(), postID); err != nil {
		s.fail(w, r, err)
		return
	}
	s.stream(w, r, topic.Comments(postID))
}

// stream relays bus messages on t to the client as Server-Sent Events until
// the client disconnects or the bus closes. Each event carries the message
// sequence number as its id and the topic class as its event name.
func (s *Server) stream(w http.ResponseWriter, r *http.Request, t string) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sub, err := s.bus.Subscribe(r.Context(), t)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer sub.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	event := topic.Class(t)
	for {
		select {
		case msg, ok := <-sub.Events():
			if !ok {
				return
			}
			data, err := json.Marshal(msg.Payload)
			if err != nil {
				s.logger.ErrorContext(r.Context(), "failed to marshal event",
					"topic", t,
					"error", err,
				)
				continue
			}
			if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", msg.Seq, event, data); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
