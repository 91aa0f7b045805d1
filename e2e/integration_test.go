//go:build e2e

// Package e2e contains end-to-end tests that drive a full arbor stack over
// HTTP: store, mutation engine, bus, Prometheus metrics and SSE.
// Run with: go test -tags=e2e -v ./e2e/...
package e2e

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/jacentio/arbor/internal/httpapi"
	"github.com/jacentio/arbor/metrics"
	"github.com/jacentio/arbor/mutation"
	"github.com/jacentio/arbor/pubsub"
	"github.com/jacentio/arbor/query"
	"github.com/jacentio/arbor/resolve"
	"github.com/jacentio/arbor/store"
)

// testID keeps emails created by this run distinct.
var testID string

func TestMain(m *testing.M) {
	testID = uuid.New().String()[:8]
	fmt.Printf("Test ID: %s\n", testID)
	os.Exit(m.Run())
}

// stack is a running arbor server over the default seed.
type stack struct {
	url       string
	store     *store.Store
	bus       *pubsub.Bus
	collector *metrics.PrometheusCollector
}

func newStack(t *testing.T) *stack {
	t.Helper()

	s := store.New(store.DefaultConfig())
	if err := s.Load(store.DefaultSeed()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	collector := metrics.NewPrometheusCollector()
	bus := pubsub.New(pubsub.DefaultConfig(), pubsub.WithMetrics(collector))

	api := httpapi.New(
		query.New(s),
		resolve.New(s, nil),
		mutation.New(s, bus, mutation.WithMetrics(collector)),
		bus,
		httpapi.WithHandler("GET /metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{})),
	)
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	t.Cleanup(func() { _ = bus.Close(context.Background()) })

	return &stack{url: srv.URL, store: s, bus: bus, collector: collector}
}

func (st *stack) call(t *testing.T, method, path string, in any, out any) int {
	t.Helper()

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, st.url+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp.StatusCode
}

// subscribe opens an SSE stream and returns a channel of event data lines.
func (st *stack) subscribe(t *testing.T, path string) <-chan string {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, st.url+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe %s: %v", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("subscribe %s: status %d", path, resp.StatusCode)
	}

	reader := bufio.NewReader(resp.Body)
	if line, err := reader.ReadString('\n'); err != nil || line != ": connected\n" {
		resp.Body.Close()
		t.Fatalf("expected connected comment, got %q, %v", line, err)
	}

	data := make(chan string, 16)
	go func() {
		defer close(data)
		defer resp.Body.Close()
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			if payload, ok := strings.CutPrefix(strings.TrimSuffix(line, "\n"), "data: "); ok {
				data <- payload
			}
		}
	}()
	return data
}

func receive[T any](t *testing.T, data <-chan string) T {
	t.Helper()
	var v T
	select {
	case payload, ok := <-data:
		if !ok {
			t.Fatal("stream closed")
		}
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			t.Fatalf("decode event %q: %v", payload, err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return v
}

func TestPublishThenComment(t *testing.T) {
	st := newStack(t)
	posts := st.subscribe(t, "/subscriptions/posts")
	comments := st.subscribe(t, "/subscriptions/posts/2/comments")

	input := mutation.CreateCommentInput{Text: "hi", Author: "3", Post: "2"}
	if code := st.call(t, http.MethodPost, "/comments", input, nil); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 on unpublished post, got %d", code)
	}

	var post store.Post
	if code := st.call(t, http.MethodPatch, "/posts/2", map[string]any{"published": true}, &post); code != http.StatusOK {
		t.Fatalf("publish failed: %d", code)
	}
	if !post.Published {
		t.Error("expected post 2 published")
	}

	ev := receive[mutation.PostEvent](t, posts)
	if ev.Mutation != mutation.Created || ev.Data.ID != "2" {
		t.Errorf("expected CREATED for post 2, got %+v", ev)
	}

	var comment store.Comment
	if code := st.call(t, http.MethodPost, "/comments", input, &comment); code != http.StatusCreated {
		t.Fatalf("create comment failed: %d", code)
	}
	for _, seeded := range []string{"101", "102", "103", "104"} {
		if comment.ID == seeded {
			t.Errorf("expected a fresh id, got %q", comment.ID)
		}
	}

	cev := receive[mutation.CommentEvent](t, comments)
	if cev.Mutation != mutation.Created || cev.Data.ID != comment.ID {
		t.Errorf("expected CREATED for %s, got %+v", comment.ID, cev)
	}
}

func TestDeleteAccountCascades(t *testing.T) {
	st := newStack(t)

	if code := st.call(t, http.MethodPatch, "/posts/2", map[string]any{"published": true}, nil); code != http.StatusOK {
		t.Fatalf("publish failed: %d", code)
	}
	var comment store.Comment
	input := mutation.CreateCommentInput{Text: "hi", Author: "3", Post: "2"}
	if code := st.call(t, http.MethodPost, "/comments", input, &comment); code != http.StatusCreated {
		t.Fatalf("create comment failed: %d", code)
	}

	// Comment 101 is Mars's, but it sits on Jack's post 1 and goes with it.
	var account store.Account
	if code := st.call(t, http.MethodDelete, "/accounts/3", nil, &account); code != http.StatusOK {
		t.Fatalf("delete account failed: %d", code)
	}
	if account.Name != "Jack" {
		t.Errorf("expected Jack returned, got %+v", account)
	}

	for _, path := range []string{"/posts/2", "/comments/" + comment.ID, "/comments/103", "/comments/101"} {
		if code := st.call(t, http.MethodGet, path, nil, nil); code != http.StatusNotFound {
			t.Errorf("expected %s gone, got %d", path, code)
		}
	}

	var remaining []store.Comment
	st.call(t, http.MethodGet, "/comments", nil, &remaining)
	for _, c := range remaining {
		if c.Author == "3" {
			t.Errorf("comment %s by deleted account survived", c.ID)
		}
	}

	expected := `
# HELP arbor_records Current number of stored records by kind
# TYPE arbor_records gauge
arbor_records{kind="account"} 2
arbor_records{kind="comment"} 0
arbor_records{kind="post"} 0
`
	if err := testutil.GatherAndCompare(st.collector.Registry(), strings.NewReader(expected), "arbor_records"); err != nil {
		t.Errorf("unexpected record gauges: %v", err)
	}
}

func TestCreateAccountAndPost(t *testing.T) {
	st := newStack(t)
	posts := st.subscribe(t, "/subscriptions/posts")

	var account store.Account
	in := mutation.CreateAccountInput{Name: "E2E", Email: "e2e-" + testID + "@example.com"}
	if code := st.call(t, http.MethodPost, "/accounts", in, &account); code != http.StatusCreated {
		t.Fatalf("create account failed: %d", code)
	}
	if code := st.call(t, http.MethodPost, "/accounts", in, nil); code != http.StatusConflict {
		t.Errorf("expected 409 for duplicate email, got %d", code)
	}

	// Unpublished creation is silent; the published one is announced.
	draft := mutation.CreatePostInput{Title: "draft", Author: account.ID}
	if code := st.call(t, http.MethodPost, "/posts", draft, nil); code != http.StatusCreated {
		t.Fatalf("create draft failed: %d", code)
	}
	var live store.Post
	published := mutation.CreatePostInput{Title: "live", Published: true, Author: account.ID}
	if code := st.call(t, http.MethodPost, "/posts", published, &live); code != http.StatusCreated {
		t.Fatalf("create post failed: %d", code)
	}

	ev := receive[mutation.PostEvent](t, posts)
	if ev.Data.ID != live.ID {
		t.Errorf("expected event for %s, got %+v", live.ID, ev)
	}

	var authored []store.Post
	st.call(t, http.MethodGet, "/accounts/"+account.ID+"/posts", nil, &authored)
	if len(authored) != 2 {
		t.Errorf("expected 2 posts, got %d", len(authored))
	}
}

func TestMetricsEndpoint(t *testing.T) {
	st := newStack(t)
	st.subscribe(t, "/subscriptions/posts")

	if code := st.call(t, http.MethodPatch, "/posts/3", map[string]any{"published": true}, nil); code != http.StatusOK {
		t.Fatalf("publish failed: %d", code)
	}

	resp, err := http.Get(st.url + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`arbor_operations_total{operation="updatePost",status="success"} 1`,
		`arbor_events_published_total{topic="post"} 1`,
		`arbor_subscribers{topic="post"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("expected %q in metrics output", want)
		}
	}
}
