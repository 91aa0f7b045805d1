package cascade_test

import (
	"errors"
	"testing"

	"github.com/jacentio/arbor/cascade"
	"github.com/jacentio/arbor/store"
)

func seeded(t *testing.T) *store.Store {
	t.Helper()
	s := store.New(store.DefaultConfig())
	if err := s.Load(store.DefaultSeed()); err != nil {
		t.Fatalf("load seed: %v", err)
	}
	return s
}

func refs(t *testing.T, got []store.Ref) []string {
	t.Helper()
	out := make([]string, len(got))
	for i, r := range got {
		out[i] = r.String()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNewPlanner(t *testing.T) {
	// Test with nil registry and logger (should not panic)
	p := cascade.NewPlanner(nil, nil)
	if p == nil {
		t.Fatal("expected non-nil Planner")
	}
}

func TestPlan(t *testing.T) {
	s := seeded(t)
	p := cascade.NewPlanner(s.Registry(), nil)

	tests := []struct {
		name     string
		root     store.Ref
		expected []string
	}{
		{
			name: "account with posts and own comments",
			root: store.Ref{Kind: store.KindAccount, ID: "3"},
			expected: []string{
				"account#3",
				"post#1", "post#2", "post#3",
				"comment#102", "comment#103", "comment#104",
				"comment#101",
			},
		},
		{
			name:     "account with only comments",
			root:     store.Ref{Kind: store.KindAccount, ID: "1"},
			expected: []string{"account#1", "comment#101"},
		},
		{
			name:     "account with nothing",
			root:     store.Ref{Kind: store.KindAccount, ID: "2"},
			expected: []string{"account#2"},
		},
		{
			name:     "post",
			root:     store.Ref{Kind: store.KindPost, ID: "1"},
			expected: []string{"post#1", "comment#101", "comment#102"},
		},
		{
			name:     "comment is a leaf",
			root:     store.Ref{Kind: store.KindComment, ID: "104"},
			expected: []string{"comment#104"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = s.View(func(tx *store.Tx) error {
				plan, err := p.Plan(tx, tt.root)
				if err != nil {
					t.Fatalf("Plan failed: %v", err)
				}
				if got := refs(t, plan); !equal(got, tt.expected) {
					t.Errorf("expected %v, got %v", tt.expected, got)
				}
				return nil
			})
		})
	}
}

func TestPlan_NotFound(t *testing.T) {
	s := seeded(t)
	p := cascade.NewPlanner(s.Registry(), nil)

	_ = s.View(func(tx *store.Tx) error {
		_, err := p.Plan(tx, store.Ref{Kind: store.KindPost, ID: "missing"})
		if !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		return nil
	})
}

func TestDelete(t *testing.T) {
	s := seeded(t)
	p := cascade.NewPlanner(s.Registry(), nil)

	var result cascade.Result
	err := s.Update(func(tx *store.Tx) error {
		var err error
		result, err = p.Delete(tx, store.Ref{Kind: store.KindAccount, ID: "3"})
		return err
	})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	root, ok := result.Root.(store.Account)
	if !ok || root.Name != "Jack" {
		t.Errorf("expected Jack as root, got %+v", result.Root)
	}
	if len(result.Removed) != 7 {
		t.Errorf("expected 7 dependents removed, got %d", len(result.Removed))
	}

	counts := s.Counts()
	if counts[store.KindAccount] != 2 || counts[store.KindPost] != 0 || counts[store.KindComment] != 0 {
		t.Errorf("unexpected counts after cascade: %v", counts)
	}
}

func TestDelete_ReadOnly(t *testing.T) {
	s := seeded(t)
	p := cascade.NewPlanner(s.Registry(), nil)

	_ = s.View(func(tx *store.Tx) error {
		_, err := p.Delete(tx, store.Ref{Kind: store.KindPost, ID: "1"})
		if !errors.Is(err, store.ErrReadOnly) {
			t.Errorf("expected ErrReadOnly, got %v", err)
		}
		return nil
	})
}

// --- Cascade Edge Cases ---

func TestPlan_CustomRegistry(t *testing.T) {
	s := seeded(t)

	// Without the account→comment relationship only comments on the
	// account's posts follow it.
	r := store.NewRegistry()
	r.Register(store.Relationship{ParentKind: store.KindAccount, ChildKind: store.KindPost, Field: "author"})
	r.Register(store.Relationship{ParentKind: store.KindPost, ChildKind: store.KindComment, Field: "post"})
	p := cascade.NewPlanner(r, nil)

	_ = s.View(func(tx *store.Tx) error {
		plan, err := p.Plan(tx, store.Ref{Kind: store.KindAccount, ID: "1"})
		if err != nil {
			t.Fatalf("Plan failed: %v", err)
		}
		if got := refs(t, plan); !equal(got, []string{"account#1"}) {
			t.Errorf("expected only account#1, got %v", got)
		}
		return nil
	})
}

func TestPlan_EmptyRegistry(t *testing.T) {
	s := seeded(t)
	p := cascade.NewPlanner(store.NewRegistry(), nil)

	_ = s.View(func(tx *store.Tx) error {
		plan, err := p.Plan(tx, store.Ref{Kind: store.KindAccount, ID: "3"})
		if err != nil {
			t.Fatalf("Plan failed: %v", err)
		}
		if len(plan) != 1 {
			t.Errorf("expected root only, got %v", refs(t, plan))
		}
		return nil
	})
}
