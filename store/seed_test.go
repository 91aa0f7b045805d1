package store_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jacentio/arbor/store"
)

func TestDefaultSeed(t *testing.T) {
	seed := store.DefaultSeed()

	if len(seed.Accounts) != 3 || len(seed.Posts) != 3 || len(seed.Comments) != 4 {
		t.Fatalf("expected 3/3/4 records, got %d/%d/%d",
			len(seed.Accounts), len(seed.Posts), len(seed.Comments))
	}

	sally := seed.Accounts[1]
	if sally.Name != "Sally" || sally.Age != nil {
		t.Errorf("expected Sally without age, got %+v", sally)
	}

	p2 := seed.Posts[1]
	if p2.Published || p2.Body != nil {
		t.Errorf("expected post 2 unpublished without body, got %+v", p2)
	}

	if seed.Comments[2].Post != "2" {
		t.Errorf("expected comment 103 on post 2, got %+v", seed.Comments[2])
	}
}

func TestStore_LoadAndSnapshot(t *testing.T) {
	s := store.New(store.DefaultConfig())
	if err := s.Load(store.DefaultSeed()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	snap := s.Snapshot()
	if len(snap.Accounts) != 3 || len(snap.Posts) != 3 || len(snap.Comments) != 4 {
		t.Fatalf("unexpected snapshot sizes %d/%d/%d",
			len(snap.Accounts), len(snap.Posts), len(snap.Comments))
	}

	// Loading again replaces rather than appends.
	if err := s.Load(store.Seed{Accounts: []store.Account{{ID: "x", Email: "x@example.com"}}}); err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	counts := s.Counts()
	if counts[store.KindAccount] != 1 || counts[store.KindPost] != 0 {
		t.Errorf("expected only the new account, got %v", counts)
	}
}

func TestParseSeed(t *testing.T) {
	data := []byte(`
accounts:
  - id: a
    name: Ann
    email: ann@example.com
posts:
  - id: p
    title: Hello
    published: true
    author: a
comments:
  - id: c
    text: hi
    author: a
    post: p
`)
	seed, err := store.ParseSeed(data)
	if err != nil {
		t.Fatalf("ParseSeed failed: %v", err)
	}
	if len(seed.Comments) != 1 || seed.Comments[0].Post != "p" {
		t.Errorf("unexpected seed %+v", seed)
	}
}

func TestParseSeed_Malformed(t *testing.T) {
	if _, err := store.ParseSeed([]byte("accounts: [")); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadSeed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	if err := os.WriteFile(path, []byte("accounts:\n  - id: a\n    name: A\n    email: a@x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	seed, err := store.LoadSeed(path)
	if err != nil {
		t.Fatalf("LoadSeed failed: %v", err)
	}
	if len(seed.Accounts) != 1 {
		t.Errorf("expected 1 account, got %d", len(seed.Accounts))
	}

	if _, err := store.LoadSeed(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

// --- Seed Validation Edge Cases ---

func TestSeedValidate_Invalid(t *testing.T) {
	acct := func(id, email string) store.Account { return store.Account{ID: id, Name: id, Email: email} }

	tests := []struct {
		name string
		seed store.Seed
	}{
		{"empty account id", store.Seed{Accounts: []store.Account{acct("", "a@x")}}},
		{"duplicate account id", store.Seed{Accounts: []store.Account{acct("a", "a@x"), acct("a", "b@x")}}},
		{"duplicate email", store.Seed{Accounts: []store.Account{acct("a", "a@x"), acct("b", "a@x")}}},
		{"post author missing", store.Seed{
			Posts: []store.Post{{ID: "p", Author: "ghost"}},
		}},
		{"duplicate post id", store.Seed{
			Accounts: []store.Account{acct("a", "a@x")},
			Posts:    []store.Post{{ID: "p", Author: "a"}, {ID: "p", Author: "a"}},
		}},
		{"comment author missing", store.Seed{
			Accounts: []store.Account{acct("a", "a@x")},
			Posts:    []store.Post{{ID: "p", Author: "a"}},
			Comments: []store.Comment{{ID: "c", Author: "ghost", Post: "p"}},
		}},
		{"comment post missing", store.Seed{
			Accounts: []store.Account{acct("a", "a@x")},
			Comments: []store.Comment{{ID: "c", Author: "a", Post: "ghost"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.seed.Validate(); !errors.Is(err, store.ErrInvalidSeed) {
				t.Errorf("expected ErrInvalidSeed, got %v", err)
			}
		})
	}
}

func TestStore_Load_InvalidLeavesStoreUntouched(t *testing.T) {
	s := store.New(store.DefaultConfig())
	if err := s.Load(store.DefaultSeed()); err != nil {
		t.Fatal(err)
	}

	bad := store.Seed{Posts: []store.Post{{ID: "p", Author: "ghost"}}}
	if err := s.Load(bad); !errors.Is(err, store.ErrInvalidSeed) {
		t.Fatalf("expected ErrInvalidSeed, got %v", err)
	}
	if s.Counts()[store.KindPost] != 3 {
		t.Error("expected store unchanged after invalid load")
	}
}
