package store

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeedYAML []byte

// Seed is an initial dataset loaded into a Store at startup.
type Seed struct {
	Accounts []Account `json:"accounts" yaml:"accounts"`
	Posts    []Post    `json:"posts" yaml:"posts"`
	Comments []Comment `json:"comments" yaml:"comments"`
}

// DefaultSeed returns the built-in dataset: 3 accounts, 3 posts, 4 comments.
func DefaultSeed() Seed {
	seed, err := ParseSeed(defaultSeedYAML)
	if err != nil {
		// The embedded dataset is fixed at build time.
		panic(fmt.Sprintf("parse embedded seed: %v", err))
	}
	return seed
}

// ParseSeed decodes a YAML dataset and checks its referential integrity.
func ParseSeed(data []byte) (Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return Seed{}, fmt.Errorf("parse seed: %w", err)
	}
	if err := seed.Validate(); err != nil {
		return Seed{}, err
	}
	return seed, nil
}

// LoadSeed reads and parses a YAML dataset from path.
func LoadSeed(path string) (Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Seed{}, fmt.Errorf("read seed: %w", err)
	}
	return ParseSeed(data)
}

// Validate checks id and email uniqueness and that every reference resolves.
// The published gate for comments is a creation-time rule and isn't checked.
func (s Seed) Validate() error {
	accounts := make(map[string]bool, len(s.Accounts))
	emails := make(map[string]bool, len(s.Accounts))
	for _, a := range s.Accounts {
		if a.ID == "" || accounts[a.ID] {
			return fmt.Errorf("account %q: empty or duplicate id: %w", a.ID, ErrInvalidSeed)
		}
		if emails[a.Email] {
			return fmt.Errorf("account %q: email %q: %w", a.ID, a.Email, ErrInvalidSeed)
		}
		accounts[a.ID] = true
		emails[a.Email] = true
	}

	posts := make(map[string]bool, len(s.Posts))
	for _, p := range s.Posts {
		if p.ID == "" || posts[p.ID] {
			return fmt.Errorf("post %q: empty or duplicate id: %w", p.ID, ErrInvalidSeed)
		}
		if !accounts[p.Author] {
			return fmt.Errorf("post %q: author %q: %w", p.ID, p.Author, ErrInvalidSeed)
		}
		posts[p.ID] = true
	}

	comments := make(map[string]bool, len(s.Comments))
	for _, c := range s.Comments {
		if c.ID == "" || comments[c.ID] {
			return fmt.Errorf("comment %q: empty or duplicate id: %w", c.ID, ErrInvalidSeed)
		}
		if !accounts[c.Author] {
			return fmt.Errorf("comment %q: author %q: %w", c.ID, c.Author, ErrInvalidSeed)
		}
		if !posts[c.Post] {
			return fmt.Errorf("comment %q: post %q: %w", c.ID, c.Post, ErrInvalidSeed)
		}
		comments[c.ID] = true
	}
	return nil
}

// Load replaces the store contents with the seed dataset.
func (s *Store) Load(seed Seed) error {
	if err := seed.Validate(); err != nil {
		return err
	}
	return s.Update(func(tx *Tx) error {
		tx.accounts = tx.accounts[:0]
		tx.posts = tx.posts[:0]
		tx.comments = tx.comments[:0]
		for _, a := range seed.Accounts {
			if err := tx.InsertAccount(a); err != nil {
				return err
			}
		}
		for _, p := range seed.Posts {
			if err := tx.InsertPost(p); err != nil {
				return err
			}
		}
		for _, c := range seed.Comments {
			if err := tx.InsertComment(c); err != nil {
				return err
			}
		}
		return nil
	})
}

// Snapshot returns the store contents as a Seed.
func (s *Store) Snapshot() Seed {
	var seed Seed
	_ = s.View(func(tx *Tx) error {
		seed = Seed{
			Accounts: tx.Accounts(),
			Posts:    tx.Posts(),
			Comments: tx.Comments(),
		}
		return nil
	})
	return seed
}
