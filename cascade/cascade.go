// Package cascade computes and applies registry-driven cascade deletes.
package cascade

import (
	"fmt"
	"log/slog"

	"github.com/jacentio/arbor/store"
)

// Planner walks a relationship registry to find every record that must be
// removed together with a root record.
type Planner struct {
	registry *store.Registry
	logger   *slog.Logger
}

// NewPlanner creates a new cascade planner.
func NewPlanner(registry *store.Registry, logger *slog.Logger) *Planner {
	if registry == nil {
		registry = store.DefaultRegistry()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{
		registry: registry,
		logger:   logger,
	}
}

// Result describes a completed cascade delete.
type Result struct {
	// Root is the record the delete was requested for.
	Root store.Record

	// Removed holds the dependent records in removal order, root excluded.
	Removed []store.Record
}

// Plan returns the refs of root and all of its transitive children,
// root first, then breadth-first in registry and collection order.
// Each record appears once even when it is reachable through several
// relationships (a comment by an account on that account's own post).
func (p *Planner) Plan(tx *store.Tx, root store.Ref) ([]store.Ref, error) {
	if _, ok := tx.Get(root); !ok {
		return nil, fmt.Errorf("plan cascade %s: %w", root, store.ErrNotFound)
	}

	plan := []store.Ref{root}
	seen := map[store.Ref]bool{root: true}
	for i := 0; i < len(plan); i++ {
		parent := plan[i]
		if !p.registry.HasChildren(parent.Kind) {
			continue
		}
		for _, rel := range p.registry.ChildrenOf(parent.Kind) {
			for _, id := range tx.ChildIDs(rel, parent.ID) {
				child := store.Ref{Kind: rel.ChildKind, ID: id}
				if seen[child] {
					continue
				}
				seen[child] = true
				plan = append(plan, child)
			}
		}
	}
	return plan, nil
}

// Delete removes root and every record that depends on it within tx.
// The plan is computed in full before the first removal.
func (p *Planner) Delete(tx *store.Tx, root store.Ref) (Result, error) {
	p.logger.Debug("processing cascade delete", "entityRef", root.String())

	plan, err := p.Plan(tx, root)
	if err != nil {
		return Result{}, err
	}

	p.logger.Debug("found children to cascade",
		"entityRef", root.String(),
		"childCount", len(plan)-1,
	)

	var result Result
	for i, ref := range plan {
		removed, err := tx.Remove(ref)
		if err != nil {
			return Result{}, fmt.Errorf("cascade %s: remove %s: %w", root, ref, err)
		}
		if i == 0 {
			result.Root = removed
			continue
		}
		result.Removed = append(result.Removed, removed)
	}

	p.logger.Info("cascade delete completed",
		"entityRef", root.String(),
		"childrenProcessed", len(result.Removed),
	)
	return result, nil
}
