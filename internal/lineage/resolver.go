// Package lineage reconstructs strategy ancestry from parent pointers.
package lineage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when the queried strategy does not exist.
	ErrNotFound = errors.New("strategy_not_found")
	// ErrCycleDetected is returned when the parent chain revisits a node
	// or exceeds maxDepth. The strategy table does not structurally forbid
	// cycles, so the walk must not trust the data.
	ErrCycleDetected = errors.New("strategy_cycle_detected")
)

const maxDepth = 64

// Ref is the slim strategy view carried through lineage walks.
type Ref struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CodeHash  string    `json:"code_hash"`
	ParentID  *int64    `json:"parent_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Source provides the two lookups a walk needs. GetStrategyRef reports an
// absent strategy as (nil, nil); errors are reserved for lookup failures.
type Source interface {
	GetStrategyRef(ctx context.Context, id int64) (*Ref, error)
	ListStrategyChildren(ctx context.Context, id int64) ([]Ref, error)
}

// Lineage is the resolved tree neighborhood of one strategy.
type Lineage struct {
	Ancestors []Ref `json:"ancestors"`
	Current   Ref   `json:"current"`
	Children  []Ref `json:"children"`
}

// Resolve walks the parent chain of id up to the root and collects direct
// children. Ancestors come back root-to-immediate-parent. A dangling
// parent pointer terminates the walk cleanly rather than failing the view.
func Resolve(ctx context.Context, src Source, id int64) (*Lineage, error) {
	cur, err := src.GetStrategyRef(ctx, id)
	if err != nil {
		return nil, err
	}
	if cur == nil {
		return nil, ErrNotFound
	}

	visited := map[int64]bool{id: true}
	ancestors := []Ref{}
	pid := cur.ParentID
	for depth := 0; pid != nil; depth++ {
		if depth >= maxDepth || visited[*pid] {
			return nil, ErrCycleDetected
		}
		visited[*pid] = true
		anc, err := src.GetStrategyRef(ctx, *pid)
		if err != nil {
			return nil, err
		}
		if anc == nil {
			break
		}
		ancestors = append([]Ref{*anc}, ancestors...)
		pid = anc.ParentID
	}

	children, err := src.ListStrategyChildren(ctx, id)
	if err != nil {
		return nil, err
	}
	return &Lineage{Ancestors: ancestors, Current: *cur, Children: children}, nil
}
