package store

import (
	"context"
	"errors"
	"testing"
)

func insertStrategy(t *testing.T, st *Store, ctx context.Context, name, hash string, parentID *int64) int64 {
	t.Helper()
	var id int64
	err := st.Pool.QueryRow(ctx, `
		INSERT INTO balatro_strategies (name, code_hash, model, params, summary, parent_id)
		VALUES ($1, $2, 'gpt-test', '{"aggression": 0.7}', 'test strategy', $3)
		RETURNING id`, name, hash, parentID).Scan(&id)
	if err != nil {
		t.Fatalf("insert strategy: %v", err)
	}
	return id
}

func TestGetStrategy(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	id := insertStrategy(t, st, ctx, "flush-hunter", "abc123", nil)
	got, err := st.GetStrategy(ctx, id)
	if err != nil {
		t.Fatalf("GetStrategy: %v", err)
	}
	if got.Name != "flush-hunter" || got.CodeHash != "abc123" || *got.Model != "gpt-test" {
		t.Errorf("strategy = %+v", got)
	}
	if len(got.Params) == 0 {
		t.Error("params JSON not round-tripped")
	}

	if _, err := st.GetStrategy(ctx, 424242); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestStrategyRefsAndChildren(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	root := insertStrategy(t, st, ctx, "gen-0", "h0", nil)
	childA := insertStrategy(t, st, ctx, "gen-1a", "h1a", &root)
	childB := insertStrategy(t, st, ctx, "gen-1b", "h1b", &root)

	ref, err := st.GetStrategyRef(ctx, childA)
	if err != nil {
		t.Fatalf("GetStrategyRef: %v", err)
	}
	if ref.Name != "gen-1a" || ref.ParentID == nil || *ref.ParentID != root {
		t.Errorf("ref = %+v", ref)
	}
	if _, err := st.GetStrategyRef(ctx, 424242); !errors.Is(err, ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}

	children, err := st.ListStrategyChildren(ctx, root)
	if err != nil {
		t.Fatalf("ListStrategyChildren: %v", err)
	}
	if len(children) != 2 || children[0].ID != childA || children[1].ID != childB {
		t.Errorf("children = %+v, want [%d %d] oldest first", children, childA, childB)
	}
	leafChildren, err := st.ListStrategyChildren(ctx, childB)
	if err != nil || len(leafChildren) != 0 {
		t.Errorf("leaf children = (%+v, %v)", leafChildren, err)
	}
}

func TestListStrategiesAggregates(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	used := insertStrategy(t, st, ctx, "used", "h1", nil)
	insertStrategy(t, st, ctx, "unused", "h2", nil)

	mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: 8, Won: true, StrategyID: &used})
	mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: 4, StrategyID: &used})

	items, err := st.ListStrategies(ctx)
	if err != nil {
		t.Fatalf("ListStrategies: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d strategies", len(items))
	}
	byName := map[string]StrategyListItem{}
	for _, it := range items {
		byName[it.Name] = it
	}
	u := byName["used"]
	if u.RunCount != 2 || u.Wins != 1 {
		t.Errorf("used aggregates = %+v", u)
	}
	if u.AvgAnte == nil || *u.AvgAnte != 6 {
		t.Errorf("avg ante = %v, want 6", u.AvgAnte)
	}
	n := byName["unused"]
	if n.RunCount != 0 || n.Wins != 0 || n.AvgAnte != nil {
		t.Errorf("unused aggregates = %+v", n)
	}

	runs, err := st.ListRunsByStrategy(ctx, used)
	if err != nil {
		t.Fatalf("ListRunsByStrategy: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs for strategy", len(runs))
	}
	if runs[0].StrategyName == nil || *runs[0].StrategyName != "used" {
		t.Errorf("strategy name not joined: %+v", runs[0])
	}
}
