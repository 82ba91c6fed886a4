package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCreateAndGetRun(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	played := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	run := mustCreateRun(t, st, ctx, CreateRunParams{
		Seed:       strPtr("ALEEB7"),
		Deck:       "Red Deck",
		Stake:      "Gold",
		FinalAnte:  8,
		FinalScore: int64Ptr(123456),
		Won:        true,
		Notes:      strPtr("smooth run"),
		PlayedAt:   &played,
	})

	if run.ID == 0 {
		t.Fatal("run id not assigned")
	}
	if !strings.HasPrefix(run.RunCode, "R") || len(run.RunCode) != 9 {
		t.Errorf("run code %q not in expected shape", run.RunCode)
	}
	if run.Status != RunStatusRunning {
		t.Errorf("status = %q, want %q", run.Status, RunStatusRunning)
	}

	got, err := st.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Deck != "Red Deck" || got.Stake != "Gold" || !got.Won || *got.Seed != "ALEEB7" {
		t.Errorf("round-tripped run = %+v", got)
	}
	if !got.PlayedAt.Equal(played) {
		t.Errorf("played_at = %v, want %v", got.PlayedAt, played)
	}

	id, err := st.GetRunIDByCode(ctx, run.RunCode)
	if err != nil || id != run.ID {
		t.Errorf("GetRunIDByCode = (%d, %v), want %d", id, err, run.ID)
	}
	if _, err := st.GetRunIDByCode(ctx, "R00000000"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown code: got %v, want ErrNotFound", err)
	}
}

func TestGetRunNotFound(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	if _, err := st.GetRun(ctx, 424242); !errors.Is(err, ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestListRunsFilterAndPaginate(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: i + 1, Won: i%2 == 0})
	}
	for i := 0; i < 3; i++ {
		mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Plasma Deck", Stake: "Gold", FinalAnte: 8, Won: true})
	}

	q := DefaultRunQuery()
	items, total, err := st.ListRuns(ctx, q)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if total != 8 || len(items) != 8 {
		t.Errorf("unfiltered: total %d, page len %d, want 8/8", total, len(items))
	}

	q.Filter.Deck = "Plasma Deck"
	items, total, err = st.ListRuns(ctx, q)
	if err != nil {
		t.Fatalf("ListRuns deck filter: %v", err)
	}
	if total != 3 || len(items) != 3 {
		t.Errorf("deck filter: total %d, page len %d, want 3/3", total, len(items))
	}

	q = DefaultRunQuery()
	q.Filter.Won = boolPtr(false)
	_, total, err = st.ListRuns(ctx, q)
	if err != nil {
		t.Fatalf("ListRuns won filter: %v", err)
	}
	if total != 2 {
		t.Errorf("won=false total = %d, want 2", total)
	}

	q = DefaultRunQuery()
	q.PerPage = 3
	q.Page = 3
	items, total, err = st.ListRuns(ctx, q)
	if err != nil {
		t.Fatalf("ListRuns page 3: %v", err)
	}
	if total != 8 || len(items) != 2 {
		t.Errorf("page 3 of 3-per-page: total %d, page len %d, want 8/2", total, len(items))
	}
	if q.Pages(total) != 3 {
		t.Errorf("Pages(%d) = %d, want 3", total, q.Pages(total))
	}
}

func TestListRunsSortByAnte(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	for _, ante := range []int{3, 8, 1} {
		mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: ante})
	}
	q := DefaultRunQuery()
	q.Sort = SortFinalAnte
	q.Order = OrderAsc
	items, _, err := st.ListRuns(ctx, q)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	antes := []int{}
	for _, it := range items {
		antes = append(antes, it.FinalAnte)
	}
	if antes[0] != 1 || antes[1] != 3 || antes[2] != 8 {
		t.Errorf("ascending ante order = %v", antes)
	}
}

func TestPatchRun(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	run := mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: 1})

	patched, err := st.PatchRun(ctx, run.ID, RunPatch{
		FinalAnte:     intPtr(8),
		Won:           boolPtr(true),
		Status:        strPtr(RunStatusFinished),
		RuleDecisions: intPtr(70),
		LLMDecisions:  intPtr(30),
		LLMCostUSD:    float64Ptr(0.42),
	})
	if err != nil {
		t.Fatalf("PatchRun: %v", err)
	}
	if patched.FinalAnte != 8 || !patched.Won || patched.Status != RunStatusFinished {
		t.Errorf("patched run = %+v", patched)
	}
	if patched.RuleDecisions != 70 || patched.LLMDecisions != 30 || *patched.LLMCostUSD != 0.42 {
		t.Errorf("patched counters = %+v", patched)
	}
	// Untouched fields survive.
	if patched.Deck != "Red Deck" || patched.Stake != "White" {
		t.Errorf("unpatched fields changed: %+v", patched)
	}

	if _, err := st.PatchRun(ctx, run.ID, RunPatch{}); err == nil {
		t.Error("empty patch should error")
	}
	if _, err := st.PatchRun(ctx, 424242, RunPatch{Won: boolPtr(true)}); !errors.Is(err, ErrNotFound) {
		t.Errorf("patch of missing run: got %v, want ErrNotFound", err)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	run := mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: 2})
	if _, err := st.InsertRounds(ctx, run.ID, []CreateRoundParams{{Ante: 1, BlindType: "small"}}); err != nil {
		t.Fatalf("InsertRounds: %v", err)
	}
	if _, err := st.InsertTag(ctx, run.ID, 1, "Economy"); err != nil {
		t.Fatalf("InsertTag: %v", err)
	}

	if err := st.DeleteRun(ctx, run.ID); err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if _, err := st.GetRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("run survived delete: %v", err)
	}
	rounds, err := st.ListRounds(ctx, run.ID)
	if err != nil || len(rounds) != 0 {
		t.Errorf("child rounds survived delete: %d, %v", len(rounds), err)
	}

	if err := st.DeleteRun(ctx, run.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete: got %v, want ErrNotFound", err)
	}
}

func TestGetStats(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	stats, err := st.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats empty: %v", err)
	}
	if stats.TotalRuns != 0 || stats.HighestAnte != nil {
		t.Errorf("empty stats = %+v", stats)
	}

	mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: 8, FinalScore: int64Ptr(9000), Won: true})
	mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Plasma Deck", Stake: "White", FinalAnte: 3, FinalScore: int64Ptr(500)})

	stats, err = st.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.TotalRuns != 2 || stats.Wins != 1 || stats.Losses != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if *stats.HighestAnte != 8 || *stats.HighestScore != 9000 {
		t.Errorf("stats maxima = %+v", stats)
	}
	if stats.DecksUsed != 2 || stats.StakesPlayed != 1 {
		t.Errorf("stats distinct counts = %+v", stats)
	}
}

func TestListSeedSummaries(t *testing.T) {
	st, ctx, cleanup := openStore(t)
	defer cleanup()

	mustCreateRun(t, st, ctx, CreateRunParams{Seed: strPtr("AAAA"), Deck: "Red Deck", Stake: "White", FinalAnte: 4, Won: true})
	mustCreateRun(t, st, ctx, CreateRunParams{Seed: strPtr("AAAA"), Deck: "Red Deck", Stake: "White", FinalAnte: 8})
	mustCreateRun(t, st, ctx, CreateRunParams{Seed: strPtr("BBBB"), Deck: "Red Deck", Stake: "White", FinalAnte: 1})
	mustCreateRun(t, st, ctx, CreateRunParams{Deck: "Red Deck", Stake: "White", FinalAnte: 1})

	summaries, err := st.ListSeedSummaries(ctx)
	if err != nil {
		t.Fatalf("ListSeedSummaries: %v", err)
	}
	if len(summaries) != 2 {
		t.Fatalf("got %d seeds, want 2 (seedless runs excluded)", len(summaries))
	}
	first := summaries[0]
	if first.Seed != "AAAA" || first.RunCount != 2 || first.Wins != 1 || first.BestAnte != 8 {
		t.Errorf("top seed = %+v", first)
	}

	bySeed, err := st.ListRunsBySeed(ctx, "AAAA")
	if err != nil {
		t.Fatalf("ListRunsBySeed: %v", err)
	}
	if len(bySeed) != 2 {
		t.Errorf("got %d runs for seed, want 2", len(bySeed))
	}
}
