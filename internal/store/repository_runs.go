package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
)

const runColumns = `r.id, r.run_code, r.seed, r.deck, r.stake, r.final_ante, r.final_score, r.won,
	r.endless_ante, r.notes, r.status, r.progress, r.hands_played, r.discards_used, r.purchases,
	r.joker_count, r.rule_decisions, r.llm_decisions, r.duration_seconds, r.llm_cost_usd,
	r.llm_model, r.strategy_id, r.played_at, r.created_at`

const runColumnsBare = `id, run_code, seed, deck, stake, final_ante, final_score, won,
	endless_ante, notes, status, progress, hands_played, discards_used, purchases,
	joker_count, rule_decisions, llm_decisions, duration_seconds, llm_cost_usd,
	llm_model, strategy_id, played_at, created_at`

func scanRun(row pgx.Row) (*Run, error) {
	var r Run
	err := row.Scan(
		&r.ID, &r.RunCode, &r.Seed, &r.Deck, &r.Stake, &r.FinalAnte, &r.FinalScore, &r.Won,
		&r.EndlessAnte, &r.Notes, &r.Status, &r.Progress, &r.HandsPlayed, &r.DiscardsUsed, &r.Purchases,
		&r.JokerCount, &r.RuleDecisions, &r.LLMDecisions, &r.DurationSeconds, &r.LLMCostUSD,
		&r.LLMModel, &r.StrategyID, &r.PlayedAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

type CreateRunParams struct {
	Seed        *string
	Deck        string
	Stake       string
	FinalAnte   int
	FinalScore  *int64
	Won         bool
	EndlessAnte *int
	Notes       *string
	LLMModel    *string
	StrategyID  *int64
	PlayedAt    *time.Time
}

func (s *Store) CreateRun(ctx context.Context, p CreateRunParams) (*Run, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO balatro_runs (run_code, seed, deck, stake, final_ante, final_score, won,
			endless_ante, notes, status, llm_model, strategy_id, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, COALESCE($13, now()))
		RETURNING `+runColumnsBare,
		NewRunCode(), p.Seed, p.Deck, p.Stake, p.FinalAnte, p.FinalScore, p.Won,
		p.EndlessAnte, p.Notes, RunStatusRunning, p.LLMModel, p.StrategyID, p.PlayedAt,
	)
	return scanRun(row)
}

func (s *Store) GetRun(ctx context.Context, id int64) (*Run, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+runColumns+` FROM balatro_runs r WHERE r.id = $1`, id)
	return scanRun(row)
}

func (s *Store) GetRunIDByCode(ctx context.Context, code string) (int64, error) {
	var id int64
	err := s.Pool.QueryRow(ctx, `SELECT id FROM balatro_runs WHERE run_code = $1`, code).Scan(&id)
	if err != nil {
		return 0, mapNotFound(err)
	}
	return id, nil
}

// ListRuns runs the composed listing query and returns the page plus the
// total row count under the same filter.
func (s *Store) ListRuns(ctx context.Context, q RunQuery) ([]RunListItem, int, error) {
	where, args := q.whereClause()

	var total int
	if err := s.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM balatro_runs r `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArgs := append(args, q.PerPage, q.Offset())
	sql := fmt.Sprintf(`
		SELECT %s, st.name,
			(SELECT COUNT(*) FROM balatro_screenshots sc WHERE sc.run_id = r.id)
		FROM balatro_runs r
		LEFT JOIN balatro_strategies st ON r.strategy_id = st.id
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		runColumns, where, q.orderClause(), len(args)+1, len(args)+2)

	rows, err := s.Pool.Query(ctx, sql, limitArgs...)
	if err != nil {
		return nil, 0, err
	}
	out, err := collectRunListItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// RunPatch is the closed set of patchable run fields. Nil means the field
// is left untouched. Column names are fixed here, never taken from the
// request.
type RunPatch struct {
	Seed            *string    `json:"seed"`
	Deck            *string    `json:"deck"`
	Stake           *string    `json:"stake"`
	FinalAnte       *int       `json:"final_ante"`
	FinalScore      *int64     `json:"final_score"`
	Won             *bool      `json:"won"`
	EndlessAnte     *int       `json:"endless_ante"`
	Notes           *string    `json:"notes"`
	Status          *string    `json:"status"`
	Progress        *string    `json:"progress"`
	HandsPlayed     *int       `json:"hands_played"`
	DiscardsUsed    *int       `json:"discards_used"`
	Purchases       *int       `json:"purchases"`
	RuleDecisions   *int       `json:"rule_decisions"`
	LLMDecisions    *int       `json:"llm_decisions"`
	DurationSeconds *int       `json:"duration_seconds"`
	LLMCostUSD      *float64   `json:"llm_cost_usd"`
	PlayedAt        *time.Time `json:"played_at"`
}

func (p RunPatch) fields() []patchField {
	return []patchField{
		{"seed", p.Seed},
		{"deck", p.Deck},
		{"stake", p.Stake},
		{"final_ante", p.FinalAnte},
		{"final_score", p.FinalScore},
		{"won", p.Won},
		{"endless_ante", p.EndlessAnte},
		{"notes", p.Notes},
		{"status", p.Status},
		{"progress", p.Progress},
		{"hands_played", p.HandsPlayed},
		{"discards_used", p.DiscardsUsed},
		{"purchases", p.Purchases},
		{"rule_decisions", p.RuleDecisions},
		{"llm_decisions", p.LLMDecisions},
		{"duration_seconds", p.DurationSeconds},
		{"llm_cost_usd", p.LLMCostUSD},
		{"played_at", p.PlayedAt},
	}
}

type patchField struct {
	column string
	value  any
}

func (p RunPatch) Empty() bool {
	for _, f := range p.fields() {
		if !isNilPtr(f.value) {
			return false
		}
	}
	return true
}

func isNilPtr(v any) bool {
	switch t := v.(type) {
	case *string:
		return t == nil
	case *int:
		return t == nil
	case *int64:
		return t == nil
	case *bool:
		return t == nil
	case *float64:
		return t == nil
	case *time.Time:
		return t == nil
	default:
		return v == nil
	}
}

func (s *Store) PatchRun(ctx context.Context, id int64, p RunPatch) (*Run, error) {
	sets := ""
	args := []any{}
	for _, f := range p.fields() {
		if isNilPtr(f.value) {
			continue
		}
		args = append(args, f.value)
		if sets != "" {
			sets += ", "
		}
		sets += fmt.Sprintf("%s = $%d", f.column, len(args))
	}
	if sets == "" {
		return nil, fmt.Errorf("empty patch")
	}
	args = append(args, id)
	row := s.Pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE balatro_runs r SET %s WHERE r.id = $%d RETURNING %s`, sets, len(args), runColumns),
		args...)
	return scanRun(row)
}

func (s *Store) DeleteRun(ctx context.Context, id int64) error {
	ct, err := s.Pool.Exec(ctx, `DELETE FROM balatro_runs WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) ListRunsByStrategy(ctx context.Context, strategyID int64) ([]RunListItem, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+runColumns+`, st.name,
			(SELECT COUNT(*) FROM balatro_screenshots sc WHERE sc.run_id = r.id)
		FROM balatro_runs r
		LEFT JOIN balatro_strategies st ON r.strategy_id = st.id
		WHERE r.strategy_id = $1
		ORDER BY r.played_at DESC NULLS LAST`, strategyID)
	if err != nil {
		return nil, err
	}
	return collectRunListItems(rows)
}

func (s *Store) ListRunsBySeed(ctx context.Context, seed string) ([]RunListItem, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT `+runColumns+`, st.name,
			(SELECT COUNT(*) FROM balatro_screenshots sc WHERE sc.run_id = r.id)
		FROM balatro_runs r
		LEFT JOIN balatro_strategies st ON r.strategy_id = st.id
		WHERE r.seed = $1
		ORDER BY r.played_at DESC NULLS LAST`, seed)
	if err != nil {
		return nil, err
	}
	return collectRunListItems(rows)
}

func collectRunListItems(rows pgx.Rows) ([]RunListItem, error) {
	defer rows.Close()
	out := []RunListItem{}
	for rows.Next() {
		var it RunListItem
		if err := rows.Scan(
			&it.ID, &it.RunCode, &it.Seed, &it.Deck, &it.Stake, &it.FinalAnte, &it.FinalScore, &it.Won,
			&it.EndlessAnte, &it.Notes, &it.Status, &it.Progress, &it.HandsPlayed, &it.DiscardsUsed, &it.Purchases,
			&it.JokerCount, &it.RuleDecisions, &it.LLMDecisions, &it.DurationSeconds, &it.LLMCostUSD,
			&it.LLMModel, &it.StrategyID, &it.PlayedAt, &it.CreatedAt,
			&it.StrategyName, &it.ScreenshotCount,
		); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (s *Store) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.Pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE won),
			COUNT(*) FILTER (WHERE NOT won),
			MAX(final_ante),
			MAX(final_score),
			COUNT(DISTINCT deck),
			COUNT(DISTINCT stake)
		FROM balatro_runs`).Scan(
		&st.TotalRuns, &st.Wins, &st.Losses, &st.HighestAnte, &st.HighestScore, &st.DecksUsed, &st.StakesPlayed)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func (s *Store) ListSeedSummaries(ctx context.Context) ([]SeedSummary, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT seed, COUNT(*),
			SUM(CASE WHEN won THEN 1 ELSE 0 END),
			MAX(final_ante),
			AVG(final_ante),
			COUNT(DISTINCT strategy_id),
			MIN(played_at)
		FROM balatro_runs
		WHERE seed IS NOT NULL AND seed != ''
		GROUP BY seed
		ORDER BY COUNT(*) DESC, MAX(final_ante) DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SeedSummary{}
	for rows.Next() {
		var ss SeedSummary
		if err := rows.Scan(&ss.Seed, &ss.RunCount, &ss.Wins, &ss.BestAnte, &ss.AvgAnte, &ss.StrategyCount, &ss.FirstPlayed); err != nil {
			return nil, err
		}
		out = append(out, ss)
	}
	return out, rows.Err()
}
