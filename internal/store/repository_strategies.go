package store

import (
	"context"
	"time"
)

const strategyColumns = `id, name, code_hash, model, params, source_code, summary, parent_id, created_at`

func (s *Store) GetStrategy(ctx context.Context, id int64) (*Strategy, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+strategyColumns+` FROM balatro_strategies WHERE id = $1`, id)
	var st Strategy
	err := row.Scan(&st.ID, &st.Name, &st.CodeHash, &st.Model, &st.Params,
		&st.SourceCode, &st.Summary, &st.ParentID, &st.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &st, nil
}

// StrategyRef is the slim row used by lineage walks.
type StrategyRef struct {
	ID        int64
	Name      string
	CodeHash  string
	ParentID  *int64
	CreatedAt time.Time
}

func (s *Store) GetStrategyRef(ctx context.Context, id int64) (*StrategyRef, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT id, name, code_hash, parent_id, created_at FROM balatro_strategies WHERE id = $1`, id)
	var r StrategyRef
	if err := row.Scan(&r.ID, &r.Name, &r.CodeHash, &r.ParentID, &r.CreatedAt); err != nil {
		return nil, mapNotFound(err)
	}
	return &r, nil
}

// ListStrategyChildren returns the direct children only, oldest first.
func (s *Store) ListStrategyChildren(ctx context.Context, id int64) ([]StrategyRef, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, name, code_hash, parent_id, created_at FROM balatro_strategies WHERE parent_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StrategyRef{}
	for rows.Next() {
		var r StrategyRef
		if err := rows.Scan(&r.ID, &r.Name, &r.CodeHash, &r.ParentID, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListStrategies returns every strategy with aggregates over its runs,
// newest first.
func (s *Store) ListStrategies(ctx context.Context) ([]StrategyListItem, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT s.id, s.name, s.code_hash, s.model, s.params, s.source_code, s.summary, s.parent_id, s.created_at,
			COUNT(r.id),
			SUM(CASE WHEN r.won THEN 1 ELSE 0 END),
			AVG(r.final_ante),
			AVG(r.llm_cost_usd),
			AVG(r.duration_seconds)
		FROM balatro_strategies s
		LEFT JOIN balatro_runs r ON r.strategy_id = s.id
		GROUP BY s.id
		ORDER BY s.created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []StrategyListItem{}
	for rows.Next() {
		var it StrategyListItem
		var wins *int
		if err := rows.Scan(&it.ID, &it.Name, &it.CodeHash, &it.Model, &it.Params,
			&it.SourceCode, &it.Summary, &it.ParentID, &it.CreatedAt,
			&it.RunCount, &wins, &it.AvgAnte, &it.AvgCostUSD, &it.AvgDurationSeconds); err != nil {
			return nil, err
		}
		if wins != nil {
			it.Wins = *wins
		}
		out = append(out, it)
	}
	return out, rows.Err()
}
