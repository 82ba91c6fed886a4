package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const jokerColumns = `id, run_id, name, position, edition, eternal, perishable, rental, created_at`

type CreateJokerParams struct {
	Name       string  `json:"name"`
	Position   int     `json:"position"`
	Edition    *string `json:"edition"`
	Eternal    bool    `json:"eternal"`
	Perishable bool    `json:"perishable"`
	Rental     bool    `json:"rental"`
}

// InsertJokers inserts one or more jokers and refreshes the run's
// joker_count counter in the same transaction.
func (s *Store) InsertJokers(ctx context.Context, runID int64, params []CreateJokerParams) ([]Joker, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]Joker, 0, len(params))
	for _, p := range params {
		row := tx.QueryRow(ctx, `
			INSERT INTO balatro_jokers (run_id, name, position, edition, eternal, perishable, rental)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+jokerColumns,
			runID, p.Name, p.Position, p.Edition, p.Eternal, p.Perishable, p.Rental,
		)
		var j Joker
		if err := row.Scan(&j.ID, &j.RunID, &j.Name, &j.Position, &j.Edition,
			&j.Eternal, &j.Perishable, &j.Rental, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	if _, err := tx.Exec(ctx, `
		UPDATE balatro_runs
		SET joker_count = (SELECT COUNT(*) FROM balatro_jokers WHERE run_id = $1)
		WHERE id = $1`, runID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ListJokers(ctx context.Context, runID int64) ([]Joker, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+jokerColumns+` FROM balatro_jokers WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Joker{}
	for rows.Next() {
		var j Joker
		if err := rows.Scan(&j.ID, &j.RunID, &j.Name, &j.Position, &j.Edition,
			&j.Eternal, &j.Perishable, &j.Rental, &j.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}
