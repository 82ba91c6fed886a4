package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const roundColumns = `id, run_id, ante, blind_type, boss_name, target_score, best_hand_score,
	hands_played, discards_used, skipped, money_after, created_at`

type CreateRoundParams struct {
	Ante          int     `json:"ante"`
	BlindType     string  `json:"blind_type"`
	BossName      *string `json:"boss_name"`
	TargetScore   *int64  `json:"target_score"`
	BestHandScore *int64  `json:"best_hand_score"`
	HandsPlayed   *int    `json:"hands_played"`
	DiscardsUsed  *int    `json:"discards_used"`
	Skipped       bool    `json:"skipped"`
	MoneyAfter    *int    `json:"money_after"`
}

// InsertRounds inserts one or more rounds and recomputes the run's derived
// final_score inside the same transaction, so readers never observe a
// round without the updated aggregate.
func (s *Store) InsertRounds(ctx context.Context, runID int64, params []CreateRoundParams) ([]Round, error) {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	out := make([]Round, 0, len(params))
	for _, p := range params {
		row := tx.QueryRow(ctx, `
			INSERT INTO balatro_rounds (run_id, ante, blind_type, boss_name, target_score,
				best_hand_score, hands_played, discards_used, skipped, money_after)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+roundColumns,
			runID, p.Ante, p.BlindType, p.BossName, p.TargetScore,
			p.BestHandScore, p.HandsPlayed, p.DiscardsUsed, p.Skipped, p.MoneyAfter,
		)
		var r Round
		if err := row.Scan(&r.ID, &r.RunID, &r.Ante, &r.BlindType, &r.BossName, &r.TargetScore,
			&r.BestHandScore, &r.HandsPlayed, &r.DiscardsUsed, &r.Skipped, &r.MoneyAfter, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := syncFinalScore(ctx, tx, runID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

// syncFinalScore sets the run's final_score to the max best_hand_score
// across all of its rounds. Always called within the round-insert
// transaction.
func syncFinalScore(ctx context.Context, tx pgx.Tx, runID int64) error {
	_, err := tx.Exec(ctx, `
		UPDATE balatro_runs
		SET final_score = (SELECT MAX(best_hand_score) FROM balatro_rounds WHERE run_id = $1)
		WHERE id = $1`, runID)
	return err
}

func (s *Store) ListRounds(ctx context.Context, runID int64) ([]Round, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+roundColumns+` FROM balatro_rounds WHERE run_id = $1 ORDER BY ante, blind_type`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Round{}
	for rows.Next() {
		var r Round
		if err := rows.Scan(&r.ID, &r.RunID, &r.Ante, &r.BlindType, &r.BossName, &r.TargetScore,
			&r.BestHandScore, &r.HandsPlayed, &r.DiscardsUsed, &r.Skipped, &r.MoneyAfter, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
