package store

import (
	"context"

	"github.com/jackc/pgx/v5"
)

const screenshotColumns = `id, run_id, round_id, filename, original_name, caption, event_type,
	file_size, width, height, estimated_score, actual_score, score_error, created_at`

type CreateScreenshotParams struct {
	RunID          int64
	RoundID        *int64
	Filename       string
	OriginalName   *string
	Caption        *string
	EventType      *string
	FileSize       *int64
	Width          *int
	Height         *int
	EstimatedScore *int64
	ActualScore    *int64
	ScoreError     *float64
}

func (s *Store) InsertScreenshot(ctx context.Context, p CreateScreenshotParams) (*Screenshot, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO balatro_screenshots (run_id, round_id, filename, original_name, caption,
			event_type, file_size, width, height, estimated_score, actual_score, score_error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING `+screenshotColumns,
		p.RunID, p.RoundID, p.Filename, p.OriginalName, p.Caption,
		p.EventType, p.FileSize, p.Width, p.Height, p.EstimatedScore, p.ActualScore, p.ScoreError,
	)
	return scanScreenshot(row)
}

func (s *Store) GetScreenshot(ctx context.Context, id int64) (*Screenshot, error) {
	row := s.Pool.QueryRow(ctx,
		`SELECT `+screenshotColumns+` FROM balatro_screenshots WHERE id = $1`, id)
	return scanScreenshot(row)
}

func (s *Store) DeleteScreenshot(ctx context.Context, id int64) error {
	ct, err := s.Pool.Exec(ctx, `DELETE FROM balatro_screenshots WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListScreenshots returns a run's screenshots in creation order, the
// canonical timeline order the segmenter consumes.
func (s *Store) ListScreenshots(ctx context.Context, runID int64) ([]Screenshot, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT `+screenshotColumns+` FROM balatro_screenshots WHERE run_id = $1 ORDER BY created_at, id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Screenshot{}
	for rows.Next() {
		var sc Screenshot
		if err := rows.Scan(&sc.ID, &sc.RunID, &sc.RoundID, &sc.Filename, &sc.OriginalName, &sc.Caption,
			&sc.EventType, &sc.FileSize, &sc.Width, &sc.Height,
			&sc.EstimatedScore, &sc.ActualScore, &sc.ScoreError, &sc.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) ListScreenshotFilenames(ctx context.Context, runID int64) ([]string, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT filename FROM balatro_screenshots WHERE run_id = $1`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []string{}
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ListRunScoreStats rolls up estimate accuracy per run over screenshots
// carrying both scores, for the listing view's error column.
func (s *Store) ListRunScoreStats(ctx context.Context) (map[int64]RunScoreStats, error) {
	rows, err := s.Pool.Query(ctx, `
		SELECT run_id, COUNT(*), AVG(ABS(score_error)), MAX(ABS(score_error))
		FROM balatro_screenshots
		WHERE estimated_score IS NOT NULL AND actual_score IS NOT NULL AND score_error IS NOT NULL
		GROUP BY run_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int64]RunScoreStats{}
	for rows.Next() {
		var st RunScoreStats
		if err := rows.Scan(&st.RunID, &st.Count, &st.AvgAbsErr, &st.MaxAbsErr); err != nil {
			return nil, err
		}
		out[st.RunID] = st
	}
	return out, rows.Err()
}

func scanScreenshot(row pgx.Row) (*Screenshot, error) {
	var sc Screenshot
	err := row.Scan(&sc.ID, &sc.RunID, &sc.RoundID, &sc.Filename, &sc.OriginalName, &sc.Caption,
		&sc.EventType, &sc.FileSize, &sc.Width, &sc.Height,
		&sc.EstimatedScore, &sc.ActualScore, &sc.ScoreError, &sc.CreatedAt)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &sc, nil
}
