package store

import "context"

func (s *Store) InsertTag(ctx context.Context, runID int64, ante int, name string) (*Tag, error) {
	row := s.Pool.QueryRow(ctx, `
		INSERT INTO balatro_tags (run_id, ante, name)
		VALUES ($1, $2, $3)
		RETURNING id, run_id, ante, name, created_at`,
		runID, ante, name)
	var t Tag
	if err := row.Scan(&t.ID, &t.RunID, &t.Ante, &t.Name, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *Store) ListTags(ctx context.Context, runID int64) ([]Tag, error) {
	rows, err := s.Pool.Query(ctx,
		`SELECT id, run_id, ante, name, created_at FROM balatro_tags WHERE run_id = $1 ORDER BY ante`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Tag{}
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.RunID, &t.Ante, &t.Name, &t.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
