package quota

import (
	"context"
	"database/sql"
	"errors"
)

type PGStore struct {
	DB *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

// Consume performs the check-and-increment as a single conditional
// upsert. When the counter is at the limit the WHERE clause suppresses
// the update, no row comes back, and nothing is charged.
func (s *PGStore) Consume(ctx context.Context, userID, day string, limit int) (int, error) {
	if limit <= 0 {
		return 0, ErrLimitReached
	}
	const query = `
INSERT INTO resume_generations (user_id, generation_date, count)
VALUES ($1, $2, 1)
ON CONFLICT (user_id, generation_date) DO UPDATE
SET count = resume_generations.count + 1
WHERE resume_generations.count < $3
RETURNING count`
	var count int
	err := s.DB.QueryRowContext(ctx, query, userID, day, limit).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrLimitReached
		}
		return 0, err
	}
	return count, nil
}

func (s *PGStore) Count(ctx context.Context, userID, day string) (int, error) {
	const query = `
SELECT count FROM resume_generations
WHERE user_id = $1 AND generation_date = $2`
	var count int
	err := s.DB.QueryRowContext(ctx, query, userID, day).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, err
	}
	return count, nil
}

func (s *PGStore) ListRecent(ctx context.Context, limit int) ([]DayCount, error) {
	const query = `
SELECT g.user_id, u.email, g.generation_date, g.count
FROM resume_generations g
JOIN users u ON u.id = g.user_id
ORDER BY g.generation_date DESC, u.email
LIMIT $1`
	rows, err := s.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []DayCount
	for rows.Next() {
		var dc DayCount
		if err := rows.Scan(&dc.UserID, &dc.Email, &dc.GenerationDate, &dc.Count); err != nil {
			return nil, err
		}
		out = append(out, dc)
	}
	return out, rows.Err()
}
