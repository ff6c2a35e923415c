package employment

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, entry Entry) (Entry, error) {
	const query = `
INSERT INTO employment_history (user_id, company_name, location, position, start_date, end_date, is_current, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		entry.UserID,
		entry.CompanyName,
		entry.Location,
		entry.Position,
		entry.StartDate,
		entry.EndDate,
		entry.IsCurrent,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (r *PGRepo) Update(ctx context.Context, userID, entryID string, entry Entry) error {
	const query = `
UPDATE employment_history SET
  company_name = $3,
  location = $4,
  position = $5,
  start_date = $6,
  end_date = $7,
  is_current = $8,
  description = $9
WHERE id = $2 AND user_id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		userID,
		entryID,
		entry.CompanyName,
		entry.Location,
		entry.Position,
		entry.StartDate,
		entry.EndDate,
		entry.IsCurrent,
		entry.Description,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) Delete(ctx context.Context, userID, entryID string) error {
	const query = `DELETE FROM employment_history WHERE id = $2 AND user_id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, entryID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Entry, error) {
	const query = `
SELECT id, user_id, company_name, location, position, start_date, end_date, is_current, description, created_at
FROM employment_history
WHERE user_id = $1
ORDER BY start_date DESC, created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			entry       Entry
			location    sql.NullString
			startDate   sql.NullString
			endDate     sql.NullString
			description sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.CompanyName,
			&location,
			&entry.Position,
			&startDate,
			&endDate,
			&entry.IsCurrent,
			&description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Location = location.String
		entry.StartDate = startDate.String
		entry.EndDate = endDate.String
		entry.Description = description.String
		out = append(out, entry)
	}
	return out, rows.Err()
}
