package education

import (
	"context"
	"database/sql"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, entry Entry) (Entry, error) {
	const query = `
INSERT INTO education (user_id, school_name, location, degree, field_of_study, start_date, end_date, is_current, gpa, description)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query,
		entry.UserID,
		entry.SchoolName,
		entry.Location,
		entry.Degree,
		entry.FieldOfStudy,
		entry.StartDate,
		entry.EndDate,
		entry.IsCurrent,
		entry.GPA,
		entry.Description,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

func (r *PGRepo) Update(ctx context.Context, userID, entryID string, entry Entry) error {
	const query = `
UPDATE education SET
  school_name = $3,
  location = $4,
  degree = $5,
  field_of_study = $6,
  start_date = $7,
  end_date = $8,
  is_current = $9,
  gpa = $10,
  description = $11
WHERE id = $2 AND user_id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		userID,
		entryID,
		entry.SchoolName,
		entry.Location,
		entry.Degree,
		entry.FieldOfStudy,
		entry.StartDate,
		entry.EndDate,
		entry.IsCurrent,
		entry.GPA,
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
	const query = `DELETE FROM education WHERE id = $2 AND user_id = $1`
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
SELECT id, user_id, school_name, location, degree, field_of_study, start_date, end_date, is_current, gpa, description, created_at
FROM education
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
			entry        Entry
			location     sql.NullString
			degree       sql.NullString
			fieldOfStudy sql.NullString
			startDate    sql.NullString
			endDate      sql.NullString
			gpa          sql.NullString
			description  sql.NullString
		)
		if err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.SchoolName,
			&location,
			&degree,
			&fieldOfStudy,
			&startDate,
			&endDate,
			&entry.IsCurrent,
			&gpa,
			&description,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.Location = location.String
		entry.Degree = degree.String
		entry.FieldOfStudy = fieldOfStudy.String
		entry.StartDate = startDate.String
		entry.EndDate = endDate.String
		entry.GPA = gpa.String
		entry.Description = description.String
		out = append(out, entry)
	}
	return out, rows.Err()
}
