package users

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

type PGRepo struct {
	DB *sql.DB
}

const userColumns = `id, email, password_hash, full_name, phone, personal_email, linkedin_url,
github_url, location, openai_model, max_tokens, daily_generation_limit, created_at, updated_at`

func (r *PGRepo) Create(ctx context.Context, user User) (User, error) {
	const query = `
INSERT INTO users (email, password_hash, full_name, phone, personal_email, linkedin_url,
github_url, openai_model, max_tokens, daily_generation_limit)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + userColumns
	row := r.DB.QueryRowContext(ctx, query,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Phone,
		user.PersonalEmail,
		user.LinkedinURL,
		user.GithubURL,
		user.OpenAIModel,
		user.MaxTokens,
		user.DailyGenerationLimit,
	)
	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return created, nil
}

func (r *PGRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PGRepo) GetByID(ctx context.Context, userID string) (User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PGRepo) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	const query = `
UPDATE users SET
  full_name = $2,
  phone = $3,
  personal_email = $4,
  linkedin_url = $5,
  github_url = $6,
  location = $7,
  openai_model = $8,
  max_tokens = $9,
  updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query,
		userID,
		update.FullName,
		update.Phone,
		update.PersonalEmail,
		update.LinkedinURL,
		update.GithubURL,
		update.Location,
		update.OpenAIModel,
		update.MaxTokens,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) SetResetToken(ctx context.Context, email, token string, expires time.Time) (bool, error) {
	const query = `
UPDATE users SET reset_token = $2, reset_token_expires = $3, updated_at = now()
WHERE lower(email) = lower($1)`
	res, err := r.DB.ExecContext(ctx, query, email, token, expires)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *PGRepo) GetByResetToken(ctx context.Context, token string) (User, error) {
	const query = `SELECT ` + userColumns + `
FROM users
WHERE reset_token = $1 AND reset_token_expires > now()
LIMIT 1`
	user, err := scanUser(r.DB.QueryRowContext(ctx, query, token))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

func (r *PGRepo) ResetPassword(ctx context.Context, userID, passwordHash string) error {
	const query = `
UPDATE users SET password_hash = $2, reset_token = NULL, reset_token_expires = NULL, updated_at = now()
WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, userID, passwordHash)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListAll(ctx context.Context) ([]AdminUser, error) {
	const query = `
SELECT ` + userColumns + `,
  COALESCE(g.total, 0) AS total_generations,
  COALESCE(g.last_date, '') AS last_generation_date
FROM users
LEFT JOIN (
  SELECT user_id, SUM(count) AS total, MAX(generation_date) AS last_date
  FROM resume_generations
  GROUP BY user_id
) g ON g.user_id = users.id
ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AdminUser
	for rows.Next() {
		var u AdminUser
		if err := scanUserFields(rows,
			&u.TotalGenerations,
			&u.LastGenerationDate,
		)(&u.User); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (User, error) {
	var user User
	if err := scanUserFields(row)(&user); err != nil {
		return User{}, err
	}
	return user, nil
}

// scanUserFields scans the shared user columns plus any trailing extras.
func scanUserFields(row rowScanner, extra ...any) func(*User) error {
	return func(user *User) error {
		var (
			fullName      sql.NullString
			phone         sql.NullString
			personalEmail sql.NullString
			linkedinURL   sql.NullString
			githubURL     sql.NullString
			location      sql.NullString
			updatedAt     sql.NullTime
		)
		dest := []any{
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&fullName,
			&phone,
			&personalEmail,
			&linkedinURL,
			&githubURL,
			&location,
			&user.OpenAIModel,
			&user.MaxTokens,
			&user.DailyGenerationLimit,
			&user.CreatedAt,
			&updatedAt,
		}
		dest = append(dest, extra...)
		if err := row.Scan(dest...); err != nil {
			return err
		}
		if fullName.Valid {
			user.FullName = fullName.String
		}
		if phone.Valid {
			user.Phone = phone.String
		}
		if personalEmail.Valid {
			user.PersonalEmail = personalEmail.String
		}
		if linkedinURL.Valid {
			user.LinkedinURL = linkedinURL.String
		}
		if githubURL.Valid {
			user.GithubURL = githubURL.String
		}
		if location.Valid {
			user.Location = location.String
		}
		if updatedAt.Valid {
			user.UpdatedAt = updatedAt.Time
		} else {
			user.UpdatedAt = time.Now().UTC()
		}
		return nil
	}
}
