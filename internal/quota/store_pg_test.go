package quota

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreConsumeReturnsCount(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	mock.ExpectQuery("INSERT INTO resume_generations").
		WithArgs("user-1", "2026-08-28", 5).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := store.Consume(context.Background(), "user-1", "2026-08-28", 5)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreConsumeAtLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	// The guarded upsert returns no row when the counter is full.
	mock.ExpectQuery("INSERT INTO resume_generations").
		WithArgs("user-1", "2026-08-28", 5).
		WillReturnError(sql.ErrNoRows)

	_, err = store.Consume(context.Background(), "user-1", "2026-08-28", 5)
	if !errors.Is(err, ErrLimitReached) {
		t.Fatalf("err = %v, want ErrLimitReached", err)
	}
}

func TestPGStoreConsumeZeroLimit(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	if _, err := store.Consume(context.Background(), "user-1", "2026-08-28", 0); !errors.Is(err, ErrLimitReached) {
		t.Fatalf("err = %v, want ErrLimitReached without touching the database", err)
	}
}

func TestPGStoreCountMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	mock.ExpectQuery("SELECT count FROM resume_generations").
		WithArgs("user-1", "2026-08-28").
		WillReturnError(sql.ErrNoRows)

	count, err := store.Count(context.Background(), "user-1", "2026-08-28")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count = %d, want 0", count)
	}
}

func TestPGStoreListRecent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	rows := sqlmock.NewRows([]string{"user_id", "email", "generation_date", "count"}).
		AddRow("user-1", "ada@example.com", "2026-08-28", 4).
		AddRow("user-2", "grace@example.com", "2026-08-27", 1)
	mock.ExpectQuery("SELECT g.user_id, u.email, g.generation_date, g.count").
		WithArgs(50).
		WillReturnRows(rows)

	out, err := store.ListRecent(context.Background(), 50)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].Email != "ada@example.com" || out[0].Count != 4 {
		t.Fatalf("row = %+v", out[0])
	}
}
