package education

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("education entry not found")

type Repo interface {
	Create(ctx context.Context, entry Entry) (Entry, error)
	// Update and Delete are scoped by owner; a mismatched id reports ErrNotFound.
	Update(ctx context.Context, userID, entryID string, entry Entry) error
	Delete(ctx context.Context, userID, entryID string) error
	ListByUser(ctx context.Context, userID string) ([]Entry, error)
}
