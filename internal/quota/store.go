package quota

import "context"

// Store tracks per-day generation counts. Consume must be atomic: the
// check against limit and the increment happen as one operation.
type Store interface {
	// Consume increments the counter for (userID, day) and returns the
	// new count, or ErrLimitReached without incrementing when the
	// counter already equals limit.
	Consume(ctx context.Context, userID, day string, limit int) (int, error)
	Count(ctx context.Context, userID, day string) (int, error)
	ListRecent(ctx context.Context, limit int) ([]DayCount, error)
}
