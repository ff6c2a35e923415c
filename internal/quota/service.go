package quota

import (
	"context"
	"log"
	"time"
)

// Service applies the per-day generation allowance. Days roll over at
// midnight in the configured timezone, not UTC.
type Service struct {
	Store    Store
	Location *time.Location

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewService(store Store, timezone string) *Service {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		log.Printf("quota: unknown timezone %q, falling back to UTC: %v", timezone, err)
		loc = time.UTC
	}
	return &Service{Store: store, Location: loc, Now: time.Now}
}

// Today returns the current quota day as YYYY-MM-DD.
func (s *Service) Today() string {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	return now().In(s.Location).Format("2006-01-02")
}

// Consume charges one generation against the user's daily limit.
func (s *Service) Consume(ctx context.Context, userID string, limit int) (int, error) {
	return s.Store.Consume(ctx, userID, s.Today(), limit)
}

// Used reports how many generations the user has consumed today.
func (s *Service) Used(ctx context.Context, userID string) (int, error) {
	return s.Store.Count(ctx, userID, s.Today())
}

// ListRecent returns recent per-user day counts, newest day first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]DayCount, error) {
	return s.Store.ListRecent(ctx, limit)
}
