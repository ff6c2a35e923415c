package quota

import "errors"

// ErrLimitReached reports that the day's generation allowance is spent.
var ErrLimitReached = errors.New("daily generation limit reached")

// DayCount is one user's generation count for one day.
type DayCount struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email,omitempty"`
	GenerationDate string `json:"generation_date"`
	Count          int    `json:"count"`
}
