package employment

import "time"

// Entry is one employment history row.
type Entry struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	CompanyName string    `json:"company_name"`
	Location    string    `json:"location"`
	Position    string    `json:"position"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	IsCurrent   bool      `json:"is_current"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}
