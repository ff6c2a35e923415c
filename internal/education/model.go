package education

import "time"

// Entry is one education row.
type Entry struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id"`
	SchoolName   string    `json:"school_name"`
	Location     string    `json:"location"`
	Degree       string    `json:"degree"`
	FieldOfStudy string    `json:"field_of_study"`
	StartDate    string    `json:"start_date"`
	EndDate      string    `json:"end_date"`
	IsCurrent    bool      `json:"is_current"`
	GPA          string    `json:"gpa"`
	Description  string    `json:"description"`
	CreatedAt    time.Time `json:"created_at"`
}
