package users

import "time"

// User is an account row. PasswordHash and reset fields never serialize.
type User struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	FullName             string    `json:"full_name"`
	Phone                string    `json:"phone"`
	PersonalEmail        string    `json:"personal_email"`
	LinkedinURL          string    `json:"linkedin_url"`
	GithubURL            string    `json:"github_url"`
	Location             string    `json:"location"`
	OpenAIModel          string    `json:"openai_model"`
	MaxTokens            int       `json:"max_tokens"`
	DailyGenerationLimit int       `json:"daily_generation_limit"`
	ResetToken           string    `json:"-"`
	ResetTokenExpires    time.Time `json:"-"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// ProfileUpdate overwrites the editable profile fields.
type ProfileUpdate struct {
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	PersonalEmail string `json:"personal_email"`
	LinkedinURL   string `json:"linkedin_url"`
	GithubURL     string `json:"github_url"`
	Location      string `json:"location"`
	OpenAIModel   string `json:"openai_model"`
	MaxTokens     int    `json:"max_tokens"`
}

// AdminUser is a user row joined with its generation totals.
type AdminUser struct {
	User
	TotalGenerations   int    `json:"total_generations"`
	LastGenerationDate string `json:"last_generation_date,omitempty"`
}
