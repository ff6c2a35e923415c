package model

import (
	"errors"
	"strings"
)

// Record is the canonical tailored-resume payload: what the generator
// produces, what download requests carry, and what the renderer fills
// into the DOCX template.
type Record struct {
	Name           string          `json:"name"`
	Contact        Contact         `json:"contact"`
	Summary        string          `json:"summary"`
	Experience     []Experience    `json:"experience"`
	Skills         []SkillSection  `json:"skills"`
	Education      []Education     `json:"education"`
	Certifications []Certification `json:"certifications"`
}

// Validate enforces the minimum the renderer needs.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required")
	}
	return nil
}

// Contact carries the owner's contact details. These always come from
// the stored profile, never from generated output.
type Contact struct {
	Email       string `json:"email"`
	PhoneNumber string `json:"phonenumber"`
	LinkedinURL string `json:"linkedinURL"`
	Location    string `json:"location"`
	Github      string `json:"github"`
}

// Line formats the single contact line shown under the name, skipping
// empty fields.
func (c Contact) Line() string {
	parts := make([]string, 0, 4)
	for _, v := range []string{c.Email, c.PhoneNumber, c.LinkedinURL, c.Github} {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " | ")
}

// Experience is one role with its achievement bullets.
type Experience struct {
	Company  string   `json:"company"`
	Dates    string   `json:"dates"`
	Location string   `json:"location"`
	Position string   `json:"position"`
	Bullets  []string `json:"bullets"`
}

// SkillSection groups related skills under a category heading.
type SkillSection struct {
	Section string   `json:"section"`
	List    []string `json:"list"`
}

// Education is one school entry.
type Education struct {
	School   string `json:"school"`
	Location string `json:"location"`
	Dates    string `json:"dates"`
	Program  string `json:"program"`
}

// Certification is one certification entry.
type Certification struct {
	Name   string `json:"name"`
	Issued string `json:"issued"`
}
