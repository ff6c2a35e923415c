package generation

import (
	"strings"
	"testing"

	"resume-tailor/internal/education"
	"resume-tailor/internal/employment"
)

func TestFormatEmployment(t *testing.T) {
	jobs := []employment.Entry{
		{
			CompanyName: "Acme",
			Location:    "Remote",
			Position:    "Engineer",
			StartDate:   "01/2020",
			IsCurrent:   true,
			Description: "Core platform work.",
		},
		{
			CompanyName: "Initech",
			Location:    "Austin, TX",
			Position:    "Developer",
			StartDate:   "06/2016",
			EndDate:     "12/2019",
		},
	}

	got := FormatEmployment(jobs)
	if !strings.Contains(got, "o Acme, Remote") {
		t.Fatalf("missing company line:\n%s", got)
	}
	if !strings.Contains(got, "Engineer (01/2020–Present)") {
		t.Fatalf("current role should end with Present:\n%s", got)
	}
	if !strings.Contains(got, "Core platform work.") {
		t.Fatalf("missing description line:\n%s", got)
	}
	if !strings.Contains(got, "Developer (06/2016–12/2019)") {
		t.Fatalf("missing dated role line:\n%s", got)
	}
}

func TestFormatEmploymentEmpty(t *testing.T) {
	if got := FormatEmployment(nil); got != "" {
		t.Fatalf("got %q, want empty", got)
	}
}

func TestFormatEducation(t *testing.T) {
	schools := []education.Entry{
		{
			SchoolName:   "State University",
			Location:     "Austin, TX",
			Degree:       "BS",
			FieldOfStudy: "Computer Science",
			StartDate:    "2012",
			EndDate:      "2016",
			GPA:          "3.9",
		},
	}

	got := FormatEducation(schools)
	if !strings.Contains(got, "o State University, Austin, TX") {
		t.Fatalf("missing school line:\n%s", got)
	}
	if !strings.Contains(got, "BS in Computer Science (2012–2016)") {
		t.Fatalf("missing degree line:\n%s", got)
	}
	if !strings.Contains(got, "GPA: 3.9") {
		t.Fatalf("missing GPA line:\n%s", got)
	}
}

func TestBuildTailorPrompt(t *testing.T) {
	user := testUser()
	jobs := []employment.Entry{{CompanyName: "Acme", Location: "Remote", Position: "Engineer", StartDate: "2020", EndDate: "2024"}}

	prompt := BuildTailorPrompt(user, jobs, nil, "Senior Go engineer role")
	for _, want := range []string{
		"Ada Lovelace",
		"ada@example.com",
		"o Acme, Remote",
		"Senior Go engineer role",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "{{") {
		t.Fatalf("prompt has unresolved tokens")
	}
}

func TestBuildQuestionPrompt(t *testing.T) {
	got := BuildQuestionPrompt("Why this company?", "Go backend role", "10 years of Go.")
	for _, want := range []string{"Why this company?", "Go backend role", "10 years of Go."} {
		if !strings.Contains(got, want) {
			t.Fatalf("prompt missing %q:\n%s", want, got)
		}
	}

	bare := BuildQuestionPrompt("Why this company?", "", "")
	if strings.Contains(bare, "Job description") || strings.Contains(bare, "Candidate resume") {
		t.Fatalf("empty sections should be omitted:\n%s", bare)
	}
}
