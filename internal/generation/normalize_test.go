package generation

import (
	"errors"
	"testing"

	"resume-tailor/internal/users"
)

func TestCleanText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Acme Corp", "Acme Corp"},
		{"surrounding quotes", `"Acme Corp"`, "Acme Corp"},
		{"nested quotes", `"'Acme Corp'"`, "Acme Corp"},
		{"single quotes", "'Acme Corp'", "Acme Corp"},
		{"control whitespace", "Acme\n\tCorp\r", "AcmeCorp"},
		{"spaces trimmed", "  Acme Corp  ", "Acme Corp"},
		{"unbalanced quote kept", `"Acme Corp`, `"Acme Corp`},
		{"interior quotes kept", `Acme "The Best" Corp`, `Acme "The Best" Corp`},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CleanText(tc.in)
			if got != tc.want {
				t.Fatalf("CleanText(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if again := CleanText(got); again != got {
				t.Fatalf("CleanText not idempotent: %q then %q", got, again)
			}
		})
	}
}

func testUser() users.User {
	return users.User{
		ID:            "u1",
		FullName:      "Ada Lovelace",
		Phone:         "555-555-5555",
		PersonalEmail: "ada@example.com",
		LinkedinURL:   "https://linkedin.com/in/ada",
		GithubURL:     "https://github.com/ada",
		Location:      "London, UK",
	}
}

func TestNormalizeOverridesContactFromProfile(t *testing.T) {
	raw := `{
		"name": "Wrong Name",
		"contact": {"email": "spoofed@example.com", "phonenumber": "000"},
		"summary": "A summary.",
		"experience": [{"company": "\"Acme\"", "dates": "2020", "location": "Remote", "position": "Engineer", "bullets": ["Did things.", ""]}]
	}`

	record, err := Normalize(raw, testUser())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if record.Name != "Ada Lovelace" {
		t.Fatalf("name = %q, want profile name", record.Name)
	}
	if record.Contact.Email != "ada@example.com" {
		t.Fatalf("email = %q, want profile email", record.Contact.Email)
	}
	if record.Contact.PhoneNumber != "555-555-5555" {
		t.Fatalf("phone = %q, want profile phone", record.Contact.PhoneNumber)
	}
	if record.Experience[0].Company != "Acme" {
		t.Fatalf("company = %q, want cleaned value", record.Experience[0].Company)
	}
	if len(record.Experience[0].Bullets) != 1 {
		t.Fatalf("bullets = %d, want empty bullets dropped", len(record.Experience[0].Bullets))
	}
}

func TestNormalizeRequiresSummaryAndExperience(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"missing summary", `{"experience": []}`},
		{"missing experience", `{"summary": "s"}`},
		{"null summary", `{"summary": null, "experience": []}`},
		{"not json", `not json at all`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Normalize(tc.raw, testUser())
			if !errors.Is(err, ErrMalformedCompletion) {
				t.Fatalf("err = %v, want ErrMalformedCompletion", err)
			}
		})
	}
}

func TestNormalizeDefaultsOptionalSections(t *testing.T) {
	raw := `{"summary": "A summary.", "experience": []}`
	record, err := Normalize(raw, testUser())
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if record.Skills == nil || record.Education == nil || record.Certifications == nil {
		t.Fatal("optional sections should default to empty, not nil")
	}
	if len(record.Skills)+len(record.Education)+len(record.Certifications) != 0 {
		t.Fatal("optional sections should be empty")
	}
}
