package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"resume-tailor/internal/users"
	"resume-tailor/resume/model"
)

// ErrMalformedCompletion means the model reply could not be turned
// into a resume.
var ErrMalformedCompletion = errors.New("malformed completion")

type completionPayload struct {
	Summary        string                `json:"summary"`
	Experience     []model.Experience    `json:"experience"`
	Skills         []model.SkillSection  `json:"skills"`
	Education      []model.Education     `json:"education"`
	Certifications []model.Certification `json:"certifications"`
}

// Normalize parses the completion JSON and builds the resume record.
// Summary and experience are required; the remaining sections default
// to empty. Name and contact always come from the profile, whatever
// the completion claims.
func Normalize(raw string, user users.User) (model.Record, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return model.Record{}, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}
	for _, required := range []string{"summary", "experience"} {
		value, ok := fields[required]
		if !ok || string(value) == "null" {
			return model.Record{}, fmt.Errorf("%w: missing %s", ErrMalformedCompletion, required)
		}
	}

	var payload completionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return model.Record{}, fmt.Errorf("%w: %v", ErrMalformedCompletion, err)
	}

	record := model.Record{
		Name: user.FullName,
		Contact: model.Contact{
			Email:       user.PersonalEmail,
			PhoneNumber: user.Phone,
			LinkedinURL: user.LinkedinURL,
			Location:    user.Location,
			Github:      user.GithubURL,
		},
		Summary:        CleanText(payload.Summary),
		Experience:     normalizeExperience(payload.Experience),
		Skills:         normalizeSkills(payload.Skills),
		Education:      normalizeEducation(payload.Education),
		Certifications: normalizeCertifications(payload.Certifications),
	}
	return record, nil
}

func normalizeExperience(items []model.Experience) []model.Experience {
	out := make([]model.Experience, 0, len(items))
	for _, item := range items {
		bullets := make([]string, 0, len(item.Bullets))
		for _, bullet := range item.Bullets {
			if cleaned := CleanText(bullet); cleaned != "" {
				bullets = append(bullets, cleaned)
			}
		}
		out = append(out, model.Experience{
			Company:  CleanText(item.Company),
			Dates:    CleanText(item.Dates),
			Location: CleanText(item.Location),
			Position: CleanText(item.Position),
			Bullets:  bullets,
		})
	}
	return out
}

func normalizeSkills(items []model.SkillSection) []model.SkillSection {
	out := make([]model.SkillSection, 0, len(items))
	for _, item := range items {
		list := make([]string, 0, len(item.List))
		for _, skill := range item.List {
			if cleaned := CleanText(skill); cleaned != "" {
				list = append(list, cleaned)
			}
		}
		out = append(out, model.SkillSection{
			Section: CleanText(item.Section),
			List:    list,
		})
	}
	return out
}

func normalizeEducation(items []model.Education) []model.Education {
	out := make([]model.Education, 0, len(items))
	for _, item := range items {
		out = append(out, model.Education{
			School:   CleanText(item.School),
			Location: CleanText(item.Location),
			Dates:    CleanText(item.Dates),
			Program:  CleanText(item.Program),
		})
	}
	return out
}

func normalizeCertifications(items []model.Certification) []model.Certification {
	out := make([]model.Certification, 0, len(items))
	for _, item := range items {
		out = append(out, model.Certification{
			Name:   CleanText(item.Name),
			Issued: CleanText(item.Issued),
		})
	}
	return out
}

// CleanText strips control whitespace, trims, and removes surrounding
// quote pairs. Applying it twice gives the same result as once.
func CleanText(text string) string {
	var builder strings.Builder
	builder.Grow(len(text))
	for _, r := range text {
		switch r {
		case '\n', '\r', '\t', '\f', '\v':
			continue
		}
		builder.WriteRune(r)
	}
	cleaned := strings.TrimSpace(builder.String())
	for len(cleaned) >= 2 {
		first := cleaned[0]
		last := cleaned[len(cleaned)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') {
			cleaned = strings.TrimSpace(cleaned[1 : len(cleaned)-1])
			continue
		}
		break
	}
	return cleaned
}
