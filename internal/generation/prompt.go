package generation

import (
	_ "embed"
	"strings"

	"resume-tailor/internal/education"
	"resume-tailor/internal/employment"
	"resume-tailor/internal/users"
)

//go:embed prompts/tailor_v1.txt
var tailorPromptV1 string

const tailorSystemPrompt = "You are a professional resume writer with expertise in creating tailored resumes for job applications. " +
	"You excel at crafting authentic, detailed, and impactful resumes that highlight the candidate's unique strengths and experiences. " +
	"Always respond with valid JSON."

const questionSystemPrompt = "You are a career coach helping a candidate prepare a job application. " +
	"Answer the candidate's question directly and concretely, using the job description for context when one is provided. " +
	"Respond with plain text."

// BuildTailorPrompt fills the generation prompt template with the
// user's profile and history.
func BuildTailorPrompt(user users.User, jobs []employment.Entry, schools []education.Entry, jobDescription string) string {
	replacer := strings.NewReplacer(
		"{{FULL_NAME}}", user.FullName,
		"{{PERSONAL_EMAIL}}", user.PersonalEmail,
		"{{PHONE}}", user.Phone,
		"{{LINKEDIN_URL}}", user.LinkedinURL,
		"{{LOCATION}}", user.Location,
		"{{GITHUB_URL}}", user.GithubURL,
		"{{EMPLOYMENT_HISTORY}}", FormatEmployment(jobs),
		"{{EDUCATION_HISTORY}}", FormatEducation(schools),
		"{{JOB_DESCRIPTION}}", jobDescription,
	)
	return replacer.Replace(tailorPromptV1)
}

// BuildQuestionPrompt assembles the user message for the Q&A endpoint.
// resumeContext is optional free text, usually extracted from an
// uploaded resume.
func BuildQuestionPrompt(question, jobDescription, resumeContext string) string {
	var builder strings.Builder
	builder.WriteString("Question:\n")
	builder.WriteString(question)
	if strings.TrimSpace(jobDescription) != "" {
		builder.WriteString("\n\nJob description:\n")
		builder.WriteString(jobDescription)
	}
	if strings.TrimSpace(resumeContext) != "" {
		builder.WriteString("\n\nCandidate resume:\n")
		builder.WriteString(resumeContext)
	}
	return builder.String()
}

// FormatEmployment renders employment rows as the bulleted blocks the
// prompt template expects. Current roles end with "Present".
func FormatEmployment(jobs []employment.Entry) string {
	blocks := make([]string, 0, len(jobs))
	for _, job := range jobs {
		var builder strings.Builder
		builder.WriteString("o ")
		builder.WriteString(job.CompanyName)
		builder.WriteString(", ")
		builder.WriteString(job.Location)
		builder.WriteString("\n  - ")
		builder.WriteString(job.Position)
		builder.WriteString(" (")
		builder.WriteString(job.StartDate)
		builder.WriteString("–")
		builder.WriteString(endDate(job.EndDate, job.IsCurrent))
		builder.WriteString(")")
		if job.Description != "" {
			builder.WriteString("\n  - ")
			builder.WriteString(job.Description)
		}
		blocks = append(blocks, builder.String())
	}
	return strings.Join(blocks, "\n")
}

// FormatEducation renders education rows the same way, with optional
// GPA and description lines.
func FormatEducation(schools []education.Entry) string {
	blocks := make([]string, 0, len(schools))
	for _, school := range schools {
		var builder strings.Builder
		builder.WriteString("o ")
		builder.WriteString(school.SchoolName)
		builder.WriteString(", ")
		builder.WriteString(school.Location)
		builder.WriteString("\n  - ")
		builder.WriteString(school.Degree)
		builder.WriteString(" in ")
		builder.WriteString(school.FieldOfStudy)
		builder.WriteString(" (")
		builder.WriteString(school.StartDate)
		builder.WriteString("–")
		builder.WriteString(endDate(school.EndDate, school.IsCurrent))
		builder.WriteString(")")
		if school.GPA != "" {
			builder.WriteString("\n  - GPA: ")
			builder.WriteString(school.GPA)
		}
		if school.Description != "" {
			builder.WriteString("\n  - ")
			builder.WriteString(school.Description)
		}
		blocks = append(blocks, builder.String())
	}
	return strings.Join(blocks, "\n")
}

func endDate(end string, current bool) string {
	if current {
		return "Present"
	}
	return end
}
