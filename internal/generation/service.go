package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"resume-tailor/internal/convert"
	"resume-tailor/internal/education"
	"resume-tailor/internal/employment"
	"resume-tailor/internal/llm"
	"resume-tailor/internal/quota"
	"resume-tailor/internal/shared/telemetry"
	"resume-tailor/internal/templates"
	"resume-tailor/internal/users"
	"resume-tailor/resume/model"
	"resume-tailor/resume/render"
)

// Sampling knobs for the tailoring completion.
const (
	tailorTemperature      = 0.5
	tailorPresencePenalty  = 0.3
	tailorFrequencyPenalty = 0.2
	defaultMaxTokens       = 30000
)

var (
	ErrJobDescriptionRequired = errors.New("job description is required")
	ErrQuestionRequired       = errors.New("question is required")
	ErrCompletionFailed       = errors.New("completion failed")
)

// LimitError carries the configured daily limit so handlers can put it
// in the response message.
type LimitError struct {
	Limit int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("daily generation limit of %d reached", e.Limit)
}

func (e *LimitError) Unwrap() error { return quota.ErrLimitReached }

// ConversionStatus says what happened to the PDF step.
type ConversionStatus string

const (
	ConversionProduced ConversionStatus = "produced"
	ConversionSkipped  ConversionStatus = "skipped"
	ConversionFailed   ConversionStatus = "failed"
)

// Conversion is the outcome of the DOCX to PDF step. A failed
// conversion does not fail the generation; callers decide what a
// missing PDF means for them.
type Conversion struct {
	Status ConversionStatus
	PDF    []byte
	Err    error
}

// Result is one finished generation.
type Result struct {
	Resume     model.Record
	Raw        string
	Docx       []byte
	Conversion Conversion
}

// Service runs the resume tailoring pipeline.
type Service struct {
	Users      users.Repo
	Employment employment.Repo
	Education  education.Repo
	Quota      *quota.Service
	LLM        llm.Client
	Templates  templates.Source
	Converter  convert.Converter

	DefaultModel string
	DefaultLimit int
}

// Generate charges quota, runs the completion, and renders the DOCX.
// Quota is consumed before the completion call, so a failed generation
// still counts against the day.
func (s *Service) Generate(ctx context.Context, userID, jobDescription string) (Result, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return Result{}, ErrJobDescriptionRequired
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	jobs, err := s.Employment.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	schools, err := s.Education.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	limit := s.limitFor(user)
	if _, err := s.Quota.Consume(ctx, userID, limit); err != nil {
		if errors.Is(err, quota.ErrLimitReached) {
			return Result{}, &LimitError{Limit: limit}
		}
		return Result{}, err
	}

	raw, err := s.LLM.Complete(ctx, llm.Request{
		System:   tailorSystemPrompt,
		User:     BuildTailorPrompt(user, jobs, schools, jobDescription),
		Params:   s.samplingFor(user),
		JSONOnly: true,
	})
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}

	record, err := Normalize(raw, user)
	if err != nil {
		return Result{}, err
	}

	docx, err := s.Render(ctx, record)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Resume:     record,
		Raw:        raw,
		Docx:       docx,
		Conversion: s.tryConvert(ctx, docx),
	}, nil
}

// AskQuestion answers a free-form application question as plain text.
// resumeContext is optional extra context, typically extracted resume
// text.
func (s *Service) AskQuestion(ctx context.Context, userID, question, jobDescription, resumeContext string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", ErrQuestionRequired
	}
	if strings.TrimSpace(jobDescription) == "" {
		return "", ErrJobDescriptionRequired
	}

	user, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}

	answer, err := s.LLM.Complete(ctx, llm.Request{
		System: questionSystemPrompt,
		User:   BuildQuestionPrompt(question, jobDescription, resumeContext),
		Params: s.samplingFor(user),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCompletionFailed, err)
	}
	return strings.TrimSpace(answer), nil
}

// Render loads the template and fills it with the record.
func (s *Service) Render(ctx context.Context, record model.Record) ([]byte, error) {
	template, err := s.Templates.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load template: %w", err)
	}
	docx, err := render.RenderResume(template, record)
	if err != nil {
		telemetry.Error("render.failed", map[string]any{"err": err.Error()})
		return nil, fmt.Errorf("render docx: %w", err)
	}
	return docx, nil
}

// ConvertToPDF converts rendered DOCX bytes; here a failure is fatal.
func (s *Service) ConvertToPDF(ctx context.Context, docx []byte) ([]byte, error) {
	return s.Converter.ConvertDocx(ctx, docx)
}

func (s *Service) tryConvert(ctx context.Context, docx []byte) Conversion {
	pdf, err := s.Converter.ConvertDocx(ctx, docx)
	switch {
	case err == nil:
		return Conversion{Status: ConversionProduced, PDF: pdf}
	case errors.Is(err, convert.ErrUnavailable):
		return Conversion{Status: ConversionSkipped, Err: err}
	default:
		telemetry.Error("generation.convert.failed", map[string]any{"err": err.Error()})
		return Conversion{Status: ConversionFailed, Err: err}
	}
}

func (s *Service) limitFor(user users.User) int {
	if user.DailyGenerationLimit > 0 {
		return user.DailyGenerationLimit
	}
	return s.DefaultLimit
}

func (s *Service) samplingFor(user users.User) llm.SamplingParams {
	params := llm.SamplingParams{
		Model:            user.OpenAIModel,
		MaxTokens:        user.MaxTokens,
		Temperature:      tailorTemperature,
		PresencePenalty:  tailorPresencePenalty,
		FrequencyPenalty: tailorFrequencyPenalty,
	}
	if params.Model == "" {
		params.Model = s.DefaultModel
	}
	if params.MaxTokens <= 0 {
		params.MaxTokens = defaultMaxTokens
	}
	return params
}
