package users

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"resume-tailor/internal/shared/telemetry"
)

const (
	defaultMaxTokens  = 30000
	defaultDailyLimit = 5
	resetTokenTTL     = time.Hour
)

var (
	ErrInvalidInput       = errors.New("email and password are required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)

// Mailer delivers account emails. Failures are logged, never surfaced.
type Mailer interface {
	SendPasswordReset(ctx context.Context, to, resetURL string) error
}

type Service struct {
	Repo         Repo
	Mailer       Mailer
	FrontendURL  string
	DefaultModel string
}

func NewService(repo Repo, mailer Mailer, frontendURL, defaultModel string) *Service {
	return &Service{Repo: repo, Mailer: mailer, FrontendURL: frontendURL, DefaultModel: defaultModel}
}

// RegisterInput carries credentials plus optional initial profile fields.
type RegisterInput struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FullName      string `json:"full_name"`
	Phone         string `json:"phone"`
	PersonalEmail string `json:"personal_email"`
	LinkedinURL   string `json:"linkedin_url"`
	GithubURL     string `json:"github_url"`
}

// Register creates an account with hashed credentials and default
// generation preferences.
func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return User{}, ErrInvalidInput
	}
	if len(in.Password) < 6 {
		return User{}, ErrWeakPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	return s.Repo.Create(ctx, User{
		Email:                email,
		PasswordHash:         string(hash),
		FullName:             in.FullName,
		Phone:                in.Phone,
		PersonalEmail:        in.PersonalEmail,
		LinkedinURL:          in.LinkedinURL,
		GithubURL:            in.GithubURL,
		OpenAIModel:          s.DefaultModel,
		MaxTokens:            defaultMaxTokens,
		DailyGenerationLimit: defaultDailyLimit,
	})
}

// Authenticate checks credentials and returns the account.
func (s *Service) Authenticate(ctx context.Context, email, password string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return User{}, ErrInvalidCredentials
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return user, nil
}

// StartPasswordReset stores a one-hour reset token and mails the link.
// It never reports whether the email exists.
func (s *Service) StartPasswordReset(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}
	token, err := generateResetToken()
	if err != nil {
		return err
	}
	found, err := s.Repo.SetResetToken(ctx, email, token, time.Now().Add(resetTokenTTL))
	if err != nil {
		return err
	}
	if !found {
		return nil
	}
	resetURL := strings.TrimRight(s.FrontendURL, "/") + "/reset-password?token=" + token
	if s.Mailer != nil {
		if err := s.Mailer.SendPasswordReset(ctx, email, resetURL); err != nil {
			telemetry.Error("mail.reset.failed", map[string]any{"error": err.Error()})
		}
	}
	return nil
}

// ResetPassword consumes a reset token and installs the new password.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string) error {
	if strings.TrimSpace(token) == "" {
		return ErrInvalidResetToken
	}
	if len(newPassword) < 6 {
		return ErrWeakPassword
	}
	user, err := s.Repo.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrInvalidResetToken
		}
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.Repo.ResetPassword(ctx, user.ID, string(hash))
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	if update.MaxTokens <= 0 {
		update.MaxTokens = defaultMaxTokens
	}
	if strings.TrimSpace(update.OpenAIModel) == "" {
		update.OpenAIModel = s.DefaultModel
	}
	return s.Repo.UpdateProfile(ctx, userID, update)
}

func (s *Service) ListAll(ctx context.Context) ([]AdminUser, error) {
	return s.Repo.ListAll(ctx)
}

func generateResetToken() (string, error) {
	var b [32]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
