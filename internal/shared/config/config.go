package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	CORSAllowOrigin []string
	DatabaseURL     string
	JWTSecret       string
	FrontendURL     string

	LLMProvider  string
	DefaultModel string

	TemplateSource string
	TemplatePath   string
	AWSRegion      string
	S3Bucket       string
	S3TemplateKey  string

	ConvertURL string

	SendGridAPIKey string
	MailFrom       string

	AdminEmails []string

	DefaultDailyLimit int
	QuotaTimezone     string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}
	if env == "production" && os.Getenv("JWT_SECRET") == "" {
		log.Printf("JWT_SECRET is required in production")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               env,
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		DatabaseURL:       dbURL,
		JWTSecret:         getEnv("JWT_SECRET", "dev-secret"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		LLMProvider:       getEnv("LLM_PROVIDER", "openai"),
		DefaultModel:      getEnv("LLM_MODEL", "gpt-4.1-2025-04-14"),
		TemplateSource:    normalizeTemplateSource(getEnv("TEMPLATE_SOURCE", "local")),
		TemplatePath:      getEnv("TEMPLATE_PATH", "assets/templates/resume.docx"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3TemplateKey:     getEnv("S3_TEMPLATE_KEY", "templates/resume.docx"),
		ConvertURL:        getEnv("CONVERT_URL", ""),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		MailFrom:          getEnv("MAIL_FROM", ""),
		AdminEmails:       splitAndTrim(getEnv("ADMIN_EMAILS", "")),
		DefaultDailyLimit: getEnvInt("DAILY_GENERATION_LIMIT", 5),
		QuotaTimezone:     getEnv("QUOTA_TIMEZONE", "America/Chicago"),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config env %s invalid int: %v", key, err)
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeTemplateSource(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
