package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/admin"
	"resume-tailor/internal/convert"
	"resume-tailor/internal/education"
	"resume-tailor/internal/employment"
	"resume-tailor/internal/generation"
	"resume-tailor/internal/llm"
	openai "resume-tailor/internal/llm/openai"
	"resume-tailor/internal/mail"
	"resume-tailor/internal/profile"
	"resume-tailor/internal/quota"
	"resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server"
	"resume-tailor/internal/shared/storage/db"
	"resume-tailor/internal/templates"
	"resume-tailor/internal/users"
)

// App holds the wired dependencies.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB

	Tokens    *auth.Service
	Templates templates.Source
	Converter convert.Converter
	Mailer    users.Mailer
	LLM       llm.Client

	UsersRepo      users.Repo
	EmploymentRepo employment.Repo
	EducationRepo  education.Repo
	QuotaStore     quota.Store

	UsersService      *users.Service
	QuotaService      *quota.Service
	GenerationService *generation.Service

	UsersHandler      *users.Handler
	ProfileHandler    *profile.Handler
	EmploymentHandler *employment.Handler
	EducationHandler  *education.Handler
	GenerationHandler *generation.Handler
	AdminHandler      *admin.Handler
}

// Build prepares shared dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Tokens: auth.NewService(cfg.JWTSecret),
	}

	if err := buildServices(ctx, app); err != nil {
		return nil, err
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:            app.Config,
		Tokens:            app.Tokens,
		UsersHandler:      app.UsersHandler,
		ProfileHandler:    app.ProfileHandler,
		EmploymentHandler: app.EmploymentHandler,
		EducationHandler:  app.EducationHandler,
		GenerationHandler: app.GenerationHandler,
		AdminHandler:      app.AdminHandler,
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildServices(ctx context.Context, app *App) error {
	cfg := app.Config

	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.EmploymentRepo = &employment.PGRepo{DB: app.DB}
		app.EducationRepo = &education.PGRepo{DB: app.DB}
		app.QuotaStore = quota.NewPGStore(app.DB)
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.EmploymentRepo = employment.NewMemoryRepo()
		app.EducationRepo = education.NewMemoryRepo()
		app.QuotaStore = quota.NewMemoryStore()
	}

	mailer, err := buildMailer(cfg)
	if err != nil {
		return err
	}
	app.Mailer = mailer

	source, err := buildTemplateSource(ctx, cfg)
	if err != nil {
		return err
	}
	app.Templates = source

	app.Converter = buildConverter(cfg)

	llmClient := llm.Client(llm.PlaceholderClient{})
	if cfg.LLMProvider == "openai" {
		apiKey := os.Getenv("OPENAI_API_KEY")
		if strings.TrimSpace(apiKey) == "" {
			if !isDevLike(cfg.Env) {
				return fmt.Errorf("OPENAI_API_KEY is required")
			}
			log.Printf("bootstrap: OPENAI_API_KEY empty; generation disabled")
		} else {
			client, err := openai.NewClient(apiKey)
			if err != nil {
				return err
			}
			llmClient = client
		}
	}
	app.LLM = llmClient

	app.UsersService = users.NewService(app.UsersRepo, app.Mailer, cfg.FrontendURL, cfg.DefaultModel)
	app.QuotaService = quota.NewService(app.QuotaStore, cfg.QuotaTimezone)
	app.GenerationService = &generation.Service{
		Users:        app.UsersRepo,
		Employment:   app.EmploymentRepo,
		Education:    app.EducationRepo,
		Quota:        app.QuotaService,
		LLM:          app.LLM,
		Templates:    app.Templates,
		Converter:    app.Converter,
		DefaultModel: cfg.DefaultModel,
		DefaultLimit: cfg.DefaultDailyLimit,
	}

	app.UsersHandler = users.NewHandler(app.UsersService, app.Tokens)
	app.ProfileHandler = profile.NewHandler(app.UsersService, app.EmploymentRepo, app.EducationRepo)
	app.EmploymentHandler = employment.NewHandler(app.EmploymentRepo)
	app.EducationHandler = education.NewHandler(app.EducationRepo)
	app.GenerationHandler = generation.NewHandler(app.GenerationService)
	app.AdminHandler = admin.NewHandler(app.UsersService, app.QuotaService)

	return nil
}

func buildMailer(cfg config.Config) (users.Mailer, error) {
	if strings.TrimSpace(cfg.SendGridAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: SENDGRID_API_KEY empty; password reset mail disabled")
			return mail.NoopMailer{}, nil
		}
		return nil, fmt.Errorf("SENDGRID_API_KEY is required")
	}
	return mail.NewSendGridMailer(cfg.SendGridAPIKey, cfg.MailFrom)
}

func buildTemplateSource(ctx context.Context, cfg config.Config) (templates.Source, error) {
	switch cfg.TemplateSource {
	case "s3":
		return templates.NewS3Source(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3TemplateKey)
	default:
		return &templates.LocalSource{Path: cfg.TemplatePath}, nil
	}
}

func buildConverter(cfg config.Config) convert.Converter {
	if strings.TrimSpace(cfg.ConvertURL) == "" {
		log.Printf("bootstrap: CONVERT_URL empty; PDF conversion disabled")
		return convert.Disabled{}
	}
	client, err := convert.NewClient(cfg.ConvertURL)
	if err != nil {
		log.Printf("bootstrap: converter init failed; PDF conversion disabled: %v", err)
		return convert.Disabled{}
	}
	return client
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
