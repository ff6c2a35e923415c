package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/admin"
	"resume-tailor/internal/education"
	"resume-tailor/internal/employment"
	"resume-tailor/internal/generation"
	"resume-tailor/internal/profile"
	"resume-tailor/internal/shared/auth"
	"resume-tailor/internal/shared/config"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/users"
)

// RouterDeps carries the wired handlers into route registration.
type RouterDeps struct {
	Config            config.Config
	Tokens            *auth.Service
	UsersHandler      *users.Handler
	ProfileHandler    *profile.Handler
	EmploymentHandler *employment.Handler
	EducationHandler  *education.Handler
	GenerationHandler *generation.Handler
	AdminHandler      *admin.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Tokens),
	)

	r.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	deps.UsersHandler.RegisterRoutes(api)
	deps.ProfileHandler.RegisterRoutes(api)
	deps.EmploymentHandler.RegisterRoutes(api)
	deps.EducationHandler.RegisterRoutes(api)
	deps.GenerationHandler.RegisterRoutes(api)
	deps.AdminHandler.RegisterRoutes(api, deps.Config.AdminEmails)

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
