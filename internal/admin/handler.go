package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/quota"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/users"
)

const recentGenerationsLimit = 200

// Handler serves the admin read endpoints.
type Handler struct {
	Users *users.Service
	Quota *quota.Service
}

func NewHandler(usersSvc *users.Service, quotaSvc *quota.Service) *Handler {
	return &Handler{Users: usersSvc, Quota: quotaSvc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminEmails []string) {
	group := rg.Group("/admin", middleware.RequireAdmin(adminEmails))
	group.GET("/users", h.listUsers)
	group.GET("/generations", h.listGenerations)
}

func (h *Handler) listUsers(c *gin.Context) {
	list, err := h.Users.ListAll(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list users", nil)
		return
	}
	respond.OK(c, gin.H{"users": list})
}

func (h *Handler) listGenerations(c *gin.Context) {
	list, err := h.Quota.ListRecent(c.Request.Context(), recentGenerationsLimit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list generations", nil)
		return
	}
	if list == nil {
		list = []quota.DayCount{}
	}
	respond.OK(c, gin.H{"generations": list})
}
