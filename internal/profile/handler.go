package profile

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/education"
	"resume-tailor/internal/employment"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/users"
)

// Handler composes the account row with its employment and education
// history for the profile surface.
type Handler struct {
	Users      *users.Service
	Employment employment.Repo
	Education  education.Repo
}

func NewHandler(usersSvc *users.Service, employmentRepo employment.Repo, educationRepo education.Repo) *Handler {
	return &Handler{Users: usersSvc, Employment: employmentRepo, Education: educationRepo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profile", h.get)
	rg.PUT("/profile", h.update)
	// List aliases used by the web client.
	rg.GET("/profile/employment", h.listEmployment)
	rg.GET("/profile/education", h.listEducation)
}

func (h *Handler) get(c *gin.Context) {
	ctx := c.Request.Context()
	userID := middleware.UserIDFromContext(c)

	user, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch profile", nil)
		return
	}
	history, err := h.Employment.ListByUser(ctx, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch profile", nil)
		return
	}
	edu, err := h.Education.ListByUser(ctx, userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch profile", nil)
		return
	}
	if history == nil {
		history = []employment.Entry{}
	}
	if edu == nil {
		edu = []education.Entry{}
	}
	respond.OK(c, gin.H{
		"user":              user,
		"employmentHistory": history,
		"education":         edu,
	})
}

func (h *Handler) update(c *gin.Context) {
	var req users.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	if err := h.Users.UpdateProfile(c.Request.Context(), userID, req); err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update profile", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Profile updated successfully"})
}

func (h *Handler) listEmployment(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	entries, err := h.Employment.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch employment history", nil)
		return
	}
	if entries == nil {
		entries = []employment.Entry{}
	}
	respond.OK(c, entries)
}

func (h *Handler) listEducation(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	entries, err := h.Education.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch education", nil)
		return
	}
	if entries == nil {
		entries = []education.Entry{}
	}
	respond.OK(c, entries)
}
