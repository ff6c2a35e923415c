package education

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
)

type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/education", h.create)
	rg.GET("/education", h.list)
	rg.PUT("/education/:id", h.update)
	rg.DELETE("/education/:id", h.delete)
}

type entryRequest struct {
	SchoolName   string `json:"school_name"`
	Location     string `json:"location"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	IsCurrent    bool   `json:"is_current"`
	GPA          string `json:"gpa"`
	Description  string `json:"description"`
}

func (req entryRequest) toEntry(userID string) Entry {
	return Entry{
		UserID:       userID,
		SchoolName:   req.SchoolName,
		Location:     req.Location,
		Degree:       req.Degree,
		FieldOfStudy: req.FieldOfStudy,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsCurrent:    req.IsCurrent,
		GPA:          req.GPA,
		Description:  req.Description,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.SchoolName) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "school_name is required", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	entry, err := h.Repo.Create(c.Request.Context(), req.toEntry(userID))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to add education", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": entry.ID, "entry": entry})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	entries, err := h.Repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch education", nil)
		return
	}
	if entries == nil {
		entries = []Entry{}
	}
	respond.OK(c, entries)
}

func (h *Handler) update(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	err := h.Repo.Update(c.Request.Context(), userID, c.Param("id"), req.toEntry(userID))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "education entry not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update education", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Education updated successfully"})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	err := h.Repo.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "education entry not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete education", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Education deleted successfully"})
}
