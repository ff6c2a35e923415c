package employment

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
	rg.POST("/employment", h.create)
	rg.GET("/employment", h.list)
	rg.PUT("/employment/:id", h.update)
	rg.DELETE("/employment/:id", h.delete)
}

type entryRequest struct {
	CompanyName string `json:"company_name"`
	Location    string `json:"location"`
	Position    string `json:"position"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	IsCurrent   bool   `json:"is_current"`
	Description string `json:"description"`
}

func (req entryRequest) toEntry(userID string) Entry {
	return Entry{
		UserID:      userID,
		CompanyName: req.CompanyName,
		Location:    req.Location,
		Position:    req.Position,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsCurrent:   req.IsCurrent,
		Description: req.Description,
	}
}

func (h *Handler) create(c *gin.Context) {
	var req entryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.CompanyName) == "" || strings.TrimSpace(req.Position) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "company_name and position are required", nil)
		return
	}
	userID := middleware.UserIDFromContext(c)
	entry, err := h.Repo.Create(c.Request.Context(), req.toEntry(userID))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to add employment", nil)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"id": entry.ID, "entry": entry})
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	entries, err := h.Repo.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch employment history", nil)
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
			respond.Error(c, http.StatusNotFound, "not_found", "employment entry not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update employment", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Employment history updated successfully"})
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	err := h.Repo.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "employment entry not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete employment", nil)
		return
	}
	respond.OK(c, gin.H{"message": "Employment history deleted successfully"})
}
