package generation

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/extract"
	"resume-tailor/internal/quota"
	"resume-tailor/internal/shared/server/middleware"
	"resume-tailor/internal/shared/server/respond"
	"resume-tailor/internal/users"
	"resume-tailor/resume/model"
)

const (
	mimeDocx = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePDF  = "application/pdf"

	maxUploadBytes = 10 << 20
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/generate-resume", h.generateResume)
	rg.POST("/ask-question", h.askQuestion)
	rg.POST("/download/:format", h.download)
	rg.POST("/convert-to-pdf", h.convertToPDF)
	rg.POST("/extract-text", h.extractText)
}

func (h *Handler) generateResume(c *gin.Context) {
	var req struct {
		JobDescription string `json:"jobDescription"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	result, err := h.Svc.Generate(c.Request.Context(), userID, req.JobDescription)
	if err != nil {
		h.writeGenerationError(c, err)
		return
	}

	var pdfContent any
	if result.Conversion.Status == ConversionProduced {
		pdfContent = base64.StdEncoding.EncodeToString(result.Conversion.PDF)
	}

	respond.OK(c, gin.H{
		"resume":          result.Resume,
		"generatedResume": json.RawMessage(result.Raw),
		"docxContent":     base64.StdEncoding.EncodeToString(result.Docx),
		"pdfContent":      pdfContent,
	})
}

func (h *Handler) askQuestion(c *gin.Context) {
	var req struct {
		Question       string `json:"question"`
		JobDescription string `json:"jobDescription"`
		ResumeContext  string `json:"resumeContext"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	userID := middleware.UserIDFromContext(c)
	answer, err := h.Svc.AskQuestion(c.Request.Context(), userID, req.Question, req.JobDescription, req.ResumeContext)
	if err != nil {
		h.writeGenerationError(c, err)
		return
	}
	respond.OK(c, gin.H{"answer": answer})
}

// download renders the resume the caller supplies; it does not read
// any stored state, which is why the route is public.
func (h *Handler) download(c *gin.Context) {
	format := strings.ToLower(c.Param("format"))
	if format != "docx" && format != "pdf" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be docx or pdf", nil)
		return
	}

	var req struct {
		Resume *model.Record `json:"resume"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Resume == nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "resume is required", nil)
		return
	}

	docx, err := h.Svc.Render(c.Request.Context(), *req.Resume)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to render resume", nil)
		return
	}

	if format == "docx" {
		writeAttachment(c, "resume.docx", mimeDocx, docx)
		return
	}

	pdf, err := h.Svc.ConvertToPDF(c.Request.Context(), docx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "conversion_error", "failed to convert resume to PDF", nil)
		return
	}
	writeAttachment(c, "resume.pdf", mimePDF, pdf)
}

func (h *Handler) convertToPDF(c *gin.Context) {
	docx, ok := readUpload(c, "docx")
	if !ok {
		return
	}
	pdf, err := h.Svc.ConvertToPDF(c.Request.Context(), docx)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "conversion_error", "failed to convert document to PDF", nil)
		return
	}
	writeAttachment(c, "document.pdf", mimePDF, pdf)
}

func (h *Handler) extractText(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	file, err := header.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read file", nil)
		return
	}

	text, err := extract.Text(c.Request.Context(), data, header.Header.Get("Content-Type"), header.Filename)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unsupported or unreadable file", nil)
		return
	}
	respond.OK(c, gin.H{"text": text})
}

func (h *Handler) writeGenerationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrJobDescriptionRequired), errors.Is(err, ErrQuestionRequired):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, quota.ErrLimitReached):
		respond.Error(c, http.StatusForbidden, "quota_exceeded", limitMessage(err), nil)
	case errors.Is(err, users.ErrNotFound):
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "user not found", nil)
	case errors.Is(err, ErrMalformedCompletion):
		respond.Error(c, http.StatusInternalServerError, "llm_error", "model returned an unusable resume", nil)
	case errors.Is(err, ErrCompletionFailed):
		respond.Error(c, http.StatusInternalServerError, "llm_error", "completion request failed", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate resume", nil)
	}
}

// limitMessage prefers the LimitError text, which names the configured
// daily limit.
func limitMessage(err error) string {
	var limitErr *LimitError
	if errors.As(err, &limitErr) {
		return limitErr.Error()
	}
	return "daily generation limit reached"
}

func readUpload(c *gin.Context, field string) ([]byte, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", field+" file is required", nil)
		return nil, false
	}
	file, err := header.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read upload", nil)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "could not read upload", nil)
		return nil, false
	}
	return data, true
}

func writeAttachment(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}
