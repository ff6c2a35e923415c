package generation

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/convert"
)

func newTestRouter(t *testing.T, svc *Service, userID string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", userID)
		c.Next()
	})
	api := r.Group("/api")
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func TestGenerateResumeEndpoint(t *testing.T) {
	svc, userID := newTestService(t, &fakeLLM{response: validCompletion}, convert.Disabled{})
	r := newTestRouter(t, svc, userID)

	body := `{"jobDescription": "Senior Go engineer"}`
	req := httptest.NewRequest(http.MethodPost, "/api/generate-resume", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp struct {
		Resume          json.RawMessage `json:"resume"`
		GeneratedResume json.RawMessage `json:"generatedResume"`
		DocxContent     string          `json:"docxContent"`
		PDFContent      *string         `json:"pdfContent"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if len(resp.Resume) == 0 || len(resp.GeneratedResume) == 0 {
		t.Fatal("resume payloads missing")
	}
	if resp.DocxContent == "" {
		t.Fatal("docxContent missing")
	}
	if resp.PDFContent != nil {
		t.Fatalf("pdfContent = %v, want null when conversion is skipped", *resp.PDFContent)
	}
}

func TestGenerateResumeEndpointLimitReached(t *testing.T) {
	svc, userID := newTestService(t, &fakeLLM{response: validCompletion}, convert.Disabled{})
	r := newTestRouter(t, svc, userID)

	// Limit for the test user is 2.
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/generate-resume", strings.NewReader(`{"jobDescription": "role"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if i < 2 && w.Code != http.StatusOK {
			t.Fatalf("call %d status = %d, body = %s", i+1, w.Code, w.Body.String())
		}
		if i == 2 {
			if w.Code != http.StatusForbidden {
				t.Fatalf("status = %d, want 403", w.Code)
			}
			if !strings.Contains(w.Body.String(), "quota_exceeded") {
				t.Fatalf("body = %s", w.Body.String())
			}
			// The configured daily limit appears in the message.
			if !strings.Contains(w.Body.String(), "limit of 2") {
				t.Fatalf("body = %s", w.Body.String())
			}
		}
	}
}

func TestAskQuestionEndpoint(t *testing.T) {
	svc, userID := newTestService(t, &fakeLLM{response: "An answer."}, convert.Disabled{})
	r := newTestRouter(t, svc, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/ask-question", strings.NewReader(`{"question": ""}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/ask-question", strings.NewReader(`{"question": "Why?", "jobDescription": "Go role"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "An answer.") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestDownloadEndpoint(t *testing.T) {
	svc, userID := newTestService(t, &fakeLLM{response: validCompletion}, convert.Disabled{})
	r := newTestRouter(t, svc, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/download/txt", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("invalid format status = %d, want 400", w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/download/docx", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing resume status = %d, want 400", w.Code)
	}

	body := `{"resume": {"name": "Ada Lovelace", "summary": "S.", "experience": [], "skills": [], "education": [], "certifications": []}}`
	req = httptest.NewRequest(http.MethodPost, "/api/download/docx", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != mimeDocx {
		t.Fatalf("content type = %q", got)
	}
	if got := w.Header().Get("Content-Disposition"); !strings.Contains(got, "resume.docx") {
		t.Fatalf("content disposition = %q", got)
	}

	// PDF download fails hard when no converter is configured.
	req = httptest.NewRequest(http.MethodPost, "/api/download/pdf", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("pdf status = %d, want 500", w.Code)
	}
}

func TestConvertToPDFEndpoint(t *testing.T) {
	svc, userID := newTestService(t, &fakeLLM{response: validCompletion}, fakeConverter{pdf: []byte("%PDF-1.4")})
	r := newTestRouter(t, svc, userID)

	req := httptest.NewRequest(http.MethodPost, "/api/convert-to-pdf", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing file status = %d, want 400", w.Code)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("docx", "resume.docx")
	if err != nil {
		t.Fatalf("form file failed: %v", err)
	}
	if _, err := part.Write(testTemplateDocx(t)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/convert-to-pdf", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != mimePDF {
		t.Fatalf("content type = %q", got)
	}
	if w.Body.String() != "%PDF-1.4" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestExtractTextEndpoint(t *testing.T) {
	svc, userID := newTestService(t, &fakeLLM{response: validCompletion}, convert.Disabled{})
	r := newTestRouter(t, svc, userID)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "resume.docx")
	if err != nil {
		t.Fatalf("form file failed: %v", err)
	}
	if _, err := part.Write(testTemplateDocx(t)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/extract-text", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	var resp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if !strings.Contains(resp.Text, "{{NAME}}") {
		t.Fatalf("text = %q", resp.Text)
	}
}
