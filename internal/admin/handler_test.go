package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-tailor/internal/mail"
	"resume-tailor/internal/quota"
	"resume-tailor/internal/users"
)

func newTestRouter(t *testing.T, email string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	usersSvc := users.NewService(users.NewMemoryRepo(), mail.NoopMailer{}, "https://app.example.com", "gpt-4.1-2025-04-14")
	quotaSvc := quota.NewService(quota.NewMemoryStore(), "UTC")

	ctx := context.Background()
	user, err := usersSvc.Register(ctx, users.RegisterInput{Email: "ada@example.com", Password: "secret1"})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := quotaSvc.Consume(ctx, user.ID, 5); err != nil {
		t.Fatalf("consume failed: %v", err)
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", user.ID)
		c.Set("userEmail", email)
		c.Next()
	})
	api := r.Group("/api")
	NewHandler(usersSvc, quotaSvc).RegisterRoutes(api, []string{"admin@example.com"})
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminEndpointsRequireAllowListedEmail(t *testing.T) {
	r := newTestRouter(t, "ada@example.com")
	if w := get(r, "/api/admin/users"); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
	if w := get(r, "/api/admin/generations"); w.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", w.Code)
	}
}

func TestAdminListUsers(t *testing.T) {
	r := newTestRouter(t, "admin@example.com")
	w := get(r, "/api/admin/users")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "ada@example.com") {
		t.Fatalf("body = %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "total_generations") {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestAdminListGenerations(t *testing.T) {
	r := newTestRouter(t, "admin@example.com")
	w := get(r, "/api/admin/generations")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"generations"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"count":1`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}
