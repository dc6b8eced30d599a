package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/auth"
	"github.com/loubnahub/location-voiture-admin-sub002/internal/common/config"
)

func newAuthTestRouter(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuth(cfg, nil), RBAC(cfg))
	r.GET("/api/v1/vehicles", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.POST("/api/v1/vehicles/:id/recompute-status", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestJWTAuthRejectsMissingToken(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "s"}
	r := newAuthTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestJWTAuthAllowsPublicPath(t *testing.T) {
	cfg := config.AuthConfig{Enabled: true, JWTSecret: "s", PublicPaths: []string{"/healthz"}}
	r := newAuthTestRouter(cfg)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestRBACRequiresRole(t *testing.T) {
	cfg := config.AuthConfig{
		Enabled:   true,
		JWTSecret: "s",
		RBAC: map[string][]string{
			"POST /api/v1/vehicles/:id/recompute-status": {"admin"},
		},
	}
	r := newAuthTestRouter(cfg)

	staff, _, err := auth.GenerateAccessToken(cfg, "acct-1", []string{"staff"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	admin, _, err := auth.GenerateAccessToken(cfg, "acct-2", []string{"admin"}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/vehicles/v1/recompute-status", nil)
	req.Header.Set("Authorization", "Bearer "+staff)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff role, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/api/v1/vehicles/v1/recompute-status", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin role, got %d", w.Code)
	}
}

func TestHasAnyRole(t *testing.T) {
	if hasAnyRole(nil, []string{"admin"}) {
		t.Fatalf("expected empty roles to fail")
	}
	if !hasAnyRole([]string{"Staff", "ADMIN"}, []string{"admin"}) {
		t.Fatalf("expected case-insensitive match")
	}
	if hasAnyRole([]string{"staff"}, []string{"admin"}) {
		t.Fatalf("expected disjoint roles to fail")
	}
}
