package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func adminRouter(keys []string) *gin.Engine {
	router := gin.New()
	router.Use(AdminKeyAuth(keys))
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func TestAdminKeyAuth_Valid(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(AdminKeyHeader, "admin-key")
	w := httptest.NewRecorder()
	adminRouter([]string{"other", "admin-key"}).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestAdminKeyAuth_Missing(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	w := httptest.NewRecorder()
	adminRouter([]string{"admin-key"}).ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestAdminKeyAuth_Invalid(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(AdminKeyHeader, "not-admin")
	w := httptest.NewRecorder()
	adminRouter([]string{"admin-key"}).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestAdminKeyAuth_NoKeysConfigured(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	req.Header.Set(AdminKeyHeader, "anything")
	w := httptest.NewRecorder()
	adminRouter(nil).ServeHTTP(w, req)

	if w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}
