package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHandleErrorLogsUnexpected(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)
	logger := zap.New(core)

	r := gin.New()
	r.Use(middleware.AttachLogger(logger))
	r.GET("/boom", func(c *gin.Context) {
		HandleError(c, errors.New("connection reset"), "not found")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected 500, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if resp["error"] != "internal server error" {
		t.Errorf("Expected generic error message, got %v", resp["error"])
	}
	if resp["details"] != "connection reset" {
		t.Errorf("Expected details with the underlying error, got %v", resp["details"])
	}

	if logs.Len() != 1 {
		t.Fatalf("Expected 1 error log entry, got %d", logs.Len())
	}
	entry := logs.All()[0]
	if entry.Message != "unexpected error" {
		t.Errorf("Expected 'unexpected error' log, got %q", entry.Message)
	}
	fields := entry.ContextMap()
	if fields["path"] != "/boom" {
		t.Errorf("Expected path field /boom, got %v", fields["path"])
	}
}
