package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	if err != nil {
		t.Fatalf("new metrics: %v", err)
	}

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/orders/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for i := 0; i < 2; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil))
	}

	got := testutil.ToFloat64(m.requestsTotal.WithLabelValues(http.MethodGet, "/api/orders/:id", "404"))
	if got != 2 {
		t.Fatalf("expected 2 requests counted got %v", got)
	}
	if _, err := NewMetrics(reg); err == nil {
		t.Fatalf("expected duplicate registration to fail")
	}
}

func TestRequestLoggerLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	r := gin.New()
	r.Use(RequestLogger(zerolog.New(&buf)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 log lines got %d", len(lines))
	}
	if !strings.Contains(lines[0], `"level":"info"`) || !strings.Contains(lines[1], `"level":"error"`) {
		t.Fatalf("unexpected levels:\n%s", buf.String())
	}
	if !strings.Contains(lines[1], `"path":"/boom"`) {
		t.Fatalf("expected path field, got %s", lines[1])
	}
}
