package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anjaliconnect/api/infrastructure/config"
	"github.com/gin-gonic/gin"
)

func TestForceHttps(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{Server: config.ServerConfig{InternalPort: "8080", ExternalPort: "443"}}
	router := gin.New()
	router.Use(ForceHttps(cfg))
	router.Any("/api/v1/payments", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name      string
		method    string
		forwarded string
		want      int
		location  string
	}{
		{"get redirects", http.MethodGet, "", http.StatusMovedPermanently, "https://api.example.org:443/api/v1/payments?limit=5"},
		{"post keeps method", http.MethodPost, "", http.StatusPermanentRedirect, "https://api.example.org:443/api/v1/payments?limit=5"},
		{"behind tls proxy", http.MethodGet, "https", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(tt.method, "/api/v1/payments?limit=5", nil)
			req.Host = "api.example.org:8080"
			if tt.forwarded != "" {
				req.Header.Set("X-Forwarded-Proto", tt.forwarded)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if got := rec.Header().Get("Location"); got != tt.location {
				t.Fatalf("location = %q, want %q", got, tt.location)
			}
			if tt.want == http.StatusOK && rec.Header().Get("Strict-Transport-Security") == "" {
				t.Fatal("missing HSTS header")
			}
		})
	}
}
