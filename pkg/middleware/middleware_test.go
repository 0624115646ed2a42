package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fra-atlas/atlas/pkg/middleware"
)

func ok(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestStackOrder(t *testing.T) {
	var order []string
	var s middleware.Stack
	for _, name := range []string{"outer", "inner"} {
		s.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	h := s.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "outer,inner,handler" {
		t.Errorf("order = %v", order)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	h := middleware.RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/claims", nil))
	if seen == "" || rec.Header().Get(middleware.RequestIDHeader) != seen {
		t.Errorf("generated id %q, header %q", seen, rec.Header().Get(middleware.RequestIDHeader))
	}

	req := httptest.NewRequest("GET", "/claims", nil)
	req.Header.Set(middleware.RequestIDHeader, "upstream-7")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if seen != "upstream-7" {
		t.Errorf("inbound id not reused: %q", seen)
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "missing", http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/villages/x", nil))

	out := buf.String()
	for _, want := range []string{"level=WARN", "status=404", "uri=/api/villages/x"} {
		if !strings.Contains(out, want) {
			t.Errorf("log line missing %q: %s", want, out)
		}
	}
}

func TestRecover(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	h := middleware.Recover(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if !strings.Contains(buf.String(), "handler panic") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://atlas.local"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           600,
	}

	tests := []struct {
		name       string
		cfg        *middleware.CORSConfig
		method     string
		origin     string
		preflight  bool
		wantOrigin string
		wantCode   int
	}{
		{"allowed", cfg, "GET", "http://atlas.local", false, "http://atlas.local", http.StatusOK},
		{"disallowed", cfg, "GET", "http://evil.test", false, "", http.StatusOK},
		{"preflight", cfg, "OPTIONS", "http://atlas.local", true, "http://atlas.local", http.StatusNoContent},
		{"disabled", &middleware.CORSConfig{Origins: []string{"*"}}, "GET", "http://atlas.local", false, "", http.StatusOK},
		{"wildcard", &middleware.CORSConfig{Enabled: true, Origins: []string{"*"}}, "GET", "http://any.test", false, "http://any.test", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/claims", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}

			rec := httptest.NewRecorder()
			middleware.CORS(tt.cfg)(http.HandlerFunc(ok)).ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantCode)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("allow-origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://atlas.local")
	middleware.CORS(cfg)(http.HandlerFunc(ok)).ServeHTTP(rec, req)
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" || rec.Header().Get("Access-Control-Max-Age") != "600" {
		t.Errorf("credential headers: %v", rec.Header())
	}
}

func TestCORSConfigFinalize(t *testing.T) {
	t.Setenv("ATLAS_TEST_CORS_ENABLED", "true")
	t.Setenv("ATLAS_TEST_CORS_ORIGINS", "http://a.test, ,http://b.test")
	t.Setenv("ATLAS_TEST_CORS_MAX_AGE", "120")

	var cfg middleware.CORSConfig
	err := cfg.Finalize(&middleware.CORSEnv{
		Enabled: "ATLAS_TEST_CORS_ENABLED",
		Origins: "ATLAS_TEST_CORS_ORIGINS",
		MaxAge:  "ATLAS_TEST_CORS_MAX_AGE",
	})
	if err != nil {
		t.Fatal(err)
	}

	if !cfg.Enabled || cfg.MaxAge != 120 {
		t.Errorf("enabled=%v max_age=%d", cfg.Enabled, cfg.MaxAge)
	}
	if strings.Join(cfg.Origins, "|") != "http://a.test|http://b.test" {
		t.Errorf("origins = %v", cfg.Origins)
	}
	if len(cfg.AllowedMethods) != 5 || len(cfg.AllowedHeaders) != 3 {
		t.Errorf("defaults: methods=%v headers=%v", cfg.AllowedMethods, cfg.AllowedHeaders)
	}
}

func TestCORSConfigMerge(t *testing.T) {
	base := middleware.CORSConfig{Origins: []string{"http://base.test"}, MaxAge: 3600}
	base.Merge(&middleware.CORSConfig{Enabled: true, Origins: []string{"http://overlay.test"}, MaxAge: 7200})

	if !base.Enabled || base.Origins[0] != "http://overlay.test" || base.MaxAge != 7200 {
		t.Errorf("merged = %+v", base)
	}
}
