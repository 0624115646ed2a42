package api_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fra-atlas/atlas/internal/api"
	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/internal/infrastructure"
	"github.com/fra-atlas/atlas/pkg/middleware"
	"github.com/fra-atlas/atlas/pkg/module"
)

func memoryRouter(t *testing.T) *module.Router {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvAtlasPersistence, config.PersistenceMemory)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatalf("infrastructure: %v", err)
	}

	m, err := api.NewModule(cfg, infra)
	if err != nil {
		t.Fatalf("module: %v", err)
	}
	if m.Prefix() != "/api" {
		t.Fatalf("prefix = %s", m.Prefix())
	}

	router := module.NewRouter()
	router.Mount(m)
	return router
}

func TestMemoryModeRoutes(t *testing.T) {
	router := memoryRouter(t)

	tests := []struct {
		name     string
		method   string
		path     string
		body     string
		wantCode int
	}{
		{"claims list", "GET", "/api/claims", "", http.StatusOK},
		{"validations list", "GET", "/api/validations", "", http.StatusOK},
		{"extract text", "POST", "/api/documents/extract-text", `{"text":"FORM A\nName: Rajesh Kumar\nVillage: Banswara"}`, http.StatusOK},
		{"satellite", "POST", "/api/satellite/analyze", "", http.StatusOK},
		{"dashboard needs database", "GET", "/api/dashboard/stats", "", http.StatusNotFound},
		{"villages need database", "GET", "/api/villages", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			if tt.body != "" {
				req.Header.Set("Content-Type", "application/json")
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if rec.Header().Get(middleware.RequestIDHeader) == "" {
				t.Error("missing request id header")
			}
		})
	}
}

func TestNewRuntime(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvAtlasPersistence, config.PersistenceMemory)

	cfg, err := config.Load()
	if err != nil {
		t.Fatal(err)
	}
	infra, err := infrastructure.New(cfg)
	if err != nil {
		t.Fatal(err)
	}

	runtime := api.NewRuntime(cfg, infra)
	if runtime.Persistent() {
		t.Error("memory runtime reports persistent")
	}
	if runtime.MaxUploadSize != cfg.API.MaxUploadSizeBytes() || runtime.MaxUploadSize == 0 {
		t.Errorf("max upload size = %d", runtime.MaxUploadSize)
	}

	domain := api.NewDomain(runtime)
	if domain.Persistent() || domain.Claims == nil || domain.Validations == nil || domain.Processor == nil {
		t.Errorf("memory domain = %+v", domain)
	}
}
