package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fra-atlas/atlas/internal/config"
	"github.com/fra-atlas/atlas/internal/infrastructure"
)

func TestProbes(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvAtlasPersistence, config.PersistenceMemory)
	t.Setenv(config.EnvAtlasVersion, "1.2.3")

	cfg, err := config.Load()
	require.NoError(t, err)

	infra, err := infrastructure.New(cfg)
	require.NoError(t, err)

	router, err := newRouter(cfg, infra)
	require.NoError(t, err)

	probe := func(path string) (int, map[string]any) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest("GET", path, nil))
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		return rec.Code, body
	}

	code, body := probe("/healthz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "1.2.3", body["version"])

	code, body = probe("/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body["status"])

	require.NoError(t, infra.Start())
	infra.Lifecycle.WaitForStartup()

	code, body = probe("/readyz")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body["status"])
}
