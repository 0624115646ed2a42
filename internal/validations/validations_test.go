package validations_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fra-atlas/atlas/internal/validations"
	"github.com/fra-atlas/atlas/pkg/pagination"
	"github.com/fra-atlas/atlas/pkg/quality"
	"github.com/fra-atlas/atlas/pkg/routes"
	"github.com/fra-atlas/atlas/pkg/tabular"
)

const (
	cleanCSV = "village,claims\nMandla,3\nDindori,5\n"
	dirtyCSV = "village,claims\nMandla,\nMandla,\nDindori,2\n"
)

func newMemory() validations.System {
	return validations.NewMemory(
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{DefaultPageSize: 20, MaxPageSize: 100},
	)
}

func parseCSV(t *testing.T, src string) quality.Dataset {
	t.Helper()
	ds, err := tabular.ParseCSV(strings.NewReader(src))
	require.NoError(t, err)
	return ds
}

func ptr[T any](v T) *T { return &v }

func TestMemoryCreate(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	tests := []struct {
		name       string
		src        string
		wantScore  float64
		wantReview bool
		wantIssues int
	}{
		{"clean dataset", cleanCSV, 1.0, false, 0},
		{"missing and duplicate rows", dirtyCSV, 0.5, true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := sys.Create(ctx, validations.CreateCommand{
				DatasetName: "claims.csv",
				DatasetType: "claims",
				Dataset:     parseCSV(t, tt.src),
			})
			require.NoError(t, err)

			assert.Equal(t, validations.StatusPending, v.ValidationStatus)
			assert.InDelta(t, tt.wantScore, v.ConfidenceScore, 1e-9)
			assert.Equal(t, tt.wantReview, v.RequiresManualReview)
			assert.Len(t, v.IssuesFound, tt.wantIssues)
			assert.NotNil(t, v.IssuesFound)
			assert.Equal(t, 2, v.ColumnCount)
		})
	}
}

func TestMemoryReview(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	v, err := sys.Create(ctx, validations.CreateCommand{
		DatasetName: "pattas.csv",
		DatasetType: "pattas",
		Dataset:     parseCSV(t, dirtyCSV),
	})
	require.NoError(t, err)

	reviewed, err := sys.Review(ctx, v.ID, validations.ReviewCommand{
		Status:      validations.StatusFail,
		Notes:       ptr("duplicate beneficiaries"),
		ValidatedBy: ptr("district officer"),
	})
	require.NoError(t, err)
	assert.Equal(t, validations.StatusFail, reviewed.ValidationStatus)
	assert.Equal(t, "district officer", *reviewed.ValidatedBy)

	found, err := sys.Find(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, validations.StatusFail, found.ValidationStatus)

	_, err = sys.Review(ctx, uuid.New(), validations.ReviewCommand{Status: validations.StatusPass})
	assert.ErrorIs(t, err, validations.ErrNotFound)
}

func TestMemoryList(t *testing.T) {
	ctx := context.Background()
	sys := newMemory()

	for _, src := range []string{cleanCSV, dirtyCSV, cleanCSV} {
		_, err := sys.Create(ctx, validations.CreateCommand{
			DatasetName: "survey.csv",
			DatasetType: "survey",
			Dataset:     parseCSV(t, src),
		})
		require.NoError(t, err)
	}

	all, err := sys.List(ctx, pagination.PageRequest{}, validations.Filters{})
	require.NoError(t, err)
	assert.Equal(t, 3, all.Total)

	review, err := sys.List(ctx, pagination.PageRequest{}, validations.Filters{RequiresManualReview: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, 1, review.Total)

	none, err := sys.List(ctx, pagination.PageRequest{}, validations.Filters{DatasetType: ptr("claims")})
	require.NoError(t, err)
	assert.Zero(t, none.Total)
}

func multipartBody(t *testing.T, filename, content, datasetType string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if datasetType != "" {
		require.NoError(t, w.WriteField("dataset_type", datasetType))
	}
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func setupMux(sys validations.System) *http.ServeMux {
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler(10<<20).Routes())
	return mux
}

func TestHandlerUpload(t *testing.T) {
	mux := setupMux(newMemory())

	tests := []struct {
		name        string
		filename    string
		content     string
		datasetType string
		want        int
	}{
		{"csv accepted", "claims.csv", cleanCSV, "claims", http.StatusCreated},
		{"missing dataset type", "claims.csv", cleanCSV, "", http.StatusBadRequest},
		{"unsupported extension", "claims.txt", cleanCSV, "claims", http.StatusUnsupportedMediaType},
		{"ragged rows", "claims.csv", "a,b\n1\n", "claims", http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, ct := multipartBody(t, tt.filename, tt.content, tt.datasetType)
			req := httptest.NewRequest("POST", "/validations", body)
			req.Header.Set("Content-Type", ct)
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestHandlerUploadFormErrors(t *testing.T) {
	sys := newMemory()

	t.Run("not multipart", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/validations", strings.NewReader(`{"rows":[]}`))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		setupMux(sys).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	})

	t.Run("over limit", func(t *testing.T) {
		mux := http.NewServeMux()
		routes.Register(mux, sys.Handler(64).Routes())

		body, ct := multipartBody(t, "claims.csv", strings.Repeat(cleanCSV, 20), "claims")
		req := httptest.NewRequest("POST", "/validations", body)
		req.Header.Set("Content-Type", ct)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
		assert.Contains(t, rec.Body.String(), "maximum upload size of 64 B")
	})
}

func TestHandlerRecordsAndReview(t *testing.T) {
	mux := setupMux(newMemory())

	body := `{"dataset_name":"rows","dataset_type":"claims","records":[{"village":"Mandla","claims":3},{"village":"Dindori","claims":5}]}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/validations/records", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var v validations.Validation
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	assert.Equal(t, 2, v.RecordCount)
	assert.InDelta(t, 1.0, v.ConfidenceScore, 1e-9)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("PUT", "/validations/"+v.ID.String()+"/review", strings.NewReader(`{"status":"pass","validated_by":"SDLC"}`)))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("PUT", "/validations/"+v.ID.String()+"/review", strings.NewReader(`{"status":"pending"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("POST", "/validations/records", strings.NewReader(`{"dataset_name":"rows","dataset_type":"claims","records":[{"a":1},{"b":2}]}`)))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest("GET", "/validations/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
