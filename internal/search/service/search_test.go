package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/changas-app/changas-backend/internal/search/biz"
)

// stubJobRepo serves a fixed job list; only the predicates exercised by
// these tests are applied.
type stubJobRepo struct {
	jobs []*biz.Job
}

func (r *stubJobRepo) FindOpen(_ context.Context, f *biz.SearchFilters) ([]*biz.Job, error) {
	var out []*biz.Job
	for _, j := range r.jobs {
		if j.Status != biz.StatusOpen {
			continue
		}
		if f.Category != nil && j.Category != *f.Category {
			continue
		}
		if f.MinPrice != nil && j.Price < *f.MinPrice {
			continue
		}
		out = append(out, j)
	}
	return out, nil
}

func (r *stubJobRepo) ListOpen(_ context.Context) ([]*biz.Job, error) {
	var out []*biz.Job
	for _, j := range r.jobs {
		if j.Status == biz.StatusOpen {
			out = append(out, j)
		}
	}
	return out, nil
}

func (r *stubJobRepo) CountByCategory(_ context.Context) ([]biz.CategoryCount, error) {
	return []biz.CategoryCount{
		{Category: "plomeria", Count: 2},
		{Category: "electricidad", Count: 1},
	}, nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := &stubJobRepo{jobs: []*biz.Job{
		{
			ID: "a", Title: "Arreglo de canilla", Category: "plomeria",
			Tags: []string{"urgente"}, Price: 10000, Location: "Palermo, CABA",
			Status: biz.StatusOpen,
			CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID: "b", Title: "Instalación eléctrica", Category: "electricidad",
			Tags: []string{"urgente"}, Price: 30000, Location: "Recoleta, CABA",
			Status: biz.StatusOpen,
			CreatedAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
		},
	}}

	uc := biz.NewSearchUseCase(repo, biz.Config{}, nil, zap.NewNop())
	svc := NewSearchService(uc, zap.NewNop())

	router := gin.New()
	svc.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func doGet(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestSearchJobs_Endpoint(t *testing.T) {
	router := testRouter(t)

	w, body := doGet(t, router, "/api/v1/search/jobs?category=plomeria")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	job := data[0].(map[string]interface{})
	assert.Equal(t, "a", job["id"])
	assert.Equal(t, "plomeria", job["category"])

	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(10), pagination["limit"])
	assert.Equal(t, float64(1), pagination["total"])
	assert.Equal(t, float64(1), pagination["pages"])
}

func TestSearchJobs_Endpoint_DefaultSort(t *testing.T) {
	router := testRouter(t)

	w, body := doGet(t, router, "/api/v1/search/jobs")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	// Newest first by default.
	assert.Equal(t, "b", data[0].(map[string]interface{})["id"])
	assert.Equal(t, "a", data[1].(map[string]interface{})["id"])
}

func TestSearchJobs_Endpoint_UppercaseSortOrder(t *testing.T) {
	router := testRouter(t)

	w, body := doGet(t, router, "/api/v1/search/jobs?sortBy=price&sortOrder=ASC")
	assert.Equal(t, http.StatusOK, w.Code)

	// Direction casing on the wire must not flip the order.
	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "a", data[0].(map[string]interface{})["id"])
	assert.Equal(t, "b", data[1].(map[string]interface{})["id"])
}

func TestSearchJobs_Endpoint_BadParams(t *testing.T) {
	router := testRouter(t)

	tests := []struct {
		name string
		path string
	}{
		{"non-numeric price", "/api/v1/search/jobs?minPrice=cheap"},
		{"non-boolean remoteOk", "/api/v1/search/jobs?remoteOk=maybe"},
		{"malformed date", "/api/v1/search/jobs?startDateFrom=tomorrow"},
		{"zero page", "/api/v1/search/jobs?page=0"},
		{"zero limit", "/api/v1/search/jobs?limit=0"},
		{"limit above maximum", "/api/v1/search/jobs?limit=5000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := doGet(t, router, tt.path)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestPopularTags_Endpoint(t *testing.T) {
	router := testRouter(t)

	w, body := doGet(t, router, "/api/v1/search/tags?limit=5")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])

	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	tag := data[0].(map[string]interface{})
	assert.Equal(t, "urgente", tag["tag"])
	assert.Equal(t, float64(2), tag["count"])
}

func TestCategories_Endpoint(t *testing.T) {
	router := testRouter(t)

	w, body := doGet(t, router, "/api/v1/search/categories")
	assert.Equal(t, http.StatusOK, w.Code)

	data := body["data"].([]interface{})
	require.Len(t, data, 2)
	assert.Equal(t, "plomeria", data[0].(map[string]interface{})["category"])
}

func TestSuggestions_Endpoint(t *testing.T) {
	router := testRouter(t)

	w, body := doGet(t, router, "/api/v1/search/suggestions?query=elec")
	assert.Equal(t, http.StatusOK, w.Code)

	// The accented title does not contain the plain "elec"; only the
	// category matches.
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "electricidad", data[0])
}

func TestSuggestions_Endpoint_NoQuery(t *testing.T) {
	router := testRouter(t)

	w, body := doGet(t, router, "/api/v1/search/suggestions")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Empty(t, body["data"])
}
