package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/spacesedan/sentify/internal/analysis"
	"github.com/spacesedan/sentify/internal/dataset"
	"github.com/spacesedan/sentify/internal/models"
	"github.com/spacesedan/sentify/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockAnalyzer struct {
	catalog     *dataset.Catalog
	reports     map[string]report.Report
	err         error
	lastProduct string
	lastBrand   string
}

func (m *mockAnalyzer) Analyze(_ context.Context, product, brand string) (report.Report, error) {
	m.lastProduct, m.lastBrand = product, brand
	if m.err != nil {
		return report.Report{}, m.err
	}
	rep, ok := m.reports[product+"/"+brand]
	if !ok {
		return report.Report{}, fmt.Errorf("load: %w", dataset.ErrNoReviews)
	}
	return rep, nil
}

func (m *mockAnalyzer) Catalog() *dataset.Catalog { return m.catalog }

type mockHistory struct {
	records   []models.AnalysisRecord
	lastLimit int
	lastBrand string
}

func (m *mockHistory) History(_ context.Context, _, brand string, limit int) ([]models.AnalysisRecord, error) {
	m.lastLimit = limit
	m.lastBrand = brand
	return m.records, nil
}

func newMockAnalyzer(t *testing.T) *mockAnalyzer {
	t.Helper()
	catalog, err := dataset.LoadCatalog("")
	require.NoError(t, err)

	result := analysis.Result{Total: 10, PositivePct: 60, NegativePct: 20, NeutralPct: 20, HappyPct: 60, AngryPct: 20, EmotionNeutralPct: 20, Score: 90}
	return &mockAnalyzer{
		catalog: catalog,
		reports: map[string]report.Report{
			"mobile/samsung": report.New("Mobile Phones", "samsung", result, analysis.DecisionRecommended),
		},
	}
}

func do(t *testing.T, srv *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := do(t, NewServer(newMockAnalyzer(t), nil), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHandleProducts(t *testing.T) {
	rec := do(t, NewServer(newMockAnalyzer(t), nil), "/products")
	require.Equal(t, http.StatusOK, rec.Code)

	var products []productResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &products))
	require.Len(t, products, 4)
	assert.Equal(t, productResponse{Key: "headphones", DisplayName: "Headphones"}, products[0])
}

func TestHandleResults_JSON(t *testing.T) {
	rec := do(t, NewServer(newMockAnalyzer(t), nil), "/results/mobile/samsung")
	require.Equal(t, http.StatusOK, rec.Code)

	var rep report.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rep))
	assert.Equal(t, "Samsung", rep.Brand)
	assert.Equal(t, 90.0, rep.Result.Score)
	assert.Equal(t, analysis.DecisionRecommended, rep.Decision)
	assert.Contains(t, rec.Body.String(), `"negative_pct":20`)
}

func TestHandleResults_HTML(t *testing.T) {
	rec := do(t, NewServer(newMockAnalyzer(t), nil), "/results/mobile/samsung?format=html")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<h2>Recommended to Buy</h2>")
}

func TestHandleResults_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		path     string
		wantCode int
		wantBody string
	}{
		{"no reviews", nil, "/results/mobile/nokia", http.StatusNotFound, "no reviews found"},
		{"unknown product", fmt.Errorf("x: %w", dataset.ErrUnknownProduct), "/results/toaster/acme", http.StatusNotFound, "invalid product"},
		{"no data", fmt.Errorf("x: %w", analysis.ErrNoData), "/results/mobile/blank", http.StatusNotFound, "no reviews found"},
		{"internal", errors.New("disk on fire"), "/results/mobile/samsung", http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newMockAnalyzer(t)
			a.err = tt.err
			rec := do(t, NewServer(a, nil), tt.path)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
		})
	}
}

func TestHandleHistory(t *testing.T) {
	record := models.NewAnalysisRecord("mobile", "samsung", analysis.Result{Total: 1, Score: 100}, analysis.DecisionRecommended)
	history := &mockHistory{records: []models.AnalysisRecord{record}}
	srv := NewServer(newMockAnalyzer(t), history)

	rec := do(t, srv, "/history/mobile/samsung")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DEFAULT_HISTORY_LIMIT, history.lastLimit)

	var records []models.AnalysisRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, record.ID, records[0].ID)

	rec = do(t, srv, "/history/mobile/samsung?limit=3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, history.lastLimit)

	rec = do(t, srv, "/history/mobile/samsung?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleHistory_EmptyAndDisabled(t *testing.T) {
	rec := do(t, NewServer(newMockAnalyzer(t), &mockHistory{}), "/history/laptop/dell")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, NewServer(newMockAnalyzer(t), nil), "/history/laptop/dell")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleResults_DecodesPathParams(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantBrand string
	}{
		{"space", "/results/mobile/hp%20pavilion", "hp pavilion"},
		{"encoded slash", "/results/mobile/ac%2Fdc", "ac/dc"},
		{"markup", "/results/mobile/%3Cimg%20src=x%3E", "<img src=x>"},
		{"plain", "/results/mobile/samsung", "samsung"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newMockAnalyzer(t)
			do(t, NewServer(a, nil), tt.path)

			assert.Equal(t, "mobile", a.lastProduct)
			assert.Equal(t, tt.wantBrand, a.lastBrand)
		})
	}
}

func TestHandleHistory_DecodesPathParams(t *testing.T) {
	history := &mockHistory{}
	rec := do(t, NewServer(newMockAnalyzer(t), history), "/history/laptop/hp%20pavilion")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hp pavilion", history.lastBrand)
}

func TestHandleResults_BadEscape(t *testing.T) {
	a := newMockAnalyzer(t)
	srv := NewServer(a, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)
	c.SetParamNames("product", "brand")
	c.SetParamValues("mobile", "%zz")

	require.NoError(t, srv.handleResults(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid brand segment")
	assert.Empty(t, a.lastBrand)
}
