package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/latency-dashboard/internal/auth"
	"github.com/OldStager01/latency-dashboard/internal/chart"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

const source = `Server response times
Time,srv1,srv2
2024-01-01T00:00:00,"250 µs","50 µs"
2024-01-02T00:00:00,"80 µs","1200 µs"
`

func init() {
	gin.SetMode(gin.TestMode)
	logger.Silence()
}

func newService(t *testing.T) *dashboard.Service {
	t.Helper()
	table, err := dataset.NewLoader(time.UTC).Normalize(strings.NewReader(source))
	require.NoError(t, err)
	return dashboard.NewService(dataset.NewStaticCache(table), dashboard.DefaultBounds())
}

func newRouter(t *testing.T, svc DashboardService) *gin.Engine {
	t.Helper()
	tmpl, err := Templates()
	require.NoError(t, err)

	h := NewDashboardHandler(svc, "")
	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.GET("/", h.Page)
	r.GET("/api/servers", h.Servers)
	r.GET("/api/view", h.View)
	r.GET("/api/status", h.Status)
	r.GET("/api/chart.png", h.Chart(chart.FormatPNG))
	r.GET("/api/chart.svg", h.Chart(chart.FormatSVG))
	r.GET("/api/export", h.Export)
	r.POST("/api/reload", h.Reload)
	return r
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func TestStatus(t *testing.T) {
	r := newRouter(t, newService(t))

	tests := []struct {
		name     string
		query    string
		code     int
		status   models.Status
		latest   float64
		errorHas string
	}{
		{name: "defaults use first server and last row", query: "", code: http.StatusOK, status: models.StatusOK, latest: 80},
		{name: "single day range", query: "?start=2024-01-01&end=2024-01-01", code: http.StatusOK, status: models.StatusWarning, latest: 250},
		{name: "fail above max", query: "?server=srv2", code: http.StatusOK, status: models.StatusFail, latest: 1200000},
		{name: "custom thresholds", query: "?server=srv1&min=10&max=50", code: http.StatusOK, status: models.StatusFail, latest: 80},
		{name: "empty period", query: "?start=2023-01-01&end=2023-01-31", code: http.StatusOK, status: models.StatusOK, latest: 0},
		{name: "unknown server", query: "?server=srv9", code: http.StatusNotFound, errorHas: "srv9"},
		{name: "single date", query: "?start=2024-01-01", code: http.StatusBadRequest, errorHas: "both start and end"},
		{name: "reversed range", query: "?start=2024-01-02&end=2024-01-01", code: http.StatusBadRequest, errorHas: "after"},
		{name: "min above max", query: "?min=600&max=500", code: http.StatusBadRequest, errorHas: "greater than"},
		{name: "threshold outside slider", query: "?max=20000", code: http.StatusBadRequest, errorHas: "within"},
		{name: "server name with comma", query: "?server=srv1%2Csrv2", code: http.StatusBadRequest, errorHas: "commas"},
		{name: "padded server name", query: "?server=%20srv2%20", code: http.StatusOK, status: models.StatusFail, latest: 1200000},
		{name: "non numeric threshold", query: "?min=abc", code: http.StatusBadRequest, errorHas: "invalid selection"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/api/status"+tt.query)
			require.Equal(t, tt.code, w.Code, w.Body.String())

			if tt.code != http.StatusOK {
				var body map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
				assert.Contains(t, body["error"], tt.errorHas)
				return
			}

			var resp StatusResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
			assert.Equal(t, tt.latest, resp.LatestValue)
			assert.Equal(t, "Status atual: "+string(tt.status), resp.Text)
		})
	}
}

func TestView(t *testing.T) {
	r := newRouter(t, newService(t))

	w := get(r, "/api/view?server=srv2&start=2024-01-01&end=2024-01-02")
	require.Equal(t, http.StatusOK, w.Code)

	var vm models.ViewModel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &vm))
	assert.Equal(t, "srv2", vm.Selection.Server)
	assert.Equal(t, 2, vm.Rows)
	assert.Equal(t, "Tempo de Resposta para o servidor srv2", vm.Chart.Title)
	require.Len(t, vm.Chart.Points, 2)
	assert.Equal(t, 50.0, vm.Chart.Points[0].Value)
	require.Len(t, vm.Chart.ReferenceLines, 2)
}

func TestServers(t *testing.T) {
	r := newRouter(t, newService(t))

	w := get(r, "/api/servers")
	require.Equal(t, http.StatusOK, w.Code)

	var resp ServersResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, []string{"srv1", "srv2"}, resp.Servers)
	assert.Equal(t, 2, resp.Rows)
	require.NotNil(t, resp.First)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), resp.First.UTC())
	assert.Equal(t, dashboard.DefaultBounds(), resp.Bounds)
}

func TestNotLoaded(t *testing.T) {
	svc := dashboard.NewService(dataset.NewCache("", nil), dashboard.DefaultBounds())
	r := newRouter(t, svc)

	for _, target := range []string{"/api/servers", "/api/status", "/api/export", "/"} {
		w := get(r, target)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, target)
	}
}

func TestExport(t *testing.T) {
	r := newRouter(t, newService(t))

	w := get(r, "/api/export?start=2024-01-02&end=2024-01-02")
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="dados.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Time,srv1,srv2\n2024-01-02 00:00:00,80,1200000\n", w.Body.String())
}

func TestExport_RoundTrip(t *testing.T) {
	r := newRouter(t, newService(t))

	w := get(r, "/api/export")
	require.Equal(t, http.StatusOK, w.Code)

	table, err := dataset.ReadExport(strings.NewReader(w.Body.String()), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"srv1", "srv2"}, table.Servers)
	assert.Equal(t, 2, table.Len())
}

func TestChart(t *testing.T) {
	r := newRouter(t, newService(t))

	t.Run("png", func(t *testing.T) {
		w := get(r, "/api/chart.png?server=srv1&width=400&height=300")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
	})

	t.Run("svg", func(t *testing.T) {
		w := get(r, "/api/chart.svg")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<svg")
	})

	t.Run("empty period", func(t *testing.T) {
		w := get(r, "/api/chart.png?start=2023-01-01&end=2023-01-01")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(w.Body.String(), "\x89PNG"))
	})

	t.Run("invalid size", func(t *testing.T) {
		w := get(r, "/api/chart.png?width=10")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPage(t *testing.T) {
	r := newRouter(t, newService(t))

	w := get(r, "/?server=srv2")
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Status atual: FAIL")
	assert.Contains(t, body, "Tempo de Resposta para o servidor srv2")
	assert.Contains(t, body, `<option value="srv2" selected>`)
	assert.Contains(t, body, "/api/chart.png?max=500&amp;min=100&amp;server=srv2")
	assert.Contains(t, body, "2 linhas, média 600025 µs, p95 1200000 µs, tendência stable, 1 acima do máximo")

	w = get(r, "/?server=nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "nope")
}

type reloadStub struct {
	DashboardService
	table *models.Table
	err   error
}

func (s reloadStub) Reload(context.Context) (*models.Table, error) {
	return s.table, s.err
}

func TestReload(t *testing.T) {
	svc := newService(t)
	table, err := svc.Table()
	require.NoError(t, err)

	t.Run("success", func(t *testing.T) {
		r := newRouter(t, reloadStub{DashboardService: svc, table: table})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
		require.Equal(t, http.StatusOK, w.Code)

		var resp ReloadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Rows)
	})

	t.Run("malformed source", func(t *testing.T) {
		fail := &dataset.FormatError{Row: 3, Column: "srv1", Value: "abc", Reason: "not a number"}
		r := newRouter(t, reloadStub{DashboardService: svc, err: fail})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/reload", nil))
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "srv1")
	})
}

type fakeHistory struct {
	limit  int
	server string
	checks []models.StatusCheck
}

func (f *fakeHistory) Recent(_ context.Context, server string, limit int) ([]models.StatusCheck, error) {
	f.server, f.limit = server, limit
	return f.checks, nil
}

func (f *fakeHistory) CountByStatus(context.Context, string, time.Time) (map[models.Status]int64, error) {
	return map[models.Status]int64{models.StatusOK: 3, models.StatusFail: 1}, nil
}

func TestHistory(t *testing.T) {
	store := &fakeHistory{checks: []models.StatusCheck{{Server: "srv1", Status: models.StatusOK}}}
	h := NewHistoryHandler(store, 20, 100)
	r := gin.New()
	r.GET("/api/history", h.List)

	w := get(r, "/api/history?server=srv1&limit=500")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, store.limit)
	assert.Equal(t, "srv1", store.server)

	var resp HistoryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, int64(3), resp.Totals[models.StatusOK])

	get(r, "/api/history")
	assert.Equal(t, 20, store.limit)

	w = get(r, "/api/history?limit=-1")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistory_Disabled(t *testing.T) {
	r := gin.New()
	r.GET("/api/history", NewHistoryHandler(nil, 0, 0).List)

	w := get(r, "/api/history")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name  string
		svc   *dashboard.Service
		code  int
		check string
	}{
		{name: "loaded", svc: newService(t), code: http.StatusOK, check: "loaded"},
		{name: "not loaded", svc: dashboard.NewService(dataset.NewCache("", nil), dashboard.DefaultBounds()), code: http.StatusServiceUnavailable, check: "not loaded"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHealthHandler(tt.svc, nil)
			r := gin.New()
			r.GET("/health", h.Health)
			r.GET("/health/ready", h.Ready)
			r.GET("/health/live", h.Live)

			w := get(r, "/health")
			require.Equal(t, tt.code, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.check, resp.Checks["dataset"])

			assert.Equal(t, tt.code, get(r, "/health/ready").Code)
			assert.Equal(t, http.StatusOK, get(r, "/health/live").Code)
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)

	authService := auth.NewService("test-secret", time.Hour)
	h := NewAuthHandler(auth.Operator{Username: "admin", PasswordHash: hash}, authService)
	r := gin.New()
	r.POST("/auth/login", h.Login)

	post := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post(`{"username":"admin","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3600, resp.ExpiresIn)
	claims, err := authService.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)

	assert.Equal(t, http.StatusUnauthorized, post(`{"username":"admin","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{"username":"admin"}`).Code)

	w = post(`{"username":"ad min","password":"secret"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "username must contain only")
}
