package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/latency-dashboard/api/handlers"
	"github.com/OldStager01/latency-dashboard/api/websocket"
	"github.com/OldStager01/latency-dashboard/internal/auth"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/events"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/internal/metrics"
	"github.com/OldStager01/latency-dashboard/pkg/config"
)

const source = `Server response times
Time,srv1,srv2
2024-01-01T00:00:00,"250 µs","50 µs"
2024-01-02T00:00:00,"80 µs","1200 µs"
`

func init() {
	logger.Silence()
}

type testServer struct {
	server  *Server
	http    *httptest.Server
	path    string
	metrics *metrics.Metrics
	bus     *events.EventBus
}

func newTestServer(t *testing.T, authEnabled bool) *testServer {
	t.Helper()

	cfg, err := config.LoadWith(viper.New(), "")
	require.NoError(t, err)
	cfg.App.Mode = "test"
	cfg.API.JWTSecret = "test-secret"
	if authEnabled {
		hash, err := auth.HashPassword("secret")
		require.NoError(t, err)
		cfg.API.Auth = config.AuthConfig{Enabled: true, Username: "admin", PasswordHash: hash}
	}

	path := filepath.Join(t.TempDir(), "source.csv")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))

	cache := dataset.NewCache(path, dataset.NewLoader(time.UTC))
	_, err = cache.Reload(context.Background())
	require.NoError(t, err)

	bus := events.NewEventBus(64)
	m := metrics.New()
	svc := dashboard.NewService(cache, dashboard.DefaultBounds(),
		dashboard.WithPublisher(events.NewPublisher(bus)),
		dashboard.WithMetrics(m),
	)

	s, err := NewServer(cfg, Dependencies{Service: svc, Bus: bus, Metrics: m})
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)

	ts := httptest.NewServer(s.Router())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		s.Shutdown(ctx)
		bus.Close()
	})

	return &testServer{server: s, http: ts, path: path, metrics: m, bus: bus}
}

func (ts *testServer) do(t *testing.T, method, path, token string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, ts.http.URL+path, nil)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func (ts *testServer) login(t *testing.T) string {
	t.Helper()
	resp, err := http.Post(ts.http.URL+"/auth/login", "application/json",
		strings.NewReader(`{"username":"admin","password":"secret"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login handlers.LoginResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	return login.Token
}

func TestServer_Routes(t *testing.T) {
	ts := newTestServer(t, false)

	tests := []struct {
		path        string
		code        int
		contentType string
		contains    string
	}{
		{path: "/health", code: http.StatusOK, contentType: "application/json", contains: "loaded"},
		{path: "/", code: http.StatusOK, contentType: "text/html", contains: "Status atual: OK"},
		{path: "/api/servers", code: http.StatusOK, contentType: "application/json", contains: "srv2"},
		{path: "/api/status?start=2024-01-01&end=2024-01-01", code: http.StatusOK, contentType: "application/json", contains: "WARNING"},
		{path: "/api/export", code: http.StatusOK, contentType: "text/csv", contains: "Time,srv1,srv2"},
		{path: "/api/chart.svg", code: http.StatusOK, contentType: "image/svg+xml", contains: "<svg"},
		{path: "/api/history", code: http.StatusServiceUnavailable, contentType: "application/json", contains: "disabled"},
		{path: "/swagger/doc.json", code: http.StatusOK, contains: "/api/status"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := ts.do(t, http.MethodGet, tt.path, "")
			assert.Equal(t, tt.code, resp.StatusCode, body)
			assert.Contains(t, resp.Header.Get("Content-Type"), tt.contentType)
			assert.Contains(t, body, tt.contains)
			assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))
			assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
		})
	}

	_, body := ts.do(t, http.MethodGet, "/metrics", "")
	assert.Contains(t, body, `dashboard_evaluations_total{server="srv1",status="WARNING"} 1`)
	assert.Contains(t, body, "dashboard_exports_total 1")
}

func TestServer_ReloadRequiresToken(t *testing.T) {
	ts := newTestServer(t, true)

	resp, _ := ts.do(t, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/reload", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := ts.login(t)

	require.NoError(t, os.WriteFile(ts.path, []byte(source+"2024-01-03T00:00:00,\"900 µs\",\"10 µs\"\n"), 0o644))
	resp, body := ts.do(t, http.MethodPost, "/api/reload", token)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Contains(t, body, `"rows":3`)

	_, body = ts.do(t, http.MethodGet, "/api/status", "")
	assert.Contains(t, body, `"status":"FAIL"`)

	// A broken source is rejected and the previous table keeps serving
	require.NoError(t, os.WriteFile(ts.path, []byte(source+"2024-01-03T00:00:00,abc,1\n"), 0o644))
	resp, body = ts.do(t, http.MethodPost, "/api/reload", token)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "srv1")

	_, body = ts.do(t, http.MethodGet, "/api/servers", "")
	assert.Contains(t, body, `"rows":3`)
}

func TestServer_ReloadOpenWithoutAuth(t *testing.T) {
	ts := newTestServer(t, false)

	resp, _ := ts.do(t, http.MethodPost, "/api/reload", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/auth/login", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_WebSocketStatusPush(t *testing.T) {
	ts := newTestServer(t, false)

	url := "ws" + strings.TrimPrefix(ts.http.URL, "http") + "/ws?server=srv1"
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return ts.server.WebSocketHub().ClientCount() == 1
	}, 2*time.Second, 10*time.Millisecond)

	// Other servers are not delivered to this subscription
	ts.do(t, http.MethodGet, "/api/status?server=srv2", "")
	ts.do(t, http.MethodGet, "/api/status?server=srv1", "")

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)

		var msg websocket.OutgoingMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		require.NotEqual(t, "srv2", msg.Server)
		if msg.Type != websocket.MessageTypeStatus {
			continue
		}

		assert.Equal(t, "srv1", msg.Server)
		assert.NotEmpty(t, msg.TraceID)
		status, ok := msg.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "OK", status["status"])
		assert.Equal(t, "Status atual: OK", status["text"])
		return
	}
}
