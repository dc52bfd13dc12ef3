package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/latency-dashboard/pkg/models"
)

func TestMetrics_Exposition(t *testing.T) {
	m := New()
	m.ObserveLoad(&models.Table{Servers: []string{"a", "b"}, Rows: make([]models.Row, 3)}, 12*time.Millisecond)
	m.IncLoadErrors()
	m.IncExports()
	m.ObserveEvaluation("b", models.StatusFail, 900, 0)
	m.ObserveEvaluation("a", models.StatusOK, 50, 0)
	m.ObserveEvaluation("a", models.StatusWarning, 250.5, 0)
	m.ObserveEvaluation("a", models.StatusWarning, 250.5, 0)
	m.SetCircuitBreakerState("history", 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")

	body := rec.Body.String()
	for _, line := range []string{
		"dashboard_loads_total 1",
		"dashboard_load_errors_total 1",
		"dashboard_exports_total 1",
		"dashboard_table_rows 3",
		"dashboard_table_servers 2",
		"dashboard_load_latency_ms 12",
		`dashboard_evaluations_total{server="a",status="OK"} 1`,
		`dashboard_evaluations_total{server="a",status="WARNING"} 2`,
		`dashboard_evaluations_total{server="b",status="FAIL"} 1`,
		`dashboard_latest_response_time_microseconds{server="a"} 250.5`,
		`dashboard_circuit_breaker_state{name="history"} 1`,
	} {
		assert.Contains(t, body, line+"\n")
	}

	assert.Less(t, strings.Index(body, `server="a",status="OK"`), strings.Index(body, `server="b",status="FAIL"`))
}

func TestMetrics_Evaluations(t *testing.T) {
	m := New()
	assert.Zero(t, m.Evaluations("missing", models.StatusOK))

	m.ObserveEvaluation("s1", models.StatusOK, 1, time.Microsecond)
	assert.Equal(t, int64(1), m.Evaluations("s1", models.StatusOK))
}

func TestNewServer(t *testing.T) {
	srv := NewServer(9999, New())
	assert.Equal(t, ":9999", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
