package metrics

import (
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

const namespace = "dashboard"

type Metrics struct {
	mu sync.RWMutex

	// Counters
	loadsTotal   int64
	loadErrors   int64
	exportsTotal int64
	evaluations  map[string]map[models.Status]int64 // server -> status -> count

	// Gauges
	tableRows           int
	tableServers        int
	latestValue         map[string]float64
	circuitBreakerState map[string]int // 0=closed, 1=open, 2=half-open

	// Last observed durations
	loadLatency       time.Duration
	evaluationLatency map[string]time.Duration
}

var (
	instance *Metrics
	once     sync.Once
)

// Get returns the process-wide registry.
func Get() *Metrics {
	once.Do(func() {
		instance = New()
	})
	return instance
}

func New() *Metrics {
	return &Metrics{
		evaluations:         make(map[string]map[models.Status]int64),
		latestValue:         make(map[string]float64),
		circuitBreakerState: make(map[string]int),
		evaluationLatency:   make(map[string]time.Duration),
	}
}

func (m *Metrics) ObserveLoad(table *models.Table, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadsTotal++
	m.tableRows = table.Len()
	m.tableServers = len(table.Servers)
	m.loadLatency = d
}

func (m *Metrics) IncLoadErrors() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadErrors++
}

func (m *Metrics) IncExports() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exportsTotal++
}

func (m *Metrics) ObserveEvaluation(server string, status models.Status, latest float64, d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.evaluations[server] == nil {
		m.evaluations[server] = make(map[models.Status]int64)
	}
	m.evaluations[server][status]++
	m.latestValue[server] = latest
	m.evaluationLatency[server] = d
}

func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.circuitBreakerState[name] = state
}

func (m *Metrics) Evaluations(server string, status models.Status) int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.evaluations[server][status]
}

func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		m.WriteTo(w)
	})
}

// WriteTo writes all series in the Prometheus text format, sorted by
// label so scrapes are stable.
func (m *Metrics) WriteTo(w io.Writer) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var b strings.Builder

	writeMetric(&b, "loads_total", nil, float64(m.loadsTotal))
	writeMetric(&b, "load_errors_total", nil, float64(m.loadErrors))
	writeMetric(&b, "exports_total", nil, float64(m.exportsTotal))
	writeMetric(&b, "table_rows", nil, float64(m.tableRows))
	writeMetric(&b, "table_servers", nil, float64(m.tableServers))
	writeMetric(&b, "load_latency_ms", nil, float64(m.loadLatency.Milliseconds()))

	for _, server := range sortedKeys(m.evaluations) {
		statuses := m.evaluations[server]
		for _, status := range []models.Status{models.StatusOK, models.StatusWarning, models.StatusFail} {
			if count, ok := statuses[status]; ok {
				writeMetric(&b, "evaluations_total", map[string]string{"server": server, "status": string(status)}, float64(count))
			}
		}
	}

	for _, server := range sortedKeys(m.latestValue) {
		writeMetric(&b, "latest_response_time_microseconds", map[string]string{"server": server}, m.latestValue[server])
	}

	for _, server := range sortedKeys(m.evaluationLatency) {
		writeMetric(&b, "evaluation_latency_us", map[string]string{"server": server}, float64(m.evaluationLatency[server].Microseconds()))
	}

	for _, name := range sortedKeys(m.circuitBreakerState) {
		writeMetric(&b, "circuit_breaker_state", map[string]string{"name": name}, float64(m.circuitBreakerState[name]))
	}

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func writeMetric(b *strings.Builder, name string, labels map[string]string, value float64) {
	b.WriteString(namespace)
	b.WriteByte('_')
	b.WriteString(name)
	if len(labels) > 0 {
		b.WriteByte('{')
		for i, k := range sortedKeys(labels) {
			if i > 0 {
				b.WriteByte(',')
			}
			fmt.Fprintf(b, "%s=%q", k, labels[k])
		}
		b.WriteByte('}')
	}
	b.WriteByte(' ')
	b.WriteString(strconv.FormatFloat(value, 'f', -1, 64))
	b.WriteByte('\n')
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewServer builds the standalone metrics listener. The caller owns
// ListenAndServe and Shutdown.
func NewServer(port int, m *Metrics) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	addr := ":" + strconv.Itoa(port)
	logger.Infof("Prometheus metrics server listening on %s", addr)

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
