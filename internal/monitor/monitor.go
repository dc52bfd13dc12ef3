package monitor

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

// Service is the part of the dashboard service a monitor drives.
type Service interface {
	Reload(ctx context.Context) (*models.Table, error)
	Evaluate(ctx context.Context, in dashboard.SelectionInput) (*models.ViewModel, error)
}

type Config struct {
	Interval time.Duration
	// Servers to evaluate after each reload. Empty means every column.
	Servers []string
}

// CycleResult is the outcome of one reload and evaluation pass.
type CycleResult struct {
	Rows     int
	Statuses map[string]models.Status
	Skipped  []string
}

// Monitor reloads the source on a fixed interval and evaluates the watched
// servers with the default thresholds. Evaluations go through the service,
// so they reach history, alerts and websocket clients like any request.
type Monitor struct {
	config  Config
	service Service
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
	mu      sync.Mutex
}

func New(cfg Config, svc Service) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Minute
	}
	return &Monitor{config: cfg, service: svc}
}

func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return
	}

	// a fresh context per run, so a stopped monitor can be started again
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	go m.run(ctx)

	logger.Infof("Monitor started, reloading every %s", m.config.Interval)
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.mu.Unlock()

	cancel()
	m.wg.Wait()

	logger.Info("Monitor stopped")
}

func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

func (m *Monitor) run(ctx context.Context) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.runCycle(ctx)
		}
	}
}

func (m *Monitor) runCycle(parent context.Context) {
	ctx, cancel := context.WithTimeout(parent, m.config.Interval)
	defer cancel()
	ctx = logger.WithTraceID(ctx, uuid.New().String())

	if _, err := m.RunOnce(ctx); err != nil {
		logger.WarnCtxf(ctx, "Monitor cycle failed: %v", err)
	}
}

// RunOnce reloads the source and evaluates the watched servers. A failed
// reload stops the cycle; the previous table keeps serving.
func (m *Monitor) RunOnce(ctx context.Context) (*CycleResult, error) {
	table, err := m.service.Reload(ctx)
	if err != nil {
		return nil, err
	}

	result := &CycleResult{Rows: table.Len(), Statuses: make(map[string]models.Status)}

	servers := m.config.Servers
	if len(servers) == 0 {
		servers = table.Servers
	}

	for _, server := range servers {
		if !slices.Contains(table.Servers, server) {
			result.Skipped = append(result.Skipped, server)
			logger.WithServer(server).Warn("Watched server is not a column of the reloaded table")
			continue
		}

		vm, err := m.service.Evaluate(ctx, dashboard.SelectionInput{Server: server})
		if err != nil {
			logger.WithServer(server).Errorf("Evaluation failed: %v", err)
			result.Skipped = append(result.Skipped, server)
			continue
		}
		result.Statuses[server] = vm.Status
	}

	logger.DebugCtxf(ctx, "Monitor cycle: %d rows, %d statuses", result.Rows, len(result.Statuses))
	return result, nil
}
