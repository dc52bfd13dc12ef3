package monitor

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/events"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

const sourceCSV = "Response times\nTime,srv1,srv2\n" +
	"2024-01-01T00:00:00,250 µs,50\n" +
	"2024-01-02T00:00:00,80,1200 µs\n"

func newService(t *testing.T, body string, opts ...dashboard.Option) (*dashboard.Service, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return dashboard.NewService(dataset.NewCache(path, nil), dashboard.DefaultBounds(), opts...), path
}

func TestRunOnce_AllServers(t *testing.T) {
	svc, _ := newService(t, sourceCSV)
	m := New(Config{Interval: time.Hour}, svc)

	result, err := m.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, map[string]models.Status{
		"srv1": models.StatusOK,
		"srv2": models.StatusFail,
	}, result.Statuses)
	assert.Empty(t, result.Skipped)
}

func TestRunOnce_WatchedServers(t *testing.T) {
	svc, _ := newService(t, sourceCSV)
	m := New(Config{Interval: time.Hour, Servers: []string{"srv2", "srv9"}}, svc)

	result, err := m.RunOnce(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]models.Status{"srv2": models.StatusFail}, result.Statuses)
	assert.Equal(t, []string{"srv9"}, result.Skipped)
}

func TestRunOnce_ReloadFailureKeepsTable(t *testing.T) {
	svc, path := newService(t, sourceCSV)
	m := New(Config{Interval: time.Hour}, svc)

	_, err := m.RunOnce(context.Background())
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("title\nTime,srv1\nnot-a-date,1\n"), 0o644))
	_, err = m.RunOnce(context.Background())
	assert.ErrorIs(t, err, dataset.ErrParse)

	table, err := svc.Table()
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
}

func TestMonitor_PublishesOnTick(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	evaluated := bus.Subscribe(models.EventTypeStatusEvaluated)

	svc, _ := newService(t, sourceCSV, dashboard.WithPublisher(events.NewPublisher(bus)))
	m := New(Config{Interval: 20 * time.Millisecond, Servers: []string{"srv1"}}, svc)

	m.Start()
	m.Start()
	assert.True(t, m.IsRunning())

	select {
	case event := <-evaluated:
		assert.Equal(t, models.EventTypeStatusEvaluated, event.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("no status evaluated by the monitor")
	}

	m.Stop()
	assert.False(t, m.IsRunning())
	m.Stop()
}

func TestMonitor_RestartAfterStop(t *testing.T) {
	bus := events.NewEventBus(10)
	defer bus.Close()
	evaluated := bus.Subscribe(models.EventTypeStatusEvaluated)

	svc, _ := newService(t, sourceCSV, dashboard.WithPublisher(events.NewPublisher(bus)))
	m := New(Config{Interval: 20 * time.Millisecond, Servers: []string{"srv1"}}, svc)

	m.Start()
	m.Stop()

	// drop anything published by the first run
	for len(evaluated) > 0 {
		<-evaluated
	}

	m.Start()
	defer m.Stop()
	assert.True(t, m.IsRunning())

	select {
	case event := <-evaluated:
		assert.Equal(t, "srv1", event.Server)
	case <-time.After(2 * time.Second):
		t.Fatal("restarted monitor did not evaluate")
	}
}
