package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OldStager01/latency-dashboard/internal/alerting"
	"github.com/OldStager01/latency-dashboard/internal/dashboard"
	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/events"
	"github.com/OldStager01/latency-dashboard/internal/generator"
	"github.com/OldStager01/latency-dashboard/internal/resilience"
	"github.com/OldStager01/latency-dashboard/internal/source"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

type scenario struct {
	feed    *generator.Feed
	clock   *time.Time
	monitor *Monitor
	service *dashboard.Service
	alerts  <-chan *models.Event
	failed  <-chan *models.Event
}

func newScenario(t *testing.T, handler func(http.Handler) http.Handler, srcCfg source.Config) *scenario {
	t.Helper()

	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	feed, err := generator.NewFeed(generator.FeedConfig{
		Generator: generator.Config{
			Servers:  []generator.Server{{Name: "srv1", Base: 80}},
			Start:    clock,
			Interval: 5 * time.Minute,
			Rows:     3,
		},
		Tick: time.Minute,
		Now:  func() time.Time { return clock },
	})
	require.NoError(t, err)

	h := feed.Handler()
	if handler != nil {
		h = handler(h)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	src, err := source.New(srv.URL+"/data.csv", srcCfg)
	require.NoError(t, err)

	bus := events.NewEventBus(20)
	t.Cleanup(bus.Close)

	pub := events.NewPublisher(bus).WithAlertPolicy(alerting.NewPolicy(alerting.Config{Cooldown: time.Hour}))
	svc := dashboard.NewService(dataset.NewSourceCache(src, nil), dashboard.DefaultBounds(), dashboard.WithPublisher(pub))

	return &scenario{
		feed:    feed,
		clock:   &clock,
		monitor: New(Config{Interval: time.Hour}, svc),
		service: svc,
		alerts:  bus.Subscribe(models.EventTypeAlert),
		failed:  bus.Subscribe(models.EventTypeDatasetReloadFailed),
	}
}

func (s *scenario) cycle(t *testing.T) models.Status {
	t.Helper()
	result, err := s.monitor.RunOnce(context.Background())
	require.NoError(t, err)
	return result.Statuses["srv1"]
}

func (s *scenario) advance(rows int) {
	*s.clock = s.clock.Add(time.Duration(rows) * time.Minute)
}

func TestScenario_SpikeAndRecovery(t *testing.T) {
	s := newScenario(t, nil, source.Config{})

	assert.Equal(t, models.StatusOK, s.cycle(t))
	assert.Empty(t, s.alerts)

	_, err := s.feed.InjectSpike("srv1", 8, 2)
	require.NoError(t, err)
	s.advance(1)

	assert.Equal(t, models.StatusFail, s.cycle(t))
	alert := <-s.alerts
	assert.Equal(t, models.SeverityCritical, alert.Severity)
	assert.Contains(t, alert.Message, "640")

	// still failing inside the cooldown
	s.advance(1)
	assert.Equal(t, models.StatusFail, s.cycle(t))
	assert.Empty(t, s.alerts)

	s.advance(1)
	assert.Equal(t, models.StatusOK, s.cycle(t))
	recovered := <-s.alerts
	assert.Equal(t, models.SeverityInfo, recovered.Severity)
	assert.Contains(t, recovered.Message, "recovered")
}

func TestScenario_SourceOutageAndRecovery(t *testing.T) {
	var down atomic.Bool
	outage := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if down.Load() {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	s := newScenario(t, outage, source.Config{
		RetryAttempts: 1,
		RetryDelay:    time.Millisecond,
		Breaker:       resilience.CircuitBreakerConfig{MaxFailures: 2, ResetTimeout: 20 * time.Millisecond},
	})

	require.Equal(t, models.StatusOK, s.cycle(t))
	before, err := s.service.Table()
	require.NoError(t, err)

	down.Store(true)
	s.advance(1)
	for i := 0; i < 2; i++ {
		_, err := s.monitor.RunOnce(context.Background())
		assert.ErrorIs(t, err, source.ErrFetchFailed)
		assert.Equal(t, models.EventTypeDatasetReloadFailed, (<-s.failed).Type)
	}

	_, err = s.monitor.RunOnce(context.Background())
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	<-s.failed

	current, err := s.service.Table()
	require.NoError(t, err)
	assert.Same(t, before, current)

	down.Store(false)
	time.Sleep(30 * time.Millisecond)

	s.cycle(t)
	table, err := s.service.Table()
	require.NoError(t, err)
	assert.Equal(t, 4, table.Len())
}
