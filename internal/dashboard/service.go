package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/OldStager01/latency-dashboard/internal/dataset"
	"github.com/OldStager01/latency-dashboard/internal/events"
	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/internal/metrics"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

// Service binds the pure rendering to the cached table and reports every
// evaluation to metrics and the event bus. All UI bindings share it.
type Service struct {
	cache     *dataset.Cache
	bounds    Bounds
	publisher *events.Publisher
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Service)

func WithPublisher(p *events.Publisher) Option {
	return func(s *Service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(cache *dataset.Cache, bounds Bounds, opts ...Option) *Service {
	s := &Service{
		cache:  cache,
		bounds: bounds,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = metrics.New()
	}
	return s
}

func (s *Service) Bounds() Bounds {
	return s.bounds
}

func (s *Service) Table() (*models.Table, error) {
	return s.cache.Table()
}

func (s *Service) Ready() bool {
	return s.cache.Loaded()
}

func (s *Service) Resolve(in SelectionInput) (models.Selection, error) {
	table, err := s.cache.Table()
	if err != nil {
		return models.Selection{}, err
	}
	return Resolve(table, in, s.bounds)
}

// Render evaluates sel against the current table.
func (s *Service) Render(ctx context.Context, sel models.Selection) (*models.ViewModel, error) {
	table, err := s.cache.Table()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	vm, err := Render(table, sel)
	if err != nil {
		logger.WarnCtxf(ctx, "Evaluation failed: %v", err)
		return nil, err
	}
	elapsed := time.Since(start)

	s.metrics.ObserveEvaluation(sel.Server, vm.Status, vm.LatestValue, elapsed)

	traceID := logger.TraceIDFromContext(ctx)
	s.publisher.WithTraceID(traceID).StatusEvaluated(vm.Check(s.now(), traceID))

	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"server": sel.Server,
		"status": vm.Status,
		"rows":   vm.Rows,
		"latest": vm.LatestValue,
	}).Debug("Selection evaluated")

	return vm, nil
}

// Evaluate resolves raw control state and renders it.
func (s *Service) Evaluate(ctx context.Context, in SelectionInput) (*models.ViewModel, error) {
	sel, err := s.Resolve(in)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, sel)
}

// Export writes the filtered view of vm as CSV.
func (s *Service) Export(ctx context.Context, w io.Writer, vm *models.ViewModel) error {
	if err := dataset.WriteCSV(w, vm.View); err != nil {
		return fmt.Errorf("failed to export view: %w", err)
	}
	s.metrics.IncExports()
	s.publisher.WithTraceID(logger.TraceIDFromContext(ctx)).Exported(vm.Selection.Server, vm.Rows)
	return nil
}

// Reload re-reads the configured source and swaps in the new table. The
// previous table keeps serving when the reload fails.
func (s *Service) Reload(ctx context.Context) (*models.Table, error) {
	pub := s.publisher.WithTraceID(logger.TraceIDFromContext(ctx))

	start := time.Now()
	table, err := s.cache.Reload(ctx)
	if err != nil {
		s.metrics.IncLoadErrors()
		pub.ReloadFailed(s.cache.Path(), err)
		return nil, err
	}

	s.metrics.ObserveLoad(table, time.Since(start))
	pub.DatasetLoaded(table.Info())
	logger.InfoCtxf(ctx, "Dataset ready: %d rows, %d servers", table.Len(), len(table.Servers))
	return table, nil
}
