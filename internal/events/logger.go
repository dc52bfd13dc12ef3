package events

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/OldStager01/latency-dashboard/internal/logger"
	"github.com/OldStager01/latency-dashboard/internal/resilience"
	"github.com/OldStager01/latency-dashboard/pkg/models"
)

// StatusCheckStore persists evaluated status checks.
type StatusCheckStore interface {
	Insert(ctx context.Context, check *models.StatusCheck) error
}

// EventLogger writes every event to the structured log and persists status
// checks when a store is configured. Writes go through the breaker so a
// down database does not stall the event stream.
type EventLogger struct {
	store     StatusCheckStore
	breaker   *resilience.CircuitBreaker
	eventChan <-chan *models.Event
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	started   atomic.Bool
}

func NewEventLogger(store StatusCheckStore, breaker *resilience.CircuitBreaker, eventChan <-chan *models.Event) *EventLogger {
	ctx, cancel := context.WithCancel(context.Background())
	return &EventLogger{
		store:     store,
		breaker:   breaker,
		eventChan: eventChan,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

func (l *EventLogger) Start() {
	if l.started.CompareAndSwap(false, true) {
		go l.run()
	}
}

// Stop cancels the logger and waits for the current event to finish.
func (l *EventLogger) Stop() {
	l.cancel()
	if l.started.Load() {
		<-l.done
	}
}

func (l *EventLogger) run() {
	defer close(l.done)
	for {
		select {
		case <-l.ctx.Done():
			return
		case event, ok := <-l.eventChan:
			if !ok {
				return
			}
			l.processEvent(event)
		}
	}
}

func (l *EventLogger) processEvent(event *models.Event) {
	entry := logger.WithFields(map[string]interface{}{
		"event_type": event.Type,
		"server":     event.Server,
		"severity":   event.Severity,
		"trace_id":   event.TraceID,
	})

	switch event.Severity {
	case models.SeverityCritical:
		entry.Error(event.Message)
	case models.SeverityWarning:
		entry.Warn(event.Message)
	default:
		entry.Info(event.Message)
	}

	if event.Type == models.EventTypeStatusEvaluated {
		l.persistStatusCheck(event)
	}
}

func (l *EventLogger) persistStatusCheck(event *models.Event) {
	check, ok := event.Data.(*models.StatusCheck)
	if !ok || l.store == nil {
		return
	}

	insert := func(ctx context.Context) error {
		return l.store.Insert(ctx, check)
	}

	var err error
	if l.breaker != nil {
		err = l.breaker.Execute(l.ctx, insert)
	} else {
		err = insert(l.ctx)
	}

	switch {
	case err == nil:
	case errors.Is(err, resilience.ErrCircuitOpen):
		logger.WithServer(check.Server).Debug("Status history breaker open, skipping persist")
	default:
		logger.WithServer(check.Server).Errorf("Failed to persist status check: %v", err)
	}
}
