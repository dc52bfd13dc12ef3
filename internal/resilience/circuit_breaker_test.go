package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func fail(context.Context) error    { return errBoom }
func succeed(context.Context) error { return nil }

func TestCircuitBreaker_Execute(t *testing.T) {
	tests := []struct {
		name          string
		calls         []func(context.Context) error
		expectedErr   error
		expectedState State
	}{
		{
			name:          "success stays closed",
			calls:         []func(context.Context) error{succeed},
			expectedState: StateClosed,
		},
		{
			name:          "failure below threshold stays closed",
			calls:         []func(context.Context) error{fail, fail},
			expectedErr:   errBoom,
			expectedState: StateClosed,
		},
		{
			name:          "success resets failure count",
			calls:         []func(context.Context) error{fail, fail, succeed, fail, fail},
			expectedErr:   errBoom,
			expectedState: StateClosed,
		},
		{
			name:          "open after max failures rejects calls",
			calls:         []func(context.Context) error{fail, fail, fail, succeed},
			expectedErr:   ErrCircuitOpen,
			expectedState: StateOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cb := NewCircuitBreaker(CircuitBreakerConfig{Name: "test", MaxFailures: 3, ResetTimeout: time.Minute})

			var err error
			for _, call := range tt.calls {
				err = cb.Execute(context.Background(), call)
			}

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedState, cb.State())
		})
	}
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Second, HalfOpenMax: 2})
	cb.now = func() time.Time { return clock }

	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	clock = clock.Add(2 * time.Second)
	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(context.Background(), succeed))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Second})
	cb.now = func() time.Time { return clock }

	_ = cb.Execute(context.Background(), fail)
	clock = clock.Add(2 * time.Second)
	_ = cb.Execute(context.Background(), fail)

	assert.Equal(t, StateOpen, cb.State())
	assert.ErrorIs(t, cb.Execute(context.Background(), succeed), ErrCircuitOpen)
	assert.Equal(t, int64(1), cb.Stats().Rejected)
}

func TestCircuitBreaker_CallTimeout(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 5, CallTimeout: 10 * time.Millisecond})

	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	assert.ErrorIs(t, err, ErrCircuitTimeout)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, cb.Stats().Failures)
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	changes := make(chan State, 1)
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		Name:        "history",
		MaxFailures: 1,
		OnStateChange: func(name string, from, to State) {
			assert.Equal(t, "history", name)
			changes <- to
		},
	})

	_ = cb.Execute(context.Background(), fail)

	select {
	case to := <-changes:
		assert.Equal(t, StateOpen, to)
	case <-time.After(time.Second):
		t.Fatal("state change callback not called")
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1})
	_ = cb.Execute(context.Background(), fail)
	require.Equal(t, StateOpen, cb.State())

	cb.Reset()

	assert.Equal(t, StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), succeed))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", StateClosed.String())
	assert.Equal(t, "open", StateOpen.String())
	assert.Equal(t, "half-open", StateHalfOpen.String())
	assert.Equal(t, "unknown", State(42).String())
}
