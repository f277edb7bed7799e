package jobs

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"matching/internal/core/application/usecases/commands"
	"matching/internal/observability"

	"github.com/jonboulle/clockwork"
)

// DefaultIdleInterval is the pause after an empty queue or a failed cycle.
const DefaultIdleInterval = 2 * time.Second

var ErrJobIsRunning = errors.New("job is already running")

type matchQueueHeadHandler interface {
	Handle(ctx context.Context, command commands.MatchQueueHeadCommand) error
}

// CourierMatchingJob runs matcher cycles back to back until stopped. A cycle
// that finds the queue empty or fails is followed by an idle pause; a failed
// cycle never stops the loop.
type CourierMatchingJob struct {
	handler matchQueueHeadHandler
	clock   clockwork.Clock
	idle    time.Duration
	logger  *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func NewCourierMatchingJob(
	handler matchQueueHeadHandler,
	clock clockwork.Clock,
	idle time.Duration,
	logger *slog.Logger,
) *CourierMatchingJob {
	if idle <= 0 {
		idle = DefaultIdleInterval
	}
	return &CourierMatchingJob{
		handler: handler,
		clock:   clock,
		idle:    idle,
		logger:  logger.With("component", "courier_matching_job"),
	}
}

// Start launches the loop in a goroutine bound to ctx.
func (j *CourierMatchingJob) Start(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		return ErrJobIsRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})

	go j.run(runCtx, j.done)

	j.logger.InfoContext(ctx, "Courier matching job started", "idle_interval", j.idle)
	return nil
}

// Stop cancels the loop and waits for the current cycle to return.
func (j *CourierMatchingJob) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	j.logger.InfoContext(context.Background(), "Courier matching job stopped")
}

func (j *CourierMatchingJob) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	for ctx.Err() == nil {
		err := j.handler.Handle(ctx, commands.NewMatchQueueHeadCommand())

		switch {
		case err == nil:
			continue
		case errors.Is(err, commands.ErrQueueIsEmpty):
		case ctx.Err() != nil:
			return
		default:
			observability.MatcherCycleErrorsTotal.Inc()
			j.logger.ErrorContext(ctx, "Matcher cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			return
		case <-j.clock.After(j.idle):
		}
	}
}
