package jobs

import (
	"context"
	"log/slog"

	"matching/internal/core/application/usecases/queries"
	"matching/internal/observability"

	"github.com/robfig/cron/v3"
)

// DefaultQueueDepthSchedule samples every five seconds.
const DefaultQueueDepthSchedule = "*/5 * * * * *"

type searchingQueueHandler interface {
	Handle(ctx context.Context, query queries.GetSearchingQueueQuery) ([]queries.GetSearchingQueueQueryResponse, error)
}

// QueueDepthJob publishes the number of Searching entries as a gauge.
type QueueDepthJob struct {
	handler  searchingQueueHandler
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewQueueDepthJob uses a six-field cron schedule (seconds first).
func NewQueueDepthJob(handler searchingQueueHandler, schedule string, logger *slog.Logger) *QueueDepthJob {
	if schedule == "" {
		schedule = DefaultQueueDepthSchedule
	}
	return &QueueDepthJob{
		handler:  handler,
		schedule: schedule,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "queue_depth_job"),
	}
}

// Start registers the sampler and starts the scheduler.
func (j *QueueDepthJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, func() {
		j.sample(context.Background())
	}); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Queue depth job started", "schedule", j.schedule)
	return nil
}

// Stop stops the scheduler and waits for a running sample.
func (j *QueueDepthJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Queue depth job stopped")
}

func (j *QueueDepthJob) sample(ctx context.Context) {
	entries, err := j.handler.Handle(ctx, queries.NewGetSearchingQueueQuery())
	if err != nil {
		j.logger.ErrorContext(ctx, "Queue depth sampling failed", "error", err)
		return
	}
	observability.QueueDepth.Set(float64(len(entries)))
}
