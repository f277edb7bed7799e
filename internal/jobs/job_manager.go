package jobs

import (
	"context"
	"fmt"
)

// JobManager starts and stops the background jobs together.
type JobManager struct {
	courierMatchingJob *CourierMatchingJob
	queueDepthJob      *QueueDepthJob
}

func NewJobManager(courierMatchingJob *CourierMatchingJob, queueDepthJob *QueueDepthJob) *JobManager {
	return &JobManager{
		courierMatchingJob: courierMatchingJob,
		queueDepthJob:      queueDepthJob,
	}
}

// StartAll starts every job. If one fails, the ones already started are stopped.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if err := jm.courierMatchingJob.Start(ctx); err != nil {
		return fmt.Errorf("failed to start courier matching job: %w", err)
	}

	if err := jm.queueDepthJob.Start(); err != nil {
		jm.courierMatchingJob.Stop()
		return fmt.Errorf("failed to start queue depth job: %w", err)
	}

	return nil
}

// StopAll stops every job and waits for in-flight work.
func (jm *JobManager) StopAll() {
	jm.queueDepthJob.Stop()
	jm.courierMatchingJob.Stop()
}
