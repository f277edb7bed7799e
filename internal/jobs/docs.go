// Package jobs runs the background work of the matching service.
//
// # Available Jobs
//
//  1. CourierMatchingJob - the matcher loop. Each cycle expires overdue entries
//     and tries to hand the oldest waiting requester a free courier. Cycles run
//     back to back while there is work; an empty queue or a failed cycle is
//     followed by an idle pause (2s by default).
//  2. QueueDepthJob - samples the number of waiting requesters into the
//     courier_matching_queue_depth gauge on a cron schedule.
//
// # Usage
//
//	manager := jobs.NewJobManager(matchingJob, depthJob)
//	if err := manager.StartAll(ctx); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// Stopping is deterministic: StopAll returns once the current matcher cycle
// and any running sample have finished.
package jobs
