package queries

import (
	"context"
	"log/slog"

	"matching/internal/core/domain/model/queue"
	"matching/internal/core/domain/services"
	"matching/internal/core/ports"

	"github.com/jonboulle/clockwork"
)

// GetWaitStatusQueryHandler reports a requester's queue state with a wait
// forecast. A configured cache short-circuits repeated forecasts for the same
// entry; cache failures only cost a recomputation.
type GetWaitStatusQueryHandler struct {
	repository ports.QueueRepository
	forecaster services.WaitForecaster
	cache      ports.ForecastCache
	clock      clockwork.Clock
	logger     *slog.Logger
}

// NewGetWaitStatusQueryHandler creates the handler. cache may be nil.
func NewGetWaitStatusQueryHandler(
	repository ports.QueueRepository,
	forecaster services.WaitForecaster,
	cache ports.ForecastCache,
	clock clockwork.Clock,
	logger *slog.Logger,
) GetWaitStatusQueryHandler {
	return GetWaitStatusQueryHandler{
		repository: repository,
		forecaster: forecaster,
		cache:      cache,
		clock:      clock,
		logger:     logger.With("component", "wait_status"),
	}
}

// Handle returns errs.ErrObjectNotFound when the requester has never queued.
func (h GetWaitStatusQueryHandler) Handle(
	ctx context.Context,
	query GetWaitStatusQuery,
) (GetWaitStatusQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetWaitStatusQueryResponse{}, err
	}

	entry, err := h.repository.LatestForRequester(ctx, query.RequesterID())
	if err != nil {
		return GetWaitStatusQueryResponse{}, err
	}

	response := GetWaitStatusQueryResponse{
		EntryID: entry.ID(),
		Status:  entry.Status(),
	}
	if entry.Status() != queue.Searching {
		return response, nil
	}

	eta, err := h.forecast(ctx, entry)
	if err != nil {
		return GetWaitStatusQueryResponse{}, err
	}
	response.ETASeconds = &eta

	return response, nil
}

func (h GetWaitStatusQueryHandler) forecast(ctx context.Context, entry *queue.Entry) (int, error) {
	if h.cache != nil {
		seconds, found, err := h.cache.Get(ctx, entry.ID())
		switch {
		case err != nil:
			h.logger.WarnContext(ctx, "forecast cache read failed",
				"entry_id", entry.ID(), "error", err)
		case found:
			return seconds, nil
		}
	}

	history, err := h.repository.RecentCompletedAtOrBefore(ctx, entry.ID(), services.HistoryDepth)
	if err != nil {
		return 0, err
	}
	ahead, err := h.repository.SearchingBefore(ctx, entry.ID())
	if err != nil {
		return 0, err
	}

	seconds := h.forecaster.Forecast(entry, history, ahead, h.clock.Now())

	if h.cache != nil {
		if err := h.cache.Set(ctx, entry.ID(), seconds); err != nil {
			h.logger.WarnContext(ctx, "forecast cache write failed",
				"entry_id", entry.ID(), "error", err)
		}
	}

	return seconds, nil
}
