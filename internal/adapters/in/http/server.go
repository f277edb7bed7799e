// Package http exposes the matching use cases over a JSON API described by the
// embedded openapi.yaml.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"matching/internal/core/application/usecases/commands"
	"matching/internal/core/application/usecases/queries"
	"matching/internal/core/domain/model/kernel"
	"matching/internal/core/domain/model/match"
	"matching/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type (
	FindCourierHandler interface {
		Handle(ctx context.Context, command commands.FindCourierCommand) (match.Outcome, error)
	}
	RegisterCourierHandler interface {
		Handle(ctx context.Context, command commands.RegisterCourierCommand) error
	}
	UpdateCourierRatingHandler interface {
		Handle(ctx context.Context, command commands.UpdateCourierRatingCommand) error
	}
	ReleaseCourierHandler interface {
		Handle(ctx context.Context, command commands.ReleaseCourierCommand) error
	}
	GetWaitStatusHandler interface {
		Handle(ctx context.Context, query queries.GetWaitStatusQuery) (queries.GetWaitStatusQueryResponse, error)
	}
	GetAllCouriersHandler interface {
		Handle(ctx context.Context, query queries.GetAllCouriersQuery) ([]queries.GetAllCouriersQueryResponse, error)
	}
	GetSearchingQueueHandler interface {
		Handle(ctx context.Context, query queries.GetSearchingQueueQuery) ([]queries.GetSearchingQueueQueryResponse, error)
	}
)

// Handlers groups the use cases served by Server.
type Handlers struct {
	FindCourier         FindCourierHandler
	RegisterCourier     RegisterCourierHandler
	UpdateCourierRating UpdateCourierRatingHandler
	ReleaseCourier      ReleaseCourierHandler
	GetWaitStatus       GetWaitStatusHandler
	GetAllCouriers      GetAllCouriersHandler
	GetSearchingQueue   GetSearchingQueueHandler
}

// Server implements ServerInterface on top of the command and query handlers.
type Server struct {
	handlers Handlers
	logger   *slog.Logger
}

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		logger:   logger.With("component", "http"),
	}
}

// FindCourier handles POST /api/v1/queue/{requesterId}.
func (s *Server) FindCourier(ctx echo.Context, requesterId uuid.UUID) error {
	id, err := kernel.UUIDFromGoogle(requesterId)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewFindCourierCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	outcome, err := s.handlers.FindCourier.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := MatchOutcome{Outcome: outcome.Kind().String()}
	switch outcome.Kind() {
	case match.Matched:
		courierID := outcome.CourierID().Google()
		rating := outcome.CourierRating()
		response.CourierId = &courierID
		response.CourierRating = &rating
	case match.QueuedNew, match.AlreadyQueued, match.Expired:
		entryID := outcome.EntryID()
		response.EntryId = &entryID
	case match.Throttled:
		seconds := outcome.SecondsRemaining()
		response.RetryAfterSeconds = &seconds
		ctx.Response().Header().Set("Retry-After", strconv.Itoa(seconds))
		return ctx.JSON(http.StatusTooManyRequests, response)
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetWaitStatus handles GET /api/v1/queue/{requesterId}.
func (s *Server) GetWaitStatus(ctx echo.Context, requesterId uuid.UUID) error {
	id, err := kernel.UUIDFromGoogle(requesterId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetWaitStatusQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	status, err := s.handlers.GetWaitStatus.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, WaitStatus{
		EntryId:    status.EntryID,
		Status:     status.Status.String(),
		EtaSeconds: status.ETASeconds,
	})
}

// GetSearchingQueue handles GET /api/v1/queue.
func (s *Server) GetSearchingQueue(ctx echo.Context) error {
	entries, err := s.handlers.GetSearchingQueue.Handle(ctx.Request().Context(), queries.NewGetSearchingQueueQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]QueueEntry, len(entries))
	for i, entry := range entries {
		response[i] = QueueEntry{
			EntryId:     entry.EntryID,
			RequesterId: entry.RequesterID.Google(),
			CreatedAt:   entry.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// GetCouriers handles GET /api/v1/couriers.
func (s *Server) GetCouriers(ctx echo.Context) error {
	couriers, err := s.handlers.GetAllCouriers.Handle(ctx.Request().Context(), queries.NewGetAllCouriersQuery())
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]Courier, len(couriers))
	for i, courier := range couriers {
		response[i] = Courier{
			Id:     courier.ID.Google(),
			IsFree: courier.IsFree,
			Rating: courier.Rating,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterCourier handles POST /api/v1/couriers.
func (s *Server) RegisterCourier(ctx echo.Context) error {
	var body NewCourier
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	id, err := kernel.UUIDFromGoogle(body.Id)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewRegisterCourierCommand(id, body.Rating)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.RegisterCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// UpdateCourierRating handles PATCH /api/v1/couriers/{courierId}/rating.
func (s *Server) UpdateCourierRating(ctx echo.Context, courierId uuid.UUID) error {
	var body RatingUpdate
	if err := ctx.Bind(&body); err != nil {
		return ctx.JSON(http.StatusBadRequest, Error{
			Code:    http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	id, err := kernel.UUIDFromGoogle(courierId)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewUpdateCourierRatingCommand(id, body.Rating)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.UpdateCourierRating.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ReleaseCourier handles POST /api/v1/couriers/{courierId}/release.
func (s *Server) ReleaseCourier(ctx echo.Context, courierId uuid.UUID) error {
	id, err := kernel.UUIDFromGoogle(courierId)
	if err != nil {
		return s.fail(ctx, err)
	}
	cmd, err := commands.NewReleaseCourierCommand(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.ReleaseCourier.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// fail maps domain errors to status codes. Anything unexpected is logged and
// reported without details.
func (s *Server) fail(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	message := "Internal error"

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, commands.ErrCourierIsNotBusy):
		code, message = http.StatusConflict, commands.ErrCourierIsNotBusy.Error()
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrValueIsRequired):
		code, message = http.StatusBadRequest, err.Error()
	default:
		s.logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
	}

	return ctx.JSON(code, Error{Code: code, Message: message})
}
