package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Wire types of openapi.yaml.
type (
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}

	MatchOutcome struct {
		Outcome           string     `json:"outcome"`
		CourierId         *uuid.UUID `json:"courierId,omitempty"`
		CourierRating     *float64   `json:"courierRating,omitempty"`
		EntryId           *int64     `json:"entryId,omitempty"`
		RetryAfterSeconds *int       `json:"retryAfterSeconds,omitempty"`
	}

	WaitStatus struct {
		EntryId    int64  `json:"entryId"`
		Status     string `json:"status"`
		EtaSeconds *int   `json:"etaSeconds,omitempty"`
	}

	QueueEntry struct {
		EntryId     int64     `json:"entryId"`
		RequesterId uuid.UUID `json:"requesterId"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	Courier struct {
		Id     uuid.UUID `json:"id"`
		IsFree bool      `json:"isFree"`
		Rating float64   `json:"rating"`
	}

	NewCourier struct {
		Id     uuid.UUID `json:"id"`
		Rating float64   `json:"rating"`
	}

	RatingUpdate struct {
		Rating float64 `json:"rating"`
	}
)

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (GET /api/v1/queue)
	GetSearchingQueue(ctx echo.Context) error
	// (POST /api/v1/queue/{requesterId})
	FindCourier(ctx echo.Context, requesterId uuid.UUID) error
	// (GET /api/v1/queue/{requesterId})
	GetWaitStatus(ctx echo.Context, requesterId uuid.UUID) error
	// (GET /api/v1/couriers)
	GetCouriers(ctx echo.Context) error
	// (POST /api/v1/couriers)
	RegisterCourier(ctx echo.Context) error
	// (PATCH /api/v1/couriers/{courierId}/rating)
	UpdateCourierRating(ctx echo.Context, courierId uuid.UUID) error
	// (POST /api/v1/couriers/{courierId}/release)
	ReleaseCourier(ctx echo.Context, courierId uuid.UUID) error
}

// serverInterfaceWrapper binds path parameters before calling the handlers.
type serverInterfaceWrapper struct {
	handler ServerInterface
}

func (w *serverInterfaceWrapper) GetSearchingQueue(ctx echo.Context) error {
	return w.handler.GetSearchingQueue(ctx)
}

func (w *serverInterfaceWrapper) FindCourier(ctx echo.Context) error {
	requesterId, err := bindUUID(ctx, "requesterId")
	if err != nil {
		return err
	}
	return w.handler.FindCourier(ctx, requesterId)
}

func (w *serverInterfaceWrapper) GetWaitStatus(ctx echo.Context) error {
	requesterId, err := bindUUID(ctx, "requesterId")
	if err != nil {
		return err
	}
	return w.handler.GetWaitStatus(ctx, requesterId)
}

func (w *serverInterfaceWrapper) GetCouriers(ctx echo.Context) error {
	return w.handler.GetCouriers(ctx)
}

func (w *serverInterfaceWrapper) RegisterCourier(ctx echo.Context) error {
	return w.handler.RegisterCourier(ctx)
}

func (w *serverInterfaceWrapper) UpdateCourierRating(ctx echo.Context) error {
	courierId, err := bindUUID(ctx, "courierId")
	if err != nil {
		return err
	}
	return w.handler.UpdateCourierRating(ctx, courierId)
}

func (w *serverInterfaceWrapper) ReleaseCourier(ctx echo.Context) error {
	courierId, err := bindUUID(ctx, "courierId")
	if err != nil {
		return err
	}
	return w.handler.ReleaseCourier(ctx, courierId)
}

func bindUUID(ctx echo.Context, name string) (uuid.UUID, error) {
	var id uuid.UUID

	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return uuid.Nil, echo.NewHTTPError(http.StatusBadRequest, "Invalid format for parameter "+name+": "+err.Error())
	}

	return id, nil
}

// EchoRouter is the subset of *echo.Echo and *echo.Group used for registration.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers mounts every operation of si on router.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	w := &serverInterfaceWrapper{handler: si}

	router.GET("/api/v1/queue", w.GetSearchingQueue)
	router.POST("/api/v1/queue/:requesterId", w.FindCourier)
	router.GET("/api/v1/queue/:requesterId", w.GetWaitStatus)
	router.GET("/api/v1/couriers", w.GetCouriers)
	router.POST("/api/v1/couriers", w.RegisterCourier)
	router.PATCH("/api/v1/couriers/:courierId/rating", w.UpdateCourierRating)
	router.POST("/api/v1/couriers/:courierId/release", w.ReleaseCourier)
}
