package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sitepulse/site-presence/internal/core/ports"
)

// maxClockSkew is how far in the future an offline observation may be stamped.
const maxClockSkew = 5 * time.Minute

// ObservationDispatcher is the interface the handler uses to queue offline
// observations. It reports how many were queued before any failure.
type ObservationDispatcher interface {
	EnqueueBatch(ctx context.Context, observations []ports.ObservationInput) (int, error)
}

// PresenceHandler serves GPS check-in and presence status.
type PresenceHandler struct {
	service      ports.PresenceService
	dispatcher   ObservationDispatcher
	maxAccuracyM float64
}

// NewPresenceHandler creates a PresenceHandler. maxAccuracyM rejects device
// fixes coarser than that many metres; zero disables the check.
func NewPresenceHandler(service ports.PresenceService, dispatcher ObservationDispatcher, maxAccuracyM float64) *PresenceHandler {
	return &PresenceHandler{service: service, dispatcher: dispatcher, maxAccuracyM: maxAccuracyM}
}

// CheckIn handles POST /v1/projects/:project_id/check-in.
//
// @Summary      Mark attendance with a GPS fix
// @Description  Verifies the device fix against the project geofence. The first
// @Description  verified check-in of the day is final.
// @Tags         presence
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string          true  "Project ID"
// @Param        body        body      checkInRequest  true  "Device fix"
// @Success      200         {object}  presenceResponse  "already verified today"
// @Success      201         {object}  presenceResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Failure      422         {object}  presenceResponse  "out of range or location unavailable"
// @Router       /v1/projects/{project_id}/check-in [post]
func (h *PresenceHandler) CheckIn(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		return echo.NewHTTPError(http.StatusBadRequest, "lat and lng must be sent together")
	}

	result, err := h.service.CheckIn(c.Request().Context(), ports.CheckInInput{
		ProjectID: c.Param("project_id"),
		Actor:     actor,
		Locator:   toLocator(req, h.maxAccuracyM),
	})
	if err != nil {
		return err
	}

	status := http.StatusCreated
	switch {
	case result.AlreadyVerified:
		status = http.StatusOK
	case !result.Result.IsVerified():
		status = http.StatusUnprocessableEntity
	}
	return c.JSON(status, toCheckInResponse(result))
}

// Status handles GET /v1/projects/:project_id/presence.
//
// @Summary      Today's presence for a project
// @Tags         presence
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true  "Project ID"
// @Success      200         {object}  presenceResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/projects/{project_id}/presence [get]
func (h *PresenceHandler) Status(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	status, err := h.service.Status(c.Request().Context(), c.Param("project_id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatusResponse(status))
}

// SyncBatch handles POST /v1/check-ins/batch. Observations are queued and 202 returned.
//
// @Summary      Upload check-ins captured offline
// @Description  Observations are replayed in order per project; the first
// @Description  in-range observation of a day becomes that day's attendance.
// @Tags         presence
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      syncBatchRequest  true  "Queued observations"
// @Success      202   {object}  acceptedResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /v1/check-ins/batch [post]
func (h *PresenceHandler) SyncBatch(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req syncBatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	latest := time.Now().Add(maxClockSkew)
	for i, o := range req.Observations {
		if o.ObservedAt.After(latest) {
			return echo.NewHTTPError(http.StatusBadRequest,
				fmt.Sprintf("observation[%d]: observed_at is in the future", i))
		}
	}

	batchID, inputs := toObservationInputs(req, actor)
	if n, err := h.dispatcher.EnqueueBatch(c.Request().Context(), inputs); err != nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable,
			fmt.Sprintf("offline sync is busy, %d of %d observations queued; retry the rest later", n, len(inputs)))
	}

	return c.JSON(http.StatusAccepted, acceptedResponse{
		BatchID:  batchID,
		Accepted: len(inputs),
		Message:  "observations queued",
	})
}
