package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitepulse/site-presence/internal/core/ports"
)

// DPRHandler accepts daily progress reports.
type DPRHandler struct {
	service ports.DPRService
}

func NewDPRHandler(service ports.DPRService) *DPRHandler {
	return &DPRHandler{service: service}
}

// Submit handles POST /v1/projects/:project_id/dpr.
//
// @Summary      Submit today's daily progress report
// @Description  Unlocked once today's attendance is verified.
// @Tags         dpr
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string            true  "Project ID"
// @Param        body        body      submitDPRRequest  true  "Report"
// @Success      201         {object}  dprResponse
// @Failure      400         {object}  errorResponse
// @Failure      403         {object}  errorResponse
// @Failure      409         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Router       /v1/projects/{project_id}/dpr [post]
func (h *DPRHandler) Submit(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req submitDPRRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	dpr, err := h.service.Submit(c.Request().Context(), ports.SubmitDPRInput{
		ProjectID:      c.Param("project_id"),
		Actor:          actor,
		Summary:        req.Summary,
		WorkersPresent: req.WorkersPresent,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toDPRResponse(dpr))
}
