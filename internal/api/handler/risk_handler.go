package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitepulse/site-presence/internal/core/ports"
)

// RiskHandler serves project risk assessments and the attention radar.
type RiskHandler struct {
	service ports.RiskService
}

func NewRiskHandler(service ports.RiskService) *RiskHandler {
	return &RiskHandler{service: service}
}

// Project handles GET /v1/projects/:project_id/risk.
//
// @Summary      Risk assessment of one project
// @Tags         risk
// @Produce      json
// @Security     BearerAuth
// @Param        project_id  path      string  true  "Project ID"
// @Success      200         {object}  riskResponse
// @Failure      403         {object}  errorResponse
// @Failure      404         {object}  errorResponse
// @Router       /v1/projects/{project_id}/risk [get]
func (h *RiskHandler) Project(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	a, err := h.service.AssessProject(c.Request().Context(), c.Param("project_id"), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRiskResponse(a))
}

// Radar handles GET /v1/radar.
//
// @Summary      Attention radar over the caller's projects
// @Tags         risk
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  radarResponse
// @Failure      401  {object}  errorResponse
// @Router       /v1/radar [get]
func (h *RiskHandler) Radar(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	radar, err := h.service.Radar(c.Request().Context(), actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toRadarResponse(radar))
}
