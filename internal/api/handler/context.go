package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sitepulse/site-presence/internal/core/domain"
)

// ctxActor extracts the caller injected by the Auth middleware. Both the
// role and the user id must be present; a token without either is
// structurally valid but cannot be scoped to any project, so it is a 401.
func ctxActor(c echo.Context) (domain.Actor, error) {
	role, _ := c.Get("role").(string)
	userID, _ := c.Get("user_id").(string)
	if role == "" || userID == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return domain.Actor{UserID: userID, Role: role}, nil
}
