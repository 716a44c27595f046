package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librisys/librisys/pkg/auth"
)

func (h *Handler) Notifications(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.notifSvc.Notifications(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) MarkNotificationsRead(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if err := h.notifSvc.MarkNotificationsRead(ctx, userID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Notifications marked as read"})
}
