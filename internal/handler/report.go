package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/librisys/librisys/pkg/auth"
)

func (h *Handler) MostBorrowed(c echo.Context) error {
	items, err := h.reportSvc.MostBorrowed(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) TopBorrowers(c echo.Context) error {
	items, err := h.reportSvc.TopBorrowers(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) OverdueBooks(c echo.Context) error {
	items, err := h.reportSvc.OverdueBooks(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) FineReports(c echo.Context) error {
	items, err := h.reportSvc.FineReports(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) PaymentHistory(c echo.Context) error {
	items, err := h.reportSvc.PaymentHistory(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) StudentDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	dashboard, err := h.reportSvc.StudentDashboard(ctx, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, dashboard)
}
