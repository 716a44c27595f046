package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/librisys/librisys/internal/model"
	"github.com/librisys/librisys/pkg/auth"
)

func (h *Handler) RequestBorrow(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	var req model.BorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rec, err := h.borrowSvc.RequestBorrow(ctx, userID, req.BookID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Borrow request submitted. Waiting for approval.",
		"request": rec,
	})
}

func (h *Handler) DecideBorrow(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	var req model.DecideBorrowRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	rec, err := h.borrowSvc.DecideBorrow(c.Request().Context(), id, req.Action)
	if err != nil {
		return httpError(err)
	}
	if req.Action == model.ActionApprove {
		return c.JSON(http.StatusOK, echo.Map{
			"message": "Borrow request approved. Book is now borrowed.",
			"record":  rec,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Borrow request rejected."})
}

func (h *Handler) ReturnBook(c echo.Context) error {
	ctx := c.Request().Context()
	userID, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	// The body may carry a client-side return date and fine; both are
	// informational, the server recomputes from its own clock.
	var req model.ReturnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rec, err := h.borrowSvc.ReturnBook(ctx, id, userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Book returned successfully",
		"record":  rec,
	})
}

func (h *Handler) ListPending(c echo.Context) error {
	pending, err := h.borrowSvc.ListPending(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, pending)
}

func (h *Handler) PayFine(c echo.Context) error {
	borrowID, err := strconv.Atoi(c.Param("borrow_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid borrow id")
	}
	var req model.PayFineRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	payment, err := h.borrowSvc.PayFine(c.Request().Context(), borrowID, req.Amount)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Fine paid successfully",
		"payment": payment,
	})
}

func (h *Handler) MarkFinePaid(c echo.Context) error {
	borrowID, err := strconv.Atoi(c.Param("borrow_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid borrow id")
	}
	if err := h.borrowSvc.MarkFinePaid(c.Request().Context(), borrowID); err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Fine marked as paid successfully."})
}
