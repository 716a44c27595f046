package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/librisys/librisys/internal/errs"
	md "github.com/librisys/librisys/pkg/middleware"
	"github.com/librisys/librisys/pkg/validate"
)

type Handler struct {
	catalogSvc CatalogService
	borrowSvc  BorrowService
	reportSvc  ReportService
	authSvc    AuthService
	notifSvc   NotificationService
	log        *zap.Logger
}

func New(catalog CatalogService, borrow BorrowService, report ReportService,
	authSvc AuthService, notif NotificationService, log *zap.Logger) *Handler {
	return &Handler{
		catalogSvc: catalog,
		borrowSvc:  borrow,
		reportSvc:  report,
		authSvc:    authSvc,
		notifSvc:   notif,
		log:        log,
	}
}

func (h *Handler) NewRouter(jwtKey []byte) *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig()),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)

	api.GET("/books", h.GetBooks)
	api.GET("/books/:id", h.GetBook)
	api.POST("/auth/signup", h.Signup)
	api.POST("/auth/login", h.Login)

	authed := api.Group("", md.JwtAuthentication(jwtKey))
	authed.GET("/auth/profile", h.Profile)
	authed.POST("/borrow", h.RequestBorrow)
	authed.PUT("/borrow/return/:id", h.ReturnBook)
	authed.GET("/reports/student-dashboard", h.StudentDashboard)
	authed.GET("/notifications", h.Notifications)
	authed.PUT("/notifications/read", h.MarkNotificationsRead)

	elevated := authed.Group("", md.LibrarianOnly)
	elevated.POST("/books", h.AddBook)
	elevated.PUT("/books/:id", h.UpdateBook)
	elevated.DELETE("/books/:id", h.DeleteBook)
	elevated.PUT("/borrow/approve/:id", h.DecideBorrow)
	elevated.GET("/borrow/pending-requests", h.ListPending)
	elevated.POST("/reports/pay-fine/:borrow_id", h.PayFine)
	elevated.POST("/reports/mark-fine-paid/:borrow_id", h.MarkFinePaid)
	elevated.GET("/reports/most-borrowed", h.MostBorrowed)
	elevated.GET("/reports/top-borrowers", h.TopBorrowers)
	elevated.GET("/reports/overdue-books", h.OverdueBooks)
	elevated.GET("/reports/fine-reports", h.FineReports)
	elevated.GET("/reports/payment-history", h.PaymentHistory)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps domain sentinels onto statuses. Anything unmapped is a
// persistence failure and surfaces as a generic 500.
func httpError(err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrBookUnavailable),
		errors.Is(err, errs.ErrNoFineToPay),
		errors.Is(err, errs.ErrNotReturnable),
		errors.Is(err, errs.ErrAlreadyExists):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrInvalidAction),
		errors.Is(err, errs.ErrInsufficientPayment):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrRoleMismatch):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
