package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/librisys/librisys/internal/errs"
	"github.com/librisys/librisys/internal/handler"
	"github.com/librisys/librisys/internal/model"
	"github.com/librisys/librisys/pkg/auth"
	"github.com/librisys/librisys/pkg/validate"

	service_mocks "github.com/librisys/librisys/internal/handler/mocks"
)

// withAuth injects an authenticated caller the way JwtAuthentication would.
func withAuth(userID int, role auth.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			c.SetRequest(req.WithContext(auth.SetAuthContext(req.Context(), userID, role)))
			return next(c)
		}
	}
}

func TestHandler_RequestBorrow(t *testing.T) {
	t.Parallel()
	borrowDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	type input struct {
		userID int
		body   string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService, inp input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), inp.userID, 1).
					Return(model.BorrowRecord{
						ID:         10,
						BookID:     1,
						UserID:     inp.userID,
						Status:     model.StatusPending,
						BorrowDate: borrowDate,
					}, nil)
			},
			input: input{userID: 7, body: `{"book_id":1}`},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"message":"Borrow request submitted. Waiting for approval.","request":{"id":10,"bookId":1,"userId":7,"status":"pending","borrowDate":"2024-03-01T10:00:00Z","fine":0}}`,
			},
		},
		{
			name: "err. book already borrowed",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), inp.userID, 1).
					Return(model.BorrowRecord{}, errs.ErrBookUnavailable)
			},
			input: input{userID: 7, body: `{"book_id":1}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book is already borrowed"}`,
			},
		},
		{
			name: "err. book not found",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					RequestBorrow(gomock.Any(), inp.userID, 1).
					Return(model.BorrowRecord{}, errs.ErrNotFound)
			},
			input: input{userID: 7, body: `{"book_id":1}`},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "err. missing book_id",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {},
			input:        input{userID: 7, body: `{}`},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, nil, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/borrow", h.RequestBorrow, withAuth(tt.input.userID, auth.RoleStudent))

			r := httptest.NewRequest(http.MethodPost, "/borrow", strings.NewReader(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_DecideBorrow(t *testing.T) {
	t.Parallel()
	borrowDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	type input struct {
		recordID string
		body     string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService, inp input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "approve ok",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					DecideBorrow(gomock.Any(), 10, model.ActionApprove).
					Return(model.BorrowRecord{
						ID:         10,
						BookID:     1,
						UserID:     7,
						Status:     model.StatusApproved,
						BorrowDate: borrowDate,
					}, nil)
			},
			input: input{recordID: "10", body: `{"action":"approve"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Borrow request approved. Book is now borrowed.","record":{"id":10,"bookId":1,"userId":7,"status":"approved","borrowDate":"2024-03-01T10:00:00Z","fine":0}}`,
			},
		},
		{
			name: "reject ok",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					DecideBorrow(gomock.Any(), 10, model.ActionReject).
					Return(model.BorrowRecord{ID: 10}, nil)
			},
			input: input{recordID: "10", body: `{"action":"reject"}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Borrow request rejected."}`,
			},
		},
		{
			name: "err. invalid action",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					DecideBorrow(gomock.Any(), 10, "destroy").
					Return(model.BorrowRecord{}, errs.ErrInvalidAction)
			},
			input: input{recordID: "10", body: `{"action":"destroy"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid action. use \"approve\" or \"reject\""}`,
			},
		},
		{
			name: "err. second approval for an already borrowed book",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					DecideBorrow(gomock.Any(), 11, model.ActionApprove).
					Return(model.BorrowRecord{}, errs.ErrBookUnavailable)
			},
			input: input{recordID: "11", body: `{"action":"approve"}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"book is already borrowed"}`,
			},
		},
		{
			name: "err. request not found",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					DecideBorrow(gomock.Any(), 99, model.ActionApprove).
					Return(model.BorrowRecord{}, errs.ErrNotFound)
			},
			input: input{recordID: "99", body: `{"action":"approve"}`},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "err. bad record id",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {},
			input:        input{recordID: "abc", body: `{"action":"approve"}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"invalid record id"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, nil, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.PUT("/borrow/approve/:id", h.DecideBorrow, withAuth(1, auth.RoleLibrarian))

			r := httptest.NewRequest(http.MethodPut, "/borrow/approve/"+tt.input.recordID, strings.NewReader(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()
	borrowDate := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	returnDate := time.Date(2024, 3, 21, 10, 0, 0, 0, time.UTC)
	type input struct {
		userID   int
		recordID string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService, inp input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok with fine",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					ReturnBook(gomock.Any(), 10, inp.userID).
					Return(model.BorrowRecord{
						ID:         10,
						BookID:     1,
						UserID:     inp.userID,
						Status:     model.StatusApproved,
						BorrowDate: borrowDate,
						ReturnDate: &returnDate,
						Fine:       6,
					}, nil)
			},
			input: input{userID: 7, recordID: "10"},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Book returned successfully","record":{"id":10,"bookId":1,"userId":7,"status":"approved","borrowDate":"2024-03-01T10:00:00Z","returnDate":"2024-03-21T10:00:00Z","fine":6}}`,
			},
		},
		{
			name: "err. not owner",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					ReturnBook(gomock.Any(), 10, inp.userID).
					Return(model.BorrowRecord{}, errs.ErrNotFound)
			},
			input: input{userID: 8, recordID: "10"},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name: "err. already returned",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					ReturnBook(gomock.Any(), 10, inp.userID).
					Return(model.BorrowRecord{}, errs.ErrNotReturnable)
			},
			input: input{userID: 7, recordID: "10"},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"borrow record is not an open approved loan"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, nil, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.PUT("/borrow/return/:id", h.ReturnBook, withAuth(tt.input.userID, auth.RoleStudent))

			r := httptest.NewRequest(http.MethodPut, "/borrow/return/"+tt.input.recordID,
				strings.NewReader(`{"return_date":"2024-03-21","fine":3}`))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_PayFine(t *testing.T) {
	t.Parallel()
	paidOn := time.Date(2024, 3, 21, 10, 0, 0, 0, time.UTC)
	type input struct {
		borrowID string
		body     string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockBorrowService, inp input)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					PayFine(gomock.Any(), 3, float64(6)).
					Return(model.Payment{
						ID:         1,
						PaymentUID: "7c2e4f4e-6f5a-4c5b-9a54-1df6a52f9e11",
						UserID:     7,
						BorrowID:   3,
						AmountPaid: 6,
						PaidOn:     paidOn,
					}, nil)
			},
			input: input{borrowID: "3", body: `{"amount":6}`},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"message":"Fine paid successfully","payment":{"id":1,"paymentUid":"7c2e4f4e-6f5a-4c5b-9a54-1df6a52f9e11","userId":7,"borrowId":3,"amountPaid":6,"paidOn":"2024-03-21T10:00:00Z"}}`,
			},
		},
		{
			name: "err. insufficient payment",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					PayFine(gomock.Any(), 3, float64(3)).
					Return(model.Payment{}, errs.ErrInsufficientPayment)
			},
			input: input{borrowID: "3", body: `{"amount":3}`},
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"insufficient payment, full fine must be paid"}`,
			},
		},
		{
			name: "err. no fine to pay",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					PayFine(gomock.Any(), 3, float64(6)).
					Return(model.Payment{}, errs.ErrNoFineToPay)
			},
			input: input{borrowID: "3", body: `{"amount":6}`},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"no fine to pay"}`,
			},
		},
		{
			name: "err. record not found",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					PayFine(gomock.Any(), 99, float64(6)).
					Return(model.Payment{}, errs.ErrNotFound)
			},
			input: input{borrowID: "99", body: `{"amount":6}`},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name: "err. internal",
			mockBehavior: func(r *service_mocks.MockBorrowService, inp input) {
				r.EXPECT().
					PayFine(gomock.Any(), 3, float64(6)).
					Return(model.Payment{}, errors.New("db internal"))
			},
			input: input{borrowID: "3", body: `{"amount":6}`},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"internal error"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockBorrowService(c)
			log := zap.NewExample().Named("test")
			h := handler.New(nil, svc, nil, nil, nil, log)

			e := echo.New()
			e.Validator = validate.NewCustomValidator()
			e.POST("/reports/pay-fine/:borrow_id", h.PayFine, withAuth(1, auth.RoleAdmin))

			r := httptest.NewRequest(http.MethodPost, "/reports/pay-fine/"+tt.input.borrowID, strings.NewReader(tt.input.body))
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			w := httptest.NewRecorder()

			tt.mockBehavior(svc, tt.input)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}
