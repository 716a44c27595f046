package handler

import (
	"context"

	"github.com/librisys/librisys/internal/model"
)

//go:generate mockgen -source=service.go -destination=mocks/mock.go -package=mocks

type CatalogService interface {
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	AddBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.BookUpdateRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error
}

type BorrowService interface {
	RequestBorrow(ctx context.Context, userID, bookID int) (model.BorrowRecord, error)
	DecideBorrow(ctx context.Context, recordID int, action string) (model.BorrowRecord, error)
	ReturnBook(ctx context.Context, recordID, userID int) (model.BorrowRecord, error)
	ListPending(ctx context.Context) ([]model.PendingRequest, error)
	PayFine(ctx context.Context, borrowID int, amount float64) (model.Payment, error)
	MarkFinePaid(ctx context.Context, borrowID int) error
}

type ReportService interface {
	MostBorrowed(ctx context.Context) ([]model.MostBorrowedBook, error)
	TopBorrowers(ctx context.Context) ([]model.TopBorrower, error)
	OverdueBooks(ctx context.Context) ([]model.OverdueBook, error)
	FineReports(ctx context.Context) ([]model.FineReport, error)
	PaymentHistory(ctx context.Context) ([]model.PaymentHistoryItem, error)
	StudentDashboard(ctx context.Context, userID int) (model.Dashboard, error)
}

type AuthService interface {
	Signup(ctx context.Context, req model.SignupRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error)
	Profile(ctx context.Context, userID int) (model.User, error)
}

type NotificationService interface {
	Notifications(ctx context.Context, userID int) ([]model.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID int) error
}
