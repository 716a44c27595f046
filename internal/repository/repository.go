package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/librisys/librisys/internal/model"
)

type Repository interface {
	// catalog
	ListBooks(ctx context.Context) ([]model.Book, error)
	GetBook(ctx context.Context, id int) (model.Book, error)
	CreateBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error)
	UpdateBook(ctx context.Context, id int, req model.BookUpdateRequest) (model.Book, error)
	DeleteBook(ctx context.Context, id int) error

	// borrow ledger
	CreateBorrowRequest(ctx context.Context, userID, bookID int) (model.BorrowRecord, error)
	ApproveBorrow(ctx context.Context, recordID int) (model.BorrowRecord, error)
	RejectBorrow(ctx context.Context, recordID int) (model.BorrowRecord, error)
	ReturnBook(ctx context.Context, recordID, userID int, returnedAt time.Time) (model.BorrowRecord, error)
	ListPending(ctx context.Context) ([]model.PendingRequest, error)

	// fines & payments
	RecalcFines(ctx context.Context, graceDays int, dailyRate float64) (int64, error)
	PayFine(ctx context.Context, borrowID int, amount float64) (model.Payment, error)
	MarkFinePaid(ctx context.Context, borrowID int) (int, error)

	// identity
	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	GetUser(ctx context.Context, id int) (model.User, error)

	// reporting
	MostBorrowed(ctx context.Context, limit int) ([]model.MostBorrowedBook, error)
	TopBorrowers(ctx context.Context, limit int) ([]model.TopBorrower, error)
	OverdueBooks(ctx context.Context) ([]model.OverdueBook, error)
	FineReports(ctx context.Context) ([]model.FineReport, error)
	PaymentHistory(ctx context.Context) ([]model.PaymentHistoryItem, error)
	BorrowedBooks(ctx context.Context, userID int) ([]model.DashboardBook, error)
	TotalFine(ctx context.Context, userID int) (float64, error)
	PaymentsByUser(ctx context.Context, userID int) ([]model.DashboardPayment, error)

	// notifications
	CreateNotification(ctx context.Context, userID int, message, notifType string) error
	UnreadNotifications(ctx context.Context, userID int) ([]model.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID int) error
}

type repository struct {
	db  *sqlx.DB
	log *zap.Logger
}

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	booksTableName         = `books`
	borrowRecordsTableName = `borrow_records`
	usersTableName         = `users`
	paymentsTableName      = `payments`
	notificationsTableName = `notifications`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withTx runs fn inside a transaction so multi-entity writes (record + book
// availability, payment + fine reset) never leave partial effects.
func (r *repository) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
