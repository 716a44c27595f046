package model

import (
	"time"

	"github.com/librisys/librisys/pkg/auth"
)

type Book struct {
	ID        int    `json:"id" db:"id"`
	Title     string `json:"title" db:"title"`
	Author    string `json:"author" db:"author"`
	ISBN      string `json:"isbn" db:"isbn"`
	Available bool   `json:"available" db:"available"`
}

type BookCreateRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	ISBN   string `json:"isbn" validate:"required"`
}

type BookUpdateRequest struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	ISBN      string `json:"isbn" validate:"required"`
	Available bool   `json:"available"`
}

// Status is the borrow-record lifecycle state. A rejected request is
// deleted outright, so it never appears as a stored status.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
)

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

type BorrowRecord struct {
	ID         int        `json:"id" db:"id"`
	BookID     int        `json:"bookId" db:"book_id"`
	UserID     int        `json:"userId" db:"user_id"`
	Status     Status     `json:"status" db:"status"`
	BorrowDate time.Time  `json:"borrowDate" db:"borrow_date"`
	ReturnDate *time.Time `json:"returnDate,omitempty" db:"return_date"`
	Fine       float64    `json:"fine" db:"fine"`
}

type BorrowRequest struct {
	BookID int `json:"book_id" validate:"required"`
}

type DecideBorrowRequest struct {
	Action string `json:"action" validate:"required"`
}

// ReturnRequest carries the client's view of the return. Both fields are
// informational: the server stamps its own return date and recomputes the
// fine from elapsed time.
type ReturnRequest struct {
	ReturnDate string  `json:"return_date"`
	Fine       float64 `json:"fine"`
}

type PendingRequest struct {
	ID          int    `json:"id" db:"id"`
	StudentName string `json:"student_name" db:"student_name"`
	BookTitle   string `json:"book_title" db:"book_title"`
	Status      Status `json:"status" db:"status"`
}

type Payment struct {
	ID         int       `json:"id" db:"id"`
	PaymentUID string    `json:"paymentUid" db:"payment_uid"`
	UserID     int       `json:"userId" db:"user_id"`
	BorrowID   int       `json:"borrowId" db:"borrow_id"`
	AmountPaid float64   `json:"amountPaid" db:"amount_paid"`
	PaidOn     time.Time `json:"paidOn" db:"paid_on"`
}

type PayFineRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type User struct {
	ID       int       `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Email    string    `json:"email" db:"email"`
	Password string    `json:"-" db:"password"`
	Role     auth.Role `json:"role" db:"role"`
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email        string `json:"email" validate:"required,email"`
	Password     string `json:"password" validate:"required"`
	ExpectedRole string `json:"expectedRole"`
}

type AuthResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int       `json:"expires_in"`
	Role        auth.Role `json:"role"`
}

type MostBorrowedBook struct {
	BookID      int    `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Author      string `json:"author" db:"author"`
	BorrowCount int    `json:"borrow_count" db:"borrow_count"`
}

type TopBorrower struct {
	UserID        int    `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Email         string `json:"email" db:"email"`
	BooksBorrowed int    `json:"books_borrowed" db:"books_borrowed"`
}

type OverdueBook struct {
	RecordID    int       `json:"id" db:"id"`
	StudentName string    `json:"student_name" db:"student_name"`
	BookTitle   string    `json:"book_title" db:"book_title"`
	BorrowDate  time.Time `json:"borrow_date" db:"borrow_date"`
	Fine        float64   `json:"fine" db:"fine"`
}

type FineReport struct {
	StudentName string  `json:"student_name" db:"student_name"`
	TotalFine   float64 `json:"total_fine" db:"total_fine"`
}

type PaymentHistoryItem struct {
	ID         int       `json:"id" db:"id"`
	UserName   string    `json:"user_name" db:"user_name"`
	BookTitle  string    `json:"book_title" db:"book_title"`
	AmountPaid float64   `json:"amount_paid" db:"amount_paid"`
	PaidOn     time.Time `json:"paid_on" db:"paid_on"`
}

type DashboardBook struct {
	BookID     int        `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	Author     string     `json:"author" db:"author"`
	BorrowDate time.Time  `json:"borrow_date" db:"borrow_date"`
	ReturnDate *time.Time `json:"return_date" db:"return_date"`
	Fine       float64    `json:"fine" db:"fine"`
}

type DashboardPayment struct {
	BookTitle  string    `json:"title" db:"title"`
	AmountPaid float64   `json:"amount_paid" db:"amount_paid"`
	PaidOn     time.Time `json:"paid_on" db:"paid_on"`
}

type Dashboard struct {
	BorrowedBooks  []DashboardBook    `json:"borrowed_books"`
	TotalFine      float64            `json:"total_fine"`
	PaymentHistory []DashboardPayment `json:"payment_history"`
}

type Notification struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Type      string    `json:"type" db:"type"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
