package repository

import (
	"context"
	"fmt"

	"github.com/librisys/librisys/internal/fines"
	"github.com/librisys/librisys/internal/model"
)

// MostBorrowed counts approved records per book, descending. Ties break on
// book id ascending so the order is stable across runs.
func (r *repository) MostBorrowed(ctx context.Context, limit int) ([]model.MostBorrowedBook, error) {
	q := fmt.Sprintf(`
	select b.id, b.title, b.author, count(br.id) as borrow_count
	from %s br
	join %s b on br.book_id = b.id
	where br.status = $1
	group by b.id
	order by borrow_count desc, b.id asc
	limit $2`, borrowRecordsTableName, booksTableName)

	var items []model.MostBorrowedBook
	if err := r.db.SelectContext(ctx, &items, q, model.StatusApproved, limit); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) TopBorrowers(ctx context.Context, limit int) ([]model.TopBorrower, error) {
	q := fmt.Sprintf(`
	select u.id, u.name, u.email, count(br.id) as books_borrowed
	from %s br
	join %s u on br.user_id = u.id
	group by u.id
	order by books_borrowed desc, u.id asc
	limit $1`, borrowRecordsTableName, usersTableName)

	var items []model.TopBorrower
	if err := r.db.SelectContext(ctx, &items, q, limit); err != nil {
		return nil, err
	}
	return items, nil
}

// OverdueBooks lists open loans past the grace period, oldest first, with
// the fine computed live from elapsed time.
func (r *repository) OverdueBooks(ctx context.Context) ([]model.OverdueBook, error) {
	q := fmt.Sprintf(`
	select br.id, u.name as student_name, b.title as book_title, br.borrow_date,
	       greatest(0, floor(extract(epoch from (now() - br.borrow_date)) / 86400)::int - $1) * $2 as fine
	from %s br
	join %s u on br.user_id = u.id
	join %s b on br.book_id = b.id
	where br.status = $3 and br.return_date is null
	  and br.borrow_date < now() - make_interval(days => $1)
	order by br.borrow_date asc`, borrowRecordsTableName, usersTableName, booksTableName)

	var items []model.OverdueBook
	if err := r.db.SelectContext(ctx, &items, q, fines.GraceDays, fines.DailyRate, model.StatusApproved); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FineReports(ctx context.Context) ([]model.FineReport, error) {
	q := fmt.Sprintf(`
	select u.name as student_name, sum(br.fine) as total_fine
	from %s br
	join %s u on br.user_id = u.id
	where br.fine > 0
	group by u.name
	order by total_fine desc`, borrowRecordsTableName, usersTableName)

	var items []model.FineReport
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) PaymentHistory(ctx context.Context) ([]model.PaymentHistoryItem, error) {
	q := fmt.Sprintf(`
	select p.id, u.name as user_name, b.title as book_title, p.amount_paid, p.paid_on
	from %s p
	join %s u on p.user_id = u.id
	join %s br on p.borrow_id = br.id
	join %s b on br.book_id = b.id
	order by p.paid_on desc`, paymentsTableName, usersTableName, borrowRecordsTableName, booksTableName)

	var items []model.PaymentHistoryItem
	if err := r.db.SelectContext(ctx, &items, q); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) BorrowedBooks(ctx context.Context, userID int) ([]model.DashboardBook, error) {
	q := fmt.Sprintf(`
	select b.id, b.title, b.author, br.borrow_date, br.return_date, br.fine
	from %s br
	join %s b on br.book_id = b.id
	where br.user_id = $1
	order by br.borrow_date desc`, borrowRecordsTableName, booksTableName)

	var items []model.DashboardBook
	if err := r.db.SelectContext(ctx, &items, q, userID); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) TotalFine(ctx context.Context, userID int) (float64, error) {
	q := fmt.Sprintf(`select coalesce(sum(fine), 0) from %s where user_id = $1`, borrowRecordsTableName)

	var total float64
	if err := r.db.QueryRowContext(ctx, q, userID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *repository) PaymentsByUser(ctx context.Context, userID int) ([]model.DashboardPayment, error) {
	q := fmt.Sprintf(`
	select b.title, p.amount_paid, p.paid_on
	from %s p
	join %s br on p.borrow_id = br.id
	join %s b on br.book_id = b.id
	where p.user_id = $1
	order by p.paid_on desc`, paymentsTableName, borrowRecordsTableName, booksTableName)

	var items []model.DashboardPayment
	if err := r.db.SelectContext(ctx, &items, q, userID); err != nil {
		return nil, err
	}
	return items, nil
}
