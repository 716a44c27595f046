package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/librisys/librisys/internal/errs"
	"github.com/librisys/librisys/internal/fines"
	"github.com/librisys/librisys/internal/model"
)

const borrowRecordColumns = `id, user_id, book_id, status, borrow_date, return_date, fine`

// CreateBorrowRequest inserts a pending record after checking availability
// under a row lock. Availability itself only changes on approval.
func (r *repository) CreateBorrowRequest(ctx context.Context, userID, bookID int) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var available bool
		q := fmt.Sprintf(`select available from %s where id = $1 for update`, booksTableName)
		if err := tx.QueryRowContext(ctx, q, bookID).Scan(&available); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if !available {
			return errs.ErrBookUnavailable
		}

		q = fmt.Sprintf(`insert into %s (user_id, book_id, status)
	values ($1, $2, $3) returning %s`, borrowRecordsTableName, borrowRecordColumns)
		return tx.GetContext(ctx, &rec, q, userID, bookID, model.StatusPending)
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

// ApproveBorrow flips a pending record to approved and takes the book off
// the shelf in one transaction. The book update is conditional on current
// availability, so approving a second pending request for the same book
// fails instead of stacking two open loans on one copy.
func (r *repository) ApproveBorrow(ctx context.Context, recordID int) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q := fmt.Sprintf(`update %s set status = $1
	where id = $2 and status = $3
	returning %s`, borrowRecordsTableName, borrowRecordColumns)
		if err := tx.GetContext(ctx, &rec, q, model.StatusApproved, recordID, model.StatusPending); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}

		q = fmt.Sprintf(`update %s set available = false where id = $1 and available`, booksTableName)
		res, err := tx.ExecContext(ctx, q, rec.BookID)
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.ErrBookUnavailable
		}
		return nil
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

// RejectBorrow removes the pending record entirely. The book was never
// marked unavailable, so no catalog write happens here.
func (r *repository) RejectBorrow(ctx context.Context, recordID int) (model.BorrowRecord, error) {
	q := fmt.Sprintf(`delete from %s where id = $1 and status = $2
	returning %s`, borrowRecordsTableName, borrowRecordColumns)

	var rec model.BorrowRecord
	if err := r.db.GetContext(ctx, &rec, q, recordID, model.StatusPending); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.BorrowRecord{}, errs.ErrNotFound
		}
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

// ReturnBook closes an approved loan owned by userID: stamps the return
// date, recomputes the fine from elapsed time and frees the book. The
// ownership-scoped lookup means a foreign record surfaces as not found.
func (r *repository) ReturnBook(ctx context.Context, recordID, userID int, returnedAt time.Time) (model.BorrowRecord, error) {
	var rec model.BorrowRecord
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		q := fmt.Sprintf(`select %s from %s
	where id = $1 and user_id = $2 for update`, borrowRecordColumns, borrowRecordsTableName)
		if err := tx.GetContext(ctx, &rec, q, recordID, userID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if rec.Status != model.StatusApproved || rec.ReturnDate != nil {
			return errs.ErrNotReturnable
		}

		fine := fines.Compute(rec.BorrowDate, returnedAt)
		q = fmt.Sprintf(`update %s set return_date = $1, fine = $2
	where id = $3 returning %s`, borrowRecordsTableName, borrowRecordColumns)
		if err := tx.GetContext(ctx, &rec, q, returnedAt, fine, recordID); err != nil {
			return err
		}

		q = fmt.Sprintf(`update %s set available = true where id = $1`, booksTableName)
		_, err := tx.ExecContext(ctx, q, rec.BookID)
		return err
	})
	if err != nil {
		return model.BorrowRecord{}, err
	}
	return rec, nil
}

func (r *repository) ListPending(ctx context.Context) ([]model.PendingRequest, error) {
	q := fmt.Sprintf(`
	select br.id, u.name as student_name, b.title as book_title, br.status
	from %s br
	join %s u on br.user_id = u.id
	join %s b on br.book_id = b.id
	where br.status = $1
	order by br.id asc`, borrowRecordsTableName, usersTableName, booksTableName)

	var items []model.PendingRequest
	if err := r.db.SelectContext(ctx, &items, q, model.StatusPending); err != nil {
		return nil, err
	}
	return items, nil
}

// RecalcFines reprices every open loan in a single conditional update, so a
// concurrent return or payment on the same record cannot be clobbered.
func (r *repository) RecalcFines(ctx context.Context, graceDays int, dailyRate float64) (int64, error) {
	q := fmt.Sprintf(`
	update %s
	set fine = greatest(0, floor(extract(epoch from (now() - borrow_date)) / 86400)::int - $1) * $2
	where return_date is null and status = $3`, borrowRecordsTableName)

	res, err := r.db.ExecContext(ctx, q, graceDays, dailyRate, model.StatusApproved)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
