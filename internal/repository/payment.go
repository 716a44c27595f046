package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/librisys/librisys/internal/errs"
	"github.com/librisys/librisys/internal/model"
)

// PayFine appends a payment row and zeroes the fine atomically. Partial
// payments are rejected, not partially applied.
func (r *repository) PayFine(ctx context.Context, borrowID int, amount float64) (model.Payment, error) {
	var payment model.Payment
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var (
			userID int
			fine   float64
		)
		q := fmt.Sprintf(`select user_id, fine from %s where id = $1 for update`, borrowRecordsTableName)
		if err := tx.QueryRowContext(ctx, q, borrowID).Scan(&userID, &fine); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if fine <= 0 {
			return errs.ErrNoFineToPay
		}
		if amount < fine {
			return errs.ErrInsufficientPayment
		}

		q = fmt.Sprintf(`insert into %s (payment_uid, user_id, borrow_id, amount_paid)
	values ($1, $2, $3, $4)
	returning id, payment_uid, user_id, borrow_id, amount_paid, paid_on`, paymentsTableName)
		if err := tx.GetContext(ctx, &payment, q, uuid.New(), userID, borrowID, amount); err != nil {
			return err
		}

		q = fmt.Sprintf(`update %s set fine = 0 where id = $1`, borrowRecordsTableName)
		_, err := tx.ExecContext(ctx, q, borrowID)
		return err
	})
	if err != nil {
		return model.Payment{}, err
	}
	return payment, nil
}

// MarkFinePaid is the administrative shortcut: it zeroes the fine without
// creating a payment row. Returns the record owner for notification.
func (r *repository) MarkFinePaid(ctx context.Context, borrowID int) (int, error) {
	var userID int
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		var fine float64
		q := fmt.Sprintf(`select user_id, fine from %s where id = $1 for update`, borrowRecordsTableName)
		if err := tx.QueryRowContext(ctx, q, borrowID).Scan(&userID, &fine); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}
		if fine <= 0 {
			return errs.ErrNoFineToPay
		}

		q = fmt.Sprintf(`update %s set fine = 0 where id = $1`, borrowRecordsTableName)
		_, err := tx.ExecContext(ctx, q, borrowID)
		return err
	})
	if err != nil {
		return 0, err
	}
	return userID, nil
}
