package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/librisys/librisys/internal/model"
)

func (r *repository) CreateNotification(ctx context.Context, userID int, message, notifType string) error {
	q, args, err := qb.Insert(notificationsTableName).
		Columns("user_id", "message", "type").
		Values(userID, message, notifType).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q, args...)
	return err
}

func (r *repository) UnreadNotifications(ctx context.Context, userID int) ([]model.Notification, error) {
	q, args, err := qb.Select("id", "user_id", "message", "type", "is_read", "created_at").
		From(notificationsTableName).
		Where(sq.Eq{"user_id": userID, "is_read": false}).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}
	var items []model.Notification
	if err := r.db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) MarkNotificationsRead(ctx context.Context, userID int) error {
	q := fmt.Sprintf(`update %s set is_read = true where user_id = $1`, notificationsTableName)
	_, err := r.db.ExecContext(ctx, q, userID)
	return err
}
