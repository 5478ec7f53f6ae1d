package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/workoutbuddy/internal/model"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	// ByID only returns notifications addressed to userID.
	ByID(ctx context.Context, id, userID string) (*model.Notification, error)
	Notifications(ctx context.Context, userID string, unreadOnly bool) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id, userID string) (bool, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `INSERT INTO notifications (id, from_user_id, to_user_id, notification_type, title, message,
	                                    related_data, is_read, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		n.ID,
		n.FromUserID,
		n.ToUserID,
		string(n.Type),
		n.Title,
		n.Message,
		n.RelatedData,
		n.IsRead,
		n.CreatedAt,
	)
	return err
}

func (r *notificationRepository) ByID(ctx context.Context, id, userID string) (*model.Notification, error) {
	n := &model.Notification{}
	query := `SELECT * FROM notifications WHERE id = $1 AND to_user_id = $2`

	err := r.db.GetContext(ctx, n, query, id, userID)
	if err == sql.ErrNoRows {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	return n, nil
}

func (r *notificationRepository) Notifications(ctx context.Context, userID string, unreadOnly bool) ([]*model.Notification, error) {
	var notifications []*model.Notification
	query := `SELECT * FROM notifications WHERE to_user_id = $1`
	if unreadOnly {
		query += ` AND is_read = FALSE`
	}
	query += ` ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &notifications, query, userID)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE to_user_id = $1 AND is_read = FALSE`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&count)
	return count, err
}

// MarkRead reports whether an unread notification owned by userID was updated.
func (r *notificationRepository) MarkRead(ctx context.Context, id, userID string) (bool, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND to_user_id = $2 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	query := `UPDATE notifications SET is_read = TRUE WHERE to_user_id = $1 AND is_read = FALSE`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID string) error {
	query := `DELETE FROM notifications WHERE id = $1 AND to_user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return ErrNotificationNotFound
	}

	return nil
}
