package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/DaniyalGhauri/DriveSmart/internal/domain"
	"github.com/DaniyalGhauri/DriveSmart/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func enqueueNotificationTx(ctx context.Context, tx *sql.Tx, n *domain.Notification) error {
	n.Status = domain.NotificationStatusPending
	n.CreatedOn = time.Now()
	return tx.QueryRowContext(ctx,
		`INSERT INTO notification_outbox (key, recipient, channel, subject, body, status, attempts, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, $7) RETURNING id`,
		n.Key, n.Recipient, n.Channel, n.Subject, n.Body, n.Status, n.CreatedOn).Scan(&n.ID)
}

func (r *notificationRepository) Enqueue(ctx context.Context, n *domain.Notification) error {
	n.Status = domain.NotificationStatusPending
	n.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx,
		`INSERT INTO notification_outbox (key, recipient, channel, subject, body, status, attempts, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6, 0, $7) RETURNING id`,
		n.Key, n.Recipient, n.Channel, n.Subject, n.Body, n.Status, n.CreatedOn).Scan(&n.ID)
}

func (r *notificationRepository) ListPending(ctx context.Context, limit int32) ([]domain.Notification, error) {
	query := `SELECT id, key, recipient, channel, subject, body, status, attempts, created_on, sent_on
	          FROM notification_outbox WHERE status = 'pending' ORDER BY created_on ASC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.Key, &n.Recipient, &n.Channel, &n.Subject, &n.Body, &n.Status, &n.Attempts, &n.CreatedOn, &n.SentOn); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *notificationRepository) MarkSent(ctx context.Context, id int32) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notification_outbox SET status = 'sent', sent_on = $1, attempts = attempts + 1 WHERE id = $2`,
		time.Now(), id)
	return err
}

func (r *notificationRepository) MarkAttempt(ctx context.Context, id int32, exhausted bool) error {
	status := domain.NotificationStatusPending
	if exhausted {
		status = domain.NotificationStatusFailed
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE notification_outbox SET attempts = attempts + 1, status = $1 WHERE id = $2`,
		status, id)
	return err
}
