package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type notificationRepository struct {
	pool *pgxpool.Pool
}

// NewNotificationRepository returns a Postgres-backed implementation of NotificationRepository.
func NewNotificationRepository(pool *pgxpool.Pool) repository.NotificationRepository {
	return &notificationRepository{pool: pool}
}

func (r *notificationRepository) Create(ctx context.Context, record *domain.NotificationRecord) error {
	if record == nil {
		return domain.ErrInvalidPayload
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.Status == "" {
		record.Status = "sent"
	}

	const query = `
	INSERT INTO notifications (id, type, subject, message, recipient, status)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING created_at
	`
	return r.pool.QueryRow(ctx, query,
		record.ID,
		record.Type,
		record.Subject,
		record.Message,
		record.Recipient,
		record.Status,
	).Scan(&record.CreatedAt)
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.NotificationRecord, error) {
	const query = `
	SELECT id, type, subject, message, recipient, status, created_at
	FROM notifications
	WHERE ($1 = '' OR type = $1)
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, filter.Type, clampLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.NotificationRecord
	for rows.Next() {
		var record domain.NotificationRecord
		if err := rows.Scan(
			&record.ID,
			&record.Type,
			&record.Subject,
			&record.Message,
			&record.Recipient,
			&record.Status,
			&record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
