package repository

import (
	"context"

	"github.com/shoppulse/pipeline/domain"
)

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	Type  string
	Limit int
}

// NotificationRepository stores write-once notification log entries.
type NotificationRepository interface {
	Create(ctx context.Context, record *domain.NotificationRecord) error
	List(ctx context.Context, filter NotificationFilter) ([]domain.NotificationRecord, error)
}
