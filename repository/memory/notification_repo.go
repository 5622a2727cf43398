package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/shoppulse/pipeline/domain"
	"github.com/shoppulse/pipeline/repository"
)

type notificationRepository struct {
	mu      sync.Mutex
	records []domain.NotificationRecord
}

// NewNotificationRepository returns an in-memory NotificationRepository.
func NewNotificationRepository() repository.NotificationRepository {
	return &notificationRepository{}
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
	record.CreatedAt = time.Now().UTC()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, *record)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, filter repository.NotificationFilter) ([]domain.NotificationRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var records []domain.NotificationRecord
	// Newest first, matching the SQL implementation's ordering.
	for i := len(r.records) - 1; i >= 0; i-- {
		record := r.records[i]
		if filter.Type != "" && record.Type != filter.Type {
			continue
		}
		records = append(records, record)
		if filter.Limit > 0 && len(records) >= filter.Limit {
			break
		}
	}
	return records, nil
}
