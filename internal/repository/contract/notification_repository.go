package contract

import (
	"context"

	"realty-agent-be/internal/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	Find(ctx context.Context, limit, offset int) ([]entity.Notification, int64, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context) error
}
