package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"realty-agent-be/internal/constant"
	"realty-agent-be/internal/entity"
	"realty-agent-be/internal/pkg/logger"
	"realty-agent-be/internal/repository/contract"
	"realty-agent-be/pkg/events"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// NotificationDelivery pushes a stored notification to connected dashboards.
type NotificationDelivery interface {
	BroadcastNotification(notification *entity.Notification)
}

type INotificationService interface {
	// HandleEvent renders a bus event into an inbox entry. Events without a
	// registered template are dropped silently.
	HandleEvent(ctx context.Context, event events.Event) error

	List(ctx context.Context, limit, offset int) ([]entity.Notification, int64, error)
	UnreadCount(ctx context.Context) (int64, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context) error
}

type notificationService struct {
	notificationRepo contract.NotificationRepository
	delivery         NotificationDelivery
	logger           logger.ILogger
}

func NewNotificationService(
	notificationRepo contract.NotificationRepository,
	delivery NotificationDelivery,
	logger logger.ILogger,
) INotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		delivery:         delivery,
		logger:           logger,
	}
}

func (s *notificationService) HandleEvent(ctx context.Context, event events.Event) error {
	tmpl, ok := constant.NotificationTemplates[event.EventType()]
	if !ok {
		s.logger.Debug("notification", "no template registered for event", map[string]interface{}{
			"event": event.EventType(),
		})
		return nil
	}

	metadata, err := json.Marshal(event.Payload())
	if err != nil {
		metadata = []byte("{}")
	}

	notification := &entity.Notification{
		Id:        uuid.New(),
		TypeCode:  event.EventType(),
		Title:     tmpl.Title,
		Message:   renderTemplate(tmpl.Template, event.Payload()),
		Metadata:  datatypes.JSON(metadata),
		CreatedAt: event.Timestamp(),
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	if s.delivery != nil {
		s.delivery.BroadcastNotification(notification)
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, limit, offset int) ([]entity.Notification, int64, error) {
	return s.notificationRepo.Find(ctx, limit, offset)
}

func (s *notificationService) UnreadCount(ctx context.Context) (int64, error) {
	return s.notificationRepo.UnreadCount(ctx)
}

func (s *notificationService) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	return s.notificationRepo.MarkAsRead(ctx, id)
}

func (s *notificationService) MarkAllAsRead(ctx context.Context) error {
	return s.notificationRepo.MarkAllAsRead(ctx)
}

// renderTemplate substitutes {key} placeholders from the event payload.
// Unknown placeholders stay in place, which makes a template/payload mismatch
// visible in the inbox instead of hiding it.
func renderTemplate(tmpl string, payload map[string]interface{}) string {
	out := tmpl
	for key, value := range payload {
		out = strings.ReplaceAll(out, "{"+key+"}", fmt.Sprintf("%v", value))
	}
	return out
}
