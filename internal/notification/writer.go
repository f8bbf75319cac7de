package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"appointly/backend/internal/domain"
	"appointly/backend/internal/events"
	"appointly/backend/internal/store"
)

type EventPublisher interface {
	PublishJSON(ctx context.Context, key string, v any) error
}

// Writer stores a notification for its recipient and then announces it on the
// event bus. Delivery to devices happens downstream of the bus.
type Writer struct {
	repo      store.NotificationRepository
	publisher EventPublisher
	log       *slog.Logger
}

func NewWriter(repo store.NotificationRepository, publisher EventPublisher, log *slog.Logger) *Writer {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Writer{
		repo:      repo,
		publisher: publisher,
		log:       log.With(slog.String("component", "notification.writer")),
	}
}

func (w *Writer) Create(ctx context.Context, content, recipientID string) (domain.Notification, error) {
	recipientID = strings.TrimSpace(recipientID)
	if recipientID == "" {
		return domain.Notification{}, fmt.Errorf("notification: recipient is required")
	}

	n, err := w.repo.Create(ctx, domain.Notification{
		Content:     content,
		RecipientID: recipientID,
	})
	if err != nil {
		return domain.Notification{}, fmt.Errorf("notification: store: %w", err)
	}

	// The stored record is the source of truth; a lost event only delays delivery.
	if err := w.publisher.PublishJSON(ctx, events.NotificationCreated, n); err != nil {
		w.log.Warn(
			"publish notification event failed",
			slog.Any("err", err),
			slog.String("notification_id", n.ID),
			slog.String("recipient_id", recipientID),
		)
	}
	return n, nil
}
