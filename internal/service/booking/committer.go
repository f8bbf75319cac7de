package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"appointly/backend/internal/domain"
	"appointly/backend/internal/store"
)

type AppointmentCreator interface {
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}

type NotificationWriter interface {
	Create(ctx context.Context, content, recipientID string) (domain.Notification, error)
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, key string) error
}

type Committer struct {
	appointments  AppointmentCreator
	notifications NotificationWriter
	cache         CacheInvalidator
	location      *time.Location
	log           *slog.Logger
}

func NewCommitter(appointments AppointmentCreator, notifications NotificationWriter, cache CacheInvalidator, loc *time.Location, log *slog.Logger) *Committer {
	if loc == nil {
		loc = time.UTC
	}
	if log == nil {
		log = slog.Default()
	}
	return &Committer{
		appointments:  appointments,
		notifications: notifications,
		cache:         cache,
		location:      loc,
		log:           log.With(slog.String("component", "booking.committer")),
	}
}

// Commit persists the appointment, then notifies the provider and clears the
// provider's cached agenda for that day. Only the persist step can fail the
// booking; the other two are logged and dropped.
func (c *Committer) Commit(ctx context.Context, vb ValidatedBooking) (domain.Appointment, error) {
	appt, err := c.appointments.Create(ctx, domain.Appointment{
		ProviderID:  vb.ProviderID,
		CustomerID:  vb.CustomerID,
		ScheduledAt: vb.ScheduledAt,
		Type:        vb.Type,
	})
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			c.log.Info(
				"slot taken on insert",
				slog.String("provider_id", vb.ProviderID),
				slog.Time("scheduled_at", vb.ScheduledAt),
			)
			return domain.Appointment{}, rejection(ReasonSlotTaken)
		}
		return domain.Appointment{}, fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	content := "You have an appointment schedule to " + domain.FormatSlot(vb.ScheduledAt, c.location)
	if _, err := c.notifications.Create(ctx, content, vb.ProviderID); err != nil {
		c.log.Warn(
			"provider notification failed",
			slog.Any("err", err),
			slog.String("appointment_id", appt.ID.String()),
			slog.String("provider_id", vb.ProviderID),
		)
	}

	key := store.ProviderAgendaKey(vb.ProviderID, vb.ScheduledAt.In(c.location))
	if err := c.cache.Invalidate(ctx, key); err != nil {
		c.log.Warn("agenda cache invalidate failed", slog.Any("err", err), slog.String("key", key))
	}

	return appt, nil
}
