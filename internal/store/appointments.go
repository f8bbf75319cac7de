package store

import (
	"context"
	"time"

	"appointly/backend/internal/domain"
)

type AppointmentRepository interface {
	// FindInSlot returns ErrNotFound when the provider holds nothing at scheduledAt.
	FindInSlot(ctx context.Context, providerID string, scheduledAt time.Time) (domain.Appointment, error)
	// Create returns ErrConflict when the provider already holds scheduledAt.
	Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
	ListProviderDay(ctx context.Context, providerID string, dayStart, dayEnd time.Time) ([]domain.Appointment, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n domain.Notification) (domain.Notification, error)
}
