package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"appointly/backend/internal/domain"
	"appointly/backend/internal/store"
)

const (
	DefaultStartHour = 8
	DefaultLimitHour = 17
)

type Clock func() time.Time

type BusinessHours struct {
	StartHour int
	LimitHour int
}

// Contains reports whether hour is a permitted slot start. Both bounds are
// inclusive.
func (h BusinessHours) Contains(hour int) bool {
	return hour >= h.StartHour && hour <= h.LimitHour
}

type AppointmentLookup interface {
	FindInSlot(ctx context.Context, providerID string, scheduledAt time.Time) (domain.Appointment, error)
}

// ValidatedBooking is a BookingRequest that passed every admission check,
// with its time normalized to the slot start.
type ValidatedBooking struct {
	ProviderID  string
	CustomerID  string
	ScheduledAt time.Time
	Type        domain.AppointmentType
}

type Validator struct {
	lookup   AppointmentLookup
	hours    BusinessHours
	location *time.Location
	now      Clock
}

func NewValidator(lookup AppointmentLookup, hours BusinessHours, loc *time.Location, now Clock) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	if now == nil {
		now = time.Now
	}
	return &Validator{lookup: lookup, hours: hours, location: loc, now: now}
}

// Validate runs the admission checks in a fixed order and stops at the first
// failure: slot conflict, self-booking, past date, business hours.
func (v *Validator) Validate(ctx context.Context, req domain.BookingRequest) (ValidatedBooking, error) {
	scheduledAt := domain.StartOfHour(req.RequestedAt, v.location)

	existing, err := v.lookup.FindInSlot(ctx, req.ProviderID, scheduledAt)
	switch {
	case errors.Is(err, store.ErrNotFound):
	case err != nil:
		return ValidatedBooking{}, fmt.Errorf("booking: find slot: %w", err)
	case existing.ProviderID == req.ProviderID:
		return ValidatedBooking{}, rejection(ReasonSlotTaken)
	}

	if req.ProviderID == req.CustomerID {
		return ValidatedBooking{}, rejection(ReasonSelfBooking)
	}

	now := v.now()
	if !scheduledAt.After(now) {
		return ValidatedBooking{}, rejection(ReasonPastDate)
	}

	if !v.hours.Contains(scheduledAt.Hour()) {
		return ValidatedBooking{}, rejection(ReasonOutsideBusinessHours)
	}

	return ValidatedBooking{
		ProviderID:  req.ProviderID,
		CustomerID:  req.CustomerID,
		ScheduledAt: scheduledAt,
		Type:        req.Type,
	}, nil
}
