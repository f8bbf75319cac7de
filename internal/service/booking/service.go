package booking

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"appointly/backend/internal/domain"
	"appointly/backend/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

type Options struct {
	// Hours defaults to DefaultStartHour..DefaultLimitHour when nil. A
	// non-nil value is used as given, including 0..0.
	Hours    *BusinessHours
	Location *time.Location
	Clock    Clock
	Logger   *slog.Logger
}

type Service struct {
	validator *Validator
	committer *Committer
	repo      store.AppointmentRepository
	cache     store.AgendaCache
	guard     *agendaGuard
	location  *time.Location
	log       *slog.Logger
	tracer    trace.Tracer
}

func NewService(repo store.AppointmentRepository, notifications NotificationWriter, cache store.AgendaCache, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	hours := BusinessHours{StartHour: DefaultStartHour, LimitHour: DefaultLimitHour}
	if opts.Hours != nil {
		hours = *opts.Hours
	}

	guard := &agendaGuard{}
	return &Service{
		validator: NewValidator(repo, hours, opts.Location, opts.Clock),
		committer: NewCommitter(repo, notifications, guardedInvalidator{next: cache, guard: guard}, opts.Location, opts.Logger),
		repo:      repo,
		cache:     cache,
		guard:     guard,
		location:  opts.Location,
		log:       opts.Logger.With(slog.String("component", "booking.service")),
		tracer:    otel.Tracer("appointly/booking"),
	}
}

// Book admits and commits a single booking. A *RejectionError means nothing
// was written.
func (s *Service) Book(ctx context.Context, req domain.BookingRequest) (domain.Appointment, error) {
	ctx, span := s.tracer.Start(ctx, "booking.Book", trace.WithAttributes(
		attribute.String("provider_id", req.ProviderID),
		attribute.String("customer_id", req.CustomerID),
		attribute.String("appointment_type", string(req.Type)),
	))
	defer span.End()

	vb, err := s.validator.Validate(ctx, req)
	if err != nil {
		recordOutcome(span, err)
		return domain.Appointment{}, err
	}

	appt, err := s.committer.Commit(ctx, vb)
	if err != nil {
		recordOutcome(span, err)
		return domain.Appointment{}, err
	}

	span.SetAttributes(attribute.String("appointment_id", appt.ID.String()))
	return appt, nil
}

func recordOutcome(span trace.Span, err error) {
	var rErr *RejectionError
	if errors.As(err, &rErr) {
		span.SetAttributes(attribute.String("rejection", string(rErr.Reason)))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// ListProviderDay returns the provider's appointments for the day containing
// day, reading through the agenda cache. A listing read before a booking
// committed by this service is not written back over its invalidation.
func (s *Service) ListProviderDay(ctx context.Context, providerID string, day time.Time) ([]domain.Appointment, error) {
	providerID = strings.TrimSpace(providerID)
	if providerID == "" {
		return nil, validationError("provider_id is required")
	}

	dayStart := domain.StartOfDay(day, s.location)
	dayEnd := dayStart.AddDate(0, 0, 1)
	key := store.ProviderAgendaKey(providerID, dayStart)

	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.log.Warn("agenda cache read failed", slog.Any("err", err), slog.String("key", key))
	}
	if ok {
		var appts []domain.Appointment
		if err := json.Unmarshal(cached, &appts); err == nil {
			return appts, nil
		}
		s.log.Warn("agenda cache entry unreadable", slog.String("key", key))
	}

	epoch := s.guard.snapshot(key)
	appts, err := s.repo.ListProviderDay(ctx, providerID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	b, err := json.Marshal(appts)
	if err == nil {
		var written bool
		written, err = s.guard.writeBack(key, epoch, func() error {
			return s.cache.Set(ctx, key, b)
		})
		if !written {
			s.log.Debug("agenda cache write skipped after invalidation", slog.String("key", key))
		}
	}
	if err != nil {
		s.log.Warn("agenda cache write failed", slog.Any("err", err), slog.String("key", key))
	}

	return appts, nil
}
