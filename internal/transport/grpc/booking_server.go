package grpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"appointly/backend/internal/domain"
	"appointly/backend/internal/service/booking"
)

const errorDomain = "appointly.booking"

type BookingServer struct {
	svc bookingService
	log *slog.Logger
}

type bookingService interface {
	Book(ctx context.Context, req domain.BookingRequest) (domain.Appointment, error)
	ListProviderDay(ctx context.Context, providerID string, day time.Time) ([]domain.Appointment, error)
}

var _ BookingServiceServer = (*BookingServer)(nil)

func NewBookingServer(svc bookingService, log *slog.Logger) *BookingServer {
	if log == nil {
		log = slog.Default()
	}
	return &BookingServer{
		svc: svc,
		log: log.With(slog.String("component", "grpc.booking")),
	}
}

func (s *BookingServer) BookAppointment(ctx context.Context, req *BookAppointmentRequest) (*BookAppointmentResponse, error) {
	log := s.log.With(slog.String("rpc", "BookAppointment"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	providerID := strings.TrimSpace(req.ProviderID)
	customerID := strings.TrimSpace(req.CustomerID)
	if providerID == "" || customerID == "" {
		log.Warn("invalid request", slog.String("reason", "missing_party"), slog.String("provider_id", providerID))
		return nil, status.Error(codes.InvalidArgument, "provider_id and customer_id are required")
	}
	if req.ScheduledAt == nil {
		log.Warn("invalid request", slog.String("reason", "missing_time"), slog.String("provider_id", providerID))
		return nil, status.Error(codes.InvalidArgument, "scheduled_at is required")
	}
	if err := req.ScheduledAt.CheckValid(); err != nil {
		log.Warn("invalid request", slog.String("reason", "invalid_time"), slog.String("provider_id", providerID))
		return nil, status.Error(codes.InvalidArgument, "scheduled_at is not a valid timestamp")
	}
	typ := domain.AppointmentType(strings.TrimSpace(req.Type))
	if !typ.Valid() {
		log.Warn("invalid request", slog.String("reason", "invalid_type"), slog.String("type", req.Type))
		return nil, status.Error(codes.InvalidArgument, "type must be one of consultation, follow_up, procedure")
	}

	appt, err := s.svc.Book(ctx, domain.BookingRequest{
		ProviderID:  providerID,
		CustomerID:  customerID,
		RequestedAt: req.ScheduledAt.AsTime(),
		Type:        typ,
	})
	if err != nil {
		var rErr *booking.RejectionError
		if errors.As(err, &rErr) {
			log.Info(
				"booking rejected",
				slog.String("reason", string(rErr.Reason)),
				slog.String("provider_id", providerID),
				slog.String("customer_id", customerID),
				slog.Time("scheduled_at", req.ScheduledAt.AsTime()),
			)
			return nil, rejectionStatus(rErr)
		}
		log.Error("booking failed", slog.Any("err", err), slog.String("provider_id", providerID))
		return nil, status.Error(codes.Internal, "internal error")
	}

	log.Info(
		"appointment booked",
		slog.String("appointment_id", appt.ID.String()),
		slog.String("provider_id", appt.ProviderID),
		slog.String("customer_id", appt.CustomerID),
		slog.Time("scheduled_at", appt.ScheduledAt),
	)

	return &BookAppointmentResponse{Appointment: toWireAppointment(appt)}, nil
}

func (s *BookingServer) ListProviderDayAppointments(ctx context.Context, req *ListProviderDayAppointmentsRequest) (*ListProviderDayAppointmentsResponse, error) {
	log := s.log.With(slog.String("rpc", "ListProviderDayAppointments"))

	if req == nil {
		log.Warn("invalid request", slog.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	if req.Day == nil {
		log.Warn("invalid request", slog.String("reason", "missing_day"), slog.String("provider_id", req.ProviderID))
		return nil, status.Error(codes.InvalidArgument, "day is required")
	}

	appts, err := s.svc.ListProviderDay(ctx, req.ProviderID, req.Day.AsTime())
	if err != nil {
		var vErr *booking.ValidationError
		if errors.As(err, &vErr) {
			log.Warn("invalid request", slog.Any("err", err), slog.String("provider_id", req.ProviderID))
			return nil, status.Error(codes.InvalidArgument, vErr.Error())
		}
		log.Error("provider day list failed", slog.Any("err", err), slog.String("provider_id", req.ProviderID))
		return nil, status.Error(codes.Internal, "internal error")
	}

	out := make([]*Appointment, 0, len(appts))
	for _, a := range appts {
		out = append(out, toWireAppointment(a))
	}

	log.Debug(
		"provider day listed",
		slog.String("provider_id", req.ProviderID),
		slog.Int("count", len(out)),
		slog.Time("day", req.Day.AsTime()),
	)

	return &ListProviderDayAppointmentsResponse{Appointments: out}, nil
}

// rejectionStatus maps a business rejection to a status carrying the reason
// as an ErrorInfo detail so clients need not parse the message.
func rejectionStatus(rErr *booking.RejectionError) error {
	code := codes.InvalidArgument
	if rErr.Reason == booking.ReasonSlotTaken {
		code = codes.FailedPrecondition
	}

	st := status.New(code, rErr.Error())
	withInfo, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason: string(rErr.Reason),
		Domain: errorDomain,
	})
	if err != nil {
		return st.Err()
	}
	return withInfo.Err()
}

func toWireAppointment(a domain.Appointment) *Appointment {
	return &Appointment{
		ID:          a.ID.String(),
		ProviderID:  a.ProviderID,
		CustomerID:  a.CustomerID,
		ScheduledAt: timestamppb.New(a.ScheduledAt),
		Type:        string(a.Type),
		CreatedAt:   timestamppb.New(a.CreatedAt),
		UpdatedAt:   timestamppb.New(a.UpdatedAt),
	}
}
