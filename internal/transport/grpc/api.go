package grpc

import (
	"context"
	"encoding/json"

	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	BookingServiceName = "appointly.v1.BookingService"

	bookAppointmentMethod             = "/" + BookingServiceName + "/BookAppointment"
	listProviderDayAppointmentsMethod = "/" + BookingServiceName + "/ListProviderDayAppointments"
)

// CodecName is the gRPC content-subtype the booking service speaks. Clients
// must dial with grpc.CallContentSubtype(CodecName).
const CodecName = "json"

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error)      { return json.Marshal(v) }
func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }
func (jsonCodec) Name() string                       { return CodecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Appointment struct {
	ID          string                 `json:"id"`
	ProviderID  string                 `json:"provider_id"`
	CustomerID  string                 `json:"customer_id"`
	ScheduledAt *timestamppb.Timestamp `json:"scheduled_at"`
	Type        string                 `json:"type"`
	CreatedAt   *timestamppb.Timestamp `json:"created_at"`
	UpdatedAt   *timestamppb.Timestamp `json:"updated_at"`
}

type BookAppointmentRequest struct {
	ProviderID  string                 `json:"provider_id"`
	CustomerID  string                 `json:"customer_id"`
	ScheduledAt *timestamppb.Timestamp `json:"scheduled_at"`
	Type        string                 `json:"type"`
}

type BookAppointmentResponse struct {
	Appointment *Appointment `json:"appointment"`
}

type ListProviderDayAppointmentsRequest struct {
	ProviderID string                 `json:"provider_id"`
	Day        *timestamppb.Timestamp `json:"day"`
}

type ListProviderDayAppointmentsResponse struct {
	Appointments []*Appointment `json:"appointments"`
}

type BookingServiceServer interface {
	BookAppointment(ctx context.Context, req *BookAppointmentRequest) (*BookAppointmentResponse, error)
	ListProviderDayAppointments(ctx context.Context, req *ListProviderDayAppointmentsRequest) (*ListProviderDayAppointmentsResponse, error)
}

var BookingServiceDesc = grpc.ServiceDesc{
	ServiceName: BookingServiceName,
	HandlerType: (*BookingServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "BookAppointment", Handler: bookAppointmentHandler},
		{MethodName: "ListProviderDayAppointments", Handler: listProviderDayAppointmentsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "appointly/v1/booking.proto",
}

func RegisterBookingServiceServer(s grpc.ServiceRegistrar, srv BookingServiceServer) {
	s.RegisterService(&BookingServiceDesc, srv)
}

func bookAppointmentHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(BookAppointmentRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingServiceServer).BookAppointment(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: bookAppointmentMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingServiceServer).BookAppointment(ctx, req.(*BookAppointmentRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listProviderDayAppointmentsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ListProviderDayAppointmentsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(BookingServiceServer).ListProviderDayAppointments(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listProviderDayAppointmentsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(BookingServiceServer).ListProviderDayAppointments(ctx, req.(*ListProviderDayAppointmentsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type BookingServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBookingServiceClient(cc grpc.ClientConnInterface) *BookingServiceClient {
	return &BookingServiceClient{cc: cc}
}

func (c *BookingServiceClient) BookAppointment(ctx context.Context, in *BookAppointmentRequest, opts ...grpc.CallOption) (*BookAppointmentResponse, error) {
	out := new(BookAppointmentResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, bookAppointmentMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *BookingServiceClient) ListProviderDayAppointments(ctx context.Context, in *ListProviderDayAppointmentsRequest, opts ...grpc.CallOption) (*ListProviderDayAppointmentsResponse, error) {
	out := new(ListProviderDayAppointmentsResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, listProviderDayAppointmentsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
