package booking

import (
	"errors"
)

type Reason string

const (
	ReasonSlotTaken            Reason = "slot_taken"
	ReasonSelfBooking          Reason = "self_booking"
	ReasonPastDate             Reason = "past_date"
	ReasonOutsideBusinessHours Reason = "outside_business_hours"
)

var reasonMessages = map[Reason]string{
	ReasonSlotTaken:            "There's already an appointment booked at that time",
	ReasonSelfBooking:          "You can't book an appointment with yourself",
	ReasonPastDate:             "You can't book an appointment in a past date",
	ReasonOutsideBusinessHours: "You can't book an appointment outside business hours",
}

// RejectionError is an expected business outcome. Nothing has been written
// when one is returned.
type RejectionError struct {
	Reason Reason
}

func (e *RejectionError) Error() string {
	if msg, ok := reasonMessages[e.Reason]; ok {
		return msg
	}
	return string(e.Reason)
}

func rejection(reason Reason) error {
	return &RejectionError{Reason: reason}
}

// IsRejection reports whether err is a rejection for reason.
func IsRejection(err error, reason Reason) bool {
	var rErr *RejectionError
	return errors.As(err, &rErr) && rErr.Reason == reason
}

// ErrPersistence marks storage faults on create. The cause is wrapped
// alongside it.
var ErrPersistence = errors.New("booking: persistence failure")
