package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeFollowUp     AppointmentType = "follow_up"
	AppointmentTypeProcedure    AppointmentType = "procedure"
)

func (t AppointmentType) Valid() bool {
	switch t {
	case AppointmentTypeConsultation, AppointmentTypeFollowUp, AppointmentTypeProcedure:
		return true
	default:
		return false
	}
}

// BookingRequest is what a customer asks for; it is never stored.
type BookingRequest struct {
	ProviderID  string
	CustomerID  string
	RequestedAt time.Time
	Type        AppointmentType
}

type Appointment struct {
	bun.BaseModel `bun:"table:appointments"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	ProviderID  string          `bun:"provider_id,notnull" json:"provider_id"`
	CustomerID  string          `bun:"customer_id,notnull" json:"customer_id"`
	ScheduledAt time.Time       `bun:"scheduled_at,notnull" json:"scheduled_at"`
	Type        AppointmentType `bun:"type,notnull" json:"type"`
	CreatedAt   time.Time       `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull" json:"updated_at"`
}

func (a *Appointment) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	now := time.Now().UTC()
	switch query.(type) {
	case *bun.InsertQuery:
		if a.ID == uuid.Nil {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			a.ID = id
		}
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.IsZero() {
			a.UpdatedAt = now
		}
	case *bun.UpdateQuery:
		a.UpdatedAt = now
	}
	return nil
}
