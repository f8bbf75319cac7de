package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun"

	"appointly/backend/internal/domain"
	"appointly/backend/internal/store"
)

const (
	pgUniqueViolation = "23505"
	providerSlotIndex = "appointments_provider_slot_key"
)

type AppointmentRepo struct {
	db *bun.DB
}

func NewAppointmentRepo(db *bun.DB) *AppointmentRepo {
	return &AppointmentRepo{db: db}
}

func (r *AppointmentRepo) FindInSlot(ctx context.Context, providerID string, scheduledAt time.Time) (domain.Appointment, error) {
	return findInSlot(ctx, r.db, providerID, scheduledAt)
}

// Create inserts appt while holding a transaction-scoped advisory lock on the
// provider's slot. The unique index still decides the outcome when callers
// bypass the lock.
func (r *AppointmentRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	var out domain.Appointment
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := lockProviderSlot(ctx, tx, appt.ProviderID, appt.ScheduledAt); err != nil {
			return err
		}
		if _, err := findInSlot(ctx, tx, appt.ProviderID, appt.ScheduledAt); err == nil {
			return store.ErrConflict
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}
		a, err := insertAppointment(ctx, tx, appt)
		if err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return domain.Appointment{}, err
	}
	return out, nil
}

func (r *AppointmentRepo) ListProviderDay(ctx context.Context, providerID string, dayStart, dayEnd time.Time) ([]domain.Appointment, error) {
	return listProviderDay(ctx, r.db, providerID, dayStart, dayEnd)
}

func listProviderDay(ctx context.Context, db bun.IDB, providerID string, dayStart, dayEnd time.Time) ([]domain.Appointment, error) {
	var rows []domain.Appointment
	err := db.NewSelect().
		Model(&rows).
		Where("provider_id = ?", providerID).
		Where("scheduled_at >= ?", dayStart.UTC()).
		Where("scheduled_at < ?", dayEnd.UTC()).
		OrderExpr("scheduled_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func findInSlot(ctx context.Context, db bun.IDB, providerID string, scheduledAt time.Time) (domain.Appointment, error) {
	var existing domain.Appointment
	err := db.NewSelect().
		Model(&existing).
		Where("provider_id = ?", providerID).
		Where("scheduled_at = ?", scheduledAt.UTC()).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Appointment{}, store.ErrNotFound
		}
		return domain.Appointment{}, err
	}
	return existing, nil
}

func insertAppointment(ctx context.Context, db bun.IDB, appt domain.Appointment) (domain.Appointment, error) {
	m := domain.Appointment{
		ID:          appt.ID,
		ProviderID:  appt.ProviderID,
		CustomerID:  appt.CustomerID,
		ScheduledAt: appt.ScheduledAt.UTC(),
		Type:        appt.Type,
		CreatedAt:   appt.CreatedAt,
		UpdatedAt:   appt.UpdatedAt,
	}

	if _, err := db.NewInsert().Model(&m).Exec(ctx); err != nil {
		if isProviderSlotViolation(err) {
			return domain.Appointment{}, store.ErrConflict
		}
		return domain.Appointment{}, err
	}

	m.ScheduledAt = appt.ScheduledAt
	return m, nil
}

func isProviderSlotViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgUniqueViolation && pgErr.ConstraintName == providerSlotIndex
}

func lockProviderSlot(ctx context.Context, tx bun.Tx, providerID string, scheduledAt time.Time) error {
	key := providerID + "|" + strconv.FormatInt(scheduledAt.UTC().Unix(), 10)
	_, err := tx.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", key).Exec(ctx)
	return err
}
