package booking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"appointly/backend/internal/domain"
	"appointly/backend/internal/store"
)

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type fakeLookup struct {
	findFn func(ctx context.Context, providerID string, scheduledAt time.Time) (domain.Appointment, error)
}

func (f *fakeLookup) FindInSlot(ctx context.Context, providerID string, scheduledAt time.Time) (domain.Appointment, error) {
	if f.findFn == nil {
		return domain.Appointment{}, store.ErrNotFound
	}
	return f.findFn(ctx, providerID, scheduledAt)
}

type fakeCreator struct {
	createFn func(ctx context.Context, appt domain.Appointment) (domain.Appointment, error)
}

func (f *fakeCreator) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	if f.createFn == nil {
		panic("Create not configured")
	}
	return f.createFn(ctx, appt)
}

type sentNotification struct {
	content     string
	recipientID string
}

type fakeNotifications struct {
	err  error
	sent []sentNotification
}

func (f *fakeNotifications) Create(ctx context.Context, content, recipientID string) (domain.Notification, error) {
	f.sent = append(f.sent, sentNotification{content: content, recipientID: recipientID})
	if f.err != nil {
		return domain.Notification{}, f.err
	}
	return domain.Notification{ID: "n1", Content: content, RecipientID: recipientID}, nil
}

type fakeCache struct {
	mu          sync.Mutex
	entries     map[string][]byte
	getErr      error
	setErr      error
	invalidErr  error
	invalidated []string
	gets        int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return nil, false, f.getErr
	}
	b, ok := f.entries[key]
	return b, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.setErr != nil {
		return f.setErr
	}
	f.entries[key] = value
	return nil
}

func (f *fakeCache) Invalidate(ctx context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated = append(f.invalidated, key)
	if f.invalidErr != nil {
		return f.invalidErr
	}
	delete(f.entries, key)
	return nil
}

// memRepo enforces provider/slot uniqueness the way the database index does.
type memRepo struct {
	mu    sync.Mutex
	rows  []domain.Appointment
	lists int
}

func (r *memRepo) FindInSlot(ctx context.Context, providerID string, scheduledAt time.Time) (domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.ProviderID == providerID && a.ScheduledAt.Equal(scheduledAt) {
			return a, nil
		}
	}
	return domain.Appointment{}, store.ErrNotFound
}

func (r *memRepo) Create(ctx context.Context, appt domain.Appointment) (domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.rows {
		if a.ProviderID == appt.ProviderID && a.ScheduledAt.Equal(appt.ScheduledAt) {
			return domain.Appointment{}, store.ErrConflict
		}
	}
	appt.ID = uuid.New()
	appt.CreatedAt = fixedNow
	appt.UpdatedAt = fixedNow
	r.rows = append(r.rows, appt)
	return appt, nil
}

func (r *memRepo) ListProviderDay(ctx context.Context, providerID string, dayStart, dayEnd time.Time) ([]domain.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists++
	var out []domain.Appointment
	for _, a := range r.rows {
		if a.ProviderID == providerID && !a.ScheduledAt.Before(dayStart) && a.ScheduledAt.Before(dayEnd) {
			out = append(out, a)
		}
	}
	return out, nil
}
