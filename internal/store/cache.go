package store

import (
	"context"
	"fmt"
	"time"
)

// AgendaCache holds serialized provider day listings. Invalidate must be a
// no-op for keys that are not present.
type AgendaCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Invalidate(ctx context.Context, key string) error
}

const providerAgendaPrefix = "provider-appointments-list"

// ProviderAgendaKey is shared by whatever fills the cache and by the booking
// committer that clears it. The day is taken from t in its own location.
func ProviderAgendaKey(providerID string, t time.Time) string {
	return fmt.Sprintf("%s:%s:%d-%d-%d", providerAgendaPrefix, providerID, t.Year(), int(t.Month()), t.Day())
}
