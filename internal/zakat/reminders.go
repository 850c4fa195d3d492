package zakat

import (
	"context"
	"fmt"
	"sync"

	"github.com/carson-networks/finance-tracker/internal/ledger"
)

// ReminderKey identifies one notification cycle.
type ReminderKey struct {
	Year  int
	Owner ledger.Owner
}

func (k ReminderKey) String() string {
	return fmt.Sprintf("%d/%s", k.Year, k.Owner)
}

// Reminders records which cycles have already been notified. Claim returns true only for the
// first caller of a key; Release undoes a claim whose notification failed.
type Reminders interface {
	Claim(ctx context.Context, key ReminderKey) (bool, error)
	Release(ctx context.Context, key ReminderKey) error
}

// Notifier delivers an obligation reminder.
type Notifier interface {
	NotifyObligated(ctx context.Context, a Assessment) error
}

type MemoryReminders struct {
	mu   sync.Mutex
	seen map[ReminderKey]struct{}
}

func NewMemoryReminders() *MemoryReminders {
	return &MemoryReminders{seen: make(map[ReminderKey]struct{})}
}

func (m *MemoryReminders) Claim(_ context.Context, key ReminderKey) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.seen[key]; ok {
		return false, nil
	}
	m.seen[key] = struct{}{}
	return true, nil
}

func (m *MemoryReminders) Release(_ context.Context, key ReminderKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.seen, key)
	return nil
}

// NotifyOnce sends a reminder for an obligated assessment at most once per (year, owner).
// It reports whether a notification was sent.
func NotifyOnce(ctx context.Context, a Assessment, year int, reminders Reminders, notifier Notifier) (bool, error) {
	if a.State != Obligated {
		return false, nil
	}
	key := ReminderKey{Year: year, Owner: a.Owner}
	claimed, err := reminders.Claim(ctx, key)
	if err != nil {
		return false, fmt.Errorf("failed to claim reminder %s: %w", key, err)
	}
	if !claimed {
		return false, nil
	}
	if err := notifier.NotifyObligated(ctx, a); err != nil {
		if relErr := reminders.Release(ctx, key); relErr != nil {
			return false, fmt.Errorf("failed to notify %s: %w (release: %v)", key, err, relErr)
		}
		return false, fmt.Errorf("failed to notify %s: %w", key, err)
	}
	return true, nil
}
