package poller

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jmoralesv/turnia-backend/pkg/enums"
)

// notificationTTL is how long a status-change notification stays visible.
const notificationTTL = 6 * time.Second

// Notification is one ephemeral status-change entry shown on the dashboard.
type Notification struct {
	ID           uuid.UUID              `json:"id"`
	OrderID      uuid.UUID              `json:"order_id"`
	OrderCode    string                 `json:"order_code"`
	AssignmentID uuid.UUID              `json:"assignment_id"`
	StaffID      uuid.UUID              `json:"staff_id"`
	StaffName    string                 `json:"staff_name"`
	Status       enums.AssignmentStatus `json:"status"`
	EmittedAt    time.Time              `json:"emitted_at"`
}

// Feed holds recent notifications in memory. Entries expire lazily: the
// next read drops whatever has outlived the TTL.
type Feed struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries []Notification
	now     func() time.Time
}

// NewFeed builds a feed with the default notification TTL.
func NewFeed() *Feed {
	return NewFeedWithTTL(notificationTTL)
}

// NewFeedWithTTL builds a feed whose entries expire after ttl. A
// non-positive ttl falls back to the default.
func NewFeedWithTTL(ttl time.Duration) *Feed {
	if ttl <= 0 {
		ttl = notificationTTL
	}
	return &Feed{ttl: ttl, now: time.Now}
}

// Publish appends a notification, stamping its id and emission time.
func (f *Feed) Publish(notification Notification) Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	if notification.ID == uuid.Nil {
		notification.ID = uuid.New()
	}
	notification.EmittedAt = f.now()
	f.prune(notification.EmittedAt)
	f.entries = append(f.entries, notification)
	return notification
}

// Active returns the notifications that have not yet expired, oldest first.
func (f *Feed) Active() []Notification {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.prune(f.now())
	out := make([]Notification, len(f.entries))
	copy(out, f.entries)
	return out
}

func (f *Feed) prune(now time.Time) {
	cutoff := now.Add(-f.ttl)
	kept := f.entries[:0]
	for _, entry := range f.entries {
		if entry.EmittedAt.After(cutoff) {
			kept = append(kept, entry)
		}
	}
	f.entries = kept
}
