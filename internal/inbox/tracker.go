package inbox

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
)

// Acker acknowledges a single message notification remotely.
type Acker interface {
	MarkMessageNotificationRead(ctx context.Context, id int64) error
}

// UnreadUpdate is the payload of notify.unread events.
type UnreadUpdate struct {
	Unread int
}

// Tracker is the single owner of the message-notification list and the unread
// badge derived from it. The poller and user-initiated mark-as-read actions
// both go through it, so the badge never diverges between the two writers.
type Tracker struct {
	mu     sync.Mutex
	notifs []api.MessageNotification

	bus    *bus.Bus
	logger *zap.Logger
}

// NewTracker creates an empty tracker publishing badge changes on b.
func NewTracker(b *bus.Bus, logger *zap.Logger) *Tracker {
	return &Tracker{bus: b, logger: logger}
}

// Replace installs a fresh server snapshot. Notifications already marked read
// locally stay read even if the snapshot still reports them unread, since a
// poll can race an acknowledgement that has already succeeded.
func (t *Tracker) Replace(notifs []api.MessageNotification) {
	t.mu.Lock()
	localRead := make(map[int64]bool, len(t.notifs))
	for _, n := range t.notifs {
		if n.IsRead {
			localRead[n.ID] = true
		}
	}
	merged := make([]api.MessageNotification, len(notifs))
	copy(merged, notifs)
	for i := range merged {
		if localRead[merged[i].ID] {
			merged[i].IsRead = true
		}
	}
	t.notifs = merged
	unread := t.unreadLocked()
	t.mu.Unlock()

	t.publishUnread(unread)
}

// Unread returns the current badge count.
func (t *Tracker) Unread() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.unreadLocked()
}

// Snapshot returns a copy of the tracked notification list.
func (t *Tracker) Snapshot() []api.MessageNotification {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]api.MessageNotification, len(t.notifs))
	copy(out, t.notifs)
	return out
}

// MarkConversationRead acknowledges every unread notification from the named
// counterpart. Acknowledgements run concurrently and reconcile independently:
// each success flips its own notification and updates the badge immediately,
// a failed one stays unread and is retried on the next open. Returns how many
// were acknowledged and the first error encountered.
func (t *Tracker) MarkConversationRead(ctx context.Context, counterpartName string, acker Acker) (int, error) {
	t.mu.Lock()
	var targets []int64
	for _, n := range t.notifs {
		if !n.IsRead && n.SenderName == counterpartName {
			targets = append(targets, n.ID)
		}
	}
	t.mu.Unlock()
	if len(targets) == 0 {
		return 0, nil
	}

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		marked int
		first  error
	)
	for _, id := range targets {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			if err := acker.MarkMessageNotificationRead(ctx, id); err != nil {
				t.logger.Warn("mark notification read failed",
					zap.Int64("notification_id", id), zap.Error(err))
				mu.Lock()
				if first == nil {
					first = err
				}
				mu.Unlock()
				return
			}
			t.markRead(id)
			mu.Lock()
			marked++
			mu.Unlock()
		}(id)
	}
	wg.Wait()
	return marked, first
}

func (t *Tracker) markRead(id int64) {
	t.mu.Lock()
	for i := range t.notifs {
		if t.notifs[i].ID == id {
			t.notifs[i].IsRead = true
			break
		}
	}
	unread := t.unreadLocked()
	t.mu.Unlock()

	t.publishUnread(unread)
}

func (t *Tracker) unreadLocked() int {
	n := 0
	for _, notif := range t.notifs {
		if !notif.IsRead {
			n++
		}
	}
	return n
}

func (t *Tracker) publishUnread(unread int) {
	if t.bus == nil {
		return
	}
	t.bus.Publish(bus.Event{
		Kind:      bus.KindNotifyUnread,
		Timestamp: time.Now(),
		Payload:   UnreadUpdate{Unread: unread},
	})
}
