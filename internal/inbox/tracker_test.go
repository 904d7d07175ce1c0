package inbox

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
)

type fakeAcker struct {
	mu     sync.Mutex
	acked  []int64
	failOn map[int64]error
}

func (f *fakeAcker) MarkMessageNotificationRead(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failOn[id]; ok {
		return err
	}
	f.acked = append(f.acked, id)
	return nil
}

func testTracker(t *testing.T) (*Tracker, *bus.Bus) {
	t.Helper()
	b := bus.New()
	return NewTracker(b, zap.NewNop()), b
}

func TestTrackerReplaceAndUnread(t *testing.T) {
	tr, _ := testTracker(t)

	tr.Replace([]api.MessageNotification{
		{ID: 1, SenderName: "Acme", IsRead: false},
		{ID: 2, SenderName: "Acme", IsRead: true},
		{ID: 3, SenderName: "Loom", IsRead: false},
	})
	if got := tr.Unread(); got != 2 {
		t.Errorf("unread = %d, want 2", got)
	}
}

func TestMarkConversationRead(t *testing.T) {
	tr, b := testTracker(t)
	events, unsub := b.Subscribe("notify.", 16)
	defer unsub()

	tr.Replace([]api.MessageNotification{
		{ID: 1, SenderName: "Acme", IsRead: false},
		{ID: 2, SenderName: "Acme", IsRead: false},
		{ID: 3, SenderName: "Loom", IsRead: false},
	})
	drain(events)

	acker := &fakeAcker{}
	marked, err := tr.MarkConversationRead(context.Background(), "Acme", acker)
	if err != nil {
		t.Fatal(err)
	}
	if marked != 2 {
		t.Errorf("marked = %d, want 2", marked)
	}
	if got := tr.Unread(); got != 1 {
		t.Errorf("unread = %d, want 1", got)
	}

	// Each acknowledgement publishes a badge update.
	select {
	case evt := <-events:
		if _, ok := evt.Payload.(UnreadUpdate); !ok {
			t.Errorf("payload = %T, want UnreadUpdate", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("no badge event after mark-as-read")
	}
}

func TestMarkConversationReadIdempotent(t *testing.T) {
	tr, _ := testTracker(t)
	tr.Replace([]api.MessageNotification{
		{ID: 1, SenderName: "Acme", IsRead: false},
	})

	acker := &fakeAcker{}
	if _, err := tr.MarkConversationRead(context.Background(), "Acme", acker); err != nil {
		t.Fatal(err)
	}
	marked, err := tr.MarkConversationRead(context.Background(), "Acme", acker)
	if err != nil {
		t.Fatal(err)
	}
	if marked != 0 {
		t.Errorf("second mark = %d, want 0", marked)
	}
	if len(acker.acked) != 1 {
		t.Errorf("remote acks = %d, want 1", len(acker.acked))
	}
	if got := tr.Unread(); got != 0 {
		t.Errorf("unread = %d, want 0", got)
	}
}

func TestMarkConversationReadPartialFailure(t *testing.T) {
	tr, _ := testTracker(t)
	tr.Replace([]api.MessageNotification{
		{ID: 1, SenderName: "Acme", IsRead: false},
		{ID: 2, SenderName: "Acme", IsRead: false},
	})

	boom := errors.New("boom")
	acker := &fakeAcker{failOn: map[int64]error{2: boom}}
	marked, err := tr.MarkConversationRead(context.Background(), "Acme", acker)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if marked != 1 {
		t.Errorf("marked = %d, want 1 (successful ack applies despite sibling failure)", marked)
	}
	if got := tr.Unread(); got != 1 {
		t.Errorf("unread = %d, want 1", got)
	}

	// The failed notification is picked up again on the next attempt.
	acker.failOn = nil
	marked, err = tr.MarkConversationRead(context.Background(), "Acme", acker)
	if err != nil {
		t.Fatal(err)
	}
	if marked != 1 {
		t.Errorf("retry marked = %d, want 1", marked)
	}
}

func TestReplaceKeepsLocallyReadFlips(t *testing.T) {
	tr, _ := testTracker(t)
	tr.Replace([]api.MessageNotification{
		{ID: 1, SenderName: "Acme", IsRead: false},
	})
	if _, err := tr.MarkConversationRead(context.Background(), "Acme", &fakeAcker{}); err != nil {
		t.Fatal(err)
	}

	// A stale poll that still reports the notification unread must not
	// resurrect the badge.
	tr.Replace([]api.MessageNotification{
		{ID: 1, SenderName: "Acme", IsRead: false},
	})
	if got := tr.Unread(); got != 0 {
		t.Errorf("unread = %d, want 0 after stale snapshot", got)
	}
}

func drain(ch <-chan bus.Event) {
	for {
		select {
		case <-ch:
		default:
			return
		}
	}
}
