package sync

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
)

type fakeFetcher struct {
	mu     sync.Mutex
	msgs   []api.Message
	offers []api.Offer
	err    error
}

func (f *fakeFetcher) ListMessages(context.Context) ([]api.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msgs, f.err
}

func (f *fakeFetcher) ListOffers(context.Context, api.OfferQuery) ([]api.Offer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.offers, f.err
}

func TestRefresherPublishesSnapshots(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("remote.", 10)
	defer unsub()

	fetcher := &fakeFetcher{
		msgs:   []api.Message{{ID: 41, SenderID: 2, ReceiverID: 1, Content: "hi", SentAt: time.Now()}},
		offers: []api.Offer{{ID: 5, MaterialType: "cotton"}},
	}
	r := NewRefresher(fetcher, 1, b, time.Hour, zap.NewNop())
	r.Start(context.Background())
	defer r.Stop()

	var gotMessages, gotOffers bool
	deadline := time.After(2 * time.Second)
	for !gotMessages || !gotOffers {
		select {
		case evt := <-ch:
			switch snap := evt.Payload.(type) {
			case MessageSnapshot:
				if snap.SelfID != 1 || len(snap.Messages) != 1 {
					t.Errorf("message snapshot = %+v", snap)
				}
				gotMessages = true
			case OfferSnapshot:
				if len(snap.Offers) != 1 {
					t.Errorf("offer snapshot = %+v", snap)
				}
				gotOffers = true
			}
		case <-deadline:
			t.Fatalf("snapshots missing: messages=%v offers=%v", gotMessages, gotOffers)
		}
	}
}

func TestRefresherStaysQuietWhenUnauthorized(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("remote.", 10)
	defer unsub()

	r := NewRefresher(&fakeFetcher{err: api.ErrUnauthorized}, 1, b, time.Hour, zap.NewNop())
	r.RefreshNow(context.Background())

	select {
	case evt := <-ch:
		t.Fatalf("unexpected event %q while unauthorized", evt.Kind)
	case <-time.After(100 * time.Millisecond):
	}
}
