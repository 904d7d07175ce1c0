package bus

import (
	"testing"
	"time"
)

func TestPublishSubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("notify.", 10)
	defer unsub()

	b.Publish(Event{Kind: KindNotifyUnread, Timestamp: time.Now(), Payload: 3})

	select {
	case evt := <-ch:
		if evt.Kind != KindNotifyUnread {
			t.Errorf("got kind %q, want %q", evt.Kind, KindNotifyUnread)
		}
		if evt.Payload.(int) != 3 {
			t.Errorf("payload = %v, want 3", evt.Payload)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestNamespaceFiltering(t *testing.T) {
	b := New()
	msgCh, unsubMsg := b.Subscribe("message.", 10)
	defer unsubMsg()
	sessCh, unsubSess := b.Subscribe("session.", 10)
	defer unsubSess()

	b.Publish(Event{Kind: KindMessageUpserted, Timestamp: time.Now()})

	select {
	case evt := <-msgCh:
		if evt.Kind != KindMessageUpserted {
			t.Errorf("got kind %q, want %q", evt.Kind, KindMessageUpserted)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for message event")
	}

	select {
	case evt := <-sessCh:
		t.Errorf("session subscriber received %q, want nothing", evt.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribe(t *testing.T) {
	b := New()
	ch, unsub := b.Subscribe("remote.", 10)
	unsub()

	b.Publish(Event{Kind: KindRemoteMessages, Timestamp: time.Now()})

	select {
	case evt := <-ch:
		t.Errorf("unsubscribed channel received %q", evt.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestFullSubscriberDoesNotBlock(t *testing.T) {
	b := New()
	_, unsub := b.Subscribe("remote.", 1)
	defer unsub()

	done := make(chan struct{})
	go func() {
		// Second publish would block without the non-blocking send.
		b.Publish(Event{Kind: KindRemoteOffers})
		b.Publish(Event{Kind: KindRemoteOffers})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on full subscriber")
	}

	if got := b.Dropped(); got != 1 {
		t.Errorf("Dropped = %d, want 1", got)
	}
}
