package model

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/app"
	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
	"github.com/Mohahamed99-by/Texturnhub/internal/offers"
	"github.com/Mohahamed99-by/Texturnhub/internal/store"
)

// ViewModel projects the runtime's cache and tracker into render-ready state.
type ViewModel struct {
	mu sync.RWMutex

	rt *app.Runtime

	Conversations []inbox.Conversation
	Thread        []store.Message
	ActiveID      int64
	ActiveName    string
	Offers        []store.Offer
	OfferFilter   offers.Filter
	OfferSort     string
	Notifications []api.Notification
	Flash         Flash
}

// NewViewModel creates a view model over the composed runtime.
func NewViewModel(rt *app.Runtime) *ViewModel {
	return &ViewModel{rt: rt, OfferSort: offers.SortNewest}
}

// Runtime exposes the underlying runtime for shell-level decisions.
func (vm *ViewModel) Runtime() *app.Runtime { return vm.rt }

// Unread returns the current badge count.
func (vm *ViewModel) Unread() int { return vm.rt.Tracker.Unread() }

// LoadConversations rebuilds the inbox from the cache and the tracker.
func (vm *ViewModel) LoadConversations() error {
	msgs, err := vm.rt.DB.AllMessages(0)
	if err != nil {
		return err
	}
	roster, err := vm.rt.DB.ListCorrespondents()
	if err != nil {
		return err
	}
	selfID := vm.rt.SelfID()
	convs := inbox.Aggregate(selfID, toWire(selfID, msgs), roster, vm.rt.Tracker.Snapshot())

	vm.mu.Lock()
	vm.Conversations = convs
	vm.mu.Unlock()
	return nil
}

// LoadThread loads the cached message history with one counterpart.
func (vm *ViewModel) LoadThread(counterpartID int64, counterpartName string) error {
	msgs, err := vm.rt.DB.ListMessages(counterpartID, 0, 200)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.ActiveID = counterpartID
	vm.ActiveName = counterpartName
	vm.Thread = msgs
	vm.mu.Unlock()
	return nil
}

// MarkActiveRead acknowledges the active conversation's notifications.
func (vm *ViewModel) MarkActiveRead(ctx context.Context) (int, error) {
	vm.mu.RLock()
	name := vm.ActiveName
	vm.mu.RUnlock()
	if name == "" {
		return 0, nil
	}
	return vm.rt.Tracker.MarkConversationRead(ctx, name, vm.rt.Notifications)
}

// Send queues a message for the active conversation and nudges a refresh.
func (vm *ViewModel) Send(ctx context.Context, text string) error {
	vm.mu.RLock()
	receiverID := vm.ActiveID
	vm.mu.RUnlock()
	if receiverID == 0 {
		return nil
	}
	if _, err := vm.rt.Sender.Enqueue(receiverID, text); err != nil {
		return err
	}
	vm.Flash.Set("Message queued", 3*time.Second)
	go vm.rt.RefreshNow(ctx)
	return nil
}

// DeleteMessage removes a message remotely and from the cache.
func (vm *ViewModel) DeleteMessage(ctx context.Context, m store.Message) error {
	if id, err := strconv.ParseInt(m.MsgKey, 10, 64); err == nil {
		if err := vm.rt.Messages.Delete(ctx, id); err != nil {
			return err
		}
	}
	return vm.rt.DB.DeleteMessage(m.CounterpartID, m.MsgKey)
}

// LoadOffers reads cached listings through the current filter and sort.
func (vm *ViewModel) LoadOffers() error {
	cached, err := vm.rt.DB.ListOffers(0, 0)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Offers = offers.Apply(cached, vm.OfferFilter, vm.OfferSort)
	vm.mu.Unlock()
	return nil
}

// ToggleSaved flips the saved marker on a listing.
func (vm *ViewModel) ToggleSaved(offerID int64) (bool, error) {
	saved, err := vm.rt.DB.ToggleSavedOffer(offerID)
	if err != nil {
		return false, err
	}
	return saved, vm.LoadOffers()
}

// LoadNotifications fetches general notifications from the backend.
func (vm *ViewModel) LoadNotifications(ctx context.Context) error {
	notifs, err := vm.rt.Notifications.List(ctx)
	if err != nil {
		return err
	}
	vm.mu.Lock()
	vm.Notifications = notifs
	vm.mu.Unlock()
	return nil
}

// Login authenticates and brings the runtime online.
func (vm *ViewModel) Login(ctx context.Context, email, password string) error {
	if _, err := vm.rt.Auth.Login(ctx, api.LoginRequest{Email: email, Password: password}); err != nil {
		return err
	}
	vm.rt.StartOnline(context.Background())
	return nil
}

// GetConversations returns a snapshot of the current inbox.
func (vm *ViewModel) GetConversations() []inbox.Conversation {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Conversations
}

// GetThread returns a snapshot of the active message history.
func (vm *ViewModel) GetThread() []store.Message {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Thread
}

// GetOffers returns a snapshot of the filtered listings.
func (vm *ViewModel) GetOffers() []store.Offer {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Offers
}

// GetNotifications returns a snapshot of the general notifications.
func (vm *ViewModel) GetNotifications() []api.Notification {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.Notifications
}

// toWire lifts cached rows back into wire shape for the aggregator. Echoes
// queued before the server assigned ids carry no sender id, so the account id
// fills the gap.
func toWire(selfID int64, msgs []store.Message) []api.Message {
	out := make([]api.Message, 0, len(msgs))
	for _, m := range msgs {
		senderID, receiverID := m.SenderID, m.ReceiverID
		if m.FromMe && senderID == 0 {
			senderID = selfID
		}
		if !m.FromMe && receiverID == 0 {
			receiverID = selfID
		}
		out = append(out, api.Message{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Content:    m.Content,
			SentAt:     time.UnixMilli(m.SentAt),
		})
	}
	return out
}
