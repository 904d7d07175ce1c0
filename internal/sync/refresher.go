package sync

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
)

// Fetcher covers the backend reads the refresher needs.
type Fetcher interface {
	ListMessages(ctx context.Context) ([]api.Message, error)
	ListOffers(ctx context.Context, q api.OfferQuery) ([]api.Offer, error)
}

// Refresher periodically fetches message and offer snapshots and publishes
// them as remote.* events for the engine to ingest.
type Refresher struct {
	fetcher  Fetcher
	selfID   int64
	bus      *bus.Bus
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewRefresher creates a refresher for the given account id.
func NewRefresher(fetcher Fetcher, selfID int64, b *bus.Bus, interval time.Duration, logger *zap.Logger) *Refresher {
	return &Refresher{
		fetcher:  fetcher,
		selfID:   selfID,
		bus:      b,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the refresh loop. The first pass runs immediately.
func (r *Refresher) Start(ctx context.Context) {
	ctx, r.cancel = context.WithCancel(ctx)
	r.done = make(chan struct{})
	go r.loop(ctx)
}

// Stop cancels the loop and waits for it to exit.
func (r *Refresher) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}

// RefreshNow runs one fetch pass outside the timer, e.g. right after login or
// after the user sends a message.
func (r *Refresher) RefreshNow(ctx context.Context) {
	r.refresh(ctx)
}

func (r *Refresher) loop(ctx context.Context) {
	defer close(r.done)

	r.refresh(ctx)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.refresh(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	msgs, err := r.fetcher.ListMessages(ctx)
	switch {
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, context.Canceled):
		return
	case err != nil:
		r.logger.Warn("message refresh failed", zap.Error(err))
	default:
		if ctx.Err() != nil {
			return
		}
		r.bus.Publish(bus.Event{
			Kind:      bus.KindRemoteMessages,
			Timestamp: time.Now(),
			Payload:   MessageSnapshot{SelfID: r.selfID, Messages: msgs},
		})
	}

	offers, err := r.fetcher.ListOffers(ctx, api.OfferQuery{})
	switch {
	case errors.Is(err, api.ErrUnauthorized), errors.Is(err, context.Canceled):
		return
	case err != nil:
		r.logger.Warn("offer refresh failed", zap.Error(err))
	default:
		if ctx.Err() != nil {
			return
		}
		r.bus.Publish(bus.Event{
			Kind:      bus.KindRemoteOffers,
			Timestamp: time.Now(),
			Payload:   OfferSnapshot{Offers: offers},
		})
	}
}
