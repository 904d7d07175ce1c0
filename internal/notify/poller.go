// Package notify keeps the unread badge fresh by polling the backend for
// message notifications on a fixed interval.
package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
)

// Lister fetches the current message-notification snapshot.
type Lister interface {
	ListMessageNotifications(ctx context.Context) ([]api.MessageNotification, error)
}

// Poller fetches notifications periodically and hands them to the tracker,
// which owns the merge with locally acknowledged state.
type Poller struct {
	lister   Lister
	tracker  *inbox.Tracker
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewPoller creates a poller. interval must be positive.
func NewPoller(lister Lister, tracker *inbox.Tracker, interval time.Duration, logger *zap.Logger) *Poller {
	return &Poller{
		lister:   lister,
		tracker:  tracker,
		interval: interval,
		logger:   logger,
	}
}

// Start begins polling. The first fetch happens immediately, then every
// interval until ctx is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	go p.loop(ctx)
}

// Stop cancels the loop and waits for it to exit. No state is touched after
// Stop returns.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		<-p.done
	}
}

func (p *Poller) loop(ctx context.Context) {
	defer close(p.done)

	p.poll(ctx)
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			p.poll(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	notifs, err := p.lister.ListMessageNotifications(ctx)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, context.Canceled) {
			return
		}
		p.logger.Warn("notification poll failed", zap.Error(err))
		return
	}
	// Discard responses that land after cancellation.
	if ctx.Err() != nil {
		return
	}
	p.tracker.Replace(notifs)
}
