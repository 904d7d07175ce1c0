package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/config"
	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
	"github.com/Mohahamed99-by/Texturnhub/internal/notify"
	"github.com/Mohahamed99-by/Texturnhub/internal/outbox"
	"github.com/Mohahamed99-by/Texturnhub/internal/session"
	"github.com/Mohahamed99-by/Texturnhub/internal/status"
	"github.com/Mohahamed99-by/Texturnhub/internal/store"
	intsync "github.com/Mohahamed99-by/Texturnhub/internal/sync"
)

// Runtime bundles the composed client components. The polling loops are
// created on demand because they need the account id, which only exists
// after login.
type Runtime struct {
	Profile       string
	Config        *config.Config
	Bus           *bus.Bus
	Machine       *status.Machine
	DB            *store.DB
	Credentials   *session.Store
	Auth          *api.AuthService
	Messages      *api.MessageService
	Notifications *api.NotificationService
	Offers        *api.OfferService
	Subscription  *api.SubscriptionService
	Tracker       *inbox.Tracker
	Engine        *intsync.Engine
	Sender        *outbox.Sender
	Logger        *zap.Logger

	mu        sync.Mutex
	poller    *notify.Poller
	refresher *intsync.Refresher
	watchStop func()
}

// NewRuntime assembles a runtime from the fx-provided components.
func NewRuntime(
	p Params,
	cfg *config.Config,
	b *bus.Bus,
	machine *status.Machine,
	db *store.DB,
	creds *session.Store,
	auth *api.AuthService,
	messages *api.MessageService,
	notifications *api.NotificationService,
	offerSvc *api.OfferService,
	subscription *api.SubscriptionService,
	tracker *inbox.Tracker,
	engine *intsync.Engine,
	sender *outbox.Sender,
	logger *zap.Logger,
) *Runtime {
	return &Runtime{
		Profile:       p.Profile,
		Config:        cfg,
		Bus:           b,
		Machine:       machine,
		DB:            db,
		Credentials:   creds,
		Auth:          auth,
		Messages:      messages,
		Notifications: notifications,
		Offers:        offerSvc,
		Subscription:  subscription,
		Tracker:       tracker,
		Engine:        engine,
		Sender:        sender,
		Logger:        logger,
	}
}

// LoggedIn reports whether stored credentials exist for the profile.
func (r *Runtime) LoggedIn() bool {
	return r.Credentials.Token() != ""
}

// SelfID returns the authenticated company id, 0 when logged out.
func (r *Runtime) SelfID() int64 {
	return r.Credentials.CompanyID()
}

// StartOnline brings up the refresher and notification poller for the
// current credentials. Safe to call again after a re-login.
func (r *Runtime) StartOnline(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refresher != nil {
		return
	}
	_ = r.Machine.Transition(status.Syncing)

	r.refresher = intsync.NewRefresher(newFetcher(r.Messages, r.Offers), r.SelfID(), r.Bus, r.Config.RefreshInterval(), r.Logger)
	r.refresher.Start(ctx)

	r.poller = notify.NewPoller(r.Notifications, r.Tracker, r.Config.PollInterval(), r.Logger)
	r.poller.Start(ctx)

	_ = r.Machine.Transition(status.Online)
	r.Logger.Info("online loops started", zap.Int64("company_id", r.SelfID()))
}

// StopOnline tears down the polling loops. Idempotent.
func (r *Runtime) StopOnline() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.refresher == nil {
		return
	}
	r.poller.Stop()
	r.refresher.Stop()
	r.poller = nil
	r.refresher = nil
	r.Logger.Info("online loops stopped")
}

// RefreshNow triggers an immediate snapshot fetch, e.g. after a send.
func (r *Runtime) RefreshNow(ctx context.Context) {
	r.mu.Lock()
	ref := r.refresher
	r.mu.Unlock()
	if ref != nil {
		ref.RefreshNow(ctx)
	}
}

// watchSession reacts to expired credentials: any 401 purges the token and
// publishes session.expired, and every online loop must stop until the user
// logs in again.
func (r *Runtime) watchSession(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	ch, unsub := r.Bus.Subscribe(bus.KindSessionExpired, 16)

	r.mu.Lock()
	r.watchStop = cancel
	r.mu.Unlock()

	go func() {
		defer unsub()
		for {
			select {
			case <-ch:
				r.Logger.Warn("session expired, dropping to auth required")
				r.StopOnline()
				_ = r.Machine.Transition(status.AuthRequired)
			case <-ctx.Done():
				return
			}
		}
	}()
}

func (r *Runtime) stopWatch() {
	r.mu.Lock()
	stop := r.watchStop
	r.watchStop = nil
	r.mu.Unlock()
	if stop != nil {
		stop()
	}
}

// fetcher adapts the backend services to the refresher's Fetcher interface.
type fetcher struct {
	messages *api.MessageService
	offers   *api.OfferService
}

func newFetcher(messages *api.MessageService, offers *api.OfferService) *fetcher {
	return &fetcher{messages: messages, offers: offers}
}

func (f *fetcher) ListMessages(ctx context.Context) ([]api.Message, error) {
	return f.messages.List(ctx)
}

func (f *fetcher) ListOffers(ctx context.Context, q api.OfferQuery) ([]api.Offer, error) {
	return f.offers.List(ctx, q)
}
