// Package app composes the client runtime: configuration, cache, backend
// services and the background loops that keep them in step.
package app

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/config"
	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
	"github.com/Mohahamed99-by/Texturnhub/internal/lock"
	"github.com/Mohahamed99-by/Texturnhub/internal/logging"
	"github.com/Mohahamed99-by/Texturnhub/internal/outbox"
	"github.com/Mohahamed99-by/Texturnhub/internal/session"
	"github.com/Mohahamed99-by/Texturnhub/internal/status"
	"github.com/Mohahamed99-by/Texturnhub/internal/store"
	intsync "github.com/Mohahamed99-by/Texturnhub/internal/sync"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	Profile    string
	ConfigPath string // optional override for testing; empty = use default
}

// Module returns the fx module for the client, composing all providers and
// lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("app",
		fx.Supply(p),
		fx.Provide(
			provideConfig,
			provideLogger,
			provideBus,
			provideStateMachine,
			provideLock,
			provideStore,
			provideCredentials,
			provideClient,
			provideAuthService,
			provideMessageService,
			provideNotificationService,
			provideOfferService,
			provideSubscriptionService,
			provideTracker,
			provideSyncEngine,
			provideSender,
			NewRuntime,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideConfig(p Params) (*config.Config, error) {
	path := p.ConfigPath
	if path == "" {
		path = session.ConfigPath()
	}
	return config.Load(path)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if err := session.EnsureDir(p.Profile); err != nil {
		return nil, err
	}
	return logging.New(session.LogPath(p.Profile), p.Profile)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideStateMachine(b *bus.Bus) *status.Machine {
	return status.NewMachine(b)
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	logger.Info("acquiring profile lock", zap.String("profile", p.Profile))
	l, err := lock.Acquire(session.Dir(p.Profile))
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, logger *zap.Logger) (*store.DB, error) {
	dbPath := session.CacheDBPath(p.Profile)
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("cache initialized", zap.String("path", dbPath))
	return db, nil
}

func provideCredentials(p Params) (*session.Store, error) {
	creds := session.NewStore(p.Profile)
	if _, err := creds.Load(); err != nil {
		return nil, err
	}
	return creds, nil
}

func provideClient(cfg *config.Config, creds *session.Store, b *bus.Bus, logger *zap.Logger) *api.Client {
	return api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout(), creds, b, logger)
}

func provideAuthService(c *api.Client) *api.AuthService {
	return api.NewAuthService(c)
}

func provideMessageService(c *api.Client) *api.MessageService {
	return api.NewMessageService(c)
}

func provideNotificationService(c *api.Client) *api.NotificationService {
	return api.NewNotificationService(c)
}

func provideOfferService(c *api.Client) *api.OfferService {
	return api.NewOfferService(c)
}

func provideSubscriptionService(c *api.Client) *api.SubscriptionService {
	return api.NewSubscriptionService(c)
}

func provideTracker(b *bus.Bus, logger *zap.Logger) *inbox.Tracker {
	return inbox.NewTracker(b, logger)
}

func provideSyncEngine(db *store.DB, b *bus.Bus, logger *zap.Logger) *intsync.Engine {
	return intsync.NewEngine(db, b, logger)
}

func provideSender(db *store.DB, messages *api.MessageService, b *bus.Bus, logger *zap.Logger) *outbox.Sender {
	return outbox.NewSender(db, messages, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, rt *Runtime, lk *lock.Lock, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			rt.Engine.Start(context.Background())
			rt.Sender.Start(context.Background())
			rt.watchSession(context.Background())

			if rt.LoggedIn() {
				rt.StartOnline(context.Background())
			} else {
				logger.Info("no credentials found, auth required")
				_ = rt.Machine.Transition(status.AuthRequired)
			}
			return nil
		},
		OnStop: func(context.Context) error {
			rt.StopOnline()
			rt.stopWatch()
			rt.Sender.Stop()
			rt.Engine.Stop()
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			if n := rt.Bus.Dropped(); n > 0 {
				logger.Warn("bus dropped events on full subscribers", zap.Uint64("count", n))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
