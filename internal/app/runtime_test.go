package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/config"
	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
	"github.com/Mohahamed99-by/Texturnhub/internal/session"
	"github.com/Mohahamed99-by/Texturnhub/internal/status"
	"github.com/Mohahamed99-by/Texturnhub/internal/store"
	intsync "github.com/Mohahamed99-by/Texturnhub/internal/sync"
)

// testRuntime wires a runtime against an httptest backend, skipping fx.
func testRuntime(t *testing.T, handler http.Handler) (*Runtime, *bus.Bus) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	db, err := store.Open(filepath.Join(dir, "cache.db"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db.Migrate(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = db.Close() })

	credsPath := filepath.Join(dir, "credentials.toml")
	if err := session.NewStoreAt(credsPath).Save(&session.Credentials{Token: "tok-abc", CompanyID: 1, CompanyName: "Me"}); err != nil {
		t.Fatal(err)
	}

	// Reopen the credential file with a fresh store and Load it, the same
	// way provideCredentials does, so these tests cover a process restart
	// rather than same-process state left over from Save.
	creds := session.NewStoreAt(credsPath)
	if _, err := creds.Load(); err != nil {
		t.Fatal(err)
	}

	logger := zap.NewNop()
	b := bus.New()
	cfg := &config.Config{APIBaseURL: srv.URL, PollIntervalSec: 1, RefreshIntervalSec: 1, RequestTimeoutSec: 5}
	client := api.NewClient(srv.URL, cfg.RequestTimeout(), creds, b, logger)

	rt := NewRuntime(
		Params{Profile: "test"},
		cfg, b, status.NewMachine(b), db, creds,
		api.NewAuthService(client),
		api.NewMessageService(client),
		api.NewNotificationService(client),
		api.NewOfferService(client),
		api.NewSubscriptionService(client),
		inbox.NewTracker(b, logger),
		intsync.NewEngine(db, b, logger),
		nil, // sender unused in these tests
		logger,
	)
	return rt, b
}

func emptyBackend() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/messages", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/offers", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/message-notifications", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	return mux
}

func TestRuntimeRecoversPersistedLogin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credentials.toml")
	if err := session.NewStoreAt(path).Save(&session.Credentials{Token: "tok-restart", CompanyID: 7, CompanyName: "Acme"}); err != nil {
		t.Fatal(err)
	}

	// A fresh store over the file holds nothing until Load runs.
	creds := session.NewStoreAt(path)
	if got := creds.Token(); got != "" {
		t.Fatalf("token before Load = %q, want empty", got)
	}
	if _, err := creds.Load(); err != nil {
		t.Fatal(err)
	}
	if got := creds.Token(); got != "tok-restart" {
		t.Fatalf("token after Load = %q, want tok-restart", got)
	}
	if got := creds.CompanyID(); got != 7 {
		t.Fatalf("company id after Load = %d, want 7", got)
	}
}

func TestRuntimeOnlineLifecycle(t *testing.T) {
	rt, b := testRuntime(t, emptyBackend())

	if !rt.LoggedIn() {
		t.Fatal("runtime should be logged in")
	}
	if rt.SelfID() != 1 {
		t.Fatalf("self id = %d, want 1", rt.SelfID())
	}

	ch, unsub := b.Subscribe("remote.", 16)
	defer unsub()

	rt.StartOnline(context.Background())
	defer rt.StopOnline()

	if got := rt.Machine.Current(); got != status.Online {
		t.Errorf("state = %s, want ONLINE", got)
	}

	select {
	case <-ch:
	case <-time.After(3 * time.Second):
		t.Fatal("no remote snapshot published after StartOnline")
	}

	rt.StopOnline()
	rt.StopOnline() // idempotent
}

func TestSessionExpiryDropsToAuthRequired(t *testing.T) {
	var expired atomic.Bool
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, _ *http.Request) {
		if expired.Load() {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"token expired"}`))
			return
		}
		_, _ = w.Write([]byte(`[]`))
	})

	rt, _ := testRuntime(t, mux)
	rt.watchSession(context.Background())
	defer rt.stopWatch()

	rt.StartOnline(context.Background())
	defer rt.StopOnline()

	expired.Store(true)
	// Force a request so the client sees the 401.
	_, err := rt.Messages.List(context.Background())
	if err == nil {
		t.Fatal("expected unauthorized error")
	}

	deadline := time.After(3 * time.Second)
	for rt.Machine.Current() != status.AuthRequired {
		select {
		case <-deadline:
			t.Fatalf("state = %s, want AUTH_REQUIRED", rt.Machine.Current())
		case <-time.After(20 * time.Millisecond):
		}
	}
	if rt.LoggedIn() {
		t.Error("credentials should be purged after 401")
	}
}
