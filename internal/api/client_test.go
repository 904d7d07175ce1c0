package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/Mohahamed99-by/Texturnhub/internal/bus"
	"github.com/Mohahamed99-by/Texturnhub/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *session.Store, *bus.Bus) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	creds := session.NewStoreAt(filepath.Join(t.TempDir(), "credentials.toml"))
	require.NoError(t, creds.Save(&session.Credentials{Token: "tok-abc", CompanyID: 1, CompanyName: "Self"}))

	b := bus.New()
	return NewClient(srv.URL, 5*time.Second, creds, b, nil), creds, b
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth string
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`[]`))
	}))

	_, err := NewMessageService(c).List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-abc", gotAuth)
}

func TestUnauthorizedPurgesCredentialsAndPublishes(t *testing.T) {
	c, creds, b := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid token"}`, http.StatusUnauthorized)
	}))

	ch, unsub := b.Subscribe("session.", 10)
	defer unsub()

	_, err := NewMessageService(c).List(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, creds.Current(), "credentials must be purged on 401")

	select {
	case evt := <-ch:
		assert.Equal(t, bus.KindSessionExpired, evt.Kind)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for session.expired event")
	}
}

func TestMissingTokenFailsWithoutRequest(t *testing.T) {
	called := false
	c, creds, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	require.NoError(t, creds.Purge())

	_, err := NewMessageService(c).List(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, called, "no request should reach the server without a token")
}

func TestServerErrorTextSurfaces(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"receiver not found"}`, http.StatusBadRequest)
	}))

	_, err := NewMessageService(c).Send(context.Background(), 99, "hello")
	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "receiver not found", apiErr.Message)
}

func TestLoginPersistsCredentials(t *testing.T) {
	c, creds, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/login", r.URL.Path)
		require.Empty(t, r.Header.Get("Authorization"), "login is unauthenticated")
		_, _ = w.Write([]byte(`{"token":"fresh-tok","id":5,"name":"Acme","email":"a@acme.test"}`))
	}))
	require.NoError(t, creds.Purge())

	got, err := NewAuthService(c).Login(context.Background(), LoginRequest{Email: "a@acme.test", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.CompanyID)
	assert.Equal(t, "fresh-tok", creds.Token())
	assert.Equal(t, "Acme", creds.Current().CompanyName)
}

func TestLoginValidatesInput(t *testing.T) {
	c, _, _ := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server")
	}))
	_, err := NewAuthService(c).Login(context.Background(), LoginRequest{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
}
