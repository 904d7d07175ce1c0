// Package cli implements the thubctl command set: one-shot operations against
// the backend using the same profile credentials as the interactive client.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
	"github.com/Mohahamed99-by/Texturnhub/internal/config"
	"github.com/Mohahamed99-by/Texturnhub/internal/session"
)

// env bundles the per-invocation service handles.
type env struct {
	profile       string
	cfg           *config.Config
	creds         *session.Store
	auth          *api.AuthService
	messages      *api.MessageService
	notifications *api.NotificationService
	offers        *api.OfferService
	subscription  *api.SubscriptionService
}

// newEnv resolves the profile and builds the API services for it.
func newEnv(cmd *cobra.Command) (*env, error) {
	profileFlag, _ := cmd.Flags().GetString("profile")
	profile := session.Resolve(profileFlag)
	if err := session.ValidateName(profile); err != nil {
		return nil, err
	}
	if err := session.EnsureDir(profile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(session.ConfigPath())
	if err != nil {
		return nil, err
	}

	creds := session.NewStore(profile)
	if _, err := creds.Load(); err != nil {
		return nil, err
	}
	client := api.NewClient(cfg.APIBaseURL, cfg.RequestTimeout(), creds, nil, zap.NewNop())

	return &env{
		profile:       profile,
		cfg:           cfg,
		creds:         creds,
		auth:          api.NewAuthService(client),
		messages:      api.NewMessageService(client),
		notifications: api.NewNotificationService(client),
		offers:        api.NewOfferService(client),
		subscription:  api.NewSubscriptionService(client),
	}, nil
}

// selfID returns the logged-in company id or an error that reads well on the
// command line.
func (e *env) selfID() (int64, error) {
	id := e.creds.CompanyID()
	if id == 0 {
		return 0, fmt.Errorf("not logged in for profile %q, run: thubctl login", e.profile)
	}
	return id, nil
}

func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "json encode error: %v\n", err)
	}
}
