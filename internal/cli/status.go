package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// StatusCmd returns the status command.
func StatusCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show profile and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}

			creds := e.creds.Current()
			if creds == nil || creds.Token == "" {
				fmt.Printf("Profile: %s\n", e.profile)
				fmt.Printf("Status:  %s\n", color.New(color.FgYellow).Sprint("logged out"))
				return nil
			}

			unread := 0
			notifs, err := e.notifications.ListMessageNotifications(cmd.Context())
			if err == nil {
				for _, n := range notifs {
					if !n.IsRead {
						unread++
					}
				}
			}

			if jsonOut {
				outputJSON(map[string]any{
					"profile":      e.profile,
					"company_id":   creds.CompanyID,
					"company_name": creds.CompanyName,
					"unread":       unread,
					"api_url":      e.cfg.APIBaseURL,
				})
				return nil
			}
			fmt.Printf("Profile: %s\n", e.profile)
			fmt.Printf("Account: %s (company %d)\n", creds.CompanyName, creds.CompanyID)
			fmt.Printf("Backend: %s\n", e.cfg.APIBaseURL)
			if err != nil {
				fmt.Printf("Unread:  %s\n", color.New(color.FgRed).Sprintf("unavailable (%v)", err))
			} else {
				fmt.Printf("Unread:  %d\n", unread)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	return cmd
}
