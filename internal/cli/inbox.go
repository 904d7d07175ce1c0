package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohahamed99-by/Texturnhub/internal/inbox"
)

// InboxCmd returns the inbox command.
func InboxCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show conversations with unread counts",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			selfID, err := e.selfID()
			if err != nil {
				return err
			}

			msgs, err := e.messages.List(cmd.Context())
			if err != nil {
				return err
			}
			notifs, err := e.notifications.ListMessageNotifications(cmd.Context())
			if err != nil {
				return err
			}

			roster := inbox.DeriveCorrespondents(selfID, msgs)
			convs := inbox.Aggregate(selfID, msgs, roster, notifs)
			if jsonOut {
				outputJSON(convs)
				return nil
			}
			if len(convs) == 0 {
				fmt.Println("No conversations.")
				return nil
			}
			for _, c := range convs {
				badge := ""
				if c.UnreadCount > 0 {
					badge = color.New(color.FgGreen).Sprintf(" (%d unread)", c.UnreadCount)
				}
				when := ""
				if !c.LastMessageAt.IsZero() {
					when = c.LastMessageAt.Format("2006-01-02 15:04")
				}
				fmt.Printf("%-6d %-25s %-40s %s%s\n", c.CounterpartID, c.CounterpartName, truncate(c.LastMessage, 40), when, badge)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	return cmd
}

// truncate shortens s to at most maxLen runes so multi-byte message
// content is never cut mid-sequence.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
