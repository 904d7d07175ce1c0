package cli

import (
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NotificationsCmd returns the notifications command group.
func NotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "List and acknowledge notifications",
	}
	cmd.AddCommand(notificationsListCmd())
	cmd.AddCommand(notificationsReadCmd())
	cmd.AddCommand(notificationsDeleteCmd())
	return cmd
}

func notificationsListCmd() *cobra.Command {
	var jsonOut, messagesOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}

			if messagesOnly {
				notifs, err := e.notifications.ListMessageNotifications(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOut {
					outputJSON(notifs)
					return nil
				}
				for _, n := range notifs {
					marker := " "
					if !n.IsRead {
						marker = color.New(color.FgGreen).Sprint("*")
					}
					fmt.Printf("%s %-8d message from %-25s %s\n", marker, n.ID, n.SenderName, n.CreatedAt.Format("2006-01-02 15:04"))
				}
				return nil
			}

			notifs, err := e.notifications.List(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				outputJSON(notifs)
				return nil
			}
			for _, n := range notifs {
				marker := " "
				if !n.IsRead {
					marker = color.New(color.FgGreen).Sprint("*")
				}
				fmt.Printf("%s %-8d %-50s %s\n", marker, n.ID, n.Message, n.CreatedAt.Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	cmd.Flags().BoolVar(&messagesOnly, "messages", false, "show message notifications instead of general ones")
	return cmd
}

func notificationsReadCmd() *cobra.Command {
	var messageNotif bool

	cmd := &cobra.Command{
		Use:   "read <notification-id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			if messageNotif {
				err = e.notifications.MarkMessageNotificationRead(cmd.Context(), id)
			} else {
				err = e.notifications.MarkRead(cmd.Context(), id)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Marked notification %d as read\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVar(&messageNotif, "message", false, "acknowledge a message notification")
	return cmd
}

func notificationsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <notification-id>",
		Short: "Delete a notification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid notification id %q", args[0])
			}
			if err := e.notifications.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted notification %d\n", id)
			return nil
		},
	}
}
