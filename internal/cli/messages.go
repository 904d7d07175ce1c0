package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// MessagesCmd returns the messages command group.
func MessagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "messages",
		Short: "List, send and delete messages",
	}
	cmd.AddCommand(messagesListCmd())
	cmd.AddCommand(messagesSendCmd())
	cmd.AddCommand(messagesDeleteCmd())
	return cmd
}

func messagesListCmd() *cobra.Command {
	var jsonOut bool
	var withID int64

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages, optionally for a single counterpart",
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
			if jsonOut {
				outputJSON(msgs)
				return nil
			}
			for _, m := range msgs {
				other := m.SenderID
				direction := "<-"
				if m.SenderID == selfID {
					other = m.ReceiverID
					direction = "->"
				}
				if withID != 0 && other != withID {
					continue
				}
				fmt.Printf("%-8d %s %-6d %s  %s\n", m.ID, direction, other, m.SentAt.Format("2006-01-02 15:04"), m.Content)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	cmd.Flags().Int64Var(&withID, "with", 0, "only messages exchanged with this company id")
	return cmd
}

func messagesSendCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "send <company-id> <text>",
		Short: "Send a message",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			receiverID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid company id %q", args[0])
			}
			id, err := e.messages.Send(cmd.Context(), receiverID, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("Sent message %d to company %d\n", id, receiverID)
			return nil
		},
	}
}

func messagesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <message-id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid message id %q", args[0])
			}
			if err := e.messages.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted message %d\n", id)
			return nil
		},
	}
}
