package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Mohahamed99-by/Texturnhub/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "thubctl",
		Short: "Texturnhub command line client",
		Long: `thubctl talks to the Texturnhub textile waste marketplace: messaging,
offer listings and notifications, sharing credentials with the thub TUI.`,
	}
	rootCmd.PersistentFlags().String("profile", "", "profile name (overrides config default)")

	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.LogoutCmd())
	rootCmd.AddCommand(cli.RegisterCmd())
	rootCmd.AddCommand(cli.ProfileCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.InboxCmd())
	rootCmd.AddCommand(cli.MessagesCmd())
	rootCmd.AddCommand(cli.OffersCmd())
	rootCmd.AddCommand(cli.NotificationsCmd())
	rootCmd.AddCommand(cli.SubscriptionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
