package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// SubscriptionCmd returns the subscription command group.
func SubscriptionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "subscription",
		Short: "Check or start a marketplace subscription",
	}
	cmd.AddCommand(subscriptionStatusCmd())
	cmd.AddCommand(subscriptionSubscribeCmd())
	return cmd
}

func subscriptionStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show whether the account can publish offers",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			subscribed, err := e.subscription.Status(cmd.Context())
			if err != nil {
				return err
			}
			if subscribed {
				fmt.Println(color.New(color.FgGreen).Sprint("Subscription active."))
			} else {
				fmt.Println("No active subscription. Start one with: thubctl subscription subscribe")
			}
			return nil
		},
	}
}

func subscriptionSubscribeCmd() *cobra.Command {
	var plan string

	cmd := &cobra.Command{
		Use:   "subscribe",
		Short: "Start a subscription checkout",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			checkoutURL, err := e.subscription.Subscribe(cmd.Context(), plan)
			if err != nil {
				return err
			}
			fmt.Println("Open this URL to complete the checkout:")
			fmt.Println(checkoutURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&plan, "plan", "monthly", "subscription plan")
	return cmd
}
