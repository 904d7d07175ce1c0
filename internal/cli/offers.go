package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
)

// OffersCmd returns the offers command group.
func OffersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "offers",
		Short: "Browse and manage marketplace listings",
	}
	cmd.AddCommand(offersListCmd())
	cmd.AddCommand(offersCreateCmd())
	cmd.AddCommand(offersUpdateCmd())
	cmd.AddCommand(offersDeleteCmd())
	return cmd
}

func offersListCmd() *cobra.Command {
	var jsonOut, mine bool
	var q api.OfferQuery

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List offers, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if mine {
				q.CompanyID, err = e.selfID()
				if err != nil {
					return err
				}
			}
			offers, err := e.offers.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			if jsonOut {
				outputJSON(offers)
				return nil
			}
			if len(offers) == 0 {
				fmt.Println("No offers found.")
				return nil
			}
			for _, o := range offers {
				fmt.Printf("%-6d %-18s %8.0f kg %10.2f  %-15s %s\n",
					o.ID, o.MaterialType, o.Quantity, o.Price, o.Location, o.CompanyName)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&q.Location, "location", "", "filter by location")
	cmd.Flags().StringVar(&q.MaterialType, "material", "", "filter by material type")
	cmd.Flags().StringVar(&q.CompanyType, "company-type", "", "filter by company type")
	cmd.Flags().BoolVar(&mine, "mine", false, "only your own listings")
	return cmd
}

func offersCreateCmd() *cobra.Command {
	var offer api.NewOffer

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a new listing",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			selfID, err := e.selfID()
			if err != nil {
				return err
			}
			if err := e.offers.Create(cmd.Context(), selfID, offer); err != nil {
				if errors.Is(err, api.ErrSubscriptionRequired) {
					fmt.Println(color.New(color.FgYellow).Sprint("An active subscription is required to publish offers."))
					fmt.Println("Check: thubctl subscription status")
				}
				return err
			}
			fmt.Println("Offer published.")
			return nil
		},
	}
	cmd.Flags().StringVar(&offer.MaterialType, "material", "", "material type")
	cmd.Flags().Float64Var(&offer.Quantity, "quantity", 0, "quantity in kg")
	cmd.Flags().StringVar(&offer.MaterialCondition, "condition", "", "condition: new, used or mixed")
	cmd.Flags().Float64Var(&offer.Price, "price", 0, "price")
	cmd.Flags().StringVar(&offer.Location, "location", "", "pickup location")
	cmd.Flags().StringVar(&offer.ImagePath, "image", "", "path to a listing photo")
	return cmd
}

func offersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <offer-id>",
		Short: "Delete one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid offer id %q", args[0])
			}
			if err := e.offers.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Printf("Deleted offer %d\n", id)
			return nil
		},
	}
}

func offersUpdateCmd() *cobra.Command {
	var (
		material  string
		quantity  float64
		condition string
		price     float64
		location  string
	)

	cmd := &cobra.Command{
		Use:   "update <offer-id>",
		Short: "Edit one of your listings",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid offer id %q", args[0])
			}
			companyID, err := e.selfID()
			if err != nil {
				return err
			}

			// The backend has no single-offer GET, so fetch our listings
			// and start the edit from the current server state.
			mine, err := e.offers.List(cmd.Context(), api.OfferQuery{CompanyID: companyID})
			if err != nil {
				return err
			}
			var offer *api.Offer
			for i := range mine {
				if mine[i].ID == id {
					offer = &mine[i]
					break
				}
			}
			if offer == nil {
				return fmt.Errorf("offer %d not found among your listings", id)
			}

			if cmd.Flags().Changed("material") {
				offer.MaterialType = material
			}
			if cmd.Flags().Changed("quantity") {
				offer.Quantity = quantity
			}
			if cmd.Flags().Changed("condition") {
				offer.MaterialCondition = condition
			}
			if cmd.Flags().Changed("price") {
				offer.Price = price
			}
			if cmd.Flags().Changed("location") {
				offer.Location = location
			}

			if err := e.offers.Update(cmd.Context(), offer); err != nil {
				return err
			}
			fmt.Printf("Updated offer %d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&material, "material", "", "material type")
	cmd.Flags().Float64Var(&quantity, "quantity", 0, "quantity in kg")
	cmd.Flags().StringVar(&condition, "condition", "", "material condition")
	cmd.Flags().Float64Var(&price, "price", 0, "asking price")
	cmd.Flags().StringVar(&location, "location", "", "pickup location")
	return cmd
}
