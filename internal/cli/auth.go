package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohahamed99-by/Texturnhub/internal/api"
)

// LoginCmd returns the login command.
func LoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the profile credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if email == "" {
				email = prompt("Email: ")
			}
			if password == "" {
				password = prompt("Password: ")
			}

			creds, err := e.auth.Login(cmd.Context(), api.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Printf("Logged in as %s (company %d), profile %q\n",
				color.New(color.FgGreen).Sprint(creds.CompanyName), creds.CompanyID, e.profile)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted if omitted)")
	return cmd
}

// LogoutCmd returns the logout command.
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credentials for the profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.auth.Logout(); err != nil {
				return err
			}
			fmt.Printf("Logged out profile %q\n", e.profile)
			return nil
		},
	}
}

// RegisterCmd returns the register command.
func RegisterCmd() *cobra.Command {
	var req api.RegisterRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a company account",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			if err := e.auth.Register(cmd.Context(), req); err != nil {
				return err
			}
			fmt.Println("Account created. Sign in with: thubctl login")
			return nil
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "company name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "account password")
	cmd.Flags().StringVar(&req.Location, "location", "", "company location")
	cmd.Flags().StringVar(&req.Type, "type", "", "company type: producer or recycler")
	return cmd
}

// ProfileCmd returns the profile command.
func ProfileCmd() *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show the authenticated company profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			company, err := e.auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut {
				outputJSON(company)
				return nil
			}
			fmt.Printf("Company:  %s (id %d)\n", company.Name, company.ID)
			fmt.Printf("Email:    %s\n", company.Email)
			fmt.Printf("Location: %s\n", company.Location)
			fmt.Printf("Type:     %s\n", company.Type)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output in JSON format")
	cmd.AddCommand(profileUpdateCmd())
	return cmd
}

func profileUpdateCmd() *cobra.Command {
	var name, email, location, companyType string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update the company profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := newEnv(cmd)
			if err != nil {
				return err
			}
			company, err := e.auth.Profile(cmd.Context())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				company.Name = name
			}
			if cmd.Flags().Changed("email") {
				company.Email = email
			}
			if cmd.Flags().Changed("location") {
				company.Location = location
			}
			if cmd.Flags().Changed("type") {
				company.Type = companyType
			}
			if err := e.auth.UpdateProfile(cmd.Context(), company); err != nil {
				return err
			}
			color.Green("Profile updated.")
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "company name")
	cmd.Flags().StringVar(&email, "email", "", "contact email")
	cmd.Flags().StringVar(&location, "location", "", "company location")
	cmd.Flags().StringVar(&companyType, "type", "", "company type")
	return cmd
}

func prompt(label string) string {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}
