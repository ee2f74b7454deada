package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/windowrun/windowrun/internal/session"
	"github.com/windowrun/windowrun/internal/store"
)

func newSignupCommand(app *App) *cobra.Command {
	var b store.Business

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Register a new business account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Sessions.Signup(cmd.Context(), b); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), success("Account created for "+b.Name))

			return nil
		},
	}

	cmd.Flags().StringVar(&b.Name, "name", "", "business name")
	cmd.Flags().StringVar(&b.Email, "email", "", "account email")
	cmd.Flags().StringVar(&b.ABN, "abn", "", "australian business number")
	cmd.Flags().StringVar(&b.Password, "password", "", "account password")
	cmd.Flags().StringVar(&b.WebhookURL, "webhook-url", "", "invoice webhook endpoint")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLoginCommand(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in with the local or remote password",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := app.Sessions.Login(cmd.Context(), password, email)
			if err != nil {
				return err
			}

			app.Sessions.Wait()

			switch role {
			case session.RoleOperator:
				fmt.Fprintln(cmd.OutOrStdout(), success("Logged in as operator"))
			default:
				fmt.Fprintln(cmd.OutOrStdout(), success("Logged in"))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email (optional when local data exists)")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func newLogoutCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out, keeping local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Sessions.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out. Local data kept.")

			return nil
		},
	}
}

func newResetAppCommand(app *App) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "reset-app",
		Short: "Erase all local data",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to erase local data without --yes")
			}

			app.Sessions.ResetApp()
			fmt.Fprintln(cmd.OutOrStdout(), "Local data erased.")

			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm erasing all local data")

	return cmd
}

func newChangePasswordCommand(app *App) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "change-password",
		Short: "Change the account password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := app.Sessions.Login(cmd.Context(), current, ""); err != nil {
				return err
			}

			if err := app.Sessions.ChangePassword(cmd.Context(), current, next); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), success("Password changed"))

			return nil
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")

	return cmd
}

func newForgotPasswordCommand(app *App) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot-password",
		Short: "Request a temporary password for an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := app.Sessions.ResetPassword(cmd.Context(), email)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), msg)

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newTenantsCommand(app *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "tenants",
		Short: "List all tenant accounts (operator only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := app.Sessions.Login(cmd.Context(), password, email)
			if err != nil {
				return err
			}

			if role != session.RoleOperator {
				return session.ErrOperatorOnly
			}

			tenants, err := app.Sessions.ListAllTenants(cmd.Context())
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(tenants))
			for _, t := range tenants {
				rows = append(rows, []string{t.BusinessName, t.Email, t.ABN})
			}

			fmt.Fprintln(cmd.OutOrStdout(), title("Tenants"))
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"BUSINESS", "EMAIL", "ABN"}, rows))

			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "operator email")
	cmd.Flags().StringVar(&password, "password", "", "operator password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}
