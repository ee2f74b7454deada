package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/windowrun/windowrun/internal/store"
)

func newCustomerCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers",
	}

	cmd.AddCommand(newCustomerAddCommand(app))
	cmd.AddCommand(newCustomerListCommand(app))
	cmd.AddCommand(newCustomerDeleteCommand(app))

	return cmd
}

func newCustomerAddCommand(app *App) *cobra.Command {
	var (
		c            store.Customer
		defaultPrice float64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a customer",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("default-price") {
				c.DefaultPrice = &defaultPrice
			}

			saved := app.Store.UpsertCustomer(c)
			fmt.Fprintln(cmd.OutOrStdout(), success("Saved customer ")+saved.Name+faintStyle.Render(" ("+saved.ID+")"))

			return nil
		},
	}

	cmd.Flags().StringVar(&c.ID, "id", "", "customer id (empty creates a new customer)")
	cmd.Flags().StringVar(&c.Name, "name", "", "customer name")
	cmd.Flags().StringVar(&c.BusinessName, "business", "", "customer business name")
	cmd.Flags().StringVar(&c.Address, "address", "", "street address")
	cmd.Flags().StringVar(&c.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&c.Email, "email", "", "email address")
	cmd.Flags().Float64Var(&defaultPrice, "default-price", 0, "default job price")
	cmd.Flags().StringVar(&c.Notes, "notes", "", "free-form notes")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newCustomerListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.Snapshot()

			rows := make([][]string, 0, len(state.Customers))

			for _, c := range state.Customers {
				price := ""
				if c.DefaultPrice != nil {
					price = money(*c.DefaultPrice)
				}

				rows = append(rows, []string{c.ID, c.Name, c.Address, c.Phone, price})
			}

			fmt.Fprintln(cmd.OutOrStdout(), title("Customers"))
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "NAME", "ADDRESS", "PHONE", "PRICE"}, rows))

			return nil
		},
	}
}

func newCustomerDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.DeleteCustomer(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "Customer deleted.")

			return nil
		},
	}
}
