package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/windowrun/windowrun/internal/store"
)

func newQuoteCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Manage quotes",
	}

	cmd.AddCommand(newQuoteAddCommand(app))
	cmd.AddCommand(newQuoteListCommand(app))
	cmd.AddCommand(newQuoteStatusCommand(app))
	cmd.AddCommand(newQuoteConvertCommand(app))

	return cmd
}

func newQuoteAddCommand(app *App) *cobra.Command {
	var q store.Quote

	var status string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a quote",
		RunE: func(cmd *cobra.Command, args []string) error {
			q.Status = store.QuoteStatus(status)
			if !q.Status.Valid() {
				return fmt.Errorf("unknown --status value %q: use draft, needs-follow-up, accepted or rejected", status)
			}

			saved := app.Store.UpsertQuote(q)
			fmt.Fprintln(cmd.OutOrStdout(), success("Saved quote ")+money(saved.Amount)+faintStyle.Render(" ("+saved.ID+")"))

			return nil
		},
	}

	cmd.Flags().StringVar(&q.ID, "id", "", "quote id (empty creates a new quote)")
	cmd.Flags().StringVar(&q.CustomerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&q.Description, "description", "", "work description")
	cmd.Flags().Float64Var(&q.Amount, "amount", 0, "quoted amount")
	cmd.Flags().StringVar(&q.Notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&status, "status", string(store.QuoteDraft), "draft | needs-follow-up | accepted | rejected")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newQuoteListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List quotes",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.Snapshot()

			rows := make([][]string, 0, len(state.Quotes))
			for _, q := range state.Quotes {
				rows = append(rows, []string{
					q.ID,
					customerName(state, q.CustomerID),
					q.Description,
					money(q.Amount),
					string(q.Status),
					q.CreatedAt.Format("2006-01-02"),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), title("Quotes"))
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "CUSTOMER", "DESCRIPTION", "AMOUNT", "STATUS", "CREATED"}, rows))

			return nil
		},
	}
}

func newQuoteStatusCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Set a quote's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			next := store.QuoteStatus(args[1])
			if !next.Valid() {
				return fmt.Errorf("unknown status %q: use draft, needs-follow-up, accepted or rejected", args[1])
			}

			state := app.Store.Snapshot()

			for _, q := range state.Quotes {
				if q.ID == args[0] {
					q.Status = next
					app.Store.UpsertQuote(q)
					fmt.Fprintln(cmd.OutOrStdout(), success("Quote is now ")+args[1])

					return nil
				}
			}

			return store.ErrQuoteNotFound
		},
	}
}

func newQuoteConvertCommand(app *App) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "convert <id>",
		Short: "Accept a quote and schedule the job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduled, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				return fmt.Errorf("parsing --date: %w", err)
			}

			job, err := app.Store.ConvertQuoteToJob(args[0], scheduled)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(),
				success("Job scheduled for ")+job.ScheduledDate.Format("2006-01-02")+faintStyle.Render(" ("+job.ID+")"))

			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "scheduled date (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}
