package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/windowrun/windowrun/internal/schedule"
	"github.com/windowrun/windowrun/internal/store"
)

func newJobCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Manage jobs",
	}

	cmd.AddCommand(newJobAddCommand(app))
	cmd.AddCommand(newJobListCommand(app))
	cmd.AddCommand(newJobCompleteCommand(app))
	cmd.AddCommand(newJobDeleteCommand(app))

	return cmd
}

func newJobAddCommand(app *App) *cobra.Command {
	var (
		j         store.Job
		date      string
		frequency string
		until     string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add or update a job",
		RunE: func(cmd *cobra.Command, args []string) error {
			scheduled, err := time.ParseInLocation("2006-01-02", date, time.Local)
			if err != nil {
				return fmt.Errorf("parsing --date: %w", err)
			}

			j.ScheduledDate = scheduled
			j.Status = store.JobScheduled

			if frequency != "" {
				freq := store.Frequency(frequency)
				if !freq.Known() {
					return fmt.Errorf("unknown --repeat value %q: use weekly, fortnightly or monthly", frequency)
				}

				rule := &store.RecurrenceRule{Frequency: freq}

				if until != "" {
					end, err := time.ParseInLocation("2006-01-02", until, time.Local)
					if err != nil {
						return fmt.Errorf("parsing --until: %w", err)
					}

					rule.EndDate = &end
				}

				j.Recurrence = rule
			}

			saved := app.Store.UpsertJob(j)
			fmt.Fprintln(cmd.OutOrStdout(), success("Saved job")+faintStyle.Render(" ("+saved.ID+")"))

			return nil
		},
	}

	cmd.Flags().StringVar(&j.ID, "id", "", "job id (empty creates a new job)")
	cmd.Flags().StringVar(&j.CustomerID, "customer", "", "customer id")
	cmd.Flags().StringVar(&j.Description, "description", "", "work description")
	cmd.Flags().Float64Var(&j.Price, "price", 0, "job price")
	cmd.Flags().StringVar(&j.Notes, "notes", "", "free-form notes")
	cmd.Flags().StringVar(&date, "date", "", "scheduled date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&frequency, "repeat", "", "weekly | fortnightly | monthly")
	cmd.Flags().StringVar(&until, "until", "", "last date occurrences may fall on (YYYY-MM-DD)")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newJobListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.Snapshot()

			rows := make([][]string, 0, len(state.Jobs))
			for _, j := range state.Jobs {
				rows = append(rows, []string{
					j.ID,
					customerName(state, j.CustomerID),
					j.ScheduledDate.Format("2006-01-02"),
					money(j.Price),
					string(j.Status),
					recurrenceLabel(j.Recurrence),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), title("Jobs"))
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"ID", "CUSTOMER", "DATE", "PRICE", "STATUS", "REPEATS"}, rows))

			return nil
		},
	}
}

func newJobCompleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a job completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.Snapshot()

			for _, j := range state.Jobs {
				if j.ID == args[0] {
					j.Status = store.JobCompleted
					saved := app.Store.UpsertJob(j)
					fmt.Fprintln(cmd.OutOrStdout(),
						success("Job completed at ")+saved.CompletedAt.Format(time.RFC3339))

					return nil
				}
			}

			return fmt.Errorf("job %s not found", args[0])
		},
	}
}

func newJobDeleteCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app.Store.DeleteJob(args[0])
			fmt.Fprintln(cmd.OutOrStdout(), "Job deleted.")

			return nil
		},
	}
}

func newAgendaCommand(app *App) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Show scheduled work in a date window, recurring jobs expanded",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()

			start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
			if from != "" {
				parsed, err := time.ParseInLocation("2006-01-02", from, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --from: %w", err)
				}

				start = parsed
			}

			end := start.AddDate(0, 0, 7)
			if to != "" {
				parsed, err := time.ParseInLocation("2006-01-02", to, time.Local)
				if err != nil {
					return fmt.Errorf("parsing --to: %w", err)
				}

				end = parsed
			}

			state := app.Store.Snapshot()
			occurrences := schedule.ExpandAll(state.Jobs, start, end)

			rows := make([][]string, 0, len(occurrences))
			for _, j := range occurrences {
				rows = append(rows, []string{
					j.ScheduledDate.Format("2006-01-02"),
					customerName(state, j.CustomerID),
					j.Description,
					money(j.Price),
					string(j.Status),
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(),
				title("Agenda ")+faintStyle.Render(start.Format("2006-01-02")+" to "+end.Format("2006-01-02")))
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"DATE", "CUSTOMER", "DESCRIPTION", "PRICE", "STATUS"}, rows))

			return nil
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "window start (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&to, "to", "", "window end (YYYY-MM-DD, default a week out)")

	return cmd
}

func newInvoiceCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoice <job-id>",
		Short: "Request an invoice for a job via the business webhook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state := app.Store.Snapshot()

			if state.Business == nil {
				return fmt.Errorf("no business profile configured")
			}

			var job *store.Job

			for i := range state.Jobs {
				if state.Jobs[i].ID == args[0] {
					job = &state.Jobs[i]
					break
				}
			}

			if job == nil {
				return fmt.Errorf("job %s not found", args[0])
			}

			var customer store.Customer

			for _, c := range state.Customers {
				if c.ID == job.CustomerID {
					customer = c
					break
				}
			}

			if err := app.Sender.RequestInvoice(cmd.Context(), *state.Business, customer, *job); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), success("Invoice requested for job ")+job.ID)

			return nil
		},
	}

	return cmd
}
