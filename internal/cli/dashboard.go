package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/windowrun/windowrun/internal/report"
)

var panelStyle = lipgloss.NewStyle().
	BorderStyle(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("63")).
	Padding(0, 2)

func newDashboardCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show business figures for the current financial year",
		RunE: func(cmd *cobra.Command, args []string) error {
			now := time.Now()
			summary := report.Summarize(app.Store.Snapshot(), now)
			fyStart := report.FinancialYearStart(now)

			panels := []string{
				panel("Revenue FY "+fyStart.Format("06")+"/"+fyStart.AddDate(1, 0, 0).Format("06"), money(summary.RevenueThisFY)),
				panel("Booked revenue", money(summary.FutureRevenue)),
				panel("Pending quotes", money(summary.PendingQuoteValue)),
				panel("Active clients", strconv.Itoa(summary.ActiveClients)),
				panel("Jobs today", strconv.Itoa(summary.JobsToday)),
				panel("To follow up", strconv.Itoa(summary.QuotesToFollowUp)),
			}

			fmt.Fprintln(cmd.OutOrStdout(), title("Dashboard"))
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.JoinHorizontal(lipgloss.Top, panels[:3]...))
			fmt.Fprintln(cmd.OutOrStdout(), lipgloss.JoinHorizontal(lipgloss.Top, panels[3:]...))

			return nil
		},
	}
}

func panel(label, value string) string {
	content := lipgloss.JoinVertical(lipgloss.Left,
		faintStyle.Render(label),
		headerStyle.Render(value),
	)

	return panelStyle.Render(content)
}
