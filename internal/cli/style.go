package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/windowrun/windowrun/internal/store"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	faintStyle = lipgloss.NewStyle().Faint(true)

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))

	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

func title(s string) string {
	return titleStyle.Render(s)
}

func success(s string) string {
	return successStyle.Render(s)
}

func failure(s string) string {
	return errorStyle.Render(s)
}

func money(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

// renderTable lays out rows under a styled header with columns padded to
// the widest cell.
func renderTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var b strings.Builder

	for i, h := range headers {
		b.WriteString(headerStyle.Render(pad(h, widths[i])))
		b.WriteString("  ")
	}

	b.WriteString("\n")

	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				b.WriteString(pad(cell, widths[i]))
				b.WriteString("  ")
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}

	return s + strings.Repeat(" ", width-len(s))
}

func customerName(state store.AppState, id string) string {
	for _, c := range state.Customers {
		if c.ID == id {
			return c.Name
		}
	}

	return faintStyle.Render("(unknown)")
}

func recurrenceLabel(r *store.RecurrenceRule) string {
	if r == nil {
		return ""
	}

	label := string(r.Frequency)
	if r.EndDate != nil {
		label += " until " + r.EndDate.Format("2006-01-02")
	}

	return label
}
