package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/altinukshini/imgsearch-tui/internal/api"
	"github.com/altinukshini/imgsearch-tui/internal/ui"
)

// RenderHeader draws the title line with the current query on the left and
// the remaining request budget on the right.
func RenderHeader(query string, rate api.RateLimit, width int) string {
	title := " imgsearch"
	if query != "" {
		title += " | " + query
	}
	left := lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.Color("#F9FAFB")).
		Render(title)

	right := ""
	if rate.Limit > 0 {
		right = ui.RateStyle(rate.Remaining, rate.Limit).
			Render(fmt.Sprintf("API: %d/%d ", rate.Remaining, rate.Limit))
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 0)
	padding := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.NewStyle().
		Background(ui.ColorHighlight).
		Width(width).
		Render(left + padding + right)
}
