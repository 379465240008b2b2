package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	companyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#A6E3A1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))
	scoreStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F9E2AF"))
	badgeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F38BA8"))
)

// FormatText renders results as a styled terminal listing.
func FormatText(results []domain.SearchResult) string {
	if len(results) == 0 {
		return "No job listings found.\n"
	}

	var b strings.Builder
	for i, r := range results {
		title := displayValue(field(r, r.Document.Meta.Title, "Title"))
		company := displayValue(field(r, r.Document.Meta.Company, "Company"))
		location := displayValue(field(r, r.Document.Meta.Location, "Location"))
		url := field(r, r.Document.Meta.URL, "URL")

		fmt.Fprintf(&b, "[%d] %s %s %s\n",
			i+1,
			titleStyle.Render(title),
			mutedStyle.Render("at"),
			companyStyle.Render(company))
		fmt.Fprintf(&b, "    %s  %s", mutedStyle.Render(location),
			scoreStyle.Render(fmt.Sprintf("(%.3f)", r.Score)))
		if r.DomainMatch {
			fmt.Fprintf(&b, "  %s", badgeStyle.Render("[domain]"))
		}
		b.WriteString("\n")
		if url != "" {
			fmt.Fprintf(&b, "    %s\n", mutedStyle.Render(url))
		}
		b.WriteString("\n")
	}
	return b.String()
}
