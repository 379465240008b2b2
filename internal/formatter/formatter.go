// Package formatter renders ranked job results for display.
//
// Two renderings are provided: an HTML table for the chat layer and a
// styled text listing for the terminal. Both read fields from the
// typed metadata first and fall back to parsing the labelled content
// template, which is an interface contract shared with the loader.
package formatter

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/pathfinder-labs/pathfinder-cli/internal/core/domain"
	"github.com/pathfinder-labs/pathfinder-cli/internal/core/ports/driven"
	"github.com/pathfinder-labs/pathfinder-cli/internal/logger"
)

// summaryFallbackLen is the truncation length used when no LLM is
// available or the summary call fails.
const summaryFallbackLen = 150

// Summarise produces a one-sentence summary of a job description.
// When llm is nil or the call fails, it degrades silently to the first
// 150 characters of the text followed by "...". The fallback is exact
// and deliberate: downstream consumers rely on it being deterministic.
func Summarise(ctx context.Context, llm driven.LLMService, text string) string {
	if llm != nil {
		summary, err := llm.Summarise(ctx, text)
		if err == nil && strings.TrimSpace(summary) != "" {
			return strings.TrimSpace(summary)
		}
		if err != nil {
			logger.Warn("Summary generation failed, falling back to truncation: %v", err)
		}
	}
	return truncateSummary(text)
}

func truncateSummary(text string) string {
	if len(text) > summaryFallbackLen {
		text = text[:summaryFallbackLen]
	}
	return text + "..."
}

// field reads a display field, metadata first, labelled content second.
func field(r domain.SearchResult, metaValue, label string) string {
	if metaValue != "" {
		return metaValue
	}
	return domain.ExtractField(r.Document.Content, label)
}

// FormatHTML renders results into an HTML table plus a summary list,
// mirroring what the chat layer shows the user. Results without a URL
// are skipped; when nothing has a usable link, an explicit "no
// results" paragraph is returned rather than an empty table.
func FormatHTML(ctx context.Context, llm driven.LLMService, results []domain.SearchResult) string {
	if len(results) == 0 {
		return "<p>No job listings found for your request.</p>"
	}

	var rows []string
	var descriptions []string

	n := 0
	for _, r := range results {
		url := strings.TrimSpace(field(r, r.Document.Meta.URL, "URL"))
		if url == "" {
			continue // listings without a link are not actionable
		}
		n++

		title := displayValue(field(r, r.Document.Meta.Title, "Title"))
		company := displayValue(field(r, r.Document.Meta.Company, "Company"))
		location := displayValue(field(r, r.Document.Meta.Location, "Location"))
		link := fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">Apply</a>`,
			html.EscapeString(url))

		rows = append(rows, fmt.Sprintf(
			"<tr><td>%d</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>",
			n, html.EscapeString(title), html.EscapeString(company),
			html.EscapeString(location), link))

		description := domain.ExtractDescription(r.Document.Content)
		if description == "" {
			description = strings.TrimSpace(r.Chunk.Content)
		}
		summary := Summarise(ctx, llm, description)
		descriptions = append(descriptions, fmt.Sprintf(
			"<li><strong>%d.</strong> %s</li>", n, html.EscapeString(summary)))
	}

	if len(rows) == 0 {
		return "<p>No job listings with usable links were found.</p>"
	}

	var b strings.Builder
	b.WriteString("<p>Here are some job recommendations based on your request:</p>\n")
	b.WriteString(`<table border="1" cellspacing="0" cellpadding="6" style="border-collapse: collapse; width: 100%;">`)
	b.WriteString("<thead><tr><th>#</th><th>Title</th><th>Company</th><th>Location</th><th>Link</th></tr></thead>")
	b.WriteString("<tbody>")
	for _, row := range rows {
		b.WriteString(row)
	}
	b.WriteString("</tbody></table>\n")
	b.WriteString("<p><strong>Descriptions:</strong></p>\n<ul>")
	for _, d := range descriptions {
		b.WriteString(d)
	}
	b.WriteString("</ul>")
	return b.String()
}

func displayValue(v string) string {
	if strings.TrimSpace(v) == "" {
		return "—"
	}
	return v
}
