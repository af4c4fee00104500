package report

import (
	"fmt"
	"io"
	"strings"
	"time"
)

// MarkdownRenderer renders summaries as Markdown tables.
type MarkdownRenderer struct{}

// Extension implements Renderer.
func (MarkdownRenderer) Extension() string { return "md" }

// Render implements Renderer.
func (m MarkdownRenderer) Render(w io.Writer, s *Summary) error {
	_, err := io.WriteString(w, Markdown(s))
	return err
}

// Markdown returns the Markdown form of a summary.
func Markdown(s *Summary) string {
	var sb strings.Builder

	sb.WriteString("# Game Summary\n\n")
	fmt.Fprintf(&sb, "**Map:** %s\n\n", s.MapID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		s.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Challenges\n\n")
	sb.WriteString("| # | Challenge | Category | Status | Attempts | Duration |\n")
	sb.WriteString("|---|-----------|----------|--------|----------|----------|\n")
	for _, c := range s.Challenges {
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %d | %v |\n",
			c.Index+1, mdEscape(c.Name), mdEscape(c.Category),
			strings.ToUpper(c.Status), c.Attempts, c.Duration)
	}

	sb.WriteString("\n## Totals\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Challenges | %d |\n", s.Total)
	fmt.Fprintf(&sb, "| Finished | %d |\n", s.Finished)
	fmt.Fprintf(&sb, "| Solved | %d |\n", s.Solved)
	fmt.Fprintf(&sb, "| Failed | %d |\n", s.Failed)
	fmt.Fprintf(&sb, "| Abandoned | %d |\n", s.Abandoned)
	fmt.Fprintf(&sb, "| Play Time | %v |\n", s.PlayTime)

	if len(s.Statistics) > 0 {
		sb.WriteString("\n## Statistics\n\n")
		sb.WriteString("| Statistic | Value |\n")
		sb.WriteString("|-----------|-------|\n")
		for _, st := range s.Statistics {
			fmt.Fprintf(&sb, "| %s | %s |\n", st.Name, FormatStatistic(st.Value, st.Text, st.Unit))
		}
	}

	if len(s.Achievements) > 0 {
		sb.WriteString("\n## Achievements\n\n")
		for _, a := range s.Achievements {
			fmt.Fprintf(&sb, "- **%s**", mdEscape(a.Name))
			if a.Description != "" {
				fmt.Fprintf(&sb, ": %s", mdEscape(a.Description))
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// FormatStatistic renders a statistic value for display.
func FormatStatistic(value float64, text, unit string) string {
	if text != "" {
		return text
	}
	out := strings.TrimRight(strings.TrimRight(
		fmt.Sprintf("%.2f", value), "0"), ".")
	if unit != "" {
		out += " " + unit
	}
	return out
}

func mdEscape(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
