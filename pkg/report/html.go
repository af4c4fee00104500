package report

import (
	"fmt"
	"html"
	"io"
	"strings"
	"time"
)

// HTMLRenderer renders summaries as a standalone HTML page.
type HTMLRenderer struct{}

// Extension implements Renderer.
func (HTMLRenderer) Extension() string { return "html" }

// Render implements Renderer.
func (HTMLRenderer) Render(w io.Writer, s *Summary) error {
	ew := &errWriter{w: w}
	title := "Game Summary: " + s.MapID
	writeHeader(ew, title)

	fmt.Fprintf(ew, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(
		ew,
		"<p><strong>Generated:</strong> %s</p>\n",
		s.GeneratedAt.Format(time.RFC3339),
	)

	writeChallengeTable(ew, s)
	writeTotals(ew, s)
	writeStatistics(ew, s)
	writeAchievements(ew, s)

	writeFooter(ew)
	return ew.err
}

// errWriter keeps the first write error and drops later writes.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

func writeChallengeTable(w io.Writer, s *Summary) {
	fmt.Fprintln(w, "<h2>Challenges</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(
		w,
		"<tr><th>#</th><th>Challenge</th><th>Category</th>"+
			"<th>Status</th><th>Attempts</th><th>Duration</th></tr>",
	)
	for _, c := range s.Challenges {
		fmt.Fprintf(
			w,
			"<tr><td>%d</td><td>%s</td><td>%s</td>"+
				"<td class=\"status-%s\">%s</td>"+
				"<td>%d</td><td>%v</td></tr>\n",
			c.Index+1,
			html.EscapeString(c.Name),
			html.EscapeString(c.Category),
			html.EscapeString(c.Status),
			strings.ToUpper(html.EscapeString(c.Status)),
			c.Attempts, c.Duration,
		)
	}
	fmt.Fprintln(w, "</table>")
}

func writeTotals(w io.Writer, s *Summary) {
	fmt.Fprintln(w, "<h2>Totals</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	rows := []struct {
		name  string
		value any
	}{
		{"Challenges", s.Total},
		{"Finished", s.Finished},
		{"Solved", s.Solved},
		{"Failed", s.Failed},
		{"Abandoned", s.Abandoned},
		{"Play Time", s.PlayTime},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "<tr><td>%s</td><td>%v</td></tr>\n", r.name, r.value)
	}
	fmt.Fprintln(w, "</table>")
}

func writeStatistics(w io.Writer, s *Summary) {
	if len(s.Statistics) == 0 {
		return
	}
	fmt.Fprintln(w, "<h2>Statistics</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Statistic</th><th>Value</th></tr>")
	for _, st := range s.Statistics {
		fmt.Fprintf(
			w,
			"<tr><td><code>%s</code></td><td>%s</td></tr>\n",
			html.EscapeString(st.Name),
			html.EscapeString(FormatStatistic(st.Value, st.Text, st.Unit)),
		)
	}
	fmt.Fprintln(w, "</table>")
}

func writeAchievements(w io.Writer, s *Summary) {
	if len(s.Achievements) == 0 {
		return
	}
	fmt.Fprintln(w, "<h2>Achievements</h2>")
	fmt.Fprintln(w, "<ul>")
	for _, a := range s.Achievements {
		fmt.Fprintf(w, "<li><strong>%s</strong>", html.EscapeString(a.Name))
		if a.Description != "" {
			fmt.Fprintf(w, " %s", html.EscapeString(a.Description))
		}
		fmt.Fprintln(w, "</li>")
	}
	fmt.Fprintln(w, "</ul>")
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
h3 { color: #34495e; }
table {
  border-collapse: collapse;
  width: 100%%;
  margin: 10px 0;
  background: #fff;
}
th, td {
  border: 1px solid #ddd;
  padding: 8px 12px;
  text-align: left;
}
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
.status-solved { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
.status-abandoned { color: #e67e22; font-weight: bold; }
code {
  background: #ecf0f1;
  padding: 2px 6px;
  border-radius: 3px;
  font-size: 0.9em;
}
footer {
  margin-top: 40px;
  padding-top: 10px;
  border-top: 1px solid #ddd;
  color: #7f8c8d;
  font-size: 0.9em;
}
</style>
</head>
<body>
`, html.EscapeString(title))
}

func writeFooter(w io.Writer) {
	fmt.Fprintln(w, "<footer>")
	fmt.Fprintln(
		w, "<p>Generated by challengegame</p>",
	)
	fmt.Fprintln(w, "</footer>")
	fmt.Fprintln(w, "</body>")
	fmt.Fprintln(w, "</html>")
}
