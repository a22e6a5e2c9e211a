package app

import (
	"fmt"
	"strings"

	"gograph/domain/chart"
	"gograph/domain/table"
	"gograph/internal/validation"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Report describes the loaded data: column profiles, which chart types are
// available and a short preview.
type Report struct {
	Markdown string
	HTML     []byte
}

// Report builds the data report for the current table.
func (s *Session) Report() (*Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil, noData()
	}
	md := buildReport(s.table, s.profiles.Ordered(), validation.Availability(s.profiles))
	return &Report{Markdown: md, HTML: RenderMarkdown(md)}, nil
}

// RenderMarkdown converts markdown into an HTML fragment.
func RenderMarkdown(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML | html.Safelink})
	return markdown.ToHTML([]byte(md), p, r)
}

func buildReport(tbl *table.Table, profiles []chart.ColumnProfile, avail []chart.Availability) string {
	var b strings.Builder

	b.WriteString("# Data report\n\n")
	fmt.Fprintf(&b, "%d rows, %d columns.\n\n", tbl.RowCount(), len(tbl.Headers))

	b.WriteString("## Columns\n\n")
	b.WriteString("| Column | Kind | Unique | Non-empty | Samples |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, p := range profiles {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %s |\n",
			cell(p.Name), kindOf(p), p.UniqueValueCount, p.TotalNonEmptyValues, cell(strings.Join(p.SampleValues, ", ")))
	}

	b.WriteString("\n## Chart types\n\n")
	for _, a := range avail {
		if a.Available {
			fmt.Fprintf(&b, "- **%s**: available\n", a.ChartType)
			continue
		}
		fmt.Fprintf(&b, "- **%s**: %s\n", a.ChartType, cell(a.Reason))
	}

	rows := tbl.Head(DefaultPreviewRows)
	if len(rows) == 0 {
		return b.String()
	}
	b.WriteString("\n## Preview\n\n")
	b.WriteString("| " + strings.Join(escapeAll(tbl.Headers), " | ") + " |\n")
	b.WriteString("|" + strings.Repeat("---|", len(tbl.Headers)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(tbl.Headers))
		for i, h := range tbl.Headers {
			cells[i] = cell(row[h])
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return b.String()
}

func kindOf(p chart.ColumnProfile) string {
	switch {
	case p.IsNumeric:
		return "numeric"
	case p.IsDate:
		return "date"
	case p.TotalNonEmptyValues == 0:
		return "empty"
	default:
		return "text"
	}
}

// cellEscaper turns data into literal markdown text: inline markup and raw
// HTML characters are backslash-escaped so the renderer emits them as text.
var cellEscaper = strings.NewReplacer(
	`\`, `\\`, "`", "\\`", "*", `\*`, "_", `\_`, "[", `\[`, "]", `\]`,
	"<", `\<`, ">", `\>`, "&", `\&`, "|", `\|`, "~", `\~`, "$", `\$`,
	"\n", " ", "\r", " ",
)

func cell(s string) string {
	return cellEscaper.Replace(s)
}

func escapeAll(ss []string) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = cell(s)
	}
	return out
}
