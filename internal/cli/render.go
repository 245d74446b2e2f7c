package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"residents/internal/models"
)

const na = "N/A"

// section is one titled table of a report.
type section struct {
	title   string
	columns []string
	rows    [][]string
}

type renderer struct {
	w      io.Writer
	format string
	logger *slog.Logger
	title  cases.Caser
}

func newRenderer(w io.Writer, format string, logger *slog.Logger) *renderer {
	return &renderer{w: w, format: format, logger: logger, title: cases.Title(language.English)}
}

func (r *renderer) render(sections []section) error {
	for i, s := range sections {
		if len(s.rows) == 0 {
			r.logger.Warn("no rows matched", "section", s.title)
		}
		if i > 0 {
			if _, err := fmt.Fprintln(r.w); err != nil {
				return err
			}
		}
		if err := r.renderSection(s); err != nil {
			return err
		}
	}
	return nil
}

func (r *renderer) renderSection(s section) error {
	title := r.title.String(s.title)

	t := table.NewWriter()
	header := make(table.Row, len(s.columns))
	for i, c := range s.columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range s.rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	var err error
	switch r.format {
	case "csv":
		_, err = fmt.Fprintln(r.w, t.RenderCSV())
	case "markdown":
		_, err = fmt.Fprintf(r.w, "## %s\n\n%s\n", title, t.RenderMarkdown())
	default:
		t.SetTitle("%s", title)
		t.SetStyle(table.StyleLight)
		_, err = fmt.Fprintln(r.w, t.Render())
		if err == nil && len(s.rows) == 0 {
			_, err = fmt.Fprintln(r.w, "(0 rows)")
		}
	}
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func fmtFloat(v *float64) string {
	if v == nil {
		return na
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtInt(v int64) string {
	return strconv.FormatInt(v, 10)
}

// fmtExtreme renders "value (year)".
func fmtExtreme(e *models.Extreme) string {
	if e == nil || e.Value == nil {
		return na
	}
	return fmtFloat(e.Value) + " (" + strconv.Itoa(e.Year) + ")"
}
