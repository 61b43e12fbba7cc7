package main

import (
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// column is one table column: its header text and cell alignment.
type column struct {
	header string
	align  text.Align
}

func textColumn(header string) column { return column{header: header, align: text.AlignLeft} }

func numberColumn(header string) column { return column{header: header, align: text.AlignRight} }

// tableView is a titled grid of episode data with an optional totals row.
type tableView struct {
	title   string
	columns []column
	rows    [][]string
	totals  []string
}

func (v *tableView) add(cells ...string) {
	v.rows = append(v.rows, cells)
}

// render draws the view with a rounded border on terminals and plain ASCII
// everywhere else so piped output stays greppable. Headers keep their case.
func (v *tableView) render(out io.Writer) string {
	if len(v.columns) == 0 {
		return ""
	}

	style := table.StyleDefault
	if isTerminal(out) {
		style = table.StyleRounded
	}
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault

	tw := table.NewWriter()
	tw.SetStyle(style)
	if v.title != "" {
		tw.SetTitle("%s", v.title)
	}
	tw.AppendHeader(v.row(headerCells(v.columns)))
	for _, cells := range v.rows {
		tw.AppendRow(v.row(cells))
	}
	if len(v.totals) > 0 {
		tw.AppendFooter(v.row(v.totals))
	}

	configs := make([]table.ColumnConfig, len(v.columns))
	for i, c := range v.columns {
		configs[i] = table.ColumnConfig{
			Number:      i + 1,
			Align:       c.align,
			AlignHeader: text.AlignLeft,
			AlignFooter: c.align,
		}
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

// row pads or truncates cells to the column count.
func (v *tableView) row(cells []string) table.Row {
	r := make(table.Row, len(v.columns))
	for i := range r {
		if i < len(cells) {
			r[i] = cells[i]
		} else {
			r[i] = ""
		}
	}
	return r
}

func headerCells(columns []column) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = c.header
	}
	return out
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
