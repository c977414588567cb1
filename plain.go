package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tgrid/internal/grid"
)

var (
	plainHeaderStyle = lipgloss.NewStyle().Bold(true)
	plainNullStyle   = lipgloss.NewStyle().Faint(true).Italic(true)
	plainBorderStyle = lipgloss.NewStyle().Faint(true)
	plainFooterStyle = lipgloss.NewStyle().Faint(true)
)

// renderPlain writes one styled page of the table to w, for piping into
// other tools or a quick look without the TUI.
func renderPlain(config *Config, tablename string, w io.Writer) error {
	db, dbType, err := config.connect()
	if err != nil {
		return err
	}
	defer db.Close()

	source, err := NewTableSource(db, dbType, tablename)
	if err != nil {
		return err
	}

	g, err := grid.New(source, source.GridColumns(),
		grid.WithPageSize(config.PageSize))
	if err != nil {
		return err
	}

	slice := g.PageSlice()
	g.Resize(getTerminalWidth(), max(1, len(slice)))
	g.RefineAutoWidths()

	cols := g.Columns()
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = g.Layout().WidthOf(col.ID)
	}
	sep := " " + plainBorderStyle.Render("│") + " "

	cells := make([]string, len(cols))
	for i, col := range cols {
		cells[i] = plainHeaderStyle.Render(padCellToWidth(col.Title, widths[i]))
	}
	fmt.Fprintln(w, strings.Join(cells, sep))

	rule := make([]string, len(cols))
	for i := range cols {
		rule[i] = strings.Repeat("─", widths[i])
	}
	fmt.Fprintln(w, plainBorderStyle.Render(strings.Join(rule, "─┼─")))

	rows := 0
	for _, e := range slice {
		if e.Kind == grid.EntryGroupHeader {
			header := fmt.Sprintf("▸ %s (%d)", grid.FormatValue(e.GroupKey), e.Count)
			fmt.Fprintln(w, plainHeaderStyle.Render(header))
			continue
		}
		rows++
		for i, col := range cols {
			text := ""
			if v, err := col.Getter(e.Item); err == nil {
				text = grid.FormatValue(v)
			}
			padded := padCellToWidth(text, widths[i])
			if text == grid.NullDisplay {
				padded = plainNullStyle.Render(padded)
			}
			cells[i] = padded
		}
		fmt.Fprintln(w, strings.Join(cells, sep))
	}

	footer := fmt.Sprintf("page %d/%d · %d rows", g.Page()+1, g.PageCount(), rows)
	fmt.Fprintln(w, plainFooterStyle.Render(footer))
	return nil
}
