package main

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"

	"tgrid/internal/grid"
)

// updateStatusForEditMode sets helpful status bar text based on the
// edited column's type
func (a *App) updateStatusForEditMode(col int) {
	if a.source == nil || col < 0 || col >= len(a.source.columns) {
		a.SetStatusMessage("Editing...")
		return
	}

	var parts []string
	if hint := getTypeHint(a.source.columns[col].Type); hint != "" {
		parts = append(parts, hint)
	}
	parts = append(parts, fmt.Sprintf("type %s for null", grid.NullDisplay))
	parts = append(parts, "Enter to save · Esc to cancel")

	a.SetStatusMessage(strings.Join(parts, " · "))
}

// getTypeHint returns a user-friendly hint for a database column type
func getTypeHint(dbType string) string {
	t := strings.ToLower(dbType)

	switch {
	case strings.Contains(t, "bool"):
		return "Boolean (true/false, 1/0, t/f)"
	case strings.Contains(t, "tinyint"):
		return "Integer (-128 to 127)"
	case strings.Contains(t, "smallint"):
		return "Integer (-32768 to 32767)"
	case t == "int" || strings.Contains(t, "integer"):
		return "Integer"
	case strings.Contains(t, "bigint"):
		return "Large integer"
	case strings.Contains(t, "real") || strings.Contains(t, "float"):
		return "Decimal number"
	case strings.Contains(t, "double"):
		return "Decimal number (high precision)"
	case strings.Contains(t, "decimal") || strings.Contains(t, "numeric"):
		return "Exact decimal number"
	case strings.Contains(t, "char") || strings.Contains(t, "varchar"):
		return "Text"
	case strings.Contains(t, "text") || strings.Contains(t, "clob"):
		return "Text (unlimited)"
	case strings.Contains(t, "date"):
		return "Date (YYYY-MM-DD)"
	case strings.Contains(t, "time") && !strings.Contains(t, "stamp"):
		return "Time (HH:MM:SS)"
	case strings.Contains(t, "timestamp"):
		return "Timestamp (ISO 8601)"
	case strings.Contains(t, "json"):
		return "JSON"
	case strings.Contains(t, "uuid"):
		return "UUID"
	case strings.Contains(t, "blob") || strings.Contains(t, "bytea") || strings.Contains(t, "binary"):
		return "Binary data"
	default:
		return ""
	}
}

func (a *App) setPaletteMode(mode PaletteMode, focus bool) {
	// Record navigation event in breadcrumbs
	if breadcrumbs != nil && mode != a.paletteMode {
		modeStr := fmt.Sprintf("%v", mode)
		switch mode {
		case PaletteModeDefault:
			modeStr = "Default"
		case PaletteModeFind:
			modeStr = "Find"
		case PaletteModeGoto:
			modeStr = "Goto"
		case PaletteModeUpdate:
			modeStr = "Update"
		}
		breadcrumbs.RecordNavigation(modeStr, "Palette mode changed")
	}

	a.paletteMode = mode
	a.commandPalette.SetLabel(mode.Glyph())
	// Clear input when switching modes
	a.commandPalette.SetText("")
	style := a.commandPalette.GetPlaceholderStyle().Italic(true)
	a.commandPalette.SetPlaceholderStyle(style)

	if a.editing {
		// The edit overlay manages its own placeholder text
		if mode == PaletteModeUpdate {
			a.commandPalette.SetPlaceholder("UPDATE preview… (Esc to exit)")
		}
		if focus {
			a.app.SetFocus(a.commandPalette)
		}
		return
	}

	switch mode {
	case PaletteModeDefault:
		a.commandPalette.SetPlaceholder("Ctrl+… S: Sort · E: Filter · F: Find · G: Page · O: Tables · Q: Quit")
	case PaletteModeFind:
		a.commandPalette.SetPlaceholder("Find in column… (Esc to exit)")
	case PaletteModeGoto:
		a.commandPalette.SetPlaceholder("Page number… (Esc to exit)")
	case PaletteModeUpdate:
		a.commandPalette.SetPlaceholder("")
	}

	if focus {
		a.app.SetFocus(a.commandPalette)
	}
}

// Status bar API methods
func (a *App) SetStatusMessage(message string) {
	if a.statusBar != nil {
		a.statusBar.SetText(message)
	}
}

func (a *App) SetStatusError(message string) {
	if a.statusBar != nil {
		a.statusBar.SetText("[red]ERROR: " + message + "[white]")
		a.app.Draw()
	}
}

// SetStatusErrorWithSentry sets an error status and reports it
func (a *App) SetStatusErrorWithSentry(err error) {
	if a.statusBar != nil {
		a.statusBar.SetText("[red]ERROR: " + err.Error() + "[white]")
		a.app.Draw()
	}
	CaptureError(err)
}

func (a *App) SetStatusLog(message string) {
	if a.statusBar != nil {
		a.statusBar.SetText("[blue]LOG: " + message + "[white]")
		a.app.Draw()
	}
}

// updateStatusWithCellContent displays the full text of the selected
// cell in the status bar. Only called when not in edit mode.
func (a *App) updateStatusWithCellContent() {
	if a.editing || a.grid == nil {
		return
	}

	row, col := a.view.GetSelection()
	cols := a.grid.Columns()
	if col < 0 || col >= len(cols) {
		return
	}

	c := a.grid.Virtualizer().ContainerAt(row)
	if c == nil {
		return
	}
	if c.Entry().Kind == grid.EntryGroupHeader {
		a.SetStatusMessage(fmt.Sprintf("[black]group[darkgreen] %s (%d rows)",
			grid.FormatValue(c.Entry().GroupKey), c.Entry().Count))
		return
	}
	cellText := c.Cell(col)

	var colType string
	if a.source != nil && col < len(a.source.columns) {
		colType = a.source.columns[col].Type
	}

	var statusMsg string
	if colType != "" {
		statusMsg = fmt.Sprintf("[black]%s[darkgreen] %s", colType, tview.Escape(cellText))
	} else {
		statusMsg = fmt.Sprintf("[darkgreen]%s", tview.Escape(cellText))
	}

	a.SetStatusMessage(statusMsg)
}

// ensureColumnVisible auto-scrolls the horizontal viewport so the
// selected column is fully on screen.
func (a *App) ensureColumnVisible(col int) {
	if a.grid == nil {
		return
	}
	startX, endX := a.view.GetColumnPosition(col)
	_, _, width, _ := a.view.GetInnerRect()
	if width <= 0 {
		width = a.dataWidth
	}
	a.view.viewport.EnsureColumnVisible(startX, endX, width)
}
