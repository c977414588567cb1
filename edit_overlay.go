package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tgrid/internal/grid"
)

const pageEditor = "editor"

func (a *App) enterEditMode(row, col int) {
	a.enterEditModeWithSelection(row, col, false)
}

// enterEditModeWithSelection opens the cell edit overlay.
// selectAll=true: select all text (for vim 'i' mode)
// selectAll=false: cursor at end (for vim 'a' mode)
func (a *App) enterEditModeWithSelection(row, col int, selectAll bool) {
	if a.grid == nil || a.editing {
		return
	}
	cols := a.grid.Columns()
	if col < 0 || col >= len(cols) {
		return
	}

	// The engine refuses group headers, unbound rows and non-editable
	// columns; it also commits any session already open elsewhere.
	if err := a.grid.BeginEdit(row, cols[col].ID); err != nil {
		a.SetStatusMessage(fmt.Sprintf("cannot edit %s: %v", cols[col].Title, err))
		return
	}

	c := a.grid.Virtualizer().ContainerAt(row)
	if c == nil {
		a.grid.CancelEdit()
		return
	}
	currentText := c.Cell(col)

	// must be set before any calls to app.Draw()
	a.editing = true
	a.editRow, a.editCol = row, col
	a.view.Select(row, col)

	textArea := tview.NewTextArea().
		SetText(currentText, !selectAll).
		SetWrap(true).
		SetOffset(0, 0)
	textArea.SetBorder(false)
	a.editArea = textArea

	// Store references for dynamic resizing
	var modal tview.Primitive
	resizeTextarea := func() {
		a.pages.RemovePage(pageEditor)
		modal = a.createCellEditOverlay(textArea, row, col, textArea.GetText())
		a.pages.AddPage(pageEditor, modal, true, true)
		textArea.SetOffset(0, 0)
	}

	textArea.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyEnter:
			a.commitEdit(textArea.GetText())
			return nil
		case tcell.KeyTab:
			// Tab: save and move to the next cell
			if a.commitEdit(textArea.GetText()) && col < len(cols)-1 {
				a.view.Select(row, col+1)
			}
			return nil
		case tcell.KeyEscape:
			a.exitEditMode()
			return nil
		}
		return event
	})

	// Position the textarea to align with the cell
	modal = a.createCellEditOverlay(textArea, row, col, currentText)
	a.pages.AddPage(pageEditor, modal, true, true)

	textArea.SetChangedFunc(func() {
		resizeTextarea()
		a.grid.SetPending(pendingValue(textArea.GetText()))
		a.updateEditPreview(textArea.GetText())
	})

	// Native cursor positioning, plus one-shot select-all after the
	// first draw when requested
	selectTextOnce := selectAll && len(currentText) > 0
	textLen := len(currentText)
	a.app.SetAfterDrawFunc(func(screen tcell.Screen) {
		screen.SetCursorStyle(tcell.CursorStyleBlinkingBar)
		if selectTextOnce {
			selectTextOnce = false
			textArea.Select(0, textLen)
		}
	})
	a.app.SetFocus(textArea)

	a.setPaletteMode(PaletteModeUpdate, false)
	a.updateEditPreview(currentText)
	a.updateStatusForEditMode(col)
}

// enterEditModeWithInitialText opens the overlay with replacement text
// instead of the current cell value, used when typing straight into a
// cell or clearing it with Backspace.
func (a *App) enterEditModeWithInitialText(row, col int, text string) {
	a.enterEditModeWithSelection(row, col, false)
	if a.editing && a.editArea != nil {
		a.editArea.SetText(text, true)
	}
}

// pendingValue maps the overlay text to the pending edit value. Typing
// the null glyph writes an actual null.
func pendingValue(text string) any {
	if text == grid.NullDisplay {
		return nil
	}
	return text
}

// commitEdit pushes the overlay text through the engine's commit path.
// Returns false when the commit was refused and the overlay stays open.
func (a *App) commitEdit(text string) bool {
	if a.grid == nil || !a.editing {
		return false
	}
	a.grid.SetPending(pendingValue(text))
	if err := a.grid.CommitEdit(); err != nil {
		// Validation and setter failures keep the session open so the
		// input can be fixed in place.
		a.SetStatusError(err.Error())
		return false
	}
	a.closeEditOverlay()
	return true
}

func (a *App) createCellEditOverlay(textArea *tview.TextArea, row, col int,
	currentText string) tview.Primitive {
	if currentText == grid.NullDisplay {
		textArea.SetTextStyle(textArea.GetTextStyle().Italic(true))
	} else {
		textArea.SetTextStyle(textArea.GetTextStyle().Italic(false))
	}

	// Vertical position: chrome rows above the data area, plus the
	// row's offset inside the visible window
	topOffset := a.view.headerOffset() + row - a.grid.Virtualizer().Start()

	// Horizontal position: left border + previous columns + cell padding
	leftOffset := 1 // Left table border "│"
	for i := 0; i < col; i++ {
		leftOffset += a.view.columnWidth(i) + 2*a.view.cellPadding + 1
	}
	leftOffset += a.view.cellPadding
	leftOffset -= 1 // Move overlay one position to the left

	// Account for viewport horizontal scrolling
	leftOffset -= a.view.viewport.GetScrollX()

	cellWidth := a.view.columnWidth(col)
	totalTableWidth := a.view.calculateTableWidth()

	// Maximum available width for the textarea
	maxAvailableWidth := totalTableWidth - leftOffset + 1

	textLines := strings.Split(currentText, "\n")
	longestLine := 0
	for _, line := range textLines {
		if len(line) > longestLine {
			longestLine = len(line)
		}
	}

	desiredWidth := max(cellWidth, longestLine) + 2
	textAreaWidth := min(desiredWidth, maxAvailableWidth)
	textAreaHeight := max(len(textLines), 1)

	// Positioned overlay that aligns text with the original cell
	leftPadding := tview.NewBox()
	return tview.NewFlex().
		AddItem(nil, leftOffset, 0, false).
		AddItem(tview.NewFlex().SetDirection(tview.FlexRow).
			AddItem(nil, topOffset, 0, false).
			AddItem(tview.NewFlex().
				AddItem(leftPadding, 1, 0, false).
				AddItem(textArea, textAreaWidth-1, 0, true),
				textAreaHeight, 0, true).
			AddItem(nil, 0, 1, false), textAreaWidth, 0, true).
		AddItem(nil, 0, 1, false)
}

func (a *App) setCursorStyle(style int) {
	fmt.Printf("\033[%d q", style)
}

// exitEditMode cancels the engine session and tears the overlay down.
func (a *App) exitEditMode() {
	if !a.editing {
		return
	}
	a.grid.CancelEdit()
	a.closeEditOverlay()
}

// closeEditOverlay removes the overlay without touching the engine
// session. The forced-cancel event path lands here after the engine
// already ended the session.
func (a *App) closeEditOverlay() {
	if !a.editing {
		return
	}
	a.editing = false
	a.editArea = nil
	a.editRow, a.editCol = -1, -1
	a.pages.RemovePage(pageEditor)
	a.app.SetAfterDrawFunc(nil)
	a.setCursorStyle(0)
	a.app.SetFocus(a.view)
	a.setPaletteMode(PaletteModeDefault, false)
	a.updateStatusWithCellContent()
}

// updateEditPreview shows the UPDATE statement a commit would run in
// the command palette placeholder.
func (a *App) updateEditPreview(newText string) {
	if a.source == nil || !a.editing {
		return
	}
	c := a.grid.Virtualizer().ContainerAt(a.editRow)
	if c == nil {
		return
	}
	rec, ok := c.Entry().Item.(*tableRecord)
	if !ok {
		return
	}
	a.commandPalette.SetPlaceholder(a.source.UpdatePreview(rec, a.editCol, newText))
}
