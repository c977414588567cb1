package main

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tgrid/internal/grid"
)

const (
	pagePicker   = "picker"
	pageGrid     = "grid"
	chromeHeight = 6

	// poolBuffer is the virtualizer's per-side row buffer.
	poolBuffer = 2

	// filterDebounce is how long find-mode input settles before the
	// sequence rebuilds.
	filterDebounce = 250 * time.Millisecond
)

type App struct {
	app    *tview.Application
	pages  *tview.Pages
	view   *GridView
	grid   *grid.Grid
	source *tableSource
	config *Config

	tableName string
	vimMode   bool

	// Database connection (stored separately to support table switching
	// before a grid exists)
	db     *sql.DB
	dbType DatabaseType

	// references to key components
	tablePicker    *ValuePicker // Table picker at the top
	statusBar      *tview.TextView
	commandPalette *tview.InputField
	layout         *tview.Flex

	paletteMode         PaletteMode
	kittySequenceActive bool
	kittySequenceBuffer string
	lastGPress          time.Time // For detecting 'gg' in vim mode

	// edit overlay
	editing  bool
	editArea *tview.TextArea
	editRow  int // sequence index of the cell being edited
	editCol  int

	// viewport geometry, fixed at startup
	dataHeight int
	dataWidth  int
}

// PaletteMode represents the current mode of the command palette
type PaletteMode int

const (
	PaletteModeDefault PaletteMode = iota
	PaletteModeFind
	PaletteModeGoto
	PaletteModeUpdate
)

func (m PaletteMode) Glyph() string {
	switch m {
	case PaletteModeDefault:
		return "⌃ "
	case PaletteModeFind:
		return "↪ "
	case PaletteModeGoto:
		return "→ "
	case PaletteModeUpdate:
		return "` "
	default:
		return "> "
	}
}

// mouseActionString converts tview.MouseAction to a human-readable string
func mouseActionString(action tview.MouseAction) string {
	switch action {
	case tview.MouseScrollUp:
		return "ScrollUp"
	case tview.MouseScrollDown:
		return "ScrollDown"
	case tview.MouseLeftClick:
		return "LeftClick"
	case tview.MouseRightClick:
		return "RightClick"
	case tview.MouseMiddleClick:
		return "MiddleClick"
	case tview.MouseMove:
		return "Move"
	case tview.MouseLeftDoubleClick:
		return "LeftDoubleClick"
	default:
		return fmt.Sprintf("Unknown(%d)", action)
	}
}

func runApp(config *Config, dbname, tablename string) error {
	tview.Styles.ContrastBackgroundColor = tcell.ColorBlack

	db, dbType, err := config.connect()
	if err != nil {
		CaptureError(err)
		return err
	}
	defer db.Close()

	// Fix viewport geometry at startup; the engine owns everything
	// derived from it.
	terminalHeight := getTerminalHeight()
	terminalWidth := getTerminalWidth()
	dataHeight := terminalHeight - chromeHeight

	tables, err := config.GetTables()
	if err != nil {
		CaptureError(err)
		return err
	}

	tvapp := tview.NewApplication().SetTitle(fmt.Sprintf("tgrid %s %s",
		dbname, databaseIcons[dbType])).EnableMouse(true)

	a := &App{
		app:         tvapp,
		pages:       tview.NewPages(),
		config:      config,
		vimMode:     config.VimMode,
		db:          db,
		dbType:      dbType,
		paletteMode: PaletteModeDefault,
		editRow:     -1,
		editCol:     -1,
		dataHeight:  dataHeight,
		dataWidth:   terminalWidth,
	}

	a.view = NewGridView(nil, dataHeight).SetVimMode(a.vimMode)

	a.view.SetDoubleClickFunc(func(row, col int) {
		a.enterEditMode(row, col)
	})
	a.view.SetSingleClickFunc(func(row, col int) {
		if a.editing {
			a.exitEditMode()
		}
	})
	a.view.SetTitleClickFunc(func() {
		a.showTablePicker()
	})
	a.view.SetColumnResizeFunc(func(col, width int) {
		a.resizeColumn(col, width)
	})
	a.view.SetMouseScrollFunc(func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse) {
		if breadcrumbs != nil && event != nil {
			breadcrumbs.RecordMouse(mouseActionString(action))
		}
		if a.grid == nil {
			return action, event
		}

		switch action {
		case tview.MouseScrollUp:
			a.grid.Scroll(a.grid.Virtualizer().Start() - 1)
			a.view.ClampSelection()
			return tview.MouseConsumed, nil
		case tview.MouseScrollDown:
			a.grid.Scroll(a.grid.Virtualizer().Start() + 1)
			a.view.ClampSelection()
			return tview.MouseConsumed, nil
		case tview.MouseScrollLeft:
			a.view.viewport.ScrollLeft()
			return tview.MouseConsumed, nil
		case tview.MouseScrollRight:
			a.view.viewport.ScrollRight()
			return tview.MouseConsumed, nil
		}
		return action, event
	})
	a.view.SetSelectionChangeFunc(func(row, col int) {
		a.updateStatusWithCellContent()
		a.ensureColumnVisible(col)
		a.followSelection(row)
	})

	// Create picker with callback now that the app struct exists
	a.tablePicker = NewValuePicker(tables, tablename, func(name string) {
		a.pages.HidePage(pagePicker)
		if err := a.openTable(name); err != nil {
			a.SetStatusError(fmt.Sprintf("open %s: %v", name, err))
		}
		a.app.SetFocus(a.view)
		a.app.SetAfterDrawFunc(nil)
		a.setCursorStyle(0)
	}, func() {
		// Close callback: hide picker and return focus to the grid
		a.pages.HidePage(pagePicker)
		a.app.SetFocus(a.view)
		a.app.SetAfterDrawFunc(nil)
		a.setCursorStyle(0)
	})

	if tablename != "" {
		if err := a.openTable(tablename); err != nil {
			CaptureError(err)
			return err
		}
	}

	a.setupKeyBindings()
	a.setupStatusBar()
	a.setupCommandPalette()

	// Setup layout without the picker (it will be overlaid when visible)
	a.layout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.view, 0, 1, true).
		AddItem(a.statusBar, 1, 0, false).
		AddItem(a.commandPalette, 1, 0, false)

	a.pages.AddPage(pageGrid, a.layout, true, true)

	// Picker overlay page (selector at top, spacer below)
	pickerOverlay := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.tablePicker, 8, 0, true).
		AddItem(nil, 0, 1, false)
	a.pages.AddPage(pagePicker, pickerOverlay, true, false)

	// If no table was specified, show the picker immediately
	if tablename == "" {
		a.showTablePicker()
	}

	if err := a.app.SetRoot(a.pages, true).Run(); err != nil {
		CaptureError(err)
		return err
	}
	return nil
}

// openTable builds a source and a grid engine for the named table and
// swaps them into the view.
func (a *App) openTable(name string) error {
	source, err := NewTableSource(a.db, a.dbType, name)
	if err != nil {
		return err
	}

	pageSize := a.config.PageSize
	g, err := grid.New(source, source.GridColumns(),
		grid.WithPageSize(pageSize),
		grid.WithBuffer(poolBuffer),
		grid.WithDebounce(filterDebounce),
		grid.WithPost(func(fn func()) {
			a.app.QueueUpdateDraw(fn)
		}),
		grid.WithEvents(a.gridEvents()),
	)
	if err != nil {
		return err
	}

	g.Resize(a.dataWidth, a.dataHeight)
	g.RefineAutoWidths()

	a.source = source
	a.grid = g
	a.tableName = name
	a.view.SetGrid(g).SetTitle(name)
	if breadcrumbs != nil {
		breadcrumbs.RecordNavigation("table", fmt.Sprintf("open %s", name))
	}
	return nil
}

func (a *App) gridEvents() grid.Events {
	return grid.Events{
		SortChanged: func(st grid.SortState) {
			a.view.ClampSelection()
			if st.Direction == grid.SortNone {
				a.SetStatusMessage("sort cleared")
			} else {
				dir := "ascending"
				if st.Direction == grid.SortDescending {
					dir = "descending"
				}
				a.SetStatusMessage(fmt.Sprintf("sorted by %s %s", st.ColumnID, dir))
			}
			if breadcrumbs != nil {
				breadcrumbs.RecordGrid(fmt.Sprintf("sort %s", st.ColumnID))
			}
		},
		FilterChanged: func(columnID string) {
			a.view.ClampSelection()
			if a.grid.FilterActiveFor(columnID) {
				a.SetStatusMessage(fmt.Sprintf("filter on %s: %d rows", columnID, a.countItems()))
			} else {
				a.SetStatusMessage(fmt.Sprintf("filter cleared on %s", columnID))
			}
			if breadcrumbs != nil {
				breadcrumbs.RecordGrid(fmt.Sprintf("filter %s", columnID))
			}
		},
		PageChanged: func(page, pageCount int) {
			a.view.Select(0, a.view.selectedCol)
			a.view.ClampSelection()
			a.SetStatusMessage(fmt.Sprintf("page %d/%d", page+1, pageCount))
			if breadcrumbs != nil {
				breadcrumbs.RecordNavigation("page", fmt.Sprintf("page %d/%d", page+1, pageCount))
			}
		},
		EditCommitted: func(ev grid.CommitEvent) {
			a.SetStatusMessage(fmt.Sprintf("updated %s", ev.ColumnID))
			if breadcrumbs != nil {
				breadcrumbs.RecordGrid(fmt.Sprintf("commit %s", ev.ColumnID))
			}
		},
		EditCancelled: func(columnID string, forced bool) {
			// A forced cancel means the row got recycled out from under
			// the overlay; tear the overlay down without re-cancelling.
			if forced && a.editing {
				a.closeEditOverlay()
				a.SetStatusMessage("edit cancelled: row left the viewport")
			}
		},
		LayoutOverflow: func(overflow bool) {
			if overflow {
				a.SetStatusMessage("columns exceed the window, scroll sideways to pan")
			}
		},
	}
}

// countItems counts item rows in the current sequence, group headers
// excluded.
func (a *App) countItems() int {
	n := 0
	for _, e := range a.grid.ViewSequence() {
		if e.Kind == grid.EntryItem {
			n++
		}
	}
	return n
}

// followSelection scrolls the window when the selection walks out of it.
func (a *App) followSelection(row int) {
	if a.grid == nil {
		return
	}
	start := a.grid.Virtualizer().Start()
	if row < start {
		a.grid.Scroll(row)
	} else if row >= start+a.dataHeight {
		a.grid.Scroll(row - a.dataHeight + 1)
	}
}

// resizeColumn pins a column to a dragged width. A dragged column stops
// auto-sizing from then on.
func (a *App) resizeColumn(col, width int) {
	if a.grid == nil {
		return
	}
	cols := a.grid.Columns()
	if col < 0 || col >= len(cols) {
		return
	}
	cols[col].Sizing = grid.SizingFixed
	cols[col].FixedWidth = width
	a.grid.Resize(a.dataWidth, a.dataHeight)
}

// showTablePicker overlays the fuzzy table picker.
func (a *App) showTablePicker() {
	a.pages.ShowPage(pagePicker)
	a.app.SetFocus(a.tablePicker)
	a.app.SetAfterDrawFunc(func(screen tcell.Screen) {
		screen.SetCursorStyle(tcell.CursorStyleBlinkingBar)
	})
}

func (a *App) setupStatusBar() {
	a.statusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetWrap(false)

	a.statusBar.SetBackgroundColor(tcell.ColorLightGray)
	a.statusBar.SetTextColor(tcell.ColorBlack)
	a.statusBar.SetText("Ready")
}

func (a *App) setupCommandPalette() {
	inputField := tview.NewInputField()
	a.commandPalette = inputField.
		SetLabel("").
		SetFieldBackgroundColor(tcell.ColorBlack).
		SetFieldTextColor(tcell.ColorWhite)

	a.commandPalette.SetBackgroundColor(tcell.ColorBlack)

	// Default palette mode shows keybinding help
	a.setPaletteMode(PaletteModeDefault, false)

	// Find mode rebuilds as the user types; the engine debounces the
	// keystrokes so only the settled text causes a rebuild.
	a.commandPalette.SetChangedFunc(func(text string) {
		if a.paletteMode == PaletteModeFind && a.grid != nil {
			_, col := a.view.GetSelection()
			cols := a.grid.Columns()
			if col >= 0 && col < len(cols) {
				a.grid.SetFilterText(cols[col].ID, text)
			}
		}
	})

	a.commandPalette.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		r := event.Rune()
		mod := event.Modifiers()

		switch {
		case (r == 'f' || r == 6) && mod&tcell.ModCtrl != 0:
			a.setPaletteMode(PaletteModeFind, true)
			return nil
		case (r == 'q' || r == 17) && mod&tcell.ModCtrl != 0:
			a.app.Stop()
			return nil
		}

		switch event.Key() {
		case tcell.KeyEnter:
			command := a.commandPalette.GetText()
			switch a.paletteMode {
			case PaletteModeFind:
				a.executeFind(command)
				// Keep the palette open with the text for refinement
				return nil
			case PaletteModeGoto:
				a.executeGoto(command)
			}
			a.setPaletteMode(PaletteModeDefault, false)
			a.app.SetFocus(a.view)
			return nil
		case tcell.KeyEscape:
			if a.paletteMode == PaletteModeFind && a.grid != nil {
				// Leaving find mode keeps the applied filter; clearing
				// is an explicit action on the column.
				a.view.SetFindMode(false)
			}
			a.setPaletteMode(PaletteModeDefault, false)
			a.app.SetFocus(a.view)
			return nil
		}
		return event
	})
}
