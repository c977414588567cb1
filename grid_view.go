package main

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/tview"

	"tgrid/internal/grid"
)

// Viewport handles horizontal scrolling for the grid
type Viewport struct {
	scrollX     int          // Current horizontal offset
	screen      tcell.Screen // Reference to the tcell screen
	tableWidth  int          // Total width of the grid content
	screenWidth int          // Width of the visible area
}

// NewViewport creates a new viewport
func NewViewport() *Viewport {
	return &Viewport{
		scrollX: 0,
	}
}

// SetScreen sets the screen reference for the viewport
func (v *Viewport) SetScreen(screen tcell.Screen) {
	v.screen = screen
}

// SetDimensions sets the grid and screen dimensions for scroll limiting
func (v *Viewport) SetDimensions(tableWidth, screenWidth int) {
	v.tableWidth = tableWidth
	v.screenWidth = screenWidth
	if v.tableWidth > v.screenWidth {
		maxScroll := v.tableWidth - v.screenWidth
		if v.scrollX > maxScroll {
			v.scrollX = maxScroll
		}
	} else {
		v.scrollX = 0
	}
}

// SetContent calls screen.SetContent with x adjusted by scrollX
func (v *Viewport) SetContent(x, y int, ch rune, combc []rune, style tcell.Style) {
	if v.screen != nil {
		v.screen.SetContent(x-v.scrollX, y, ch, combc, style)
	}
}

// ScrollLeft scrolls the viewport left by one unit
func (v *Viewport) ScrollLeft() {
	if v.scrollX > 0 {
		v.scrollX--
	}
}

// ScrollRight scrolls the viewport right by one unit
func (v *Viewport) ScrollRight() {
	if v.tableWidth > v.screenWidth {
		maxScroll := v.tableWidth - v.screenWidth
		if v.scrollX < maxScroll {
			v.scrollX++
		}
	}
}

// GetScrollX returns the current horizontal offset
func (v *Viewport) GetScrollX() int {
	return v.scrollX
}

// SetScrollX sets the horizontal offset directly
func (v *Viewport) SetScrollX(x int) {
	if x < 0 {
		x = 0
	}
	v.scrollX = x
}

// EnsureColumnVisible adjusts scrollX so that a column range is visible.
// startX is the left edge of the column, endX is one past the right edge.
func (v *Viewport) EnsureColumnVisible(startX, endX, screenWidth int) {
	if endX-startX >= screenWidth {
		// Column is wider than screen, just show from the start of the column
		v.scrollX = startX
		return
	}

	if startX < v.scrollX {
		v.scrollX = startX
	} else if endX > v.scrollX+screenWidth {
		v.scrollX = endX - screenWidth
	}

	if v.scrollX < 0 {
		v.scrollX = 0
	}
}

// GridView renders a grid.Grid as a bordered table: the engine owns the
// derived sequence, the window and the column widths; the view draws
// whatever the virtualizer's containers currently hold and routes
// interaction back into the engine.
type GridView struct {
	*tview.Box

	grid  *grid.Grid
	title string // data set name shown above the table

	// Display configuration
	cellPadding   int
	borderColor   tcell.Color
	headerColor   tcell.Color
	headerBgColor tcell.Color

	// Selection state
	selectedRow int // effective-sequence index
	selectedCol int
	selectable  bool
	findMode    bool // selected column gets a dark blue background
	vimMode     bool

	// Callbacks
	doubleClickFunc     func(row, col int)
	singleClickFunc     func(row, col int)
	selectionChangeFunc func(row, col int)
	mouseScrollFunc     func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse)
	titleClickFunc      func()
	columnResizeFunc    func(col, width int)

	// Double-click tracking
	lastClickRow int
	lastClickCol int

	// Drag state for column resizing
	resizingColumn   int // -1 if not resizing, otherwise column index
	resizeStartX     int // Initial X position of mouse when drag started
	resizeStartWidth int // Original column width before drag

	// Viewport for horizontal scrolling
	viewport *Viewport

	rowsHeight int
}

// NewGridView creates a view over the given grid engine.
func NewGridView(g *grid.Grid, height int) *GridView {
	gv := &GridView{
		Box:            tview.NewBox(),
		grid:           g,
		cellPadding:    1,
		borderColor:    tcell.ColorWhite,
		headerColor:    tcell.ColorWhite,
		headerBgColor:  tcell.ColorDarkSlateGray,
		selectedRow:    0,
		selectedCol:    0,
		selectable:     true,
		lastClickRow:   -1,
		lastClickCol:   -1,
		resizingColumn: -1,
		viewport:       NewViewport(),
		rowsHeight:     height,
	}
	gv.SetBorder(false) // We draw our own borders
	return gv
}

// SetGrid swaps the engine behind the view, used when the user picks a
// different table. A nil grid renders nothing.
func (gv *GridView) SetGrid(g *grid.Grid) *GridView {
	gv.grid = g
	gv.selectedRow = 0
	gv.selectedCol = 0
	gv.viewport.SetScrollX(0)
	return gv
}

// SetTitle sets the data set name shown above the grid
func (gv *GridView) SetTitle(title string) *GridView {
	gv.title = title
	return gv
}

// SetVimMode enables or disables the vim mode indicator
func (gv *GridView) SetVimMode(enabled bool) *GridView {
	gv.vimMode = enabled
	return gv
}

// SetFindMode sets whether the view is in find mode (selected column has
// a dark blue background)
func (gv *GridView) SetFindMode(findMode bool) *GridView {
	gv.findMode = findMode
	return gv
}

// SetDoubleClickFunc sets the function to call when a cell is double-clicked
func (gv *GridView) SetDoubleClickFunc(handler func(row, col int)) *GridView {
	gv.doubleClickFunc = handler
	return gv
}

// SetSingleClickFunc sets the function to call when a cell is single-clicked
func (gv *GridView) SetSingleClickFunc(handler func(row, col int)) *GridView {
	gv.singleClickFunc = handler
	return gv
}

// SetSelectionChangeFunc sets the function to call when the selection changes
func (gv *GridView) SetSelectionChangeFunc(handler func(row, col int)) *GridView {
	gv.selectionChangeFunc = handler
	return gv
}

// SetMouseScrollFunc sets the function to handle mouse scroll events
func (gv *GridView) SetMouseScrollFunc(handler func(action tview.MouseAction, event *tcell.EventMouse) (tview.MouseAction, *tcell.EventMouse)) *GridView {
	gv.mouseScrollFunc = handler
	return gv
}

// SetTitleClickFunc sets the function to call when the title row is clicked
func (gv *GridView) SetTitleClickFunc(handler func()) *GridView {
	gv.titleClickFunc = handler
	return gv
}

// SetColumnResizeFunc sets the function called while a column separator
// is dragged. The handler owns the width change; the view never writes
// widths itself.
func (gv *GridView) SetColumnResizeFunc(handler func(col, width int)) *GridView {
	gv.columnResizeFunc = handler
	return gv
}

// GetSelection returns the currently selected sequence index and column
func (gv *GridView) GetSelection() (row, col int) {
	return gv.selectedRow, gv.selectedCol
}

// RowsHeight returns the number of data rows the view can display.
func (gv *GridView) RowsHeight() int {
	return gv.rowsHeight
}

// Select selects a cell by effective-sequence index and column
func (gv *GridView) Select(row, col int) *GridView {
	if gv.grid == nil {
		return gv
	}
	seqLen := gv.grid.Virtualizer().SequenceLen()
	cols := gv.grid.Columns()
	if row >= 0 && row < seqLen && col >= 0 && col < len(cols) {
		selectionChanged := (gv.selectedRow != row || gv.selectedCol != col)
		gv.selectedRow = row
		gv.selectedCol = col
		if selectionChanged && gv.selectionChangeFunc != nil {
			gv.selectionChangeFunc(row, col)
		}
	}
	return gv
}

// ClampSelection pulls the selection back inside the current sequence
// after a rebuild shrank it.
func (gv *GridView) ClampSelection() {
	if gv.grid == nil {
		return
	}
	seqLen := gv.grid.Virtualizer().SequenceLen()
	if seqLen == 0 {
		gv.selectedRow = 0
		return
	}
	if gv.selectedRow >= seqLen {
		gv.selectedRow = seqLen - 1
	}
}

// SetSelectable sets whether the view responds to selection input
func (gv *GridView) SetSelectable(selectable bool) *GridView {
	gv.selectable = selectable
	return gv
}

// columnWidth returns the engine-resolved width of a column.
func (gv *GridView) columnWidth(col int) int {
	cols := gv.grid.Columns()
	if col < 0 || col >= len(cols) {
		return 0
	}
	w := gv.grid.Layout().WidthOf(cols[col].ID)
	if w < 1 {
		w = 3
	}
	return w
}

// calculateTableWidth calculates the total width needed for the grid
func (gv *GridView) calculateTableWidth() int {
	cols := gv.grid.Columns()
	width := 1 // Left border
	for i := range cols {
		width += gv.columnWidth(i) + 2*gv.cellPadding
		if i < len(cols)-1 {
			width += 1 // Column separator
		}
	}
	width += 1 // Right border
	return width
}

// headerLabel renders a column title with its sort and filter markers.
func (gv *GridView) headerLabel(col int) string {
	c := gv.grid.Columns()[col]
	label := c.Title
	if st := gv.grid.SortState(); st.ColumnID == c.ID {
		switch st.Direction {
		case grid.SortAscending:
			label += " ▲"
		case grid.SortDescending:
			label += " ▼"
		}
	}
	return label
}

// Draw renders the grid view
func (gv *GridView) Draw(screen tcell.Screen) {
	gv.Box.DrawForSubclass(screen, gv)
	if gv.grid == nil {
		return
	}
	x, y, width, height := gv.GetInnerRect()

	cols := gv.grid.Columns()
	if len(cols) == 0 || width <= 0 || height <= 0 {
		return
	}

	gv.viewport.SetScreen(screen)

	tableWidth := gv.calculateTableWidth()
	gv.viewport.SetDimensions(tableWidth, width)

	currentY := y

	if gv.title != "" {
		gv.drawTitleRow(x, currentY, tableWidth)
		currentY++
	}

	gv.drawHorizontalBorder(x, currentY, '┌', '┬', '┐', '─')
	currentY++

	if currentY < y+height {
		gv.drawHeaderRow(x, currentY)
		currentY++
	}

	if currentY < y+height {
		gv.drawHorizontalBorder(x, currentY, '┝', '┿', '┥', '━')
		currentY++
	}

	// Data rows come straight from the virtualizer's visible window.
	virt := gv.grid.Virtualizer()
	start := virt.Start()
	maxDataRows := height - 3
	if gv.title != "" {
		maxDataRows--
	}
	drawn := 0
	atEnd := false
	for i := 0; i < maxDataRows && currentY < y+height; i++ {
		idx := start + i
		if idx >= virt.SequenceLen() {
			atEnd = true
			break
		}
		c := virt.ContainerAt(idx)
		if c == nil {
			break
		}
		if c.Entry().Kind == grid.EntryGroupHeader {
			gv.drawGroupHeaderRow(x, currentY, c)
		} else {
			gv.drawDataRow(x, currentY, c)
		}
		currentY++
		drawn++
	}
	if start+drawn >= virt.SequenceLen() {
		atEnd = true
	}

	if atEnd && currentY < y+height {
		gv.drawHorizontalBorder(x, currentY, '└', '┴', '┘', '─')
	}
}

// drawTitleRow draws the data set name above the table
func (gv *GridView) drawTitleRow(x, y, tableWidth int) {
	headerText := fmt.Sprintf(" %s ▾", gv.title)
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)

	// Page indicator and vim mode indicator on the right
	rightText := ""
	if gv.grid.PageCount() > 1 {
		rightText = fmt.Sprintf("page %d/%d ", gv.grid.Page()+1, gv.grid.PageCount())
	}
	if gv.vimMode {
		rightText += "vim mode "
	}

	pos := x
	for _, ch := range headerText {
		gv.viewport.SetContent(pos, y, ch, nil, style)
		pos++
	}

	rightStart := x + tableWidth - runewidth.StringWidth(rightText)
	endPos := x + tableWidth
	if rightText != "" {
		endPos = rightStart
	}
	for pos < endPos {
		gv.viewport.SetContent(pos, y, ' ', nil, style)
		pos++
	}
	for _, ch := range rightText {
		gv.viewport.SetContent(pos, y, ch, nil, style)
		pos++
	}
}

// drawHorizontalBorder draws one full-width border line
func (gv *GridView) drawHorizontalBorder(x, y int, left, junction, right, line rune) {
	style := tcell.StyleDefault.Foreground(gv.borderColor)
	gv.viewport.SetContent(x, y, left, nil, style)
	pos := x + 1

	cols := gv.grid.Columns()
	for i := range cols {
		cellWidth := gv.columnWidth(i) + 2*gv.cellPadding
		for j := 0; j < cellWidth; j++ {
			gv.viewport.SetContent(pos+j, y, line, nil, style)
		}
		pos += cellWidth

		if i < len(cols)-1 {
			gv.viewport.SetContent(pos, y, junction, nil, style)
			pos++
		} else {
			gv.viewport.SetContent(pos, y, right, nil, style)
		}
	}
}

// drawHeaderRow draws the header content row
func (gv *GridView) drawHeaderRow(x, y int) {
	gv.viewport.SetContent(x, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))
	pos := x + 1

	cols := gv.grid.Columns()
	for i, col := range cols {
		headerStyle := tcell.StyleDefault.Foreground(gv.headerColor).Background(gv.headerBgColor)

		// A filtered column gets a marker in its leading padding.
		for j := 0; j < gv.cellPadding; j++ {
			if gv.grid.FilterActiveFor(col.ID) {
				gv.viewport.SetContent(pos+j, y, '◈', nil, headerStyle)
			} else {
				gv.viewport.SetContent(pos+j, y, ' ', nil, headerStyle)
			}
		}
		pos += gv.cellPadding

		width := gv.columnWidth(i)
		headerText := padCellToWidth(gv.headerLabel(i), width)
		for j, ch := range headerText {
			gv.viewport.SetContent(pos+j, y, ch, nil, headerStyle.Bold(true))
		}
		pos += width

		for j := 0; j < gv.cellPadding; j++ {
			gv.viewport.SetContent(pos+j, y, ' ', nil, headerStyle)
		}
		pos += gv.cellPadding

		if i < len(cols)-1 {
			gv.viewport.SetContent(pos, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))
			pos++
		}
	}

	gv.viewport.SetContent(pos, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))
}

// drawGroupHeaderRow spans a synthetic group header across the full row
func (gv *GridView) drawGroupHeaderRow(x, y int, c *grid.RowContainer) {
	entry := c.Entry()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkSlateGray)
	if gv.selectable && c.Index() == gv.selectedRow {
		style = style.Background(tcell.ColorBlue)
	}

	tableWidth := gv.calculateTableWidth()
	gv.viewport.SetContent(x, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))

	label := fmt.Sprintf(" ▸ %s (%d)", grid.FormatValue(entry.GroupKey), entry.Count)
	text := padCellToWidth(label, tableWidth-2)
	pos := x + 1
	for _, ch := range text {
		gv.viewport.SetContent(pos, y, ch, nil, style.Bold(true))
		pos += runewidth.RuneWidth(ch)
	}

	gv.viewport.SetContent(x+tableWidth-1, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))
}

// drawDataRow draws one bound container
func (gv *GridView) drawDataRow(x, y int, c *grid.RowContainer) {
	rowIdx := c.Index()

	gv.viewport.SetContent(x, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))
	pos := x + 1

	cols := gv.grid.Columns()
	for i := range cols {
		cellStyle := tcell.StyleDefault

		// In find mode, highlight the entire selected column
		if gv.findMode && i == gv.selectedCol {
			cellStyle = cellStyle.Background(tcell.ColorDarkBlue).Foreground(tcell.ColorWhite)
		}
		if gv.selectable && rowIdx == gv.selectedRow && i == gv.selectedCol {
			cellStyle = cellStyle.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
		}

		for j := 0; j < gv.cellPadding; j++ {
			gv.viewport.SetContent(pos+j, y, ' ', nil, cellStyle)
		}
		pos += gv.cellPadding

		width := gv.columnWidth(i)
		text := c.Cell(i)
		style := cellStyle
		if text == grid.NullDisplay {
			style = style.Italic(true).Foreground(tcell.ColorGray)
		}
		text = padCellToWidth(text, width)
		drawX := pos
		for _, ch := range text {
			gv.viewport.SetContent(drawX, y, ch, nil, style)
			drawX += runewidth.RuneWidth(ch)
		}
		pos += width

		for j := 0; j < gv.cellPadding; j++ {
			gv.viewport.SetContent(pos+j, y, ' ', nil, cellStyle)
		}
		pos += gv.cellPadding

		if i < len(cols)-1 {
			gv.viewport.SetContent(pos, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))
			pos++
		}
	}

	gv.viewport.SetContent(pos, y, '│', nil, tcell.StyleDefault.Foreground(gv.borderColor))
}

// InputHandler handles keyboard input for navigation and selection
func (gv *GridView) InputHandler() func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
	return gv.WrapInputHandler(func(event *tcell.EventKey, setFocus func(p tview.Primitive)) {
		if !gv.selectable || gv.grid == nil {
			return
		}

		cols := gv.grid.Columns()
		switch event.Key() {
		case tcell.KeyUp:
			if gv.selectedRow > 0 {
				gv.Select(gv.selectedRow-1, gv.selectedCol)
			}
		case tcell.KeyDown:
			if gv.selectedRow < gv.grid.Virtualizer().SequenceLen()-1 {
				gv.Select(gv.selectedRow+1, gv.selectedCol)
			}
		case tcell.KeyLeft:
			if gv.selectedCol > 0 {
				gv.Select(gv.selectedRow, gv.selectedCol-1)
			}
		case tcell.KeyRight:
			if gv.selectedCol < len(cols)-1 {
				gv.Select(gv.selectedRow, gv.selectedCol+1)
			}
		case tcell.KeyHome:
			gv.Select(gv.selectedRow, 0)
		case tcell.KeyEnd:
			gv.Select(gv.selectedRow, len(cols)-1)
		}
	})
}

// MouseHandler handles mouse events for the grid
func (gv *GridView) MouseHandler() func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
	return gv.WrapMouseHandler(func(action tview.MouseAction, event *tcell.EventMouse, setFocus func(p tview.Primitive)) (consumed bool, capture tview.Primitive) {
		x, y := event.Position()

		if !gv.InRect(x, y) || gv.grid == nil {
			return false, nil
		}

		switch action {
		case tview.MouseLeftDown:
			setFocus(gv)
			consumed = true

			// Check if clicked on column separator for drag resize
			separatorCol := gv.GetColumnSeparatorAtPosition(x, y)
			if separatorCol >= 0 {
				gv.resizingColumn = separatorCol
				gv.resizeStartX = x
				gv.resizeStartWidth = gv.columnWidth(separatorCol)
				return true, gv // Capture further mouse events
			}

			if gv.selectable {
				row, col := gv.GetCellAtPosition(x, y)
				if row >= 0 && col >= 0 {
					gv.Select(row, col)
					consumed = true
				}
			}
		case tview.MouseMove:
			if gv.resizingColumn >= 0 {
				delta := x - gv.resizeStartX
				newWidth := max(3, gv.resizeStartWidth+delta)
				if gv.columnResizeFunc != nil {
					gv.columnResizeFunc(gv.resizingColumn, newWidth)
				}
				return true, gv // Continue capturing
			}
		case tview.MouseLeftUp:
			if gv.resizingColumn >= 0 {
				gv.resizingColumn = -1
				return true, nil // Release capture
			}
		case tview.MouseLeftClick:
			_, innerY, _, _ := gv.GetInnerRect()
			relativeY := y - innerY

			if relativeY == 0 && gv.title != "" && gv.titleClickFunc != nil {
				gv.titleClickFunc()
				return true, nil
			}

			row, col := gv.GetCellAtPosition(x, y)
			if gv.singleClickFunc != nil && row >= 0 && col >= 0 {
				gv.singleClickFunc(row, col)
			}
			gv.lastClickRow = row
			gv.lastClickCol = col
			return true, nil
		case tview.MouseLeftDoubleClick:
			// Only fire when both clicks landed on the same cell
			if gv.doubleClickFunc != nil {
				row, col := gv.GetCellAtPosition(x, y)
				if row >= 0 && col >= 0 && row == gv.lastClickRow && col == gv.lastClickCol {
					gv.doubleClickFunc(row, col)
					gv.lastClickRow = -1
					gv.lastClickCol = -1
					consumed = true
				}
			}
		default:
			if gv.mouseScrollFunc != nil {
				action, event = gv.mouseScrollFunc(action, event)
				if action == tview.MouseConsumed {
					consumed = true
				}
			}
		}

		return consumed, nil
	})
}

// GetColumnPosition returns the start and end x positions of a column
// relative to the table content area, padding included.
func (gv *GridView) GetColumnPosition(col int) (startX, endX int) {
	cols := gv.grid.Columns()
	if col < 0 || col >= len(cols) {
		return 0, 0
	}

	pos := 1 // after the left border
	for i := 0; i < col; i++ {
		pos += gv.columnWidth(i) + 2*gv.cellPadding
		if i < len(cols)-1 {
			pos += 1 // Column separator
		}
	}

	startX = pos
	endX = pos + gv.columnWidth(col) + 2*gv.cellPadding
	return startX, endX
}

// headerOffset is the number of chrome rows above the first data row.
func (gv *GridView) headerOffset() int {
	if gv.title != "" {
		return 4
	}
	return 3
}

// GetCellAtPosition returns the effective-sequence index and column for
// screen coordinates, or (-1, -1) if the position is not a data cell.
func (gv *GridView) GetCellAtPosition(screenX, screenY int) (row, col int) {
	x, y, width, height := gv.GetInnerRect()

	if screenX < x || screenX >= x+width || screenY < y || screenY >= y+height {
		return -1, -1
	}

	relativeY := screenY - y
	if relativeY < gv.headerOffset() {
		return -1, -1 // Clicked on border/header, not a data cell
	}

	virt := gv.grid.Virtualizer()
	seqIdx := virt.Start() + relativeY - gv.headerOffset()
	if virt.ContainerAt(seqIdx) == nil {
		return -1, -1 // Beyond the bound window
	}

	// Account for viewport scrolling
	relativeX := screenX - x + gv.viewport.GetScrollX()
	if relativeX < 1 {
		return -1, -1 // Clicked on left border
	}

	cols := gv.grid.Columns()
	currentX := 1
	for i := range cols {
		cellWidth := gv.columnWidth(i) + 2*gv.cellPadding

		if relativeX >= currentX && relativeX < currentX+cellWidth {
			return seqIdx, i
		}
		currentX += cellWidth

		if i < len(cols)-1 {
			if relativeX == currentX {
				return -1, -1 // Clicked on separator
			}
			currentX += 1
		}
	}

	return -1, -1
}

// GetColumnSeparatorAtPosition returns the column index if the position
// is on a column separator, or -1. Uses a tolerance of ±1.
func (gv *GridView) GetColumnSeparatorAtPosition(screenX, screenY int) int {
	x, y, width, _ := gv.GetInnerRect()

	if screenX < x || screenX >= x+width {
		return -1
	}

	relativeY := screenY - y
	headerRow := gv.headerOffset() - 2
	if relativeY != headerRow && relativeY < gv.headerOffset() {
		return -1 // Not on header or data area
	}

	relativeX := screenX - x + gv.viewport.GetScrollX()
	if relativeX < 1 {
		return -1
	}

	cols := gv.grid.Columns()
	currentX := 1
	for i := range cols {
		currentX += gv.columnWidth(i) + 2*gv.cellPadding
		if i < len(cols)-1 {
			if relativeX >= currentX-1 && relativeX <= currentX+1 {
				return i // The column to the left of this separator
			}
			currentX += 1
		}
	}

	return -1
}

// padCellToWidth pads text to a display width, truncating with an
// ellipsis if too long.
func padCellToWidth(text string, width int) string {
	w := runewidth.StringWidth(text)
	if w > width {
		if width >= 3 {
			return runewidth.Truncate(text, width, "…")
		}
		return runewidth.Truncate(text, width, "")
	}
	return text + strings.Repeat(" ", width-w)
}
