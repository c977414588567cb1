package grid

import "github.com/mattn/go-runewidth"

// LayoutEngine resolves effective column widths (in terminal cells)
// from each column's sizing policy and the available viewport width.
// Widths are engine-owned state: every Resolve pushes the fresh map
// through the apply hook to all currently bound row containers, so no
// row can keep a stale per-row override.
type LayoutEngine struct {
	theme    ThemeProvider
	widths   map[string]int
	measured map[string]int // widest content seen per Auto column
	overflow bool
	apply    func(map[string]int)
}

// NewLayoutEngine creates a layout engine using the given theme, or
// DefaultTheme when nil.
func NewLayoutEngine(theme ThemeProvider) *LayoutEngine {
	if theme == nil {
		theme = DefaultTheme{}
	}
	return &LayoutEngine{
		theme:    theme,
		widths:   make(map[string]int),
		measured: make(map[string]int),
	}
}

// SetApplyFunc registers the hook that distributes resolved widths to
// every bound row container.
func (e *LayoutEngine) SetApplyFunc(fn func(map[string]int)) {
	e.apply = fn
}

// NoteContentWidth records a measured content width for an Auto
// column. Returns true if the recorded maximum grew, meaning the next
// Resolve will refine the provisional header-based width.
func (e *LayoutEngine) NoteContentWidth(columnID string, width int) bool {
	if width <= e.measured[columnID] {
		return false
	}
	e.measured[columnID] = width
	return true
}

// Widths returns the last resolved width map.
func (e *LayoutEngine) Widths() map[string]int { return e.widths }

// WidthOf returns the last resolved width for a column.
func (e *LayoutEngine) WidthOf(columnID string) int { return e.widths[columnID] }

// Overflow reports whether the last Resolve squeezed Fill columns to
// their minimum because the others already exceed the viewport.
// Horizontal scrolling is expected downstream; this is not an error.
func (e *LayoutEngine) Overflow() bool { return e.overflow }

// Resolve computes the width of every column for the given available
// content width. Policies resolve in order Fixed, FitHeader, Auto,
// Fill, since Fill depends on what the others consumed. Resolving the
// same inputs twice yields the same widths.
func (e *LayoutEngine) Resolve(columns []*Column, viewportWidth int) map[string]int {
	widths := make(map[string]int, len(columns))
	used := 0
	var fills []*Column

	for _, col := range columns {
		switch col.Sizing {
		case SizingFixed:
			w := col.clampWidth(col.FixedWidth)
			widths[col.ID] = w
			used += w
		case SizingFitHeader:
			// Measured against the title before any row is built, so
			// first-render rows already get the real width.
			w := col.clampWidth(headerWidth(col))
			widths[col.ID] = w
			used += w
		case SizingAuto:
			w := headerWidth(col)
			if m := e.measured[col.ID]; m > w {
				w = m
			}
			w = col.clampWidth(w)
			widths[col.ID] = w
			used += w
		case SizingFill:
			fills = append(fills, col)
		}
	}

	e.overflow = false
	if len(fills) > 0 {
		remaining := viewportWidth - used
		totalWeight := 0
		minTotal := 0
		for _, col := range fills {
			totalWeight += col.weight()
			minTotal += e.fillFloor(col)
		}
		if remaining < minTotal {
			// Columns request more than available: floor the Fill
			// columns and let the host scroll horizontally.
			e.overflow = true
			for _, col := range fills {
				widths[col.ID] = e.fillFloor(col)
			}
		} else {
			given := 0
			for i, col := range fills {
				var w int
				if i == len(fills)-1 {
					w = remaining - given
				} else {
					w = remaining * col.weight() / totalWeight
				}
				if floor := e.fillFloor(col); w < floor {
					w = floor
				}
				if col.MaxWidth > 0 && w > col.MaxWidth {
					w = col.MaxWidth
				}
				widths[col.ID] = w
				given += w
			}
			// Skewed weights can floor a share upward past the
			// viewport even when the floors fit in aggregate.
			if given > remaining {
				e.overflow = true
			}
		}
	}

	e.widths = widths
	if e.apply != nil {
		e.apply(widths)
	}
	return widths
}

func (e *LayoutEngine) fillFloor(col *Column) int {
	if col.MinWidth > 0 {
		return col.MinWidth
	}
	return e.theme.MinColumnWidth()
}

// headerWidth measures a column title in display cells.
func headerWidth(col *Column) int {
	return runewidth.StringWidth(col.Title)
}

// ChromeWidth is the fixed horizontal overhead of a rendered grid:
// the two outer borders, one separator between adjacent columns, and
// cell padding on both sides of every column. Hosts subtract it from
// the viewport width before calling Resolve.
func ChromeWidth(columnCount, cellPadding int) int {
	if columnCount == 0 {
		return 0
	}
	return 2 + (columnCount - 1) + 2*cellPadding*columnCount
}
