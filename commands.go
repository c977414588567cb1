package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"tgrid/internal/grid"
)

const (
	pageFilter      = "filter"
	clearFilterItem = "(clear filter)"
)

// executeFind confirms the live find filter. The filter itself was
// already applied, debounced, while typing.
func (a *App) executeFind(text string) {
	if a.grid == nil {
		return
	}
	if text == "" {
		a.SetStatusMessage("find cleared")
		return
	}
	a.SetStatusMessage(fmt.Sprintf("find %q: %d rows", text, a.countItems()))
}

// executeGoto jumps to a 1-based page number.
func (a *App) executeGoto(text string) {
	if a.grid == nil {
		return
	}
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		a.SetStatusError(fmt.Sprintf("not a page number: %s", text))
		return
	}
	a.grid.SetPage(n - 1)
}

func (a *App) cycleSortOnColumn(col int) {
	cols := a.grid.Columns()
	if col < 0 || col >= len(cols) {
		return
	}
	if !cols[col].Sortable {
		a.SetStatusMessage(fmt.Sprintf("%s is not sortable", cols[col].Title))
		return
	}
	a.grid.CycleSort(cols[col].ID)
}

func (a *App) clearFilterOnColumn(col int) {
	cols := a.grid.Columns()
	if col < 0 || col >= len(cols) {
		return
	}
	a.grid.ClearFilter(cols[col].ID)
}

func (a *App) toggleGroupOnColumn(col int) {
	cols := a.grid.Columns()
	if col < 0 || col >= len(cols) {
		return
	}
	id := cols[col].ID
	if a.grid.GroupBy().ColumnID == id {
		a.grid.SetGroupBy("")
		a.SetStatusMessage("grouping cleared")
	} else {
		a.grid.SetGroupBy(id)
		a.SetStatusMessage(fmt.Sprintf("grouped by %s", cols[col].Title))
	}
	a.view.ClampSelection()
	if breadcrumbs != nil {
		breadcrumbs.RecordGrid(fmt.Sprintf("group %s", id))
	}
}

func (a *App) adjustColumnWidth(col, delta int) {
	if a.grid == nil {
		return
	}
	a.resizeColumn(col, max(3, a.view.columnWidth(col)+delta))
}

// showFilterPicker overlays a picker of the column's distinct values,
// computed against the other columns' filters so narrowing by one
// column still offers every value reachable on this one.
func (a *App) showFilterPicker(col int) {
	if a.grid == nil {
		return
	}
	cols := a.grid.Columns()
	if col < 0 || col >= len(cols) {
		return
	}
	if !cols[col].Filterable {
		a.SetStatusMessage(fmt.Sprintf("%s is not filterable", cols[col].Title))
		return
	}
	id := cols[col].ID

	candidates := a.grid.FilterCandidates(id)
	byLabel := make(map[string]any, len(candidates))
	labels := make([]string, 0, len(candidates)+1)
	labels = append(labels, clearFilterItem)
	for _, v := range candidates {
		label := grid.FormatValue(v)
		if _, dup := byLabel[label]; dup {
			continue
		}
		byLabel[label] = v
		labels = append(labels, label)
	}

	closePicker := func() {
		a.pages.RemovePage(pageFilter)
		a.app.SetFocus(a.view)
		a.app.SetAfterDrawFunc(nil)
		a.setCursorStyle(0)
	}

	picker := NewValuePicker(labels, "", nil, closePicker)
	picker.SetPlaceholder(fmt.Sprintf("Filter %s...", cols[col].Title))
	picker.SetSelectFunc(func(label string) {
		closePicker()
		if label == clearFilterItem {
			a.grid.ClearFilter(id)
			return
		}
		v, ok := byLabel[label]
		if !ok {
			return
		}
		a.grid.SetFilterValues(id, v)
	})

	overlay := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(picker, 8, 0, true).
		AddItem(nil, 0, 1, false)
	a.pages.AddPage(pageFilter, overlay, true, true)
	a.app.SetFocus(picker)
	a.app.SetAfterDrawFunc(func(screen tcell.Screen) {
		screen.SetCursorStyle(tcell.CursorStyleBlinkingBar)
	})
}
