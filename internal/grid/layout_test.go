package grid

import "testing"

func layoutColumns() []*Column {
	return []*Column{
		{ID: "id", Title: "ID", Sizing: SizingFixed, FixedWidth: 6},
		{ID: "name", Title: "Name", Sizing: SizingFitHeader, MinWidth: 4},
		{ID: "note", Title: "Note", Sizing: SizingAuto},
		{ID: "desc", Title: "Description", Sizing: SizingFill},
		{ID: "tags", Title: "Tags", Sizing: SizingFill, Weight: 2},
	}
}

func TestResolvePolicies(t *testing.T) {
	e := NewLayoutEngine(nil)
	cols := layoutColumns()

	widths := e.Resolve(cols, 60)

	if widths["id"] != 6 {
		t.Errorf("fixed width = %d, want 6", widths["id"])
	}
	if widths["name"] != 4 { // "Name" measures 4
		t.Errorf("fit-header width = %d, want 4", widths["name"])
	}
	if widths["note"] != 4 { // provisional header width before measurement
		t.Errorf("auto provisional width = %d, want 4", widths["note"])
	}

	// Fill columns split the remaining 46 cells 1:2.
	if widths["desc"]+widths["tags"] != 46 {
		t.Errorf("fill columns got %d+%d, want total 46", widths["desc"], widths["tags"])
	}
	if widths["tags"] < widths["desc"] {
		t.Errorf("weight 2 column narrower than weight 1: %d < %d", widths["tags"], widths["desc"])
	}

	// Sum equals the viewport when no clamp kicks in.
	total := 0
	for _, w := range widths {
		total += w
	}
	if total != 60 {
		t.Errorf("resolved widths sum to %d, want 60", total)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	e := NewLayoutEngine(nil)
	cols := layoutColumns()

	first := e.Resolve(cols, 72)
	second := e.Resolve(cols, 72)

	if len(first) != len(second) {
		t.Fatalf("width map size changed between resolves")
	}
	for id, w := range first {
		if second[id] != w {
			t.Errorf("column %s: %d then %d for identical geometry", id, w, second[id])
		}
	}
}

func TestAutoRefinement(t *testing.T) {
	e := NewLayoutEngine(nil)
	cols := layoutColumns()

	e.Resolve(cols, 60)
	if !e.NoteContentWidth("note", 15) {
		t.Fatalf("wider content measurement not recorded")
	}
	if e.NoteContentWidth("note", 10) {
		t.Errorf("narrower measurement should not grow the recorded maximum")
	}

	widths := e.Resolve(cols, 60)
	if widths["note"] != 15 {
		t.Errorf("auto width after measurement = %d, want 15", widths["note"])
	}
}

func TestFillOverflowFloorsAtMinimum(t *testing.T) {
	e := NewLayoutEngine(nil)
	cols := []*Column{
		{ID: "a", Title: "A", Sizing: SizingFixed, FixedWidth: 30},
		{ID: "b", Title: "B", Sizing: SizingFill, MinWidth: 5},
		{ID: "c", Title: "C", Sizing: SizingFill},
	}

	widths := e.Resolve(cols, 32)
	if !e.Overflow() {
		t.Fatalf("overflow not reported when columns exceed viewport")
	}
	if widths["b"] != 5 {
		t.Errorf("squeezed fill width = %d, want its MinWidth 5", widths["b"])
	}
	if widths["c"] != (DefaultTheme{}).MinColumnWidth() {
		t.Errorf("squeezed fill width = %d, want theme minimum", widths["c"])
	}
}

func TestResolvePushesWidthsThroughApplyHook(t *testing.T) {
	e := NewLayoutEngine(nil)
	cols := layoutColumns()

	var pushed map[string]int
	calls := 0
	e.SetApplyFunc(func(w map[string]int) {
		pushed = w
		calls++
	})

	e.Resolve(cols, 60)
	if calls != 1 || pushed == nil {
		t.Fatalf("apply hook not invoked on resolve")
	}
	if pushed["id"] != 6 {
		t.Errorf("hook saw stale widths: %v", pushed)
	}
}

func TestChromeWidth(t *testing.T) {
	// 3 columns, padding 1: 2 borders + 2 separators + 6 padding cells.
	if got := ChromeWidth(3, 1); got != 10 {
		t.Errorf("ChromeWidth(3,1) = %d, want 10", got)
	}
	if got := ChromeWidth(0, 1); got != 0 {
		t.Errorf("ChromeWidth(0,1) = %d, want 0", got)
	}
}

func TestFillFloorSkewReportsOverflow(t *testing.T) {
	e := NewLayoutEngine(nil)
	cols := []*Column{
		{ID: "wide", Title: "W", Sizing: SizingFill, Weight: 9, MinWidth: 3},
		{ID: "narrow", Title: "N", Sizing: SizingFill, Weight: 1, MinWidth: 6},
	}

	// 20 cells cover both floors (3+6), but the 9:1 split hands the
	// narrow column 2 cells and flooring it to 6 pushes the sum to 24.
	widths := e.Resolve(cols, 20)
	if widths["narrow"] != 6 {
		t.Errorf("floored fill width = %d, want its MinWidth 6", widths["narrow"])
	}
	if widths["wide"]+widths["narrow"] > 20 && !e.Overflow() {
		t.Errorf("widths sum to %d over a 20-cell viewport without overflow",
			widths["wide"]+widths["narrow"])
	}
}
