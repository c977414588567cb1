package grid

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
)

const defaultDebounce = 250 * time.Millisecond

// Option configures a Grid at construction.
type Option func(*Grid)

// WithPageSize enables pagination with fixed-size pages.
func WithPageSize(n int) Option {
	return func(g *Grid) { g.page.PageSize = n }
}

// WithBuffer sets the virtualizer's per-side row buffer.
func WithBuffer(n int) Option {
	return func(g *Grid) { g.buffer = n }
}

// WithTheme sets the theme provider queried by the layout engine.
func WithTheme(t ThemeProvider) Option {
	return func(g *Grid) { g.theme = t }
}

// WithPost sets the function used to re-enter the host's UI goroutine
// from the filter debounce timer. Defaults to calling inline, which is
// only correct for single-goroutine hosts and tests.
func WithPost(post func(func())) Option {
	return func(g *Grid) { g.post = post }
}

// WithDebounce sets the filter-input debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(g *Grid) { g.debounceDelay = d }
}

// WithEvents registers the outward notification hooks.
func WithEvents(ev Events) Option {
	return func(g *Grid) { g.events = ev }
}

// Grid wires the pipeline, paginator, layout engine, virtualizer and
// edit controller into one data-presentation engine. Everything runs
// on the host's UI goroutine: rebuilds, reconciles and edit
// transitions are mutually exclusive by construction, with no locks.
// The only asynchronous element is the filter debounce timer, which
// re-enters through the post function.
type Grid struct {
	source   Source
	columns  []*Column
	pipeline *Pipeline
	layout   *LayoutEngine
	virt     *Virtualizer
	editor   *EditController

	sort   SortState
	filter *FilterState
	group  GroupState
	page   PageState

	seq       []Entry // full view sequence
	slice     []Entry // effective sequence: page slice when paging
	pageCount int

	viewportWidth int
	visibleRows   int
	buffer        int

	theme         ThemeProvider
	events        Events
	post          func(func())
	debounce      *time.Timer
	debounceDelay time.Duration
}

// New builds a grid over the source and column set. Column
// declarations are checked up front: ids must be unique and any
// sortable, filterable or editable column needs a getter (editable
// additionally a setter). If the source notifies, every mutation
// triggers a rebuild through post.
func New(source Source, columns []*Column, opts ...Option) (*Grid, error) {
	if source == nil {
		return nil, fmt.Errorf("grid: nil source")
	}
	if err := checkColumns(columns); err != nil {
		return nil, err
	}

	g := &Grid{
		source:        source,
		columns:       columns,
		filter:        NewFilterState(),
		buffer:        2,
		debounceDelay: defaultDebounce,
		post:          func(fn func()) { fn() },
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.theme == nil {
		g.theme = DefaultTheme{}
	}

	g.pipeline = NewPipeline(columns)
	g.layout = NewLayoutEngine(g.theme)
	g.virt = NewVirtualizer(columns, g.buffer)
	g.editor = NewEditController()

	g.virt.SetEditController(g.editor)
	g.layout.SetApplyFunc(g.virt.ApplyWidths)
	g.editor.SetCommittedFunc(func(ev CommitEvent) {
		if g.events.EditCommitted != nil {
			g.events.EditCommitted(ev)
		}
		// The commit mutated the raw source; the edited item may move,
		// filter out or resort. Expected behavior, not an error.
		g.Refresh()
	})
	g.editor.SetCancelledFunc(func(s *EditSession, forced bool) {
		if g.events.EditCancelled != nil {
			g.events.EditCancelled(s.Column.ID, forced)
		}
	})

	if n, ok := source.(Notifier); ok {
		n.Subscribe(func(ChangeKind) {
			g.post(g.Refresh)
		})
	}

	g.Refresh()
	return g, nil
}

func checkColumns(columns []*Column) error {
	if len(columns) == 0 {
		return fmt.Errorf("grid: no columns declared")
	}
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.ID == "" {
			return fmt.Errorf("grid: column with empty id")
		}
		if seen[col.ID] {
			return fmt.Errorf("grid: duplicate column id %q", col.ID)
		}
		seen[col.ID] = true
		if (col.Sortable || col.Filterable || col.Editable) && col.Getter == nil {
			return fmt.Errorf("grid: column %q needs a getter", col.ID)
		}
		if col.Editable && col.Setter == nil {
			return fmt.Errorf("grid: editable column %q needs a setter", col.ID)
		}
	}
	return nil
}

// Columns returns the declared column set in order.
func (g *Grid) Columns() []*Column { return g.columns }

// Column returns a column by id, or nil.
func (g *Grid) Column(id string) *Column { return g.pipeline.Column(id) }

// Virtualizer exposes the row virtualizer for rendering hosts.
func (g *Grid) Virtualizer() *Virtualizer { return g.virt }

// Layout exposes the column layout engine.
func (g *Grid) Layout() *LayoutEngine { return g.layout }

// Editor exposes the cell edit controller.
func (g *Grid) Editor() *EditController { return g.editor }

// ViewSequence returns the full derived sequence (all pages).
func (g *Grid) ViewSequence() []Entry { return g.seq }

// PageSlice returns the effective sequence the virtualizer windows
// over.
func (g *Grid) PageSlice() []Entry { return g.slice }

// Page returns the current page index.
func (g *Grid) Page() int { return g.page.Page }

// PageCount returns the page count, at least 1.
func (g *Grid) PageCount() int { return g.pageCount }

// SortState returns the active sort.
func (g *Grid) SortState() SortState { return g.sort }

// Refresh rebuilds the view sequence from the raw source and the
// active sort/filter/group state, reclamps the page, and hands the
// page slice to the virtualizer. Called automatically on source
// notifications, commits and state changes; hosts with a
// non-notifying source call it themselves.
func (g *Grid) Refresh() {
	g.seq = g.pipeline.Rebuild(g.source.Items(), g.sort, g.filter, g.group)
	g.page.Clamp(len(g.seq))
	g.slice, g.pageCount = g.page.Slice(g.seq)
	g.virt.SetSequence(g.slice)
}

// Resize pushes new viewport geometry: width in cells and height in
// visible data rows. Column widths are re-resolved and reapplied to
// every bound row; repeating the same geometry is idempotent.
func (g *Grid) Resize(width, visibleRows int) {
	g.viewportWidth = width
	g.visibleRows = visibleRows
	g.resolveLayout()
	g.virt.OnViewportChanged(g.virt.Start(), visibleRows)
}

// Scroll moves the window so scrollRow is the first visible row.
func (g *Grid) Scroll(scrollRow int) {
	g.virt.OnViewportChanged(scrollRow, g.visibleRows)
}

func (g *Grid) resolveLayout() {
	avail := g.viewportWidth - ChromeWidth(len(g.columns), g.theme.CellPadding())
	g.layout.Resolve(g.columns, avail)
	if g.events.LayoutOverflow != nil {
		g.events.LayoutOverflow(g.layout.Overflow())
	}
}

// RefineAutoWidths runs one content measurement pass over the visible
// rows and, if any Auto column grew, re-resolves the layout. Hosts
// call it after the first window is bound.
func (g *Grid) RefineAutoWidths() {
	changed := false
	for i, col := range g.columns {
		if col.Sizing != SizingAuto {
			continue
		}
		for _, c := range g.virt.VisibleContainers() {
			if w := runewidth.StringWidth(c.Cell(i)); g.layout.NoteContentWidth(col.ID, w) {
				changed = true
			}
		}
	}
	if changed {
		g.resolveLayout()
	}
}

// SetSort replaces the sort state. Requests on unknown or unsortable
// columns are ignored.
func (g *Grid) SetSort(columnID string, dir SortDirection) {
	col := g.pipeline.Column(columnID)
	if dir != SortNone && (col == nil || !col.Sortable) {
		return
	}
	if dir == SortNone {
		g.sort = SortState{}
	} else {
		g.sort = SortState{ColumnID: columnID, Direction: dir}
	}
	g.Refresh()
	if g.events.SortChanged != nil {
		g.events.SortChanged(g.sort)
	}
}

// CycleSort advances the column through none → ascending → descending
// → none, the way repeated header clicks behave.
func (g *Grid) CycleSort(columnID string) {
	if g.sort.ColumnID != columnID {
		g.SetSort(columnID, SortAscending)
		return
	}
	switch g.sort.Direction {
	case SortAscending:
		g.SetSort(columnID, SortDescending)
	case SortDescending:
		g.SetSort(columnID, SortNone)
	default:
		g.SetSort(columnID, SortAscending)
	}
}

// GroupBy returns the active grouping.
func (g *Grid) GroupBy() GroupState { return g.group }

// SetGroupBy partitions the sequence by the column's value, inserting a
// synthetic header entry before each partition. Requests on unknown
// columns are ignored; an empty columnID clears grouping.
func (g *Grid) SetGroupBy(columnID string) {
	if columnID != "" && g.pipeline.Column(columnID) == nil {
		return
	}
	g.group = GroupState{ColumnID: columnID}
	g.Refresh()
}

// SetFilterValues replaces the column's filter with an accepted-value
// set and rebuilds. Use NullValue to select null cells.
func (g *Grid) SetFilterValues(columnID string, values ...any) {
	col := g.pipeline.Column(columnID)
	if col == nil || !col.Filterable {
		return
	}
	g.filter.Accept(columnID, values...)
	g.Refresh()
	if g.events.FilterChanged != nil {
		g.events.FilterChanged(columnID)
	}
}

// ClearFilter removes the column's filter and rebuilds.
func (g *Grid) ClearFilter(columnID string) {
	g.filter.Clear(columnID)
	g.Refresh()
	if g.events.FilterChanged != nil {
		g.events.FilterChanged(columnID)
	}
}

// SetFilterText applies a substring filter on the column's formatted
// values, debounced: each keystroke restarts the timer and only the
// last scheduled rebuild fires, back on the host goroutine via post.
// An empty text clears the filter.
func (g *Grid) SetFilterText(columnID, text string) {
	col := g.pipeline.Column(columnID)
	if col == nil || !col.Filterable {
		return
	}
	if text == "" {
		g.filter.Clear(columnID)
	} else {
		needle := text
		g.filter.SetPredicate(columnID, func(v any) bool {
			return containsFold(FormatValue(v), needle)
		})
	}
	g.scheduleRebuild(columnID)
}

// FilterCandidates returns the filter-menu values for a column per the
// cascading rule: all other filters applied, the column's own ignored.
func (g *Grid) FilterCandidates(columnID string) []any {
	return g.pipeline.Candidates(g.source.Items(), g.filter, columnID)
}

// FilterActiveFor reports whether the column has a filter applied.
func (g *Grid) FilterActiveFor(columnID string) bool {
	return g.filter.ActiveFor(columnID)
}

func (g *Grid) scheduleRebuild(columnID string) {
	if g.debounce != nil {
		g.debounce.Stop()
	}
	g.debounce = time.AfterFunc(g.debounceDelay, func() {
		g.post(func() {
			g.Refresh()
			if g.events.FilterChanged != nil {
				g.events.FilterChanged(columnID)
			}
		})
	})
}

// SetPage switches to page n (clamped). Any open edit is cancelled,
// the window resets to the top of the new slice, and the virtualizer
// repopulates against it in one bulk pass. A request that clamps back
// to the current page leaves the window and any open edit alone.
func (g *Grid) SetPage(n int) {
	prev := g.page.Page
	g.page.Page = n
	g.page.Clamp(len(g.seq))
	if g.page.Page == prev {
		return
	}
	g.slice, g.pageCount = g.page.Slice(g.seq)
	g.virt.ResetSequence(g.slice)
	if g.events.PageChanged != nil {
		g.events.PageChanged(g.page.Page, g.pageCount)
	}
}

// NextPage advances one page if possible.
func (g *Grid) NextPage() { g.SetPage(g.page.Page + 1) }

// PrevPage goes back one page if possible.
func (g *Grid) PrevPage() { g.SetPage(g.page.Page - 1) }

// SetPageSize changes the page size, reclamping the page index and
// reinitializing the window against the new slice.
func (g *Grid) SetPageSize(n int) {
	g.page.PageSize = n
	g.page.Clamp(len(g.seq))
	g.slice, g.pageCount = g.page.Slice(g.seq)
	g.virt.ResetSequence(g.slice)
	if g.events.PageChanged != nil {
		g.events.PageChanged(g.page.Page, g.pageCount)
	}
}

// BeginEdit opens an edit session on the cell at an effective-sequence
// index. The row must be on screen (bound to a container).
func (g *Grid) BeginEdit(seqIndex int, columnID string) error {
	c := g.virt.ContainerAt(seqIndex)
	if c == nil {
		return fmt.Errorf("grid: row %d is not bound", seqIndex)
	}
	return g.editor.Begin(c, g.pipeline.Column(columnID))
}

// SetPending forwards the host editor widget's current value.
func (g *Grid) SetPending(v any) { g.editor.SetPending(v) }

// CommitEdit confirms the open edit; see EditController.Commit.
func (g *Grid) CommitEdit() error { return g.editor.Commit() }

// CancelEdit discards the open edit.
func (g *Grid) CancelEdit() { g.editor.Cancel() }

// Editing reports whether an edit session is open.
func (g *Grid) Editing() bool { return g.editor.Editing() }

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
