package grid

import "fmt"

// RowContainer is a reusable visual slot owned by the virtualizer
// pool. At any time it is either unbound (index -1) or bound to
// exactly one effective-sequence index. Containers are created lazily
// up to the pool capacity and never destroyed before teardown:
// rebinding rewrites the displayed entry and cell text in place, and
// the activation hook is attached once for the container's lifetime.
type RowContainer struct {
	index  int
	entry  Entry
	cells  []string
	widths []int

	activate func(*RowContainer, int)
}

// Bound reports whether the container currently displays a row.
func (c *RowContainer) Bound() bool { return c.index >= 0 }

// Index is the bound effective-sequence index, or -1 when pooled.
func (c *RowContainer) Index() int { return c.index }

// Entry is the bound view-sequence entry.
func (c *RowContainer) Entry() Entry { return c.entry }

// Cell returns the rendered text of one cell.
func (c *RowContainer) Cell(col int) string {
	if col < 0 || col >= len(c.cells) {
		return ""
	}
	return c.cells[col]
}

// CellWidth returns the effective width of one cell, as last pushed
// by the layout engine.
func (c *RowContainer) CellWidth(col int) int {
	if col < 0 || col >= len(c.widths) {
		return 0
	}
	return c.widths[col]
}

// Activate fires the container's interaction hook for a cell, e.g. on
// a double click. The hook closure is fixed; only the bound entry it
// observes changes across rebinds.
func (c *RowContainer) Activate(col int) {
	if c.activate != nil {
		c.activate(c, col)
	}
}

// Virtualizer windows the effective sequence (the page slice when
// paging is on, else the full view sequence) onto a bounded pool of
// row containers. Scrolling costs O(window): containers whose index
// leaves the desired range are rebound in place to uncovered indices,
// never destroyed and recreated.
type Virtualizer struct {
	columns []*Column
	seq     []Entry

	start   int
	visible int
	buffer  int

	pool     []*RowContainer
	widths   map[string]int
	editor   *EditController
	activate func(*RowContainer, int)

	bulk         bool
	rebinds      int
	onReconciled func()
}

// NewVirtualizer creates a virtualizer over the given columns with the
// given per-side buffer.
func NewVirtualizer(columns []*Column, buffer int) *Virtualizer {
	if buffer < 0 {
		buffer = 0
	}
	return &Virtualizer{columns: columns, buffer: buffer}
}

// SetEditController wires the controller whose open session must be
// force-cancelled before a container is rebound.
func (v *Virtualizer) SetEditController(ec *EditController) { v.editor = ec }

// SetActivateFunc sets the interaction hook attached to every
// container at creation time.
func (v *Virtualizer) SetActivateFunc(fn func(*RowContainer, int)) { v.activate = fn }

// SetReconciledFunc sets the hook fired once after a reconcile pass
// completes. Bulk construction (initial population, page change)
// coalesces into a single firing so the host runs one layout pass for
// the whole window instead of one per row.
func (v *Virtualizer) SetReconciledFunc(fn func()) { v.onReconciled = fn }

// Window returns the current window geometry.
func (v *Virtualizer) Window() (start, visible, buffer int) {
	return v.start, v.visible, v.buffer
}

// Start returns the first visible index.
func (v *Virtualizer) Start() int { return v.start }

// PoolSize is the number of containers created so far; it never
// exceeds visible + 2*buffer for the largest viewport seen.
func (v *Virtualizer) PoolSize() int { return len(v.pool) }

// Rebinds counts container rebind operations, for tests and metrics.
func (v *Virtualizer) Rebinds() int { return v.rebinds }

// SequenceLen is the length of the effective sequence.
func (v *Virtualizer) SequenceLen() int { return len(v.seq) }

func (v *Virtualizer) poolCap() int { return v.visible + 2*v.buffer }

// SetSequence swaps in a rebuilt effective sequence while keeping the
// window position (clamped). Containers still inside the window are
// rebound in place since the entry at their index may have changed.
func (v *Virtualizer) SetSequence(seq []Entry) {
	v.seq = seq
	v.clampStart()
	v.bulk = true
	v.Reconcile()
	for _, c := range v.pool {
		if c.Bound() {
			v.bind(c, c.index)
		}
	}
	v.bulk = false
	v.reconciled()
}

// ResetSequence is the page-change path: any open edit is cancelled,
// all bindings are cleared, the window resets to the top of the new
// slice, and one reconcile repopulates it. Indices are not comparable
// across pages, so nothing of the old window survives.
func (v *Virtualizer) ResetSequence(seq []Entry) {
	if v.editor != nil {
		v.editor.ForceCancel()
	}
	for _, c := range v.pool {
		v.unbind(c)
	}
	v.seq = seq
	v.start = 0
	v.bulk = true
	v.Reconcile()
	v.bulk = false
	v.reconciled()
}

// OnViewportChanged recomputes the window from the scroll position
// (in rows) and the viewport height (in visible rows), then
// reconciles.
func (v *Virtualizer) OnViewportChanged(scrollRow, viewportHeight int) {
	if viewportHeight < 0 {
		viewportHeight = 0
	}
	v.visible = viewportHeight
	v.start = scrollRow
	v.clampStart()
	v.Reconcile()
}

// Reconcile rebinds the pool to cover the desired index range
// [start-buffer, start+visible+buffer) clamped to the sequence. Each
// container bound outside the range is reassigned to the lowest
// uncovered desired index; leftovers are unbound.
func (v *Virtualizer) Reconcile() {
	lo := v.start - v.buffer
	if lo < 0 {
		lo = 0
	}
	hi := v.start + v.visible + v.buffer
	if hi > len(v.seq) {
		hi = len(v.seq)
	}

	covered := make(map[int]bool, hi-lo)
	var free []*RowContainer
	for _, c := range v.pool {
		if c.Bound() && c.index >= lo && c.index < hi && !covered[c.index] {
			covered[c.index] = true
			continue
		}
		free = append(free, c)
	}

	for idx := lo; idx < hi; idx++ {
		if covered[idx] {
			continue
		}
		var c *RowContainer
		if len(free) > 0 {
			c, free = free[0], free[1:]
		} else {
			if len(v.pool) >= v.poolCap() {
				panic(fmt.Sprintf("grid: window [%d,%d) exceeds pool capacity %d", lo, hi, v.poolCap()))
			}
			c = v.newContainer()
		}
		v.bind(c, idx)
	}

	for _, c := range free {
		v.unbind(c)
	}
	v.reconciled()
}

// ContainerAt returns the container bound to an effective-sequence
// index, or nil if the index is outside the window.
func (v *Virtualizer) ContainerAt(index int) *RowContainer {
	for _, c := range v.pool {
		if c.index == index && c.Bound() {
			return c
		}
	}
	return nil
}

// BoundContainers returns the bound containers in index order.
func (v *Virtualizer) BoundContainers() []*RowContainer {
	var out []*RowContainer
	lo := v.start - v.buffer
	if lo < 0 {
		lo = 0
	}
	hi := v.start + v.visible + v.buffer
	if hi > len(v.seq) {
		hi = len(v.seq)
	}
	for idx := lo; idx < hi; idx++ {
		if c := v.ContainerAt(idx); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// VisibleContainers returns the containers for the visible rows only,
// in index order, excluding the buffer.
func (v *Virtualizer) VisibleContainers() []*RowContainer {
	var out []*RowContainer
	hi := v.start + v.visible
	if hi > len(v.seq) {
		hi = len(v.seq)
	}
	for idx := v.start; idx < hi; idx++ {
		if c := v.ContainerAt(idx); c != nil {
			out = append(out, c)
		}
	}
	return out
}

// ApplyWidths pushes an engine-resolved width map to every container
// in the pool, bound or not. Widths are engine-owned; containers only
// mirror them.
func (v *Virtualizer) ApplyWidths(widths map[string]int) {
	v.widths = widths
	for _, c := range v.pool {
		v.applyWidthsTo(c)
	}
}

func (v *Virtualizer) newContainer() *RowContainer {
	c := &RowContainer{
		index:    -1,
		cells:    make([]string, len(v.columns)),
		widths:   make([]int, len(v.columns)),
		activate: v.activate,
	}
	v.pool = append(v.pool, c)
	v.applyWidthsTo(c)
	return c
}

// bind assigns a container to a sequence index in place: cancel any
// edit session it holds, rewrite the entry and cell text, reapply the
// current widths. The activation hook is not touched.
func (v *Virtualizer) bind(c *RowContainer, idx int) {
	if idx < 0 || idx >= len(v.seq) {
		panic(fmt.Sprintf("grid: bind index %d out of range [0,%d)", idx, len(v.seq)))
	}
	if v.editor != nil {
		v.editor.containerRebinding(c)
	}
	c.index = idx
	c.entry = v.seq[idx]
	v.refresh(c)
	v.applyWidthsTo(c)
	v.rebinds++
}

func (v *Virtualizer) unbind(c *RowContainer) {
	if v.editor != nil {
		v.editor.containerRebinding(c)
	}
	c.index = -1
	c.entry = Entry{}
	for i := range c.cells {
		c.cells[i] = ""
	}
}

// refresh re-renders the container's cell text from the column
// getters. Group headers carry no per-column cells.
func (v *Virtualizer) refresh(c *RowContainer) {
	if c.entry.Kind == EntryGroupHeader {
		for i := range c.cells {
			c.cells[i] = ""
		}
		return
	}
	for i, col := range v.columns {
		val, ok := col.value(c.entry.Item)
		if !ok {
			c.cells[i] = ""
			continue
		}
		c.cells[i] = FormatValue(val)
	}
}

// RefreshBound re-renders every bound container without rebinding,
// for in-place value changes that did not reorder the sequence.
func (v *Virtualizer) RefreshBound() {
	for _, c := range v.pool {
		if c.Bound() {
			v.refresh(c)
		}
	}
}

func (v *Virtualizer) applyWidthsTo(c *RowContainer) {
	for i, col := range v.columns {
		c.widths[i] = v.widths[col.ID]
	}
}

func (v *Virtualizer) clampStart() {
	maxStart := len(v.seq) - v.visible
	if maxStart < 0 {
		maxStart = 0
	}
	if v.start > maxStart {
		v.start = maxStart
	}
	if v.start < 0 {
		v.start = 0
	}
}

func (v *Virtualizer) reconciled() {
	if v.bulk || v.onReconciled == nil {
		return
	}
	v.onReconciled()
}
