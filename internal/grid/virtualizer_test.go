package grid

import (
	"fmt"
	"testing"
)

func numberedEntries(n int) []Entry {
	out := make([]Entry, n)
	for i := range out {
		out[i] = Entry{Kind: EntryItem, Item: &person{Name: fmt.Sprintf("row-%05d", i)}}
	}
	return out
}

func boundIndices(v *Virtualizer) []int {
	var out []int
	for _, c := range v.BoundContainers() {
		out = append(out, c.Index())
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestPoolSizeBoundedRegardlessOfSequenceLength(t *testing.T) {
	cols := personColumns()

	sizes := make([]int, 0, 2)
	for _, n := range []int{50, 50000} {
		v := NewVirtualizer(cols, 3)
		v.SetSequence(numberedEntries(n))
		v.OnViewportChanged(0, 20)

		// Scroll around; the pool must not grow past visible+2*buffer.
		v.OnViewportChanged(n/2, 20)
		v.OnViewportChanged(n-1, 20)
		v.OnViewportChanged(0, 20)

		if v.PoolSize() > 20+2*3 {
			t.Fatalf("pool grew to %d for %d rows, cap is %d", v.PoolSize(), n, 20+2*3)
		}
		sizes = append(sizes, v.PoolSize())
	}
	if sizes[0] != sizes[1] {
		t.Errorf("pool size depends on sequence length: %d vs %d", sizes[0], sizes[1])
	}
}

func TestReconcileIdempotentAcrossScrollRoundTrip(t *testing.T) {
	cols := personColumns()
	v := NewVirtualizer(cols, 2)
	v.SetSequence(numberedEntries(500))
	v.OnViewportChanged(0, 10)

	fresh := NewVirtualizer(cols, 2)
	fresh.SetSequence(numberedEntries(500))
	fresh.OnViewportChanged(137, 10)
	want := boundIndices(fresh)

	// Wander: far down, back up, then to the probe offset.
	v.OnViewportChanged(300, 10)
	v.OnViewportChanged(12, 10)
	v.OnViewportChanged(137, 10)

	if got := boundIndices(v); !equalInts(got, want) {
		t.Errorf("scroll round trip bound %v, fresh reconcile bound %v", got, want)
	}
}

func TestWindowClampsAtSequenceEnds(t *testing.T) {
	v := NewVirtualizer(personColumns(), 2)
	v.SetSequence(numberedEntries(15))

	v.OnViewportChanged(100, 10) // past the end
	start, _, _ := v.Window()
	if start != 5 {
		t.Errorf("start = %d after overscroll, want 5", start)
	}

	v.OnViewportChanged(-4, 10)
	if start, _, _ = v.Window(); start != 0 {
		t.Errorf("start = %d after negative scroll, want 0", start)
	}

	for _, c := range v.BoundContainers() {
		if c.Index() < 0 || c.Index() >= 15 {
			t.Errorf("container bound out of range: %d", c.Index())
		}
	}
}

func TestRebindRefreshesCellsInPlace(t *testing.T) {
	cols := personColumns()
	v := NewVirtualizer(cols, 0)
	v.SetSequence(numberedEntries(100))
	v.OnViewportChanged(0, 5)

	first := v.ContainerAt(0)
	if first == nil || first.Cell(0) != "row-00000" {
		t.Fatalf("initial bind wrong: %+v", first)
	}

	v.OnViewportChanged(50, 5)
	if v.ContainerAt(0) != nil {
		t.Errorf("stale binding survived the scroll")
	}
	c := v.ContainerAt(50)
	if c == nil {
		t.Fatalf("head of new window not bound")
	}
	if c.Cell(0) != "row-00050" {
		t.Errorf("rebound cell text = %q, want row-00050", c.Cell(0))
	}
}

func TestContainerHooksSurviveRebind(t *testing.T) {
	cols := personColumns()
	v := NewVirtualizer(cols, 0)

	var lastName string
	v.SetActivateFunc(func(c *RowContainer, col int) {
		lastName = c.Entry().Item.(*person).Name
	})
	v.SetSequence(numberedEntries(100))
	v.OnViewportChanged(0, 5)

	c := v.ContainerAt(0)
	c.Activate(0)
	if lastName != "row-00000" {
		t.Fatalf("activation saw %q", lastName)
	}

	// The same container object, recycled, reports the new row: the
	// hook is fixed, only the bound entry changes.
	v.OnViewportChanged(90, 5)
	c2 := v.ContainerAt(90)
	c2.Activate(0)
	if lastName != "row-00090" {
		t.Errorf("activation after rebind saw %q, want row-00090", lastName)
	}
}

func TestResetSequenceStartsAtTop(t *testing.T) {
	v := NewVirtualizer(personColumns(), 2)
	v.SetSequence(numberedEntries(200))
	v.OnViewportChanged(150, 10)

	v.ResetSequence(numberedEntries(80))
	start, _, _ := v.Window()
	if start != 0 {
		t.Errorf("window start = %d after reset, want 0", start)
	}
	if c := v.ContainerAt(0); c == nil || c.Cell(0) != "row-00000" {
		t.Errorf("top of new slice not bound after reset")
	}
}

func TestApplyWidthsReachesEveryContainer(t *testing.T) {
	cols := personColumns()
	v := NewVirtualizer(cols, 1)
	v.SetSequence(numberedEntries(30))
	v.OnViewportChanged(0, 8)

	v.ApplyWidths(map[string]int{"name": 12, "email": 20, "status": 7, "age": 4})

	for _, c := range v.BoundContainers() {
		if c.CellWidth(0) != 12 || c.CellWidth(1) != 20 {
			t.Fatalf("container %d kept stale widths: %d/%d", c.Index(), c.CellWidth(0), c.CellWidth(1))
		}
	}

	// Containers bound later inherit the current widths too.
	v.OnViewportChanged(20, 8)
	if c := v.ContainerAt(20); c.CellWidth(2) != 7 {
		t.Errorf("freshly bound container width = %d, want 7", c.CellWidth(2))
	}
}

func TestBulkReconcileFiresSingleNotification(t *testing.T) {
	v := NewVirtualizer(personColumns(), 2)
	fired := 0
	v.SetReconciledFunc(func() { fired++ })

	v.OnViewportChanged(0, 10)
	fired = 0

	v.ResetSequence(numberedEntries(300))
	if fired != 1 {
		t.Errorf("bulk population fired %d notifications, want 1", fired)
	}
}
