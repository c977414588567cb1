package grid

import (
	"errors"
	"fmt"
	"testing"
)

func editFixture(t *testing.T, n int) (*Virtualizer, *EditController, []*Column, []any) {
	t.Helper()
	cols := personColumns()
	items := make([]any, n)
	entries := make([]Entry, n)
	for i := range items {
		p := &person{Name: fmt.Sprintf("p%03d", i), Email: fmt.Sprintf("p%03d@x.io", i), Status: "Active", Age: i}
		items[i] = p
		entries[i] = Entry{Kind: EntryItem, Item: p}
	}
	v := NewVirtualizer(cols, 2)
	ec := NewEditController()
	v.SetEditController(ec)
	v.SetSequence(entries)
	v.OnViewportChanged(0, 10)
	return v, ec, cols, items
}

func TestBeginRefusals(t *testing.T) {
	v, ec, cols, _ := editFixture(t, 20)
	nameCol := cols[0]
	statusCol := cols[2] // not editable

	if err := ec.Begin(v.ContainerAt(3), statusCol); !errors.Is(err, ErrNotEditable) {
		t.Errorf("non-editable column: err = %v, want ErrNotEditable", err)
	}
	if err := ec.Begin(nil, nameCol); !errors.Is(err, ErrNotEditable) {
		t.Errorf("nil container: err = %v, want ErrNotEditable", err)
	}

	header := &RowContainer{index: 5, entry: Entry{Kind: EntryGroupHeader, GroupKey: "Active"}}
	if err := ec.Begin(header, nameCol); !errors.Is(err, ErrNotEditable) {
		t.Errorf("group header: err = %v, want ErrNotEditable", err)
	}
	if ec.Editing() {
		t.Errorf("refused Begin still opened a session")
	}
}

func TestAtMostOneSessionCommitThenOpen(t *testing.T) {
	v, ec, cols, items := editFixture(t, 20)
	nameCol := cols[0]

	if err := ec.Begin(v.ContainerAt(1), nameCol); err != nil {
		t.Fatal(err)
	}
	ec.SetPending("renamed")

	// Opening elsewhere commits the prior session rather than
	// silently dropping its input.
	if err := ec.Begin(v.ContainerAt(4), nameCol); err != nil {
		t.Fatal(err)
	}
	if got := items[1].(*person).Name; got != "renamed" {
		t.Errorf("prior session not committed before reopen: Name = %q", got)
	}
	if sess := ec.Session(); sess == nil || sess.Row != 4 {
		t.Fatalf("new session not at row 4: %+v", sess)
	}
}

func TestValidationFailureKeepsSessionOpen(t *testing.T) {
	v, ec, cols, items := editFixture(t, 10)
	emailCol := cols[1]
	emailCol.Validate = func(v any) error {
		s, _ := v.(string)
		if len(s) == 0 {
			return errors.New("must not be empty")
		}
		return nil
	}
	defer func() { emailCol.Validate = nil }()

	if err := ec.Begin(v.ContainerAt(2), emailCol); err != nil {
		t.Fatal(err)
	}
	ec.SetPending("")

	err := ec.Commit()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("commit error = %v, want ValidationError", err)
	}
	if !ec.Editing() {
		t.Errorf("refused commit left Editing state")
	}
	if items[2].(*person).Email != "p002@x.io" {
		t.Errorf("refused commit still wrote: %q", items[2].(*person).Email)
	}

	// Revise and confirm.
	ec.SetPending("fixed@x.io")
	if err := ec.Commit(); err != nil {
		t.Fatal(err)
	}
	if items[2].(*person).Email != "fixed@x.io" {
		t.Errorf("revised commit not written")
	}
}

func TestSetterFaultAbortsOnlyTheCommit(t *testing.T) {
	v, ec, _, items := editFixture(t, 10)
	bad := &Column{
		ID: "bad", Title: "Bad", Editable: true,
		Getter: func(item any) (any, error) { return item.(*person).Name, nil },
		Setter: func(item any, v any) error { panic("disk on fire") },
	}

	if err := ec.Begin(v.ContainerAt(0), bad); err != nil {
		t.Fatal(err)
	}
	ec.SetPending("x")

	err := ec.Commit()
	var serr *SetterError
	if !errors.As(err, &serr) {
		t.Fatalf("commit error = %v, want SetterError", err)
	}
	if !ec.Editing() {
		t.Errorf("setter fault should leave the session open")
	}
	if items[0].(*person).Name != "p000" {
		t.Errorf("faulting setter corrupted the item")
	}
}

func TestCancelDiscardsWithoutWrite(t *testing.T) {
	v, ec, cols, items := editFixture(t, 10)

	if err := ec.Begin(v.ContainerAt(3), cols[0]); err != nil {
		t.Fatal(err)
	}
	ec.SetPending("should vanish")
	ec.Cancel()

	if ec.Editing() {
		t.Errorf("state not Idle after cancel")
	}
	if items[3].(*person).Name != "p003" {
		t.Errorf("cancel wrote back: %q", items[3].(*person).Name)
	}
	// Commit after cancel is a no-op, not a stale write.
	if err := ec.Commit(); err != nil {
		t.Errorf("commit after cancel: %v", err)
	}
	if items[3].(*person).Name != "p003" {
		t.Errorf("post-cancel commit wrote back")
	}
}

func TestRecyclingForceCancelsOpenEdit(t *testing.T) {
	v, ec, cols, items := editFixture(t, 200)

	forced := false
	ec.SetCancelledFunc(func(s *EditSession, f bool) { forced = f })

	if err := ec.Begin(v.ContainerAt(3), cols[1]); err != nil {
		t.Fatal(err)
	}
	ec.SetPending("typed-mid-scroll@x.io")

	// Scroll 40 rows: row 3's container is recycled to a new index.
	v.OnViewportChanged(40, 10)

	if ec.Editing() {
		t.Fatalf("session survived recycling of its container")
	}
	if !forced {
		t.Errorf("cancellation not marked forced")
	}

	// The commit attempt after the forced cancel must write nowhere.
	if err := ec.Commit(); err != nil {
		t.Errorf("commit after forced cancel: %v", err)
	}
	for i, it := range items {
		if it.(*person).Email == "typed-mid-scroll@x.io" {
			t.Fatalf("pending value leaked into item %d", i)
		}
	}
}

func TestCommitWritesToItemCapturedAtEntry(t *testing.T) {
	v, ec, cols, items := editFixture(t, 200)

	if err := ec.Begin(v.ContainerAt(5), cols[0]); err != nil {
		t.Fatal(err)
	}
	sess := ec.Session()
	ec.SetPending("pinned")

	// Simulate a rebind race the forced-cancel path would normally
	// stop: even then, the write goes to the captured item.
	sess.container.index = 150
	sess.container.entry = Entry{Kind: EntryItem, Item: items[150]}

	if err := ec.Commit(); err != nil {
		t.Fatal(err)
	}
	if items[5].(*person).Name != "pinned" {
		t.Errorf("commit missed the captured item")
	}
	if items[150].(*person).Name == "pinned" {
		t.Errorf("commit hit the newly displayed item")
	}
}
