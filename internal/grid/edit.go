package grid

// EditState is the edit controller's state.
type EditState int

const (
	EditIdle EditState = iota
	EditEditing
)

// EditSession captures one in-place cell edit. At most one session
// exists system-wide. The backing item is snapshotted at entry so a
// commit always writes to the item the user was looking at, even if
// the container has since been recycled to another row.
type EditSession struct {
	Row      int // effective-sequence index at entry
	Column   *Column
	Original any
	Pending  any

	item      any
	container *RowContainer
}

// Item returns the backing item captured at entry.
func (s *EditSession) Item() any { return s.item }

// CommitEvent describes a successful commit, for host observation.
type CommitEvent struct {
	Row      int
	ColumnID string
	Old      any
	New      any
	Item     any
}

// EditController is the state machine governing which single cell, if
// any, is in edit mode. Transitions: Idle → Editing on Begin, Editing
// → Idle on Commit or Cancel. A forced cancel from the virtualizer's
// rebind path is the only externally driven transition: an edit must
// never silently commit to the wrong item.
type EditController struct {
	state   EditState
	session *EditSession

	onCommitted func(CommitEvent)
	onCancelled func(*EditSession, bool)
}

// NewEditController returns an idle controller.
func NewEditController() *EditController {
	return &EditController{state: EditIdle}
}

// SetCommittedFunc sets the hook fired after a successful commit.
func (ec *EditController) SetCommittedFunc(fn func(CommitEvent)) { ec.onCommitted = fn }

// SetCancelledFunc sets the hook fired when a session ends without a
// write. forced is true when the virtualizer cancelled it during
// recycling.
func (ec *EditController) SetCancelledFunc(fn func(s *EditSession, forced bool)) {
	ec.onCancelled = fn
}

// State returns the current state.
func (ec *EditController) State() EditState { return ec.state }

// Session returns the open session, or nil when idle.
func (ec *EditController) Session() *EditSession { return ec.session }

// Editing reports whether a session is open.
func (ec *EditController) Editing() bool { return ec.state == EditEditing }

// Begin opens an edit on the cell shown by container c in the given
// column. It refuses (returning ErrNotEditable, no transition) when
// the column is not editable, the row is a group header, or the
// container is unbound. If another session is already open it is
// committed first; a validation or write failure there blocks the new
// session and is returned for the host to surface.
func (ec *EditController) Begin(c *RowContainer, col *Column) error {
	if col == nil || !col.Editable || col.Getter == nil {
		return ErrNotEditable
	}
	if c == nil || !c.Bound() || c.entry.Kind == EntryGroupHeader {
		return ErrNotEditable
	}
	if ec.session != nil {
		// Commit-then-open: the prior session must land first.
		if err := ec.Commit(); err != nil {
			return err
		}
	}
	if ec.session != nil || ec.state != EditIdle {
		panic("grid: edit session already open")
	}

	original, _ := col.value(c.entry.Item)
	ec.session = &EditSession{
		Row:       c.index,
		Column:    col,
		Original:  original,
		Pending:   original,
		item:      c.entry.Item,
		container: c,
	}
	ec.state = EditEditing
	return nil
}

// SetPending records the host editor widget's current value. A no-op
// when idle.
func (ec *EditController) SetPending(v any) {
	if ec.session == nil {
		return
	}
	ec.session.Pending = v
}

// Commit validates the pending value and writes it through the
// column's setter to the item captured at entry, not to whatever item
// the container displays now. On a validation or setter failure the
// session stays open and the error is returned; on success the
// controller returns to Idle and fires the committed hook. Committing
// with no session open is a no-op.
func (ec *EditController) Commit() error {
	sess := ec.session
	if sess == nil {
		return nil
	}
	col := sess.Column
	if col.Validate != nil {
		if err := col.Validate(sess.Pending); err != nil {
			return &ValidationError{ColumnID: col.ID, Value: sess.Pending, Cause: err}
		}
	}
	if err := col.set(sess.item, sess.Pending); err != nil {
		return err
	}
	ec.session = nil
	ec.state = EditIdle
	if ec.onCommitted != nil {
		ec.onCommitted(CommitEvent{
			Row:      sess.Row,
			ColumnID: col.ID,
			Old:      sess.Original,
			New:      sess.Pending,
			Item:     sess.item,
		})
	}
	return nil
}

// Cancel discards the pending value and returns to Idle. No write-back
// occurs. A no-op when idle.
func (ec *EditController) Cancel() {
	ec.cancel(false)
}

// ForceCancel is the virtualizer-driven cancellation used on page
// changes and teardown.
func (ec *EditController) ForceCancel() {
	ec.cancel(true)
}

// containerRebinding force-cancels the open session if it lives on the
// container about to be rebound. Called by the virtualizer before
// every rebind.
func (ec *EditController) containerRebinding(c *RowContainer) {
	if ec.session != nil && ec.session.container == c {
		ec.cancel(true)
	}
}

func (ec *EditController) cancel(forced bool) {
	sess := ec.session
	if sess == nil {
		return
	}
	ec.session = nil
	ec.state = EditIdle
	if ec.onCancelled != nil {
		ec.onCancelled(sess, forced)
	}
}
