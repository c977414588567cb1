package grid

// Source supplies the raw items. The grid reads items in place and
// never copies them; element identity is whatever the host's
// collection uses.
type Source interface {
	Items() []any
}

// ChangeKind classifies a source mutation.
type ChangeKind int

const (
	ChangeAdd ChangeKind = iota
	ChangeRemove
	ChangeReset
)

// Notifier is implemented by sources that announce mutations. A grid
// over a plain Source rebuilds only when the host asks it to.
type Notifier interface {
	Subscribe(fn func(ChangeKind))
}

// SliceSource is the in-memory reference source: a slice of items
// plus a change stream.
type SliceSource struct {
	items []any
	subs  []func(ChangeKind)
}

// NewSliceSource wraps the given items.
func NewSliceSource(items ...any) *SliceSource {
	return &SliceSource{items: items}
}

// Items returns the backing slice. Callers must not retain it across
// mutations.
func (s *SliceSource) Items() []any { return s.items }

// Len returns the item count.
func (s *SliceSource) Len() int { return len(s.items) }

// Subscribe registers a mutation callback.
func (s *SliceSource) Subscribe(fn func(ChangeKind)) {
	s.subs = append(s.subs, fn)
}

// Append adds items and notifies.
func (s *SliceSource) Append(items ...any) {
	s.items = append(s.items, items...)
	s.notify(ChangeAdd)
}

// RemoveAt deletes the item at index i and notifies.
func (s *SliceSource) RemoveAt(i int) {
	if i < 0 || i >= len(s.items) {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	s.notify(ChangeRemove)
}

// Reset replaces the backing slice and notifies.
func (s *SliceSource) Reset(items []any) {
	s.items = items
	s.notify(ChangeReset)
}

// Touch announces an in-place mutation of one or more items, e.g.
// after an external writer changed a field the grid displays.
func (s *SliceSource) Touch() {
	s.notify(ChangeReset)
}

func (s *SliceSource) notify(kind ChangeKind) {
	for _, fn := range s.subs {
		fn(kind)
	}
}
