package grid

import "sort"

// SortDirection is the direction of a column sort.
type SortDirection int

const (
	SortNone SortDirection = iota
	SortAscending
	SortDescending
)

// SortState is the active single-column sort. The zero value means
// unsorted.
type SortState struct {
	ColumnID  string
	Direction SortDirection
}

// GroupState selects the grouping column. The zero value means no
// grouping.
type GroupState struct {
	ColumnID string
}

// FilterState holds the active per-column filters, each either a set
// of accepted values or a predicate. Filters combine as a conjunction
// across columns.
type FilterState struct {
	accepted   map[string]map[any]struct{}
	predicates map[string]func(any) bool
}

// NewFilterState returns an empty filter state.
func NewFilterState() *FilterState {
	return &FilterState{
		accepted:   make(map[string]map[any]struct{}),
		predicates: make(map[string]func(any) bool),
	}
}

// Accept replaces the column's filter with a set of accepted values.
// Values are normalized through the same keying as candidates, so
// NullValue (or a plain nil) selects null cells.
func (f *FilterState) Accept(columnID string, values ...any) {
	set := make(map[any]struct{}, len(values))
	for _, v := range values {
		set[filterKey(v)] = struct{}{}
	}
	f.accepted[columnID] = set
	delete(f.predicates, columnID)
}

// SetPredicate replaces the column's filter with a predicate over the
// raw cell value (nil for null cells).
func (f *FilterState) SetPredicate(columnID string, pred func(any) bool) {
	if pred == nil {
		f.Clear(columnID)
		return
	}
	f.predicates[columnID] = pred
	delete(f.accepted, columnID)
}

// Clear removes the column's filter.
func (f *FilterState) Clear(columnID string) {
	delete(f.accepted, columnID)
	delete(f.predicates, columnID)
}

// ClearAll removes every filter.
func (f *FilterState) ClearAll() {
	f.accepted = make(map[string]map[any]struct{})
	f.predicates = make(map[string]func(any) bool)
}

// ActiveFor reports whether the column has a filter applied.
func (f *FilterState) ActiveFor(columnID string) bool {
	if f == nil {
		return false
	}
	if _, ok := f.accepted[columnID]; ok {
		return true
	}
	_, ok := f.predicates[columnID]
	return ok
}

// Active reports whether any filter is applied.
func (f *FilterState) Active() bool {
	if f == nil {
		return false
	}
	return len(f.accepted) > 0 || len(f.predicates) > 0
}

// EntryKind distinguishes items from synthetic group headers.
type EntryKind int

const (
	EntryItem EntryKind = iota
	EntryGroupHeader
)

// Entry is one element of the view sequence: an item reference, or a
// synthetic group header carrying the group key and member count.
// Group headers reject all cell interaction downstream.
type Entry struct {
	Kind     EntryKind
	Item     any
	GroupKey any
	Count    int // members under a group header
}

// Pipeline derives the ordered, filtered, optionally grouped view
// sequence from the raw items. Rebuild is a pure function of its
// arguments, so it can run on every source mutation without
// accumulating drift.
type Pipeline struct {
	columns []*Column
	byID    map[string]*Column
}

// NewPipeline creates a pipeline over the given column set.
func NewPipeline(columns []*Column) *Pipeline {
	byID := make(map[string]*Column, len(columns))
	for _, col := range columns {
		byID[col.ID] = col
	}
	return &Pipeline{columns: columns, byID: byID}
}

// Column returns the column with the given id, or nil.
func (p *Pipeline) Column(id string) *Column {
	return p.byID[id]
}

// Rebuild filters, groups and stably sorts the raw items into a fresh
// view sequence. Every element of the result references an input item;
// nothing is copied or fabricated. Group partitions keep first-seen
// order and each partition is flattened behind its header entry.
func (p *Pipeline) Rebuild(items []any, sortState SortState, filter *FilterState, group GroupState) []Entry {
	filtered := make([]any, 0, len(items))
	for _, item := range items {
		if p.passesFilters(item, filter, "") {
			filtered = append(filtered, item)
		}
	}

	groupCol := p.byID[group.ColumnID]
	if groupCol == nil {
		p.sortItems(filtered, sortState)
		entries := make([]Entry, len(filtered))
		for i, item := range filtered {
			entries[i] = Entry{Kind: EntryItem, Item: item}
		}
		return entries
	}

	var order []any
	buckets := make(map[any][]any)
	for _, item := range filtered {
		v, ok := groupCol.value(item)
		key := any(NullValue)
		if ok && v != nil {
			key = filterKey(v)
		}
		if _, seen := buckets[key]; !seen {
			order = append(order, key)
		}
		buckets[key] = append(buckets[key], item)
	}

	entries := make([]Entry, 0, len(filtered)+len(order))
	for _, key := range order {
		members := buckets[key]
		p.sortItems(members, sortState)
		entries = append(entries, Entry{Kind: EntryGroupHeader, GroupKey: key, Count: len(members)})
		for _, item := range members {
			entries = append(entries, Entry{Kind: EntryItem, Item: item, GroupKey: key})
		}
	}
	return entries
}

// Candidates computes the distinct filter-menu values for columnID:
// the values of items passing every other active filter, while
// ignoring columnID's own, so a prior selection stays visible and
// revisable. First-seen order; null cells surface as NullValue. The
// filter state is never modified.
func (p *Pipeline) Candidates(items []any, filter *FilterState, columnID string) []any {
	col := p.byID[columnID]
	if col == nil || !col.Filterable {
		return nil
	}
	seen := make(map[any]struct{})
	var out []any
	for _, item := range items {
		if !p.passesFilters(item, filter, columnID) {
			continue
		}
		v, ok := col.value(item)
		key := any(NullValue)
		if ok && v != nil {
			key = filterKey(v)
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	return out
}

// passesFilters tests the conjunction of active column filters, with
// one column optionally skipped (the cascading-candidates pass).
// Absent values fail no filter.
func (p *Pipeline) passesFilters(item any, f *FilterState, skip string) bool {
	if f == nil {
		return true
	}
	for _, col := range p.columns {
		if col.ID == skip || !f.ActiveFor(col.ID) {
			continue
		}
		v, ok := col.value(item)
		if !ok {
			continue
		}
		if pred, has := f.predicates[col.ID]; has {
			if !pred(v) {
				return false
			}
			continue
		}
		if _, accepted := f.accepted[col.ID][filterKey(v)]; !accepted {
			return false
		}
	}
	return true
}

// sortItems stably sorts in place. Null and absent values sort last in
// either direction.
func (p *Pipeline) sortItems(items []any, st SortState) {
	if st.Direction == SortNone || st.ColumnID == "" {
		return
	}
	col := p.byID[st.ColumnID]
	if col == nil || !col.Sortable {
		return
	}
	sort.SliceStable(items, func(i, j int) bool {
		av, aok := col.value(items[i])
		bv, bok := col.value(items[j])
		if !aok {
			av = nil
		}
		if !bok {
			bv = nil
		}
		if av == nil || bv == nil {
			// Nulls last regardless of direction.
			return av != nil && bv == nil
		}
		c := col.compare(av, bv)
		if st.Direction == SortDescending {
			return c > 0
		}
		return c < 0
	})
}
