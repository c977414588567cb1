package grid

import (
	"errors"
	"fmt"
	"testing"
)

type person struct {
	Name   string
	Email  string
	Status string
	Age    any // nil means unknown
}

func personColumns() []*Column {
	return []*Column{
		{
			ID: "name", Title: "Name", Sortable: true, Filterable: true, Editable: true,
			Getter: func(item any) (any, error) { return item.(*person).Name, nil },
			Setter: func(item any, v any) error { item.(*person).Name = v.(string); return nil },
		},
		{
			ID: "email", Title: "Email", Sortable: true, Filterable: true, Editable: true,
			Getter: func(item any) (any, error) { return item.(*person).Email, nil },
			Setter: func(item any, v any) error { item.(*person).Email = v.(string); return nil },
		},
		{
			ID: "status", Title: "Status", Sortable: true, Filterable: true,
			Getter: func(item any) (any, error) { return item.(*person).Status, nil },
		},
		{
			ID: "age", Title: "Age", Sortable: true, Filterable: true,
			Getter: func(item any) (any, error) { return item.(*person).Age, nil },
		},
	}
}

func somePeople() []any {
	return []any{
		&person{Name: "dana", Email: "dana@x.io", Status: "Active", Age: 31},
		&person{Name: "bob", Email: "bob@x.io", Status: "Idle", Age: 44},
		&person{Name: "alice", Email: "alice@x.io", Status: "Active", Age: 27},
		&person{Name: "carol", Email: "carol@x.io", Status: "Active", Age: nil},
		&person{Name: "erin", Email: "erin@x.io", Status: "Idle", Age: 27},
	}
}

func names(entries []Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Kind == EntryGroupHeader {
			out = append(out, fmt.Sprintf("[%v]", e.GroupKey))
			continue
		}
		out = append(out, e.Item.(*person).Name)
	}
	return out
}

func equalStrings(a, b []string) bool {
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

func TestRebuildFilterSortGroup(t *testing.T) {
	cols := personColumns()
	p := NewPipeline(cols)
	items := somePeople()

	activeOnly := NewFilterState()
	activeOnly.Accept("status", "Active")

	tests := []struct {
		name   string
		sort   SortState
		filter *FilterState
		group  GroupState
		want   []string
	}{
		{
			name: "no state keeps source order",
			want: []string{"dana", "bob", "alice", "carol", "erin"},
		},
		{
			name: "sort name ascending",
			sort: SortState{ColumnID: "name", Direction: SortAscending},
			want: []string{"alice", "bob", "carol", "dana", "erin"},
		},
		{
			name: "sort name descending",
			sort: SortState{ColumnID: "name", Direction: SortDescending},
			want: []string{"erin", "dana", "carol", "bob", "alice"},
		},
		{
			name: "null age sorts last both directions",
			sort: SortState{ColumnID: "age", Direction: SortAscending},
			want: []string{"alice", "erin", "dana", "bob", "carol"},
		},
		{
			name: "null age sorts last descending too",
			sort: SortState{ColumnID: "age", Direction: SortDescending},
			want: []string{"bob", "dana", "alice", "erin", "carol"},
		},
		{
			name:   "filter status active",
			filter: activeOnly,
			want:   []string{"dana", "alice", "carol"},
		},
		{
			name:   "filter then sort",
			sort:   SortState{ColumnID: "name", Direction: SortAscending},
			filter: activeOnly,
			want:   []string{"alice", "carol", "dana"},
		},
		{
			name:  "group by status first-seen order with headers",
			group: GroupState{ColumnID: "status"},
			want:  []string{"[Active]", "dana", "alice", "carol", "[Idle]", "bob", "erin"},
		},
		{
			name:  "group then sort within groups",
			sort:  SortState{ColumnID: "name", Direction: SortAscending},
			group: GroupState{ColumnID: "status"},
			want:  []string{"[Active]", "alice", "carol", "dana", "[Idle]", "bob", "erin"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(p.Rebuild(items, tt.sort, tt.filter, tt.group))
			if !equalStrings(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRebuildNeverFabricatesItems(t *testing.T) {
	p := NewPipeline(personColumns())
	items := somePeople()
	inSource := make(map[any]bool, len(items))
	for _, it := range items {
		inSource[it] = true
	}

	f := NewFilterState()
	f.Accept("status", "Active")
	entries := p.Rebuild(items, SortState{ColumnID: "age", Direction: SortAscending}, f, GroupState{ColumnID: "status"})

	itemCount := 0
	seen := make(map[any]bool)
	for _, e := range entries {
		if e.Kind != EntryItem {
			continue
		}
		itemCount++
		if !inSource[e.Item] {
			t.Fatalf("entry references item not in source: %v", e.Item)
		}
		if seen[e.Item] {
			t.Fatalf("duplicate item in sequence: %v", e.Item)
		}
		seen[e.Item] = true
	}
	if itemCount > len(items) {
		t.Errorf("sequence has %d items, source only %d", itemCount, len(items))
	}
}

func TestStableSortKeepsRelativeOrderForEqualKeys(t *testing.T) {
	p := NewPipeline(personColumns())
	items := somePeople()

	// alice and erin share Age 27; alice precedes erin in the source.
	entries := p.Rebuild(items, SortState{ColumnID: "age", Direction: SortAscending}, nil, GroupState{})
	got := names(entries)
	iAlice, iErin := -1, -1
	for i, n := range got {
		switch n {
		case "alice":
			iAlice = i
		case "erin":
			iErin = i
		}
	}
	if iAlice < 0 || iErin < 0 || iAlice > iErin {
		t.Errorf("equal keys reordered: %v", got)
	}

	// Two rebuilds with identical inputs agree.
	again := names(p.Rebuild(items, SortState{ColumnID: "age", Direction: SortAscending}, nil, GroupState{}))
	if !equalStrings(got, again) {
		t.Errorf("rebuild not deterministic: %v vs %v", got, again)
	}
}

func TestCascadingCandidatesIgnoreOwnFilter(t *testing.T) {
	p := NewPipeline(personColumns())
	items := somePeople()

	f := NewFilterState()
	f.Accept("status", "Active")

	before := p.Candidates(items, f, "status")

	// Narrowing status further must not change status's own candidates.
	f.Accept("status", "Idle")
	after := p.Candidates(items, f, "status")

	if len(before) != len(after) {
		t.Fatalf("own-column candidates changed with own filter: %v vs %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("own-column candidates changed with own filter: %v vs %v", before, after)
		}
	}

	// But other columns' candidates do react to it.
	nameCands := p.Candidates(items, f, "name")
	if len(nameCands) != 2 { // bob, erin are Idle
		t.Errorf("expected 2 name candidates under Idle filter, got %v", nameCands)
	}
}

func TestCandidatesSurfaceNullAsSelectableValue(t *testing.T) {
	p := NewPipeline(personColumns())
	items := somePeople()

	cands := p.Candidates(items, NewFilterState(), "age")
	foundNull := false
	for _, c := range cands {
		if c == any(NullValue) {
			foundNull = true
		}
	}
	if !foundNull {
		t.Fatalf("null cell did not surface as NullValue candidate: %v", cands)
	}

	// Selecting the null candidate filters to exactly the null-aged rows.
	f := NewFilterState()
	f.Accept("age", NullValue)
	got := names(p.Rebuild(items, SortState{}, f, GroupState{}))
	if !equalStrings(got, []string{"carol"}) {
		t.Errorf("null filter selected %v, want [carol]", got)
	}
}

func TestGetterFaultReadsAsAbsent(t *testing.T) {
	boom := &Column{
		ID: "boom", Title: "Boom", Sortable: true, Filterable: true,
		Getter: func(item any) (any, error) {
			if item.(*person).Name == "bob" {
				return nil, errors.New("malformed")
			}
			if item.(*person).Name == "erin" {
				panic("really malformed")
			}
			return item.(*person).Name, nil
		},
	}
	cols := append(personColumns(), boom)
	p := NewPipeline(cols)
	items := somePeople()

	// Absent fails no filter: bob and erin pass a boom filter they
	// cannot be tested against.
	f := NewFilterState()
	f.Accept("boom", "alice")
	got := names(p.Rebuild(items, SortState{}, f, GroupState{}))
	if !equalStrings(got, []string{"bob", "alice", "erin"}) {
		t.Errorf("faulting getter changed filter semantics: %v", got)
	}

	// Absent sorts last.
	sorted := names(p.Rebuild(items, SortState{ColumnID: "boom", Direction: SortAscending}, nil, GroupState{}))
	if sorted[len(sorted)-2] != "bob" && sorted[len(sorted)-1] != "bob" {
		t.Errorf("faulting rows did not sort last: %v", sorted)
	}
}

func TestGroupHeaderCarriesCount(t *testing.T) {
	p := NewPipeline(personColumns())
	entries := p.Rebuild(somePeople(), SortState{}, nil, GroupState{ColumnID: "status"})

	for _, e := range entries {
		if e.Kind != EntryGroupHeader {
			continue
		}
		want := 0
		switch e.GroupKey {
		case "Active":
			want = 3
		case "Idle":
			want = 2
		}
		if e.Count != want {
			t.Errorf("group %v count = %d, want %d", e.GroupKey, e.Count, want)
		}
	}
}

func TestGroupingBucketsNullsUnderNullKey(t *testing.T) {
	p := NewPipeline(personColumns())
	got := names(p.Rebuild(somePeople(), SortState{}, nil, GroupState{ColumnID: "age"}))

	want := []string{"[31]", "dana", "[44]", "bob", "[27]", "alice", "erin", "[NULL]", "carol"}
	if !equalStrings(got, want) {
		t.Errorf("grouped by age: %v, want %v", got, want)
	}
}

func TestNullFilterDistinctFromLiteralText(t *testing.T) {
	p := NewPipeline(personColumns())
	items := append(somePeople(),
		&person{Name: "frank", Email: "frank@x.io", Status: "Idle", Age: "NULL"})

	f := NewFilterState()
	f.Accept("age", NullValue)
	got := names(p.Rebuild(items, SortState{}, f, GroupState{}))
	if !equalStrings(got, []string{"carol"}) {
		t.Errorf("null filter selected %v, want [carol]", got)
	}

	f = NewFilterState()
	f.Accept("age", "NULL")
	got = names(p.Rebuild(items, SortState{}, f, GroupState{}))
	if !equalStrings(got, []string{"frank"}) {
		t.Errorf("literal NULL text selected %v, want [frank]", got)
	}
}
