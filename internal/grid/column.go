package grid

// Sizing selects how a column's effective width is resolved.
type Sizing int

const (
	// SizingAuto sizes by content: header width until a content
	// measurement pass has run, then the widest visible cell.
	SizingAuto Sizing = iota
	// SizingFixed uses the declared FixedWidth verbatim (clamped).
	SizingFixed
	// SizingFitHeader measures the header title before any row exists.
	SizingFitHeader
	// SizingFill shares the leftover viewport width by weight.
	SizingFill
)

// Column is the declarative description of one grid column: identity,
// sizing policy and constraints, capabilities, and the accessor pair
// used to read and write the backing item. Accessors are plain
// function values decided at declaration time; the grid never
// reflects over items.
//
// Width-affecting fields may be changed by the host at runtime; the
// rest is fixed after construction.
type Column struct {
	ID    string
	Title string

	Sizing     Sizing
	MinWidth   int // 0 means unconstrained
	MaxWidth   int // 0 means unconstrained
	FixedWidth int // used by SizingFixed
	Weight     int // SizingFill share, 0 counts as 1

	Sortable   bool
	Filterable bool
	Editable   bool

	// Getter reads the column value from an item. Required for any
	// column that is sortable, filterable or editable.
	Getter func(item any) (any, error)
	// Setter writes a committed edit back to the item. Required for
	// editable columns.
	Setter func(item any, value any) error
	// Validate vets a pending edit before the setter runs. Optional.
	Validate func(value any) error
	// Compare overrides the natural value ordering for sorting.
	// Optional.
	Compare func(a, b any) int
}

// value reads the column value from item. A getter fault (error or
// panic) reads as absent, so one malformed item can never abort a
// pipeline rebuild: absent sorts last and fails no filter.
func (c *Column) value(item any) (v any, ok bool) {
	if c.Getter == nil {
		return nil, false
	}
	defer func() {
		if r := recover(); r != nil {
			v, ok = nil, false
		}
	}()
	val, err := c.Getter(item)
	if err != nil {
		return nil, false
	}
	return val, true
}

// set writes a value through the setter, converting a panic into an
// error so a faulty setter aborts only the current commit.
func (c *Column) set(item any, value any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &SetterError{ColumnID: c.ID, Cause: r}
		}
	}()
	if c.Setter == nil {
		return &SetterError{ColumnID: c.ID, Cause: "no setter declared"}
	}
	return c.Setter(item, value)
}

// compare orders two cell values for this column.
func (c *Column) compare(a, b any) int {
	if c.Compare != nil {
		return c.Compare(a, b)
	}
	return compareValues(a, b)
}

// clampWidth applies the column's min/max constraints.
func (c *Column) clampWidth(w int) int {
	if c.MinWidth > 0 && w < c.MinWidth {
		w = c.MinWidth
	}
	if c.MaxWidth > 0 && w > c.MaxWidth {
		w = c.MaxWidth
	}
	if w < 1 {
		w = 1
	}
	return w
}

// weight returns the Fill share, defaulting to equal weight.
func (c *Column) weight() int {
	if c.Weight <= 0 {
		return 1
	}
	return c.Weight
}
