package grid

// ThemeProvider is the narrow read-only capability the engine queries
// for presentation constants. Hosts pass their own implementation in;
// nothing in the engine reaches for ambient global state.
type ThemeProvider interface {
	// CellPadding is the number of blank cells on each side of a
	// column's content.
	CellPadding() int
	// MinColumnWidth is the floor applied when Fill columns are
	// squeezed below their own minimum.
	MinColumnWidth() int
}

// DefaultTheme is the built-in theme used when the host supplies none.
type DefaultTheme struct{}

func (DefaultTheme) CellPadding() int    { return 1 }
func (DefaultTheme) MinColumnWidth() int { return 3 }
