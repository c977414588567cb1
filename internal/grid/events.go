package grid

// Events collects the outward notification hooks a host may register.
// They are observation points only, never control inputs: each fires
// after the corresponding state change has fully applied, carrying a
// snapshot of the new state. Any hook may be nil.
type Events struct {
	SortChanged    func(SortState)
	FilterChanged  func(columnID string)
	PageChanged    func(page, pageCount int)
	EditCommitted  func(CommitEvent)
	EditCancelled  func(columnID string, forced bool)
	LayoutOverflow func(overflow bool)
}
