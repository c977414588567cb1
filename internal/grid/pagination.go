package grid

// PageState slices the view sequence into fixed-size pages. A
// PageSize of 0 disables paging: the whole sequence is one page.
type PageState struct {
	PageSize int
	Page     int
}

// PageCount returns the number of pages for a sequence of the given
// length, never less than 1: an empty sequence still has one empty
// page.
func (st PageState) PageCount(total int) int {
	if st.PageSize <= 0 {
		return 1
	}
	n := (total + st.PageSize - 1) / st.PageSize
	if n < 1 {
		n = 1
	}
	return n
}

// Clamp pulls Page back into [0, PageCount-1], needed whenever the
// upstream sequence shrinks or the page size changes.
func (st *PageState) Clamp(total int) {
	last := st.PageCount(total) - 1
	if st.Page > last {
		st.Page = last
	}
	if st.Page < 0 {
		st.Page = 0
	}
}

// Slice returns the current page slice and the page count. The slice
// aliases seq; callers treat it as read-only.
func (st PageState) Slice(seq []Entry) ([]Entry, int) {
	count := st.PageCount(len(seq))
	if st.PageSize <= 0 {
		return seq, count
	}
	lo := st.Page * st.PageSize
	if lo > len(seq) {
		lo = len(seq)
	}
	hi := lo + st.PageSize
	if hi > len(seq) {
		hi = len(seq)
	}
	return seq[lo:hi], count
}
