// Package paging partitions an ordered collection into fixed-size pages and
// keeps a current page index valid as the page size changes.
package paging

// PageCount returns ceil(n / perPage). An empty collection has no pages.
// perPage values below 1 are treated as 1.
func PageCount(n, perPage int) int {
	if n <= 0 {
		return 0
	}

	if perPage < 1 {
		perPage = 1
	}

	return (n + perPage - 1) / perPage
}

// Clamp fits page into [0, pageCount-1]. The boolean is false when there is no
// page at all.
func Clamp(page, pageCount int) (int, bool) {
	if pageCount <= 0 {
		return 0, false
	}

	if page >= pageCount {
		page = pageCount - 1
	}

	if page < 0 {
		page = 0
	}

	return page, true
}

// PageItems returns the items shown on page. The last page may be short. A
// page outside the collection yields an empty slice.
func PageItems[T any](items []T, page, perPage int) []T {
	if perPage < 1 {
		perPage = 1
	}

	start := page * perPage
	if page < 0 || start >= len(items) {
		return []T{}
	}

	end := start + perPage
	if end > len(items) {
		end = len(items)
	}

	return items[start:end:end]
}

// State tracks the page count and the current page of one collection.
type State struct {
	n         int
	perPage   int
	pageCount int
	current   int
}

// NewState creates a state for n items shown perPage at a time, on page 0.
func NewState(n, perPage int) State {
	s := State{}
	s.Update(n, perPage)

	return s
}

// Update recomputes the page count. The current page is kept when it is still
// valid and clamped to the last page otherwise. It returns true if the page
// had to be clamped.
func (s *State) Update(n, perPage int) bool {
	if perPage < 1 {
		perPage = 1
	}

	if n < 0 {
		n = 0
	}

	s.n = n
	s.perPage = perPage
	s.pageCount = PageCount(n, perPage)

	clamped, ok := Clamp(s.current, s.pageCount)
	changed := ok && clamped != s.current
	s.current = clamped

	return changed
}

// Reset moves back to page 0.
func (s *State) Reset() {
	s.current = 0
}

// SetCurrent moves to page, clamped into range, and returns the page that was
// actually selected.
func (s *State) SetCurrent(page int) int {
	s.current, _ = Clamp(page, s.pageCount)
	return s.current
}

// Current returns the current page. It is 0 when there are no pages.
func (s State) Current() int {
	return s.current
}

// HasPage returns true if the collection has at least one page.
func (s State) HasPage() bool {
	return s.pageCount > 0
}

// PageCount returns the number of pages.
func (s State) PageCount() int {
	return s.pageCount
}

// PerPage returns the page size.
func (s State) PerPage() int {
	return s.perPage
}

// Len returns the number of items.
func (s State) Len() int {
	return s.n
}

// IsFirst returns true on the first page.
func (s State) IsFirst() bool {
	return s.current == 0
}

// IsLast returns true on the last page, or when there are no pages.
func (s State) IsLast() bool {
	return s.pageCount == 0 || s.current == s.pageCount-1
}

// Offset returns the index of the first item on page p.
func (s State) Offset(p int) int {
	return p * s.perPage
}

// Wrap maps any page number onto [0, pageCount) modulo the page count. It is
// 0 when there are no pages.
func (s State) Wrap(page int) int {
	if s.pageCount == 0 {
		return 0
	}

	page %= s.pageCount
	if page < 0 {
		page += s.pageCount
	}

	return page
}
