// Package layout maps a viewport width to the number of items shown per page.
package layout

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MobileBreakpoint is the width below which the widget catalog shows a single
// item per page.
const MobileBreakpoint = 768

// A Breakpoint says that viewports at least MinWidth wide show Count items per
// page.
type Breakpoint struct {
	MinWidth int `yaml:"min_width" json:"min_width"`
	Count    int `yaml:"count" json:"count"`
}

// A Table is an ordered list of breakpoints, sorted by MinWidth.
type Table []Breakpoint

// Presets used by the widget catalog.
var (
	SingleItem  = NewTable(Breakpoint{MinWidth: 0, Count: 1})
	Hero        = twoTier(3)
	ClientGrid  = twoTier(4)
	Testimonial = twoTier(3)
)

func twoTier(wide int) Table {
	return NewTable(
		Breakpoint{MinWidth: 0, Count: 1},
		Breakpoint{MinWidth: MobileBreakpoint, Count: wide},
	)
}

// NewTable builds a normalized table. Breakpoints are sorted by MinWidth, a
// repeated MinWidth keeps the last given count, and counts below 1 become 1.
func NewTable(bps ...Breakpoint) Table {
	byWidth := make(map[int]int, len(bps))
	for _, bp := range bps {
		count := bp.Count
		if count < 1 {
			count = 1
		}
		byWidth[bp.MinWidth] = count
	}

	t := make(Table, 0, len(byWidth))
	for width, count := range byWidth {
		t = append(t, Breakpoint{MinWidth: width, Count: count})
	}

	sort.Slice(t, func(i, j int) bool { return t[i].MinWidth < t[j].MinWidth })

	return t
}

// Resolve returns the count of the highest breakpoint whose MinWidth does not
// exceed width. Widths below every breakpoint get the smallest tier. An empty
// table resolves to 1. The table does not have to be sorted.
func (t Table) Resolve(width int) int {
	if len(t) == 0 {
		return 1
	}

	lowest, best := 0, -1
	for i, bp := range t {
		if bp.MinWidth < t[lowest].MinWidth {
			lowest = i
		}

		if bp.MinWidth <= width && (best < 0 || bp.MinWidth >= t[best].MinWidth) {
			best = i
		}
	}

	if best < 0 {
		best = lowest
	}

	return max(t[best].Count, 1)
}

// String formats the table as "minWidth:count" pairs, the format ParseTable
// reads.
func (t Table) String() string {
	parts := make([]string, 0, len(t))
	for _, bp := range t {
		parts = append(parts, fmt.Sprintf("%d:%d", bp.MinWidth, bp.Count))
	}

	return strings.Join(parts, ",")
}

// ParseTable parses a comma separated list of "minWidth:count" pairs, for
// example "0:1,768:3".
func ParseTable(s string) (Table, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("layout: empty breakpoint table")
	}

	bps := make([]Breakpoint, 0)
	for _, part := range strings.Split(s, ",") {
		bp, err := parseBreakpoint(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		bps = append(bps, bp)
	}

	return NewTable(bps...), nil
}

func parseBreakpoint(s string) (Breakpoint, error) {
	width, count, found := strings.Cut(s, ":")
	if !found {
		return Breakpoint{}, fmt.Errorf("layout: breakpoint %q is not minWidth:count", s)
	}

	minWidth, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return Breakpoint{}, fmt.Errorf("layout: breakpoint %q: %w", s, err)
	}

	n, err := strconv.Atoi(strings.TrimSpace(count))
	if err != nil {
		return Breakpoint{}, fmt.Errorf("layout: breakpoint %q: %w", s, err)
	}

	if minWidth < 0 || n < 1 {
		return Breakpoint{}, fmt.Errorf(
			"layout: breakpoint %q needs minWidth >= 0 and count >= 1", s)
	}

	return Breakpoint{MinWidth: minWidth, Count: n}, nil
}
