package rotation

import (
	"github.com/sarchlab/carousel/timing"
)

// Status is the item-independent part of a controller's observable state.
type Status struct {
	Name               string           `json:"name"`
	State              State            `json:"state"`
	CurrentPage        int              `json:"current_page"`
	HasPage            bool             `json:"has_page"`
	PageCount          int              `json:"page_count"`
	ItemsPerPage       int              `json:"items_per_page"`
	NumItems           int              `json:"num_items"`
	FirstItem          int              `json:"first_item"`
	Direction          Direction        `json:"direction"`
	Width              int              `json:"width"`
	Time               timing.VTimeInMs `json:"time"`
	AutoAdvancePending bool             `json:"auto_advance_pending"`
	NextAdvance        timing.VTimeInMs `json:"next_advance,omitempty"`
}

// Snapshot is everything a view needs to render a controller.
type Snapshot[T any] struct {
	Status

	// VisibleItems are the items on the current page. The slice is a copy.
	VisibleItems []T `json:"visible_items"`
}

// Transition describes one accepted navigation.
type Transition struct {
	ID        string           `json:"id"`
	Where     string           `json:"where"`
	Action    Action           `json:"action"`
	From      int              `json:"from"`
	To        int              `json:"to"`
	Direction Direction        `json:"direction"`
	Start     timing.VTimeInMs `json:"start"`
	End       timing.VTimeInMs `json:"end"`
}

// ResizeDetail is attached to HookPosResize.
type ResizeDetail struct {
	Width           int  `json:"width"`
	OldItemsPerPage int  `json:"old_items_per_page"`
	ItemsPerPage    int  `json:"items_per_page"`
	OldPageCount    int  `json:"old_page_count"`
	PageCount       int  `json:"page_count"`
	Clamped         bool `json:"clamped"`
}

// Rejection is attached to HookPosNavigationRejected.
type Rejection struct {
	Action Action `json:"action"`
	Page   int    `json:"page"`
	Reason string `json:"reason"`
}
