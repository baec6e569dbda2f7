package rotation

import (
	"time"

	"github.com/sarchlab/carousel/layout"
	"github.com/sarchlab/carousel/timing"
)

// Config parameterizes a Controller.
type Config struct {
	// Breakpoints maps viewport width to items per page.
	Breakpoints layout.Table

	// AutoAdvance is the auto-advance interval. Zero or negative disables
	// auto-advance.
	AutoAdvance time.Duration

	// SettleDelay is how long a transition takes to settle. Zero or negative
	// settles transitions immediately.
	SettleDelay time.Duration

	// Wrap lets Next on the last page go to the first and Prev on the first
	// page go to the last. Auto-advance always wraps.
	Wrap bool

	// Cadence selects what the auto-advance interval is measured from.
	Cadence Cadence
}

// DefaultConfig returns one item per page, no auto-advance, a 300ms settle
// delay and wrapping navigation.
func DefaultConfig() Config {
	return Config{
		Breakpoints: layout.SingleItem,
		SettleDelay: 300 * time.Millisecond,
		Wrap:        true,
		Cadence:     CadenceSettleToSettle,
	}
}

// AutoAdvanceEnabled returns true if the interval is at least a millisecond.
func (c Config) AutoAdvanceEnabled() bool {
	return timing.Ms(c.AutoAdvance) > 0
}

func (c Config) interval() timing.VTimeInMs {
	return timing.Ms(c.AutoAdvance)
}

func (c Config) settle() timing.VTimeInMs {
	return timing.Ms(c.SettleDelay)
}
