package rotation

import (
	"time"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/layout"
	"github.com/sarchlab/carousel/paging"
	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/viewport"
)

// Builder can build Controllers.
type Builder[T any] struct {
	engine timing.EventScheduler
	cfg    Config
	source viewport.Source
	width  int
	items  []T
	hooks  []hooking.Hook
}

// MakeBuilder creates a builder with the default configuration.
func MakeBuilder[T any]() Builder[T] {
	return Builder[T]{
		cfg: DefaultConfig(),
	}
}

// WithEngine sets the scheduler the controller's timers run on.
func (b Builder[T]) WithEngine(engine timing.EventScheduler) Builder[T] {
	b.engine = engine
	return b
}

// WithConfig replaces the whole configuration.
func (b Builder[T]) WithConfig(cfg Config) Builder[T] {
	b.cfg = cfg
	return b
}

// WithBreakpoints sets the breakpoint table. The table is normalized at
// build time, so it may be given in any order.
func (b Builder[T]) WithBreakpoints(t layout.Table) Builder[T] {
	b.cfg.Breakpoints = t
	return b
}

// WithAutoAdvance sets the auto-advance interval.
func (b Builder[T]) WithAutoAdvance(d time.Duration) Builder[T] {
	b.cfg.AutoAdvance = d
	return b
}

// WithSettleDelay sets the settle delay.
func (b Builder[T]) WithSettleDelay(d time.Duration) Builder[T] {
	b.cfg.SettleDelay = d
	return b
}

// WithWrap sets whether manual navigation wraps around.
func (b Builder[T]) WithWrap(wrap bool) Builder[T] {
	b.cfg.Wrap = wrap
	return b
}

// WithCadence sets what the auto-advance interval is measured from.
func (b Builder[T]) WithCadence(cadence Cadence) Builder[T] {
	b.cfg.Cadence = cadence
	return b
}

// WithViewport subscribes the controller to a viewport source. The initial
// width is taken from the source.
func (b Builder[T]) WithViewport(src viewport.Source) Builder[T] {
	b.source = src
	return b
}

// WithWidth sets the initial width when no viewport source is given.
func (b Builder[T]) WithWidth(width int) Builder[T] {
	b.width = width
	return b
}

// WithItems sets the initial collection.
func (b Builder[T]) WithItems(items []T) Builder[T] {
	b.items = items
	return b
}

// WithHooks attaches hooks before the controller arms its first timer, so
// that they observe the initial state change.
func (b Builder[T]) WithHooks(hooks ...hooking.Hook) Builder[T] {
	b.hooks = append(append([]hooking.Hook(nil), b.hooks...), hooks...)
	return b
}

// Build creates a new Controller.
func (b Builder[T]) Build(name string) *Controller[T] {
	if b.engine == nil {
		panic("rotation: engine is not set")
	}

	c := &Controller[T]{
		HookableBase: hooking.NewHookableBase(),
		name:         name,
		engine:       b.engine,
		cfg:          b.cfg,
		items:        append([]T(nil), b.items...),
		width:        b.width,
	}

	c.cfg.Breakpoints = layout.NewTable(b.cfg.Breakpoints...)

	c.rotationTimer = timing.NewTimer(name+".AutoAdvance", c, b.engine)
	c.settleTimer = timing.NewSecondaryTimer(name+".Settle", c, b.engine)

	for _, h := range b.hooks {
		c.AcceptHook(h)
	}

	if b.source != nil {
		c.width = b.source.Width()
	}

	c.react(func() {
		c.pages = paging.NewState(len(c.items), c.cfg.Breakpoints.Resolve(c.width))
		c.reconcile(true)
	})

	if b.source != nil {
		sub := b.source.Subscribe(c)

		c.lock.Lock()
		c.sub = sub
		c.lock.Unlock()
	}

	return c
}
