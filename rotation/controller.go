// Package rotation implements the state machine behind carousels, client
// sliders and testimonial sliders: which page is shown, when it changes, and
// in which direction the view should animate.
//
// A Controller reacts to four signals: viewport resizes, auto-advance timer
// expiry, settle timer expiry, and manual navigation. Each reaction runs to
// completion under the controller's lock. Timers are events on an injected
// timing.EventScheduler, so a timing.SerialEngine gives fully deterministic
// behaviour in tests.
package rotation

import (
	"sync"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/idgen"
	"github.com/sarchlab/carousel/paging"
	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/viewport"
)

// A Controller pages through a collection of T.
type Controller[T any] struct {
	*hooking.HookableBase

	name   string
	engine timing.EventScheduler
	cfg    Config

	lock       sync.Mutex
	items      []T
	width      int
	pages      paging.State
	state      State
	direction  Direction
	transition *Transition
	closed     bool

	rotationTimer *timing.Timer
	settleTimer   *timing.Timer

	sub viewport.Subscription

	pendingHooks []hooking.HookCtx
}

// Name returns the name of the controller.
func (c *Controller[T]) Name() string {
	return c.name
}

// Config returns the configuration the controller was built with.
func (c *Controller[T]) Config() Config {
	return c.cfg
}

// Handle processes the controller's timer events. Events that were canceled
// after they had already been dispatched are ignored.
func (c *Controller[T]) Handle(e timing.Event) error {
	c.react(func() {
		if c.closed {
			return
		}

		switch {
		case c.rotationTimer.Claim(e):
			c.autoAdvance()
		case c.settleTimer.Claim(e):
			c.settle()
		}
	})

	return nil
}

// Next moves one page forward. It returns false if the request was ignored.
func (c *Controller[T]) Next() bool {
	return c.navigate(ActionNext, 0)
}

// Prev moves one page backward. It returns false if the request was ignored.
func (c *Controller[T]) Prev() bool {
	return c.navigate(ActionPrev, 0)
}

// GoTo jumps to page, clamped into range. Going to the current page is a
// no-op. It returns false if no transition started.
func (c *Controller[T]) GoTo(page int) bool {
	return c.navigate(ActionGoTo, page)
}

// NotifyResize implements viewport.Listener.
func (c *Controller[T]) NotifyResize(width int) {
	c.Resize(width)
}

// Resize applies a new viewport width. Page size and page count update at
// once; an in-flight transition still finishes on its own schedule.
func (c *Controller[T]) Resize(width int) {
	c.react(func() {
		if c.closed {
			return
		}

		c.width = width
		c.applyLayout()
	})
}

// SetItems replaces the collection and starts a new session on page 0. Any
// in-flight transition is dropped and the timer restarts.
func (c *Controller[T]) SetItems(items []T) {
	c.react(func() {
		if c.closed {
			return
		}

		c.abortTransition()
		c.rotationTimer.Cancel()

		c.items = append([]T(nil), items...)
		c.pages.Update(len(c.items), c.cfg.Breakpoints.Resolve(c.width))
		c.pages.Reset()

		c.emit(HookPosItemsChange, c.statusLocked(), nil)
		c.reconcile(true)
	})
}

// Close cancels every outstanding timer and releases the viewport
// subscription. Later calls on the controller are no-ops. Close is
// idempotent.
func (c *Controller[T]) Close() {
	c.react(func() {
		if c.closed {
			return
		}

		c.abortTransition()
		c.rotationTimer.Cancel()

		if c.sub != nil {
			c.sub.Unsubscribe()
			c.sub = nil
		}

		c.setState(StateIdle)
		c.closed = true
		c.emit(HookPosClose, c.statusLocked(), nil)
	})
}

// Closed returns true once Close has been called.
func (c *Controller[T]) Closed() bool {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.closed
}

// Snapshot returns a consistent copy of the controller's observable state.
func (c *Controller[T]) Snapshot() Snapshot[T] {
	c.lock.Lock()
	defer c.lock.Unlock()

	return Snapshot[T]{
		Status:       c.statusLocked(),
		VisibleItems: c.visibleLocked(),
	}
}

// Status returns the item-independent part of Snapshot.
func (c *Controller[T]) Status() Status {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.statusLocked()
}

// Items returns a copy of the collection.
func (c *Controller[T]) Items() []T {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]T(nil), c.items...)
}

// react runs f under the lock and fires the hooks f queued once the lock is
// released.
func (c *Controller[T]) react(f func()) {
	c.lock.Lock()
	f()
	hooks := c.pendingHooks
	c.pendingHooks = nil
	c.lock.Unlock()

	for _, ctx := range hooks {
		c.InvokeHook(ctx)
	}
}

func (c *Controller[T]) emit(pos *hooking.HookPos, item, detail any) {
	if c.NumHooks() == 0 {
		return
	}

	c.pendingHooks = append(c.pendingHooks, hooking.HookCtx{
		Domain: c,
		Pos:    pos,
		Item:   item,
		Detail: detail,
	})
}

func (c *Controller[T]) setState(s State) {
	if s == c.state {
		return
	}

	prev := c.state
	c.state = s
	c.emit(HookPosStateChange, c.statusLocked(), prev)
}

func (c *Controller[T]) navigate(action Action, page int) bool {
	accepted := false

	c.react(func() {
		if c.closed {
			return
		}

		to, dir, reason := c.target(action, page)
		if reason != "" {
			c.emit(HookPosNavigationRejected,
				Rejection{Action: action, Page: page, Reason: reason}, nil)
			return
		}

		c.begin(action, to, dir)
		accepted = true
	})

	return accepted
}

func (c *Controller[T]) target(
	action Action,
	page int,
) (to int, dir Direction, reason string) {
	if c.state == StateTransitioning {
		return 0, DirectionNone, "transitioning"
	}

	if c.pages.PageCount() <= 1 {
		return 0, DirectionNone, "single page"
	}

	cur := c.pages.Current()

	switch action {
	case ActionNext:
		if !c.cfg.Wrap && c.pages.IsLast() {
			return 0, DirectionNone, "last page"
		}
		return c.pages.Wrap(cur + 1), DirectionForward, ""
	case ActionPrev:
		if !c.cfg.Wrap && c.pages.IsFirst() {
			return 0, DirectionNone, "first page"
		}
		return c.pages.Wrap(cur - 1), DirectionBackward, ""
	default:
		to, _ = paging.Clamp(page, c.pages.PageCount())
		switch {
		case to > cur:
			return to, DirectionForward, ""
		case to < cur:
			return to, DirectionBackward, ""
		default:
			return cur, DirectionNone, "current page"
		}
	}
}

func (c *Controller[T]) autoAdvance() {
	if c.state == StateTransitioning {
		// Only reachable with the expiry cadence. A settle due now finishes
		// first so that an interval equal to the settle delay keeps its beat.
		due, ok := c.settleTimer.Due()
		if !ok || due > c.engine.CurrentTime() {
			c.armRotation()
			return
		}

		c.settleTimer.Cancel()
		c.settle()
	}

	if c.state != StateArmed || c.pages.PageCount() <= 1 {
		return
	}

	c.begin(ActionAuto, c.pages.Wrap(c.pages.Current()+1), DirectionForward)
}

func (c *Controller[T]) begin(action Action, to int, dir Direction) {
	if action != ActionAuto || c.cfg.Cadence == CadenceSettleToSettle {
		c.rotationTimer.Cancel()
	}

	from := c.pages.Current()
	c.pages.SetCurrent(to)
	c.direction = dir

	tr := &Transition{
		ID:        idgen.Generate(),
		Where:     c.name,
		Action:    action,
		From:      from,
		To:        c.pages.Current(),
		Direction: dir,
		Start:     c.engine.CurrentTime(),
	}
	c.transition = tr

	if action == ActionAuto && c.cfg.Cadence == CadenceExpiryToExpiry {
		c.armRotation()
	}

	c.setState(StateTransitioning)
	c.emit(HookPosTransitionStart, *tr, nil)

	if c.cfg.settle() == 0 {
		c.settle()
		return
	}

	c.settleTimer.Arm(c.cfg.settle())
}

func (c *Controller[T]) settle() {
	if c.state != StateTransitioning {
		return
	}

	tr := c.transition
	c.transition = nil
	c.direction = DirectionNone

	if tr != nil {
		tr.End = c.engine.CurrentTime()
		c.emit(HookPosSettle, *tr, nil)
	}

	c.setState(StateSettled)
	c.reconcile(false)
}

func (c *Controller[T]) abortTransition() {
	c.settleTimer.Cancel()
	c.direction = DirectionNone

	if c.transition == nil {
		return
	}

	tr := c.transition
	c.transition = nil
	tr.End = c.engine.CurrentTime()
	c.emit(HookPosTransitionAbort, *tr, nil)
}

func (c *Controller[T]) applyLayout() {
	oldPerPage := c.pages.PerPage()
	oldPageCount := c.pages.PageCount()

	perPage := c.cfg.Breakpoints.Resolve(c.width)
	clamped := c.pages.Update(len(c.items), perPage)

	c.emit(HookPosResize, c.statusLocked(), ResizeDetail{
		Width:           c.width,
		OldItemsPerPage: oldPerPage,
		ItemsPerPage:    perPage,
		OldPageCount:    oldPageCount,
		PageCount:       c.pages.PageCount(),
		Clamped:         clamped,
	})

	c.reconcile(false)
}

// reconcile derives the state that fits the current page count. A restart
// re-arms the auto-advance timer even if the controller was already Armed.
func (c *Controller[T]) reconcile(restart bool) {
	if c.pages.PageCount() <= 1 {
		c.abortTransition()
		c.rotationTimer.Cancel()
		c.setState(StateIdle)

		return
	}

	switch {
	case c.state == StateTransitioning && c.transition != nil:
		return
	case c.state == StateArmed:
		if restart || !c.rotationTimer.Pending() {
			c.armRotation()
		}
	default:
		c.setState(StateArmed)

		if c.cfg.Cadence == CadenceSettleToSettle || !c.rotationTimer.Pending() {
			c.armRotation()
		}
	}
}

func (c *Controller[T]) armRotation() {
	if !c.cfg.AutoAdvanceEnabled() {
		return
	}

	c.rotationTimer.Arm(c.cfg.interval())
}

func (c *Controller[T]) statusLocked() Status {
	s := Status{
		Name:         c.name,
		State:        c.state,
		CurrentPage:  c.pages.Current(),
		HasPage:      c.pages.HasPage(),
		PageCount:    c.pages.PageCount(),
		ItemsPerPage: c.pages.PerPage(),
		NumItems:     c.pages.Len(),
		FirstItem:    c.pages.Offset(c.pages.Current()),
		Direction:    c.direction,
		Width:        c.width,
		Time:         c.engine.CurrentTime(),
	}

	if due, ok := c.rotationTimer.Due(); ok {
		s.AutoAdvancePending = true
		s.NextAdvance = due
	}

	return s
}

func (c *Controller[T]) visibleLocked() []T {
	if !c.pages.HasPage() {
		return []T{}
	}

	page := paging.PageItems(c.items, c.pages.Current(), c.pages.PerPage())

	return append([]T(nil), page...)
}
