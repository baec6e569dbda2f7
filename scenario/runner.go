package scenario

import (
	"fmt"
	"strings"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/rotation"
	"github.com/sarchlab/carousel/timing"
	"github.com/sarchlab/carousel/viewport"
)

// A Frame is what the carousel looked like right after one of its hooks fired.
type Frame struct {
	Time       timing.VTimeInMs     `json:"time"`
	Event      string               `json:"event"`
	Status     rotation.Status      `json:"status"`
	Visible    []string             `json:"visible"`
	Transition *rotation.Transition `json:"transition,omitempty"`
	Rejection  *rotation.Rejection  `json:"rejection,omitempty"`
}

func (f Frame) String() string {
	var b strings.Builder

	page := "-"
	if f.Status.HasPage {
		page = fmt.Sprintf("%d/%d", f.Status.CurrentPage+1, f.Status.PageCount)
	}

	fmt.Fprintf(&b, "%8dms %-18s %-13s page %-5s [%s]",
		f.Time, f.Event, f.Status.State, page, strings.Join(f.Visible, " "))

	if f.Transition != nil {
		fmt.Fprintf(&b, " %s %d->%d", f.Transition.Action,
			f.Transition.From+1, f.Transition.To+1)
	}

	if f.Rejection != nil {
		fmt.Fprintf(&b, " %s rejected: %s", f.Rejection.Action,
			f.Rejection.Reason)
	}

	return b.String()
}

type stepEvent struct {
	*timing.EventBase
	step Step
}

// A Runner replays one scenario on a SerialEngine.
type Runner struct {
	scenario   *Scenario
	engine     *timing.SerialEngine
	viewport   *viewport.Broadcaster
	controller *rotation.Controller[string]
	frames     []Frame
}

// NewRunner builds the carousel of the scenario and schedules its steps.
// Extra hooks are attached to the controller before it arms its first timer.
func NewRunner(s *Scenario, hooks ...hooking.Hook) *Runner {
	r := &Runner{
		scenario: s,
		engine:   timing.NewSerialEngine(),
		viewport: viewport.NewBroadcaster(s.Width),
	}

	name := s.Name
	if name == "" {
		name = "Carousel"
	}

	r.controller = rotation.MakeBuilder[string]().
		WithEngine(r.engine).
		WithConfig(s.RotationConfig()).
		WithViewport(r.viewport).
		WithItems(s.Items).
		WithHooks(append([]hooking.Hook{hooking.HookFunc(r.record)}, hooks...)...).
		Build(name)

	for _, step := range s.Steps {
		r.engine.Schedule(&stepEvent{
			EventBase: timing.NewEventBase(timing.Ms(step.Time()), r),
			step:      step,
		})
	}

	return r
}

// Controller returns the carousel being driven.
func (r *Runner) Controller() *rotation.Controller[string] {
	return r.controller
}

// Engine returns the engine the scenario runs on.
func (r *Runner) Engine() *timing.SerialEngine {
	return r.engine
}

// Run replays the scenario until its end time and returns the recorded
// frames. Without an end time, it runs until no event is left.
func (r *Runner) Run() ([]Frame, error) {
	var err error
	if r.scenario.until > 0 {
		err = r.engine.RunUntil(timing.Ms(r.scenario.until))
	} else {
		err = r.engine.Run()
	}

	if err != nil {
		return r.frames, fmt.Errorf("scenario %s: %w", r.controller.Name(), err)
	}

	return r.frames, nil
}

// Frames returns the frames recorded so far.
func (r *Runner) Frames() []Frame {
	return r.frames
}

// Handle applies a scripted step.
func (r *Runner) Handle(e timing.Event) error {
	evt, ok := e.(*stepEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T", e)
	}

	step := evt.step
	c := r.controller

	switch step.Action {
	case ActionNext:
		c.Next()
	case ActionPrev:
		c.Prev()
	case ActionGoTo:
		c.GoTo(step.Arg)
	case ActionResize:
		r.viewport.Resize(step.Arg)
	case ActionItems:
		c.SetItems(step.Items)
	case ActionClose:
		c.Close()
	default:
		return fmt.Errorf("%w %q", ErrUnknownAction, step.Action)
	}

	return nil
}

func (r *Runner) record(ctx hooking.HookCtx) {
	c, ok := ctx.Domain.(*rotation.Controller[string])
	if !ok {
		return
	}

	snapshot := c.Snapshot()
	f := Frame{
		Time:    snapshot.Time,
		Event:   ctx.Pos.Name,
		Status:  snapshot.Status,
		Visible: snapshot.VisibleItems,
	}

	switch item := ctx.Item.(type) {
	case rotation.Transition:
		f.Transition = &item
	case rotation.Rejection:
		f.Rejection = &item
	}

	r.frames = append(r.frames, f)
}
