package tracing

import (
	"fmt"
	"reflect"

	"github.com/sarchlab/carousel/hooking"
	"github.com/sarchlab/carousel/rotation"
	"github.com/sarchlab/carousel/timing"
)

// CollectTrace let the tracer to collect trace from a domain
func CollectTrace(domain hooking.NamedHookable, tracer Tracer) {
	hooks := domain.Hooks()
	for _, hook := range hooks {
		hook, ok := hook.(*traceHook)
		if ok && hook.t == tracer {
			panic(fmt.Sprintf(
				"domain %s already has tracer %s",
				domain.Name(), reflect.TypeOf(tracer)))
		}
	}

	h := traceHook{t: tracer}
	domain.AcceptHook(&h)
}

// A traceHook turns transitions into tasks.
type traceHook struct {
	t Tracer
}

// Func calls the tracer interfaces when the hook is triggered
func (h *traceHook) Func(ctx hooking.HookCtx) {
	tr, ok := ctx.Item.(rotation.Transition)
	if !ok {
		return
	}

	task := taskFromTransition(tr)

	switch ctx.Pos {
	case rotation.HookPosTransitionStart:
		h.t.StartTask(task)
		h.t.StepTask(withStep(task, tr.Start, StepAccepted))
	case rotation.HookPosSettle:
		h.t.StepTask(withStep(task, tr.End, StepSettled))
		h.t.EndTask(task)
	case rotation.HookPosTransitionAbort:
		h.t.StepTask(withStep(task, tr.End, StepAborted))
		h.t.EndTask(task)
	}
}

func taskFromTransition(tr rotation.Transition) Task {
	return Task{
		ID:        tr.ID,
		Kind:      KindTransition,
		What:      tr.Action.String(),
		Where:     tr.Where,
		StartTime: tr.Start,
		EndTime:   tr.End,
		Detail:    tr,
	}
}

// withStep returns a copy of task carrying only step, which is how tracers
// receive steps.
func withStep(task Task, t timing.VTimeInMs, what string) Task {
	task.Steps = []TaskStep{{Time: t, What: what}}
	return task
}
