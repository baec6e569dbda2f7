// Package hooking lets observers attach to controllers and engines without
// the observed code knowing who is listening.
package hooking

import "sync"

// A HookPos names a place where hooks fire. Positions are compared by
// pointer, so each one is declared once as a package variable.
type HookPos struct {
	Name string
}

// HookCtx describes one firing of a hook.
type HookCtx struct {
	// Domain is the hookable object that is raising this hook.
	Domain Hookable

	// Pos identifies the location the hook is firing from.
	Pos *HookPos

	// Item is the subject of the hook, such as an event or a transition.
	Item any

	// Detail is optional extra data and may be nil.
	Detail any
}

// Hookable is implemented by everything that raises hooks.
type Hookable interface {
	// AcceptHook registers a hook.
	//
	// Hooks are registered during configuration, before the domain starts
	// reacting to events. Removal is not supported.
	AcceptHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// NamedHookable is a Hookable that has a name.
type NamedHookable interface {
	Hookable
	Name() string
}

// A Hook observes a Hookable.
type Hook interface {
	// Func determines what to do if hook is invoked.
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function into a Hook.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// A HookableBase keeps the hook list of a Hookable. It is safe to register
// hooks while other goroutines invoke them.
type HookableBase struct {
	lock     sync.RWMutex
	hookList []Hook
}

// NewHookableBase creates a HookableBase object.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return len(h.hookList)
}

// Hooks returns a copy of the registered hooks, in registration order.
func (h *HookableBase) Hooks() []Hook {
	h.lock.RLock()
	defer h.lock.RUnlock()

	return append([]Hook(nil), h.hookList...)
}

// AcceptHook registers a hook. Registering the same hook value twice panics;
// HookFuncs are not comparable and are never treated as duplicates.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.lock.Lock()
	defer h.lock.Unlock()

	if _, isFunc := hook.(HookFunc); !isFunc {
		for _, registered := range h.hookList {
			if registered == hook {
				panic("duplicated hook")
			}
		}
	}

	h.hookList = append(h.hookList, hook)
}

// InvokeHook calls every hook with ctx. Hooks registered while InvokeHook
// runs are only called from the next invocation on.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks() {
		hook.Func(ctx)
	}
}
