package rotation

import "github.com/sarchlab/carousel/hooking"

// Hook positions raised by a Controller. Hooks run after the controller has
// released its lock, so they may read Snapshot.
var (
	// HookPosTransitionStart fires when a navigation is accepted. Item is a
	// Transition.
	HookPosTransitionStart = &hooking.HookPos{Name: "TransitionStart"}

	// HookPosSettle fires when a transition settles. Item is the Transition
	// with End set.
	HookPosSettle = &hooking.HookPos{Name: "Settle"}

	// HookPosTransitionAbort fires when an in-flight transition is dropped
	// because the collection changed, pages collapsed, or the controller
	// closed. Item is the Transition with End set.
	HookPosTransitionAbort = &hooking.HookPos{Name: "TransitionAbort"}

	// HookPosStateChange fires on every state change. Item is the Status
	// after the change, Detail the previous State.
	HookPosStateChange = &hooking.HookPos{Name: "StateChange"}

	// HookPosResize fires when the viewport width is applied. Item is the
	// Status, Detail a ResizeDetail.
	HookPosResize = &hooking.HookPos{Name: "Resize"}

	// HookPosItemsChange fires when the collection is replaced. Item is the
	// Status.
	HookPosItemsChange = &hooking.HookPos{Name: "ItemsChange"}

	// HookPosNavigationRejected fires when Next, Prev or GoTo is ignored.
	// Item is a Rejection.
	HookPosNavigationRejected = &hooking.HookPos{Name: "NavigationRejected"}

	// HookPosClose fires once when the controller closes. Item is the Status.
	HookPosClose = &hooking.HookPos{Name: "Close"}
)
