// internal/executor/page.go
package executor

import (
	"context"
	"time"
)

// Page is the minimal contract the executor needs to drive the live page.
// Refs are the unique XPaths generated during classification. The production
// implementation sits in internal/browser; tests substitute a mock, which is
// the cornerstone of this package's testability.
//
// Implementations must dispatch the framework-observable event sequence the
// host page expects: reactive UI libraries track their own value state and
// silently ignore bare property writes, so AppendValue has to emit
// keydown/input/keyup and SetSelectValue has to emit input/change.
type Page interface {
	// Sleep pauses execution, respecting context cancellation.
	Sleep(ctx context.Context, d time.Duration) error

	// ScrollIntoView brings the element into the viewport.
	ScrollIntoView(ctx context.Context, ref string) error
	// Focus and Blur move keyboard focus.
	Focus(ctx context.Context, ref string) error
	Blur(ctx context.Context, ref string) error

	// ClearValue empties a text-like input, notifying listeners.
	ClearValue(ctx context.Context, ref string) error
	// AppendValue appends a chunk to the element's value, dispatching
	// keydown, input and keyup for it.
	AppendValue(ctx context.Context, ref, chunk string) error
	// DispatchChange emits the final change event after typing completes.
	DispatchChange(ctx context.Context, ref string) error

	// Value reads the element's current value.
	Value(ctx context.Context, ref string) (string, error)
	// SetSelectValue assigns a select's value and dispatches input+change.
	SetSelectValue(ctx context.Context, ref, value string) error

	// Checked reads a checkbox's state; SetChecked toggles it with a
	// synthetic click so listeners fire.
	Checked(ctx context.Context, ref string) (bool, error)
	SetChecked(ctx context.Context, ref string, checked bool) error

	// SelectRadio activates the radio in the named group whose value
	// matches, which is generally not the element the descriptor points at.
	SelectRadio(ctx context.Context, ref, group, value string) error
}
