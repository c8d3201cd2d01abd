package engine

import (
	"context"

	"github.com/smarttravel/smarttravel/core"
)

// CallbackType identifies a lifecycle point where callbacks run.
type CallbackType string

const (
	// CallbackBeforeAgent runs before an agent begins execution.
	CallbackBeforeAgent CallbackType = "before_agent"

	// CallbackAfterAgent runs after an agent completes execution.
	CallbackAfterAgent CallbackType = "after_agent"

	// CallbackOnError runs when an invocation terminates with an error.
	CallbackOnError CallbackType = "on_error"

	// CallbackOnStateChange runs when an event carries a state delta, before
	// the delta is persisted. A returned error rejects the change.
	CallbackOnStateChange CallbackType = "on_state_change"
)

// CallbackContext carries the information available to a callback at its
// lifecycle point. Event is nil for agent-level callbacks.
type CallbackContext struct {
	RunContext   *core.RunContext
	Event        *core.Event
	AgentName    string
	CallbackType CallbackType
	Err          error
}

// Callback is a synchronous lifecycle hook. Returning an error terminates
// the associated operation.
type Callback interface {
	Type() CallbackType
	Execute(ctx context.Context, callbackCtx *CallbackContext) error
}

// FunctionCallback adapts a plain function to the Callback interface.
type FunctionCallback struct {
	callbackType CallbackType
	fn           func(ctx context.Context, callbackCtx *CallbackContext) error
}

// NewFunctionCallback wraps fn as a callback for the given lifecycle point.
func NewFunctionCallback(callbackType CallbackType, fn func(ctx context.Context, callbackCtx *CallbackContext) error) *FunctionCallback {
	return &FunctionCallback{callbackType: callbackType, fn: fn}
}

// Type implements Callback.
func (c *FunctionCallback) Type() CallbackType { return c.callbackType }

// Execute implements Callback.
func (c *FunctionCallback) Execute(ctx context.Context, callbackCtx *CallbackContext) error {
	return c.fn(ctx, callbackCtx)
}

// StateValidationCallback validates state deltas before they are persisted.
// Useful for enforcing trip invariants, e.g. rejecting a negative budget.
type StateValidationCallback struct {
	validator func(stateDelta map[string]any) error
}

// NewStateValidationCallback creates a state change validator.
func NewStateValidationCallback(validator func(stateDelta map[string]any) error) *StateValidationCallback {
	return &StateValidationCallback{validator: validator}
}

// Type implements Callback.
func (c *StateValidationCallback) Type() CallbackType { return CallbackOnStateChange }

// Execute implements Callback.
func (c *StateValidationCallback) Execute(_ context.Context, callbackCtx *CallbackContext) error {
	if c.validator == nil || callbackCtx.Event == nil || callbackCtx.Event.Actions.StateDelta == nil {
		return nil
	}

	return c.validator(callbackCtx.Event.Actions.StateDelta)
}

// CallbackManager routes callbacks to their registered lifecycle points.
// Registration is not safe for concurrent use; execution is.
type CallbackManager struct {
	callbacks map[CallbackType][]Callback
}

// NewCallbackManager creates an empty callback manager.
func NewCallbackManager() *CallbackManager {
	return &CallbackManager{callbacks: make(map[CallbackType][]Callback)}
}

// Register adds a callback for its declared type. Multiple callbacks per
// type run in registration order.
func (cm *CallbackManager) Register(callback Callback) {
	cm.callbacks[callback.Type()] = append(cm.callbacks[callback.Type()], callback)
}

// Execute runs all callbacks for the given type, stopping at the first error.
func (cm *CallbackManager) Execute(ctx context.Context, callbackType CallbackType, callbackCtx *CallbackContext) error {
	for _, callback := range cm.callbacks[callbackType] {
		if err := callback.Execute(ctx, callbackCtx); err != nil {
			return err
		}
	}

	return nil
}
