package core

import "context"

// Engine coordinates agent execution and event emission.
//
// A concrete implementation is responsible for registering agents by name,
// spawning asynchronous invocations and draining them synchronously on
// request. Implementations should guarantee per-invocation event ordering,
// propagate context cancellation to agent Run calls, close returned channels
// when a run terminates and surface terminal errors via the error channel
// (async) or the direct return (sync).
type Engine interface {
	// Register makes an agent available for later invocation by name.
	Register(a Agent)

	// Invoke starts an asynchronous agent invocation returning streaming
	// event and terminal error channels. Channels are closed when execution
	// completes or the context is cancelled.
	//
	// Returns:
	//   - invocationID: unique identifier for cancellation / tracking
	//   - eventsCh: ordered stream of events
	//   - errorsCh: terminal error channel (buffered size 1)
	//   - err: immediate error starting the invocation
	Invoke(
		ctx context.Context,
		sessionID, agentName string,
		userContent Content,
	) (string, <-chan Event, <-chan error, error)

	// InvokeSync executes an agent to completion, collecting all emitted
	// events into a slice. Convenience wrapper that drains Invoke.
	InvokeSync(ctx context.Context, sessionID, agentName string, userContent Content) (string, []Event, error)

	// Cancel requests cooperative termination of an in-flight invocation.
	// Cancelling an unknown or already finished invocation returns an error
	// describing the condition.
	Cancel(invocationID string) error
}
