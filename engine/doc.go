// Package engine implements the orchestration layer: a thread-safe agent
// registry, asynchronous and synchronous invocation, event persistence and
// the resume handshake that keeps agents and stores consistent.
//
// Basic usage:
//
//	eng := engine.New(
//	    engine.WithLogger(logger),
//	    engine.WithSessionStore(session.NewInMemoryStore()),
//	)
//	eng.Register(concierge)
//
//	invocationID, events, errs, err := eng.Invoke(ctx, "trip-1", "Concierge", userContent)
//
// Events stream in emission order. The engine persists each non-partial event
// to the session store and applies its actions (state deltas, artifact diffs)
// before signalling the agent to continue, so tools always observe the state
// their predecessors committed.
package engine
