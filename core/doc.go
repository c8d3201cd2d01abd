// Package core provides the foundational types and execution contexts shared
// by the rest of the module:
//
//   - Agents (units of autonomous / orchestrated work)
//   - Sessions (stateful conversational containers with event history)
//   - Events (immutable communication + orchestration records)
//   - RunContext / ToolContext (scoped execution and tool sandboxing)
//   - Pluggable stores for session state, artifacts and memory recall
//
// The package deliberately keeps implementation concerns (persistence, engine
// orchestration, concrete agents, travel domain logic) out of scope and
// exposes small interfaces so backends can be swapped.
package core
