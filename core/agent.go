package core

// Agent is the interface every agent implements, from single model-backed
// specialists up to composite orchestrators.
//
// Agents receive their inputs through a RunContext, process them
// asynchronously and emit events to communicate results and state changes
// back to the engine. Implementations must:
//   - Respect context cancellation for graceful shutdown
//   - Emit events through the provided RunContext
//   - Handle the resume handshake after emitting
//   - Manage their lifecycle through Start/Stop
type Agent interface {
	Name() string
	Description() string
	Start(runCtx *RunContext) error
	Stop(runCtx *RunContext) error
	Run(runCtx *RunContext) error
	SetSubAgents(children ...Agent) error
	SubAgents() []Agent
	Parent() Agent
	FindAgent(name string) Agent
}

// AgentInfo carries identifying details about an agent used in contexts and
// events. Name is the external identifier; Type categorizes the
// implementation (e.g. "concierge", "specialist").
type AgentInfo struct{ Name, Type string }
