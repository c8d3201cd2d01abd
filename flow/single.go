package flow

// SingleAgentFlow drives a standalone agent with no transfer targets:
// instructions and conversation contents only.
type SingleAgentFlow struct {
	*BaseFlow
}

// NewSingleAgentFlow creates a flow for an agent without sub-agents.
func NewSingleAgentFlow(agent FlowAgent) *SingleAgentFlow {
	f := &SingleAgentFlow{BaseFlow: NewBaseFlow(agent)}

	f.AddRequestProcessor(NewInstructionsProcessor())
	f.AddRequestProcessor(NewContentsProcessor())

	return f
}
