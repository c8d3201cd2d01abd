package flow

// MultiAgentFlow drives a coordinating agent that can hand the conversation
// to its sub-agents. It extends the single-agent pipeline with the transfer
// tool injector.
type MultiAgentFlow struct {
	*BaseFlow
}

// NewMultiAgentFlow creates a flow for an agent with transferable sub-agents.
func NewMultiAgentFlow(agent FlowAgent) *MultiAgentFlow {
	f := &MultiAgentFlow{BaseFlow: NewBaseFlow(agent)}

	f.AddRequestProcessor(NewInstructionsProcessor())
	f.AddRequestProcessor(NewContentsProcessor())
	f.AddRequestProcessor(NewTransferToolInjector())

	return f
}
