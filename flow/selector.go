package flow

// Selector picks the appropriate flow shape for an agent.
type Selector struct{}

// NewSelector creates a flow selector.
func NewSelector() *Selector { return &Selector{} }

// SelectFlow returns a MultiAgentFlow when the agent can transfer to
// sub-agents, and a SingleAgentFlow otherwise.
func (s *Selector) SelectFlow(agent FlowAgent) Flow {
	if agent.IsTransferEnabled() && len(agent.GetSubAgents()) > 0 {
		return NewMultiAgentFlow(agent)
	}

	return NewSingleAgentFlow(agent)
}
