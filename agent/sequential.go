package agent

import (
	"errors"
	"fmt"

	"github.com/smarttravel/smarttravel/core"
)

// SequentialAgent executes its children one after another with shared session
// state, so each agent's output is available to the agents that follow. The
// trip planning pipeline uses it as the root coordinator: gather options,
// then build the itinerary, then review the budget.
type SequentialAgent struct {
	BaseAgent
	children []core.Agent
}

// NewSequentialAgent creates a sequential execution coordinator that runs the
// given children in order.
func NewSequentialAgent(name string, children ...core.Agent) *SequentialAgent {
	s := &SequentialAgent{
		BaseAgent: NewBaseAgent(name),
		children:  children,
	}
	_ = s.SetSubAgents(children...)

	return s
}

// Run implements core.Agent. It executes each child agent in order against
// the shared session; the first error stops further processing, and a child
// that raises the escalation flag ends the chain early without error.
func (s *SequentialAgent) Run(runCtx *core.RunContext) error {
	for _, child := range s.children {
		_, err := runChildWithEscalationMonitoring(runCtx, child)

		if errors.Is(err, ErrEscalated) {
			runCtx.LogInfo("sequential.escalated", "agent", s.Name(), "child", child.Name())
			return nil
		}

		if err != nil {
			return fmt.Errorf("sequential execution failed at agent %s: %w", child.Name(), err)
		}
	}

	return nil
}
