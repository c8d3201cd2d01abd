package agent

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/smarttravel/smarttravel/core"
)

// ParallelAgent executes its children concurrently, each in an isolated
// branch of the run context so pending state deltas do not collide. The trip
// planner runs the flight, hotel, attraction, restaurant and weather
// specialists this way because their searches are independent.
type ParallelAgent struct {
	BaseAgent
	children []core.Agent
	timeout  time.Duration
}

// NewParallelAgent creates a parallel execution coordinator. A timeout of 0
// disables the deadline and children run until the parent context ends.
func NewParallelAgent(name string, timeout time.Duration, children ...core.Agent) *ParallelAgent {
	p := &ParallelAgent{
		BaseAgent: NewBaseAgent(name),
		children:  children,
		timeout:   timeout,
	}
	_ = p.SetSubAgents(children...)

	return p
}

// createBranchCtxForSubAgent clones the parent context and assigns a branch
// path "Parent.Child" for the child agent, isolating pending deltas and
// artifacts while keeping access to the shared session.
func (p *ParallelAgent) createBranchCtxForSubAgent(runCtx *core.RunContext, subAgent core.Agent) *core.RunContext {
	clonedCtx := runCtx.Clone()
	branchSuffix := fmt.Sprintf("%s.%s", p.Name(), subAgent.Name())
	clonedCtx.Branch = buildBranchPath(runCtx.Branch, branchSuffix)

	return clonedCtx
}

// Run implements core.Agent, launching all children concurrently. The first
// error encountered (after all complete) is returned; successful children
// continue even if siblings fail.
func (p *ParallelAgent) Run(runCtx *core.RunContext) error {
	ctx := runCtx.Context

	var cancel context.CancelFunc
	if p.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	var wg sync.WaitGroup

	errCh := make(chan error, len(p.children))

	for _, child := range p.children {
		wg.Add(1)

		go func(c core.Agent) {
			defer wg.Done()

			branchCtx := p.createBranchCtxForSubAgent(runCtx, c)
			branchCtx.Context = ctx

			if err := c.Run(branchCtx); err != nil {
				errCh <- fmt.Errorf("parallel execution failed for agent %s: %w", c.Name(), err)
			}
		}(child)
	}

	wg.Wait()
	close(errCh)

	if len(errCh) > 0 {
		return <-errCh
	}

	return nil
}
