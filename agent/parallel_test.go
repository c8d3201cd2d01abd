package agent

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smarttravel/smarttravel/core"
)

// testChildAgent is a lightweight concrete agent for composite agent tests.
// It captures the run context passed to Run and optionally returns an error.
type testChildAgent struct {
	BaseAgent
	runFn       func(*core.RunContext) error
	receivedCtx *core.RunContext
}

func newTestChildAgent(name string, runFn func(*core.RunContext) error) *testChildAgent {
	if runFn == nil {
		runFn = func(*core.RunContext) error { return nil }
	}

	return &testChildAgent{BaseAgent: NewBaseAgent(name), runFn: runFn}
}

func (t *testChildAgent) Run(runCtx *core.RunContext) error {
	t.receivedCtx = runCtx
	return t.runFn(runCtx)
}

func TestNewParallelAgent(t *testing.T) {
	c1 := newTestChildAgent("Child1", nil)
	c2 := newTestChildAgent("Child2", nil)

	p := NewParallelAgent("ParallelAgent", 0, c1, c2)
	assert.Equal(t, "ParallelAgent", p.Name())
	assert.Len(t, p.children, 2)
	assert.Same(t, c1, p.children[0])
	assert.Same(t, c2, p.children[1])
}

func TestParallelAgent_Run_Success(t *testing.T) {
	var mu sync.Mutex

	branches := map[string]string{}

	mkChild := func(name string) *testChildAgent {
		return newTestChildAgent(name, func(rc *core.RunContext) error {
			mu.Lock()
			branches[name] = rc.Branch
			mu.Unlock()

			return nil
		})
	}

	c1 := mkChild("FlightAgent")
	c2 := mkChild("HotelAgent")
	c3 := mkChild("WeatherAgent")

	p := NewParallelAgent("SearchStage", 0, c1, c2, c3)
	rc := newTestRunContext()

	assert.NoError(t, p.Run(rc))
	assert.Len(t, branches, 3)

	// Each child receives an isolated clone with branch "Parent.Child".
	for _, child := range []*testChildAgent{c1, c2, c3} {
		assert.NotNil(t, child.receivedCtx)
		assert.Truef(t,
			strings.HasSuffix(child.receivedCtx.Branch, "SearchStage."+child.Name()),
			"branch %s has correct suffix", child.receivedCtx.Branch)
	}

	// Original run context branch remains unchanged.
	assert.Equal(t, "", rc.Branch)
}

func TestParallelAgent_Run_ErrorAggregation(t *testing.T) {
	sentinel := errors.New("boom")

	c1 := newTestChildAgent("Child1", func(_ *core.RunContext) error { return nil })
	c2 := newTestChildAgent("Child2", func(_ *core.RunContext) error { return sentinel })
	c3 := newTestChildAgent("Child3", func(_ *core.RunContext) error { return nil })

	p := NewParallelAgent("ParallelAgent", 0, c1, c2, c3)

	err := p.Run(newTestRunContext())
	assert.Error(t, err)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "agent Child2")

	// All children execute despite an error; it is returned after the wait.
	assert.NotNil(t, c1.receivedCtx)
	assert.NotNil(t, c2.receivedCtx)
	assert.NotNil(t, c3.receivedCtx)
}

func TestParallelAgent_Run_NoChildren(t *testing.T) {
	p := NewParallelAgent("ParallelAgent", 0)
	assert.NoError(t, p.Run(newTestRunContext()))
}

func TestBaseAgent_SetSubAgentsAndFind(t *testing.T) {
	root := newTestChildAgent("Root", nil)
	c1 := newTestChildAgent("Child1", nil)
	c2 := newTestChildAgent("Child2", nil)

	assert.NoError(t, root.SetSubAgents(c1, c2))
	assert.Len(t, root.SubAgents(), 2)

	assert.NotNil(t, c1.Parent())
	assert.Equal(t, root.Name(), c1.Parent().Name())
	assert.NotNil(t, c2.Parent())

	foundChild := root.FindAgent("Child1")
	assert.NotNil(t, foundChild)
	assert.Equal(t, c1.Name(), foundChild.Name())

	foundRoot := root.FindAgent("Root")
	assert.NotNil(t, foundRoot)
	assert.Equal(t, root.Name(), foundRoot.Name())
}

func TestBaseAgent_SetSubAgents_ReassignClearsOldParents(t *testing.T) {
	root := newTestChildAgent("Root", nil)
	c1 := newTestChildAgent("Child1", nil)
	c2 := newTestChildAgent("Child2", nil)
	c3 := newTestChildAgent("Child3", nil)

	assert.NoError(t, root.SetSubAgents(c1, c2))
	assert.NoError(t, root.SetSubAgents(c3))

	assert.Nil(t, c1.Parent())
	assert.Nil(t, c2.Parent())
	assert.Equal(t, root.Name(), c3.Parent().Name())

	assert.Nil(t, root.FindAgent("Child1"))
	assert.NotNil(t, root.FindAgent("Child3"))
}
