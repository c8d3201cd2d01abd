package flow

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/model"
	"github.com/smarttravel/smarttravel/tool"
)

// execMockTool simulates tool behaviors: latency, errors, panics, state
// mutation and transfer requests.
type execMockTool struct {
	name       string
	delay      time.Duration
	err        error
	panicMsg   string
	stateKey   string
	stateVal   any
	transferTo string
}

func (t *execMockTool) Name() string        { return t.name }
func (t *execMockTool) Description() string { return "mock tool " + t.name }

func (t *execMockTool) Parameters() map[string]any {
	return map[string]any{"type": "object", "properties": map[string]any{}}
}

func (t *execMockTool) Call(tc *core.ToolContext, _ map[string]any) (any, error) {
	if t.delay > 0 {
		time.Sleep(t.delay)
	}

	if t.panicMsg != "" {
		panic(t.panicMsg)
	}

	if t.stateKey != "" {
		tc.SetState(t.stateKey, t.stateVal)
	}

	if t.transferTo != "" {
		tc.TransferToAgent(t.transferTo)
	}

	if t.err != nil {
		return nil, t.err
	}

	return map[string]any{"tool": t.name}, nil
}

func newExecutorAgent(tools ...tool.Tool) *flowTestAgent {
	a := newFlowTestAgent("ExecAgent", model.NewMockModel("mock-model", "test"))

	for _, t := range tools {
		a.tools[t.Name()] = t
	}

	return a
}

func runExecutor(t *testing.T, cfg FunctionExecutorConfig, agent *flowTestAgent, calls []core.FunctionCall) []core.Event {
	t.Helper()

	runCtx := newFlowRunContext(t, "run tools")
	executor := NewParallelFunctionExecutor(cfg)

	var events []core.Event

	executor.Execute(runCtx, agent, agent.GetTools(), calls, func(ev core.Event) error {
		events = append(events, ev)
		return nil
	})

	return events
}

func responseFor(t *testing.T, ev core.Event) core.FunctionResponse {
	t.Helper()

	responses := ev.GetFunctionResponses()
	require.Len(t, responses, 1)

	return responses[0]
}

func TestFunctionExecutor_Single(t *testing.T) {
	agent := newExecutorAgent(&execMockTool{name: "lookup_weather"})

	events := runExecutor(t, FunctionExecutorConfig{}, agent,
		[]core.FunctionCall{{ID: "call-1", Name: "lookup_weather", Arguments: "{}"}})

	require.Len(t, events, 1)

	fr := responseFor(t, events[0])
	assert.Equal(t, "call-1", fr.ID)
	assert.Equal(t, "lookup_weather", fr.Name)
	assert.Empty(t, fr.Error)
	assert.Equal(t, map[string]any{"tool": "lookup_weather"}, fr.Response)
}

func TestFunctionExecutor_ParallelUnordered(t *testing.T) {
	agent := newExecutorAgent(
		&execMockTool{name: "slow_tool", delay: 80 * time.Millisecond},
		&execMockTool{name: "fast_tool"},
	)

	start := time.Now()

	events := runExecutor(t, FunctionExecutorConfig{MaxParallel: 4}, agent,
		[]core.FunctionCall{
			{ID: "call-slow", Name: "slow_tool", Arguments: "{}"},
			{ID: "call-fast", Name: "fast_tool", Arguments: "{}"},
		})

	elapsed := time.Since(start)

	require.Len(t, events, 2)

	// The fast tool finishes first, so without order preservation its
	// response is emitted first.
	assert.Equal(t, "call-fast", responseFor(t, events[0]).ID)
	assert.Equal(t, "call-slow", responseFor(t, events[1]).ID)

	// Both ran concurrently, bounded by the slow tool rather than the sum.
	assert.Less(t, elapsed, 160*time.Millisecond)
}

func TestFunctionExecutor_PreserveOrder(t *testing.T) {
	agent := newExecutorAgent(
		&execMockTool{name: "slow_tool", delay: 50 * time.Millisecond},
		&execMockTool{name: "fast_tool"},
	)

	events := runExecutor(t, FunctionExecutorConfig{MaxParallel: 4, PreserveOrder: true}, agent,
		[]core.FunctionCall{
			{ID: "call-slow", Name: "slow_tool", Arguments: "{}"},
			{ID: "call-fast", Name: "fast_tool", Arguments: "{}"},
		})

	require.Len(t, events, 2)
	assert.Equal(t, "call-slow", responseFor(t, events[0]).ID)
	assert.Equal(t, "call-fast", responseFor(t, events[1]).ID)
}

func TestFunctionExecutor_ErrorIsolation(t *testing.T) {
	agent := newExecutorAgent(
		&execMockTool{name: "broken_tool", err: errors.New("upstream unavailable")},
		&execMockTool{name: "healthy_tool"},
	)

	events := runExecutor(t, FunctionExecutorConfig{PreserveOrder: true}, agent,
		[]core.FunctionCall{
			{ID: "call-1", Name: "broken_tool", Arguments: "{}"},
			{ID: "call-2", Name: "healthy_tool", Arguments: "{}"},
		})

	require.Len(t, events, 2)

	assert.Contains(t, responseFor(t, events[0]).Error, "upstream unavailable")
	assert.Empty(t, responseFor(t, events[1]).Error)
}

func TestFunctionExecutor_PanicRecovery(t *testing.T) {
	agent := newExecutorAgent(
		&execMockTool{name: "panicky_tool", panicMsg: "nil map write"},
		&execMockTool{name: "healthy_tool"},
	)

	events := runExecutor(t, FunctionExecutorConfig{PreserveOrder: true}, agent,
		[]core.FunctionCall{
			{ID: "call-1", Name: "panicky_tool", Arguments: "{}"},
			{ID: "call-2", Name: "healthy_tool", Arguments: "{}"},
		})

	require.Len(t, events, 2)

	fr := responseFor(t, events[0])
	assert.Contains(t, fr.Error, "panicked")
	assert.Contains(t, fr.Error, "nil map write")

	assert.Empty(t, responseFor(t, events[1]).Error)
}

func TestFunctionExecutor_UnknownTool(t *testing.T) {
	agent := newExecutorAgent()

	events := runExecutor(t, FunctionExecutorConfig{}, agent,
		[]core.FunctionCall{{ID: "call-1", Name: "no_such_tool", Arguments: "{}"}})

	require.Len(t, events, 1)
	assert.Contains(t, responseFor(t, events[0]).Error, "not found")
}

func TestFunctionExecutor_ActionsApplied(t *testing.T) {
	agent := newExecutorAgent(
		&execMockTool{name: "save_choice", stateKey: "destination", stateVal: "Kyoto"},
		&execMockTool{name: "handoff", transferTo: "ItineraryAgent"},
	)

	events := runExecutor(t, FunctionExecutorConfig{PreserveOrder: true}, agent,
		[]core.FunctionCall{
			{ID: "call-1", Name: "save_choice", Arguments: "{}"},
			{ID: "call-2", Name: "handoff", Arguments: "{}"},
		})

	require.Len(t, events, 2)

	require.NotNil(t, events[0].Actions.StateDelta)
	assert.Equal(t, "Kyoto", events[0].Actions.StateDelta["destination"])

	require.NotNil(t, events[1].Actions.TransferToAgent)
	assert.Equal(t, "ItineraryAgent", *events[1].Actions.TransferToAgent)
}
