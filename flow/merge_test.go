package flow

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/model"
)

// scriptedModel replays a fixed sequence of response batches, one batch per
// Generate call.
type scriptedModel struct {
	mu    sync.Mutex
	turns [][]model.Response
}

func (m *scriptedModel) Generate(_ context.Context, _ model.Request) (<-chan model.Response, <-chan error) {
	m.mu.Lock()

	var turn []model.Response

	if len(m.turns) > 0 {
		turn = m.turns[0]
		m.turns = m.turns[1:]
	}

	m.mu.Unlock()

	respCh := make(chan model.Response, len(turn)+1)
	errCh := make(chan error, 1)

	for _, r := range turn {
		respCh <- r
	}

	close(respCh)
	close(errCh)

	return respCh, errCh
}

func (m *scriptedModel) Info() model.Info {
	return model.Info{Name: "scripted", Provider: "test", SupportsTools: true}
}

func functionCallResponse(calls ...core.FunctionCall) model.Response {
	parts := make([]core.Part, 0, len(calls))
	for _, c := range calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: c})
	}

	return model.Response{
		Content:      core.Content{Role: "assistant", Parts: parts},
		FinishReason: "tool_calls",
	}
}

func textResponse(text string) model.Response {
	return model.Response{
		Content:      core.Content{Role: "assistant", Parts: []core.Part{core.TextPart{Text: text}}},
		FinishReason: "stop",
	}
}

func TestBaseFlow_MergedToolEvent(t *testing.T) {
	llm := &scriptedModel{turns: [][]model.Response{
		{functionCallResponse(
			core.FunctionCall{ID: "call-a", Name: "set_budget", Arguments: "{}"},
			core.FunctionCall{ID: "call-b", Name: "handoff", Arguments: "{}"},
		)},
	}}

	agent := newFlowTestAgent("Coordinator", llm)
	agent.transfer = true
	agent.subAgents = []FlowAgent{newFlowTestAgent("NextAgent", llm)}
	agent.tools["set_budget"] = &execMockTool{name: "set_budget", stateKey: "a", stateVal: 1}
	agent.tools["handoff"] = &execMockTool{name: "handoff", transferTo: "NextAgent"}

	f := NewMultiAgentFlow(agent)

	eventChan, err := f.Execute(newFlowRunContext(t, "plan"))
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 2)

	// First the model turn requesting both calls.
	require.Len(t, events[0].GetFunctionCalls(), 2)

	// Then a single merged tool event covering both responses.
	merged := events[1]
	require.NotNil(t, merged.Content)
	assert.Equal(t, "tool", merged.Content.Role)

	responses := merged.GetFunctionResponses()
	require.Len(t, responses, 2)
	assert.Equal(t, "call-a", responses[0].ID)
	assert.Equal(t, "call-b", responses[1].ID)

	require.NotNil(t, merged.Actions.StateDelta)
	assert.Equal(t, 1, merged.Actions.StateDelta["a"])

	require.NotNil(t, merged.Actions.TransferToAgent)
	assert.Equal(t, "NextAgent", *merged.Actions.TransferToAgent)

	// The flow handed control to the requested sub-agent and terminated.
	assert.Equal(t, "NextAgent", agent.TransferredTo())
}

func TestBaseFlow_ToolRoundTrip(t *testing.T) {
	llm := &scriptedModel{turns: [][]model.Response{
		{functionCallResponse(core.FunctionCall{ID: "call-1", Name: "lookup_rate", Arguments: "{}"})},
		{textResponse("1 USD is 83.12 INR.")},
	}}

	agent := newFlowTestAgent("CurrencyAgent", llm)
	agent.tools["lookup_rate"] = &execMockTool{name: "lookup_rate"}

	f := NewSingleAgentFlow(agent)

	eventChan, err := f.Execute(newFlowRunContext(t, "convert"))
	require.NoError(t, err)

	events := collectEvents(t, eventChan)
	require.Len(t, events, 3)

	assert.Len(t, events[0].GetFunctionCalls(), 1)
	assert.Len(t, events[1].GetFunctionResponses(), 1)

	final := events[2]
	require.NotNil(t, final.Content)
	assert.Equal(t, "1 USD is 83.12 INR.", final.Content.Parts[0].(core.TextPart).Text)
	require.NotNil(t, final.TurnComplete)
	assert.True(t, *final.TurnComplete)
}

func TestMergeFunctionResponseEvents(t *testing.T) {
	ev1 := core.NewFunctionResponseEvent("Agent", "call-1", "tool_a", "ok", nil)
	delta1 := map[string]any{"a": 1}
	ev1.Actions.StateDelta = delta1

	ev2 := core.NewFunctionResponseEvent("Agent", "call-2", "tool_b", "ok", nil)
	next := "next"
	ev2.Actions.TransferToAgent = &next
	ev2.Actions.StateDelta = map[string]any{"b": 2}

	merged := mergeFunctionResponseEvents("run-1", "Agent", []core.Event{ev1, ev2})

	assert.Equal(t, "run-1", merged.InvocationID)
	assert.Equal(t, "Agent", merged.Author)

	responses := merged.GetFunctionResponses()
	require.Len(t, responses, 2)
	assert.Equal(t, "call-1", responses[0].ID)
	assert.Equal(t, "call-2", responses[1].ID)

	assert.Equal(t, map[string]any{"a": 1, "b": 2}, merged.Actions.StateDelta)
	require.NotNil(t, merged.Actions.TransferToAgent)
	assert.Equal(t, "next", *merged.Actions.TransferToAgent)
}
