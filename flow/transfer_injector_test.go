package flow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/model"
)

func newCoordinatorAgent(subNames ...string) *flowTestAgent {
	llm := model.NewMockModel("mock-model", "test")
	agent := newFlowTestAgent("Coordinator", llm)
	agent.transfer = true

	for _, name := range subNames {
		agent.subAgents = append(agent.subAgents, newFlowTestAgent(name, llm))
	}

	return agent
}

func TestTransferToolInjector_Injects(t *testing.T) {
	agent := newCoordinatorAgent("FlightAgent", "HotelAgent")
	runCtx := newFlowRunContext(t, "plan")

	req := &model.Request{}
	require.NoError(t, NewTransferToolInjector().ProcessRequest(runCtx, req, agent))

	require.Len(t, req.Tools, 1)

	td := req.Tools[0]
	assert.Equal(t, "function", td.Type)
	assert.Equal(t, TransferToAgentToolName, td.Function.Name)
	assert.Contains(t, td.Function.Description, "FlightAgent")
	assert.Contains(t, td.Function.Description, "HotelAgent")

	props, ok := td.Function.Parameters["properties"].(map[string]any)
	require.True(t, ok)

	agentProp, ok := props["agent"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"FlightAgent", "HotelAgent"}, agentProp["enum"])
}

func TestTransferToolInjector_Idempotent(t *testing.T) {
	agent := newCoordinatorAgent("FlightAgent")
	runCtx := newFlowRunContext(t, "plan")

	req := &model.Request{}
	injector := NewTransferToolInjector()

	require.NoError(t, injector.ProcessRequest(runCtx, req, agent))
	require.NoError(t, injector.ProcessRequest(runCtx, req, agent))

	assert.Len(t, req.Tools, 1)
}

func TestTransferToolInjector_SkipsWhenDisabled(t *testing.T) {
	agent := newCoordinatorAgent("FlightAgent")
	agent.transfer = false

	req := &model.Request{}
	require.NoError(t, NewTransferToolInjector().ProcessRequest(newFlowRunContext(t, "plan"), req, agent))
	assert.Empty(t, req.Tools)
}

func TestTransferToolInjector_SkipsWithoutSubAgents(t *testing.T) {
	agent := newCoordinatorAgent()

	req := &model.Request{}
	require.NoError(t, NewTransferToolInjector().ProcessRequest(newFlowRunContext(t, "plan"), req, agent))
	assert.Empty(t, req.Tools)
}
