package flow

import (
	"fmt"
	"strings"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/model"
)

// TransferToAgentToolName is the function name the model calls to hand the
// conversation to a sub-agent.
const TransferToAgentToolName = "transfer_to_agent"

// TransferToolInjector is a request processor that exposes a transfer
// function to the model when the agent has transferable sub-agents. The
// injected definition enumerates the sub-agent names so the model can only
// target known agents.
type TransferToolInjector struct{}

// NewTransferToolInjector creates a transfer tool request processor.
func NewTransferToolInjector() *TransferToolInjector { return &TransferToolInjector{} }

// Name implements RequestProcessor.
func (p *TransferToolInjector) Name() string { return "transfer_tool_injector" }

// ProcessRequest implements RequestProcessor. Injection is idempotent: a
// request already carrying the transfer tool is left unchanged.
func (p *TransferToolInjector) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	if !agent.IsTransferEnabled() {
		return nil
	}

	subAgents := agent.GetSubAgents()
	if len(subAgents) == 0 {
		return nil
	}

	for _, td := range req.Tools {
		if td.Function.Name == TransferToAgentToolName {
			return nil
		}
	}

	names := make([]string, 0, len(subAgents))
	enum := make([]any, 0, len(subAgents))

	for _, sub := range subAgents {
		names = append(names, sub.GetName())
		enum = append(enum, sub.GetName())
	}

	req.Tools = append(req.Tools, model.ToolDefinition{
		Type: "function",
		Function: model.FunctionDefinition{
			Name:        TransferToAgentToolName,
			Description: fmt.Sprintf("Transfer the conversation to one of the following agents: %s", strings.Join(names, ", ")),
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"agent": map[string]any{
						"type":        "string",
						"description": "Name of the agent to transfer to",
						"enum":        enum,
					},
				},
				"required": []string{"agent"},
			},
		},
	})

	runCtx.LogDebug("flow.transfer_tool.injected", "agent", agent.GetName(), "targets", strings.Join(names, ","))

	return nil
}
