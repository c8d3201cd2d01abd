// Package flow provides the execution pipeline for model-backed agents.
//
// A flow drives a request -> model -> tool loop, with pluggable request and
// response processors. Different flows serve different agent shapes: a
// standalone specialist uses SingleAgentFlow, while the concierge with
// transferable sub-agents uses MultiAgentFlow.
package flow

import (
	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/model"
	"github.com/smarttravel/smarttravel/tool"
)

// Flow orchestrates the complete execution pipeline of an agent, from
// processing the initial request to generating the final response.
type Flow interface {
	// Execute runs the flow and returns a channel of events representing the
	// execution progress. The channel closes when the flow terminates.
	Execute(runCtx *core.RunContext) (<-chan core.Event, error)
}

// FlowAgent is the view of an agent the flow layer needs, without exposing
// the full agent implementation.
type FlowAgent interface {
	// GetName returns the agent's display name.
	GetName() string

	// GetLLM returns the language model instance.
	GetLLM() model.Model

	// ResolveInstructions produces the system prompt for the next model turn.
	ResolveInstructions(runCtx *core.RunContext) (string, error)

	// GetTools returns the registered tools for function calling.
	GetTools() map[string]tool.Tool

	// GetSubAgents returns the child agents available for transfer.
	GetSubAgents() []FlowAgent

	// IsFunctionCallingEnabled reports whether function calling is enabled.
	IsFunctionCallingEnabled() bool

	// IsStreamingEnabled reports whether streaming responses are enabled.
	IsStreamingEnabled() bool

	// IsTransferEnabled reports whether agent transfer is enabled.
	IsTransferEnabled() bool

	// GetOutputKey returns the session state key for saving responses.
	GetOutputKey() string

	// MaxHistoryMessages returns the conversation history limit.
	MaxHistoryMessages() int

	// ExecuteTool executes a named tool with JSON-encoded arguments.
	ExecuteTool(toolCtx *core.ToolContext, toolName string, args string) (any, error)

	// TransferToAgent delegates execution to a named sub-agent.
	TransferToAgent(runCtx *core.RunContext, agentName string) error
}

// RequestProcessor modifies the model request before execution.
type RequestProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessRequest modifies the request before the model call.
	ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error
}

// ResponseProcessor handles model responses and may generate side effects.
type ResponseProcessor interface {
	// Name returns the processor's identifier.
	Name() string
	// ProcessResponse handles a (possibly partial) model response.
	ProcessResponse(runCtx *core.RunContext, resp *model.Response, agent FlowAgent) error
}
