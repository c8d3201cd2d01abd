// Package tool implements the function calling subsystem that lets agents
// invoke structured capabilities (catalog lookups, conversions, computations)
// with schema-validated arguments and consistent error handling.
package tool

import (
	"fmt"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/internal/util"
)

// Tool is a callable capability an agent can expose to a model.
//
// Implementations receive a *core.ToolContext giving access to session state,
// flow control (transfer, escalate), memory, and artifact management, so a
// tool can do more than compute a value: it can steer the surrounding run.
//
// Implementations should use descriptive snake_case names, declare a minimal
// JSON schema for their arguments, and be safe for concurrent use.
type Tool interface {
	// Name returns the unique identifier for this tool.
	Name() string

	// Description is shown to the model to help it decide when to call the
	// tool.
	Description() string

	// Parameters returns a JSON schema describing the expected arguments.
	Parameters() map[string]any

	// Call executes the tool with parsed, schema-validated arguments.
	Call(toolCtx *core.ToolContext, args map[string]any) (any, error)
}

// ValidationError reports a single argument that failed schema validation.
type ValidationError = util.ValidationError

// ToolError is the uniform error type surfaced by tool execution.
type ToolError struct {
	Tool    string `json:"tool"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details any    `json:"details,omitempty"`
}

func (e *ToolError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tool error [%s] in %s: %s", e.Code, e.Tool, e.Message)
	}

	return fmt.Sprintf("tool error in %s: %s", e.Tool, e.Message)
}

// NewToolError creates a ToolError with the given tool name, message, and code.
func NewToolError(tool, message, code string) *ToolError {
	return &ToolError{Tool: tool, Message: message, Code: code}
}
