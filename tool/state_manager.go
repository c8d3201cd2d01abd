package tool

import (
	"fmt"
	"sort"
	"strings"

	"github.com/smarttravel/smarttravel/core"
)

// stateOp is one operation of the state manager dispatch table.
type stateOp func(toolCtx *core.ToolContext, args map[string]any) (any, error)

// StateManagerTool multiplexes session state, flow control, memory and
// artifact operations behind a single tool. A planning agent uses it to
// stash intermediate results (the chosen flight, a running budget), recall
// traveler preferences, and hand control between specialists without
// needing a separate tool per operation.
type StateManagerTool struct {
	ops map[string]stateOp
}

// NewStateManagerTool creates the state management tool.
func NewStateManagerTool() *StateManagerTool {
	t := &StateManagerTool{}

	t.ops = map[string]stateOp{
		"get_state":           t.getState,
		"set_state":           t.setState,
		"transfer_agent":      t.transferAgent,
		"escalate":            t.escalate,
		"save_artifact":       t.saveArtifact,
		"load_artifact":       t.loadArtifact,
		"list_artifacts":      t.listArtifacts,
		"search_memory":       t.searchMemory,
		"store_memory":        t.storeMemory,
		"get_session_history": t.sessionHistory,
		"skip_summarization":  t.skipSummarization,
	}

	return t
}

// operations returns the supported operation names in a stable order.
func (t *StateManagerTool) operations() []string {
	names := make([]string, 0, len(t.ops))
	for name := range t.ops {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Name implements Tool.
func (t *StateManagerTool) Name() string { return "state_manager" }

// Description implements Tool.
func (t *StateManagerTool) Description() string {
	return "Manages session state, agent flow control, and run infrastructure. " +
		"Supported operations: " + strings.Join(t.operations(), ", ") + "."
}

// Parameters implements Tool.
func (t *StateManagerTool) Parameters() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"operation": map[string]any{
				"type":        "string",
				"enum":        t.operations(),
				"description": "The operation to perform",
			},
			"key":        map[string]any{"type": "string", "description": "State key for get_state/set_state"},
			"value":      map[string]any{"description": "Value for set_state (any type)"},
			"agent_name": map[string]any{"type": "string", "description": "Target agent for transfer_agent"},
			"artifact_id": map[string]any{
				"type":        "string",
				"description": "Artifact identifier for save_artifact/load_artifact",
			},
			"data":     map[string]any{"type": "string", "description": "Payload for save_artifact"},
			"query":    map[string]any{"type": "string", "description": "Query for search_memory"},
			"content":  map[string]any{"type": "string", "description": "Content for store_memory"},
			"metadata": map[string]any{"type": "object", "description": "Metadata for store_memory"},
			"limit": map[string]any{
				"type":        "integer",
				"description": "Result limit for search_memory (default: 10)",
				"default":     10,
			},
		},
		"required": []string{"operation"},
	}
}

// Call implements Tool by dispatching to the requested operation.
func (t *StateManagerTool) Call(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	operation, ok := args["operation"].(string)
	if !ok {
		return nil, fmt.Errorf("operation parameter is required")
	}

	op, ok := t.ops[operation]
	if !ok {
		return nil, fmt.Errorf("unknown operation: %s", operation)
	}

	return op(toolCtx, args)
}

// requireString extracts a mandatory string argument for an operation.
func requireString(args map[string]any, key, operation string) (string, error) {
	v, ok := args[key].(string)
	if !ok {
		return "", fmt.Errorf("%s parameter is required for %s operation", key, operation)
	}

	return v, nil
}

func (t *StateManagerTool) getState(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	key, err := requireString(args, "key", "get_state")
	if err != nil {
		return nil, err
	}

	value, exists := toolCtx.GetState(key)

	return map[string]any{"key": key, "exists": exists, "value": value}, nil
}

func (t *StateManagerTool) setState(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	key, err := requireString(args, "key", "set_state")
	if err != nil {
		return nil, err
	}

	toolCtx.SetState(key, args["value"])

	return map[string]any{"key": key, "value": args["value"], "success": true}, nil
}

func (t *StateManagerTool) transferAgent(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	agentName, err := requireString(args, "agent_name", "transfer_agent")
	if err != nil {
		return nil, err
	}

	toolCtx.TransferToAgent(agentName)

	return map[string]any{"agent_name": agentName, "success": true}, nil
}

func (t *StateManagerTool) escalate(toolCtx *core.ToolContext, _ map[string]any) (any, error) {
	toolCtx.Escalate()
	return map[string]any{"success": true, "message": "Escalation initiated"}, nil
}

func (t *StateManagerTool) skipSummarization(toolCtx *core.ToolContext, _ map[string]any) (any, error) {
	toolCtx.SkipSummarization()
	return map[string]any{"success": true, "message": "Summarization will be skipped for this interaction"}, nil
}

func (t *StateManagerTool) saveArtifact(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	artifactID, err := requireString(args, "artifact_id", "save_artifact")
	if err != nil {
		return nil, err
	}

	dataStr, err := requireString(args, "data", "save_artifact")
	if err != nil {
		return nil, err
	}

	if err := toolCtx.SaveArtifact(artifactID, []byte(dataStr)); err != nil {
		return nil, fmt.Errorf("failed to save artifact: %w", err)
	}

	return map[string]any{"artifact_id": artifactID, "size": len(dataStr), "success": true}, nil
}

func (t *StateManagerTool) loadArtifact(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	artifactID, err := requireString(args, "artifact_id", "load_artifact")
	if err != nil {
		return nil, err
	}

	data, err := toolCtx.LoadArtifact(artifactID)
	if err != nil {
		return nil, fmt.Errorf("failed to load artifact: %w", err)
	}

	return map[string]any{"artifact_id": artifactID, "data": string(data), "size": len(data)}, nil
}

func (t *StateManagerTool) listArtifacts(toolCtx *core.ToolContext, _ map[string]any) (any, error) {
	artifacts, err := toolCtx.ListArtifacts()
	if err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}

	return map[string]any{"artifacts": artifacts, "count": len(artifacts)}, nil
}

func (t *StateManagerTool) searchMemory(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	query, err := requireString(args, "query", "search_memory")
	if err != nil {
		return nil, err
	}

	limit := 10
	if l, ok := args["limit"].(float64); ok {
		limit = int(l)
	}

	results, err := toolCtx.SearchMemory(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search memory: %w", err)
	}

	return map[string]any{"query": query, "count": len(results), "results": results}, nil
}

func (t *StateManagerTool) storeMemory(toolCtx *core.ToolContext, args map[string]any) (any, error) {
	content, err := requireString(args, "content", "store_memory")
	if err != nil {
		return nil, err
	}

	metadata, _ := args["metadata"].(map[string]any)
	if metadata == nil {
		metadata = map[string]any{}
	}

	if err := toolCtx.StoreMemory(content, metadata); err != nil {
		return nil, fmt.Errorf("failed to store memory: %w", err)
	}

	return map[string]any{"content": content, "metadata": metadata, "success": true}, nil
}

func (t *StateManagerTool) sessionHistory(toolCtx *core.ToolContext, _ map[string]any) (any, error) {
	history := toolCtx.GetSessionHistory()

	entries := make([]map[string]any, 0, len(history))
	for _, ev := range history {
		entries = append(entries, map[string]any{
			"id":        ev.ID,
			"author":    ev.Author,
			"timestamp": ev.Timestamp,
			"partial":   ev.IsPartial(),
			"summary":   summarizeParts(ev),
		})
	}

	return map[string]any{"events": entries, "count": len(entries)}, nil
}

// summarizeParts renders a compact one-line description of an event's parts,
// keeping tool output out of the model's context window.
func summarizeParts(ev core.Event) string {
	if ev.Content == nil {
		return ""
	}

	var pieces []string

	for _, part := range ev.Content.Parts {
		switch p := part.(type) {
		case core.TextPart:
			preview := p.Text
			if len(preview) > 100 {
				preview = preview[:100] + "..."
			}

			pieces = append(pieces, "text: "+preview)
		case core.FunctionCallPart:
			pieces = append(pieces, "function_call: "+p.FunctionCall.Name)
		case core.FunctionResponsePart:
			pieces = append(pieces, "function_response: "+p.FunctionResponse.Name)
		default:
			pieces = append(pieces, "other")
		}
	}

	return strings.Join(pieces, ", ")
}
