package flow

import (
	"fmt"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/internal/util"
	"github.com/smarttravel/smarttravel/model"
)

// InstructionsProcessor resolves the agent's instructions and renders them as
// a template against the current session state, so prompts can reference keys
// like {{.destination}} or {{.budget_report}}.
type InstructionsProcessor struct{}

// NewInstructionsProcessor creates an instructions request processor.
func NewInstructionsProcessor() *InstructionsProcessor { return &InstructionsProcessor{} }

// Name implements RequestProcessor.
func (p *InstructionsProcessor) Name() string { return "instructions" }

// ProcessRequest implements RequestProcessor.
func (p *InstructionsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	instructions, err := agent.ResolveInstructions(runCtx)
	if err != nil {
		return fmt.Errorf("resolve instructions: %w", err)
	}

	if instructions == "" {
		return nil
	}

	state := map[string]any{}
	if runCtx.Session != nil {
		state = runCtx.Session.Clone().State
	}

	rendered, err := util.RenderTemplate(instructions, state)
	if err != nil {
		return fmt.Errorf("render instructions: %w", err)
	}

	req.Instructions = rendered

	return nil
}

// ContentsProcessor assembles the conversation contents for the model from
// the session history, truncated to the agent's history limit.
type ContentsProcessor struct{}

// NewContentsProcessor creates a contents request processor.
func NewContentsProcessor() *ContentsProcessor { return &ContentsProcessor{} }

// Name implements RequestProcessor.
func (p *ContentsProcessor) Name() string { return "contents" }

// ProcessRequest implements RequestProcessor.
func (p *ContentsProcessor) ProcessRequest(runCtx *core.RunContext, req *model.Request, agent FlowAgent) error {
	history := runCtx.GetSessionHistory()

	if limit := agent.MaxHistoryMessages(); limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	for _, ev := range history {
		if ev.Content != nil {
			req.Contents = append(req.Contents, *ev.Content)
		}
	}

	// Without a persisted history the user content from the invocation is
	// the whole conversation.
	if len(req.Contents) == 0 && len(runCtx.UserContent.Parts) > 0 {
		req.Contents = append(req.Contents, runCtx.UserContent)
	}

	return nil
}
