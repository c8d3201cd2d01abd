package flow

import (
	"fmt"
	"maps"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/model"
)

// BaseFlow implements the request -> model -> tool loop with pluggable
// pre/post processors. Tool calls within one model turn are executed through
// a FunctionExecutor and merged into a single function response event, so
// state deltas and transfer requests from parallel tools land atomically.
type BaseFlow struct {
	agent              FlowAgent
	requestProcessors  []RequestProcessor
	responseProcessors []ResponseProcessor
	executor           FunctionExecutor
}

// NewBaseFlow creates a flow around the given agent with an order-preserving
// parallel function executor.
func NewBaseFlow(agent FlowAgent) *BaseFlow {
	return &BaseFlow{
		agent:              agent,
		requestProcessors:  []RequestProcessor{},
		responseProcessors: []ResponseProcessor{},
		executor:           NewParallelFunctionExecutor(FunctionExecutorConfig{PreserveOrder: true}),
	}
}

// AddRequestProcessor appends a request processor; registration order defines
// execution order.
func (f *BaseFlow) AddRequestProcessor(processor RequestProcessor) {
	f.requestProcessors = append(f.requestProcessors, processor)
}

// AddResponseProcessor appends a response processor executed after each model
// chunk.
func (f *BaseFlow) AddResponseProcessor(processor ResponseProcessor) {
	f.responseProcessors = append(f.responseProcessors, processor)
}

// SetFunctionExecutor replaces the tool execution strategy.
func (f *BaseFlow) SetFunctionExecutor(executor FunctionExecutor) {
	f.executor = executor
}

// Execute launches the flow asynchronously and returns a channel of events.
// The channel is closed when a final response is emitted, control transfers
// to another agent, or an unrecoverable error occurs.
func (f *BaseFlow) Execute(runCtx *core.RunContext) (<-chan core.Event, error) {
	eventChan := make(chan core.Event, 100)

	go func() {
		defer close(eventChan)

		for {
			last := f.runOnce(runCtx, eventChan)
			if last == nil {
				return
			}

			if len(last.GetFunctionResponses()) > 0 {
				if target := last.Actions.TransferToAgent; target != nil && *target != "" && f.agent.IsTransferEnabled() {
					runCtx.LogInfo("flow.transfer", "from_agent", f.agent.GetName(), "to_agent", *target)

					if err := f.agent.TransferToAgent(runCtx, *target); err != nil {
						f.emitError(eventChan, fmt.Errorf("transfer to agent %s failed: %w", *target, err))
					}

					return
				}

				// Tool responses feed the next model turn.
				continue
			}

			if last.IsPartial() {
				runCtx.LogWarn("flow.unexpected_partial_tail", "agent", f.agent.GetName())
				return
			}

			if last.IsFinalResponse() {
				return
			}
		}
	}()

	return eventChan, nil
}

// emitError converts an internal error to a system event.
func (f *BaseFlow) emitError(eventChan chan<- core.Event, err error) {
	ev := core.NewEvent("", "system")
	msg := err.Error()
	ev.ErrorMessage = &msg
	eventChan <- ev
}

// runOnce performs one model turn, including any tool executions, and returns
// the last emitted event. A nil return signals termination.
func (f *BaseFlow) runOnce(runCtx *core.RunContext, eventChan chan<- core.Event) *core.Event {
	// Refresh the session snapshot so request processors see the latest
	// conversation, including just-persisted tool responses.
	if runCtx.SessionStore != nil {
		if err := runCtx.RefreshSession(); err != nil {
			runCtx.LogWarn("flow.session.refresh_failed", "error", err.Error())
		}
	}

	req := &model.Request{Stream: f.agent.IsStreamingEnabled()}

	for _, processor := range f.requestProcessors {
		if err := processor.ProcessRequest(runCtx, req, f.agent); err != nil {
			f.emitError(eventChan, fmt.Errorf("request processor %s failed: %w", processor.Name(), err))
			return nil
		}
	}

	f.appendToolDefinitions(req)

	if runCtx.Limiter != nil {
		if err := runCtx.Limiter.Increment(); err != nil {
			f.emitError(eventChan, err)
			return nil
		}
	}

	respCh, errCh := f.agent.GetLLM().Generate(runCtx.Context, *req)

	var lastEvent *core.Event

loop:
	for {
		select {
		case resp, ok := <-respCh:
			if !ok {
				break loop
			}

			for _, processor := range f.responseProcessors {
				if err := processor.ProcessResponse(runCtx, &resp, f.agent); err != nil {
					f.emitError(eventChan, fmt.Errorf("response processor %s failed: %w", processor.Name(), err))
					return nil
				}
			}

			ev := f.buildResponseEvent(runCtx, resp)
			lastEvent = &ev

			eventChan <- ev

			if !ev.IsPartial() && !f.waitForPersistence(runCtx) {
				return lastEvent
			}

			if fnCalls := ev.GetFunctionCalls(); len(fnCalls) > 0 && !ev.IsPartial() {
				merged := f.executeFunctionCalls(runCtx, fnCalls)
				lastEvent = &merged

				eventChan <- merged

				if !f.waitForPersistence(runCtx) {
					return lastEvent
				}
			}
		case err, ok := <-errCh:
			if !ok {
				// The provider goroutine is done, but respCh may still
				// hold buffered responses. Park this arm and keep
				// draining until respCh closes.
				errCh = nil
				continue
			}

			if err != nil {
				runCtx.LogError("flow.model.error", "agent", f.agent.GetName(), "error", err.Error())
				f.emitError(eventChan, err)

				break loop
			}
		}
	}

	return lastEvent
}

// appendToolDefinitions adds the agent's registered tools to the request,
// skipping names already injected by request processors.
func (f *BaseFlow) appendToolDefinitions(req *model.Request) {
	if !f.agent.IsFunctionCallingEnabled() {
		return
	}

	seen := make(map[string]bool, len(req.Tools))
	for _, td := range req.Tools {
		seen[td.Function.Name] = true
	}

	for _, t := range f.agent.GetTools() {
		if seen[t.Name()] {
			continue
		}

		req.Tools = append(req.Tools, model.ToolDefinition{
			Type: "function",
			Function: model.FunctionDefinition{
				Name:        t.Name(),
				Description: t.Description(),
				Parameters:  t.Parameters(),
			},
		})
	}
}

// buildResponseEvent converts a model response chunk into an event,
// finalizing turn metadata and the output key delta on terminal responses.
func (f *BaseFlow) buildResponseEvent(runCtx *core.RunContext, resp model.Response) core.Event {
	ev := core.NewEvent(runCtx.RunID, f.agent.GetName())
	ev.Content = &resp.Content
	ev.Partial = &resp.Partial

	if !resp.Partial && len(ev.GetFunctionCalls()) == 0 {
		complete := true
		ev.TurnComplete = &complete

		if key := f.agent.GetOutputKey(); key != "" {
			var text string

			for _, p := range resp.Content.Parts {
				if tp, ok := p.(core.TextPart); ok {
					text += tp.Text
				}
			}

			if text != "" {
				if ev.Actions.StateDelta == nil {
					ev.Actions.StateDelta = map[string]any{}
				}

				ev.Actions.StateDelta[key] = text
			}
		}
	}

	return ev
}

// executeFunctionCalls runs the batch through the function executor and
// merges the per-call response events into a single event.
func (f *BaseFlow) executeFunctionCalls(runCtx *core.RunContext, fnCalls []core.FunctionCall) core.Event {
	var responses []core.Event

	f.executor.Execute(runCtx, f.agent, f.agent.GetTools(), fnCalls, func(ev core.Event) error {
		responses = append(responses, ev)
		return nil
	})

	return mergeFunctionResponseEvents(runCtx.RunID, f.agent.GetName(), responses)
}

// waitForPersistence blocks until the engine confirms the previous event was
// persisted. Returns false when the run context is cancelled.
func (f *BaseFlow) waitForPersistence(runCtx *core.RunContext) bool {
	if runCtx.Resume == nil {
		return true
	}

	select {
	case <-runCtx.Context.Done():
		return false
	case <-runCtx.Resume:
		return true
	}
}

// mergeFunctionResponseEvents combines per-call function response events into
// one event preserving call order and merging accumulated actions.
func mergeFunctionResponseEvents(invocationID, author string, events []core.Event) core.Event {
	merged := core.NewEvent(invocationID, author)

	content := core.Content{Role: "tool"}

	for _, ev := range events {
		if ev.Content != nil {
			content.Parts = append(content.Parts, ev.Content.Parts...)
		}

		if len(ev.Actions.StateDelta) > 0 {
			if merged.Actions.StateDelta == nil {
				merged.Actions.StateDelta = map[string]any{}
			}

			maps.Copy(merged.Actions.StateDelta, ev.Actions.StateDelta)
		}

		if len(ev.Actions.ArtifactDelta) > 0 {
			if merged.Actions.ArtifactDelta == nil {
				merged.Actions.ArtifactDelta = map[string]int{}
			}

			maps.Copy(merged.Actions.ArtifactDelta, ev.Actions.ArtifactDelta)
		}

		if ev.Actions.TransferToAgent != nil {
			merged.Actions.TransferToAgent = ev.Actions.TransferToAgent
		}

		if ev.Actions.Escalate != nil {
			merged.Actions.Escalate = ev.Actions.Escalate
		}

		if ev.Actions.SkipSummarization != nil {
			merged.Actions.SkipSummarization = ev.Actions.SkipSummarization
		}
	}

	merged.Content = &content

	return merged
}
