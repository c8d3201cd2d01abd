package flow

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/tool"
)

// FunctionExecutor runs a batch of function calls requested by the model and
// emits one function response event per call.
type FunctionExecutor interface {
	Execute(runCtx *core.RunContext, agent FlowAgent, tools map[string]tool.Tool, calls []core.FunctionCall, emit func(core.Event) error)
}

// FunctionExecutorConfig tunes the parallel executor.
type FunctionExecutorConfig struct {
	// MaxParallel caps concurrent tool executions. Defaults to 4.
	MaxParallel int

	// PreserveOrder emits responses in the model's call order even when
	// execution completes out of order.
	PreserveOrder bool

	// LogStartEvents logs a debug entry before each tool execution.
	LogStartEvents bool
}

type parallelFunctionExecutor struct {
	config FunctionExecutorConfig
}

// NewParallelFunctionExecutor creates an executor that runs tool calls
// concurrently up to MaxParallel.
func NewParallelFunctionExecutor(config FunctionExecutorConfig) FunctionExecutor {
	if config.MaxParallel <= 0 {
		config.MaxParallel = 4
	}

	return &parallelFunctionExecutor{config: config}
}

// Execute implements FunctionExecutor. Errors are isolated per call: a failing
// or panicking tool produces a function response event carrying the error
// while the remaining calls proceed.
func (e *parallelFunctionExecutor) Execute(runCtx *core.RunContext, agent FlowAgent, tools map[string]tool.Tool, calls []core.FunctionCall, emit func(core.Event) error) {
	switch len(calls) {
	case 0:
		return
	case 1:
		e.emitEvent(runCtx, emit, e.runCall(runCtx, agent, tools, calls[0]))
		return
	}

	if e.config.PreserveOrder {
		e.executeOrdered(runCtx, agent, tools, calls, emit)
		return
	}

	e.executeUnordered(runCtx, agent, tools, calls, emit)
}

// executeOrdered runs all calls concurrently but emits responses in the
// original call order.
func (e *parallelFunctionExecutor) executeOrdered(runCtx *core.RunContext, agent FlowAgent, tools map[string]tool.Tool, calls []core.FunctionCall, emit func(core.Event) error) {
	results := make([]core.Event, len(calls))
	sem := make(chan struct{}, e.config.MaxParallel)

	var wg sync.WaitGroup

	for i, call := range calls {
		wg.Add(1)

		go func(idx int, fc core.FunctionCall) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			results[idx] = e.runCall(runCtx, agent, tools, fc)
		}(i, call)
	}

	wg.Wait()

	for _, ev := range results {
		e.emitEvent(runCtx, emit, ev)
	}
}

// executeUnordered emits each response as soon as its call completes.
func (e *parallelFunctionExecutor) executeUnordered(runCtx *core.RunContext, agent FlowAgent, tools map[string]tool.Tool, calls []core.FunctionCall, emit func(core.Event) error) {
	sem := make(chan struct{}, e.config.MaxParallel)

	var (
		wg     sync.WaitGroup
		emitMu sync.Mutex
	)

	for _, call := range calls {
		wg.Add(1)

		go func(fc core.FunctionCall) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			ev := e.runCall(runCtx, agent, tools, fc)

			emitMu.Lock()
			defer emitMu.Unlock()

			e.emitEvent(runCtx, emit, ev)
		}(call)
	}

	wg.Wait()
}

// runCall executes a single function call with panic isolation and returns
// the resulting function response event with the tool's actions applied.
func (e *parallelFunctionExecutor) runCall(runCtx *core.RunContext, agent FlowAgent, tools map[string]tool.Tool, call core.FunctionCall) (ev core.Event) {
	toolCtx := core.NewToolContext(runCtx, call.ID)

	defer func() {
		if r := recover(); r != nil {
			runCtx.LogError("flow.tool.panic",
				"tool", call.Name,
				"function_call_id", call.ID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()),
			)

			ev = core.NewFunctionResponseEvent(agent.GetName(), call.ID, call.Name,
				nil, fmt.Errorf("tool %s panicked: %v", call.Name, r))
			ev.InvocationID = runCtx.RunID
		}
	}()

	if e.config.LogStartEvents {
		runCtx.LogDebug("flow.tool.start", "tool", call.Name, "function_call_id", call.ID)
	}

	var (
		result any
		err    error
	)

	if _, ok := tools[call.Name]; !ok {
		err = fmt.Errorf("tool %s not found", call.Name)
	} else {
		result, err = agent.ExecuteTool(toolCtx, call.Name, call.Arguments)
	}

	ev = core.NewFunctionResponseEvent(agent.GetName(), call.ID, call.Name, result, err)
	ev.InvocationID = runCtx.RunID

	toolCtx.InternalApplyActions(&ev)

	return ev
}

func (e *parallelFunctionExecutor) emitEvent(runCtx *core.RunContext, emit func(core.Event) error, ev core.Event) {
	if err := emit(ev); err != nil {
		runCtx.LogWarn("flow.tool.emit_failed", "error", err.Error())
	}
}
