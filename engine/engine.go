package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/smarttravel/smarttravel/artifact"
	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/logging"
	"github.com/smarttravel/smarttravel/memory"
	"github.com/smarttravel/smarttravel/session"
)

// Config tunes engine behavior.
type Config struct {
	// MaxConcurrentInvocations bounds parallel invocations; further Invoke
	// calls block until a slot frees or their context is cancelled.
	MaxConcurrentInvocations int

	// EventBufferSize sizes the per-invocation event channels.
	EventBufferSize int

	// MaxModelCalls caps model calls per invocation, guarding against
	// runaway tool loops. 0 means unlimited.
	MaxModelCalls int
}

// DefaultConfig returns production-ready defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrentInvocations: 10,
		EventBufferSize:          100,
		MaxModelCalls:            25,
	}
}

// Options collects the dependencies of an Engine. Zero values are replaced
// with in-memory stores and a no-op logger.
type Options struct {
	Config        Config
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	MemoryStore   core.MemoryStore
	Logger        logging.Logger
	Callbacks     *CallbackManager
}

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) func(*Options) {
	return func(o *Options) { o.Config = cfg }
}

// WithSessionStore sets the session persistence backend.
func WithSessionStore(store core.SessionStore) func(*Options) {
	return func(o *Options) { o.SessionStore = store }
}

// WithArtifactStore sets the artifact persistence backend.
func WithArtifactStore(store core.ArtifactStore) func(*Options) {
	return func(o *Options) { o.ArtifactStore = store }
}

// WithMemoryStore sets the long-term memory backend.
func WithMemoryStore(store core.MemoryStore) func(*Options) {
	return func(o *Options) { o.MemoryStore = store }
}

// WithLogger sets the structured logger.
func WithLogger(logger logging.Logger) func(*Options) {
	return func(o *Options) { o.Logger = logger }
}

// WithCallback registers a lifecycle callback.
func WithCallback(cb Callback) func(*Options) {
	return func(o *Options) {
		if o.Callbacks == nil {
			o.Callbacks = NewCallbackManager()
		}

		o.Callbacks.Register(cb)
	}
}

// Engine coordinates agent invocations: it owns the registry, wires run
// contexts to the stores and drives the emit / persist / resume cycle.
type Engine struct {
	config        Config
	sessionStore  core.SessionStore
	artifactStore core.ArtifactStore
	memoryStore   core.MemoryStore
	logger        logging.Logger
	callbacks     *CallbackManager

	agentsMu sync.RWMutex
	agents   map[string]core.Agent

	activeMu sync.Mutex
	active   map[string]context.CancelFunc

	sem chan struct{}
}

var _ core.Engine = (*Engine)(nil)

// New constructs an Engine, defaulting any unset option.
func New(optFns ...func(*Options)) *Engine {
	opts := Options{Config: DefaultConfig()}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.SessionStore == nil {
		opts.SessionStore = session.NewInMemoryStore()
	}

	if opts.ArtifactStore == nil {
		opts.ArtifactStore = artifact.NewInMemoryStore()
	}

	if opts.MemoryStore == nil {
		opts.MemoryStore = memory.NewInMemoryStore()
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Callbacks == nil {
		opts.Callbacks = NewCallbackManager()
	}

	if opts.Config.MaxConcurrentInvocations <= 0 {
		opts.Config.MaxConcurrentInvocations = DefaultConfig().MaxConcurrentInvocations
	}

	if opts.Config.EventBufferSize <= 0 {
		opts.Config.EventBufferSize = DefaultConfig().EventBufferSize
	}

	return &Engine{
		config:        opts.Config,
		sessionStore:  opts.SessionStore,
		artifactStore: opts.ArtifactStore,
		memoryStore:   opts.MemoryStore,
		logger:        opts.Logger,
		callbacks:     opts.Callbacks,
		agents:        make(map[string]core.Agent),
		active:        make(map[string]context.CancelFunc),
		sem:           make(chan struct{}, opts.Config.MaxConcurrentInvocations),
	}
}

// Register makes an agent invocable by name. Registering the same name twice
// replaces the previous agent.
func (e *Engine) Register(a core.Agent) {
	e.agentsMu.Lock()
	defer e.agentsMu.Unlock()

	e.agents[a.Name()] = a

	e.logger.Info("engine.agent.registered", "agent", a.Name())
}

// GetAgent returns a registered agent by name.
func (e *Engine) GetAgent(name string) (core.Agent, bool) {
	e.agentsMu.RLock()
	defer e.agentsMu.RUnlock()

	a, ok := e.agents[name]

	return a, ok
}

// Invoke starts an asynchronous invocation of the named agent. The user
// content is appended to the session before the agent observes it. Both
// returned channels close when the invocation terminates.
func (e *Engine) Invoke(ctx context.Context, sessionID, agentName string, userContent core.Content) (string, <-chan core.Event, <-chan error, error) {
	a, ok := e.GetAgent(agentName)
	if !ok {
		return "", nil, nil, fmt.Errorf("agent not found: %s", agentName)
	}

	select {
	case e.sem <- struct{}{}:
	case <-ctx.Done():
		return "", nil, nil, ctx.Err()
	}

	invocationID := core.NewID()

	if _, err := e.sessionStore.Get(sessionID); err != nil {
		<-e.sem
		return "", nil, nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	if err := e.sessionStore.AppendEvent(sessionID, core.NewUserContentEvent(invocationID, &userContent)); err != nil {
		<-e.sem
		return "", nil, nil, fmt.Errorf("append user content: %w", err)
	}

	// Reload after the append so the agent starts from the persisted view.
	sess, err := e.sessionStore.Get(sessionID)
	if err != nil {
		<-e.sem
		return "", nil, nil, fmt.Errorf("load session %s: %w", sessionID, err)
	}

	invCtx, cancel := context.WithCancel(ctx)

	e.activeMu.Lock()
	e.active[invocationID] = cancel
	e.activeMu.Unlock()

	agentEmit := make(chan core.Event, e.config.EventBufferSize)
	resumeCh := make(chan struct{}, e.config.EventBufferSize)
	eventsCh := make(chan core.Event, e.config.EventBufferSize)
	errorsCh := make(chan error, 1)

	runCtx := core.NewRunContext(
		invCtx, sessionID, invocationID,
		core.AgentInfo{Name: agentName, Type: "agent"},
		userContent, e.config.MaxModelCalls,
		agentEmit, resumeCh, sess,
		e.sessionStore, e.artifactStore, e.memoryStore,
		e.logger,
	)

	e.logger.Info("engine.invocation.start",
		"invocation_id", invocationID,
		"session_id", sessionID,
		"agent", agentName,
	)

	go e.runAgent(invCtx, a, runCtx, agentEmit, errorsCh)
	go e.processEvents(invCtx, cancel, runCtx, agentEmit, eventsCh, errorsCh, resumeCh)

	return invocationID, eventsCh, errorsCh, nil
}

// InvokeSync runs an invocation to completion and collects all events.
func (e *Engine) InvokeSync(ctx context.Context, sessionID, agentName string, userContent core.Content) (string, []core.Event, error) {
	invocationID, eventsCh, errorsCh, err := e.Invoke(ctx, sessionID, agentName, userContent)
	if err != nil {
		return "", nil, err
	}

	var events []core.Event

	for ev := range eventsCh {
		events = append(events, ev)
	}

	if runErr := <-errorsCh; runErr != nil {
		return invocationID, events, runErr
	}

	return invocationID, events, nil
}

// Cancel requests cooperative termination of an in-flight invocation.
func (e *Engine) Cancel(invocationID string) error {
	e.activeMu.Lock()
	cancel, ok := e.active[invocationID]
	e.activeMu.Unlock()

	if !ok {
		return fmt.Errorf("unknown invocation: %s", invocationID)
	}

	cancel()

	e.logger.Info("engine.invocation.cancelled", "invocation_id", invocationID)

	return nil
}

// runAgent drives the agent lifecycle and reports a terminal error, if any.
func (e *Engine) runAgent(ctx context.Context, a core.Agent, runCtx *core.RunContext, agentEmit chan core.Event, errorsCh chan<- error) {
	defer close(agentEmit)

	defer func() {
		e.activeMu.Lock()
		delete(e.active, runCtx.RunID)
		e.activeMu.Unlock()

		<-e.sem
	}()

	cbCtx := &CallbackContext{RunContext: runCtx, AgentName: a.Name(), CallbackType: CallbackBeforeAgent}
	if err := e.callbacks.Execute(ctx, CallbackBeforeAgent, cbCtx); err != nil {
		errorsCh <- fmt.Errorf("before agent callback: %w", err)
		return
	}

	if err := a.Start(runCtx); err != nil {
		errorsCh <- fmt.Errorf("start agent %s: %w", a.Name(), err)
		return
	}

	defer func() {
		if err := a.Stop(runCtx); err != nil {
			e.logger.Warn("engine.agent.stop_failed", "agent", a.Name(), "error", err.Error())
		}
	}()

	if err := a.Run(runCtx); err != nil {
		e.logger.Error("engine.agent.run_failed",
			"invocation_id", runCtx.RunID,
			"agent", a.Name(),
			"error", err.Error(),
		)

		onErrCtx := &CallbackContext{RunContext: runCtx, AgentName: a.Name(), CallbackType: CallbackOnError, Err: err}
		if cbErr := e.callbacks.Execute(ctx, CallbackOnError, onErrCtx); cbErr != nil {
			e.logger.Warn("engine.callback.on_error_failed", "error", cbErr.Error())
		}

		errorsCh <- fmt.Errorf("agent %s: %w", a.Name(), err)

		return
	}

	afterCtx := &CallbackContext{RunContext: runCtx, AgentName: a.Name(), CallbackType: CallbackAfterAgent}
	if err := e.callbacks.Execute(ctx, CallbackAfterAgent, afterCtx); err != nil {
		errorsCh <- fmt.Errorf("after agent callback: %w", err)
		return
	}

	e.logger.Info("engine.invocation.complete", "invocation_id", runCtx.RunID, "agent", a.Name())
}

// processEvents persists and forwards agent events, then signals the agent to
// resume. Persistence happens before the resume so downstream turns observe
// committed state. The invocation's cancel func is released once the event
// stream is fully drained.
func (e *Engine) processEvents(ctx context.Context, cancel context.CancelFunc, runCtx *core.RunContext, agentEmit <-chan core.Event, eventsCh chan<- core.Event, errorsCh chan error, resumeCh chan<- struct{}) {
	defer cancel()
	defer close(eventsCh)
	defer close(errorsCh)

	for ev := range agentEmit {
		e.applyEventActions(ctx, runCtx, &ev)

		if !ev.IsPartial() {
			if err := e.sessionStore.AppendEvent(runCtx.SessionID, ev); err != nil {
				e.logger.Error("engine.event.persist_failed",
					"invocation_id", runCtx.RunID,
					"event_id", ev.ID,
					"error", err.Error(),
				)
			}
		}

		select {
		case eventsCh <- ev:
		case <-ctx.Done():
		}

		if !ev.IsPartial() {
			// Every final event owes its emitter exactly one resume token.
			// A dropped token would strand the agent until its context
			// expires, so the send blocks rather than discards.
			select {
			case resumeCh <- struct{}{}:
			case <-ctx.Done():
			}
		}
	}
}

// applyEventActions handles event side effects. State deltas run through the
// OnStateChange callbacks first; a rejection skips the delta but not the
// event.
func (e *Engine) applyEventActions(ctx context.Context, runCtx *core.RunContext, ev *core.Event) {
	if len(ev.Actions.StateDelta) > 0 {
		cbCtx := &CallbackContext{RunContext: runCtx, Event: ev, AgentName: ev.Author, CallbackType: CallbackOnStateChange}

		if err := e.callbacks.Execute(ctx, CallbackOnStateChange, cbCtx); err != nil {
			e.logger.Warn("engine.state_delta.rejected",
				"invocation_id", runCtx.RunID,
				"event_id", ev.ID,
				"error", err.Error(),
			)
		} else if err := e.sessionStore.ApplyDelta(runCtx.SessionID, ev.Actions.StateDelta); err != nil {
			e.logger.Error("engine.state_delta.apply_failed",
				"invocation_id", runCtx.RunID,
				"event_id", ev.ID,
				"error", err.Error(),
			)
		}
	}

	if target := ev.Actions.TransferToAgent; target != nil {
		e.logger.Info("engine.event.transfer", "invocation_id", runCtx.RunID, "from", ev.Author, "to", *target)
	}

	if ev.Actions.Escalate != nil && *ev.Actions.Escalate {
		e.logger.Info("engine.event.escalate", "invocation_id", runCtx.RunID, "author", ev.Author)
	}
}
