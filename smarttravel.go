// Package smarttravel is a high-level façade over the agent engine and its
// in-memory services, tuned for building trip planning assistants. Most
// applications:
//  1. create a SmartTravel instance via New() (optionally overriding the
//     default in-memory stores),
//  2. register the concierge (travel.NewConcierge) or custom agents,
//  3. invoke them asynchronously (Invoke) or synchronously (InvokeSync).
//
// Orchestration is delegated to engine.Engine; the façade only bundles
// sensible defaults so local development needs no further setup.
package smarttravel

import (
	"context"

	"github.com/smarttravel/smarttravel/artifact"
	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/engine"
	"github.com/smarttravel/smarttravel/logging"
	"github.com/smarttravel/smarttravel/memory"
	"github.com/smarttravel/smarttravel/session"
)

// Options configures a SmartTravel instance. Unset stores default to
// in-memory implementations and the logger to a no-op.
type Options struct {
	EngineConfig  engine.Config
	SessionStore  core.SessionStore
	ArtifactStore core.ArtifactStore
	MemoryStore   core.MemoryStore
	Logger        logging.Logger
	Callbacks     []engine.Callback
}

// SmartTravel aggregates the engine and its backing services.
type SmartTravel struct {
	opts   Options
	engine core.Engine
}

// New creates a SmartTravel instance with optional overrides.
func New(optFns ...func(o *Options)) *SmartTravel {
	opts := Options{
		EngineConfig:  engine.DefaultConfig(),
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		MemoryStore:   memory.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	engineOpts := []func(*engine.Options){
		engine.WithConfig(opts.EngineConfig),
		engine.WithSessionStore(opts.SessionStore),
		engine.WithArtifactStore(opts.ArtifactStore),
		engine.WithMemoryStore(opts.MemoryStore),
		engine.WithLogger(opts.Logger),
	}
	for _, cb := range opts.Callbacks {
		engineOpts = append(engineOpts, engine.WithCallback(cb))
	}

	return &SmartTravel{opts: opts, engine: engine.New(engineOpts...)}
}

// RegisterAgent adds an agent to the underlying engine.
func (st *SmartTravel) RegisterAgent(a core.Agent) { st.engine.Register(a) }

// Invoke starts an asynchronous invocation, returning the invocation ID and
// event/error channels.
func (st *SmartTravel) Invoke(
	ctx context.Context,
	sessionID string,
	agentName string,
	userContent core.Content,
) (string, <-chan core.Event, <-chan error, error) {
	return st.engine.Invoke(ctx, sessionID, agentName, userContent)
}

// InvokeSync runs an invocation to completion, returning all emitted events.
func (st *SmartTravel) InvokeSync(
	ctx context.Context,
	sessionID string,
	agentName string,
	userContent core.Content,
) (string, []core.Event, error) {
	return st.engine.InvokeSync(ctx, sessionID, agentName, userContent)
}

// Cancel aborts a running invocation by ID.
func (st *SmartTravel) Cancel(invocationID string) error {
	return st.engine.Cancel(invocationID)
}

// SessionStore exposes the configured session store, e.g. for inspecting
// trip state after an invocation.
func (st *SmartTravel) SessionStore() core.SessionStore { return st.opts.SessionStore }

// UserText is a convenience constructor for plain user input content.
func UserText(text string) core.Content {
	return core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: text}}}
}
