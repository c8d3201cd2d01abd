// Package testutil contains fluent builders that cut boilerplate when tests
// need sessions and events in a particular shape. Not for production use.
package testutil

import (
	"github.com/smarttravel/smarttravel/core"
)

// EventBuilder assembles core.Event values for tests.
//
//	ev := testutil.NewEventBuilder().Author("FlightAgent").AssistantText("Booked.").Build()
type EventBuilder struct {
	author       string
	invocationID string
	role         string
	texts        []string
	calls        []core.FunctionCall
	responses    []core.FunctionResponse
	partial      *bool
	turnComplete *bool
	actions      core.EventActions
}

// NewEventBuilder creates a builder with author "agent".
func NewEventBuilder() *EventBuilder { return &EventBuilder{author: "agent"} }

// Author sets the event author.
func (b *EventBuilder) Author(a string) *EventBuilder { b.author = a; return b }

// Invocation sets the invocation ID.
func (b *EventBuilder) Invocation(id string) *EventBuilder { b.invocationID = id; return b }

// Partial marks the event as a streaming fragment.
func (b *EventBuilder) Partial(p bool) *EventBuilder { b.partial = &p; return b }

// TurnComplete sets the turn completion flag.
func (b *EventBuilder) TurnComplete(c bool) *EventBuilder { b.turnComplete = &c; return b }

// UserText appends a user-role text part.
func (b *EventBuilder) UserText(t string) *EventBuilder {
	b.role = "user"
	b.texts = append(b.texts, t)

	return b
}

// AssistantText appends an assistant-role text part.
func (b *EventBuilder) AssistantText(t string) *EventBuilder {
	b.role = "assistant"
	b.texts = append(b.texts, t)

	return b
}

// FunctionCall appends a function call part.
func (b *EventBuilder) FunctionCall(id, name, args string) *EventBuilder {
	b.calls = append(b.calls, core.FunctionCall{ID: id, Name: name, Arguments: args})
	return b
}

// FunctionResponse appends a function response part and sets the tool role.
func (b *EventBuilder) FunctionResponse(id, name string, result any) *EventBuilder {
	b.role = "tool"
	b.responses = append(b.responses, core.FunctionResponse{ID: id, Name: name, Response: result})

	return b
}

// StateDelta records a state mutation on the event's actions.
func (b *EventBuilder) StateDelta(key string, value any) *EventBuilder {
	if b.actions.StateDelta == nil {
		b.actions.StateDelta = map[string]any{}
	}
	b.actions.StateDelta[key] = value

	return b
}

// Transfer sets the transfer target on the event's actions.
func (b *EventBuilder) Transfer(to string) *EventBuilder {
	b.actions.TransferToAgent = &to
	return b
}

// Escalate sets the escalation flag on the event's actions.
func (b *EventBuilder) Escalate() *EventBuilder {
	t := true
	b.actions.Escalate = &t

	return b
}

// Build constructs the event.
func (b *EventBuilder) Build() core.Event {
	ev := core.NewEvent(b.invocationID, b.author)
	ev.Partial = b.partial
	ev.TurnComplete = b.turnComplete
	ev.Actions = b.actions

	parts := make([]core.Part, 0, len(b.texts)+len(b.calls)+len(b.responses))
	for _, t := range b.texts {
		parts = append(parts, core.TextPart{Text: t})
	}
	for _, fc := range b.calls {
		parts = append(parts, core.FunctionCallPart{FunctionCall: fc})
	}
	for _, fr := range b.responses {
		parts = append(parts, core.FunctionResponsePart{FunctionResponse: fr})
	}

	if len(parts) > 0 {
		role := b.role
		if role == "" {
			role = "assistant"
		}
		ev.Content = &core.Content{Role: role, Parts: parts}
	}

	return ev
}

// SessionBuilder assembles pre-populated sessions for tests.
//
//	sess := testutil.NewSessionBuilder("trip-1").State("destination", "Lisbon").Build()
type SessionBuilder struct {
	id     string
	state  map[string]any
	events []core.Event
}

// NewSessionBuilder creates a builder for the given session ID.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, state: map[string]any{}}
}

// State sets a state key on the resulting session.
func (b *SessionBuilder) State(key string, value any) *SessionBuilder {
	b.state[key] = value
	return b
}

// Events appends events to the session history.
func (b *SessionBuilder) Events(evs ...core.Event) *SessionBuilder {
	b.events = append(b.events, evs...)
	return b
}

// Build returns the populated session.
func (b *SessionBuilder) Build() *core.Session {
	sess := core.NewSession(b.id)

	for k, v := range b.state {
		sess.SetState(k, v)
	}
	for _, ev := range b.events {
		sess.AddEvent(ev)
	}

	return sess
}
