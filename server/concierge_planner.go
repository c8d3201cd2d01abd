package server

import (
	"context"
	"fmt"
	"strings"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/travel"
)

// ConciergePlanner routes planning through the agent pipeline: each request
// runs the registered concierge agent in a fresh session and the itinerary
// assembled by the itinerary tools is read back from session state.
type ConciergePlanner struct {
	Engine    core.Engine
	Sessions  core.SessionStore
	AgentName string
}

// PlanTrip implements Planner.
func (p ConciergePlanner) PlanTrip(ctx context.Context, req travel.TripRequest) (travel.Itinerary, error) {
	sessionID := "plan-" + core.NewID()

	_, _, err := p.Engine.InvokeSync(ctx, sessionID, p.AgentName, core.Content{
		Role:  "user",
		Parts: []core.Part{core.TextPart{Text: planRequestPrompt(req)}},
	})
	if err != nil {
		return travel.Itinerary{}, fmt.Errorf("concierge invocation: %w", err)
	}

	sess, err := p.Sessions.Get(sessionID)
	if err != nil {
		return travel.Itinerary{}, fmt.Errorf("load planning session: %w", err)
	}

	v, ok := sess.GetState("itinerary")
	if !ok {
		return travel.Itinerary{}, fmt.Errorf("concierge run produced no itinerary")
	}

	itin, ok := v.(travel.Itinerary)
	if !ok {
		return travel.Itinerary{}, fmt.Errorf("unexpected itinerary state type %T", v)
	}

	return itin, nil
}

// planRequestPrompt renders a trip request as the concierge's user message.
func planRequestPrompt(req travel.TripRequest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Plan a trip to %s from %s to %s for %d traveler(s).",
		req.Destination, req.StartDate, req.EndDate, req.Travelers)

	if req.Origin != "" {
		fmt.Fprintf(&b, " Departing from %s.", req.Origin)
	}

	if req.Budget > 0 {
		fmt.Fprintf(&b, " Total budget: %.2f.", req.Budget)
	}

	for k, v := range req.Preferences {
		fmt.Fprintf(&b, " Preference %s: %s.", k, v)
	}

	return b.String()
}
