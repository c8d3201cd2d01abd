package travel

import (
	"time"

	"github.com/smarttravel/smarttravel/agent"
	"github.com/smarttravel/smarttravel/model"
)

// ConciergeOptions tunes the orchestration wiring.
type ConciergeOptions struct {
	// SearchTimeout bounds the parallel search stage. Zero means no timeout.
	SearchTimeout time.Duration
}

// NewConcierge wires the specialist agents into the trip planning pipeline:
//
//  1. a parallel search stage runs the flight, hotel, attraction,
//     restaurant and weather specialists concurrently, since their lookups
//     are independent,
//  2. the budget and currency specialists run next, using the search
//     findings in session state,
//  3. the itinerary specialist assembles the final plan.
//
// The returned agent is registered with an engine like any other agent.
func NewConcierge(llm model.Model, optFns ...func(o *ConciergeOptions)) *agent.SequentialAgent {
	opts := ConciergeOptions{SearchTimeout: 2 * time.Minute}
	for _, fn := range optFns {
		fn(&opts)
	}

	search := agent.NewParallelAgent("SearchStage", opts.SearchTimeout,
		NewFlightAgent(llm),
		NewHotelAgent(llm),
		NewAttractionAgent(llm),
		NewRestaurantAgent(llm),
		NewWeatherAgent(llm),
	)

	return agent.NewSequentialAgent("Concierge",
		search,
		NewBudgetAgent(llm),
		NewCurrencyAgent(llm),
		NewItineraryAgent(llm),
	)
}

// NewDisruptionMonitor wraps the disruption specialist in a loop so it can
// poll live conditions on an interval during the trip. The loop stops when
// the specialist escalates or the iteration cap is reached.
func NewDisruptionMonitor(llm model.Model, interval time.Duration, maxChecks int) *agent.LoopAgent {
	return agent.NewLoopAgent("DisruptionMonitor", NewDisruptionAgent(llm),
		agent.WithInterval(interval),
		agent.WithMaxIters(maxChecks),
		agent.WithStopOnError(true),
	)
}
