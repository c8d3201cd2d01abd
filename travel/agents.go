package travel

import (
	"github.com/smarttravel/smarttravel/agent"
	"github.com/smarttravel/smarttravel/model"
)

// State keys the specialist agents write their findings to. Downstream
// agents read these through instruction templates.
const (
	StateKeyFlightReport     = "flight_report"
	StateKeyHotelReport      = "hotel_report"
	StateKeyAttractionReport = "attraction_report"
	StateKeyRestaurantReport = "restaurant_report"
	StateKeyWeatherReport    = "weather_report"
	StateKeyBudgetReport     = "budget_report"
	StateKeyCurrencyReport   = "currency_report"
	StateKeyItineraryReport  = "itinerary_report"
	StateKeyDisruptionReport = "disruption_report"
)

// NewFlightAgent searches and compares flight options.
func NewFlightAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("FlightAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are a flight search specialist. Use the search_flights tool to find " +
				"flights to {{default \"the destination\" .destination}}, compare the options " +
				"by price, duration and stops, and recommend the best match for the traveler's " +
				"preference. Always state prices with their currency.")
		o.OutputKey = StateKeyFlightReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewFlightSearchTool())

	return a
}

// NewHotelAgent searches and compares accommodation.
func NewHotelAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("HotelAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are an accommodation specialist. Use the search_hotels tool to find " +
				"places to stay in {{default \"the destination\" .destination}}, compare them " +
				"by price, rating and amenities, and compute the total cost for the stay.")
		o.OutputKey = StateKeyHotelReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewHotelSearchTool())

	return a
}

// NewAttractionAgent discovers sights and activities.
func NewAttractionAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("AttractionAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are a local activities specialist. Use the discover_attractions tool to " +
				"find the best-rated sights in {{default \"the destination\" .destination}}, " +
				"and summarize entry fees and how much time each visit takes.")
		o.OutputKey = StateKeyAttractionReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewAttractionsTool())

	return a
}

// NewRestaurantAgent recommends dining options.
func NewRestaurantAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("RestaurantAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are a dining specialist. Use the discover_restaurants tool to recommend " +
				"restaurants in {{default \"the destination\" .destination}} that match the " +
				"traveler's cuisine, dietary and budget preferences. Mention when reservations " +
				"are recommended.")
		o.OutputKey = StateKeyRestaurantReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewRestaurantsTool())

	return a
}

// NewWeatherAgent reports the forecast and its impact on the plan.
func NewWeatherAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("WeatherAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are a weather advisor. Use the get_weather_forecast tool for " +
				"{{default \"the destination\" .destination}}, call out any weather warnings, " +
				"and advise which days suit outdoor plans and which should move indoors.")
		o.OutputKey = StateKeyWeatherReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewWeatherTool())

	return a
}

// NewBudgetAgent allocates and optimizes the trip budget.
func NewBudgetAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("BudgetAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are a travel budget specialist. Use the allocate_budget tool to split the " +
				"traveler's budget across accommodation, transportation, food, activities and an " +
				"emergency reserve, then share the most relevant money-saving tips for the trip tier.")
		o.OutputKey = StateKeyBudgetReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewBudgetTool())

	return a
}

// NewCurrencyAgent handles conversions and local cost guidance.
func NewCurrencyAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("CurrencyAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are a currency specialist. Use convert_currency for exchange questions and " +
				"estimate_daily_costs to explain what a day in " +
				"{{default \"the destination\" .destination}} costs in the local currency. " +
				"Include practical money-handling tips.")
		o.OutputKey = StateKeyCurrencyReport
		o.AllowTransfer = false
	})
	a.RegisterTools(NewCurrencyTool(), NewDailyCostsTool())

	return a
}

// NewItineraryAgent assembles the day-by-day plan.
func NewItineraryAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("ItineraryAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are an itinerary planner. Use the build_itinerary tool to assemble a " +
				"day-by-day schedule for {{default \"the destination\" .destination}} that " +
				"combines the flight, hotel, attraction and weather findings already gathered, " +
				"and present the total estimated cost.")
		o.OutputKey = StateKeyItineraryReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewItineraryTool())

	return a
}

// NewDisruptionAgent monitors live conditions and replans when needed.
func NewDisruptionAgent(llm model.Model) *agent.ModelAgent {
	a := agent.NewModelAgent("DisruptionAgent", llm, func(o *agent.ModelAgentOptions) {
		o.Instruction = agent.NewInstructionFromText(
			"You are a trip disruption monitor. Use the detect_disruptions tool to assess " +
				"live conditions. When replanning is required, explain what changed, the revised " +
				"plan and any extra costs. When nothing is wrong, confirm the trip is on track.")
		o.OutputKey = StateKeyDisruptionReport
		o.AllowTransfer = false
	})
	a.RegisterTool(NewDisruptionTool())

	return a
}
