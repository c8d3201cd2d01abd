package travel

import (
	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/tool"
)

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok && v != "" {
		return v
	}

	return fallback
}

func floatArg(args map[string]any, key string, fallback float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return fallback
	}
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return fallback
	}
}

func boolArg(args map[string]any, key string) bool {
	v, _ := args[key].(bool)
	return v
}

func stringSliceArg(args map[string]any, key string) []string {
	raw, ok := args[key].([]any)
	if !ok {
		return nil
	}

	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}

	return out
}

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func numberProp(description string) map[string]any {
	return map[string]any{"type": "number", "description": description}
}

func integerProp(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description}
}

func booleanProp(description string) map[string]any {
	return map[string]any{"type": "boolean", "description": description}
}

func stringArrayProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string"},
	}
}

// NewFlightSearchTool searches flights between two cities and records the
// best option by price under the flight_options state key.
func NewFlightSearchTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"search_flights",
		"Search for flights between two cities on a given date",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"origin":      stringProp("Departure city"),
				"destination": stringProp("Arrival city"),
				"date":        stringProp("Departure date in YYYY-MM-DD format"),
				"passengers":  integerProp("Number of passengers, defaults to 1"),
				"preference":  stringProp("Selection preference: price, duration or stops"),
			},
			"required": []string{"origin", "destination", "date"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			flights := SearchFlights(
				stringArg(args, "origin", ""),
				stringArg(args, "destination", ""),
				stringArg(args, "date", ""),
				intArg(args, "passengers", 1),
			)

			best, _ := BestFlight(flights, stringArg(args, "preference", "price"))
			toolCtx.SetState("flight_options", flights)

			return map[string]any{
				"flights": flights,
				"best":    best,
			}, nil
		},
	)
}

// NewHotelSearchTool searches accommodation and computes the total stay cost
// for the preferred option.
func NewHotelSearchTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"search_hotels",
		"Search for hotels at a destination and compute the stay cost",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination": stringProp("Destination city"),
				"nights":      integerProp("Number of nights, defaults to 1"),
				"rooms":       integerProp("Number of rooms, defaults to 1"),
				"preference":  stringProp("Selection preference: price, rating or stars"),
			},
			"required": []string{"destination"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			hotels := SearchHotels(stringArg(args, "destination", ""))
			best, _ := BestHotel(hotels, stringArg(args, "preference", "price"))

			toolCtx.SetState("hotel_options", hotels)

			return map[string]any{
				"hotels":     hotels,
				"best":       best,
				"total_cost": StayCost(best, intArg(args, "nights", 1), intArg(args, "rooms", 1)),
			}, nil
		},
	)
}

// NewAttractionsTool discovers attractions and totals their entry fees and
// visit time.
func NewAttractionsTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"discover_attractions",
		"Discover attractions at a destination, optionally filtered by category",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination": stringProp("Destination city"),
				"category":    stringProp("Optional category filter: museum, park, landmark, food or tour"),
				"max_results": integerProp("Maximum number of results, 0 for no cap"),
			},
			"required": []string{"destination"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			attractions := DiscoverAttractions(
				stringArg(args, "destination", ""),
				stringArg(args, "category", ""),
				intArg(args, "max_results", 0),
			)

			toolCtx.SetState("attraction_options", attractions)

			return map[string]any{
				"attractions":      attractions,
				"total_entry_fees": AttractionsCost(attractions),
				"total_hours":      AttractionsTime(attractions),
			}, nil
		},
	)
}

// NewRestaurantsTool discovers restaurants matching cuisine, dietary and
// price filters.
func NewRestaurantsTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"discover_restaurants",
		"Discover restaurants at a destination matching cuisine, dietary and price filters",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination": stringProp("Destination city"),
				"cuisines":    stringArrayProp("Cuisine filter, e.g. italian or japanese"),
				"dietary":     stringArrayProp("Dietary requirements, e.g. vegetarian or gluten_free"),
				"price_range": stringProp("Price band filter: $, $$, $$$ or $$$$"),
				"max_results": integerProp("Maximum number of results, 0 for no cap"),
				"people":      integerProp("Party size for cost estimation, defaults to 1"),
			},
			"required": []string{"destination"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			restaurants := DiscoverRestaurants(stringArg(args, "destination", ""), RestaurantFilter{
				Cuisines:   stringSliceArg(args, "cuisines"),
				Dietary:    stringSliceArg(args, "dietary"),
				PriceRange: stringArg(args, "price_range", ""),
				MaxResults: intArg(args, "max_results", 0),
			})

			return map[string]any{
				"restaurants":    restaurants,
				"estimated_cost": DiningCost(restaurants, intArg(args, "people", 1)),
			}, nil
		},
	)
}

// NewWeatherTool fetches the forecast with a summary, warnings and per-day
// activity advice.
func NewWeatherTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"get_weather_forecast",
		"Get the weather forecast for a destination with warnings and activity advice",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination": stringProp("Destination city"),
				"start_date":  stringProp("First forecast day in YYYY-MM-DD format"),
				"days":        integerProp("Number of days to forecast, defaults to 1"),
			},
			"required": []string{"destination", "start_date"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			forecasts, err := GetForecast(
				stringArg(args, "destination", ""),
				stringArg(args, "start_date", ""),
				intArg(args, "days", 1),
			)
			if err != nil {
				return nil, err
			}

			return map[string]any{
				"forecast": forecasts,
				"summary":  SummarizeForecast(forecasts),
				"warnings": WeatherWarnings(forecasts),
				"advice":   AdviseActivities(forecasts),
			}, nil
		},
	)
}

// NewBudgetTool allocates a trip budget across categories and suggests
// money-saving tips for the resulting tier.
func NewBudgetTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"allocate_budget",
		"Allocate a total trip budget across spending categories",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"total":    numberProp("Total trip budget"),
				"currency": stringProp("Budget currency code, defaults to USD"),
				"days":     integerProp("Trip duration in days, defaults to 1"),
			},
			"required": []string{"total"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			alloc := AllocateBudget(
				floatArg(args, "total", 0),
				stringArg(args, "currency", "USD"),
				intArg(args, "days", 1),
			)

			toolCtx.SetState("budget_allocation", alloc)

			return map[string]any{
				"allocation": alloc,
				"tips":       MoneySavingTips(alloc.Tier, intArg(args, "days", 1)),
			}, nil
		},
	)
}

// NewCurrencyTool converts amounts between currencies and reports the
// destination's daily cost profile and money-handling tips.
func NewCurrencyTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"convert_currency",
		"Convert an amount between two currencies",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"amount": numberProp("Amount to convert"),
				"from":   stringProp("Source currency code"),
				"to":     stringProp("Target currency code"),
			},
			"required": []string{"amount", "from", "to"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			return ConvertCurrency(
				floatArg(args, "amount", 0),
				stringArg(args, "from", "USD"),
				stringArg(args, "to", "USD"),
			), nil
		},
	)
}

// NewDailyCostsTool estimates daily spending at a destination in the local
// currency for a given budget tier.
func NewDailyCostsTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"estimate_daily_costs",
		"Estimate daily travel costs at a destination in its local currency",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination": stringProp("Destination city or country"),
				"tier":        stringProp("Spending tier: budget, mid_range or luxury"),
			},
			"required": []string{"destination"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			destination := stringArg(args, "destination", "")

			return map[string]any{
				"daily_costs": EstimateDailyCosts(destination, stringArg(args, "tier", TierMidRange)),
				"tips":        CurrencyTips(destination),
			}, nil
		},
	)
}

// NewItineraryTool assembles the full trip plan from the searches recorded
// in session state, falling back to fresh catalog lookups when a search has
// not run yet.
func NewItineraryTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"build_itinerary",
		"Assemble a complete day-by-day trip itinerary with cost estimates",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"destination": stringProp("Destination city"),
				"origin":      stringProp("Departure city"),
				"start_date":  stringProp("Trip start date in YYYY-MM-DD format"),
				"end_date":    stringProp("Trip end date in YYYY-MM-DD format"),
				"travelers":   integerProp("Number of travelers, defaults to 1"),
			},
			"required": []string{"destination", "start_date", "end_date"},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			req := TripRequest{
				Destination: stringArg(args, "destination", ""),
				Origin:      stringArg(args, "origin", ""),
				StartDate:   stringArg(args, "start_date", ""),
				EndDate:     stringArg(args, "end_date", ""),
				Travelers:   intArg(args, "travelers", 1),
			}

			flights := SearchFlights(req.Origin, req.Destination, req.StartDate, req.Travelers)
			hotels := SearchHotels(req.Destination)
			attractions := TopAttractions(DiscoverAttractions(req.Destination, "", 0), 5)

			itin, err := AssembleItinerary(req, flights, hotels, attractions)
			if err != nil {
				return nil, err
			}

			toolCtx.SetState("itinerary", itin)

			return itin, nil
		},
	)
}

// NewDisruptionTool analyzes live trip conditions and, when replanning is
// required, revises the itinerary stored in session state.
func NewDisruptionTool() *tool.FunctionTool {
	return tool.NewFunctionTool(
		"detect_disruptions",
		"Analyze live trip conditions for disruptions and revise the itinerary if needed",
		map[string]any{
			"type": "object",
			"properties": map[string]any{
				"flight_cancelled":   booleanProp("Whether the booked flight was cancelled"),
				"flight_delay_hours": numberProp("Flight delay in hours, 0 when on time"),
				"severe_weather":     booleanProp("Whether severe weather is expected"),
				"hotel_unavailable":  booleanProp("Whether the booked hotel became unavailable"),
				"closed_attractions": stringArrayProp("Names of attractions reported closed"),
			},
		},
		func(toolCtx *core.ToolContext, args map[string]any) (any, error) {
			assessment := DetectDisruptions(LiveConditions{
				FlightCancelled:   boolArg(args, "flight_cancelled"),
				FlightDelayHours:  floatArg(args, "flight_delay_hours", 0),
				SevereWeather:     boolArg(args, "severe_weather"),
				HotelUnavailable:  boolArg(args, "hotel_unavailable"),
				ClosedAttractions: stringSliceArg(args, "closed_attractions"),
			})

			result := map[string]any{"assessment": assessment}

			if assessment.RequiresReplanning {
				if itin, ok := currentItinerary(toolCtx); ok {
					revised, notes := ReviseItinerary(itin, assessment.Disruptions)
					toolCtx.SetState("itinerary", revised)
					result["revised_itinerary"] = revised
					result["revision_notes"] = notes
				}
			}

			return result, nil
		},
	)
}

func currentItinerary(toolCtx *core.ToolContext) (Itinerary, bool) {
	v, ok := toolCtx.GetState("itinerary")
	if !ok {
		return Itinerary{}, false
	}

	itin, ok := v.(Itinerary)

	return itin, ok
}
