package travel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttravel/smarttravel/core"
	"github.com/smarttravel/smarttravel/logging"
)

func newToolContext(t *testing.T) *core.ToolContext {
	t.Helper()

	emit := make(chan core.Event, 16)
	runCtx := core.NewRunContext(
		context.Background(),
		"trip-session",
		"run-1",
		core.AgentInfo{Name: "TestAgent", Type: "agent"},
		core.Content{Role: "user", Parts: []core.Part{core.TextPart{Text: "plan my trip"}}},
		0,
		emit,
		nil,
		core.NewSession("trip-session"),
		nil,
		nil,
		nil,
		logging.NoOpLogger{},
	)

	return core.NewToolContext(runCtx, "fc-1")
}

func TestFlightSearchTool(t *testing.T) {
	toolCtx := newToolContext(t)

	result, err := NewFlightSearchTool().Call(toolCtx, map[string]any{
		"origin":      "Berlin",
		"destination": "Tokyo",
		"date":        "2026-09-01",
		"passengers":  float64(2),
	})
	require.NoError(t, err)

	payload, ok := result.(map[string]any)
	require.True(t, ok)

	flights, ok := payload["flights"].([]FlightOption)
	require.True(t, ok)
	require.Len(t, flights, 2)

	best, ok := payload["best"].(FlightOption)
	require.True(t, ok)
	assert.Equal(t, "Budget Air", best.Airline)
	assert.Equal(t, 400.0, best.Price)

	// Search results land in session state for downstream agents.
	_, ok = toolCtx.GetState("flight_options")
	assert.True(t, ok)
}

func TestFlightSearchTool_MissingRequiredArgs(t *testing.T) {
	_, err := NewFlightSearchTool().Call(newToolContext(t), map[string]any{"origin": "Berlin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestHotelSearchTool(t *testing.T) {
	result, err := NewHotelSearchTool().Call(newToolContext(t), map[string]any{
		"destination": "Lisbon",
		"nights":      float64(4),
		"preference":  "rating",
	})
	require.NoError(t, err)

	payload := result.(map[string]any)

	best := payload["best"].(HotelOption)
	assert.Equal(t, "Grand Hotel", best.Name)
	assert.Equal(t, 1000.0, payload["total_cost"])
}

func TestAttractionsTool(t *testing.T) {
	result, err := NewAttractionsTool().Call(newToolContext(t), map[string]any{
		"destination": "Lisbon",
		"category":    "museum",
	})
	require.NoError(t, err)

	payload := result.(map[string]any)

	attractions := payload["attractions"].([]Attraction)
	require.Len(t, attractions, 1)
	assert.Equal(t, 25.0, payload["total_entry_fees"])
	assert.Equal(t, 3.0, payload["total_hours"])
}

func TestRestaurantsTool(t *testing.T) {
	result, err := NewRestaurantsTool().Call(newToolContext(t), map[string]any{
		"destination": "Lisbon",
		"cuisines":    []any{"italian"},
		"people":      float64(2),
	})
	require.NoError(t, err)

	payload := result.(map[string]any)

	restaurants := payload["restaurants"].([]Restaurant)
	require.Len(t, restaurants, 1)
	assert.Equal(t, 70.0, payload["estimated_cost"])
}

func TestWeatherTool(t *testing.T) {
	result, err := NewWeatherTool().Call(newToolContext(t), map[string]any{
		"destination": "Lisbon",
		"start_date":  "2026-09-01",
		"days":        float64(3),
	})
	require.NoError(t, err)

	payload := result.(map[string]any)

	forecast := payload["forecast"].([]Forecast)
	assert.Len(t, forecast, 3)

	summary := payload["summary"].(WeatherSummary)
	assert.Equal(t, 3, summary.TotalDays)
}

func TestWeatherTool_InvalidDate(t *testing.T) {
	_, err := NewWeatherTool().Call(newToolContext(t), map[string]any{
		"destination": "Lisbon",
		"start_date":  "whenever",
	})
	require.Error(t, err)
}

func TestBudgetTool(t *testing.T) {
	toolCtx := newToolContext(t)

	result, err := NewBudgetTool().Call(toolCtx, map[string]any{
		"total": float64(2000),
		"days":  float64(10),
	})
	require.NoError(t, err)

	payload := result.(map[string]any)

	alloc := payload["allocation"].(BudgetAllocation)
	assert.Equal(t, TierMidRange, alloc.Tier)
	assert.Equal(t, 700.0, alloc.Accommodation)

	tips := payload["tips"].([]string)
	assert.NotEmpty(t, tips)

	_, ok := toolCtx.GetState("budget_allocation")
	assert.True(t, ok)
}

func TestCurrencyTool(t *testing.T) {
	result, err := NewCurrencyTool().Call(newToolContext(t), map[string]any{
		"amount": float64(100),
		"from":   "USD",
		"to":     "INR",
	})
	require.NoError(t, err)

	conversion := result.(ConversionResult)
	assert.InDelta(t, 8312.0, conversion.ConvertedAmount, 0.01)
}

func TestDailyCostsTool(t *testing.T) {
	result, err := NewDailyCostsTool().Call(newToolContext(t), map[string]any{
		"destination": "Japan",
		"tier":        TierLuxury,
	})
	require.NoError(t, err)

	payload := result.(map[string]any)

	costs := payload["daily_costs"].(DailyCostEstimate)
	assert.Equal(t, "JPY", costs.Currency)
	assert.Equal(t, TierLuxury, costs.Tier)
}

func TestItineraryTool(t *testing.T) {
	toolCtx := newToolContext(t)

	result, err := NewItineraryTool().Call(toolCtx, map[string]any{
		"destination": "Lisbon",
		"origin":      "Berlin",
		"start_date":  "2026-09-01",
		"end_date":    "2026-09-04",
	})
	require.NoError(t, err)

	itin := result.(Itinerary)
	assert.Equal(t, 4, itin.DurationDays)
	require.Len(t, itin.DailySchedule, 4)

	_, ok := toolCtx.GetState("itinerary")
	assert.True(t, ok)
}

func TestDisruptionTool_RevisesStoredItinerary(t *testing.T) {
	toolCtx := newToolContext(t)

	// Plan first so the disruption tool has an itinerary to revise.
	_, err := NewItineraryTool().Call(toolCtx, map[string]any{
		"destination": "Lisbon",
		"origin":      "Berlin",
		"start_date":  "2026-09-01",
		"end_date":    "2026-09-04",
	})
	require.NoError(t, err)

	result, err := NewDisruptionTool().Call(toolCtx, map[string]any{
		"flight_cancelled": true,
	})
	require.NoError(t, err)

	payload := result.(map[string]any)

	assessment := payload["assessment"].(DisruptionAssessment)
	assert.True(t, assessment.RequiresReplanning)

	revised, ok := payload["revised_itinerary"].(Itinerary)
	require.True(t, ok)
	assert.Equal(t, "Alternative Airways", revised.Flights[0].Airline)
	assert.Contains(t, payload["revision_notes"], "Rebooked")
}

func TestDisruptionTool_NoDisruptions(t *testing.T) {
	result, err := NewDisruptionTool().Call(newToolContext(t), map[string]any{})
	require.NoError(t, err)

	payload := result.(map[string]any)

	assessment := payload["assessment"].(DisruptionAssessment)
	assert.False(t, assessment.RequiresReplanning)
	assert.NotContains(t, payload, "revised_itinerary")
}
