package travel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchFlights_PricesScaleWithPassengers(t *testing.T) {
	flights := SearchFlights("Berlin", "Tokyo", "2026-09-01", 2)
	require.Len(t, flights, 2)

	assert.Equal(t, 700.0, flights[0].Price)
	assert.Equal(t, 400.0, flights[1].Price)
	assert.Equal(t, "2026-09-01T08:00:00", flights[0].DepartureTime)
	assert.Equal(t, 0, flights[0].Stops)
	assert.Equal(t, 1, flights[1].Stops)
}

func TestBestFlight_Preferences(t *testing.T) {
	flights := SearchFlights("Berlin", "Tokyo", "2026-09-01", 1)

	byPrice, ok := BestFlight(flights, "price")
	require.True(t, ok)
	assert.Equal(t, "Budget Air", byPrice.Airline)

	byDuration, ok := BestFlight(flights, "duration")
	require.True(t, ok)
	assert.Equal(t, "Mock Airlines", byDuration.Airline)

	byStops, ok := BestFlight(flights, "stops")
	require.True(t, ok)
	assert.Equal(t, "Mock Airlines", byStops.Airline)

	// Unrecognized preferences fall back to price.
	fallback, ok := BestFlight(flights, "vibes")
	require.True(t, ok)
	assert.Equal(t, "Budget Air", fallback.Airline)

	_, ok = BestFlight(nil, "price")
	assert.False(t, ok)
}

func TestSearchHotels_AndBestHotel(t *testing.T) {
	hotels := SearchHotels("Lisbon")
	require.Len(t, hotels, 3)
	assert.Equal(t, "Downtown Lisbon", hotels[0].Location)

	cheapest, ok := BestHotel(hotels, "price")
	require.True(t, ok)
	assert.Equal(t, "Budget Stay", cheapest.Name)

	topRated, ok := BestHotel(hotels, "rating")
	require.True(t, ok)
	assert.Equal(t, "Grand Hotel", topRated.Name)

	mostStars, ok := BestHotel(hotels, "stars")
	require.True(t, ok)
	assert.Equal(t, "Grand Hotel", mostStars.Name)
}

func TestStayCost(t *testing.T) {
	hotel := HotelOption{PricePerNight: 95}

	assert.Equal(t, 380.0, StayCost(hotel, 4, 1))
	assert.Equal(t, 760.0, StayCost(hotel, 4, 2))

	// Degenerate inputs clamp to one night, one room.
	assert.Equal(t, 95.0, StayCost(hotel, 0, 0))
}

func TestDiscoverAttractions_CategoryAndCap(t *testing.T) {
	all := DiscoverAttractions("Lisbon", "", 0)
	require.Len(t, all, 5)

	museums := DiscoverAttractions("Lisbon", "museum", 0)
	require.Len(t, museums, 1)
	assert.Equal(t, "Lisbon Museum of Art", museums[0].Name)

	capped := DiscoverAttractions("Lisbon", "", 3)
	assert.Len(t, capped, 3)
}

func TestTopAttractions_SortsByRating(t *testing.T) {
	top := TopAttractions(DiscoverAttractions("Lisbon", "", 0), 2)
	require.Len(t, top, 2)

	assert.Equal(t, "Historic Lisbon Tower", top[0].Name)
	assert.Equal(t, "Lisbon Museum of Art", top[1].Name)
}

func TestAttractionsCostAndTime(t *testing.T) {
	all := DiscoverAttractions("Lisbon", "", 0)

	assert.Equal(t, 75.0, AttractionsCost(all))
	assert.Equal(t, 11.5, AttractionsTime(all))
}

func TestDiscoverRestaurants_Filters(t *testing.T) {
	all := DiscoverRestaurants("Lisbon", RestaurantFilter{})
	require.Len(t, all, 8)

	italian := DiscoverRestaurants("Lisbon", RestaurantFilter{Cuisines: []string{"Italian"}})
	require.Len(t, italian, 1)
	assert.Equal(t, "La Bella Lisbon", italian[0].Name)

	vegan := DiscoverRestaurants("Lisbon", RestaurantFilter{Dietary: []string{"vegan"}})
	require.Len(t, vegan, 2)

	cheap := DiscoverRestaurants("Lisbon", RestaurantFilter{PriceRange: "$"})
	require.Len(t, cheap, 2)

	capped := DiscoverRestaurants("Lisbon", RestaurantFilter{MaxResults: 4})
	assert.Len(t, capped, 4)
}

func TestTopRestaurants_AndBudgetFilters(t *testing.T) {
	all := DiscoverRestaurants("Lisbon", RestaurantFilter{})

	top := TopRestaurants(all, 1)
	require.Len(t, top, 1)
	assert.Equal(t, "Le Gourmet Lisbon", top[0].Name)

	affordable := RestaurantsWithinBudget(all, 30)
	for _, r := range affordable {
		assert.LessOrEqual(t, r.AvgCost, 30.0)
	}
	assert.Len(t, affordable, 4)

	nearby := RestaurantsNearby(all, 1.0)
	require.Len(t, nearby, 2)
}

func TestDiningCost(t *testing.T) {
	meals := []Restaurant{{AvgCost: 35}, {AvgCost: 15}}

	assert.Equal(t, 50.0, DiningCost(meals, 1))
	assert.Equal(t, 100.0, DiningCost(meals, 2))
	assert.Equal(t, 50.0, DiningCost(meals, 0))
}

func TestBreakfastSpots_DefaultCuisines(t *testing.T) {
	spots := BreakfastSpots("Lisbon", nil, 0)
	require.Len(t, spots, 2)

	for _, r := range spots {
		assert.Contains(t, []string{"american", "french"}, r.Cuisine)
	}
}

func TestFlightSummary(t *testing.T) {
	f := FlightOption{
		Airline: "Mock Airlines", FlightNumber: "MA101",
		Departure: "Berlin", Arrival: "Tokyo",
		Price: 350, Currency: "USD", DurationHours: 4.0, Stops: 0,
	}

	assert.Equal(t, "Mock Airlines MA101 Berlin-Tokyo 350.00 USD (4.0h, 0 stops)", FlightSummary(f))
}
