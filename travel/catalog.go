package travel

import (
	"fmt"
	"sort"
	"strings"
)

// SearchFlights returns flight options between two cities on the given date.
// Prices scale with passenger count. The catalog always offers a direct
// premium option and a cheaper one-stop option.
func SearchFlights(origin, destination, date string, passengers int) []FlightOption {
	if passengers < 1 {
		passengers = 1
	}

	return []FlightOption{
		{
			Airline:       "Mock Airlines",
			FlightNumber:  "MA101",
			Departure:     origin,
			Arrival:       destination,
			DepartureTime: date + "T08:00:00",
			ArrivalTime:   date + "T12:00:00",
			Price:         350 * float64(passengers),
			Currency:      "USD",
			DurationHours: 4.0,
			Stops:         0,
		},
		{
			Airline:       "Budget Air",
			FlightNumber:  "BA202",
			Departure:     origin,
			Arrival:       destination,
			DepartureTime: date + "T14:00:00",
			ArrivalTime:   date + "T20:00:00",
			Price:         200 * float64(passengers),
			Currency:      "USD",
			DurationHours: 6.0,
			Stops:         1,
		},
	}
}

// BestFlight picks the preferred option from a flight list. Recognized
// preferences are "price", "duration" and "stops"; anything else falls back
// to price.
func BestFlight(flights []FlightOption, preference string) (FlightOption, bool) {
	if len(flights) == 0 {
		return FlightOption{}, false
	}

	best := flights[0]
	for _, f := range flights[1:] {
		switch preference {
		case "duration":
			if f.DurationHours < best.DurationHours {
				best = f
			}
		case "stops":
			if f.Stops < best.Stops {
				best = f
			}
		default:
			if f.Price < best.Price {
				best = f
			}
		}
	}

	return best, true
}

// SearchHotels returns accommodation candidates at the destination across
// three price tiers.
func SearchHotels(destination string) []HotelOption {
	return []HotelOption{
		{
			Name:          "Grand Hotel",
			Location:      "Downtown " + destination,
			Stars:         5,
			PricePerNight: 250,
			Currency:      "USD",
			Amenities:     []string{"WiFi", "Pool", "Spa", "Restaurant", "Gym"},
			Rating:        4.8,
			RoomType:      "Deluxe",
		},
		{
			Name:          "City Inn",
			Location:      "Central " + destination,
			Stars:         3,
			PricePerNight: 95,
			Currency:      "USD",
			Amenities:     []string{"WiFi", "Breakfast", "Parking"},
			Rating:        4.2,
			RoomType:      "Standard",
		},
		{
			Name:          "Budget Stay",
			Location:      destination + " Suburbs",
			Stars:         2,
			PricePerNight: 55,
			Currency:      "USD",
			Amenities:     []string{"WiFi", "Parking"},
			Rating:        3.8,
			RoomType:      "Basic",
		},
	}
}

// BestHotel picks the preferred hotel. Recognized preferences are "price"
// (cheapest), "rating" (highest guest rating) and "stars" (most stars);
// anything else falls back to price.
func BestHotel(hotels []HotelOption, preference string) (HotelOption, bool) {
	if len(hotels) == 0 {
		return HotelOption{}, false
	}

	best := hotels[0]
	for _, h := range hotels[1:] {
		switch preference {
		case "rating":
			if h.Rating > best.Rating {
				best = h
			}
		case "stars":
			if h.Stars > best.Stars {
				best = h
			}
		default:
			if h.PricePerNight < best.PricePerNight {
				best = h
			}
		}
	}

	return best, true
}

// StayCost computes the total accommodation cost for a stay.
func StayCost(hotel HotelOption, nights, rooms int) float64 {
	if nights < 1 {
		nights = 1
	}
	if rooms < 1 {
		rooms = 1
	}

	return hotel.PricePerNight * float64(nights) * float64(rooms)
}

// DiscoverAttractions returns points of interest at the destination,
// optionally filtered by category and capped at maxResults. A maxResults of
// zero or below means no cap.
func DiscoverAttractions(destination, category string, maxResults int) []Attraction {
	all := []Attraction{
		{Name: destination + " Museum of Art", Category: "museum", Rating: 4.7, EntryFee: 25.0, Currency: "USD", DurationHours: 3.0},
		{Name: destination + " Central Park", Category: "park", Rating: 4.5, EntryFee: 0, Currency: "USD", DurationHours: 2.0},
		{Name: "Historic " + destination + " Tower", Category: "landmark", Rating: 4.8, EntryFee: 15.0, Currency: "USD", DurationHours: 1.5},
		{Name: destination + " Food Market", Category: "food", Rating: 4.6, EntryFee: 0, Currency: "USD", DurationHours: 2.0},
		{Name: destination + " Walking Tour", Category: "tour", Rating: 4.4, EntryFee: 35.0, Currency: "USD", DurationHours: 3.0},
	}

	var results []Attraction
	for _, a := range all {
		if category != "" && a.Category != category {
			continue
		}

		results = append(results, a)
	}

	if maxResults > 0 && len(results) > maxResults {
		results = results[:maxResults]
	}

	return results
}

// TopAttractions returns the n highest-rated attractions.
func TopAttractions(attractions []Attraction, n int) []Attraction {
	sorted := make([]Attraction, len(attractions))
	copy(sorted, attractions)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// AttractionsCost sums entry fees across a set of attractions.
func AttractionsCost(attractions []Attraction) float64 {
	var total float64
	for _, a := range attractions {
		total += a.EntryFee
	}

	return total
}

// AttractionsTime sums visit durations across a set of attractions.
func AttractionsTime(attractions []Attraction) float64 {
	var total float64
	for _, a := range attractions {
		total += a.DurationHours
	}

	return total
}

// RestaurantFilter narrows a restaurant search. Zero values disable the
// corresponding filter.
type RestaurantFilter struct {
	Cuisines   []string
	Dietary    []string
	PriceRange string
	MaxResults int
}

// DiscoverRestaurants returns dining candidates at the destination matching
// the filter. Dietary filtering requires at least one overlap between the
// requested and offered options.
func DiscoverRestaurants(destination string, filter RestaurantFilter) []Restaurant {
	all := []Restaurant{
		{Name: "La Bella " + destination, Cuisine: "italian", PriceRange: "$$", AvgCost: 35, Currency: "USD", Rating: 4.6, DietaryOptions: []string{"vegetarian"}, Reservations: true, DistanceKM: 1.2},
		{Name: destination + " Sushi Bar", Cuisine: "japanese", PriceRange: "$$$", AvgCost: 65, Currency: "USD", Rating: 4.8, DietaryOptions: []string{"gluten_free"}, Reservations: true, DistanceKM: 2.5},
		{Name: "Spice of " + destination, Cuisine: "indian", PriceRange: "$$", AvgCost: 30, Currency: "USD", Rating: 4.5, DietaryOptions: []string{"vegetarian", "vegan"}, Reservations: false, DistanceKM: 0.8},
		{Name: "Green Garden Bistro", Cuisine: "vegetarian", PriceRange: "$$", AvgCost: 28, Currency: "USD", Rating: 4.7, DietaryOptions: []string{"vegetarian", "vegan", "gluten_free"}, Reservations: false, DistanceKM: 1.5},
		{Name: destination + " Street Food Market", Cuisine: "international", PriceRange: "$", AvgCost: 15, Currency: "USD", Rating: 4.4, DietaryOptions: []string{"vegetarian"}, Reservations: false, DistanceKM: 0.5},
		{Name: "Le Gourmet " + destination, Cuisine: "french", PriceRange: "$$$$", AvgCost: 120, Currency: "USD", Rating: 4.9, DietaryOptions: nil, Reservations: true, DistanceKM: 3.0},
		{Name: "Taco Fiesta", Cuisine: "mexican", PriceRange: "$", AvgCost: 20, Currency: "USD", Rating: 4.3, DietaryOptions: []string{"vegetarian"}, Reservations: false, DistanceKM: 1.8},
		{Name: destination + " BBQ House", Cuisine: "american", PriceRange: "$$$", AvgCost: 70, Currency: "USD", Rating: 4.5, DietaryOptions: nil, Reservations: true, DistanceKM: 2.2},
	}

	var results []Restaurant
	for _, r := range all {
		if len(filter.Cuisines) > 0 && !containsFold(filter.Cuisines, r.Cuisine) {
			continue
		}
		if filter.PriceRange != "" && r.PriceRange != filter.PriceRange {
			continue
		}
		if len(filter.Dietary) > 0 && !anyOverlapFold(filter.Dietary, r.DietaryOptions) {
			continue
		}

		results = append(results, r)
	}

	if filter.MaxResults > 0 && len(results) > filter.MaxResults {
		results = results[:filter.MaxResults]
	}

	return results
}

// TopRestaurants returns the n highest-rated restaurants.
func TopRestaurants(restaurants []Restaurant, n int) []Restaurant {
	sorted := make([]Restaurant, len(restaurants))
	copy(sorted, restaurants)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Rating > sorted[j].Rating })

	if n > 0 && len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

// RestaurantsWithinBudget keeps restaurants whose average per-person cost
// does not exceed maxPerPerson.
func RestaurantsWithinBudget(restaurants []Restaurant, maxPerPerson float64) []Restaurant {
	var results []Restaurant
	for _, r := range restaurants {
		if r.AvgCost <= maxPerPerson {
			results = append(results, r)
		}
	}

	return results
}

// RestaurantsNearby keeps restaurants within maxKM of the traveler.
func RestaurantsNearby(restaurants []Restaurant, maxKM float64) []Restaurant {
	var results []Restaurant
	for _, r := range restaurants {
		if r.DistanceKM <= maxKM {
			results = append(results, r)
		}
	}

	return results
}

// DiningCost estimates the total cost of a set of meals for a party.
func DiningCost(restaurants []Restaurant, people int) float64 {
	if people < 1 {
		people = 1
	}

	var total float64
	for _, r := range restaurants {
		total += r.AvgCost * float64(people)
	}

	return total
}

// BreakfastSpots suggests breakfast-friendly restaurants. Without explicit
// cuisines the search defaults to american and french kitchens.
func BreakfastSpots(destination string, cuisines []string, maxResults int) []Restaurant {
	if len(cuisines) == 0 {
		cuisines = []string{"american", "french"}
	}

	return DiscoverRestaurants(destination, RestaurantFilter{Cuisines: cuisines, MaxResults: maxResults})
}

func containsFold(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.EqualFold(s, needle) {
			return true
		}
	}

	return false
}

func anyOverlapFold(want, have []string) bool {
	for _, w := range want {
		if containsFold(have, w) {
			return true
		}
	}

	return false
}

// FlightSummary renders a compact one-line description of a flight.
func FlightSummary(f FlightOption) string {
	return fmt.Sprintf("%s %s %s-%s %.2f %s (%.1fh, %d stops)",
		f.Airline, f.FlightNumber, f.Departure, f.Arrival, f.Price, f.Currency, f.DurationHours, f.Stops)
}
