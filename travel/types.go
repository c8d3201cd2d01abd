package travel

// TripRequest captures the user's trip parameters as collected by the
// concierge before planning begins.
type TripRequest struct {
	Destination string            `json:"destination"`
	Origin      string            `json:"origin,omitempty"`
	StartDate   string            `json:"start_date"`
	EndDate     string            `json:"end_date"`
	Budget      float64           `json:"budget,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Travelers   int               `json:"travelers"`
	Preferences map[string]string `json:"preferences,omitempty"`
}

// FlightOption is a bookable flight returned by a flight search.
type FlightOption struct {
	Airline       string  `json:"airline"`
	FlightNumber  string  `json:"flight_number"`
	Departure     string  `json:"departure"`
	Arrival       string  `json:"arrival"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Price         float64 `json:"price"`
	Currency      string  `json:"currency"`
	DurationHours float64 `json:"duration_hours"`
	Stops         int     `json:"stops"`
}

// HotelOption is an accommodation candidate.
type HotelOption struct {
	Name          string   `json:"name"`
	Location      string   `json:"location"`
	Stars         int      `json:"stars"`
	PricePerNight float64  `json:"price_per_night"`
	Currency      string   `json:"currency"`
	Amenities     []string `json:"amenities"`
	Rating        float64  `json:"rating"`
	RoomType      string   `json:"room_type"`
}

// Attraction is a point of interest at the destination.
type Attraction struct {
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Rating        float64 `json:"rating"`
	EntryFee      float64 `json:"entry_fee"`
	Currency      string  `json:"currency"`
	DurationHours float64 `json:"duration_hours"`
	Description   string  `json:"description,omitempty"`
}

// Restaurant is a dining candidate.
type Restaurant struct {
	Name           string   `json:"name"`
	Cuisine        string   `json:"cuisine"`
	PriceRange     string   `json:"price_range"`
	AvgCost        float64  `json:"avg_cost_per_person"`
	Currency       string   `json:"currency"`
	Rating         float64  `json:"rating"`
	DietaryOptions []string `json:"dietary_options"`
	Reservations   bool     `json:"reservations_recommended"`
	DistanceKM     float64  `json:"distance_km"`
}

// Forecast is a single day's weather outlook.
type Forecast struct {
	Date          string  `json:"date"`
	HighCelsius   float64 `json:"high_celsius"`
	LowCelsius    float64 `json:"low_celsius"`
	Condition     string  `json:"condition"`
	PrecipChance  float64 `json:"precipitation_chance"`
	HumidityPct   float64 `json:"humidity_pct"`
	WindKPH       float64 `json:"wind_kph"`
	Description   string  `json:"description"`
}

// WeatherSummary aggregates a multi-day forecast.
type WeatherSummary struct {
	AvgHighCelsius float64 `json:"avg_high_celsius"`
	AvgLowCelsius  float64 `json:"avg_low_celsius"`
	MaxPrecip      float64 `json:"max_precipitation_chance"`
	RainyDays      int     `json:"rainy_days"`
	TotalDays      int     `json:"total_days"`
}

// Activity is a scheduled entry inside a day plan.
type Activity struct {
	Time        string  `json:"time"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Cost        float64 `json:"cost,omitempty"`
}

// DayPlan is one day of a trip itinerary.
type DayPlan struct {
	Day         int        `json:"day"`
	Date        string     `json:"date"`
	Activities  []Activity `json:"activities"`
	Notes       string     `json:"notes,omitempty"`
	WeatherNote string     `json:"weather_note,omitempty"`
}

// Itinerary is the assembled trip plan returned to the user.
type Itinerary struct {
	Destination        string         `json:"destination"`
	DurationDays       int            `json:"duration_days"`
	Flights            []FlightOption `json:"flights,omitempty"`
	Accommodations     []HotelOption  `json:"accommodations,omitempty"`
	Attractions        []Attraction   `json:"attractions,omitempty"`
	DailySchedule      []DayPlan      `json:"daily_schedule"`
	TotalEstimatedCost float64        `json:"total_estimated_cost"`
	Summary            string         `json:"summary,omitempty"`
}

// BudgetAllocation splits a total trip budget across spending categories.
type BudgetAllocation struct {
	Total          float64 `json:"total"`
	Currency       string  `json:"currency"`
	Accommodation  float64 `json:"accommodation"`
	Transportation float64 `json:"transportation"`
	Food           float64 `json:"food"`
	Activities     float64 `json:"activities"`
	Emergency      float64 `json:"emergency"`
	Remaining      float64 `json:"remaining"`
	Tier           string  `json:"tier"`
	DailyBudget    float64 `json:"daily_budget"`
}

// ValueOption is a catalog option scored for value within a budget category.
type ValueOption struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Price      float64 `json:"price"`
	Rating     float64 `json:"rating"`
	ValueScore float64 `json:"value_score"`
	Tier       string  `json:"tier"`
	Savings    float64 `json:"savings"`
}

// ConversionResult is the outcome of a currency conversion.
type ConversionResult struct {
	Amount          float64 `json:"amount"`
	FromCurrency    string  `json:"from_currency"`
	ToCurrency      string  `json:"to_currency"`
	ConvertedAmount float64 `json:"converted_amount"`
	ExchangeRate    float64 `json:"exchange_rate"`
}

// Disruption describes an event that affects an in-progress trip.
type Disruption struct {
	Type              string   `json:"type"`
	Severity          string   `json:"severity"`
	Description       string   `json:"description"`
	AffectedSegments  []string `json:"affected_segments"`
}

// DisruptionAssessment is the outcome of analyzing live trip conditions.
type DisruptionAssessment struct {
	Disruptions        []Disruption `json:"disruptions"`
	RiskScore          int          `json:"risk_score"`
	RequiresReplanning bool         `json:"requires_replanning"`
}

// Budget tiers used across allocation, cost estimation and option scoring.
const (
	TierBudget   = "budget"
	TierMidRange = "mid_range"
	TierLuxury   = "luxury"
)

// Disruption types recognized by the monitoring logic.
const (
	DisruptionFlightCancelled   = "flight_cancelled"
	DisruptionFlightDelayed     = "flight_delayed"
	DisruptionSevereWeather     = "severe_weather"
	DisruptionHotelUnavailable  = "hotel_unavailable"
	DisruptionAttractionClosed  = "attraction_closed"
)

// Disruption severities, in ascending order of impact.
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)
