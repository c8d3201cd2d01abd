package travel

import (
	"fmt"
	"strings"
)

var severityWeights = map[string]int{
	SeverityLow:      10,
	SeverityMedium:   30,
	SeverityHigh:     60,
	SeverityCritical: 100,
}

// LiveConditions is a snapshot of real-world signals affecting an
// in-progress trip, as reported by airline, hotel and weather feeds.
type LiveConditions struct {
	FlightCancelled   bool     `json:"flight_cancelled"`
	FlightDelayHours  float64  `json:"flight_delay_hours"`
	SevereWeather     bool     `json:"severe_weather"`
	HotelUnavailable  bool     `json:"hotel_unavailable"`
	ClosedAttractions []string `json:"closed_attractions,omitempty"`
}

// DetectDisruptions analyzes live conditions and returns the disruptions
// they imply, a cumulative risk score (capped at 100) and whether the trip
// needs replanning. Any high or critical disruption forces a replan.
func DetectDisruptions(conditions LiveConditions) DisruptionAssessment {
	var disruptions []Disruption

	if conditions.FlightCancelled {
		disruptions = append(disruptions, Disruption{
			Type:             DisruptionFlightCancelled,
			Severity:         SeverityHigh,
			Description:      "Your outbound flight has been cancelled",
			AffectedSegments: []string{"flight", "day_1_activities"},
		})
	}

	if conditions.FlightDelayHours > 3 {
		disruptions = append(disruptions, Disruption{
			Type:             DisruptionFlightDelayed,
			Severity:         SeverityMedium,
			Description:      fmt.Sprintf("Your flight is delayed by %.1f hours", conditions.FlightDelayHours),
			AffectedSegments: []string{"flight", "day_1_activities"},
		})
	}

	if conditions.SevereWeather {
		disruptions = append(disruptions, Disruption{
			Type:             DisruptionSevereWeather,
			Severity:         SeverityMedium,
			Description:      "Severe weather is expected at the destination",
			AffectedSegments: []string{"outdoor_activities"},
		})
	}

	if conditions.HotelUnavailable {
		disruptions = append(disruptions, Disruption{
			Type:             DisruptionHotelUnavailable,
			Severity:         SeverityHigh,
			Description:      "Your booked accommodation is no longer available",
			AffectedSegments: []string{"accommodation"},
		})
	}

	for _, name := range conditions.ClosedAttractions {
		disruptions = append(disruptions, Disruption{
			Type:             DisruptionAttractionClosed,
			Severity:         SeverityLow,
			Description:      fmt.Sprintf("%s is temporarily closed", name),
			AffectedSegments: []string{name},
		})
	}

	return DisruptionAssessment{
		Disruptions:        disruptions,
		RiskScore:          riskScore(disruptions),
		RequiresReplanning: requiresReplanning(disruptions),
	}
}

func riskScore(disruptions []Disruption) int {
	score := 0
	for _, d := range disruptions {
		score += severityWeights[d.Severity]
	}

	if score > 100 {
		score = 100
	}

	return score
}

func requiresReplanning(disruptions []Disruption) bool {
	for _, d := range disruptions {
		if d.Severity == SeverityHigh || d.Severity == SeverityCritical {
			return true
		}
	}

	return false
}

// Rebooking terms applied when a cancelled flight is replaced.
const (
	rebookingAirline = "Alternative Airways"
	rebookingPrice   = 450.0
	rebookingFee     = 200.0
)

var indoorAlternatives = []string{
	"Visit a museum",
	"Visit an art gallery",
	"Take an indoor market tour",
	"Join a cooking class",
}

// ReviseItinerary adjusts an itinerary to work around the detected
// disruptions and returns the revised plan with human-readable revision
// notes. The original itinerary is not modified.
func ReviseItinerary(itin Itinerary, disruptions []Disruption) (Itinerary, string) {
	revised := cloneItinerary(itin)

	var notes []string

	for _, d := range disruptions {
		switch d.Type {
		case DisruptionFlightCancelled:
			replacement := FlightOption{
				Airline:       rebookingAirline,
				FlightNumber:  "AA303",
				Price:         rebookingPrice,
				Currency:      "USD",
				DurationHours: 5.0,
				Stops:         0,
			}
			if len(itin.Flights) > 0 {
				replacement.Departure = itin.Flights[0].Departure
				replacement.Arrival = itin.Flights[0].Arrival
				replacement.DepartureTime = itin.Flights[0].DepartureTime
				replacement.ArrivalTime = itin.Flights[0].ArrivalTime
			}

			revised.Flights = []FlightOption{replacement}
			revised.TotalEstimatedCost = round2(revised.TotalEstimatedCost + rebookingFee)
			notes = append(notes, fmt.Sprintf("Rebooked on %s, a %.0f rebooking fee applies", rebookingAirline, rebookingFee))

		case DisruptionFlightDelayed:
			if len(revised.DailySchedule) > 0 && len(revised.DailySchedule[0].Activities) > 0 {
				revised.DailySchedule[0].Activities = revised.DailySchedule[0].Activities[1:]
				notes = append(notes, "Dropped the first day 1 activity to absorb the flight delay")
			}

		case DisruptionSevereWeather:
			for i := range revised.DailySchedule {
				if !hasOutdoorActivity(revised.DailySchedule[i]) {
					continue
				}

				revised.DailySchedule[i].Activities = indoorSchedule()
				revised.DailySchedule[i].WeatherNote = "Indoor activities scheduled due to severe weather"
				notes = append(notes, fmt.Sprintf("Moved day %d indoors due to severe weather", revised.DailySchedule[i].Day))

				break
			}
		}
	}

	if len(notes) == 0 {
		return revised, "Minor adjustments made"
	}

	return revised, strings.Join(notes, " | ")
}

func hasOutdoorActivity(plan DayPlan) bool {
	for _, a := range plan.Activities {
		if a.Type == "sightseeing" || a.Type == "exploration" {
			return true
		}
	}

	return false
}

func indoorSchedule() []Activity {
	activities := []Activity{{Time: "09:00", Type: "meal", Description: "Breakfast at hotel"}}

	for i, alt := range indoorAlternatives {
		activities = append(activities, Activity{
			Time:        fmt.Sprintf("%02d:00", 10+i*2),
			Type:        "indoor",
			Description: alt,
		})
	}

	return append(activities, Activity{Time: "19:00", Type: "meal", Description: "Dinner at local restaurant"})
}

func cloneItinerary(itin Itinerary) Itinerary {
	clone := itin

	clone.Flights = append([]FlightOption(nil), itin.Flights...)
	clone.Accommodations = append([]HotelOption(nil), itin.Accommodations...)
	clone.Attractions = append([]Attraction(nil), itin.Attractions...)

	clone.DailySchedule = make([]DayPlan, len(itin.DailySchedule))
	for i, day := range itin.DailySchedule {
		clone.DailySchedule[i] = day
		clone.DailySchedule[i].Activities = append([]Activity(nil), day.Activities...)
	}

	return clone
}
