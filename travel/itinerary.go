package travel

import (
	"fmt"
	"sort"
	"time"
)

// TripDuration computes the trip length in days, inclusive of both the
// start and end date.
func TripDuration(startDate, endDate string) (int, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return 0, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return 0, fmt.Errorf("invalid end date %q: %w", endDate, err)
	}

	if end.Before(start) {
		return 0, fmt.Errorf("end date %s is before start date %s", endDate, startDate)
	}

	return int(end.Sub(start).Hours()/24) + 1, nil
}

// BuildDailySchedule distributes attractions across trip days and frames
// each day with breakfast and dinner. Days without assigned attractions get
// free exploration time instead.
func BuildDailySchedule(destination, startDate string, days int, attractions []Attraction) ([]DayPlan, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	if days < 1 {
		days = 1
	}

	perDay := len(attractions) / days
	if perDay < 1 {
		perDay = 1
	}

	schedule := make([]DayPlan, 0, days)

	for day := 0; day < days; day++ {
		plan := DayPlan{
			Day:   day + 1,
			Date:  start.AddDate(0, 0, day).Format(dateLayout),
			Notes: fmt.Sprintf("Day %d in %s", day+1, destination),
		}

		plan.Activities = append(plan.Activities, Activity{
			Time:        "09:00",
			Type:        "meal",
			Description: "Breakfast at hotel",
		})

		assigned := 0
		for i := day * perDay; i < len(attractions) && assigned < perDay; i++ {
			a := attractions[i]
			plan.Activities = append(plan.Activities, Activity{
				Time:        fmt.Sprintf("%02d:00", 10+assigned*3),
				Type:        "sightseeing",
				Description: "Visit " + a.Name,
				Cost:        a.EntryFee,
			})
			assigned++
		}

		if assigned == 0 {
			plan.Activities = append(plan.Activities, Activity{
				Time:        "10:00",
				Type:        "exploration",
				Description: "Explore " + destination,
			})
		}

		plan.Activities = append(plan.Activities, Activity{
			Time:        "19:00",
			Type:        "meal",
			Description: "Dinner at local restaurant",
		})

		schedule = append(schedule, plan)
	}

	return schedule, nil
}

// AddActivity inserts an activity into a day plan, keeping the schedule
// ordered by time.
func AddActivity(plan *DayPlan, activity Activity) {
	plan.Activities = append(plan.Activities, activity)
	sort.SliceStable(plan.Activities, func(i, j int) bool {
		return plan.Activities[i].Time < plan.Activities[j].Time
	})
}

// AssembleItinerary builds the complete trip plan from search results. The
// total cost sums the best flight, the full stay at the chosen hotel and
// all attraction entry fees.
func AssembleItinerary(req TripRequest, flights []FlightOption, hotels []HotelOption, attractions []Attraction) (Itinerary, error) {
	days, err := TripDuration(req.StartDate, req.EndDate)
	if err != nil {
		return Itinerary{}, err
	}

	schedule, err := BuildDailySchedule(req.Destination, req.StartDate, days, attractions)
	if err != nil {
		return Itinerary{}, err
	}

	var total float64

	if flight, ok := BestFlight(flights, "price"); ok {
		total += flight.Price
	}

	if hotel, ok := BestHotel(hotels, "price"); ok {
		nights := days - 1
		if nights < 1 {
			nights = 1
		}
		total += StayCost(hotel, nights, 1)
	}

	total += AttractionsCost(attractions)

	return Itinerary{
		Destination:        req.Destination,
		DurationDays:       days,
		Flights:            flights,
		Accommodations:     hotels,
		Attractions:        attractions,
		DailySchedule:      schedule,
		TotalEstimatedCost: round2(total),
		Summary:            fmt.Sprintf("%d-day trip to %s", days, req.Destination),
	}, nil
}
