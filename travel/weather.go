package travel

import (
	"fmt"
	"math"
	"time"
)

const dateLayout = "2006-01-02"

// GetForecast returns a deterministic day-by-day forecast for the
// destination starting at startDate. Conditions cycle through a fixed
// pattern so the same trip always plans against the same weather.
func GetForecast(destination, startDate string, days int) ([]Forecast, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startDate, err)
	}

	if days < 1 {
		days = 1
	}

	forecasts := make([]Forecast, 0, days)
	for i := 0; i < days; i++ {
		condition := "sunny"
		if i%2 != 0 {
			condition = "partly cloudy"
		}

		forecasts = append(forecasts, Forecast{
			Date:         start.AddDate(0, 0, i).Format(dateLayout),
			HighCelsius:  float64(25 + i%5),
			LowCelsius:   float64(18 + i%3),
			Condition:    condition,
			PrecipChance: float64(20 + i*5),
			HumidityPct:  float64(60 + i%10),
			WindKPH:      float64(15 + i%8),
			Description:  "Pleasant weather expected in " + destination,
		})
	}

	return forecasts, nil
}

// SummarizeForecast aggregates a forecast into trip-level figures. Days with
// a precipitation chance above 50% count as rainy.
func SummarizeForecast(forecasts []Forecast) WeatherSummary {
	if len(forecasts) == 0 {
		return WeatherSummary{}
	}

	var sumHigh, sumLow, maxPrecip float64
	rainy := 0

	for _, f := range forecasts {
		sumHigh += f.HighCelsius
		sumLow += f.LowCelsius
		if f.PrecipChance > maxPrecip {
			maxPrecip = f.PrecipChance
		}
		if f.PrecipChance > 50 {
			rainy++
		}
	}

	n := float64(len(forecasts))

	return WeatherSummary{
		AvgHighCelsius: round1(sumHigh / n),
		AvgLowCelsius:  round1(sumLow / n),
		MaxPrecip:      maxPrecip,
		RainyDays:      rainy,
		TotalDays:      len(forecasts),
	}
}

// WeatherWarnings flags days with conditions that can derail outdoor plans:
// heavy rain, extreme heat, cold snaps and strong wind.
func WeatherWarnings(forecasts []Forecast) []string {
	var warnings []string

	for _, f := range forecasts {
		if f.PrecipChance > 70 {
			warnings = append(warnings, fmt.Sprintf("High chance of rain on %s (%.0f%%)", f.Date, f.PrecipChance))
		}
		if f.HighCelsius > 35 {
			warnings = append(warnings, fmt.Sprintf("Extreme heat expected on %s (%.0f°C)", f.Date, f.HighCelsius))
		}
		if f.LowCelsius < 5 {
			warnings = append(warnings, fmt.Sprintf("Cold temperatures on %s (%.0f°C)", f.Date, f.LowCelsius))
		}
		if f.WindKPH > 40 {
			warnings = append(warnings, fmt.Sprintf("Strong winds on %s (%.0f km/h)", f.Date, f.WindKPH))
		}
	}

	return warnings
}

// DayAdvice translates a day's forecast into activity guidance.
type DayAdvice struct {
	Date              string   `json:"date"`
	OutdoorSuitable   bool     `json:"outdoor_suitable"`
	IndoorRecommended bool     `json:"indoor_recommended"`
	Advice            []string `json:"advice"`
}

// AdviseActivities produces per-day activity guidance from a forecast. Wet
// days steer the plan indoors; hot days shift outdoor time to the morning
// and evening.
func AdviseActivities(forecasts []Forecast) []DayAdvice {
	advice := make([]DayAdvice, 0, len(forecasts))

	for _, f := range forecasts {
		day := DayAdvice{Date: f.Date, OutdoorSuitable: true}

		if f.PrecipChance > 60 {
			day.OutdoorSuitable = false
			day.IndoorRecommended = true
			day.Advice = append(day.Advice, "Rain likely, plan indoor activities like museums and galleries")
		}
		if f.HighCelsius > 32 {
			day.Advice = append(day.Advice, "Stay hydrated and schedule outdoor activities for morning or evening")
		}
		if f.LowCelsius < 10 {
			day.Advice = append(day.Advice, "Pack warm clothing for the evenings")
		}

		if len(day.Advice) == 0 {
			day.Advice = append(day.Advice, "Great day for outdoor exploration!")
		}

		advice = append(advice, day)
	}

	return advice
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
