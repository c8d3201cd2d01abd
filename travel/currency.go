package travel

import (
	"fmt"
	"strings"
)

// Exchange rates expressed in INR per unit of currency. Converting between
// any two currencies pivots through INR.
var exchangeRates = map[string]float64{
	"USD": 83.12,
	"EUR": 90.45,
	"GBP": 105.32,
	"JPY": 0.56,
	"INR": 1.0,
	"AUD": 54.23,
	"CAD": 61.45,
	"CHF": 95.67,
	"CNY": 11.54,
	"AED": 22.63,
	"SGD": 61.89,
	"MYR": 18.67,
	"THB": 2.35,
	"KRW": 0.063,
}

// destinationCurrencies maps destination names and regions to their local
// currency code.
var destinationCurrencies = map[string]string{
	"USA":            "USD",
	"United States":  "USD",
	"Europe":         "EUR",
	"UK":             "GBP",
	"United Kingdom": "GBP",
	"London":         "GBP",
	"Japan":          "JPY",
	"Tokyo":          "JPY",
	"India":          "INR",
	"Australia":      "AUD",
	"Canada":         "CAD",
	"Switzerland":    "CHF",
	"China":          "CNY",
	"Dubai":          "AED",
	"UAE":            "AED",
	"Singapore":      "SGD",
	"Malaysia":       "MYR",
	"Thailand":       "THB",
	"Bangkok":        "THB",
	"South Korea":    "KRW",
	"Seoul":          "KRW",
}

func rateFor(currency string) float64 {
	if rate, ok := exchangeRates[strings.ToUpper(currency)]; ok {
		return rate
	}

	return 1.0
}

// SupportedCurrencies lists the currency codes the converter knows about.
func SupportedCurrencies() []string {
	codes := make([]string, 0, len(exchangeRates))
	for code := range exchangeRates {
		codes = append(codes, code)
	}

	return codes
}

// ConvertCurrency converts an amount between two currencies. Unknown
// currencies convert at parity rather than failing, which keeps budget
// estimates usable for exotic destinations.
func ConvertCurrency(amount float64, from, to string) ConversionResult {
	fromRate := rateFor(from)
	toRate := rateFor(to)
	rate := fromRate / toRate

	return ConversionResult{
		Amount:          amount,
		FromCurrency:    strings.ToUpper(from),
		ToCurrency:      strings.ToUpper(to),
		ConvertedAmount: round2(amount * rate),
		ExchangeRate:    rate,
	}
}

// ExchangeRate returns the conversion rate from one currency to another.
func ExchangeRate(from, to string) float64 {
	return rateFor(from) / rateFor(to)
}

// DestinationCurrency resolves the local currency for a destination. Exact
// matches win; otherwise a case-insensitive substring match in either
// direction is attempted. Unknown destinations default to USD.
func DestinationCurrency(destination string) string {
	if code, ok := destinationCurrencies[destination]; ok {
		return code
	}

	lower := strings.ToLower(destination)
	for name, code := range destinationCurrencies {
		lowerName := strings.ToLower(name)
		if strings.Contains(lower, lowerName) || strings.Contains(lowerName, lower) {
			return code
		}
	}

	return "USD"
}

// DailyCostEstimate is a rough per-day spending guide in a given currency.
type DailyCostEstimate struct {
	Tier           string  `json:"tier"`
	Currency       string  `json:"currency"`
	Accommodation  float64 `json:"accommodation"`
	Food           float64 `json:"food"`
	Transportation float64 `json:"transportation"`
	Activities     float64 `json:"activities"`
	Total          float64 `json:"total"`
}

// Baseline daily costs in USD per spending tier.
var dailyCostsUSD = map[string]DailyCostEstimate{
	TierBudget:   {Tier: TierBudget, Accommodation: 30, Food: 20, Transportation: 10, Activities: 15, Total: 75},
	TierMidRange: {Tier: TierMidRange, Accommodation: 80, Food: 50, Transportation: 25, Activities: 45, Total: 200},
	TierLuxury:   {Tier: TierLuxury, Accommodation: 200, Food: 100, Transportation: 50, Activities: 100, Total: 450},
}

// EstimateDailyCosts returns expected daily spending at the destination for
// the given tier, converted into the destination's local currency. Unknown
// tiers fall back to mid-range.
func EstimateDailyCosts(destination, tier string) DailyCostEstimate {
	base, ok := dailyCostsUSD[tier]
	if !ok {
		base = dailyCostsUSD[TierMidRange]
	}

	currency := DestinationCurrency(destination)
	rate := ExchangeRate("USD", currency)

	return DailyCostEstimate{
		Tier:           base.Tier,
		Currency:       currency,
		Accommodation:  round2(base.Accommodation * rate),
		Food:           round2(base.Food * rate),
		Transportation: round2(base.Transportation * rate),
		Activities:     round2(base.Activities * rate),
		Total:          round2(base.Total * rate),
	}
}

// CurrencyTips returns practical money-handling advice for a destination,
// led by the local currency.
func CurrencyTips(destination string) []string {
	currency := DestinationCurrency(destination)

	return []string{
		fmt.Sprintf("The local currency is %s", currency),
		"Notify your bank of travel dates to avoid card blocks",
		"Prefer cards with no foreign transaction fees",
		"Avoid currency exchanges at airports, their rates are poor",
		"Withdraw local cash from bank ATMs for better rates",
		"Keep a small amount of cash for markets and tips",
	}
}
