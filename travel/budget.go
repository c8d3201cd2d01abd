package travel

import (
	"math"
	"sort"
)

// Category allocation ratios for a trip budget. The 5% emergency reserve is
// intentionally excluded from spendable categories.
const (
	accommodationShare  = 0.35
	transportationShare = 0.25
	foodShare           = 0.20
	activitiesShare     = 0.15
	emergencyShare      = 0.05
)

// AllocateBudget splits a total trip budget across spending categories and
// classifies the trip into a tier based on the resulting daily budget.
func AllocateBudget(total float64, currency string, days int) BudgetAllocation {
	if days < 1 {
		days = 1
	}

	alloc := BudgetAllocation{
		Total:          total,
		Currency:       currency,
		Accommodation:  round2(total * accommodationShare),
		Transportation: round2(total * transportationShare),
		Food:           round2(total * foodShare),
		Activities:     round2(total * activitiesShare),
		Emergency:      round2(total * emergencyShare),
		DailyBudget:    round2(total / float64(days)),
	}

	allocated := alloc.Accommodation + alloc.Transportation + alloc.Food + alloc.Activities + alloc.Emergency
	alloc.Remaining = round2(total - allocated)
	alloc.Tier = TierForDailyBudget(alloc.DailyBudget)

	return alloc
}

// TierForDailyBudget classifies a daily budget: under 100 is budget, over
// 300 is luxury, everything between is mid-range.
func TierForDailyBudget(daily float64) string {
	switch {
	case daily < 100:
		return TierBudget
	case daily > 300:
		return TierLuxury
	default:
		return TierMidRange
	}
}

// OptionTier classifies a single option's price against its category
// average: below 70% of the average is budget, above 130% is luxury.
func OptionTier(price, categoryAvg float64) string {
	switch {
	case categoryAvg <= 0:
		return TierMidRange
	case price < 0.7*categoryAvg:
		return TierBudget
	case price > 1.3*categoryAvg:
		return TierLuxury
	default:
		return TierMidRange
	}
}

// CatalogOption is a generic priced option fed into value scoring,
// abstracted over hotels, flights and activities.
type CatalogOption struct {
	Name     string
	Category string
	Price    float64
	Rating   float64
	Features []string
}

// ValueScore rewards highly rated, feature-rich options relative to price.
// Free options score as if they cost one unit so they are never divided out.
func ValueScore(opt CatalogOption) float64 {
	price := opt.Price
	if price <= 0 {
		price = 1
	}

	return opt.Rating * float64(len(opt.Features)+1) / price
}

// BestValueOptions scores the options in each category against that
// category's budget, skips anything unaffordable, and returns the top three
// per category ordered by value score. Savings is measured against the
// category's average price.
func BestValueOptions(options []CatalogOption, categoryBudgets map[string]float64) map[string][]ValueOption {
	byCategory := make(map[string][]CatalogOption)
	for _, opt := range options {
		byCategory[opt.Category] = append(byCategory[opt.Category], opt)
	}

	result := make(map[string][]ValueOption)

	for category, opts := range byCategory {
		var sum float64
		for _, opt := range opts {
			sum += opt.Price
		}
		avg := sum / float64(len(opts))

		budget, hasBudget := categoryBudgets[category]

		var scored []ValueOption
		for _, opt := range opts {
			if hasBudget && opt.Price > budget {
				continue
			}

			scored = append(scored, ValueOption{
				Name:       opt.Name,
				Category:   category,
				Price:      opt.Price,
				Rating:     opt.Rating,
				ValueScore: ValueScore(opt),
				Tier:       OptionTier(opt.Price, avg),
				Savings:    round2(math.Max(0, avg-opt.Price)),
			})
		}

		sort.SliceStable(scored, func(i, j int) bool { return scored[i].ValueScore > scored[j].ValueScore })

		if len(scored) > 3 {
			scored = scored[:3]
		}

		result[category] = scored
	}

	return result
}

// MoneySavingTips suggests ways to stretch the budget, tailored to the trip
// tier. Week-long stays unlock weekly-rate advice.
func MoneySavingTips(tier string, durationDays int) []string {
	var tips []string

	switch tier {
	case TierBudget:
		tips = append(tips,
			"Stay in hostels or guesthouses instead of hotels",
			"Use public transportation instead of taxis",
			"Eat at local markets and street food stalls",
		)
	case TierLuxury:
		tips = append(tips,
			"Book luxury hotels well in advance for better rates",
			"Use a premium travel card for lounge access and upgrades",
		)
	default:
		tips = append(tips,
			"Book accommodations with free cancellation to catch price drops",
			"Mix street food days with restaurant dinners",
			"Look for city passes that bundle attraction entry fees",
		)
	}

	if durationDays >= 7 {
		tips = append(tips,
			"Ask about weekly rates at your accommodation",
			"Buy a weekly public transit pass instead of single tickets",
		)
	}

	return tips
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
