// Package travel contains the trip planning domain: searchable mock
// catalogs for flights, hotels, attractions and restaurants, weather
// forecasting, budget allocation and optimization, currency conversion,
// itinerary assembly and disruption handling.
//
// The domain logic is exposed two ways: as plain functions usable from any
// Go code, and as FunctionTools wired into the specialist agents returned
// by NewConcierge. All catalog data is deterministic and derived from the
// destination, so planning results are reproducible in tests.
package travel
