package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

// dateLayout is the calendar-date format used on the upstream wire and
// in HTTP query parameters.
const dateLayout = "2006-01-02"

// SearchParams are the inputs of one availability search. Departure
// must be strictly after Arrival; handlers validate that before calling.
type SearchParams struct {
	Arrival   time.Time
	Departure time.Time
	Adults    int
	Children  int
	Keyword   string
}

// SearchResult is what the aggregator hands back. The search endpoint
// is read-only and must degrade gracefully, so upstream failures are
// folded into an empty Options list with a human message and the raw
// error detail rather than surfaced as hard errors.
type SearchResult struct {
	Options []model.AvailabilityOption `json:"options"`
	Message string                     `json:"message"`
	Error   string                     `json:"error,omitempty"`
}

// Availability merges per-category rate-plan quotes from the combined
// pricing grid into a ranked, de-duplicated list of sellable options.
type Availability struct {
	gw      Gateway
	catalog *Catalog
	agentID int
}

// NewAvailability wires the aggregator to one location's gateway and
// catalog.
func NewAvailability(gw Gateway, catalog *Catalog, agentID int) *Availability {
	return &Availability{gw: gw, catalog: catalog, agentID: agentID}
}

// Search resolves candidate categories, collects the union of their
// rate plans and queries the combined grid. An option makes the cut
// only when every night of the stay has at least one available unit and
// the summed rate is positive; its available-unit count is the minimum
// across nights. Results are sorted cheapest first.
func (s *Availability) Search(ctx context.Context, p SearchParams) SearchResult {
	propertyID, err := s.catalog.PropertyID(ctx)
	if err != nil {
		return softFailure(err)
	}

	cats, err := s.catalog.CategoriesByKeyword(ctx, p.Keyword)
	if err != nil {
		return softFailure(err)
	}

	var categoryIDs []int
	for _, cat := range cats {
		if cat.Inactive || cat.NumberOfAreas == 0 || !cat.AvailableToIBE {
			continue
		}
		categoryIDs = append(categoryIDs, cat.ID)
	}
	if len(categoryIDs) == 0 {
		return SearchResult{Options: []model.AvailabilityOption{}, Message: "No bookable room categories are configured for this property"}
	}

	// The grid call requires the category list and the rate list
	// together, so collect the de-duplicated union of rate plan ids
	// across every surviving category up front.
	seen := map[int]bool{}
	var rateIDs []int
	for _, id := range categoryIDs {
		plans, err := s.catalog.RatePlans(ctx, id)
		if err != nil {
			return softFailure(err)
		}
		for _, plan := range plans {
			if !seen[plan.ID] {
				seen[plan.ID] = true
				rateIDs = append(rateIDs, plan.ID)
			}
		}
	}
	if len(rateIDs) == 0 {
		return SearchResult{Options: []model.AvailabilityOption{}, Message: "No rate plans are configured for the selected categories"}
	}

	grid, err := s.gw.GetRatesGrid(ctx, pms.RatesGridRequest{
		PropertyID:  propertyID,
		AgentID:     s.agentID,
		Arrival:     p.Arrival.Format(dateLayout),
		Departure:   p.Departure.Format(dateLayout),
		Adults:      p.Adults,
		Children:    p.Children,
		CategoryIDs: categoryIDs,
		RateIDs:     rateIDs,
	})
	if err != nil {
		log.Printf("availability: grid query failed: %v", err)
		return softFailure(err)
	}

	options := collectOptions(grid)
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].TotalPrice < options[j].TotalPrice
	})

	msg := "No rooms available for the selected dates"
	if len(options) > 0 {
		msg = fmt.Sprintf("Found %d available option(s)", len(options))
	}
	return SearchResult{Options: options, Message: msg}
}

// collectOptions flattens the grid into options, dropping any pairing
// with a zero-availability night or a non-positive total. The tightest
// night governs the option's available-unit count.
func collectOptions(grid pms.RatesGridResponse) []model.AvailabilityOption {
	options := []model.AvailabilityOption{}
	for _, cat := range grid.Categories {
		for _, rate := range cat.Rates {
			if len(rate.DayBreakdown) == 0 {
				continue
			}
			total := 0.0
			minAvail := rate.DayBreakdown[0].AvailableAreas
			sellable := true
			for _, day := range rate.DayBreakdown {
				if day.AvailableAreas <= 0 {
					sellable = false
					break
				}
				if day.AvailableAreas < minAvail {
					minAvail = day.AvailableAreas
				}
				total += day.DailyRate
			}
			if !sellable || total <= 0 {
				continue
			}
			options = append(options, model.AvailabilityOption{
				CategoryID:     cat.CategoryID,
				CategoryName:   cat.Name,
				RatePlanID:     rate.RateID,
				RatePlanName:   rate.Name,
				TotalPrice:     total,
				AvailableAreas: minAvail,
			})
		}
	}
	return options
}

func softFailure(err error) SearchResult {
	return SearchResult{
		Options: []model.AvailabilityOption{},
		Message: "Availability is temporarily unavailable, please retry shortly",
		Error:   err.Error(),
	}
}
