package service

import (
	"context"
	"log"
	"time"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

// occupiedStatus is the housekeeping state that disqualifies a unit
// from the heuristic fallback. Everything else, maintenance included,
// only biases ordering: the upstream may still accept a "Maintenance"
// unit, so it is not a hard block here.
const occupiedStatus = "Occupied"

// CandidateResolver determines which physical units are plausible
// booking targets for a category and date range. The real-time
// available-areas query is the primary source; the cached area listing
// with its stale housekeeping status is the fallback.
type CandidateResolver struct {
	gw      Gateway
	catalog *Catalog
}

// NewCandidateResolver wires a resolver to one location's gateway and
// catalog.
func NewCandidateResolver(gw Gateway, catalog *Catalog) *CandidateResolver {
	return &CandidateResolver{gw: gw, catalog: catalog}
}

// Resolve returns candidate units ordered by source confidence.
//
// Primary path: the real-time available-areas query. Any non-empty
// answer is returned immediately as confirmed candidates. Fallback
// path (upstream error or explicitly empty answer): units of the
// category whose last-known housekeeping status is not occupied and
// that are active. If even that filter empties the pool, the full
// unfiltered unit list of the category is the last resort — occupied
// units included, because the status may simply be stale.
func (r *CandidateResolver) Resolve(ctx context.Context, categoryID int, arrival, departure time.Time, adults, children int) ([]model.AreaCandidate, error) {
	propertyID, err := r.catalog.PropertyID(ctx)
	if err != nil {
		return nil, err
	}

	areas, err := r.gw.GetAvailableAreas(ctx, pms.AvailableAreasRequest{
		PropertyID: propertyID,
		CategoryID: categoryID,
		Arrival:    arrival.Format(dateLayout),
		Departure:  departure.Format(dateLayout),
		Adults:     adults,
		Children:   children,
	})
	if err != nil {
		log.Printf("areas: available-areas query failed for category %d, using housekeeping fallback: %v", categoryID, err)
	} else if len(areas) > 0 {
		candidates := make([]model.AreaCandidate, 0, len(areas))
		for _, a := range areas {
			candidates = append(candidates, model.AreaCandidate{AreaID: a.ID, Confidence: model.ConfidenceConfirmed})
		}
		return candidates, nil
	}

	all, err := r.catalog.AreasForCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	var pool []pms.Area
	for _, a := range all {
		if a.Inactive || a.CleanStatus == occupiedStatus {
			continue
		}
		pool = append(pool, a)
	}
	if len(pool) == 0 {
		// Last resort: every unit of the category. The upstream is the
		// source of truth and will reject units that really are taken.
		pool = all
	}

	candidates := make([]model.AreaCandidate, 0, len(pool))
	for _, a := range pool {
		candidates = append(candidates, model.AreaCandidate{AreaID: a.ID, Confidence: model.ConfidenceHeuristic})
	}
	return candidates, nil
}
