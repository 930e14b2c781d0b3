package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

const (
	// confirmedAttemptCap bounds attempts when the candidate pool comes
	// from trustworthy real-time data: the first units essentially
	// always succeed, so more attempts are wasted latency.
	confirmedAttemptCap = 3
	// heuristicAttemptCap bounds attempts when only stale housekeeping
	// data nominated the pool. Low confidence warrants more tries.
	heuristicAttemptCap = 10
	// heuristicPoolThreshold separates the two regimes by pool size: a
	// pool this large only ever comes from the heuristic fallback.
	heuristicPoolThreshold = 30
)

// FailureKind classifies one failed reservation attempt.
type FailureKind int

const (
	// FailureUnitUnavailable means the specific unit was taken or
	// blocked: expected, move on to the next candidate.
	FailureUnitUnavailable FailureKind = iota
	// FailureFatal is everything else: a systemic problem that trying
	// another unit cannot fix.
	FailureFatal
)

// unitBlockedPhrases are the upstream error-message fragments that mean
// "this unit, not the request, is the problem". The upstream exposes no
// structured code for this, so phrase matching is the only signal; keep
// every phrase here and nowhere else so wording changes stay a one-line
// fix.
var unitBlockedPhrases = []string{
	"not available",
	"blocking reservation",
}

// classifyFailure maps an attempt error to a FailureKind. Only upstream
// API errors can be unit-blocked; transport errors and timeouts are
// always fatal.
func classifyFailure(err error) FailureKind {
	var apiErr *pms.APIError
	if !errors.As(err, &apiErr) {
		return FailureFatal
	}
	msg := strings.ToLower(apiErr.Message)
	for _, phrase := range unitBlockedPhrases {
		if strings.Contains(msg, phrase) {
			return FailureUnitUnavailable
		}
	}
	return FailureFatal
}

// ReservationParams are the inputs of one booking request.
type ReservationParams struct {
	CategoryID int
	RatePlanID int
	Arrival    time.Time
	Departure  time.Time
	Adults     int
	Children   int
	Guest      model.GuestInfo
}

// Orchestrator drives the reservation state machine: resolve the guest,
// select a bounded ordered list of candidate units, attempt bookings in
// order, and record successes in the working-area cache. It takes no
// lock across attempts; two concurrent callers may race for the same
// unit and the loser's "unit not available" rejection is simply the
// next retryable failure.
type Orchestrator struct {
	gw       Gateway
	catalog  *Catalog
	resolver *CandidateResolver
	working  *WorkingAreaCache
	agentID  int

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewOrchestrator wires the orchestrator for one location. rng orders
// heuristic pools; tests pass a seeded source, production passes one
// seeded from the clock.
func NewOrchestrator(gw Gateway, catalog *Catalog, resolver *CandidateResolver, working *WorkingAreaCache, agentID int, rng *rand.Rand) *Orchestrator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Orchestrator{gw: gw, catalog: catalog, resolver: resolver, working: working, agentID: agentID, rng: rng}
}

// CreateReservation finds and books one concrete unit for the requested
// category and dates. On success the unit is recorded in the
// working-area cache so an immediate retry by the same caller prefers
// it. Callers receive either a reservation or a single error describing
// what was attempted — never a partial state.
func (o *Orchestrator) CreateReservation(ctx context.Context, p ReservationParams) (pms.Reservation, error) {
	propertyID, err := o.catalog.PropertyID(ctx)
	if err != nil {
		return pms.Reservation{}, err
	}

	guestID, err := o.resolveGuest(ctx, propertyID, p.Guest)
	if err != nil {
		return pms.Reservation{}, err
	}

	arrival := p.Arrival.Format(dateLayout)
	departure := p.Departure.Format(dateLayout)

	attemptOrder, err := o.selectCandidates(ctx, p, arrival, departure)
	if err != nil {
		return pms.Reservation{}, err
	}
	if len(attemptOrder) == 0 {
		return pms.Reservation{}, fmt.Errorf("no bookable units found for category %d between %s and %s", p.CategoryID, arrival, departure)
	}

	var lastErr error
	for i, areaID := range attemptOrder {
		res, err := o.gw.CreateReservation(ctx, pms.ReservationRequest{
			PropertyID:    propertyID,
			AgentID:       o.agentID,
			Arrival:       arrival,
			Departure:     departure,
			Adults:        p.Adults,
			Children:      p.Children,
			CategoryID:    p.CategoryID,
			RateTypeID:    p.RatePlanID,
			AreaID:        areaID,
			GuestID:       guestID,
			Status:        "confirmed",
			PaymentMethod: "deferred",
		})
		if err == nil {
			o.working.RecordSuccess(p.CategoryID, p.RatePlanID, arrival, departure, areaID)
			log.Printf("reservation: booked unit %d for category %d on attempt %d (reservation %d)", areaID, p.CategoryID, i+1, res.ID)
			return res, nil
		}
		if classifyFailure(err) == FailureFatal {
			return pms.Reservation{}, fmt.Errorf("create reservation for category %d (%s to %s): %w", p.CategoryID, arrival, departure, err)
		}
		log.Printf("reservation: unit %d unavailable, trying next candidate: %v", areaID, err)
		lastErr = err
	}
	return pms.Reservation{}, fmt.Errorf("all %d candidate units exhausted for category %d between %s and %s: last error: %w",
		len(attemptOrder), p.CategoryID, arrival, departure, lastErr)
}

// resolveGuest finds the guest account by email or creates one. A
// failed search is treated as "not found"; a failed create is fatal.
func (o *Orchestrator) resolveGuest(ctx context.Context, propertyID int, g model.GuestInfo) (int, error) {
	if g.Email != "" {
		guests, err := o.gw.SearchGuests(ctx, propertyID, g.Email)
		if err != nil {
			log.Printf("reservation: guest search failed, creating a new guest: %v", err)
		} else if len(guests) > 0 {
			return guests[0].ID, nil
		}
	}
	guest, err := o.gw.CreateGuest(ctx, pms.GuestCreateRequest{
		PropertyID: propertyID,
		Given:      g.FirstName,
		Surname:    g.LastName,
		Email:      g.Email,
		Mobile:     g.Phone,
	})
	if err != nil {
		return 0, fmt.Errorf("create guest %q: %w", g.Email, err)
	}
	return guest.ID, nil
}

// selectCandidates merges resolver output with still-fresh cache hits
// and caps the attempt list. Cached units go first, but only if the
// resolver still reports them — a cached unit absent from the current
// pool must not jump the queue. Small pools are confirmed data: keep
// resolver order and cap low. Large pools are the heuristic fallback:
// shuffle before capping, because a fixed heuristic order is not
// meaningfully prioritised and would hammer the same stale entries.
func (o *Orchestrator) selectCandidates(ctx context.Context, p ReservationParams, arrival, departure string) ([]int, error) {
	candidates, err := o.resolver.Resolve(ctx, p.CategoryID, p.Arrival, p.Departure, p.Adults, p.Children)
	if err != nil {
		return nil, fmt.Errorf("resolve candidate units: %w", err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	inPool := make(map[int]bool, len(candidates))
	for _, c := range candidates {
		inPool[c.AreaID] = true
	}

	var ordered []int
	seen := map[int]bool{}
	for _, id := range o.working.CandidatesFor(p.CategoryID, p.RatePlanID, arrival, departure) {
		if inPool[id] && !seen[id] {
			ordered = append(ordered, id)
			seen[id] = true
		}
	}

	rest := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if !seen[c.AreaID] {
			rest = append(rest, c.AreaID)
			seen[c.AreaID] = true
		}
	}

	limit := confirmedAttemptCap
	if len(candidates) >= heuristicPoolThreshold {
		limit = heuristicAttemptCap
		o.rngMu.Lock()
		o.rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		o.rngMu.Unlock()
	}
	ordered = append(ordered, rest...)
	if len(ordered) > limit {
		ordered = ordered[:limit]
	}
	return ordered, nil
}
