package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"plain transport error", errors.New("connection refused"), FailureFatal},
		{"unit not available", &pms.APIError{Status: 400, Message: "Site 501 is not available for these dates"}, FailureUnitUnavailable},
		{"blocking reservation, mixed case", &pms.APIError{Status: 400, Message: "A Blocking Reservation exists on this site"}, FailureUnitUnavailable},
		{"wrapped unit error", fmt.Errorf("attempt: %w", &pms.APIError{Status: 400, Message: "area not available"}), FailureUnitUnavailable},
		{"other api error", &pms.APIError{Status: 400, Message: "rate type is not valid for this agent"}, FailureFatal},
		{"upstream 500", &pms.APIError{Status: 500, Message: "internal server error"}, FailureFatal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyFailure(tc.err))
		})
	}
}

// orchestratorFixture wires an orchestrator over a fake gateway with a
// small confirmed pool and a known guest.
func newTestOrchestrator(gw *fakeGateway, rng *rand.Rand) *Orchestrator {
	catalog := NewCatalog(gw, 1, "")
	resolver := NewCandidateResolver(gw, catalog)
	working := NewWorkingAreaCache()
	return NewOrchestrator(gw, catalog, resolver, working, 7, rng)
}

func testReservationParams() ReservationParams {
	return ReservationParams{
		CategoryID: 10,
		RatePlanID: 5,
		Arrival:    testArrival,
		Departure:  testDeparture,
		Adults:     2,
		Guest:      model.GuestInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com"},
	}
}

func TestCreateReservationRetriesBlockedUnits(t *testing.T) {
	var attempted []int
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return []pms.Guest{{ID: 42, Email: email}}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			return []pms.Area{{ID: 501}, {ID: 502}, {ID: 9001}}, nil
		},
		createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
			attempted = append(attempted, req.AreaID)
			if req.AreaID != 9001 {
				return pms.Reservation{}, &pms.APIError{Status: 400, Message: fmt.Sprintf("Site %d is not available for these dates", req.AreaID)}
			}
			return pms.Reservation{ID: 777, AreaID: req.AreaID, Arrival: req.Arrival, Departure: req.Departure, Status: "confirmed"}, nil
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	res, err := o.CreateReservation(context.Background(), testReservationParams())
	require.NoError(t, err)
	assert.Equal(t, 777, res.ID)
	assert.Equal(t, 9001, res.AreaID)
	assert.Equal(t, []int{501, 502, 9001}, attempted, "confirmed pools are attempted in resolver order")

	// The winning unit is now cached for the exact stay and leads the
	// next attempt order.
	cached := o.working.CandidatesFor(10, 5, "2026-03-10", "2026-03-12")
	assert.Equal(t, []int{9001}, cached)
}

func TestCreateReservationAbortsOnFatalError(t *testing.T) {
	attempts := 0
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return []pms.Guest{{ID: 42}}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			return []pms.Area{{ID: 501}, {ID: 502}}, nil
		},
		createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
			attempts++
			return pms.Reservation{}, &pms.APIError{Status: 400, Message: "rate type is not valid for this agent"}
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	_, err := o.CreateReservation(context.Background(), testReservationParams())
	require.Error(t, err)
	assert.Equal(t, 1, attempts, "a fatal failure must not burn the remaining candidates")

	var apiErr *pms.APIError
	assert.True(t, errors.As(err, &apiErr), "the upstream error must stay unwrappable")
}

func TestCreateReservationCapsConfirmedAttempts(t *testing.T) {
	attempts := 0
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return []pms.Guest{{ID: 42}}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			areas := make([]pms.Area, 8)
			for i := range areas {
				areas[i] = pms.Area{ID: 500 + i}
			}
			return areas, nil
		},
		createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
			attempts++
			return pms.Reservation{}, &pms.APIError{Status: 400, Message: "site is not available"}
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	_, err := o.CreateReservation(context.Background(), testReservationParams())
	require.Error(t, err)
	assert.Equal(t, confirmedAttemptCap, attempts)
	assert.Contains(t, err.Error(), "candidate units exhausted")
}

func TestCreateReservationCapsHeuristicAttempts(t *testing.T) {
	attempts := 0
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return []pms.Guest{{ID: 42}}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			return nil, errors.New("availability endpoint down")
		},
		listAreas: func(ctx context.Context, propertyID int) ([]pms.Area, error) {
			areas := make([]pms.Area, 40)
			for i := range areas {
				areas[i] = pms.Area{ID: 500 + i, CategoryID: 10, CleanStatus: "Clean"}
			}
			return areas, nil
		},
		createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
			attempts++
			return pms.Reservation{}, &pms.APIError{Status: 400, Message: "site is not available"}
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(7)))

	_, err := o.CreateReservation(context.Background(), testReservationParams())
	require.Error(t, err)
	assert.Equal(t, heuristicAttemptCap, attempts, "a large heuristic pool widens the cap but never exceeds it")
}

func TestCreateReservationHeuristicOrderIsSeedDriven(t *testing.T) {
	pool := func() []pms.Area {
		areas := make([]pms.Area, 40)
		for i := range areas {
			areas[i] = pms.Area{ID: 500 + i, CategoryID: 10, CleanStatus: "Clean"}
		}
		return areas
	}
	run := func(seed int64) []int {
		var attempted []int
		gw := &fakeGateway{
			searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
				return []pms.Guest{{ID: 42}}, nil
			},
			getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
				return nil, nil
			},
			listAreas: func(ctx context.Context, propertyID int) ([]pms.Area, error) {
				return pool(), nil
			},
			createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
				attempted = append(attempted, req.AreaID)
				return pms.Reservation{}, &pms.APIError{Status: 400, Message: "site is not available"}
			},
		}
		o := newTestOrchestrator(gw, rand.New(rand.NewSource(seed)))
		_, _ = o.CreateReservation(context.Background(), testReservationParams())
		return attempted
	}

	assert.Equal(t, run(3), run(3), "the same seed must reproduce the same attempt order")
	assert.NotEqual(t, run(3), run(4), "different seeds should disagree on a 40-unit pool")
}

func TestCreateReservationPrefersCachedUnit(t *testing.T) {
	var attempted []int
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return []pms.Guest{{ID: 42}}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			return []pms.Area{{ID: 501}, {ID: 502}, {ID: 503}}, nil
		},
		createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
			attempted = append(attempted, req.AreaID)
			return pms.Reservation{ID: 900, AreaID: req.AreaID}, nil
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	// A recent success for 503 on the same stay moves it to the front.
	o.working.RecordSuccess(10, 5, "2026-03-10", "2026-03-12", 503)
	// A cached unit the resolver no longer reports must not jump the
	// queue.
	o.working.RecordSuccess(10, 5, "2026-03-10", "2026-03-12", 999)

	_, err := o.CreateReservation(context.Background(), testReservationParams())
	require.NoError(t, err)
	assert.Equal(t, []int{503}, attempted)
}

func TestCreateReservationFailsWhenPoolIsEmpty(t *testing.T) {
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return []pms.Guest{{ID: 42}}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			return nil, nil
		},
		listAreas: func(ctx context.Context, propertyID int) ([]pms.Area, error) {
			return nil, nil
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	_, err := o.CreateReservation(context.Background(), testReservationParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no bookable units")
}

func TestResolveGuestCreatesWhenSearchMisses(t *testing.T) {
	var created pms.GuestCreateRequest
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return nil, nil
		},
		createGuest: func(ctx context.Context, req pms.GuestCreateRequest) (pms.Guest, error) {
			created = req
			return pms.Guest{ID: 55}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			return []pms.Area{{ID: 501}}, nil
		},
		createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
			return pms.Reservation{ID: 1, AreaID: req.AreaID, GuestID: req.GuestID}, nil
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	res, err := o.CreateReservation(context.Background(), testReservationParams())
	require.NoError(t, err)
	assert.Equal(t, 55, res.GuestID)
	assert.Equal(t, "Ada", created.Given)
	assert.Equal(t, "Lovelace", created.Surname)
}

func TestResolveGuestTreatsSearchFailureAsMiss(t *testing.T) {
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return nil, errors.New("guest search timed out")
		},
		createGuest: func(ctx context.Context, req pms.GuestCreateRequest) (pms.Guest, error) {
			return pms.Guest{ID: 56}, nil
		},
		getAvailableAreas: func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
			return []pms.Area{{ID: 501}}, nil
		},
		createReservation: func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
			return pms.Reservation{ID: 2, GuestID: req.GuestID}, nil
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	res, err := o.CreateReservation(context.Background(), testReservationParams())
	require.NoError(t, err)
	assert.Equal(t, 56, res.GuestID)
}

func TestResolveGuestCreateFailureIsFatal(t *testing.T) {
	gw := &fakeGateway{
		searchGuests: func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
			return nil, nil
		},
		createGuest: func(ctx context.Context, req pms.GuestCreateRequest) (pms.Guest, error) {
			return pms.Guest{}, errors.New("duplicate email")
		},
	}
	o := newTestOrchestrator(gw, rand.New(rand.NewSource(1)))

	_, err := o.CreateReservation(context.Background(), testReservationParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create guest")
}
