// Package service contains the reservation reconciliation engine: the
// availability aggregator, area candidate resolver, working-area cache
// and the reservation orchestrator that drives booking attempts against
// the upstream PMS.
package service

import (
	"context"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

// Gateway is the slice of the upstream PMS API this package consumes.
// *pms.Client satisfies it; tests substitute fakes.
type Gateway interface {
	ListProperties(ctx context.Context) ([]pms.Property, error)
	ListCategories(ctx context.Context, propertyID int) ([]pms.Category, error)
	ListRatePlans(ctx context.Context, categoryID int) ([]pms.RatePlan, error)
	GetRatesGrid(ctx context.Context, req pms.RatesGridRequest) (pms.RatesGridResponse, error)
	GetAvailableAreas(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error)
	ListAreas(ctx context.Context, propertyID int) ([]pms.Area, error)
	SearchGuests(ctx context.Context, propertyID int, email string) ([]pms.Guest, error)
	CreateGuest(ctx context.Context, req pms.GuestCreateRequest) (pms.Guest, error)
	CreateReservation(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error)
	GetReservation(ctx context.Context, id int) (pms.Reservation, error)
	CancelReservation(ctx context.Context, id int) error
}
