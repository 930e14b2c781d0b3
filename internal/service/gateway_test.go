package service

import (
	"context"
	"errors"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/pms"
)

// fakeGateway satisfies Gateway for tests. Unset functions fail loudly
// so a test only has to stub the calls it expects.
type fakeGateway struct {
	listProperties    func(ctx context.Context) ([]pms.Property, error)
	listCategories    func(ctx context.Context, propertyID int) ([]pms.Category, error)
	listRatePlans     func(ctx context.Context, categoryID int) ([]pms.RatePlan, error)
	getRatesGrid      func(ctx context.Context, req pms.RatesGridRequest) (pms.RatesGridResponse, error)
	getAvailableAreas func(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error)
	listAreas         func(ctx context.Context, propertyID int) ([]pms.Area, error)
	searchGuests      func(ctx context.Context, propertyID int, email string) ([]pms.Guest, error)
	createGuest       func(ctx context.Context, req pms.GuestCreateRequest) (pms.Guest, error)
	createReservation func(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error)
	getReservation    func(ctx context.Context, id int) (pms.Reservation, error)
	cancelReservation func(ctx context.Context, id int) error
}

var errUnexpectedCall = errors.New("unexpected gateway call")

func (f *fakeGateway) ListProperties(ctx context.Context) ([]pms.Property, error) {
	if f.listProperties == nil {
		return nil, errUnexpectedCall
	}
	return f.listProperties(ctx)
}

func (f *fakeGateway) ListCategories(ctx context.Context, propertyID int) ([]pms.Category, error) {
	if f.listCategories == nil {
		return nil, errUnexpectedCall
	}
	return f.listCategories(ctx, propertyID)
}

func (f *fakeGateway) ListRatePlans(ctx context.Context, categoryID int) ([]pms.RatePlan, error) {
	if f.listRatePlans == nil {
		return nil, errUnexpectedCall
	}
	return f.listRatePlans(ctx, categoryID)
}

func (f *fakeGateway) GetRatesGrid(ctx context.Context, req pms.RatesGridRequest) (pms.RatesGridResponse, error) {
	if f.getRatesGrid == nil {
		return pms.RatesGridResponse{}, errUnexpectedCall
	}
	return f.getRatesGrid(ctx, req)
}

func (f *fakeGateway) GetAvailableAreas(ctx context.Context, req pms.AvailableAreasRequest) ([]pms.Area, error) {
	if f.getAvailableAreas == nil {
		return nil, errUnexpectedCall
	}
	return f.getAvailableAreas(ctx, req)
}

func (f *fakeGateway) ListAreas(ctx context.Context, propertyID int) ([]pms.Area, error) {
	if f.listAreas == nil {
		return nil, errUnexpectedCall
	}
	return f.listAreas(ctx, propertyID)
}

func (f *fakeGateway) SearchGuests(ctx context.Context, propertyID int, email string) ([]pms.Guest, error) {
	if f.searchGuests == nil {
		return nil, errUnexpectedCall
	}
	return f.searchGuests(ctx, propertyID, email)
}

func (f *fakeGateway) CreateGuest(ctx context.Context, req pms.GuestCreateRequest) (pms.Guest, error) {
	if f.createGuest == nil {
		return pms.Guest{}, errUnexpectedCall
	}
	return f.createGuest(ctx, req)
}

func (f *fakeGateway) CreateReservation(ctx context.Context, req pms.ReservationRequest) (pms.Reservation, error) {
	if f.createReservation == nil {
		return pms.Reservation{}, errUnexpectedCall
	}
	return f.createReservation(ctx, req)
}

func (f *fakeGateway) GetReservation(ctx context.Context, id int) (pms.Reservation, error) {
	if f.getReservation == nil {
		return pms.Reservation{}, errUnexpectedCall
	}
	return f.getReservation(ctx, id)
}

func (f *fakeGateway) CancelReservation(ctx context.Context, id int) error {
	if f.cancelReservation == nil {
		return errUnexpectedCall
	}
	return f.cancelReservation(ctx, id)
}
