package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/middleware"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/newbook"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/queue"
)

// NewbookHandler serves the Newbook-backed booking endpoints. Unlike
// the PMS bridge there is no per-location state: the service holds one
// tenant's region and api key and every call is a stateless upstream
// round trip.
type NewbookHandler struct {
	Service *newbook.Service
}

// NewNewbookHandler constructs a NewbookHandler. The service must be
// non-nil.
func NewNewbookHandler(svc *newbook.Service) *NewbookHandler {
	if svc == nil {
		panic("nil service passed to NewNewbookHandler")
	}
	return &NewbookHandler{Service: svc}
}

// Availability handles POST /v1/newbook/availability and returns the
// ranked category summaries for the stay.
func (h *NewbookHandler) Availability(c echo.Context) error {
	var req newbook.AvailabilityParams
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, _, err := parseStay(req.PeriodFrom, req.PeriodTo); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.Adults <= 0 {
		req.Adults = 2
	}
	if req.DailyMode == "" {
		req.DailyMode = "true"
	}

	summaries, err := h.Service.GetAvailability(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"categories": summaries})
}

// CreateBooking handles POST /v1/newbook/bookings: it selects the
// tariff for the stay, rebuilds the per-night quote map and submits the
// booking. On success a booking-completed event is published for the
// reporting consumer.
func (h *NewbookHandler) CreateBooking(c echo.Context) error {
	var req newbook.BookingParams
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if _, _, err := parseStay(req.PeriodFrom, req.PeriodTo); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.Firstname == "" || req.Lastname == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest_firstname and guest_lastname are required"})
	}
	if req.CategoryID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id is required"})
	}
	if req.Adults <= 0 {
		req.Adults = 2
	}
	if req.DailyMode == "" {
		req.DailyMode = "true"
	}

	result, err := h.Service.CreateBooking(c.Request().Context(), req)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}

	locationID := "default"
	if inst := middleware.InstanceFrom(c); inst != nil {
		locationID = inst.LocationID
	}
	event := queue.BookingCompletedEvent{
		EventID:     uuid.NewString(),
		LocationID:  locationID,
		Source:      "newbook",
		BookingID:   bookingIDFromResult(result),
		GuestName:   req.Firstname + " " + req.Lastname,
		GuestEmail:  req.Email,
		Arrival:     req.PeriodFrom,
		Departure:   req.PeriodTo,
		Adults:      req.Adults,
		Children:    req.Children,
		CategoryID:  int64(req.CategoryID),
		Status:      "placed",
		CompletedAt: time.Now().UTC().Format(time.RFC3339),
	}
	if amount, ok := result["tariff_total"].(float64); ok {
		event.Amount = amount
	}
	if err := queue.PublishBookingCompleted(c.Request().Context(), event); err != nil {
		c.Logger().Errorf("publish booking event for newbook booking %d: %v", event.BookingID, err)
	}

	return c.JSON(http.StatusCreated, result)
}

// bookingIDFromResult digs the booking id out of the upstream's untyped
// create response. Zero means the id was absent or unreadable; the row
// is still worth logging.
func bookingIDFromResult(result map[string]any) int64 {
	data, ok := result["data"].(map[string]any)
	if !ok {
		return 0
	}
	switch id := data["booking_id"].(type) {
	case float64:
		return int64(id)
	case string:
		if n, err := strconv.ParseInt(id, 10, 64); err == nil {
			return n
		}
	}
	return 0
}

// CheckBooking handles GET /v1/newbook/bookings/:id/check and reports
// whether the booking appears in the staying list for the optional
// period filters.
func (h *NewbookHandler) CheckBooking(c echo.Context) error {
	found, err := h.Service.CheckBooking(c.Request().Context(), c.Param("id"),
		c.QueryParam("period_from"), c.QueryParam("period_to"))
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_id": c.Param("id"), "found": found})
}
