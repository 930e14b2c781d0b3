package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/middleware"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/model"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/queue"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/service"
)

// createReservationRequest is the POST /v1/pms/reservations body.
type createReservationRequest struct {
	CategoryID int             `json:"category_id"`
	RatePlanID int             `json:"rate_plan_id"`
	Arrival    string          `json:"arrival"`
	Departure  string          `json:"departure"`
	Adults     int             `json:"adults"`
	Children   int             `json:"children"`
	Guest      model.GuestInfo `json:"guest"`
}

func (r createReservationRequest) validate() error {
	if r.CategoryID <= 0 {
		return fmt.Errorf("category_id is required")
	}
	if r.RatePlanID <= 0 {
		return fmt.Errorf("rate_plan_id is required")
	}
	if r.Adults < 0 || r.Children < 0 {
		return fmt.Errorf("guest counts must be non-negative")
	}
	if r.Guest.FirstName == "" || r.Guest.LastName == "" {
		return fmt.Errorf("guest first_name and last_name are required")
	}
	return nil
}

// CreateReservation handles POST /v1/pms/reservations. It runs the full
// orchestration (guest resolution, candidate selection, bounded attempt
// loop) and on success publishes a booking-completed event for the
// reporting consumer. Publish failures are logged, never surfaced: the
// booking already exists upstream.
func (h *PMSHandler) CreateReservation(c echo.Context) error {
	inst := middleware.InstanceFrom(c)
	if inst == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createReservationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if err := req.validate(); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	arrival, departure, err := parseStay(req.Arrival, req.Departure)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if req.Adults == 0 {
		req.Adults = 2
	}

	bridge := h.Registry.For(inst)
	res, err := bridge.Orchestrator.CreateReservation(c.Request().Context(), service.ReservationParams{
		CategoryID: req.CategoryID,
		RatePlanID: req.RatePlanID,
		Arrival:    arrival,
		Departure:  departure,
		Adults:     req.Adults,
		Children:   req.Children,
		Guest:      req.Guest,
	})
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}

	event := queue.BookingCompletedEvent{
		EventID:            uuid.NewString(),
		LocationID:         inst.LocationID,
		Source:             "pms",
		BookingID:          int64(res.ID),
		ConfirmationNumber: res.ConfirmationNumber,
		GuestName:          req.Guest.FirstName + " " + req.Guest.LastName,
		GuestEmail:         req.Guest.Email,
		Arrival:            res.Arrival,
		Departure:          res.Departure,
		Adults:             req.Adults,
		Children:           req.Children,
		CategoryID:         int64(req.CategoryID),
		AreaID:             int64(res.AreaID),
		Amount:             res.Total,
		Status:             res.Status,
		CompletedAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue.PublishBookingCompleted(c.Request().Context(), event); err != nil {
		c.Logger().Errorf("publish booking event for reservation %d: %v", res.ID, err)
	}

	return c.JSON(http.StatusCreated, res)
}

// GetReservation handles GET /v1/pms/reservations/:id as a thin
// passthrough to the upstream.
func (h *PMSHandler) GetReservation(c echo.Context) error {
	inst := middleware.InstanceFrom(c)
	if inst == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	res, err := h.Registry.For(inst).Gateway.GetReservation(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, res)
}

// CancelReservation handles DELETE /v1/pms/reservations/:id.
func (h *PMSHandler) CancelReservation(c echo.Context) error {
	inst := middleware.InstanceFrom(c)
	if inst == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	if err := h.Registry.For(inst).Gateway.CancelReservation(c.Request().Context(), id); err != nil {
		return c.JSON(http.StatusBadGateway, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "reservation cancelled"})
}
