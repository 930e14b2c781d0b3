package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/middleware"
	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/service"
)

// PMSHandler serves the PMS-backed endpoints: availability search and
// the reservation lifecycle. Bridges are resolved per location through
// the registry so catalog and working-area caches persist across
// requests.
type PMSHandler struct {
	Registry *service.Registry
}

// NewPMSHandler constructs a PMSHandler. The registry must be non-nil.
func NewPMSHandler(registry *service.Registry) *PMSHandler {
	if registry == nil {
		panic("nil registry passed to NewPMSHandler")
	}
	return &PMSHandler{Registry: registry}
}

// Search handles GET /v1/pms/search. Query parameters: arrival and
// departure as YYYY-MM-DD (departure strictly after arrival), adults
// (default 2), children (default 0) and an optional keyword matched
// against category names. Upstream failures degrade to an empty result
// with a message, never to a 5xx.
func (h *PMSHandler) Search(c echo.Context) error {
	inst := middleware.InstanceFrom(c)
	if inst == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	arrival, departure, err := parseStay(c.QueryParam("arrival"), c.QueryParam("departure"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	adults := intParam(c.QueryParam("adults"), 2)
	children := intParam(c.QueryParam("children"), 0)
	if adults < 0 || children < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "guest counts must be non-negative"})
	}

	bridge := h.Registry.For(inst)
	result := bridge.Availability.Search(c.Request().Context(), service.SearchParams{
		Arrival:   arrival,
		Departure: departure,
		Adults:    adults,
		Children:  children,
		Keyword:   c.QueryParam("keyword"),
	})
	if result.Error != "" {
		// Degraded answer: keep it out of the response cache.
		c.Response().Header().Set("Cache-Control", "no-store")
	}
	return c.JSON(http.StatusOK, result)
}

// parseStay validates the arrival/departure pair shared by the search
// and reservation endpoints.
func parseStay(arrivalStr, departureStr string) (time.Time, time.Time, error) {
	arrival, err := time.Parse("2006-01-02", arrivalStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid arrival date, expected YYYY-MM-DD")
	}
	departure, err := time.Parse("2006-01-02", departureStr)
	if err != nil {
		return time.Time{}, time.Time{}, errors.New("invalid departure date, expected YYYY-MM-DD")
	}
	if !departure.After(arrival) {
		return time.Time{}, time.Time{}, errors.New("departure must be after arrival")
	}
	return arrival, departure, nil
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
