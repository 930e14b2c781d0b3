package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/repository"
)

// BookingLogHandler serves the operator reporting endpoint over the
// rows the queue consumer persists.
type BookingLogHandler struct {
	Logs *repository.BookingLogRepo
}

// NewBookingLogHandler constructs a BookingLogHandler.
func NewBookingLogHandler(logs *repository.BookingLogRepo) *BookingLogHandler {
	if logs == nil {
		panic("nil repo passed to NewBookingLogHandler")
	}
	return &BookingLogHandler{Logs: logs}
}

// List handles GET /v1/booking-logs. The limit query parameter defaults
// to 100 and is clamped by the repository.
func (h *BookingLogHandler) List(c echo.Context) error {
	limit := 100
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "limit must be a positive integer"})
		}
		limit = n
	}
	rows, err := h.Logs.ListRecent(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not load booking logs"})
	}
	return c.JSON(http.StatusOK, echo.Map{"booking_logs": rows, "count": len(rows)})
}
