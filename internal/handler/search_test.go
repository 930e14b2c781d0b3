package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dankia-frontend/HolidayBrandAI-sub000/internal/service"
)

func TestParseStay(t *testing.T) {
	cases := []struct {
		name      string
		arrival   string
		departure string
		wantErr   bool
	}{
		{"valid stay", "2026-03-10", "2026-03-12", false},
		{"one night", "2026-03-10", "2026-03-11", false},
		{"same day", "2026-03-10", "2026-03-10", true},
		{"departure before arrival", "2026-03-12", "2026-03-10", true},
		{"bad arrival", "10/03/2026", "2026-03-12", true},
		{"missing departure", "2026-03-10", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := parseStay(tc.arrival, tc.departure)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestIntParam(t *testing.T) {
	assert.Equal(t, 2, intParam("", 2))
	assert.Equal(t, 4, intParam("4", 2))
	assert.Equal(t, 2, intParam("four", 2))
}

func newSearchContext(target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSearchRejectsMissingInstance(t *testing.T) {
	h := NewPMSHandler(service.NewRegistry("http://upstream.invalid", ""))
	c, rec := newSearchContext("/v1/pms/search?arrival=2026-03-10&departure=2026-03-12")

	require.NoError(t, h.Search(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateReservationValidation(t *testing.T) {
	req := createReservationRequest{CategoryID: 10, RatePlanID: 5}
	assert.Error(t, req.validate(), "guest names are required")

	req.Guest.FirstName = "Ada"
	req.Guest.LastName = "Lovelace"
	assert.NoError(t, req.validate())

	req.Adults = -1
	assert.Error(t, req.validate())

	req.Adults = 2
	req.CategoryID = 0
	assert.Error(t, req.validate())
}
