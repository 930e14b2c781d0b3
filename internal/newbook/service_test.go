package newbook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*Service, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewService(NewClient(srv.URL, "user", "pass"), "AU", "key-123"), srv
}

func TestGetAvailabilityRanksByHighestQuote(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings_availability_pricing", r.URL.Path)

		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "AU", payload["region"])
		assert.Equal(t, "key-123", payload["api_key"])

		_, _ = w.Write([]byte(`{
			"success": "true",
			"data": {
				"3": {"category_name": "Budget Site", "category_type_id": 1, "tariffs_available": [
					{"tariff_label": "Std", "tariff_total": 80, "average_nightly_tariff": 40,
					 "tariffs_quoted": {"2026-03-10": {"amount": 40}, "2026-03-11": {"amount": 40}}}
				]},
				"7": {"category_name": "Waterfront Cabin", "category_type_id": 3, "tariffs_available": [
					{"tariff_label": "Std", "tariff_total": 300,
					 "tariffs_quoted": {"2026-03-10": {"amount": 160}, "2026-03-11": {"amount": 140}}}
				]}
			}
		}`))
	})

	summaries, err := svc.GetAvailability(context.Background(), AvailabilityParams{
		PeriodFrom: "2026-03-10", PeriodTo: "2026-03-12", Adults: 2, DailyMode: "true",
	})
	require.NoError(t, err)
	require.Len(t, summaries, 2)

	// Highest quoted amount leads.
	assert.Equal(t, "7", summaries[0].CategoryID)
	require.NotNil(t, summaries[0].Price)
	assert.Equal(t, 160.0, *summaries[0].Price, "no nightly average: first quoted amount stands in")

	assert.Equal(t, "3", summaries[1].CategoryID)
	require.NotNil(t, summaries[1].Price)
	assert.Equal(t, 40.0, *summaries[1].Price, "the nightly average wins when present")
}

func TestCreateBookingBuildsQuotePayload(t *testing.T) {
	var bookingPayload map[string]json.RawMessage
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/bookings_availability_pricing":
			_, _ = w.Write([]byte(`{"success":"true","data":{"7":{"category_name":"Cabin","tariffs_available":[
				{"tariff_label":"Std","tariff_total":450,"tariffs_quoted":{
					"2026-03-10":{"tariff_applied_id":301,"amount":150},
					"2026-03-11":{"tariff_applied_id":302,"amount":150},
					"2026-03-12":{"tariff_applied_id":303,"amount":150}}}]}}}`))
		case "/bookings_create":
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&bookingPayload))
			_, _ = w.Write([]byte(`{"success":"true","api_key":"key-123","data":{"booking_id":5512}}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	result, err := svc.CreateBooking(context.Background(), BookingParams{
		PeriodFrom: "2026-03-10", PeriodTo: "2026-03-13",
		Firstname: "Ada", Lastname: "Lovelace", Email: "ada@example.com",
		Adults: 2, CategoryID: 7, DailyMode: "true",
	})
	require.NoError(t, err)

	// The booking payload carries the selected tariff and a per-night
	// quote map keyed by the applied id of the first quoted date.
	var label string
	require.NoError(t, json.Unmarshal(bookingPayload["tariff_label"], &label))
	assert.Equal(t, "Std", label)

	var quoted QuotedTariffs
	require.NoError(t, json.Unmarshal(bookingPayload["tariffs_quoted"], &quoted))
	require.Len(t, quoted, 3)
	for _, dq := range quoted {
		assert.Equal(t, json.Number("301"), dq.Quote.TariffAppliedID)
		assert.Equal(t, 150.0, dq.Quote.Price)
	}

	// The upstream echo of the api key never reaches the caller.
	_, leaked := result["api_key"]
	assert.False(t, leaked)
	assert.Equal(t, "true", result["success"])
}

func TestCreateBookingFailsWithoutAppliedID(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"success":"true","data":{"7":{"category_name":"Cabin","tariffs_available":[
			{"tariff_label":"Std","tariff_total":450,"tariffs_quoted":[]}]}}}`))
	})

	_, err := svc.CreateBooking(context.Background(), BookingParams{
		PeriodFrom: "2026-03-10", PeriodTo: "2026-03-13",
		Firstname: "Ada", Lastname: "Lovelace", Adults: 2, CategoryID: 7,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no applied id")
}

func TestCheckBookingMatchesByID(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bookings_list", r.URL.Path)
		var payload map[string]any
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "staying", payload["list_type"])
		_, _ = w.Write([]byte(`{"success":"true","data":[{"booking_id":"5512"},{"booking_id":6000}]}`))
	})

	found, err := svc.CheckBooking(context.Background(), "6000", "2026-03-10", "2026-03-13")
	require.NoError(t, err)
	assert.True(t, found)

	found, err = svc.CheckBooking(context.Background(), "7777", "", "")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCheckBookingRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no upstream call expected")
	})

	_, err := svc.CheckBooking(context.Background(), "", "", "")
	assert.Error(t, err)

	_, err = svc.CheckBooking(context.Background(), "not-a-number", "", "")
	assert.Error(t, err)
}
