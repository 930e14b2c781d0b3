package newbook

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quotedPayload(t *testing.T, raw string) AvailabilityPayload {
	t.Helper()
	var p AvailabilityPayload
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestQuotedTariffsPreserveWireOrder(t *testing.T) {
	// Keys deliberately out of calendar order: the first entry as
	// received must stay first.
	var q QuotedTariffs
	raw := `{"2026-03-12":{"tariff_applied_id":88,"amount":150},"2026-03-10":{"tariff_applied_id":99,"amount":120},"2026-03-11":{"tariff_applied_id":77,"amount":130}}`
	require.NoError(t, json.Unmarshal([]byte(raw), &q))

	require.Len(t, q, 3)
	assert.Equal(t, "2026-03-12", q[0].Date)
	assert.Equal(t, json.Number("88"), q[0].Quote.TariffAppliedID)
	assert.Equal(t, "2026-03-10", q[1].Date)
	assert.Equal(t, "2026-03-11", q[2].Date)

	// Re-encoding echoes the same order back.
	out, err := json.Marshal(q)
	require.NoError(t, err)
	var round QuotedTariffs
	require.NoError(t, json.Unmarshal(out, &round))
	assert.Equal(t, q[0].Date, round[0].Date)
	assert.Equal(t, q[2].Date, round[2].Date)
}

func TestQuotedTariffsAcceptEmptyArrayAndNull(t *testing.T) {
	for _, raw := range []string{"[]", "null", "{}"} {
		var q QuotedTariffs
		require.NoError(t, json.Unmarshal([]byte(raw), &q), raw)
		assert.Empty(t, q, raw)
	}
}

const availabilityFixture = `{
  "success": "true",
  "data": {
    "7": {
      "category_name": "Waterfront Cabin",
      "category_type_id": 3,
      "tariffs_available": [
        {
          "tariff_label": "Standard Rate",
          "tariff_total": 450.0,
          "original_tariff_total": 500.0,
          "special_deal": true,
          "tariff_code": 12,
          "tariffs_quoted": {
            "2026-03-10": {"tariff_applied_id": 301, "amount": 150, "base_max_adults": 4, "base_max_children": 2},
            "2026-03-11": {"tariff_applied_id": 302, "amount": 150},
            "2026-03-12": {"tariff_applied_id": 303, "amount": 150}
          }
        },
        {
          "tariff_label": "Weekly Special",
          "tariff_total": 400.0,
          "original_tariff_total": 400.0,
          "special_deal": false,
          "tariff_code": 13,
          "tariffs_quoted": {
            "2026-03-10": {"tariff_applied_id": 310, "amount": 133}
          }
        }
      ]
    }
  }
}`

func TestSelectTariffByLabel(t *testing.T) {
	p := quotedPayload(t, availabilityFixture)

	q, err := SelectTariff(p, 7, "Weekly Special")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Special", q.Label)
	assert.Equal(t, 400.0, q.Total)
	require.NotNil(t, q.AppliedID)
	assert.Equal(t, 310, *q.AppliedID)
}

func TestSelectTariffFallsBackToFirst(t *testing.T) {
	p := quotedPayload(t, availabilityFixture)

	q, err := SelectTariff(p, 7, "No Such Rate")
	require.NoError(t, err)
	assert.Equal(t, "Standard Rate", q.Label, "an unmatched label must fall back, not fail")
	assert.Equal(t, 450.0, q.Total)
	assert.True(t, q.SpecialDeal)

	// Applied id and occupancy bounds come from the first quoted date
	// as received.
	require.NotNil(t, q.AppliedID)
	assert.Equal(t, 301, *q.AppliedID)
	require.NotNil(t, q.BaseMaxAdults)
	assert.Equal(t, 4, *q.BaseMaxAdults)
	require.NotNil(t, q.BaseMaxChildren)
	assert.Equal(t, 2, *q.BaseMaxChildren)
}

func TestSelectTariffMissingCategory(t *testing.T) {
	p := quotedPayload(t, availabilityFixture)

	_, err := SelectTariff(p, 99, "")
	assert.ErrorIs(t, err, ErrTariffNotFound)
}

func TestSelectTariffNoQuotedDates(t *testing.T) {
	p := quotedPayload(t, `{"success":"true","data":{"5":{"category_name":"Bare","tariffs_available":[{"tariff_label":"Flat","tariff_total":100,"tariffs_quoted":[]}]}}}`)

	q, err := SelectTariff(p, 5, "")
	require.NoError(t, err)
	assert.Nil(t, q.AppliedID, "no quoted dates means no applied id")
}

func TestBuildQuotedTariffsApportionsFlatPerNight(t *testing.T) {
	arrival := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	departure := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)

	out := BuildQuotedTariffs(arrival, departure, 500, 301)

	require.Len(t, out, 3)
	for i, dq := range out {
		assert.Equal(t, arrival.AddDate(0, 0, i).Format("2006-01-02"), dq.Date)
		assert.Equal(t, json.Number("301"), dq.Quote.TariffAppliedID)
		// floor(500/3) on every night; the remainder is absorbed by the
		// stay total sent alongside.
		assert.Equal(t, 166.0, dq.Quote.Price)
	}
}

func TestBuildQuotedTariffsZeroNightStay(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	out := BuildQuotedTariffs(day, day, 120, 301)

	require.Len(t, out, 1, "a degenerate stay still quotes one night")
	assert.Equal(t, "2026-03-10", out[0].Date)
	assert.Equal(t, 120.0, out[0].Quote.Price)
}
