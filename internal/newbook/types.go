// Package newbook implements the alternate booking backend used by a
// subset of locations. Its API is body-authenticated (region + api key
// in every payload) and quotes prices per category as a list of tariffs
// with a date-keyed quote map.
package newbook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AvailabilityPayload is the response of the availability/pricing call,
// keyed by category id (the upstream keys the map with string ids).
type AvailabilityPayload struct {
	Success string                          `json:"success"`
	Data    map[string]CategoryAvailability `json:"data"`
}

// CategoryAvailability is one category's block inside the payload.
type CategoryAvailability struct {
	CategoryName     string          `json:"category_name"`
	CategoryTypeID   int             `json:"category_type_id"`
	SitesMessage     json.RawMessage `json:"sites_message,omitempty"`
	TariffsAvailable []Tariff        `json:"tariffs_available"`
}

// Tariff is one priced tariff for a category and stay.
type Tariff struct {
	TariffLabel          string        `json:"tariff_label"`
	TariffTotal          float64       `json:"tariff_total"`
	OriginalTariffTotal  float64       `json:"original_tariff_total"`
	SpecialDeal          bool          `json:"special_deal"`
	TariffCode           int           `json:"tariff_code"`
	AverageNightlyTariff *float64      `json:"average_nightly_tariff,omitempty"`
	TariffsQuoted        QuotedTariffs `json:"tariffs_quoted"`
}

// DateQuote is one night's quote under a tariff.
type DateQuote struct {
	Date  string
	Quote TariffDateQuote
}

// TariffDateQuote carries the per-night fields this service reads. The
// applied id references the standing tariff definition that a booking
// call must name to get this exact price.
type TariffDateQuote struct {
	TariffAppliedID json.Number `json:"tariff_applied_id,omitempty"`
	Amount          float64     `json:"amount,omitempty"`
	Price           float64     `json:"price,omitempty"`
	BaseMaxAdults   *int        `json:"base_max_adults,omitempty"`
	BaseMaxChildren *int        `json:"base_max_children,omitempty"`
}

// QuotedTariffs is the date-keyed quote map with its upstream key order
// preserved. The tariff-applied id and occupancy bounds are read from
// the first date entry as received; a plain Go map would lose that
// order, so the type decodes the object itself.
type QuotedTariffs []DateQuote

// UnmarshalJSON decodes a JSON object into date quotes in the order
// the keys appear on the wire. The upstream sends an empty array when
// no quotes exist; that decodes to nil.
func (q *QuotedTariffs) UnmarshalJSON(raw []byte) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" || string(trimmed) == "[]" {
		*q = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("newbook: tariffs_quoted must be an object, got %v", tok)
	}

	var out QuotedTariffs
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("newbook: tariffs_quoted key is not a string: %v", keyTok)
		}
		var quote TariffDateQuote
		if err := dec.Decode(&quote); err != nil {
			return fmt.Errorf("newbook: decode quote for %s: %w", key, err)
		}
		out = append(out, DateQuote{Date: key, Quote: quote})
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return err
	}
	*q = out
	return nil
}

// MarshalJSON re-encodes the quotes as an object in stored order, so a
// booking payload echoes the dates exactly as they were quoted.
func (q QuotedTariffs) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, dq := range q {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(dq.Date)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(dq.Quote)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BookingListPayload is the bookings_list response.
type BookingListPayload struct {
	Success string        `json:"success"`
	Data    []BookingItem `json:"data"`
}

// BookingItem is one row of a bookings listing. The upstream is loose
// about the id type, so it is kept as a json.Number.
type BookingItem struct {
	BookingID json.Number `json:"booking_id"`
}
