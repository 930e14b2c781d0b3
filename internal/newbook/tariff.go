package newbook

import (
	"encoding/json"
	"errors"
	"log"
	"math"
	"strconv"
	"time"
)

// ErrTariffNotFound is returned when the category is absent from the
// availability payload or carries no tariffs. The caller cannot book
// without a tariff, so this becomes a hard failure one level up.
var ErrTariffNotFound = errors.New("newbook: no tariff found for category")

// TariffQuote is the resolved tariff a booking call must reference.
// AppliedID and the occupancy bounds come from the first date entry of
// the quote map as received from the upstream; they identify a standing
// tariff definition, but the extraction is deliberately order-dependent
// to match upstream behaviour, so never re-sort the quote dates.
type TariffQuote struct {
	Label           string  `json:"tariff_label"`
	Total           float64 `json:"tariff_total"`
	OriginalTotal   float64 `json:"original_tariff_total"`
	SpecialDeal     bool    `json:"special_deal"`
	Code            int     `json:"tariff_code"`
	AppliedID       *int    `json:"tariff_id"`
	BaseMaxAdults   *int    `json:"base_max_adults"`
	BaseMaxChildren *int    `json:"base_max_children"`
	Tariff          Tariff  `json:"-"`
}

// SelectTariff picks the tariff a booking for categoryID must use. A
// non-empty label is matched exactly against the tariff labels; a label
// that matches nothing logs a warning and falls back to the default
// choice, which is the first tariff in upstream order (the upstream
// already ranks them, so no price comparison happens here).
func SelectTariff(p AvailabilityPayload, categoryID int, label string) (TariffQuote, error) {
	cat, ok := p.Data[strconv.Itoa(categoryID)]
	if !ok || len(cat.TariffsAvailable) == 0 {
		return TariffQuote{}, ErrTariffNotFound
	}

	if label != "" {
		for _, t := range cat.TariffsAvailable {
			if t.TariffLabel == label {
				return buildQuote(t), nil
			}
		}
		log.Printf("newbook: tariff %q not found for category %d, using first available", label, categoryID)
	}
	return buildQuote(cat.TariffsAvailable[0]), nil
}

// buildQuote copies the tariff totals verbatim and reads the applied id
// and occupancy bounds from the first quoted date. No date entries
// means no applied id.
func buildQuote(t Tariff) TariffQuote {
	q := TariffQuote{
		Label:         t.TariffLabel,
		Total:         t.TariffTotal,
		OriginalTotal: t.OriginalTariffTotal,
		SpecialDeal:   t.SpecialDeal,
		Code:          t.TariffCode,
		Tariff:        t,
	}
	if len(t.TariffsQuoted) == 0 {
		return q
	}
	first := t.TariffsQuoted[0].Quote
	if id, err := first.TariffAppliedID.Int64(); err == nil && id != 0 {
		applied := int(id)
		q.AppliedID = &applied
	}
	q.BaseMaxAdults = first.BaseMaxAdults
	q.BaseMaxChildren = first.BaseMaxChildren
	return q
}

// BuildQuotedTariffs constructs the per-night quote map a booking
// payload requires, apportioning the stay total flat across nights
// (floored, matching the upstream's own rounding).
func BuildQuotedTariffs(arrival, departure time.Time, total float64, appliedID int) QuotedTariffs {
	nights := int(departure.Sub(arrival).Hours() / 24)
	if nights <= 0 {
		nights = 1
	}
	perNight := math.Floor(total / float64(nights))

	var out QuotedTariffs
	for d := arrival; d.Before(departure); d = d.AddDate(0, 0, 1) {
		out = append(out, DateQuote{
			Date: d.Format("2006-01-02"),
			Quote: TariffDateQuote{
				TariffAppliedID: intNumber(appliedID),
				Price:           perNight,
			},
		})
	}
	if len(out) == 0 {
		out = append(out, DateQuote{
			Date:  arrival.Format("2006-01-02"),
			Quote: TariffDateQuote{TariffAppliedID: intNumber(appliedID), Price: perNight},
		})
	}
	return out
}

func intNumber(n int) json.Number {
	return json.Number(strconv.Itoa(n))
}
