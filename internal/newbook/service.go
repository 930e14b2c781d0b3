package newbook

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"time"
)

// Service wraps the client with the per-tenant body auth and the
// response shaping the voice agents expect.
type Service struct {
	client *Client
	region string
	apiKey string
}

// NewService binds a client to one tenant's region and api key.
func NewService(client *Client, region, apiKey string) *Service {
	return &Service{client: client, region: region, apiKey: apiKey}
}

// AvailabilityParams are the inputs of one availability query.
type AvailabilityParams struct {
	PeriodFrom string `json:"period_from"`
	PeriodTo   string `json:"period_to"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
	DailyMode  string `json:"daily_mode"`
}

// CategorySummary is the trimmed per-category view returned to callers:
// just the name, type, representative price and site message.
type CategorySummary struct {
	CategoryID     string   `json:"category_id"`
	CategoryName   string   `json:"category_name"`
	CategoryTypeID int      `json:"category_type_id"`
	Price          *float64 `json:"price"`
	SitesMessage   any      `json:"sites_message"`
}

// GetAvailability queries availability and reduces each category block
// to a summary, ranked by its highest quoted amount (highest first, as
// the consuming agents present premium options before cheaper ones).
// The representative price prefers the first tariff's average nightly
// tariff and falls back to its first quoted amount.
func (s *Service) GetAvailability(ctx context.Context, p AvailabilityParams) ([]CategorySummary, error) {
	payload := map[string]any{
		"region":      s.region,
		"api_key":     s.apiKey,
		"period_from": p.PeriodFrom,
		"period_to":   p.PeriodTo,
		"adults":      p.Adults,
		"children":    p.Children,
		"daily_mode":  p.DailyMode,
	}
	data, err := s.client.GetAvailability(ctx, payload)
	if err != nil {
		return nil, err
	}

	type ranked struct {
		summary CategorySummary
		max     float64
	}
	var rows []ranked
	for id, cat := range data.Data {
		max := 0.0
		for _, t := range cat.TariffsAvailable {
			for _, dq := range t.TariffsQuoted {
				if dq.Quote.Amount > max {
					max = dq.Quote.Amount
				}
			}
		}
		rows = append(rows, ranked{
			summary: CategorySummary{
				CategoryID:     id,
				CategoryName:   cat.CategoryName,
				CategoryTypeID: cat.CategoryTypeID,
				Price:          representativePrice(cat),
				SitesMessage:   cat.SitesMessage,
			},
			max: max,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].max > rows[j].max })

	out := make([]CategorySummary, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.summary)
	}
	return out, nil
}

func representativePrice(cat CategoryAvailability) *float64 {
	if len(cat.TariffsAvailable) == 0 {
		return nil
	}
	first := cat.TariffsAvailable[0]
	if first.AverageNightlyTariff != nil {
		return first.AverageNightlyTariff
	}
	if len(first.TariffsQuoted) > 0 {
		amount := first.TariffsQuoted[0].Quote.Amount
		return &amount
	}
	return nil
}

// GetTariffQuote fetches availability for the stay and selects the
// tariff for one category, optionally by label.
func (s *Service) GetTariffQuote(ctx context.Context, p AvailabilityParams, categoryID int, label string) (TariffQuote, error) {
	payload := map[string]any{
		"region":      s.region,
		"api_key":     s.apiKey,
		"period_from": p.PeriodFrom,
		"period_to":   p.PeriodTo,
		"adults":      p.Adults,
		"children":    p.Children,
		"daily_mode":  p.DailyMode,
	}
	data, err := s.client.GetAvailability(ctx, payload)
	if err != nil {
		return TariffQuote{}, err
	}
	return SelectTariff(data, categoryID, label)
}

// BookingParams are the inputs of one booking.
type BookingParams struct {
	PeriodFrom  string `json:"period_from"`
	PeriodTo    string `json:"period_to"`
	Firstname   string `json:"guest_firstname"`
	Lastname    string `json:"guest_lastname"`
	Email       string `json:"guest_email"`
	Phone       string `json:"guest_phone"`
	Adults      int    `json:"adults"`
	Children    int    `json:"children"`
	CategoryID  int    `json:"category_id"`
	DailyMode   string `json:"daily_mode"`
	TariffLabel string `json:"tariff_label,omitempty"`
}

// CreateBooking resolves the tariff for the stay and submits the
// booking with the quote map rebuilt per night. A missing tariff is a
// hard failure: the upstream cannot price a booking without one.
func (s *Service) CreateBooking(ctx context.Context, p BookingParams) (map[string]any, error) {
	avail := AvailabilityParams{
		PeriodFrom: p.PeriodFrom,
		PeriodTo:   p.PeriodTo,
		Adults:     p.Adults,
		Children:   p.Children,
		DailyMode:  p.DailyMode,
	}
	quote, err := s.GetTariffQuote(ctx, avail, p.CategoryID, p.TariffLabel)
	if err != nil {
		return nil, fmt.Errorf("select tariff for category %d: %w", p.CategoryID, err)
	}
	if quote.AppliedID == nil {
		return nil, fmt.Errorf("tariff %q for category %d carries no applied id", quote.Label, p.CategoryID)
	}

	from, err := time.Parse("2006-01-02", p.PeriodFrom)
	if err != nil {
		return nil, fmt.Errorf("parse period_from: %w", err)
	}
	to, err := time.Parse("2006-01-02", p.PeriodTo)
	if err != nil {
		return nil, fmt.Errorf("parse period_to: %w", err)
	}

	payload := map[string]any{
		"region":          s.region,
		"api_key":         s.apiKey,
		"period_from":     p.PeriodFrom,
		"period_to":       p.PeriodTo,
		"guest_firstname": p.Firstname,
		"guest_lastname":  p.Lastname,
		"guest_email":     p.Email,
		"guest_phone":     p.Phone,
		"adults":          p.Adults,
		"children":        p.Children,
		"category_id":     p.CategoryID,
		"daily_mode":      p.DailyMode,
		"tariff_label":    quote.Label,
		"tariff_total":    quote.Total,
		"special_deal":    quote.SpecialDeal,
		"tariffs_quoted":  BuildQuotedTariffs(from, to, quote.Total, *quote.AppliedID),
	}

	log.Printf("newbook: creating booking for %s %s (category %d, %s to %s)", p.Firstname, p.Lastname, p.CategoryID, p.PeriodFrom, p.PeriodTo)
	result, err := s.client.CreateBooking(ctx, payload)
	if err != nil {
		return nil, err
	}
	delete(result, "api_key")
	return result, nil
}

// CheckBooking reports whether a booking id appears in the staying
// bookings list for the optional period filters.
func (s *Service) CheckBooking(ctx context.Context, bookingID string, periodFrom, periodTo string) (bool, error) {
	if bookingID == "" {
		return false, fmt.Errorf("booking id is required")
	}
	target, err := strconv.ParseInt(bookingID, 10, 64)
	if err != nil {
		return false, fmt.Errorf("invalid booking id %q", bookingID)
	}

	payload := map[string]any{
		"region":      s.region,
		"api_key":     s.apiKey,
		"period_from": periodFrom,
		"period_to":   periodTo,
		"list_type":   "staying",
	}
	result, err := s.client.ListBookings(ctx, payload)
	if err != nil {
		return false, err
	}
	if result.Success != "true" {
		log.Printf("newbook: bookings_list reported success=%q", result.Success)
		return false, nil
	}
	for _, item := range result.Data {
		if id, err := item.BookingID.Int64(); err == nil && id == target {
			return true, nil
		}
	}
	return false, nil
}
