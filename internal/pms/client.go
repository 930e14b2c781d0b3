package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// requestTimeout bounds every upstream call, token requests included.
const requestTimeout = 30 * time.Second

// Client issues authenticated calls to the upstream PMS REST API. It
// retries a request exactly once after invalidating the cached token on
// a 401; every other failure is passed through unchanged.
type Client struct {
	hc      *http.Client
	baseURL string
	tokens  *TokenSource
}

// NewClient builds a client for one set of tenant credentials.
func NewClient(baseURL string, creds Credentials) *Client {
	hc := &http.Client{Timeout: requestTimeout}
	return &Client{
		hc:      hc,
		baseURL: baseURL,
		tokens:  NewTokenSource(hc, baseURL, creds),
	}
}

// ListProperties returns the properties visible to the credentials.
func (c *Client) ListProperties(ctx context.Context) ([]Property, error) {
	var out []Property
	err := c.do(ctx, http.MethodGet, "/properties", nil, nil, &out)
	return out, err
}

// ListCategories returns all categories configured for the property.
func (c *Client) ListCategories(ctx context.Context, propertyID int) ([]Category, error) {
	q := url.Values{"propertyId": {strconv.Itoa(propertyID)}}
	var out []Category
	err := c.do(ctx, http.MethodGet, "/categories", q, nil, &out)
	return out, err
}

// ListRatePlans returns the rate plans attached to a category.
func (c *Client) ListRatePlans(ctx context.Context, categoryID int) ([]RatePlan, error) {
	q := url.Values{"categoryId": {strconv.Itoa(categoryID)}}
	var out []RatePlan
	err := c.do(ctx, http.MethodGet, "/rates", q, nil, &out)
	return out, err
}

// GetRatesGrid runs the combined pricing/availability query. Both
// CategoryIDs and RateIDs must be non-empty; the upstream errors
// otherwise, so callers guard this before calling.
func (c *Client) GetRatesGrid(ctx context.Context, req RatesGridRequest) (RatesGridResponse, error) {
	var out RatesGridResponse
	err := c.do(ctx, http.MethodPost, "/rates/grid", nil, req, &out)
	return out, err
}

// GetAvailableAreas returns the units confirmed free for the whole
// range in real time. An empty list is a valid answer.
func (c *Client) GetAvailableAreas(ctx context.Context, req AvailableAreasRequest) ([]Area, error) {
	var out []Area
	err := c.do(ctx, http.MethodPost, "/availableAreas", nil, req, &out)
	return out, err
}

// ListAreas returns every unit of the property with its last-known
// housekeeping status.
func (c *Client) ListAreas(ctx context.Context, propertyID int) ([]Area, error) {
	q := url.Values{"propertyId": {strconv.Itoa(propertyID)}}
	var out []Area
	err := c.do(ctx, http.MethodGet, "/areas", q, nil, &out)
	return out, err
}

// SearchGuests looks up guest accounts by email.
func (c *Client) SearchGuests(ctx context.Context, propertyID int, email string) ([]Guest, error) {
	var out []Guest
	err := c.do(ctx, http.MethodPost, "/guests/search", nil, GuestSearchRequest{PropertyID: propertyID, Email: email}, &out)
	return out, err
}

// CreateGuest registers a new guest account.
func (c *Client) CreateGuest(ctx context.Context, req GuestCreateRequest) (Guest, error) {
	var out Guest
	err := c.do(ctx, http.MethodPost, "/guests", nil, req, &out)
	return out, err
}

// CreateReservation books one specific area. The mandatory-field
// warnings are suppressed because the bridge supplies the area itself
// and the IBE deposit rules apply to deferred payment.
func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) (Reservation, error) {
	q := url.Values{
		"ignoreMandatoryFieldWarnings": {"true"},
		"useIbeDepositRules":           {"true"},
	}
	var out Reservation
	err := c.do(ctx, http.MethodPost, "/reservations", q, req, &out)
	return out, err
}

// GetReservation fetches one reservation by upstream id.
func (c *Client) GetReservation(ctx context.Context, id int) (Reservation, error) {
	var out Reservation
	err := c.do(ctx, http.MethodGet, "/reservations/"+strconv.Itoa(id), nil, nil, &out)
	return out, err
}

// CancelReservation cancels one reservation by upstream id.
func (c *Client) CancelReservation(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, "/reservations/"+strconv.Itoa(id), nil, nil, nil)
}

// do performs one authenticated request, decoding the JSON response
// into out when out is non-nil. A 401 triggers exactly one token
// refresh and retry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	res, raw, err := c.roundTrip(ctx, method, path, query, payload)
	if err != nil {
		return err
	}
	if res.StatusCode == http.StatusUnauthorized {
		log.Printf("pms: 401 on %s %s, refreshing token and retrying once", method, path)
		c.tokens.Invalidate()
		res, raw, err = c.roundTrip(ctx, method, path, query, payload)
		if err != nil {
			return err
		}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return &APIError{Status: res.StatusCode, Message: string(raw)}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("pms: decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, payload []byte) (*http.Response, []byte, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, nil, err
	}
	if query != nil {
		req.URL.RawQuery = query.Encode()
	}
	req.Header.Set("authtoken", token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("pms: %s %s: %w", method, path, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("pms: read %s %s response: %w", method, path, err)
	}
	return res, raw, nil
}
