package newbook

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout bounds every upstream call.
const requestTimeout = 15 * time.Second

// Client calls the alternate booking backend. Transport auth is HTTP
// basic; tenant auth travels in the body as region + api key, which the
// service layer injects per payload.
type Client struct {
	hc       *http.Client
	baseURL  string
	username string
	password string
}

// NewClient builds a client for the given endpoint and basic-auth pair.
func NewClient(baseURL, username, password string) *Client {
	return &Client{
		hc:       &http.Client{Timeout: requestTimeout},
		baseURL:  baseURL,
		username: username,
		password: password,
	}
}

// GetAvailability runs the availability/pricing query.
func (c *Client) GetAvailability(ctx context.Context, payload any) (AvailabilityPayload, error) {
	var out AvailabilityPayload
	err := c.post(ctx, "/bookings_availability_pricing", payload, &out)
	return out, err
}

// CreateBooking creates a booking. The raw response is returned so the
// handler can relay upstream fields it does not model.
func (c *Client) CreateBooking(ctx context.Context, payload any) (map[string]any, error) {
	var out map[string]any
	err := c.post(ctx, "/bookings_create", payload, &out)
	return out, err
}

// ListBookings lists bookings matching the payload filters.
func (c *Client) ListBookings(ctx context.Context, payload any) (BookingListPayload, error) {
	var out BookingListPayload
	err := c.post(ctx, "/bookings_list", payload, &out)
	return out, err
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+basicAuth(c.username, c.password))

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("newbook: POST %s: %w", path, err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return fmt.Errorf("newbook: read %s response: %w", path, err)
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("newbook: POST %s returned status %d: %s", path, res.StatusCode, string(raw))
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("newbook: decode %s response: %w", path, err)
	}
	return nil
}

func basicAuth(username, password string) string {
	return base64.StdEncoding.EncodeToString([]byte(username + ":" + password))
}
