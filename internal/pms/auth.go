package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"
)

// tokenSafety is subtracted from the upstream expiry so a token is
// refreshed slightly before the server would reject it.
const tokenSafety = 60 * time.Second

// TokenSource obtains and caches the upstream auth token. Tokens are
// shared across all requests made with the same credentials; callers
// invalidate the cache when the upstream answers 401 so the next call
// fetches a fresh token.
type TokenSource struct {
	hc      *http.Client
	baseURL string
	creds   Credentials

	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenSource returns a TokenSource for the given endpoint and
// credentials. The HTTP client is shared with the API client so both
// honour the same timeout.
func NewTokenSource(hc *http.Client, baseURL string, creds Credentials) *TokenSource {
	return &TokenSource{hc: hc, baseURL: baseURL, creds: creds}
}

// Token returns a valid auth token, fetching a new one when the cached
// token is missing or about to expire.
func (t *TokenSource) Token(ctx context.Context) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.token != "" && time.Now().Before(t.expiry.Add(-tokenSafety)) {
		return t.token, nil
	}
	return t.fetchLocked(ctx)
}

// Invalidate drops the cached token. The client calls this after a 401
// before its single retry.
func (t *TokenSource) Invalidate() {
	t.mu.Lock()
	t.token = ""
	t.expiry = time.Time{}
	t.mu.Unlock()
}

func (t *TokenSource) fetchLocked(ctx context.Context) (string, error) {
	payload := struct {
		AgentID             int      `json:"agentId"`
		AgentPassword       string   `json:"agentPassword"`
		ClientID            int      `json:"clientId"`
		ClientPassword      string   `json:"clientPassword"`
		UseTrainingDatabase bool     `json:"useTrainingDatabase"`
		ModuleType          []string `json:"moduleType"`
	}{
		AgentID:             t.creds.AgentID,
		AgentPassword:       t.creds.AgentPassword,
		ClientID:            t.creds.ClientID,
		ClientPassword:      t.creds.ClientPassword,
		UseTrainingDatabase: t.creds.UseTrainingDB,
		ModuleType:          []string{"distribution"},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+"/authToken", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := t.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("pms: token request failed: %w", err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	if res.StatusCode != http.StatusOK {
		return "", &APIError{Status: res.StatusCode, Message: string(raw)}
	}

	var out struct {
		Token      string `json:"token"`
		ExpiryDate string `json:"expiryDate"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("pms: decode token response: %w", err)
	}
	if out.Token == "" {
		return "", fmt.Errorf("pms: token response contained no token")
	}

	t.token = out.Token
	t.expiry = parseExpiry(out.ExpiryDate)
	log.Printf("pms: new auth token acquired for client %d (expires %s)", t.creds.ClientID, t.expiry.Format(time.RFC3339))
	return t.token, nil
}

// parseExpiry accepts the handful of timestamp shapes the upstream has
// been seen to return. An unparseable value falls back to 24 hours so a
// sloppy upstream never pins an expired token forever.
func parseExpiry(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts
		}
	}
	return time.Now().Add(24 * time.Hour)
}
