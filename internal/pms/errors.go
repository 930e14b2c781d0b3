package pms

import "fmt"

// APIError is returned for any upstream response outside the 2xx range.
// Status carries the HTTP status code and Message the upstream error
// body, which callers inspect to classify reservation failures.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("pms: upstream returned status %d", e.Status)
	}
	return fmt.Sprintf("pms: upstream returned status %d: %s", e.Status, e.Message)
}
