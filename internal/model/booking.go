package model

// AvailabilityOption is one sellable (category, rate plan) pairing for
// a date range. Options are constructed fresh per search and never
// persisted; ascending order by TotalPrice is the only ordering callers
// may rely on.
type AvailabilityOption struct {
	CategoryID     int     `json:"category_id"`
	CategoryName   string  `json:"category_name"`
	RatePlanID     int     `json:"rate_plan_id"`
	RatePlanName   string  `json:"rate_plan_name"`
	TotalPrice     float64 `json:"total_price"`
	AvailableAreas int     `json:"available_areas"`
}

// Confidence grades where an area candidate came from.
type Confidence int

const (
	// ConfidenceConfirmed marks units reported free by a real-time
	// availability query.
	ConfidenceConfirmed Confidence = iota
	// ConfidenceHeuristic marks units inferred from stale housekeeping
	// status. Good enough to bias attempt order, never a guarantee.
	ConfidenceHeuristic
)

func (c Confidence) String() string {
	if c == ConfidenceConfirmed {
		return "confirmed"
	}
	return "heuristic"
}

// AreaCandidate is a physical unit id plus the confidence of the
// signal that nominated it.
type AreaCandidate struct {
	AreaID     int
	Confidence Confidence
}

// GuestInfo is the caller-supplied guest identity used to resolve or
// create the upstream guest account.
type GuestInfo struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}
