// Package pms implements the REST client for the upstream property
// management system. It owns token acquisition and refresh, the single
// retry after a 401, and the wire types exchanged with the API. All
// business decisions (candidate selection, retry-across-units, pricing)
// live above this package in internal/service.
package pms

// Credentials identifies one tenant against the upstream API. It is
// resolved per request from the pms_instances table and is never
// mutated by this package.
type Credentials struct {
	AgentID        int    `json:"agentId"`
	AgentPassword  string `json:"agentPassword"`
	ClientID       int    `json:"clientId"`
	ClientPassword string `json:"clientPassword"`
	UseTrainingDB  bool   `json:"useTrainingDatabase"`
}

// Property is one property (holiday park) visible to the credentials.
type Property struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Category is a class of bookable unit (room type, site type).
// NumberOfAreas is the count of physical units configured under the
// category. AvailableToIBE reports whether the category may be sold
// through self-service channels.
type Category struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	Inactive       bool   `json:"inactive"`
	NumberOfAreas  int    `json:"numberOfAreas"`
	AvailableToIBE bool   `json:"availableToIbe"`
}

// RatePlan is a named pricing policy attached to a category.
type RatePlan struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Area is one concrete physical unit. CleanStatus is the last-known
// housekeeping state ("VacantClean", "VacantDirty", "Occupied",
// "Maintenance", ...). It is a stale signal: the upstream system, not
// this field, decides whether the unit can actually be booked.
type Area struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	CategoryID  int    `json:"categoryId"`
	Inactive    bool   `json:"inactive"`
	CleanStatus string `json:"cleanStatus"`
}

// RatesGridRequest is the combined pricing query. The upstream API
// requires both CategoryIDs and RateIDs to be non-empty at the same
// time and rejects the call otherwise.
type RatesGridRequest struct {
	PropertyID            int    `json:"propertyId"`
	AgentID               int    `json:"agentId"`
	Arrival               string `json:"arrival"`
	Departure             string `json:"departure"`
	Adults                int    `json:"adults"`
	Children              int    `json:"children"`
	CategoryIDs           []int  `json:"categoryIds"`
	RateIDs               []int  `json:"rateIds"`
	IncludeEstimatedRates bool   `json:"includeEstimatedRates"`
	IncludeZeroRates      bool   `json:"includeZeroRates"`
}

// RatesGridResponse is organised category -> rate plan -> per-day
// breakdown across the requested stay.
type RatesGridResponse struct {
	Categories []GridCategory `json:"categories"`
}

type GridCategory struct {
	CategoryID int        `json:"categoryId"`
	Name       string     `json:"name"`
	Rates      []GridRate `json:"rates"`
}

type GridRate struct {
	RateID       int       `json:"rateId"`
	Name         string    `json:"name"`
	DayBreakdown []GridDay `json:"dayBreakdown"`
}

// GridDay carries one night of the stay. AvailableAreas is the number
// of units still sellable on that night under this category/rate pair.
type GridDay struct {
	TheDate        string  `json:"theDate"`
	AvailableAreas int     `json:"availableAreas"`
	DailyRate      float64 `json:"dailyRate"`
}

// AvailableAreasRequest asks for units confirmed free for the whole
// date range in real time.
type AvailableAreasRequest struct {
	PropertyID int    `json:"propertyId"`
	CategoryID int    `json:"categoryId"`
	Arrival    string `json:"arrival"`
	Departure  string `json:"departure"`
	Adults     int    `json:"adults"`
	Children   int    `json:"children"`
}

// Guest is the upstream guest account record.
type Guest struct {
	ID      int    `json:"id"`
	Given   string `json:"guestGiven"`
	Surname string `json:"guestSurname"`
	Email   string `json:"email"`
	Mobile  string `json:"mobile"`
}

// GuestSearchRequest narrows guest search by property and email.
type GuestSearchRequest struct {
	PropertyID int    `json:"propertyId"`
	Email      string `json:"email"`
}

// GuestCreateRequest creates a new guest account.
type GuestCreateRequest struct {
	PropertyID int    `json:"propertyId"`
	Given      string `json:"guestGiven"`
	Surname    string `json:"guestSurname"`
	Email      string `json:"email"`
	Mobile     string `json:"mobile,omitempty"`
}

// ReservationRequest creates one reservation against a specific area.
// Status is always "confirmed" and payment is deferred; the bridge
// never takes payment itself.
type ReservationRequest struct {
	PropertyID    int    `json:"propertyId"`
	AgentID       int    `json:"agentId"`
	Arrival       string `json:"arrival"`
	Departure     string `json:"departure"`
	Adults        int    `json:"adults"`
	Children      int    `json:"children"`
	CategoryID    int    `json:"categoryId"`
	RateTypeID    int    `json:"rateTypeId"`
	AreaID        int    `json:"areaId"`
	GuestID       int    `json:"guestId"`
	Status        string `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
}

// Reservation is the upstream-assigned booking. This service only
// relays and logs it; the upstream system owns it.
type Reservation struct {
	ID                 int     `json:"id"`
	ConfirmationNumber string  `json:"confirmationNumber"`
	AreaID             int     `json:"areaId"`
	CategoryID         int     `json:"categoryId"`
	GuestID            int     `json:"guestId"`
	Arrival            string  `json:"arrival"`
	Departure          string  `json:"departure"`
	Adults             int     `json:"adults"`
	Children           int     `json:"children"`
	Total              float64 `json:"total"`
	Status             string  `json:"status"`
}
