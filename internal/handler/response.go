package handler

import "github.com/iliyamo/lagos-signal-directory/internal/model"

// Every response carries "success".  Field order below is the order
// clients see in the JSON body.

// ErrorResponse is the failure envelope.  Optional fields appear only for
// the failures that use them.
type ErrorResponse struct {
	Success           bool     `json:"success"`
	Message           string   `json:"message"`
	AvailableNetworks []string `json:"availableNetworks,omitempty"`
	Suggestion        string   `json:"suggestion,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// LocationsResponse answers the list query.
type LocationsResponse struct {
	Success   bool     `json:"success"`
	Count     int      `json:"count"`
	Locations []string `json:"locations"`
	Message   string   `json:"message"`
}

// LocationResponse answers the all-networks query for one location.
type LocationResponse struct {
	Success  bool          `json:"success"`
	Location string        `json:"location"`
	Signals  model.Signals `json:"signals"`
	Message  string        `json:"message"`
}

// SignalResponse answers the single-network query.
type SignalResponse struct {
	Success  bool                `json:"success"`
	Location string              `json:"location"`
	Network  string              `json:"network"`
	Strength model.SignalReading `json:"strength"`
	Message  string              `json:"message"`
}

// SearchResult is one matched location.
type SearchResult struct {
	Location string        `json:"location"`
	Signals  model.Signals `json:"signals"`
}

// SearchResponse answers the substring search.
type SearchResponse struct {
	Success bool           `json:"success"`
	Query   string         `json:"query"`
	Count   int            `json:"count"`
	Results []SearchResult `json:"results"`
	Message string         `json:"message"`
}

// HealthData is the payload of the health query.
type HealthData struct {
	TotalLocations int               `json:"totalLocations"`
	Networks       []string          `json:"networks"`
	Endpoints      map[string]string `json:"endpoints"`
}

// HealthResponse answers the health query.
type HealthResponse struct {
	Success   bool       `json:"success"`
	Message   string     `json:"message"`
	Status    string     `json:"status"`
	Timestamp string     `json:"timestamp"`
	Data      HealthData `json:"data"`
}

// BannerResponse describes the service at the root path.
type BannerResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}
