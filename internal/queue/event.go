// Package queue defines message payloads exchanged over the message broker.
package queue

// LookupMissedEvent is published when a query resolves to nothing.  It lets
// the data team see which areas and carriers users ask for that the
// snapshot does not cover, without touching the directory itself.
type LookupMissedEvent struct {
    Kind      string `json:"kind"`               // location, network or search
    Query     string `json:"query"`              // the caller's original input
    Location  string `json:"location,omitempty"` // resolved location for network misses
    Network   string `json:"network,omitempty"`  // requested network for network misses
    RequestID string `json:"request_id,omitempty"`
    MissedAt  string `json:"missed_at"` // RFC3339 UTC
}
