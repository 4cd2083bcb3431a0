package model

import "strings"

// LocationName identifies a Lagos area, e.g. "Lagos Island".  Names are
// matched case-insensitively but always displayed as stored.
type LocationName = string

// NetworkName identifies a mobile carrier, e.g. "mtn" or "9mobile".
type NetworkName = string

// SignalReading is a relative signal strength between MinReading and
// MaxReading for a (location, network) pair.
type SignalReading = float64

const (
    MinReading SignalReading = 0
    MaxReading SignalReading = 100
)

// KnownNetworks lists the carriers the service reports on, using their
// display spelling.  Snapshots store them lower-cased.
var KnownNetworks = []NetworkName{"MTN", "Airtel", "Glo", "9mobile"}

// NetworkReading is a single typed reading inside a LocationEntry.
//
// Fields:
//  Network  – carrier name exactly as stored in the snapshot.
//  Strength – reading in the 0–100 range.
type NetworkReading struct {
    Network  NetworkName   // snapshot key
    Strength SignalReading // snapshot value
}

// LocationEntry is one row of the directory: a location and its readings
// in snapshot order.
//
// Fields:
//  Name     – case-preserving location name.
//  Readings – one reading per network, never empty for a loaded entry.
type LocationEntry struct {
    Name     LocationName     // display name
    Readings []NetworkReading // readings in stored order
}

// Networks returns the entry's network names in stored order.
func (e LocationEntry) Networks() []NetworkName {
    out := make([]NetworkName, 0, len(e.Readings))
    for _, r := range e.Readings {
        out = append(out, r.Network)
    }
    return out
}

// Clone returns a deep copy so callers can never alias directory storage.
func (e LocationEntry) Clone() LocationEntry {
    rs := make([]NetworkReading, len(e.Readings))
    copy(rs, e.Readings)
    return LocationEntry{Name: e.Name, Readings: rs}
}

// SuggestNetworks formats KnownNetworks for user-facing hints.
func SuggestNetworks() string {
    return "Available networks: " + strings.Join(KnownNetworks, ", ")
}
