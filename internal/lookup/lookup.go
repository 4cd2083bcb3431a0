// Package lookup resolves queries against a Directory.  Every function is
// a pure function of its inputs and safe for concurrent use, since a
// Directory never changes after it is built.
package lookup

import (
	"strings"

	"github.com/iliyamo/lagos-signal-directory/internal/directory"
	"github.com/iliyamo/lagos-signal-directory/internal/model"
)

// Signal is a resolved (location, network) reading with canonical names.
type Signal struct {
	Location model.LocationName
	Network  model.NetworkName
	Strength model.SignalReading
}

// AllLocations returns every location name in stored order.
func AllLocations(d *directory.Directory) []model.LocationName {
	out := make([]model.LocationName, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		out = append(out, d.Name(i))
	}
	return out
}

// find returns the index of the first location whose folded name equals
// the folded input, or -1.
func find(d *directory.Directory, name string) int {
	key := model.Fold(name)
	for i := 0; i < d.Len(); i++ {
		if d.Key(i) == key {
			return i
		}
	}
	return -1
}

// GetLocation resolves name ignoring case.
func GetLocation(d *directory.Directory, name string) (model.LocationEntry, error) {
	i := find(d, name)
	if i < 0 {
		return model.LocationEntry{}, &NotFoundError{Kind: KindLocation, Input: name}
	}
	return d.Entry(i), nil
}

// GetSignal resolves name, then network within that location, both
// ignoring case.  An unknown network reports the location's networks.
func GetSignal(d *directory.Directory, name, network string) (Signal, error) {
	entry, err := GetLocation(d, name)
	if err != nil {
		return Signal{}, err
	}
	key := model.Fold(network)
	for _, r := range entry.Readings {
		if model.Fold(r.Network) == key {
			return Signal{Location: entry.Name, Network: r.Network, Strength: r.Strength}, nil
		}
	}
	return Signal{}, &NotFoundError{
		Kind:      KindNetwork,
		Input:     network,
		Location:  entry.Name,
		Available: entry.Networks(),
	}
}

// Search returns every location whose name contains query, ignoring case,
// in stored order.  An empty query matches everything; no match yields an
// empty, non-nil slice.
func Search(d *directory.Directory, query string) []model.LocationEntry {
	q := model.Fold(query)
	out := []model.LocationEntry{}
	for i := 0; i < d.Len(); i++ {
		if strings.Contains(d.Key(i), q) {
			out = append(out, d.Entry(i))
		}
	}
	return out
}
