// Package directory holds the immutable location → network → reading
// dataset and the loaders that build it from a snapshot file or a SQL
// table.  A Directory is never mutated after construction; every accessor
// hands out copies.
package directory

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iliyamo/lagos-signal-directory/internal/model"
)

// ErrDataUnavailable is returned when the backing snapshot is missing or
// malformed as a whole.  Providers degrade it to an empty Directory.
var ErrDataUnavailable = errors.New("directory data unavailable")

// Directory is the loaded dataset.  The zero value is an empty directory.
type Directory struct {
	entries []model.LocationEntry
	keys    []string // folded entry names, index-aligned with entries
}

// Empty returns a directory with no locations.
func Empty() *Directory { return &Directory{} }

// Len reports the number of locations.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entry returns a copy of the i-th location in stored order.
func (d *Directory) Entry(i int) model.LocationEntry {
	return d.entries[i].Clone()
}

// Name returns the display name of the i-th location.
func (d *Directory) Name(i int) model.LocationName {
	return d.entries[i].Name
}

// Key returns the case-folded name of the i-th location.
func (d *Directory) Key(i int) string {
	return d.keys[i]
}

// Entries returns copies of all locations in stored order.
func (d *Directory) Entries() []model.LocationEntry {
	out := make([]model.LocationEntry, 0, d.Len())
	for i := 0; i < d.Len(); i++ {
		out = append(out, d.Entry(i))
	}
	return out
}

// Quarantine records a snapshot entry that was rejected at load time.
type Quarantine struct {
	Location string `json:"location"`
	Reason   string `json:"reason"`
}

// Report summarises a load: how many entries were accepted and which
// were quarantined.
type Report struct {
	Loaded      int          `json:"loaded"`
	Quarantined []Quarantine `json:"quarantined"`
}

// builder validates entries one at a time and assembles a Directory.
type builder struct {
	entries []model.LocationEntry
	keys    []string
	seen    map[string]bool
	report  Report
}

func newBuilder() *builder {
	return &builder{seen: map[string]bool{}}
}

func (b *builder) quarantine(location, reason string) {
	b.report.Quarantined = append(b.report.Quarantined, Quarantine{Location: location, Reason: reason})
}

// add accepts an entry when it passes validation.  A non-empty reason
// from the decoder quarantines the entry outright.
func (b *builder) add(name string, readings []model.NetworkReading, reason string) {
	if reason != "" {
		b.quarantine(name, reason)
		return
	}
	if err := validate(name, readings); err != nil {
		b.quarantine(name, err.Error())
		return
	}
	key := model.Fold(name)
	if b.seen[key] {
		b.quarantine(name, "duplicate location name")
		return
	}
	b.seen[key] = true
	b.entries = append(b.entries, model.LocationEntry{Name: name, Readings: readings})
	b.keys = append(b.keys, key)
	b.report.Loaded++
}

func (b *builder) build() (*Directory, Report) {
	return &Directory{entries: b.entries, keys: b.keys}, b.report
}

func validate(name string, readings []model.NetworkReading) error {
	if strings.TrimSpace(name) == "" {
		return errors.New("blank location name")
	}
	if len(readings) == 0 {
		return errors.New("no network readings")
	}
	nets := make(map[string]bool, len(readings))
	for _, r := range readings {
		if strings.TrimSpace(r.Network) == "" {
			return errors.New("blank network name")
		}
		k := model.Fold(r.Network)
		if nets[k] {
			return fmt.Errorf("duplicate network %q", r.Network)
		}
		nets[k] = true
		if math.IsNaN(r.Strength) || r.Strength < model.MinReading || r.Strength > model.MaxReading {
			return fmt.Errorf("reading for %q out of range: %v", r.Network, r.Strength)
		}
	}
	return nil
}

// New builds a Directory from already-typed entries, applying the same
// validation as the loaders.  Tests and static providers use it.
func New(entries ...model.LocationEntry) (*Directory, Report) {
	b := newBuilder()
	for _, e := range entries {
		b.add(e.Name, e.Clone().Readings, "")
	}
	return b.build()
}
