package lookup

import (
	"math"

	"github.com/iliyamo/lagos-signal-directory/internal/model"
)

// Quality is a coarse tier for a reading.
type Quality string

const (
	QualityExcellent Quality = "excellent"
	QualityGood      Quality = "good"
	QualityFair      Quality = "fair"
	QualityPoor      Quality = "poor"
)

// Tier thresholds, inclusive lower bounds.
const (
	ExcellentFrom = 90
	GoodFrom      = 75
	FairFrom      = 50
	MaxBars       = 4
)

// Rate classifies a reading.
func Rate(s model.SignalReading) Quality {
	switch {
	case s >= ExcellentFrom:
		return QualityExcellent
	case s >= GoodFrom:
		return QualityGood
	case s >= FairFrom:
		return QualityFair
	default:
		return QualityPoor
	}
}

// Bars maps a reading onto a 0–4 bar indicator, one bar per 25 points
// rounded up.
func Bars(s model.SignalReading) int {
	n := int(math.Ceil(float64(s) / 25))
	if n < 0 {
		return 0
	}
	if n > MaxBars {
		return MaxBars
	}
	return n
}

// RatedReading is a reading with its tier and bar count.
type RatedReading struct {
	Network  model.NetworkName   `json:"network"`
	Strength model.SignalReading `json:"strength"`
	Quality  Quality             `json:"quality"`
	Bars     int                 `json:"bars"`
}

// Summary aggregates one location across all its networks.
type Summary struct {
	Location model.LocationName `json:"location"`
	Average  float64            `json:"average"`
	Quality  Quality            `json:"quality"`
	Networks []RatedReading     `json:"networks"`
}

// Summarize rates every reading of e and computes the rounded mean, which
// is what the "all networks" view shows.
func Summarize(e model.LocationEntry) Summary {
	s := Summary{Location: e.Name, Networks: make([]RatedReading, 0, len(e.Readings))}
	var total float64
	for _, r := range e.Readings {
		total += r.Strength
		s.Networks = append(s.Networks, RatedReading{
			Network:  r.Network,
			Strength: r.Strength,
			Quality:  Rate(r.Strength),
			Bars:     Bars(r.Strength),
		})
	}
	if len(e.Readings) > 0 {
		s.Average = math.Round(total / float64(len(e.Readings)))
	}
	s.Quality = Rate(s.Average)
	return s
}
