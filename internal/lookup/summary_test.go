package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	cases := map[float64]Quality{
		100: QualityExcellent,
		90:  QualityExcellent,
		89:  QualityGood,
		75:  QualityGood,
		74:  QualityFair,
		50:  QualityFair,
		49:  QualityPoor,
		0:   QualityPoor,
	}
	for in, want := range cases {
		assert.Equal(t, want, Rate(in), "Rate(%v)", in)
	}
}

func TestBars(t *testing.T) {
	assert.Equal(t, 0, Bars(0))
	assert.Equal(t, 1, Bars(1))
	assert.Equal(t, 1, Bars(25))
	assert.Equal(t, 2, Bars(26))
	assert.Equal(t, 4, Bars(95))
	assert.Equal(t, 4, Bars(100))
}

func TestSummarize(t *testing.T) {
	s := Summarize(entry("Lagos Island", nr("mtn", 95), nr("airtel", 90), nr("glo", 85), nr("9mobile", 81)))
	assert.Equal(t, "Lagos Island", s.Location)
	// (95+90+85+81)/4 = 87.75
	assert.Equal(t, 88.0, s.Average)
	assert.Equal(t, QualityGood, s.Quality)
	assert.Len(t, s.Networks, 4)
	assert.Equal(t, RatedReading{Network: "mtn", Strength: 95, Quality: QualityExcellent, Bars: 4}, s.Networks[0])
}

func TestSummarizeNoReadings(t *testing.T) {
	s := Summarize(entry("Nowhere"))
	assert.Zero(t, s.Average)
	assert.Equal(t, QualityPoor, s.Quality)
	assert.Empty(t, s.Networks)
}
