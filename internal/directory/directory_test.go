package directory

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/lagos-signal-directory/internal/model"
)

const sample = `{
  // Lagos mainland and island
  "Lagos Island": {"mtn": 95, "airtel": 90, "glo": 85, "9mobile": 80},
  "Ikeja": {"mtn": 92, "airtel": 89, "glo": 83, "9mobile": 77},
  "Yaba": {"MTN": 90.5, "airtel": 87, "glo": 82, "9mobile": 75},
}`

func TestParsePreservesOrder(t *testing.T) {
	d, rep, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 3, rep.Loaded)
	assert.Empty(t, rep.Quarantined)

	want := []model.LocationEntry{
		{Name: "Lagos Island", Readings: []model.NetworkReading{{Network: "mtn", Strength: 95}, {Network: "airtel", Strength: 90}, {Network: "glo", Strength: 85}, {Network: "9mobile", Strength: 80}}},
		{Name: "Ikeja", Readings: []model.NetworkReading{{Network: "mtn", Strength: 92}, {Network: "airtel", Strength: 89}, {Network: "glo", Strength: 83}, {Network: "9mobile", Strength: 77}}},
		{Name: "Yaba", Readings: []model.NetworkReading{{Network: "MTN", Strength: 90.5}, {Network: "airtel", Strength: 87}, {Network: "glo", Strength: 82}, {Network: "9mobile", Strength: 75}}},
	}
	if diff := cmp.Diff(want, d.Entries()); diff != "" {
		t.Fatalf("entries mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "lagos island", d.Key(0))
}

func TestParseQuarantinesBadEntries(t *testing.T) {
	doc := `{
		"Good": {"mtn": 50},
		"NotObject": 42,
		"Empty": {},
		"Text": {"mtn": "strong"},
		"High": {"mtn": 101},
		"Negative": {"mtn": -1},
		"DupNet": {"mtn": 1, "MTN": 2},
		"good": {"mtn": 60},
		"": {"mtn": 10},
		"Nested": {"mtn": {"x": 1}},
		"Null": null
	}`
	d, rep, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 1, d.Len())
	assert.Equal(t, "Good", d.Name(0))
	assert.Equal(t, 1, rep.Loaded)

	got := map[string]string{}
	for _, q := range rep.Quarantined {
		got[q.Location] = q.Reason
	}
	assert.Len(t, got, 10)
	assert.Equal(t, "readings must be an object", got["NotObject"])
	assert.Equal(t, "no network readings", got["Empty"])
	assert.Equal(t, `non-numeric reading for "mtn"`, got["Text"])
	assert.Contains(t, got["High"], "out of range")
	assert.Contains(t, got["Negative"], "out of range")
	assert.Contains(t, got["DupNet"], "duplicate network")
	assert.Equal(t, "duplicate location name", got["good"])
	assert.Equal(t, "blank location name", got[""])
	assert.Contains(t, got["Nested"], "non-numeric")
	assert.Equal(t, "readings must be an object", got["Null"])
}

func TestParseRejectsNonObject(t *testing.T) {
	for _, doc := range []string{`[]`, `"x"`, `{`, `not json`, ``} {
		_, _, err := Parse([]byte(doc))
		assert.ErrorIs(t, err, ErrDataUnavailable, "doc %q", doc)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "locations.json")
	require.NoError(t, os.WriteFile(p, []byte(sample), 0o644))

	d, _, err := LoadFile(p)
	require.NoError(t, err)
	assert.Equal(t, 3, d.Len())

	_, _, err = LoadFile(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrDataUnavailable)
}

func TestFromRowsGroupsInFirstSeenOrder(t *testing.T) {
	v := func(f float64) sql.NullFloat64 { return sql.NullFloat64{Float64: f, Valid: true} }
	d, rep := fromRows([]readingRow{
		{"Ikeja", "mtn", v(92)},
		{"Yaba", "mtn", v(90)},
		{"Ikeja", "airtel", v(89)},
		{"Surulere", "mtn", sql.NullFloat64{}},
		{"Yaba", "airtel", v(87)},
	})
	require.Equal(t, 2, d.Len())
	assert.Equal(t, []string{"mtn", "airtel"}, d.Entry(0).Networks())
	assert.Equal(t, "Yaba", d.Name(1))
	require.Len(t, rep.Quarantined, 1)
	assert.Equal(t, "Surulere", rep.Quarantined[0].Location)
}

func TestLoadSQLRejectsBadTable(t *testing.T) {
	_, _, err := LoadSQL(context.Background(), nil, "readings; DROP TABLE x")
	assert.ErrorIs(t, err, ErrBadTable)
}

func TestSelectReadingsOrdersByPosition(t *testing.T) {
	q, err := selectReadings("signal_readings")
	require.NoError(t, err)
	assert.Equal(t, "SELECT location, network, strength FROM signal_readings ORDER BY position", q)
}

func TestSnapshotDegradesToEmpty(t *testing.T) {
	calls := 0
	s := NewSnapshot(func(context.Context) (*Directory, Report, error) {
		calls++
		return nil, Report{}, errors.New("boom")
	})
	d, err := s.Directory(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, d.Len())

	_, _ = s.Directory(context.Background())
	assert.Equal(t, 1, calls)

	_, loadErr := s.Report(context.Background())
	assert.EqualError(t, loadErr, "boom")
}

func TestSnapshotLoadsOnce(t *testing.T) {
	calls := 0
	s := NewSnapshot(func(context.Context) (*Directory, Report, error) {
		calls++
		return Parse([]byte(sample))
	})
	for i := 0; i < 3; i++ {
		d, err := s.Directory(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 3, d.Len())
	}
	assert.Equal(t, 1, calls)
}

func TestNilDirectoryIsEmpty(t *testing.T) {
	var d *Directory
	assert.Equal(t, 0, d.Len())
	assert.Empty(t, d.Entries())
	assert.Equal(t, 0, NewStatic(nil).dir.Len())
}
