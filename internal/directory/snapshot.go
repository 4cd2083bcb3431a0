package directory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailscale/hujson"

	"github.com/iliyamo/lagos-signal-directory/internal/model"
)

// LoadFile reads and parses the snapshot at path.  A missing or unreadable
// file wraps ErrDataUnavailable.
func LoadFile(path string) (*Directory, Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: read %s: %v", ErrDataUnavailable, path, err)
	}
	return Parse(data)
}

// Parse decodes a snapshot of the form
//
//	{"Lagos Island": {"mtn": 95, "airtel": 90}, ...}
//
// Comments and trailing commas are accepted.  Key order is preserved at
// both levels.  Entries that fail validation are quarantined and listed in
// the report; only a document that is not a JSON object fails the load.
func Parse(data []byte) (*Directory, Report, error) {
	std, err := hujson.Standardize(data)
	if err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	dec := json.NewDecoder(bytes.NewReader(std))
	dec.UseNumber()

	if err := expectDelim(dec, '{'); err != nil {
		return nil, Report{}, fmt.Errorf("%w: snapshot must be a JSON object: %v", ErrDataUnavailable, err)
	}
	b := newBuilder()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, Report{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
		}
		name, _ := tok.(string)
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, Report{}, fmt.Errorf("%w: location %q: %v", ErrDataUnavailable, name, err)
		}
		readings, reason := decodeReadings(raw)
		b.add(name, readings, reason)
	}
	if err := expectDelim(dec, '}'); err != nil {
		return nil, Report{}, fmt.Errorf("%w: %v", ErrDataUnavailable, err)
	}
	d, rep := b.build()
	return d, rep, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// decodeReadings walks one location's object in order.  The second result
// is a quarantine reason; empty means the readings decoded cleanly.
func decodeReadings(raw json.RawMessage) ([]model.NetworkReading, string) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := expectDelim(dec, '{'); err != nil {
		return nil, "readings must be an object"
	}
	var out []model.NetworkReading
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err.Error()
		}
		network, _ := tok.(string)
		tok, err = dec.Token()
		if err != nil {
			return nil, err.Error()
		}
		num, ok := tok.(json.Number)
		if !ok {
			return nil, fmt.Sprintf("non-numeric reading for %q", network)
		}
		v, err := num.Float64()
		if err != nil {
			return nil, fmt.Sprintf("invalid reading for %q: %v", network, err)
		}
		out = append(out, model.NetworkReading{Network: network, Strength: v})
	}
	return out, ""
}
