package model

import (
    "bytes"
    "encoding/json"
)

// Signals is the wire form of a reading list.  It marshals to a JSON
// object whose keys keep the snapshot order, e.g. {"mtn":95,"airtel":90}.
type Signals []NetworkReading

// MarshalJSON writes the readings as an ordered JSON object.
func (s Signals) MarshalJSON() ([]byte, error) {
    var buf bytes.Buffer
    buf.WriteByte('{')
    for i, r := range s {
        if i > 0 {
            buf.WriteByte(',')
        }
        k, err := json.Marshal(r.Network)
        if err != nil {
            return nil, err
        }
        v, err := json.Marshal(r.Strength)
        if err != nil {
            return nil, err
        }
        buf.Write(k)
        buf.WriteByte(':')
        buf.Write(v)
    }
    buf.WriteByte('}')
    return buf.Bytes(), nil
}
