package timex

import (
	"encoding/json"
	"fmt"
	"time"
)

// naiveISOLayout matches zone-less ISO-8601 timestamps with optional
// fractional seconds, e.g. "2024-03-01T10:22:41.512093".
const naiveISOLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a point in time persisted as an RFC 3339 string. On decode it
// also accepts zone-less ISO-8601 text, interpreted in the local time zone.
type Timestamp struct {
	time.Time
}

// NewTimestamp wraps t.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

// ParseTimestamp parses RFC 3339 or zone-less ISO-8601 text.
func ParseTimestamp(s string) (Timestamp, error) {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return Timestamp{Time: t}, nil
	}
	t, err := time.ParseInLocation(naiveISOLayout, s, time.Local)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{Time: t}, nil
}

func (ts Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(ts.Format(time.RFC3339Nano))
}

func (ts *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseTimestamp(s)
	if err != nil {
		return err
	}
	*ts = parsed
	return nil
}
