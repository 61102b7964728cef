package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// Timestamp is a point in time kept exactly as the API sent it; Date and Time interpret it
// on demand, so one odd value never fails the decoding of a whole page.
type Timestamp string

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	time.DateTime,
	time.DateOnly,
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t.Format(time.RFC3339))
}

// UnmarshalJSON accepts strings, null, and bare numbers or other scalars kept verbatim.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		*t = Timestamp(raw)
	default:
		*t = Timestamp(data)
	}
	return nil
}

// Date is the calendar day part, everything before the "T" (or space) separator.
func (t Timestamp) Date() string {
	date, _, _ := strings.Cut(strings.TrimSpace(string(t)), "T")
	date, _, _ = strings.Cut(date, " ")
	return date
}

// Time parses the timestamp; ok is false when no known layout matches.
func (t Timestamp) Time() (time.Time, bool) {
	raw := strings.TrimSpace(string(t))
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}

func (t Timestamp) IsZero() bool {
	return strings.TrimSpace(string(t)) == ""
}

func (t Timestamp) String() string {
	return string(t)
}
