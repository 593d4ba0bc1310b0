package state

import (
	"fmt"
	"strings"
	"time"
)

// localLayout is the TOML local date-time form used in state.toml.
const localLayout = "2006-01-02T15:04:05.999999999"

// Timestamp is a wall-clock time in the local zone. It is stored as a TOML
// local date-time without offset.
type Timestamp struct {
	time.Time
}

// NeverWatered is the sentinel for plants with no recorded watering.
var NeverWatered = NewTimestamp(time.Date(1900, time.January, 1, 0, 0, 0, 0, time.Local))

// NewTimestamp converts t to local time and drops any monotonic reading.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Local().Round(0)}
}

// IsNever reports whether ts is the never-watered sentinel.
func (ts Timestamp) IsNever() bool {
	return ts.Equal(NeverWatered.Time)
}

// String formats ts as a local date-time.
func (ts Timestamp) String() string {
	return ts.Format(localLayout)
}

// MarshalTOML writes ts as an unquoted TOML local date-time.
func (ts Timestamp) MarshalTOML() ([]byte, error) {
	return []byte(ts.Format(localLayout)), nil
}

// UnmarshalTOML accepts local date-times, offset date-times and quoted
// strings in either form.
func (ts *Timestamp) UnmarshalTOML(v any) error {
	switch v := v.(type) {
	case time.Time:
		*ts = fromDecoded(v)
		return nil
	case string:
		t, err := parseTimestamp(v)
		if err != nil {
			return err
		}
		*ts = t
		return nil
	default:
		return fmt.Errorf("last_watered: expected date-time, got %T", v)
	}
}

// fromDecoded interprets a decoder-produced time. Local date-times carry a
// placeholder zone and keep their wall clock; offset date-times keep their
// instant.
func fromDecoded(t time.Time) Timestamp {
	name, _ := t.Zone()
	if strings.HasSuffix(t.Location().String(), "-local") || strings.HasSuffix(name, "-local") {
		return Timestamp{Time: time.Date(t.Year(), t.Month(), t.Day(),
			t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.Local)}
	}
	return NewTimestamp(t)
}

func parseTimestamp(s string) (Timestamp, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return NewTimestamp(t), nil
	}
	for _, layout := range []string{localLayout, "2006-01-02 15:04:05.999999999"} {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("last_watered: invalid date-time %q", s)
}
