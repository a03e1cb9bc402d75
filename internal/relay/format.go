package relay

import "time"

// DefaultTimezone is the zone update times are shown in.
const DefaultTimezone = "Asia/Seoul"

const updatedLayout = "2006-01-02 15:04:05 MST"

// FormatUpdated renders a message timestamp in loc.
func FormatUpdated(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return "updated: " + t.In(loc).Format(updatedLayout)
}

// LoadLocation resolves name, falling back to UTC when the zone is unknown.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC, err
	}
	return loc, nil
}
