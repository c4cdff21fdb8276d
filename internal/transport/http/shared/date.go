package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate reads the YYYY-MM-DD value the leave and calendar forms send,
// falling back to RFC3339 for API clients that post full timestamps.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(dateLayout, value); err == nil {
		return parsed, nil
	}
	return time.Parse(time.RFC3339, value)
}
