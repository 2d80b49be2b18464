package server

import (
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// parseOptionalTime accepts RFC3339 timestamps or plain dates.
// A plain date used as an upper bound covers the whole day.
func parseOptionalTime(value string, endOfDay bool) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		parsed = parsed.UTC()
		return &parsed, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed, nil
}

func parseOptionalInt(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}

// dateRange reads start_date and end_date query parameters.
func dateRange(startValue string, endValue string) (*time.Time, *time.Time, error) {
	start, err := parseOptionalTime(startValue, false)
	if err != nil {
		return nil, nil, newValidationError("start_date", "invalid_start_date", "invalid start_date")
	}
	end, err := parseOptionalTime(endValue, true)
	if err != nil {
		return nil, nil, newValidationError("end_date", "invalid_end_date", "invalid end_date")
	}
	return start, end, nil
}
