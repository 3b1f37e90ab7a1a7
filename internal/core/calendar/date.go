package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const unknownPrefix = "unknown+"

var (
	// ErrInvalidDate is returned for a date that is neither ISO 8601 nor unknown+X.
	ErrInvalidDate = errors.New("calendar: invalid date format, expected ISO 8601 or unknown+X")
	// ErrInvalidOffset is returned for an unknown+X date whose X is not a whole number of hours.
	ErrInvalidOffset = errors.New("calendar: invalid unknown+ format, expected unknown+X where X is hours to add")
)

var isoLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts an ISO 8601 date or date-time, or "unknown+X" meaning X
// hours after now. Values without a zone are taken as UTC.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, unknownPrefix); ok {
		hours, err := strconv.Atoi(rest)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
		}
		return now.UTC().Add(time.Duration(hours) * time.Hour), nil
	}
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}
