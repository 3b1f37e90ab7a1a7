// Package dates pulls "<label>: YYYY-MM-DD" pairs out of free text.
package dates

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"legal-assistant/config"
	"legal-assistant/pkg/logger"
)

// Layout is the only accepted date format.
const Layout = "2006-01-02"

// ErrInvalidDateFormat marks a candidate whose date part is not a real
// YYYY-MM-DD calendar date.
var ErrInvalidDateFormat = errors.New("dates: invalid date format")

// ImportantDate is a labelled date found in metadata text.
type ImportantDate struct {
	Description string `json:"description"`
	Date        string `json:"date"`
}

// Time parses Date at midnight UTC.
func (d ImportantDate) Time() (time.Time, error) {
	return time.Parse(Layout, d.Date)
}

// The label stops at list separators so that "a: 2023-01-01, b: 2023-02-02"
// yields two labels; trailing digits are captured to reject longer numbers.
var pattern = regexp.MustCompile(`([^:,;\n]+):[ \t]*(\d{4}-\d{2}-\d{2})(\d*)`)

// Extract returns every labelled date in text, in order of appearance.
// Matches with an empty label or an invalid date are skipped.
func Extract(text string) []ImportantDate {
	var out []ImportantDate
	for _, m := range pattern.FindAllStringSubmatch(text, -1) {
		d, err := candidate(m[1], m[2], m[3])
		if err != nil {
			logger.WithModule(config.ModuleDates).WithField("match", m[0]).Debug(err)
			continue
		}
		out = append(out, d)
	}
	return out
}

func candidate(label, date, rest string) (ImportantDate, error) {
	label = strings.Trim(strings.TrimSpace(label), "-*")
	label = strings.TrimSpace(label)
	if label == "" {
		return ImportantDate{}, errors.New("dates: empty label")
	}
	if rest != "" {
		return ImportantDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, date+rest)
	}
	if _, err := time.Parse(Layout, date); err != nil {
		return ImportantDate{}, fmt.Errorf("%w: %q", ErrInvalidDateFormat, date)
	}
	return ImportantDate{Description: label, Date: date}, nil
}
