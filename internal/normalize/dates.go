package normalize

import (
	"strconv"
	"strings"
	"time"
)

// visitDateFormat is the registry template's nominal date format:
// month/day/two-digit-year.
const visitDateFormat = "1/2/06"

// fallbackDateFormats cover the drift observed across municipal files.
var fallbackDateFormats = []string{
	"1/2/2006",
	"01/02/06",
	"01/02/2006",
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2-1-2006",
	"02-01-2006",
	"2006/01/02",
	"2-Jan-06",
}

// ParseVisitDate leniently parses an attention-date cell. The template
// format is tried first, then the generic fallbacks. Unparseable input
// yields nil, never an error.
func ParseVisitDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse(visitDateFormat, s); err == nil {
		return &t
	}
	for _, layout := range fallbackDateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// SynthesizeDate builds a first-of-month date from file metadata, for files
// whose attention-date column could not be resolved. Returns nil when
// either part is unknown or unparseable.
func SynthesizeDate(year, month string) *time.Time {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return nil
	}
	m, err := strconv.Atoi(strings.TrimSpace(month))
	if err != nil || m < 1 || m > 12 {
		return nil
	}
	t := time.Date(y, time.Month(m), 1, 0, 0, 0, 0, time.UTC)
	return &t
}
