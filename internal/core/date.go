// Package core holds the domain entities and the pure engines of trackit:
// category tree building, summary aggregation, and the date/amount parsers
// used by the CSV import pipeline.
package core

import (
	"strings"
	"time"
)

// DateLayout is the canonical on-disk and display date format.
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when parsing user- or bank-supplied dates.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"02.01.2006",
}

// ParseDate parses a date string in one of the supported bank export
// formats. The time component is always midnight UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, NewValidationError("could not parse date '': empty string")
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, NewValidationError("could not parse date '%s'", s)
}

// NewDate builds a UTC midnight date.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
