package cli

import (
	"flag"
	"time"

	"trackit/internal/core"
)

// DateRangeFlags are the shared date filtering flags. The relative period
// flags are mutually exclusive with each other and with the explicit
// --start-date/--end-date pair.
type DateRangeFlags struct {
	startDate string
	endDate   string
	thisWeek  bool
	thisMonth bool
	thisYear  bool
	lastWeek  bool
	lastMonth bool
	lastYear  bool
}

func (f *DateRangeFlags) Register(fs *flag.FlagSet) {
	fs.StringVar(&f.startDate, "start-date", "", "start date (YYYY-MM-DD)")
	fs.StringVar(&f.endDate, "end-date", "", "end date (YYYY-MM-DD)")
	fs.BoolVar(&f.thisWeek, "this-week", false, "current week (Monday through Sunday)")
	fs.BoolVar(&f.thisMonth, "this-month", false, "current calendar month")
	fs.BoolVar(&f.thisYear, "this-year", false, "current calendar year")
	fs.BoolVar(&f.lastWeek, "last-week", false, "previous week")
	fs.BoolVar(&f.lastMonth, "last-month", false, "previous calendar month")
	fs.BoolVar(&f.lastYear, "last-year", false, "previous calendar year")
}

// Empty reports whether no date constraint was requested at all.
func (f *DateRangeFlags) Empty() bool {
	return f.startDate == "" && f.endDate == "" && f.relativeCount() == 0
}

func (f *DateRangeFlags) relativeCount() int {
	n := 0
	for _, set := range []bool{f.thisWeek, f.thisMonth, f.thisYear, f.lastWeek, f.lastMonth, f.lastYear} {
		if set {
			n++
		}
	}
	return n
}

// Resolve turns the flags into a concrete start/end pair. Either pointer
// may be nil when that bound is open.
func (f *DateRangeFlags) Resolve(now time.Time) (*time.Time, *time.Time, error) {
	relative := f.relativeCount()
	if relative > 1 {
		return nil, nil, core.NewValidationError("only one relative period flag may be used at a time")
	}
	if relative == 1 && (f.startDate != "" || f.endDate != "") {
		return nil, nil, core.NewValidationError(
			"relative period flags cannot be combined with --start-date/--end-date")
	}

	if relative == 1 {
		start, end := f.relativeRange(now)
		return &start, &end, nil
	}

	var start, end *time.Time
	if f.startDate != "" {
		d, err := core.ParseDate(f.startDate)
		if err != nil {
			return nil, nil, err
		}
		start = &d
	}
	if f.endDate != "" {
		d, err := core.ParseDate(f.endDate)
		if err != nil {
			return nil, nil, err
		}
		end = &d
	}
	if start != nil && end != nil && start.After(*end) {
		return nil, nil, core.NewValidationError("start date is after end date")
	}
	return start, end, nil
}

func (f *DateRangeFlags) relativeRange(now time.Time) (time.Time, time.Time) {
	today := core.NewDate(now.Year(), now.Month(), now.Day())
	switch {
	case f.thisWeek:
		return weekOf(today)
	case f.lastWeek:
		return weekOf(today.AddDate(0, 0, -7))
	case f.thisMonth:
		return monthOf(today)
	case f.lastMonth:
		return monthOf(core.NewDate(today.Year(), today.Month(), 1).AddDate(0, -1, 0))
	case f.lastYear:
		return yearOf(today.AddDate(-1, 0, 0))
	default:
		return yearOf(today)
	}
}

// weekOf returns the Monday-through-Sunday week containing d.
func weekOf(d time.Time) (time.Time, time.Time) {
	offset := int(d.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	start := d.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 6)
}

func monthOf(d time.Time) (time.Time, time.Time) {
	start := core.NewDate(d.Year(), d.Month(), 1)
	return start, start.AddDate(0, 1, -1)
}

func yearOf(d time.Time) (time.Time, time.Time) {
	start := core.NewDate(d.Year(), 1, 1)
	return start, core.NewDate(d.Year(), 12, 31)
}

// LastSixMonths is the default summary window: the first day of the month
// five months back through today.
func LastSixMonths(now time.Time) (time.Time, time.Time) {
	today := core.NewDate(now.Year(), now.Month(), now.Day())
	start := core.NewDate(now.Year(), now.Month(), 1).AddDate(0, -5, 0)
	return start, today
}
