// Package daterange turns the optional start/end query fields into a validated, inclusive
// range of calendar dates in Manila.
package daterange

import (
	"fmt"
	"strings"
	"time"

	"pcsolotto-backend/internal/apperr"
	"pcsolotto-backend/internal/components/chrono"
)

// HumanLayout renders dates like "January 1, 2015".
const HumanLayout = "January 2, 2006"

// MinYear is the first year the PCSO site has results for.
const MinYear = 2015

// Input holds the optional fields of a query, nil means the field was not given.
type Input struct {
	StartMonth *string
	StartDay   *int
	StartYear  *int
	EndMonth   *string
	EndDay     *int
	EndYear    *int
}

// DateRange is an inclusive range of calendar dates, both at midnight in Manila.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) String() string {
	return fmt.Sprintf("%s..%s", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
}

// CacheKey is the key the raw results markup for this range is cached under.
func (r DateRange) CacheKey() string {
	return fmt.Sprintf(
		"pcso:results:%s:%s:game0",
		r.Start.Format(time.DateOnly),
		r.End.Format(time.DateOnly),
	)
}

// FormatHuman renders t as "Month D, YYYY".
func FormatHuman(t time.Time) string {
	return t.Format(HumanLayout)
}

var months = func() map[string]time.Month {
	out := map[string]time.Month{}
	for m := time.January; m <= time.December; m++ {
		out[strings.ToLower(m.String())] = m
	}
	return out
}()

// ParseMonth parses a full english month name, ignoring case and surrounding whitespace.
func ParseMonth(name string) (time.Month, bool) {
	m, ok := months[strings.ToLower(strings.TrimSpace(name))]
	return m, ok
}

type side struct {
	month string
	day   int
	year  int
}

func resolve(month *string, day, year *int, fallback time.Time) side {
	if month == nil || day == nil || year == nil {
		return side{
			month: fallback.Month().String(),
			day:   fallback.Day(),
			year:  fallback.Year(),
		}
	}
	return side{month: *month, day: *day, year: *year}
}

func (s side) date(loc *time.Location) (time.Time, error) {
	month, ok := ParseMonth(s.month)
	if !ok {
		return time.Time{}, apperr.Validation("Invalid month name provided.")
	}
	t := time.Date(s.year, month, s.day, 0, 0, 0, 0, loc)
	// time.Date normalizes overflow, so February 30 comes back as March 1 or 2
	if s.day < 1 || t.Day() != s.day || t.Month() != month {
		return time.Time{}, apperr.Validation("Invalid day for the given month/year.")
	}
	return t, nil
}

// Normalize applies the defaults and validation rules to in, now is converted to Manila before
// "today" is computed.
//
// If any start field is missing the whole start side becomes January 1, 2015, if any end field is
// missing the whole end side becomes today.
func Normalize(in Input, now time.Time) (DateRange, error) {
	loc, err := chrono.LoadManila()
	if err != nil {
		return DateRange{}, err
	}
	now = now.In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	minDate := time.Date(MinYear, time.January, 1, 0, 0, 0, 0, loc)

	start := resolve(in.StartMonth, in.StartDay, in.StartYear, minDate)
	end := resolve(in.EndMonth, in.EndDay, in.EndYear, today)

	if _, ok := ParseMonth(start.month); !ok {
		return DateRange{}, apperr.Validation("Invalid month name provided.")
	}
	if _, ok := ParseMonth(end.month); !ok {
		return DateRange{}, apperr.Validation("Invalid month name provided.")
	}

	startDate, err := start.date(loc)
	if err != nil {
		return DateRange{}, err
	}
	endDate, err := end.date(loc)
	if err != nil {
		return DateRange{}, err
	}

	for _, y := range []int{start.year, end.year} {
		if y < MinYear || y > today.Year() {
			return DateRange{}, apperr.Validation(fmt.Sprintf(
				"Year must be between %d and %d.", MinYear, today.Year(),
			))
		}
	}

	if endDate.After(today) {
		return DateRange{}, apperr.Validation(fmt.Sprintf(
			"End date cannot be later than %s (today in Manila).", FormatHuman(today),
		))
	}
	if endDate.Before(startDate) {
		return DateRange{}, apperr.Validation("End date cannot be earlier than start date.")
	}

	return DateRange{Start: startDate, End: endDate}, nil
}
