// Package daterange computes the half-open date ranges used by todo
// queries. All ranges are expressed in a fixed UTC+8 offset regardless of
// the host timezone.
package daterange

import (
	"errors"
	"fmt"
	"time"
)

// Location is the fixed offset every range is computed in.
var Location = time.FixedZone("UTC+8", 8*60*60)

// DateLayout is the accepted calendar date format for user input.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidDate indicates a date string that does not parse.
	ErrInvalidDate = errors.New("invalid date")

	// ErrRangeTooLarge indicates a custom range spanning more than one month.
	ErrRangeTooLarge = errors.New("date range exceeds one month")
)

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls within the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// Today returns the 24-hour range covering the current local day.
func Today(now time.Time) Range {
	local := now.In(Location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location)
	return Range{Start: start, End: start.Add(24 * time.Hour)}
}

// ThisWeek returns the range covering the current Monday-based week.
// The end lands one millisecond before the following Monday, matching the
// boundary the query layer has always used.
func ThisWeek(now time.Time) Range {
	local := now.In(Location)

	// Offset back to the preceding (or same) Monday.
	offset := int(local.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset = 6 // Sunday
	}

	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, Location)
	start = start.AddDate(0, 0, -offset)

	return Range{
		Start: start,
		End:   start.AddDate(0, 0, 7).Add(-time.Millisecond),
	}
}

// ThisMonth returns [first of month, first of next month) in local calendar
// terms.
func ThisMonth(now time.Time) Range {
	local := now.In(Location)
	start := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, Location)
	return Range{Start: start, End: start.AddDate(0, 1, 0)}
}

// ParseDate parses a user-supplied calendar date in the fixed offset.
func ParseDate(text string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, text, Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, text)
	}
	return t, nil
}

// Custom parses a user-supplied start and end date and validates the span.
//
// The span check is month-arithmetic, not a flat day count: with the
// exclusive end, a range may cover at most one calendar month of days. For
// a start on the 1st that admits an end up to the 2nd of the next month
// (last covered day = the 1st) and rejects the 3rd.
func Custom(startText, endText string) (Range, error) {
	start, err := ParseDate(startText)
	if err != nil {
		return Range{}, err
	}
	end, err := ParseDate(endText)
	if err != nil {
		return Range{}, err
	}

	if end.Before(start) {
		return Range{}, fmt.Errorf("%w: end %s before start %s", ErrInvalidDate, endText, startText)
	}

	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if months > 1 || (months == 1 && end.Day() > start.Day()+1) {
		return Range{}, fmt.Errorf("%w: %s to %s", ErrRangeTooLarge, startText, endText)
	}

	return Range{Start: start, End: end}, nil
}
