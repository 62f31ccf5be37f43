package shared

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateRange bounds a query window. Zero values mean unbounded on that side;
// both bounds are inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// ParseDateRange builds a DateRange from optional "2006-01-02" strings.
func ParseDateRange(from, to string) (DateRange, error) {
	var dr DateRange
	if from != "" {
		t, err := time.Parse(DateLayout, from)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: invalid from date %q", ErrValidation, from)
		}
		dr.From = t
	}
	if to != "" {
		t, err := time.Parse(DateLayout, to)
		if err != nil {
			return DateRange{}, fmt.Errorf("%w: invalid to date %q", ErrValidation, to)
		}
		dr.To = t
	}
	if !dr.From.IsZero() && !dr.To.IsZero() && dr.To.Before(dr.From) {
		return DateRange{}, fmt.Errorf("%w: date range ends before it starts", ErrValidation)
	}
	return dr, nil
}

// IsZero reports whether the range is fully unbounded.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether t falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}
