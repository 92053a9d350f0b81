package pricing

import (
	"fmt"
	"time"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Window is an offer's active window: a date range plus a daily time-of-day
// range. Both bounds are inclusive. Values are kept as strings in YYYY-MM-DD
// and HH:MM form, which sort lexically equal to chronologically, so range
// comparison is plain string comparison.
type Window struct {
	StartDate string
	EndDate   string
	StartTime string
	EndTime   string
}

// Validate checks the field shapes and bound ordering.
func (w Window) Validate() error {
	if _, err := time.Parse(dateLayout, w.StartDate); err != nil {
		return fmt.Errorf("start date must be YYYY-MM-DD: %w", ErrInvalidInput)
	}
	if _, err := time.Parse(dateLayout, w.EndDate); err != nil {
		return fmt.Errorf("end date must be YYYY-MM-DD: %w", ErrInvalidInput)
	}
	if _, err := time.Parse(timeLayout, w.StartTime); err != nil {
		return fmt.Errorf("start time must be HH:MM: %w", ErrInvalidInput)
	}
	if _, err := time.Parse(timeLayout, w.EndTime); err != nil {
		return fmt.Errorf("end time must be HH:MM: %w", ErrInvalidInput)
	}
	if w.StartDate > w.EndDate {
		return fmt.Errorf("start date is after end date: %w", ErrInvalidInput)
	}
	if w.StartTime > w.EndTime {
		return fmt.Errorf("start time is after end time: %w", ErrInvalidInput)
	}
	return nil
}

// Conflicts reports whether two windows overlap. Two offers conflict only when
// their date ranges intersect AND their daily time-of-day ranges intersect;
// overlapping dates with disjoint hours coexist fine.
func (w Window) Conflicts(other Window) bool {
	datesOverlap := w.StartDate <= other.EndDate && w.EndDate >= other.StartDate
	timesOverlap := w.StartTime <= other.EndTime && w.EndTime >= other.StartTime
	return datesOverlap && timesOverlap
}
