// Package segmentation turns booking-platform activity into marketing personas.
//
// The pipeline is a deterministic batch transform: sessions are filtered to
// active users, engineered per session, aggregated per user, converted to
// ratios, scored against population-wide statistics and finally assigned to
// exactly one of eight segments.
package segmentation

import "time"

// Fixed business thresholds
const (
	WorkingAgeMin     = 20
	WorkingAgeMax     = 67
	YoungAgeLimit     = 30
	WeekdayTripMaxGap = 5 // days between departure and return

	UpperPercentile = 90.0
	LowerPercentile = 10.0

	YoungExplorerThreshold = 0.5
	BusinessThreshold      = 0.4
)

// DateLayout is the layout of date-only parameters
const DateLayout = "2006-01-02"

// Options are the tunable literals of a run
type Options struct {
	CutoffDate        time.Time // sessions starting before this are ignored
	ActivityThreshold int       // users need strictly more sessions than this
	ReferenceDate     time.Time // age is measured at this date
	NewCustomerDays   int       // max signup-to-booking gap of a new customer
}

// DefaultOptions returns the literals used by the marketing team
func DefaultOptions() Options {
	return Options{
		CutoffDate:        time.Date(2023, time.January, 5, 0, 0, 0, 0, time.UTC),
		ActivityThreshold: 7,
		ReferenceDate:     time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
		NewCustomerDays:   28,
	}
}

// dateOf truncates t to its calendar day
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// daysBetween returns the whole calendar days from a to b
func daysBetween(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a)).Hours() / 24)
}
