package model

import "time"

// DateRange is the [Start, End] window requested from the provider.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// NewDateRange returns the window of the given number of days ending at now.
func NewDateRange(now time.Time, days int) DateRange {
	return DateRange{
		Start: now.Add(-time.Duration(days) * 24 * time.Hour),
		End:   now,
	}
}

func (r DateRange) String() string {
	return r.Start.Format("2006-01-02") + " to " + r.End.Format("2006-01-02")
}
