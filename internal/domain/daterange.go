package domain

import (
	"time"
)

// DateRange is a closed interval of calendar days. Start and End are
// expected to be midnight UTC with no time component.
type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewDateRange(start, end time.Time) DateRange {
	return DateRange{
		Start: Day(start),
		End:   Day(end),
	}
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func (r DateRange) Valid() bool {
	return !r.Start.After(r.End)
}

// NumDays returns the number of calendar days in the range, inclusive.
func (r DateRange) NumDays() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// ComputeGaps walks the range day by day and returns the minimal ordered
// list of maximal contiguous sub-ranges whose dates are missing from have.
// have is keyed by YYYY-MM-DD. A fully-covered range yields an empty
// slice; a fully-missing range yields one gap equal to the whole range.
func ComputeGaps(have map[string]float64, r DateRange) []DateRange {
	gaps := []DateRange{}
	var gapStart *time.Time

	for d := r.Start; !d.After(r.End); d = d.AddDate(0, 0, 1) {
		if _, ok := have[d.Format(time.DateOnly)]; !ok {
			if gapStart == nil {
				start := d
				gapStart = &start
			}
			continue
		}
		if gapStart != nil {
			gaps = append(gaps, DateRange{Start: *gapStart, End: d.AddDate(0, 0, -1)})
			gapStart = nil
		}
	}

	if gapStart != nil {
		gaps = append(gaps, DateRange{Start: *gapStart, End: r.End})
	}

	return gaps
}
