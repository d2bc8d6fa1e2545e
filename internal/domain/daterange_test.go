package domain

import (
	"pricehistory/internal/util"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func haveOn(dates ...time.Time) map[string]float64 {
	out := map[string]float64{}
	for _, d := range dates {
		out[d.Format(time.DateOnly)] = 1
	}
	return out
}

func TestComputeGaps(t *testing.T) {
	t.Run("interior and trailing gaps", func(t *testing.T) {
		have := haveOn(
			util.NewDate(2024, 1, 1),
			util.NewDate(2024, 1, 3),
		)
		r := DateRange{Start: util.NewDate(2024, 1, 1), End: util.NewDate(2024, 1, 5)}

		gaps := ComputeGaps(have, r)

		require.Equal(
			t,
			"",
			cmp.Diff(
				[]DateRange{
					{Start: util.NewDate(2024, 1, 2), End: util.NewDate(2024, 1, 2)},
					{Start: util.NewDate(2024, 1, 4), End: util.NewDate(2024, 1, 5)},
				},
				gaps,
			),
		)
	})

	t.Run("single missing day yields the whole range", func(t *testing.T) {
		r := DateRange{Start: util.NewDate(2024, 2, 1), End: util.NewDate(2024, 2, 1)}

		gaps := ComputeGaps(map[string]float64{}, r)

		require.Equal(t, []DateRange{r}, gaps)
	})

	t.Run("fully covered range yields no gaps", func(t *testing.T) {
		have := haveOn(
			util.NewDate(2024, 1, 1),
			util.NewDate(2024, 1, 2),
			util.NewDate(2024, 1, 3),
		)
		r := DateRange{Start: util.NewDate(2024, 1, 1), End: util.NewDate(2024, 1, 3)}

		require.Empty(t, ComputeGaps(have, r))
	})

	t.Run("fully missing range yields one gap", func(t *testing.T) {
		r := DateRange{Start: util.NewDate(2024, 3, 1), End: util.NewDate(2024, 3, 10)}

		gaps := ComputeGaps(map[string]float64{}, r)

		require.Equal(t, []DateRange{r}, gaps)
	})

	t.Run("leading gap closes on first present date", func(t *testing.T) {
		have := haveOn(util.NewDate(2024, 1, 4), util.NewDate(2024, 1, 5))
		r := DateRange{Start: util.NewDate(2024, 1, 1), End: util.NewDate(2024, 1, 5)}

		gaps := ComputeGaps(have, r)

		require.Equal(t, []DateRange{
			{Start: util.NewDate(2024, 1, 1), End: util.NewDate(2024, 1, 3)},
		}, gaps)
	})

	t.Run("gaps partition the missing days", func(t *testing.T) {
		// present on even offsets only
		r := DateRange{Start: util.NewDate(2024, 6, 1), End: util.NewDate(2024, 6, 30)}
		have := map[string]float64{}
		for d, i := r.Start, 0; !d.After(r.End); d, i = d.AddDate(0, 0, 1), i+1 {
			if i%2 == 0 {
				have[d.Format(time.DateOnly)] = 1
			}
		}

		gaps := ComputeGaps(have, r)

		covered := 0
		for i, gap := range gaps {
			require.True(t, gap.Valid())
			require.True(t, r.Contains(gap.Start))
			require.True(t, r.Contains(gap.End))
			if i > 0 {
				// ordered, disjoint, and never touching: at least one
				// present day separates adjacent gaps
				require.True(t, gaps[i-1].End.AddDate(0, 0, 1).Before(gap.Start))
			}
			for d := gap.Start; !d.After(gap.End); d = d.AddDate(0, 0, 1) {
				_, present := have[d.Format(time.DateOnly)]
				require.False(t, present)
				covered++
			}
		}
		require.Equal(t, r.NumDays()-len(have), covered)
	})
}

func TestDateRange(t *testing.T) {
	t.Run("single day is a valid degenerate range", func(t *testing.T) {
		r := DateRange{Start: util.NewDate(2024, 2, 1), End: util.NewDate(2024, 2, 1)}
		require.True(t, r.Valid())
		require.Equal(t, 1, r.NumDays())
	})

	t.Run("inverted range is invalid", func(t *testing.T) {
		r := DateRange{Start: util.NewDate(2024, 2, 2), End: util.NewDate(2024, 2, 1)}
		require.False(t, r.Valid())
	})

	t.Run("day truncates to midnight utc", func(t *testing.T) {
		ts := time.Date(2024, 5, 17, 23, 59, 1, 0, time.UTC)
		require.Equal(t, util.NewDate(2024, 5, 17), Day(ts))
	})
}
