package dial

import (
	"sort"
	"time"

	"github.com/litescript/ls-sundial/internal/spa"
	"github.com/litescript/ls-sundial/internal/timescale"
)

// EOTValue is one significant equation-of-time reading for the dial: the
// total correction in minutes a visitor applies on that date.
type EOTValue struct {
	Month   time.Month
	Day     int
	Minutes float64
}

// Corrections is the dial's correction chart. Daily holds the correction
// for every day of the year averaged over the configured years;
// Significant holds the month starts and the extrema, in calendar order.
// When the longitude correction is already folded into the hour marks the
// values are the bare equation of time, otherwise the correction is
// included.
type Corrections struct {
	Daily       []float64
	Significant []EOTValue
}

// Corrections computes the correction chart.
func (d *Dial) Corrections() (Corrections, error) {
	lc := 0.0
	if !d.cfg.CorrectForLongitude {
		lc = d.LongitudeCorrection()
	}

	var (
		daily    [][]float64
		monthY   [][]float64
		extremaX [][]float64
		extremaY [][]float64
		bestYear int
	)
	for _, year := range d.cfg.Years {
		if bestYear == 0 || !timescale.IsLeapYear(year) {
			bestYear = year
		}
		days := 365
		if timescale.IsLeapYear(year) {
			days = 366
		}
		eots := make([]float64, days)
		for i := 0; i < days; i++ {
			date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
			eot, err := spa.EquationOfTime(timescale.Instant{
				Year: year, Month: int(date.Month()), Day: date.Day(),
				DeltaT: timescale.DefaultDeltaT,
			})
			if err != nil {
				return Corrections{}, err
			}
			eots[i] = eot + lc
		}

		months := []float64{eots[0]}
		var exX, exY []float64
		prev := eots[0]
		prevChange := -0.001
		for i := 1; i < days; i++ {
			change := eots[i] - prev
			date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
			if date.Day() == 1 {
				months = append(months, eots[i])
			}
			// A slope sign change means the previous day was an extremum.
			if (change > 0 && prevChange <= 0) || (change < 0 && prevChange >= 0) {
				exX = append(exX, float64(i-1))
				exY = append(exY, prev)
			}
			prevChange = change
			prev = eots[i]
		}

		daily = append(daily, eots)
		monthY = append(monthY, months)
		extremaX = append(extremaX, exX)
		extremaY = append(extremaY, exY)
	}

	out := Corrections{Daily: averageColumns(daily)}
	for i, v := range averageColumns(monthY) {
		out.Significant = append(out.Significant, EOTValue{
			Month: time.Month(i + 1), Day: 1, Minutes: v,
		})
	}
	exX := averageColumns(extremaX)
	exY := averageColumns(extremaY)
	jan1 := time.Date(bestYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, x := range exX {
		date := jan1.Add(time.Duration(x * 24 * float64(time.Hour)))
		out.Significant = append(out.Significant, EOTValue{
			Month: date.Month(), Day: date.Day(), Minutes: exY[i],
		})
	}
	sort.SliceStable(out.Significant, func(i, j int) bool {
		a, b := out.Significant[i], out.Significant[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Day < b.Day
	})
	return out, nil
}

// averageColumns averages position-wise across rows, truncating to the
// shortest row.
func averageColumns(rows [][]float64) []float64 {
	if len(rows) == 0 {
		return nil
	}
	n := len(rows[0])
	for _, r := range rows[1:] {
		if len(r) < n {
			n = len(r)
		}
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, r := range rows {
			sum += r[i]
		}
		out[i] = sum / float64(len(rows))
	}
	return out
}
