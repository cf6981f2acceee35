// Package timescale converts calendar instants to the Julian time scales
// used by the ephemeris and position engines.
package timescale

import (
	"errors"
	"fmt"
	"time"

	"github.com/soniakeys/meeus/v3/julian"
)

// DefaultDeltaT is the difference TT-UT1 in seconds for the early 2020s.
// Callers needing historical or future instants should supply their own.
const DefaultDeltaT = 69.184

// gregorianJD is the Julian Day of 1582-10-15, the first day of the
// Gregorian calendar. Provisional JDs before this point are treated as
// Julian-calendar dates.
const gregorianJD = 2299160

// ErrInvalidDate reports a calendar-range violation.
var ErrInvalidDate = errors.New("invalid date")

// Instant is a calendar date-time with its UTC offset and terrestrial-time
// correction. It is the single time input shared by every engine.
type Instant struct {
	Year   int
	Month  int
	Day    int
	Hour   int
	Minute int
	Second float64 // fractional seconds allowed

	UTCOffset float64 // hours east of UTC
	DeltaT    float64 // TT-UT in seconds
}

// Scales holds every derived Julian time scale for one Instant.
type Scales struct {
	JD  float64 // Julian Day (UT)
	JDE float64 // Julian Ephemeris Day (TT)
	JC  float64 // Julian Century (UT)
	JCE float64 // Julian Ephemeris Century
	JME float64 // Julian Ephemeris Millennium
}

// FromTime builds an Instant from a time.Time, keeping its zone offset.
func FromTime(t time.Time, deltaT float64) Instant {
	_, offset := t.Zone()
	return Instant{
		Year:      t.Year(),
		Month:     int(t.Month()),
		Day:       t.Day(),
		Hour:      t.Hour(),
		Minute:    t.Minute(),
		Second:    float64(t.Second()) + float64(t.Nanosecond())/1e9,
		UTCOffset: float64(offset) / 3600,
		DeltaT:    deltaT,
	}
}

// Validate checks the calendar fields. Leap years follow the Gregorian rule
// from 1583 on and the Julian rule before, matching the calendar the JD
// conversion assumes for those eras.
func (in Instant) Validate() error {
	if in.Month < 1 || in.Month > 12 {
		return fmt.Errorf("%w: month %d outside 1..12", ErrInvalidDate, in.Month)
	}
	max := daysInMonth(in.Year, in.Month)
	if in.Day < 1 || in.Day > max {
		return fmt.Errorf("%w: day %d outside 1..%d for %d-%02d",
			ErrInvalidDate, in.Day, max, in.Year, in.Month)
	}
	return nil
}

func daysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	}
	if IsLeapYear(year) {
		return 29
	}
	return 28
}

// IsLeapYear applies the Gregorian rule from 1583 on and the Julian rule
// before.
func IsLeapYear(year int) bool {
	if year <= 1582 {
		return julian.LeapYearJulian(year)
	}
	return julian.LeapYearGregorian(year)
}

// dayFraction folds the time of day and UTC offset into a fractional day.
// Fractions outside [0, 1) roll months and years through the continuous JD
// formula; no separate rollover handling is needed.
func (in Instant) dayFraction() float64 {
	return float64(in.Day) +
		(float64(in.Hour)-in.UTCOffset)/24 +
		float64(in.Minute)/1440 +
		in.Second/86400
}

// JulianDay returns the Julian Day in the UT scale.
//
// The conversion follows the solar position report: shift January and
// February to months 13 and 14 of the prior year, compute a provisional JD,
// and apply the Gregorian correction B = 2 - A + INT(A/4) only when the
// provisional JD falls on or after 1582-10-15.
func (in Instant) JulianDay() float64 {
	year, month := in.Year, in.Month
	day := in.dayFraction()
	if month <= 2 {
		year--
		month += 12
	}
	jd := float64(intDiv(365.25*(float64(year)+4716))) +
		float64(intDiv(30.6001*(float64(month)+1))) +
		day - 1524.5
	if jd >= gregorianJD {
		a := year / 100
		jd += float64(2 - a + a/4)
	}
	return jd
}

// intDiv truncates toward zero like the report's INT operator.
func intDiv(v float64) int {
	return int(v)
}

// Derive computes every Julian scale for the instant.
func (in Instant) Derive() Scales {
	jd := in.JulianDay()
	jde := jd + in.DeltaT/86400
	jc := (jd - 2451545) / 36525
	jce := (jde - 2451545) / 36525
	return Scales{JD: jd, JDE: jde, JC: jc, JCE: jce, JME: jce / 10}
}

// CalendarFromJD converts a Julian Day back to a calendar date, handling
// the Gregorian transition.
func CalendarFromJD(jd float64) (year, month int, day float64) {
	return julian.JDToCalendar(jd)
}

// AddDays returns the instant shifted by a whole number of days, using the
// proleptic Gregorian arithmetic of the time package. The UTC offset and
// delta-T carry over unchanged.
func (in Instant) AddDays(days int) Instant {
	t := time.Date(in.Year, time.Month(in.Month), in.Day, 0, 0, 0, 0, time.UTC)
	t = t.AddDate(0, 0, days)
	out := in
	out.Year, out.Month, out.Day = t.Year(), int(t.Month()), t.Day()
	return out
}

// AddSeconds returns the instant shifted by fractional seconds, rolling
// calendar fields as needed.
func (in Instant) AddSeconds(sec float64) Instant {
	t := time.Date(in.Year, time.Month(in.Month), in.Day, in.Hour, in.Minute, 0, 0, time.UTC)
	total := in.Second + sec
	t = t.Add(time.Duration(total * float64(time.Second)))
	out := in
	out.Year, out.Month, out.Day = t.Year(), int(t.Month()), t.Day()
	out.Hour, out.Minute = t.Hour(), t.Minute()
	out.Second = float64(t.Second()) + float64(t.Nanosecond())/1e9
	return out
}
