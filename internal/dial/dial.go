// Package dial computes the geometry of a horizontal analemmatic sundial:
// the hour-mark ellipse, the date-dependent gnomon positions along the
// minor axis, and the equation-of-time correction chart. Coordinates are
// meters in a frame centered on the dial, x east and y north; a
// normalized unit-ellipse frame is exposed alongside for renderers.
package dial

import (
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/litescript/ls-sundial/internal/solar"
	"github.com/litescript/ls-sundial/internal/spa"
	"github.com/litescript/ls-sundial/internal/timescale"
)

// ErrDegenerateGeometry is returned for latitudes where the ellipse
// collapses to a line (equator) or a circle with meaningless hour marks
// (poles).
var ErrDegenerateGeometry = errors.New("dial geometry degenerate at this latitude")

// Latitudes closer than this to the equator or a pole are rejected.
const (
	minLatitude = 0.1
	maxLatitude = 89.9
)

// Config describes the dial site and sizing.
type Config struct {
	Latitude            float64 // degrees, north positive
	Longitude           float64 // degrees, east positive
	WidthMeters         float64 // full east-west width of the ellipse
	Timezone            float64 // hours offset from UTC of the dial's clock
	CorrectForLongitude bool    // fold the longitude correction into the hour marks
	Years               []int   // years averaged for gnomon and corrections
	Elevation           float64 // meters
}

// DefaultConfig returns a five-meter dial using the current year.
func DefaultConfig(latitude, longitude float64) Config {
	return Config{
		Latitude:    latitude,
		Longitude:   longitude,
		WidthMeters: 5,
		Years:       []int{time.Now().Year()},
	}
}

// HourPoint is one hour mark on the ellipse.
type HourPoint struct {
	Hour    int
	Bearing float64 // degrees clockwise from north
	X, Y    float64 // meters
	UnitX   float64 // X / semi-major, for renderers
	UnitY   float64
}

// GnomonMark is a labeled gnomon position on the minor axis.
type GnomonMark struct {
	Month  time.Month
	Day    int
	Offset float64 // meters north of center
}

// Label returns the calendar label of the mark.
func (m GnomonMark) Label() string { return fmt.Sprintf("%s %d", m.Month.String()[:3], m.Day) }

// Dial is the computed sundial. Construct with New; the zero value is not
// usable.
type Dial struct {
	cfg       Config
	semiMajor float64
	semiMinor float64
	hours     [24]HourPoint
}

// New validates the configuration and computes the hour marks.
func New(cfg Config) (*Dial, error) {
	abs := math.Abs(cfg.Latitude)
	if abs < minLatitude || abs > maxLatitude {
		return nil, fmt.Errorf("%w: latitude %g", ErrDegenerateGeometry, cfg.Latitude)
	}
	if cfg.WidthMeters <= 0 {
		return nil, fmt.Errorf("dial width must be positive, got %g", cfg.WidthMeters)
	}
	if len(cfg.Years) == 0 {
		cfg.Years = []int{time.Now().Year()}
	}
	d := &Dial{
		cfg:       cfg,
		semiMajor: cfg.WidthMeters / 2,
		semiMinor: cfg.WidthMeters / 2 * math.Sin(deg2rad(abs)),
	}
	for h := 0; h < 24; h++ {
		d.hours[h] = d.hourPoint(h)
	}
	return d, nil
}

// Width returns the full east-west extent in meters.
func (d *Dial) Width() float64 { return 2 * d.semiMajor }

// Height returns the full north-south extent in meters, width times the
// sine of the latitude.
func (d *Dial) Height() float64 { return 2 * d.semiMinor }

// SemiAxes returns the semi-major and semi-minor axes in meters.
func (d *Dial) SemiAxes() (a, b float64) { return d.semiMajor, d.semiMinor }

// Foci returns the x coordinates of the two foci, west and east.
func (d *Dial) Foci() (west, east float64) {
	c := math.Sqrt(d.semiMajor*d.semiMajor - d.semiMinor*d.semiMinor)
	return -c, c
}

// LongitudeCorrection returns the clock-versus-sun offset of the site in
// minutes, positive when the site is east of its timezone meridian.
func (d *Dial) LongitudeCorrection() float64 {
	return (d.cfg.Longitude - d.cfg.Timezone*15) * 4
}

// HourPoints returns the 24 hour marks.
func (d *Dial) HourPoints() [24]HourPoint { return d.hours }

func (d *Dial) hourPoint(hour int) HourPoint {
	h := float64(hour)
	if d.cfg.CorrectForLongitude {
		h += d.LongitudeCorrection() / 60
	}
	angle := deg2rad(15 * (h - 12))
	x := d.semiMajor * math.Sin(angle)
	if d.cfg.Latitude < 0 {
		x = -x
	}
	y := d.semiMinor * math.Cos(angle)
	return HourPoint{
		Hour:    hour,
		Bearing: rad2deg(math.Atan2(x, y)),
		X:       x,
		Y:       y,
		UnitX:   x / d.semiMajor,
		UnitY:   y / d.semiMajor,
	}
}

// GnomonOffset returns the gnomon position in meters north of center for
// a given solar declination in degrees.
func (d *Dial) GnomonOffset(declination float64) float64 {
	sign := 1.0
	if d.cfg.Latitude < 0 {
		sign = -1
	}
	return d.semiMajor * math.Cos(deg2rad(d.cfg.Latitude)) *
		math.Tan(deg2rad(declination)) * sign
}

// GnomonOffsetForDate returns the gnomon position for a calendar date,
// from the topocentric declination at local midnight averaged over the
// configured years.
func (d *Dial) GnomonOffsetForDate(month time.Month, day int) (float64, error) {
	return d.gnomonOffsetForYears(d.cfg.Years, month, day)
}

// gnomonOffsetForYears averages the declination over an explicit year
// set. Reads the receiver without mutating it, so concurrent callers
// with different year sets do not interfere.
func (d *Dial) gnomonOffsetForYears(years []int, month time.Month, day int) (float64, error) {
	decls := make([]float64, 0, len(years))
	obs := solar.Observer{
		Latitude:  d.cfg.Latitude,
		Longitude: d.cfg.Longitude,
		Elevation: d.cfg.Elevation,
	}
	for _, year := range years {
		in := timescale.Instant{
			Year: year, Month: int(month), Day: day,
			UTCOffset: d.cfg.Timezone,
			DeltaT:    timescale.DefaultDeltaT,
		}
		res, err := spa.Compute(in, obs, spa.Options{})
		if err != nil {
			return 0, err
		}
		decls = append(decls, res.Position.Declination)
	}
	return d.GnomonOffset(stat.Mean(decls, nil)), nil
}

// GnomonMarks returns the gnomon calendar: the first of each month plus
// the solstices, in calendar order.
func (d *Dial) GnomonMarks() ([]GnomonMark, error) {
	marks := make([]GnomonMark, 0, 14)
	for m := time.January; m <= time.December; m++ {
		days := []int{1}
		if m == time.June || m == time.December {
			days = append(days, 21)
		}
		for _, day := range days {
			off, err := d.GnomonOffsetForDate(m, day)
			if err != nil {
				return nil, err
			}
			marks = append(marks, GnomonMark{Month: m, Day: day, Offset: off})
		}
	}
	return marks, nil
}

// GnomonPath returns the dated gnomon offsets for every day of one year.
func (d *Dial) GnomonPath(year int) ([]GnomonMark, error) {
	days := 365
	if timescale.IsLeapYear(year) {
		days = 366
	}
	path := make([]GnomonMark, 0, days)
	for i := 0; i < days; i++ {
		date := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i)
		off, err := d.gnomonOffsetForYears([]int{year}, date.Month(), date.Day())
		if err != nil {
			return nil, err
		}
		path = append(path, GnomonMark{Month: date.Month(), Day: date.Day(), Offset: off})
	}
	return path, nil
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }
