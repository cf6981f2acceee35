// Package spa implements the high-precision solar position engine: the
// topocentric transform with parallax and refraction, the equation of time,
// and sun transit, sunrise, and sunset.
package spa

import (
	"math"

	"github.com/litescript/ls-sundial/internal/ephemeris"
	"github.com/litescript/ls-sundial/internal/solar"
	"github.com/litescript/ls-sundial/internal/timescale"
)

// Refraction is only applied while the geometric elevation is above this
// threshold: the sun's mean radius plus the horizon refraction constant.
// Below it the geometric zenith is returned unchanged; refraction is never
// extrapolated below the horizon.
const refractionThreshold = -(0.26667 + 0.5667)

// earthRadiusM is the equatorial Earth radius used by the parallax terms.
const earthRadiusM = 6378140

// Options carries the optional surface orientation for the incidence angle.
type Options struct {
	Slope           float64 // surface slope from horizontal, degrees
	AzimuthRotation float64 // surface azimuth rotation, degrees
}

// Result is the full engine output for one instant and observer.
type Result struct {
	Position solar.TopocentricPosition

	EquationOfTime float64 // minutes of time

	// Transit, sunrise, and sunset as fractional hours of the day, UT.
	// NaN with a non-empty Note when the sun never crosses the horizon.
	Transit float64
	Sunrise float64
	Sunset  float64
	Note    string

	// Calendar date recovered from the Julian Day (round-trip check and
	// fractional-day normalization).
	CalendarYear  int
	CalendarMonth int
	CalendarDay   float64
}

// Compute runs the engine. Fails fast on invalid input; the computation
// itself is pure and side-effect free.
func Compute(in timescale.Instant, obs solar.Observer, opt Options) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if err := obs.Validate(); err != nil {
		return Result{}, err
	}

	eph := ephemeris.Compute(in)

	// Equatorial horizontal parallax of the sun.
	xi := 8.794 / (3600 * eph.R)
	pos := Topocentric(eph.Alpha, eph.Delta, eph.Nu, xi, obs)
	pos.Incidence = incidence(pos.Zenith, pos.Azimuth, opt.Slope, opt.AzimuthRotation)

	res := Result{
		Position:       pos,
		EquationOfTime: equationOfTime(eph),
	}
	res.Transit, res.Sunrise, res.Sunset, res.Note = sunTimes(in, obs)
	res.CalendarYear, res.CalendarMonth, res.CalendarDay = timescale.CalendarFromJD(eph.JD)
	return res, nil
}

// Topocentric applies parallax, the horizontal transform, and refraction to
// geocentric equatorial coordinates. The moon engine reuses it with its own
// parallax. All angles in degrees; parallax is the equatorial horizontal
// parallax of the body.
func Topocentric(alpha, delta, nu, parallax float64, obs solar.Observer) solar.TopocentricPosition {
	lat := deg2rad(obs.Latitude)

	h := normDeg(nu + obs.Longitude - alpha)

	// Observer position on the spheroid.
	u := math.Atan(0.99664719 * math.Tan(lat))
	x := math.Cos(u) + obs.Elevation/earthRadiusM*math.Cos(lat)
	y := 0.99664719*math.Sin(u) + obs.Elevation/earthRadiusM*math.Sin(lat)

	xiR := deg2rad(parallax)
	hR := deg2rad(h)
	dR := deg2rad(delta)

	dAlpha := math.Atan2(
		-x*math.Sin(xiR)*math.Sin(hR),
		math.Cos(dR)-x*math.Sin(xiR)*math.Cos(hR))
	alphaT := alpha + rad2deg(dAlpha)
	deltaT := rad2deg(math.Atan2(
		(math.Sin(dR)-y*math.Sin(xiR))*math.Cos(dAlpha),
		math.Cos(dR)-x*math.Sin(xiR)*math.Cos(hR)))
	hT := h - rad2deg(dAlpha)

	dTR := deg2rad(deltaT)
	hTR := deg2rad(hT)

	e0 := rad2deg(math.Asin(
		math.Sin(lat)*math.Sin(dTR) + math.Cos(lat)*math.Cos(dTR)*math.Cos(hTR)))
	e := e0 + refraction(e0, obs.Pressure, obs.Temperature)

	gamma := normDeg(rad2deg(math.Atan2(
		math.Sin(hTR),
		math.Cos(hTR)*math.Sin(lat)-math.Tan(dTR)*math.Cos(lat))))

	return solar.TopocentricPosition{
		Zenith:         90 - e,
		Azimuth:        normDeg(gamma + 180),
		Elevation:      e,
		Declination:    deltaT,
		RightAscension: alphaT,
		HourAngle:      hT,
	}
}

// refraction returns the atmospheric refraction correction in degrees for a
// geometric elevation e0, or zero below the horizon threshold.
func refraction(e0, pressure, temperature float64) float64 {
	if e0 < refractionThreshold {
		return 0
	}
	return (pressure / 1010) * (283 / (273 + temperature)) *
		(1.02 / (60 * math.Tan(deg2rad(e0+10.3/(e0+5.11)))))
}

// incidence returns the incidence angle of the sun on a surface with the
// given slope and azimuth rotation, in degrees.
func incidence(zenith, azimuth, slope, azRotation float64) float64 {
	zR := deg2rad(zenith)
	sR := deg2rad(slope)
	gamma := azimuth - 180 // back to the astronomers' azimuth
	return rad2deg(math.Acos(
		math.Cos(zR)*math.Cos(sR) +
			math.Sin(sR)*math.Sin(zR)*math.Cos(deg2rad(gamma-azRotation))))
}

// EquationOfTime returns apparent minus mean solar time in minutes for an
// instant, without the observer-dependent work of Compute.
func EquationOfTime(in timescale.Instant) (float64, error) {
	if err := in.Validate(); err != nil {
		return 0, err
	}
	return equationOfTime(ephemeris.Compute(in)), nil
}

// equationOfTime returns apparent minus mean solar time in minutes,
// wrapped into the +-20 minute band.
func equationOfTime(eph ephemeris.State) float64 {
	jme := eph.JME
	m := 280.4664567 + jme*(360007.6982779+jme*(0.03032028+
		jme*(1.0/49931+jme*(-1.0/15300+jme*(-1.0/2000000)))))
	m = normDeg(m)
	eot := m - 0.0057183 - eph.Alpha + eph.DeltaPsi*math.Cos(deg2rad(eph.Epsilon))
	minutes := eot * 4
	if minutes > 20 {
		minutes -= 1440
	} else if minutes < -20 {
		minutes += 1440
	}
	return minutes
}

// sunTimes computes transit, sunrise, and sunset for the instant's calendar
// date as fractional hours UT, by interpolating the geocentric sun across
// the neighboring days.
func sunTimes(in timescale.Instant, obs solar.Observer) (transit, sunrise, sunset float64, note string) {
	dt := in.DeltaT
	mid := timescale.Instant{Year: in.Year, Month: in.Month, Day: in.Day, DeltaT: dt}

	nu := ephemeris.Compute(mid).Nu

	aM1, dM1 := ephemeris.GeocentricSun(mid.AddDays(-1).AddSeconds(-dt))
	a0, d0 := ephemeris.GeocentricSun(mid.AddSeconds(-dt))
	aP1, dP1 := ephemeris.GeocentricSun(mid.AddDays(1).AddSeconds(-dt))

	lat := deg2rad(obs.Latitude)
	m0 := (a0 - obs.Longitude - nu) / 360

	a := limitDelta(a0 - aM1)
	b := limitDelta(aP1 - a0)
	aD := limitDelta(d0 - dM1)
	bD := limitDelta(dP1 - d0)
	c := b - a
	cD := bD - aD

	// interp evaluates the topocentric local hour angle, interpolated
	// declination, and geometric elevation at day fraction m.
	interp := func(m float64) (hPrime, deltaI, elev float64) {
		nuI := nu + 360.985647*m
		n := m + dt/86400
		alphaI := a0 + n*(a+b+c*n)/2
		deltaI = d0 + n*(aD+bD+cD*n)/2
		hPrime = 360 * frac((nuI+obs.Longitude-alphaI)/360)
		elev = rad2deg(math.Asin(
			math.Sin(lat)*math.Sin(deg2rad(deltaI)) +
				math.Cos(lat)*math.Cos(deg2rad(deltaI))*math.Cos(deg2rad(hPrime))))
		return hPrime, deltaI, elev
	}

	cosArg := (math.Sin(deg2rad(refractionThreshold)) -
		math.Sin(lat)*math.Sin(deg2rad(d0))) /
		(math.Cos(lat) * math.Cos(deg2rad(d0)))
	if math.Abs(cosArg) > 1 {
		m0 = frac(m0)
		h0p, _, _ := interp(m0)
		transit = 24 * frac(m0-h0p/360)
		return transit, math.NaN(), math.NaN(),
			"sun is always above or below the horizon for that day"
	}
	h0 := pymod(rad2deg(math.Acos(cosArg)), 180)

	m1 := m0 - h0/360
	m2 := m0 + h0/360
	m0, m1, m2 = frac(m0), frac(m1), frac(m2)

	h0p, _, _ := interp(m0)
	h1p, d1, e1 := interp(m1)
	h2p, d2, e2 := interp(m2)

	transit = 24 * frac(m0-h0p/360)
	sunrise = 24 * frac(m1+(e1-refractionThreshold)/
		(360*math.Cos(deg2rad(d1))*math.Cos(lat)*math.Sin(deg2rad(h1p))))
	sunset = 24 * frac(m2+(e2-refractionThreshold)/
		(360*math.Cos(deg2rad(d2))*math.Cos(lat)*math.Sin(deg2rad(h2p))))
	return transit, sunrise, sunset, ""
}

// limitDelta keeps day-to-day coordinate differences continuous across the
// 0/360 wrap.
func limitDelta(v float64) float64 {
	if math.Abs(v) > 2 {
		return frac(v)
	}
	return v
}

func frac(v float64) float64 { return v - math.Floor(v) }

func pymod(v, m float64) float64 {
	r := math.Mod(v, m)
	if r < 0 {
		r += m
	}
	return r
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func normDeg(a float64) float64 { return pymod(a, 360) }
