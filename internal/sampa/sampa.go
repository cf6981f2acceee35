// Package sampa computes topocentric sun and moon positions from a single
// instant and classifies any solar eclipse in progress, following the NREL
// solar and moon position algorithm. The lunar ephemeris is the truncated
// ELP series with eccentricity damping and the A1/A2/A3 additive
// corrections; nutation, obliquity, sidereal time, and the topocentric
// transform are shared with the solar engine.
package sampa

import (
	"math"

	"github.com/litescript/ls-sundial/internal/bird"
	"github.com/litescript/ls-sundial/internal/ephemeris"
	"github.com/litescript/ls-sundial/internal/solar"
	"github.com/litescript/ls-sundial/internal/spa"
	"github.com/litescript/ls-sundial/internal/timescale"
)

// Eclipse classifies the solar eclipse state at the computed instant.
type Eclipse int

const (
	EclipseNone Eclipse = iota
	EclipsePartial
	EclipseTotal
)

func (e Eclipse) String() string {
	switch e {
	case EclipsePartial:
		return "partial solar eclipse"
	case EclipseTotal:
		return "total solar eclipse"
	default:
		return "no eclipse"
	}
}

// Result carries both body positions and the eclipse geometry. Disk radii
// and the unshaded-lune area are in degrees and square degrees.
type Result struct {
	Sun  solar.TopocentricPosition
	Moon solar.TopocentricPosition

	// SunDetail is the full solar-engine result the sun position came
	// from, including equation of time and rise/set.
	SunDetail spa.Result

	Obliquity    float64 // true obliquity of the ecliptic, degrees
	MoonDistance float64 // earth-moon distance, km
	Separation   float64 // angular sun-moon separation, degrees

	SunRadius   float64
	MoonRadius  float64
	LuneArea    float64 // unshaded area of the solar disk
	LunePercent float64 // unshaded area as a percentage of the disk
	Eclipse     Eclipse

	Irradiance bird.Result
}

// Compute evaluates sun and moon positions for the instant and estimates
// the clear-sky irradiance, with the direct beam reduced by the shaded
// fraction of the solar disk during an eclipse.
func Compute(in timescale.Instant, obs solar.Observer, atm bird.Atmosphere) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if err := obs.Validate(); err != nil {
		return Result{}, err
	}

	sc := in.Derive()

	lambdaM, betaM, distKM := geocentricMoon(sc.JCE)
	parallax := rad2deg(math.Asin(6378.14 / distKM))

	deltaPsi, deltaEps := ephemeris.Nutation(sc.JCE)
	epsilon := ephemeris.MeanObliquity(sc.JME)/3600 + deltaEps
	nu := ephemeris.SiderealTime(sc.JD, sc.JC, deltaPsi, epsilon)

	alpha, delta := ephemeris.Equatorial(lambdaM+deltaPsi, betaM, epsilon)
	moon := spa.Topocentric(alpha, delta, nu, parallax, obs)

	sunRes, err := spa.Compute(in, obs, spa.Options{})
	if err != nil {
		return Result{}, err
	}
	sun := sunRes.Position

	res := Result{
		Sun:          sun,
		Moon:         moon,
		SunDetail:    sunRes,
		Obliquity:    epsilon,
		MoonDistance: distKM,
	}

	// Angular separation of the two disk centers.
	zs, zm := deg2rad(sun.Zenith), deg2rad(moon.Zenith)
	res.Separation = rad2deg(math.Acos(
		math.Cos(zs)*math.Cos(zm) +
			math.Sin(zs)*math.Sin(zm)*math.Cos(deg2rad(sun.Azimuth-moon.Azimuth))))

	sunDist := ephemeris.SunDistance(in)
	res.SunRadius = 959.63 / (3600 * sunDist)
	res.MoonRadius = 358473400 * (1 + math.Sin(deg2rad(moon.Elevation))*math.Sin(deg2rad(parallax))) /
		(3600 * distKM)

	res.Eclipse, res.LuneArea = eclipseGeometry(res.Separation, res.SunRadius, res.MoonRadius)
	res.LunePercent = res.LuneArea * 100 / (math.Pi * res.SunRadius * res.SunRadius)

	res.Irradiance, err = bird.Compute(sunDist, sun.Zenith, obs.Pressure, atm, res.LunePercent/100)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

// geocentricMoon returns the apparent geocentric moon longitude and
// latitude in degrees and the earth-moon distance in kilometers.
func geocentricMoon(jce float64) (lambda, beta, distKM float64) {
	lp := normDeg(218.3164477 + jce*(481267.88123421+jce*(-0.0015786+
		jce*(1.0/538841-jce/65194000))))
	d := normDeg(297.8501921 + jce*(445267.1114034+jce*(-0.0018819+
		jce*(1.0/545868-jce/113065000))))
	m := normDeg(357.5291092 + jce*(35999.0502909+jce*(-0.0001536+
		jce/24490000)))
	mp := normDeg(134.9633964 + jce*(477198.8675055+jce*(0.0087414+
		jce*(1.0/69699-jce/14712000))))
	f := normDeg(93.2720950 + jce*(483202.0175233+jce*(-0.0036539+
		jce*(-1.0/3526000+jce/863310000))))
	e := 1 - 0.002516*jce - 0.0000074*jce*jce

	var l, r, b float64
	for _, t := range moonLR {
		damp := eccentricity(e, t.m)
		arg := deg2rad(t.d*d + t.m*m + t.mp*mp + t.f*f)
		l += t.l * damp * math.Sin(arg)
		r += t.r * damp * math.Cos(arg)
	}
	for _, t := range moonB {
		damp := eccentricity(e, t.m)
		b += t.l * damp * math.Sin(deg2rad(t.d*d+t.m*m+t.mp*mp+t.f*f))
	}

	a1 := 119.75 + 131.849*jce
	a2 := 53.09 + 479264.29*jce
	a3 := 313.45 + 481266.484*jce

	dl := 3958*math.Sin(deg2rad(a1)) + 1962*math.Sin(deg2rad(lp-f)) +
		318*math.Sin(deg2rad(a2))
	db := -2235*math.Sin(deg2rad(lp)) + 382*math.Sin(deg2rad(a3)) +
		175*math.Sin(deg2rad(a1-f)) + 175*math.Sin(deg2rad(a1+f)) +
		127*math.Sin(deg2rad(lp-mp)) - 115*math.Sin(deg2rad(lp+mp))

	lambda = normDeg(lp + (l+dl)/1e6)
	beta = normDeg((b + db) / 1e6)
	distKM = 385000.56 + r/1000
	return lambda, beta, distKM
}

// eccentricity returns the damping factor for a term with the given
// multiple of the sun's mean anomaly.
func eccentricity(e, m float64) float64 {
	switch math.Abs(m) {
	case 1:
		return e
	case 2:
		return e * e
	default:
		return 1
	}
}

// eclipseGeometry classifies the overlap of the two disks and returns the
// unshaded area of the solar disk.
func eclipseGeometry(sep, rs, rm float64) (Eclipse, float64) {
	full := math.Pi * rs * rs
	if sep >= rm+rs {
		return EclipseNone, full
	}
	if sep <= math.Abs(rm-rs) {
		shaded := math.Pi * rm * rm
		return EclipseTotal, math.Max(0, full-shaded)
	}
	// Lens-shaped overlap of two circles.
	s := (sep*sep + rs*rs - rm*rm) / (2 * sep)
	mm := (sep*sep - rs*rs + rm*rm) / (2 * sep)
	h := math.Sqrt(4*sep*sep*rs*rs-math.Pow(sep*sep+rs*rs-rm*rm, 2)) / (2 * sep)
	overlap := rs*rs*math.Acos(s/rs) - h*s + rm*rm*math.Acos(mm/rm) - h*mm
	return EclipsePartial, math.Max(0, full-overlap)
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func normDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
