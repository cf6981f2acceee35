// Package ephemeris evaluates the periodic series behind the high-precision
// solar engines: heliocentric Earth coordinates, nutation, obliquity, and
// the sun's apparent geocentric right ascension and declination.
package ephemeris

import (
	"math"

	"github.com/litescript/ls-sundial/internal/timescale"
)

// State is the full ephemeris state for one instant. It is a pure function
// of the instant and safe to cache by value.
type State struct {
	timescale.Scales

	// Heliocentric Earth coordinates.
	L float64 // longitude, degrees
	B float64 // latitude, degrees
	R float64 // radius vector, AU

	// Geocentric sun coordinates.
	Theta float64 // longitude, degrees
	Beta  float64 // latitude, degrees

	DeltaPsi float64 // nutation in longitude, degrees
	DeltaEps float64 // nutation in obliquity, degrees
	Epsilon  float64 // true obliquity of the ecliptic, degrees

	Lambda float64 // apparent sun longitude, degrees
	Nu     float64 // apparent sidereal time at Greenwich, degrees

	Alpha float64 // geocentric sun right ascension, degrees
	Delta float64 // geocentric sun declination, degrees
}

// Compute derives the ephemeris state for an instant. The series are summed
// term by term; summation order does not matter beyond floating-point
// tolerance because no term dominates catastrophically.
func Compute(in timescale.Instant) State {
	s := State{Scales: in.Derive()}
	jme := s.JME

	l0 := sumSeries(termsL0, jme)
	l1 := sumSeries(termsL1, jme)
	l2 := sumSeries(termsL2, jme)
	l3 := sumSeries(termsL3, jme)
	l4 := sumSeries(termsL4, jme)
	l5 := sumSeries(termsL5, jme)
	s.L = normDeg(rad2deg((l0 + jme*(l1 + jme*(l2 + jme*(l3 + jme*(l4 + jme*l5))))) / 1e8))

	b0 := sumSeries(termsB0, jme)
	b1 := sumSeries(termsB1, jme)
	s.B = rad2deg((b0 + jme*b1) / 1e8)

	r0 := sumSeries(termsR0, jme)
	r1 := sumSeries(termsR1, jme)
	r2 := sumSeries(termsR2, jme)
	r3 := sumSeries(termsR3, jme)
	r4 := sumSeries(termsR4, jme)
	s.R = (r0 + jme*(r1 + jme*(r2 + jme*(r3 + jme*r4)))) / 1e8

	// Heliocentric to geocentric: rotate 180 degrees, flip latitude.
	s.Theta = normDeg(s.L + 180)
	s.Beta = -s.B

	s.DeltaPsi, s.DeltaEps = Nutation(s.JCE)
	s.Epsilon = MeanObliquity(jme)/3600 + s.DeltaEps

	// Aberration correction, then apparent longitude.
	deltaTau := -20.4898 / (3600 * s.R)
	s.Lambda = s.Theta + s.DeltaPsi + deltaTau

	s.Nu = SiderealTime(s.JD, s.JC, s.DeltaPsi, s.Epsilon)

	s.Alpha, s.Delta = Equatorial(s.Lambda, s.Beta, s.Epsilon)
	return s
}

func sumSeries(terms []term, jme float64) float64 {
	sum := 0.0
	for _, t := range terms {
		sum += t.a * math.Cos(t.b+t.c*jme)
	}
	return sum
}

// Nutation returns nutation in longitude and in obliquity, both in degrees,
// from the 63-term IAU table.
func Nutation(jce float64) (deltaPsi, deltaEps float64) {
	x := [5]float64{
		297.85036 + jce*(445267.111480+jce*(-0.0019142+jce/189474)),
		357.52772 + jce*(35999.050340+jce*(-0.0001603-jce/300000)),
		134.96298 + jce*(477198.867398+jce*(0.0086972+jce/56250)),
		93.27191 + jce*(483202.017538+jce*(-0.0036825+jce/327270)),
		125.04452 + jce*(-1934.136261+jce*(0.0020708+jce/450000)),
	}
	for i := range x {
		x[i] = deg2rad(x[i])
	}
	var psi, eps float64
	for i, args := range nutationArgs {
		arg := 0.0
		for j, m := range args {
			arg += x[j] * m
		}
		psi += (nutationPsi[i][0] + nutationPsi[i][1]*jce) * math.Sin(arg)
		eps += (nutationEps[i][0] + nutationEps[i][1]*jce) * math.Cos(arg)
	}
	return psi / 36e6, eps / 36e6
}

// MeanObliquity returns the mean obliquity of the ecliptic in arcseconds.
func MeanObliquity(jme float64) float64 {
	u := jme / 10
	return 84381.448 + u*(-4680.93+u*(-1.55+u*(1999.25+u*(-51.38+
		u*(-249.67+u*(-39.05+u*(7.12+u*(27.87+u*(5.79+u*2.45)))))))))
}

// SiderealTime returns the apparent sidereal time at Greenwich in degrees.
func SiderealTime(jd, jc, deltaPsi, epsilon float64) float64 {
	mean := 280.46061837 + 360.98564736629*(jd-2451545) +
		0.000387933*jc*jc - jc*jc*jc/38710000
	mean = normDeg(mean)
	return mean + deltaPsi*math.Cos(deg2rad(epsilon))
}

// Equatorial rotates apparent ecliptic coordinates into right ascension and
// declination using the true obliquity. All angles in degrees.
func Equatorial(lambda, beta, epsilon float64) (alpha, delta float64) {
	lr, br, er := deg2rad(lambda), deg2rad(beta), deg2rad(epsilon)
	alpha = rad2deg(math.Atan2(
		math.Sin(lr)*math.Cos(er)-math.Tan(br)*math.Sin(er),
		math.Cos(lr)))
	alpha = normDeg(alpha)
	delta = rad2deg(math.Asin(
		math.Sin(br)*math.Cos(er) + math.Cos(br)*math.Sin(er)*math.Sin(lr)))
	return alpha, delta
}

// GeocentricSun returns only the apparent geocentric right ascension and
// declination of the sun, for callers that do not need the full state.
func GeocentricSun(in timescale.Instant) (alpha, delta float64) {
	s := Compute(in)
	return s.Alpha, s.Delta
}

// SunDistance returns the Earth-Sun distance in astronomical units.
func SunDistance(in timescale.Instant) float64 {
	jme := in.Derive().JME
	r0 := sumSeries(termsR0, jme)
	r1 := sumSeries(termsR1, jme)
	r2 := sumSeries(termsR2, jme)
	r3 := sumSeries(termsR3, jme)
	r4 := sumSeries(termsR4, jme)
	return (r0 + jme*(r1 + jme*(r2 + jme*(r3 + jme*r4)))) / 1e8
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

// normDeg normalizes an angle to [0, 360).
func normDeg(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
