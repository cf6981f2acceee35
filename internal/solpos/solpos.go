// Package solpos is the simplified solar position and intensity
// algorithm: Michalsky's almanac approximation for position (valid
// 1950-2050), Spencer's radius vector, Zimmerman's refraction bands,
// Kasten-Young air mass, the Drummond shadow-band factor, and the Perez
// clearness renormalization. It trades the precision of the full
// ephemeris for a handful of closed-form expressions.
package solpos

import (
	"math"

	"github.com/litescript/ls-sundial/internal/solar"
	"github.com/litescript/ls-sundial/internal/timescale"
)

const solarConstant = 1367

// Sunrise and sunset minute values that flag a sun staying below or above
// the horizon for the whole day.
const (
	NeverRises = 2999
	NeverSets  = -2999
)

// Options are the surface and instrument parameters. The zero value is
// not useful; start from DefaultOptions.
type Options struct {
	Aspect   float64 // surface azimuth, degrees from north
	Tilt     float64 // surface tilt from horizontal, degrees
	SBWidth  float64 // shadow band width, cm
	SBRadius float64 // shadow band radius, cm
	SBSky    float64 // Drummond sky factor for partly cloudy skies
	Interval float64 // measurement interval, seconds; 0 for instantaneous
}

// DefaultOptions returns a horizontal south-facing surface with the
// Eppley shadow band geometry.
func DefaultOptions() Options {
	return Options{
		Aspect:   180,
		Tilt:     0,
		SBWidth:  7.6,
		SBRadius: 31.7,
		SBSky:    0.04,
		Interval: 0,
	}
}

// Result mirrors the SOLPOS output block. Angles are degrees, irradiance
// W/m^2, sunrise and sunset minutes since local midnight.
type Result struct {
	Position solar.TopocentricPosition

	ElevationETR    float64 // unrefracted elevation
	Airmass         float64 // -1 beyond 93 degrees refracted zenith
	AirmassPressure float64 // pressure-corrected air mass
	DayAngle        float64
	EquationOfTime  float64 // minutes
	Sunrise         float64
	Sunset          float64
	ShadowBandCF    float64
	Prime           float64
	Unprime         float64
	ETRGlobal       float64 // extraterrestrial global horizontal
	ETRDirect       float64 // extraterrestrial direct normal
	ETRTilt         float64 // extraterrestrial on the tilted surface
}

var cumulativeDays = [2][13]int{
	{0, 0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334},
	{0, 0, 31, 60, 91, 121, 152, 182, 213, 244, 274, 305, 335},
}

// Compute runs the algorithm for a local civil instant. The instant's UTC
// offset is the timezone input; DeltaT is ignored, the almanac
// approximation has no terrestrial-time term.
func Compute(in timescale.Instant, obs solar.Observer, opt Options) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	if err := obs.Validate(); err != nil {
		return Result{}, err
	}

	leap := 0
	if in.Year%4 == 0 && (in.Year%100 != 0 || in.Year%400 == 0) {
		leap = 1
	}
	daynum := in.Day + cumulativeDays[0][in.Month]
	if leap == 1 && in.Month > 2 {
		daynum++
	}

	dayAngle := 360 * float64(daynum-1) / 365
	sd := math.Sin(deg2rad(dayAngle))
	cd := math.Cos(deg2rad(dayAngle))
	s2 := math.Sin(deg2rad(2 * dayAngle))
	c2 := math.Cos(deg2rad(2 * dayAngle))
	erv := 1.000110 + 0.034221*cd + 0.001280*sd + 0.000719*c2 + 0.000077*s2

	// Michalsky's day count from noon 1 January 2000.
	utime := (float64(in.Hour)*3600+float64(in.Minute)*60+in.Second-opt.Interval/2)/3600 -
		in.UTCOffset
	delta := in.Year - 1949
	julday := 32916.5 + float64(delta)*365 + float64(delta/4) + float64(daynum) + utime/24
	ectime := julday - 51545

	mnlong := pymod(280.460+0.9856474*ectime, 360)
	mnanom := pymod(357.528+0.9856003*ectime, 360)
	eclong := pymod(mnlong+1.915*math.Sin(deg2rad(mnanom))+
		0.020*math.Sin(deg2rad(2*mnanom)), 360)
	ecobli := 23.439 - 4.0e-07*ectime

	declin := rad2deg(math.Asin(math.Sin(deg2rad(ecobli)) * math.Sin(deg2rad(eclong))))
	rascen := pymod(rad2deg(math.Atan2(
		math.Cos(deg2rad(ecobli))*math.Sin(deg2rad(eclong)),
		math.Cos(deg2rad(eclong)))), 360)

	gmst := pymod(6.697375+0.0657098242*ectime+utime, 24)
	lmst := pymod(gmst*15+obs.Longitude, 360)
	hrang := lmst - rascen
	if hrang < -180 {
		hrang += 360
	} else if hrang > 180 {
		hrang -= 360
	}

	cdecl := math.Cos(deg2rad(declin))
	chang := math.Cos(deg2rad(hrang))
	clat := math.Cos(deg2rad(obs.Latitude))
	sdecl := math.Sin(deg2rad(declin))
	slat := math.Sin(deg2rad(obs.Latitude))

	cz := sdecl*slat + cdecl*clat*chang
	if cz > 1 {
		cz = 1
	} else if cz < -1 {
		cz = -1
	}
	zenetr := rad2deg(math.Acos(cz))
	if zenetr > 99 {
		zenetr = 99
	}
	elevetr := 90 - zenetr

	// Sunset hour angle; the clamps cover polar day and night.
	var ssha float64
	cdcl := cdecl * clat
	switch {
	case math.Abs(cdcl) >= 0.001:
		cssha := -slat * sdecl / cdcl
		if cssha < -1 {
			ssha = 180
		} else if cssha > 1 {
			ssha = 0
		} else {
			ssha = rad2deg(math.Acos(cssha))
		}
	case (declin >= 0 && obs.Latitude > 0) || (declin < 0 && obs.Latitude < 0):
		ssha = 180
	default:
		ssha = 0
	}

	p := 0.6366198 * opt.SBWidth / opt.SBRadius * cdecl * cdecl * cdecl
	t1 := deg2rad(slat * sdecl * ssha)
	t2 := clat * cdecl * math.Sin(deg2rad(ssha))
	sbcf := opt.SBSky + 1/(1-p*(t1+t2))

	tst := (180 + hrang) * 4
	tstfix := tst - float64(in.Hour)*60 - float64(in.Minute) - in.Second/60 +
		opt.Interval/120
	for tstfix > 720 {
		tstfix -= 1440
	}
	for tstfix < -720 {
		tstfix += 1440
	}
	eqntim := tstfix + 60*in.UTCOffset - 4*obs.Longitude

	var sretr, ssetr float64
	switch {
	case ssha <= 1:
		sretr, ssetr = NeverRises, NeverSets
	case ssha >= 179:
		sretr, ssetr = NeverSets, NeverRises
	default:
		sretr = 720 - 4*ssha - tstfix
		ssetr = 720 + 4*ssha - tstfix
	}

	ce := math.Cos(deg2rad(elevetr))
	se := math.Sin(deg2rad(elevetr))
	azim := 180.0
	if cecl := ce * clat; math.Abs(cecl) >= 0.001 {
		ca := (se*slat - sdecl) / cecl
		if ca > 1 {
			ca = 1
		} else if ca < -1 {
			ca = -1
		}
		azim = 180 - rad2deg(math.Acos(ca))
		if hrang > 0 {
			azim = 360 - azim
		}
	}

	// Zimmerman refraction bands.
	refcor := 0.0
	if elevetr <= 85 {
		tanelev := math.Tan(deg2rad(elevetr))
		switch {
		case elevetr >= 5:
			refcor = 58.1/tanelev - 0.07/math.Pow(tanelev, 3) +
				0.000086/math.Pow(tanelev, 5)
		case elevetr >= -0.575:
			refcor = 1735 + elevetr*(-518.2+elevetr*(103.4+
				elevetr*(-12.79+elevetr*0.711)))
		default:
			refcor = -20.774 / tanelev
		}
		refcor *= (obs.Pressure * 283) / (1013 * (273 + obs.Temperature)) / 3600
	}
	elevref := elevetr + refcor
	if elevref < -9 {
		elevref = -9
	}
	zenref := 90 - elevref
	coszen := math.Cos(deg2rad(zenref))

	amass, ampress := -1.0, -1.0
	if zenref <= 93 {
		amass = 1 / (coszen + 0.50572*math.Pow(96.07995-zenref, -1.6364))
		ampress = amass * obs.Pressure / 1013
	}
	unprime := 1.031*math.Exp(-1.4/(0.9+9.4/amass)) + 0.1
	prime := 1 / unprime

	var etrn, etr float64
	if coszen > 0 {
		etrn = solarConstant * erv
		etr = etrn * coszen
	}
	cosinc := coszen*math.Cos(deg2rad(opt.Tilt)) +
		math.Sin(deg2rad(zenref))*math.Sin(deg2rad(opt.Tilt))*
			(math.Cos(deg2rad(azim))*math.Cos(deg2rad(opt.Aspect))+
				math.Sin(deg2rad(azim))*math.Sin(deg2rad(opt.Aspect)))
	var etrtilt float64
	if cosinc > 0 {
		etrtilt = etrn * cosinc
	}

	return Result{
		Position: solar.TopocentricPosition{
			Zenith:         zenref,
			Azimuth:        azim,
			Elevation:      elevref,
			Declination:    declin,
			RightAscension: rascen,
			HourAngle:      hrang,
			Incidence:      rad2deg(math.Acos(math.Min(1, math.Max(-1, cosinc)))),
		},
		ElevationETR:    elevetr,
		Airmass:         amass,
		AirmassPressure: ampress,
		DayAngle:        dayAngle,
		EquationOfTime:  eqntim,
		Sunrise:         sretr,
		Sunset:          ssetr,
		ShadowBandCF:    sbcf,
		Prime:           prime,
		Unprime:         unprime,
		ETRGlobal:       etr,
		ETRDirect:       etrn,
		ETRTilt:         etrtilt,
	}, nil
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
func rad2deg(r float64) float64 { return r * 180 / math.Pi }

func pymod(v, m float64) float64 {
	v = math.Mod(v, m)
	if v < 0 {
		v += m
	}
	return v
}
