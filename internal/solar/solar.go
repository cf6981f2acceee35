// Package solar holds the observer, position, and irradiance types shared
// by every position engine, plus the engine selection mode.
package solar

import (
	"errors"
	"fmt"
)

// Errors reported at the public boundary of the engines.
var (
	ErrInvalidObserver   = errors.New("invalid observer")
	ErrInvalidAtmosphere = errors.New("invalid atmospheric parameters")
)

// Observer is a ground-based observation site. It is immutable; engines
// never modify it.
type Observer struct {
	Latitude    float64 // degrees, north positive, [-90, 90]
	Longitude   float64 // degrees, east positive, [-180, 180]
	Elevation   float64 // meters above sea level
	Pressure    float64 // annual average surface pressure, hPa
	Temperature float64 // annual average surface temperature, Celsius
}

// NewObserver validates and builds an Observer. The poles are accepted for
// position queries; dial construction applies its own stricter bound.
func NewObserver(lat, lon, elevation, pressure, temperature float64) (Observer, error) {
	obs := Observer{
		Latitude:    lat,
		Longitude:   lon,
		Elevation:   elevation,
		Pressure:    pressure,
		Temperature: temperature,
	}
	if err := obs.Validate(); err != nil {
		return Observer{}, err
	}
	return obs, nil
}

// Validate checks the observer ranges eagerly, before any computation.
func (o Observer) Validate() error {
	if o.Latitude < -90 || o.Latitude > 90 {
		return fmt.Errorf("%w: latitude %g outside [-90, 90]", ErrInvalidObserver, o.Latitude)
	}
	if o.Longitude < -180 || o.Longitude > 180 {
		return fmt.Errorf("%w: longitude %g outside [-180, 180]", ErrInvalidObserver, o.Longitude)
	}
	if o.Elevation < -6500000 {
		return fmt.Errorf("%w: elevation %g below center of Earth", ErrInvalidObserver, o.Elevation)
	}
	if o.Pressure < 0 {
		return fmt.Errorf("%w: negative pressure %g", ErrInvalidAtmosphere, o.Pressure)
	}
	if o.Temperature < -273.15 {
		return fmt.Errorf("%w: temperature %g below absolute zero", ErrInvalidAtmosphere, o.Temperature)
	}
	return nil
}

// TopocentricPosition is the terminal output of a position engine: the sun
// (or moon) as seen from the observer, refraction and parallax applied.
type TopocentricPosition struct {
	Zenith         float64 // degrees, [0, 180]
	Azimuth        float64 // degrees from north, eastward, [0, 360)
	Elevation      float64 // refracted elevation angle, degrees
	Declination    float64 // topocentric declination, degrees
	RightAscension float64 // topocentric right ascension, degrees
	HourAngle      float64 // topocentric local hour angle, degrees
	Incidence      float64 // incidence angle on the configured surface, degrees
}

// Irradiance is the broadband clear-sky irradiance triple on a horizontal
// surface, in W/m^2.
type Irradiance struct {
	DirectNormal      float64
	GlobalHorizontal  float64
	DiffuseHorizontal float64
	Airmass           float64 // relative optical air mass, not pressure corrected
}

// Engine identifies which position algorithm a caller wants. Selection is
// always explicit; there is no fallback between engines.
type Engine int

const (
	EngineSPA    Engine = iota // high-precision solar
	EngineSAMPA                // solar and lunar
	EngineSOLPOS               // simplified position and intensity
)

// String returns the engine name.
func (e Engine) String() string {
	switch e {
	case EngineSPA:
		return "spa"
	case EngineSAMPA:
		return "sampa"
	case EngineSOLPOS:
		return "solpos"
	default:
		return "unknown"
	}
}

// ParseEngine parses an engine name, defaulting to the high-precision one.
func ParseEngine(s string) Engine {
	switch s {
	case "sampa":
		return EngineSAMPA
	case "solpos":
		return EngineSOLPOS
	default:
		return EngineSPA
	}
}
