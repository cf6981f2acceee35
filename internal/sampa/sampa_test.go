package sampa

import (
	"math"
	"testing"

	"github.com/litescript/ls-sundial/internal/bird"
	"github.com/litescript/ls-sundial/internal/solar"
	"github.com/litescript/ls-sundial/internal/timescale"
)

func TestComputeTotalEclipse(t *testing.T) {
	// Greatest eclipse of 2016-03-09, over the Pacific north of Papua New
	// Guinea at 01:58 UT.
	in := timescale.Instant{
		Year: 2016, Month: 3, Day: 9,
		Hour: 1, Minute: 58, Second: 19,
		DeltaT: timescale.DefaultDeltaT,
	}
	obs := solar.Observer{
		Latitude:    10.1,
		Longitude:   148.8,
		Elevation:   100,
		Pressure:    1000,
		Temperature: 25,
	}
	res, err := Compute(in, obs, bird.DefaultAtmosphere())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if res.Eclipse != EclipseTotal {
		t.Errorf("Eclipse = %v, want EclipseTotal", res.Eclipse)
	}

	angles := []struct {
		name string
		got  float64
		want float64
	}{
		{"sun zenith", res.Sun.Zenith, 15.082},
		{"sun azimuth", res.Sun.Azimuth, 163.508},
		{"moon zenith", res.Moon.Zenith, 15.080},
		{"moon azimuth", res.Moon.Azimuth, 163.488},
	}
	for _, a := range angles {
		if math.Abs(a.got-a.want) > 0.05 {
			t.Errorf("%s = %.3f, want %.3f", a.name, a.got, a.want)
		}
	}

	if math.Abs(res.SunRadius-0.268) > 0.001 {
		t.Errorf("sun radius = %.4f, want 0.268", res.SunRadius)
	}
	if math.Abs(res.MoonRadius-0.281) > 0.001 {
		t.Errorf("moon radius = %.4f, want 0.281", res.MoonRadius)
	}
	if res.LunePercent > 0.5 {
		t.Errorf("LunePercent = %.3f, want 0 in totality", res.LunePercent)
	}
	if res.Separation > res.MoonRadius {
		t.Errorf("separation %.4f exceeds moon radius %.4f in totality",
			res.Separation, res.MoonRadius)
	}

	// Totality kills the direct beam but not the diffuse sky.
	irr := []struct {
		name string
		got  float64
		want float64
	}{
		{"clear DNI", res.Irradiance.DirectNormal, 1001.167},
		{"eclipsed DNI", res.Irradiance.Modified.DirectNormal, 0},
		{"clear GHI", res.Irradiance.GlobalHorizontal, 1062.697},
		{"eclipsed GHI", res.Irradiance.Modified.GlobalHorizontal, 81.056},
		{"clear DHI", res.Irradiance.DiffuseHorizontal, 96.013},
		{"eclipsed DHI", res.Irradiance.Modified.DiffuseHorizontal, 81.056},
	}
	for _, c := range irr {
		if math.Abs(c.got-c.want) > 3 {
			t.Errorf("%s = %.3f W/m^2, want %.3f", c.name, c.got, c.want)
		}
	}
}

func TestComputePartialEclipse(t *testing.T) {
	// The 2020-12-14 total eclipse seen from outside the path of totality,
	// in Argentine Patagonia.
	in := timescale.Instant{
		Year: 2020, Month: 12, Day: 14,
		Hour: 16, Minute: 19,
		DeltaT: timescale.DefaultDeltaT,
	}
	obs := solar.Observer{
		Latitude:    -40.3,
		Longitude:   -67.9,
		Elevation:   0,
		Pressure:    10,
		Temperature: 0,
	}
	res, err := Compute(in, obs, bird.DefaultAtmosphere())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if res.Eclipse != EclipsePartial {
		t.Errorf("Eclipse = %v, want EclipsePartial", res.Eclipse)
	}
	if math.Abs(res.Sun.Zenith-17.116) > 0.05 {
		t.Errorf("sun zenith = %.3f, want 17.116", res.Sun.Zenith)
	}
	if math.Abs(res.Separation-0.013) > 0.005 {
		t.Errorf("separation = %.4f, want 0.013", res.Separation)
	}
	if math.Abs(res.LunePercent-5.582) > 0.5 {
		t.Errorf("LunePercent = %.3f, want 5.582", res.LunePercent)
	}
	// The modified beam is the clear beam scaled by the unshaded fraction.
	wantDNI := res.Irradiance.DirectNormal * res.LunePercent / 100
	if math.Abs(res.Irradiance.Modified.DirectNormal-wantDNI) > 1e-6 {
		t.Errorf("modified DNI = %.3f, want %.3f", res.Irradiance.Modified.DirectNormal, wantDNI)
	}
}

func TestComputeNoEclipse(t *testing.T) {
	// South Pacific, sun low, moon on the other side of the sky.
	in := timescale.Instant{
		Year: 2019, Month: 1, Day: 2,
		Hour: 3, Minute: 5, Second: 55,
		DeltaT: timescale.DefaultDeltaT,
	}
	obs := solar.Observer{
		Latitude:    -23.923,
		Longitude:   -130.741,
		Elevation:   -100,
		Pressure:    2000,
		Temperature: -10,
	}
	res, err := Compute(in, obs, bird.DefaultAtmosphere())
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if res.Eclipse != EclipseNone {
		t.Errorf("Eclipse = %v, want EclipseNone", res.Eclipse)
	}
	if math.Abs(res.LunePercent-100) > 1e-9 {
		t.Errorf("LunePercent = %.3f, want 100", res.LunePercent)
	}
	if full := math.Pi * res.SunRadius * res.SunRadius; math.Abs(res.LuneArea-full) > 1e-12 {
		t.Errorf("LuneArea = %g, want the full disk %g outside an eclipse", res.LuneArea, full)
	}
	if math.Abs(res.Sun.Zenith-84.636) > 0.05 {
		t.Errorf("sun zenith = %.3f, want 84.636", res.Sun.Zenith)
	}
	if math.Abs(res.Moon.Zenith-126.629) > 0.05 {
		t.Errorf("moon zenith = %.3f, want 126.629", res.Moon.Zenith)
	}
	if math.Abs(res.Separation-45.7) > 1 {
		t.Errorf("separation = %.3f, want about 45.7 degrees", res.Separation)
	}
	// With the full disk the modified triple equals the clear-sky one.
	if math.Abs(res.Irradiance.Modified.DirectNormal-res.Irradiance.DirectNormal) > 1e-6 {
		t.Errorf("modified DNI %.3f != clear-sky DNI %.3f",
			res.Irradiance.Modified.DirectNormal, res.Irradiance.DirectNormal)
	}
}

func TestComputeMoonRanges(t *testing.T) {
	obs := solar.Observer{Latitude: 35, Longitude: -110, Elevation: 500,
		Pressure: 950, Temperature: 10}
	for day := 1; day <= 28; day += 3 {
		in := timescale.Instant{Year: 2024, Month: 7, Day: day, Hour: 6,
			DeltaT: timescale.DefaultDeltaT}
		res, err := Compute(in, obs, bird.DefaultAtmosphere())
		if err != nil {
			t.Fatalf("day %d: %v", day, err)
		}
		if res.MoonDistance < 356000 || res.MoonDistance > 407000 {
			t.Errorf("day %d: moon distance %.0f km out of orbital range", day, res.MoonDistance)
		}
		if res.Moon.Zenith < 0 || res.Moon.Zenith > 180 {
			t.Errorf("day %d: moon zenith %.3f out of [0, 180]", day, res.Moon.Zenith)
		}
		if res.Moon.Azimuth < 0 || res.Moon.Azimuth >= 360 {
			t.Errorf("day %d: moon azimuth %.3f out of [0, 360)", day, res.Moon.Azimuth)
		}
		if res.SunRadius < 0.26 || res.SunRadius > 0.28 {
			t.Errorf("day %d: sun radius %.4f out of range", day, res.SunRadius)
		}
		if res.MoonRadius < 0.24 || res.MoonRadius > 0.30 {
			t.Errorf("day %d: moon radius %.4f out of range", day, res.MoonRadius)
		}
		if res.Obliquity < 23.43 || res.Obliquity > 23.45 {
			t.Errorf("day %d: obliquity %.4f out of range", day, res.Obliquity)
		}
	}
}

func TestEclipseString(t *testing.T) {
	tests := []struct {
		e    Eclipse
		want string
	}{
		{EclipseNone, "no eclipse"},
		{EclipsePartial, "partial solar eclipse"},
		{EclipseTotal, "total solar eclipse"},
	}
	for _, tt := range tests {
		if got := tt.e.String(); got != tt.want {
			t.Errorf("Eclipse(%d).String() = %q, want %q", tt.e, got, tt.want)
		}
	}
}

func TestComputeInvalidObserver(t *testing.T) {
	in := timescale.Instant{Year: 2024, Month: 5, Day: 10,
		DeltaT: timescale.DefaultDeltaT}
	if _, err := Compute(in, solar.Observer{Latitude: 100}, bird.DefaultAtmosphere()); err == nil {
		t.Error("want error for invalid observer")
	}
}
