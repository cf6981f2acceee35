package bird

import (
	"math"
	"testing"
)

func TestComputeOverheadSun(t *testing.T) {
	res, err := Compute(1, 0, 1013, DefaultAtmosphere(), -1)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	if math.Abs(res.Airmass-1) > 0.01 {
		t.Errorf("airmass = %.4f, want about 1 at zenith 0", res.Airmass)
	}
	// Clear-sky direct beam at one AU with the reference atmosphere sits
	// around 950 W/m^2.
	if res.DirectNormal < 850 || res.DirectNormal > 1050 {
		t.Errorf("DNI = %.1f W/m^2, out of the clear-sky band", res.DirectNormal)
	}
	// Diffuse always adds something on a clear day.
	if res.DiffuseHorizontal <= 0 {
		t.Errorf("diffuse = %.1f, want positive", res.DiffuseHorizontal)
	}
	if res.GlobalHorizontal <= res.DirectNormal {
		t.Errorf("GHI %.1f not above DNI %.1f with the sun overhead",
			res.GlobalHorizontal, res.DirectNormal)
	}
}

func TestComputeComponentIdentity(t *testing.T) {
	// Global equals direct horizontal plus diffuse at any elevation.
	for _, zenith := range []float64{0, 20, 45, 70, 85, 89.5} {
		res, err := Compute(1, zenith, 1013, DefaultAtmosphere(), -1)
		if err != nil {
			t.Fatalf("zenith %.1f: %v", zenith, err)
		}
		dh := res.DirectNormal * math.Cos(zenith*math.Pi/180)
		if diff := res.GlobalHorizontal - dh - res.DiffuseHorizontal; math.Abs(diff) > 1e-9 {
			t.Errorf("zenith %.1f: GHI - DNI*cosZ - DHI = %g", zenith, diff)
		}
	}
}

func TestComputeBelowHorizon(t *testing.T) {
	tests := []struct {
		name     string
		distance float64
		zenith   float64
	}{
		{"sun on the horizon", 1, 90},
		{"sun below the horizon", 1, 110},
		{"negative zenith", 1, -5},
		{"zero distance", 0, 45},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Compute(tt.distance, tt.zenith, 1013, DefaultAtmosphere(), 1)
			if err != nil {
				t.Fatalf("Compute() error = %v", err)
			}
			if res.DirectNormal != 0 || res.GlobalHorizontal != 0 ||
				res.DiffuseHorizontal != 0 || res.Airmass != 0 {
				t.Errorf("want all-zero result, got %+v", res.Irradiance)
			}
		})
	}
}

func TestComputeDiskFraction(t *testing.T) {
	full, err := Compute(1, 30, 1013, DefaultAtmosphere(), 1)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	half, err := Compute(1, 30, 1013, DefaultAtmosphere(), 0.5)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}

	// With the full disk the modified triple matches the unmodified one.
	if math.Abs(full.Modified.DirectNormal-full.DirectNormal) > 1e-9 {
		t.Errorf("full disk modified DNI %.3f != %.3f", full.Modified.DirectNormal, full.DirectNormal)
	}
	if math.Abs(half.Modified.DirectNormal-half.DirectNormal/2) > 1e-9 {
		t.Errorf("half disk DNI = %.3f, want %.3f", half.Modified.DirectNormal, half.DirectNormal/2)
	}
	// Diffuse survives an eclipse; global drops by the blocked beam only.
	if half.Modified.GlobalHorizontal >= full.Modified.GlobalHorizontal {
		t.Errorf("half-disk GHI %.3f not below full-disk %.3f",
			half.Modified.GlobalHorizontal, full.Modified.GlobalHorizontal)
	}
	if half.Modified.DiffuseHorizontal <= 0 {
		t.Errorf("half-disk diffuse = %.3f, want positive", half.Modified.DiffuseHorizontal)
	}

	skipped, err := Compute(1, 30, 1013, DefaultAtmosphere(), -1)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	if skipped.Modified.GlobalHorizontal != 0 {
		t.Errorf("negative disk fraction should leave Modified zero, got %+v", skipped.Modified)
	}
}

func TestComputePressureScaling(t *testing.T) {
	sea, err := Compute(1, 60, 1013, DefaultAtmosphere(), -1)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	high, err := Compute(1, 60, 820, DefaultAtmosphere(), -1)
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	// Less air above the site means more direct beam.
	if high.DirectNormal <= sea.DirectNormal {
		t.Errorf("DNI at 820 hPa %.1f not above sea level %.1f",
			high.DirectNormal, sea.DirectNormal)
	}
	// Relative air mass is geometric and pressure independent.
	if sea.Airmass != high.Airmass {
		t.Errorf("airmass changed with pressure: %.4f vs %.4f", sea.Airmass, high.Airmass)
	}
}

func TestAtmosphereValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Atmosphere)
		wantErr bool
	}{
		{"default", func(a *Atmosphere) {}, false},
		{"negative ozone", func(a *Atmosphere) { a.Ozone = -0.1 }, true},
		{"negative water", func(a *Atmosphere) { a.Water = -1 }, true},
		{"negative aerosol", func(a *Atmosphere) { a.Aerosol = -0.01 }, true},
		{"albedo above one", func(a *Atmosphere) { a.Albedo = 1.5 }, true},
		{"forward scatter above one", func(a *Atmosphere) { a.ForwardScatter = 1.2 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			atm := DefaultAtmosphere()
			tt.mutate(&atm)
			err := atm.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
	if _, err := Compute(1, 45, -1, DefaultAtmosphere(), -1); err == nil {
		t.Error("want error for negative pressure")
	}
}
