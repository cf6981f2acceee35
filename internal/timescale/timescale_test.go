package timescale

import (
	"math"
	"testing"
	"time"
)

func TestJulianDay(t *testing.T) {
	// Reference days from Meeus, "Astronomical Algorithms", chapter 7,
	// plus the reference instant from the NREL solar position report.
	tests := []struct {
		name string
		in   Instant
		want float64
		tol  float64
	}{
		{
			name: "J2000 epoch",
			in:   Instant{Year: 2000, Month: 1, Day: 1, Hour: 12},
			want: 2451545.0,
			tol:  1e-9,
		},
		{
			name: "Sputnik launch 1957",
			in:   Instant{Year: 1957, Month: 10, Day: 4, Hour: 19, Minute: 26, Second: 24},
			want: 2436116.31,
			tol:  1e-6,
		},
		{
			name: "solar report reference 2003-10-17",
			in: Instant{Year: 2003, Month: 10, Day: 17,
				Hour: 12, Minute: 30, Second: 30, UTCOffset: -7},
			want: 2452930.312847,
			tol:  1e-6,
		},
		{
			name: "Julian calendar 333 AD",
			in:   Instant{Year: 333, Month: 1, Day: 27, Hour: 12},
			want: 1842713.0,
			tol:  1e-9,
		},
		{
			name: "last Julian day 1582-10-04",
			in:   Instant{Year: 1582, Month: 10, Day: 4},
			want: 2299159.5,
			tol:  1e-9,
		},
		{
			name: "first Gregorian day 1582-10-15",
			in:   Instant{Year: 1582, Month: 10, Day: 15},
			want: 2299160.5,
			tol:  1e-9,
		},
		{
			name: "year 0 (1 BC) start",
			in:   Instant{Year: 0, Month: 1, Day: 1},
			want: 1721057.5,
			tol:  1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.JulianDay()
			if math.Abs(got-tt.want) > tt.tol {
				t.Errorf("JulianDay() = %.6f, want %.6f", got, tt.want)
			}
		})
	}
}

func TestGregorianTransitionContinuity(t *testing.T) {
	// 1582-10-04 (Julian) is followed immediately by 1582-10-15 (Gregorian).
	before := Instant{Year: 1582, Month: 10, Day: 4}
	after := Instant{Year: 1582, Month: 10, Day: 15}
	if diff := after.JulianDay() - before.JulianDay(); math.Abs(diff-1) > 1e-9 {
		t.Errorf("transition gap = %.6f days, want 1", diff)
	}
}

func TestDerive(t *testing.T) {
	in := Instant{Year: 2003, Month: 10, Day: 17,
		Hour: 12, Minute: 30, Second: 30, UTCOffset: -7, DeltaT: 67}
	sc := in.Derive()

	if math.Abs(sc.JDE-sc.JD-67.0/86400) > 1e-12 {
		t.Errorf("JDE-JD = %.9f days, want %.9f", sc.JDE-sc.JD, 67.0/86400)
	}
	if math.Abs(sc.JC-(sc.JD-2451545)/36525) > 1e-15 {
		t.Errorf("JC inconsistent with JD")
	}
	if math.Abs(sc.JME-sc.JCE/10) > 1e-15 {
		t.Errorf("JME = %.12f, want JCE/10 = %.12f", sc.JME, sc.JCE/10)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      Instant
		wantErr bool
	}{
		{"ordinary date", Instant{Year: 2024, Month: 6, Day: 15}, false},
		{"leap day in leap year", Instant{Year: 2024, Month: 2, Day: 29}, false},
		{"leap day in common year", Instant{Year: 2023, Month: 2, Day: 29}, true},
		{"century non-leap", Instant{Year: 1900, Month: 2, Day: 29}, true},
		{"quadricentennial leap", Instant{Year: 2000, Month: 2, Day: 29}, false},
		{"Julian century leap", Instant{Year: 1500, Month: 2, Day: 29}, false},
		{"month zero", Instant{Year: 2024, Month: 0, Day: 1}, true},
		{"month thirteen", Instant{Year: 2024, Month: 13, Day: 1}, true},
		{"day zero", Instant{Year: 2024, Month: 1, Day: 0}, true},
		{"day 32", Instant{Year: 2024, Month: 1, Day: 32}, true},
		{"April 31", Instant{Year: 2024, Month: 4, Day: 31}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.in.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFromTime(t *testing.T) {
	loc := time.FixedZone("MST", -7*3600)
	at := time.Date(2003, 10, 17, 12, 30, 30, 500_000_000, loc)
	in := FromTime(at, 67)

	if in.Year != 2003 || in.Month != 10 || in.Day != 17 {
		t.Errorf("date = %d-%02d-%02d, want 2003-10-17", in.Year, in.Month, in.Day)
	}
	if in.UTCOffset != -7 {
		t.Errorf("UTCOffset = %v, want -7", in.UTCOffset)
	}
	if math.Abs(in.Second-30.5) > 1e-9 {
		t.Errorf("Second = %v, want 30.5", in.Second)
	}
	if in.DeltaT != 67 {
		t.Errorf("DeltaT = %v, want 67", in.DeltaT)
	}
}

func TestCalendarRoundTrip(t *testing.T) {
	tests := []Instant{
		{Year: 2024, Month: 2, Day: 29, Hour: 12},
		{Year: 1999, Month: 12, Day: 31, Hour: 12},
		{Year: 1582, Month: 10, Day: 15, Hour: 12},
	}
	for _, in := range tests {
		y, m, d := CalendarFromJD(in.JulianDay())
		if y != in.Year || m != in.Month || int(d) != in.Day {
			t.Errorf("round trip %v = %d-%02d-%v", in, y, m, d)
		}
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		in   Instant
		days int
		want [3]int
	}{
		{"year boundary", Instant{Year: 2023, Month: 12, Day: 31}, 1, [3]int{2024, 1, 1}},
		{"leap February", Instant{Year: 2024, Month: 2, Day: 28}, 1, [3]int{2024, 2, 29}},
		{"backward across month", Instant{Year: 2024, Month: 3, Day: 1}, -1, [3]int{2024, 2, 29}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.AddDays(tt.days)
			if got.Year != tt.want[0] || got.Month != tt.want[1] || got.Day != tt.want[2] {
				t.Errorf("AddDays(%d) = %d-%02d-%02d, want %d-%02d-%02d",
					tt.days, got.Year, got.Month, got.Day,
					tt.want[0], tt.want[1], tt.want[2])
			}
		})
	}
}

func TestAddSeconds(t *testing.T) {
	in := Instant{Year: 2024, Month: 12, Day: 31, Hour: 23, Minute: 59, Second: 30}
	got := in.AddSeconds(45)
	if got.Year != 2025 || got.Month != 1 || got.Day != 1 || got.Hour != 0 || got.Minute != 0 {
		t.Errorf("AddSeconds rolled to %d-%02d-%02d %02d:%02d", got.Year, got.Month, got.Day, got.Hour, got.Minute)
	}
	if math.Abs(got.Second-15) > 1e-6 {
		t.Errorf("Second = %v, want 15", got.Second)
	}
}
