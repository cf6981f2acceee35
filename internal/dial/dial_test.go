package dial

import (
	"errors"
	"math"
	"testing"
	"time"
)

// losAngeles is a five-meter dial at latitude 34, clock offset UTC-7.
func losAngeles(t *testing.T) *Dial {
	t.Helper()
	d, err := New(Config{
		Latitude:    34,
		Longitude:   -118,
		WidthMeters: 5,
		Timezone:    -7,
		Years:       []int{2022, 2023, 2024},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

// southernFolded mirrors the site across the equator and folds the
// longitude correction into the hour marks.
func southernFolded(t *testing.T) *Dial {
	t.Helper()
	d, err := New(Config{
		Latitude:            -34,
		Longitude:           118,
		WidthMeters:         5,
		Timezone:            7,
		CorrectForLongitude: true,
		Years:               []int{2022, 2023, 2024},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return d
}

func TestGeometry(t *testing.T) {
	d := losAngeles(t)

	if got := d.Width(); got != 5 {
		t.Errorf("Width() = %v, want 5", got)
	}
	if got := d.Height(); math.Abs(got-2.796) > 0.001 {
		t.Errorf("Height() = %.4f, want 2.796", got)
	}
	a, b := d.SemiAxes()
	if a != 2.5 {
		t.Errorf("semi-major = %v, want 2.5", a)
	}
	if math.Abs(b-2.5*math.Sin(34*math.Pi/180)) > 1e-12 {
		t.Errorf("semi-minor = %v inconsistent with the latitude", b)
	}
	west, east := d.Foci()
	wantC := math.Sqrt(a*a - b*b)
	if math.Abs(east-wantC) > 1e-12 || west != -east {
		t.Errorf("Foci() = %v, %v, want ±%.4f", west, east, wantC)
	}
	if got := d.LongitudeCorrection(); math.Abs(got-(-52)) > 1e-12 {
		t.Errorf("LongitudeCorrection() = %v, want -52", got)
	}
}

func TestHourPoints(t *testing.T) {
	d := losAngeles(t)
	points := d.HourPoints()

	tests := []struct {
		hour    int
		bearing float64
		x, y    float64
	}{
		{1, -154.398, -0.646, -1.349},
		{6, -90, -2.5, 0},
		{9, -60.786, -1.768, 0.989},
		{12, 0, 0, 1.398},
		{13, 25.602, 0.646, 1.349},
		{18, 90, 2.5, 0},
		{22, 134.085, 1.249, -1.209},
	}
	for _, tt := range tests {
		p := points[tt.hour]
		if p.Hour != tt.hour {
			t.Errorf("hour %d: Hour field = %d", tt.hour, p.Hour)
		}
		if math.Abs(p.Bearing-tt.bearing) > 0.001 {
			t.Errorf("hour %d: bearing = %.3f, want %.3f", tt.hour, p.Bearing, tt.bearing)
		}
		if math.Abs(p.X-tt.x) > 0.001 || math.Abs(p.Y-tt.y) > 0.001 {
			t.Errorf("hour %d: point (%.3f, %.3f), want (%.3f, %.3f)",
				tt.hour, p.X, p.Y, tt.x, tt.y)
		}
	}

	// Every mark sits on the ellipse, and morning mirrors evening.
	a, b := d.SemiAxes()
	for h, p := range points {
		r := p.X*p.X/(a*a) + p.Y*p.Y/(b*b)
		if math.Abs(r-1) > 1e-9 {
			t.Errorf("hour %d: off the ellipse, x²/a²+y²/b² = %.12f", h, r)
		}
		m := points[(24-h)%24]
		if math.Abs(p.X+m.X) > 1e-9 || math.Abs(p.Y-m.Y) > 1e-9 {
			t.Errorf("hour %d: not mirrored by hour %d", h, (24-h)%24)
		}
	}
}

func TestHourPointsSouthernFolded(t *testing.T) {
	d := southernFolded(t)
	points := d.HourPoints()

	if got := d.LongitudeCorrection(); math.Abs(got-52) > 1e-12 {
		t.Fatalf("LongitudeCorrection() = %v, want 52", got)
	}

	tests := []struct {
		hour    int
		bearing float64
		x, y    float64
	}{
		{0, 157.566, 0.562, -1.361},
		{5, 91.119, 2.496, -0.049},
		{12, -22.434, -0.562, 1.361},
		{17, -88.881, -2.496, 0.049},
		{23, -176.427, -0.087, -1.396},
	}
	for _, tt := range tests {
		p := points[tt.hour]
		if math.Abs(p.Bearing-tt.bearing) > 0.001 {
			t.Errorf("hour %d: bearing = %.3f, want %.3f", tt.hour, p.Bearing, tt.bearing)
		}
		if math.Abs(p.X-tt.x) > 0.001 || math.Abs(p.Y-tt.y) > 0.001 {
			t.Errorf("hour %d: point (%.3f, %.3f), want (%.3f, %.3f)",
				tt.hour, p.X, p.Y, tt.x, tt.y)
		}
	}
}

func TestGnomonOffset(t *testing.T) {
	d := losAngeles(t)
	if got := d.GnomonOffset(0); got != 0 {
		t.Errorf("GnomonOffset(0) = %v, want 0", got)
	}
	want := 2.5 * math.Cos(34*math.Pi/180) * math.Tan(23.44*math.Pi/180)
	if got := d.GnomonOffset(23.44); math.Abs(got-want) > 1e-12 {
		t.Errorf("GnomonOffset(23.44) = %v, want %v", got, want)
	}

	// South of the equator the offset flips sign.
	s := southernFolded(t)
	if got := s.GnomonOffset(23.44); math.Abs(got+want) > 1e-12 {
		t.Errorf("southern GnomonOffset(23.44) = %v, want %v", got, -want)
	}
}

func TestGnomonOffsetForDate(t *testing.T) {
	d := losAngeles(t)
	tests := []struct {
		month time.Month
		day   int
		want  float64
	}{
		{time.January, 1, -0.880},
		{time.March, 1, -0.275},
		{time.June, 21, 0.898},
		{time.September, 1, 0.301},
		{time.December, 21, -0.898},
	}
	for _, tt := range tests {
		got, err := d.GnomonOffsetForDate(tt.month, tt.day)
		if err != nil {
			t.Fatalf("%v %d: %v", tt.month, tt.day, err)
		}
		if math.Abs(got-tt.want) > 0.01 {
			t.Errorf("%v %d: offset = %.3f, want %.3f", tt.month, tt.day, got, tt.want)
		}
	}

	// The mirrored site flips the calendar: midsummer north is midwinter south.
	s := southernFolded(t)
	got, err := s.GnomonOffsetForDate(time.June, 21)
	if err != nil {
		t.Fatalf("southern Jun 21: %v", err)
	}
	if math.Abs(got-(-0.898)) > 0.01 {
		t.Errorf("southern Jun 21 offset = %.3f, want -0.898", got)
	}
}

func TestGnomonMarks(t *testing.T) {
	d := losAngeles(t)
	marks, err := d.GnomonMarks()
	if err != nil {
		t.Fatalf("GnomonMarks() error = %v", err)
	}
	if len(marks) != 14 {
		t.Fatalf("len(marks) = %d, want 14 (12 month starts + 2 solstices)", len(marks))
	}
	if marks[0].Label() != "Jan 1" {
		t.Errorf("first mark = %q, want Jan 1", marks[0].Label())
	}
	var jun21 *GnomonMark
	for i := range marks {
		if marks[i].Month == time.June && marks[i].Day == 21 {
			jun21 = &marks[i]
		}
	}
	if jun21 == nil {
		t.Fatal("no Jun 21 mark")
	}
	// The solstice is the northern extreme of the gnomon travel.
	for _, m := range marks {
		if m.Offset > jun21.Offset+1e-9 {
			t.Errorf("%s offset %.3f exceeds the Jun 21 extreme %.3f",
				m.Label(), m.Offset, jun21.Offset)
		}
	}
}

func TestGnomonPath(t *testing.T) {
	d := losAngeles(t)
	path, err := d.GnomonPath(2024)
	if err != nil {
		t.Fatalf("GnomonPath() error = %v", err)
	}
	if len(path) != 366 {
		t.Fatalf("len(path) = %d, want 366 for a leap year", len(path))
	}
	if path[0].Month != time.January || path[0].Day != 1 {
		t.Errorf("path starts at %s", path[0].Label())
	}
	min, max := path[0].Offset, path[0].Offset
	for _, m := range path {
		min = math.Min(min, m.Offset)
		max = math.Max(max, m.Offset)
	}
	if math.Abs(max-0.898) > 0.01 || math.Abs(min+0.898) > 0.01 {
		t.Errorf("gnomon travel [%.3f, %.3f], want about ±0.898", min, max)
	}
}

func TestNewRejectsDegenerateSites(t *testing.T) {
	tests := []struct {
		name string
		lat  float64
	}{
		{"equator", 0},
		{"near equator", 0.05},
		{"north pole", 90},
		{"south pole", -90},
		{"near pole", 89.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Config{Latitude: tt.lat, WidthMeters: 5})
			if !errors.Is(err, ErrDegenerateGeometry) {
				t.Errorf("New(lat=%g) error = %v, want ErrDegenerateGeometry", tt.lat, err)
			}
		})
	}
	if _, err := New(Config{Latitude: 34, WidthMeters: 0}); err == nil {
		t.Error("want error for zero width")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig(34, -118)
	if cfg.WidthMeters != 5 {
		t.Errorf("WidthMeters = %v, want 5", cfg.WidthMeters)
	}
	if len(cfg.Years) != 1 || cfg.Years[0] != time.Now().Year() {
		t.Errorf("Years = %v, want the current year", cfg.Years)
	}
}

// GnomonPath uses its own year set; date queries running alongside it
// must keep seeing the configured years.
func TestGnomonPathConcurrentWithDateQueries(t *testing.T) {
	d := losAngeles(t)
	baseline, err := d.GnomonOffsetForDate(time.June, 21)
	if err != nil {
		t.Fatalf("GnomonOffsetForDate() error = %v", err)
	}

	done := make(chan error, 1)
	go func() {
		_, err := d.GnomonPath(1800)
		done <- err
	}()

	for i := 0; i < 50; i++ {
		off, err := d.GnomonOffsetForDate(time.June, 21)
		if err != nil {
			t.Fatalf("GnomonOffsetForDate() error = %v", err)
		}
		if math.Abs(off-baseline) > 1e-12 {
			t.Fatalf("GnomonOffsetForDate(June 21) = %v during GnomonPath, want %v", off, baseline)
		}
	}
	if err := <-done; err != nil {
		t.Fatalf("GnomonPath() error = %v", err)
	}
}
