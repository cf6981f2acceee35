// Command ls-sundial designs analemmatic sundials and tracks the sun and
// moon from the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/litescript/ls-sundial/internal/bird"
	"github.com/litescript/ls-sundial/internal/dial"
	"github.com/litescript/ls-sundial/internal/ephemeris"
	"github.com/litescript/ls-sundial/internal/logging"
	"github.com/litescript/ls-sundial/internal/sampa"
	"github.com/litescript/ls-sundial/internal/solar"
	"github.com/litescript/ls-sundial/internal/solpos"
	"github.com/litescript/ls-sundial/internal/spa"
	"github.com/litescript/ls-sundial/internal/state"
	"github.com/litescript/ls-sundial/internal/timescale"
	"github.com/litescript/ls-sundial/internal/ui"
)

// CLI flags for headless mode
var (
	summaryMode  bool
	eotMode      bool
	positionMode bool
	exportPath   string
	dateArg      string
)

const (
	defaultRefresh = 15 * time.Second
	minRefresh     = time.Second
	maxRefresh     = 5 * time.Minute
)

func main() {
	lat := flag.Float64("lat", 0, "Site latitude in degrees, north positive (required)")
	lon := flag.Float64("lon", 0, "Site longitude in degrees, east positive")
	elev := flag.Float64("elev", 0, "Site elevation in meters")
	tz := flag.Float64("tz", 0, "Clock timezone as hours offset from UTC")
	width := flag.Float64("width", 5, "Dial width in meters")
	lonCorrect := flag.Bool("lon-correct", false, "Fold the longitude correction into the hour marks")
	yearsArg := flag.String("years", "", "Comma-separated years to average (default: current year)")
	engineArg := flag.String("engine", "spa", "Position engine (spa, sampa, solpos)")
	refresh := flag.Duration("refresh", defaultRefresh, "Position refresh interval (e.g., 15s, 1m)")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&summaryMode, "summary", false, "Print the dial layout and gnomon calendar, then exit")
	flag.BoolVar(&eotMode, "eot", false, "Print the correction chart, then exit")
	flag.BoolVar(&positionMode, "position", false, "Print a one-shot position report, then exit")
	flag.StringVar(&exportPath, "export", "", "Write the dial plan as JSON to the given path (- for stdout), then exit")
	flag.StringVar(&dateArg, "date", "", "Instant for -position (2006-01-02 or 2006-01-02T15:04:05, local clock time)")
	flag.Parse()

	if *refresh < minRefresh {
		*refresh = minRefresh
	} else if *refresh > maxRefresh {
		*refresh = maxRefresh
	}

	logger := logging.New(logging.ParseLevel(*logLevel))

	years, err := parseYears(*yearsArg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	obs, err := solar.NewObserver(*lat, *lon, *elev, 1013.25, 15)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	engine := solar.ParseEngine(*engineArg)

	d, err := dial.New(dial.Config{
		Latitude:            *lat,
		Longitude:           *lon,
		WidthMeters:         *width,
		Timezone:            *tz,
		CorrectForLongitude: *lonCorrect,
		Years:               years,
		Elevation:           *elev,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	if summaryMode || eotMode || positionMode || exportPath != "" {
		runHeadless(d, obs, engine, *tz, logger)
		return
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "stdout is not a terminal; use -summary, -eot, or -position")
		os.Exit(1)
	}

	stateCfg := state.DefaultConfig()
	stateCfg.RefreshInterval = *refresh
	stateMgr := state.NewManager(stateCfg)

	logger.Debug("Computing gnomon calendar and correction chart")
	marks, err := d.GnomonMarks()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	corr, err := d.Corrections()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	model := ui.New(stateMgr, d, marks, corr)
	p := tea.NewProgram(model, tea.WithAltScreen())

	go runComputeLoop(ctx, obs, engine, stateMgr, p, logger.With("compute"))

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func runComputeLoop(ctx context.Context, obs solar.Observer, engine solar.Engine,
	stateMgr *state.Manager, p *tea.Program, logger *logging.Logger) {
	compute := func() {
		start := time.Now()
		sky, err := computeSky(time.Now(), engine, obs)
		if err != nil {
			logger.Error("Frame failed: %v", err)
			stateMgr.Update(nil, time.Since(start), err)
			p.Send(ui.ErrorMsg{Error: err})
			return
		}
		logger.Debug("Frame complete: zenith %.3f in %v", sky.Sun.Zenith, time.Since(start))
		stateMgr.Update(sky, time.Since(start), nil)
		p.Send(ui.SkyUpdateMsg{Snapshot: stateMgr.Snapshot()})
	}

	compute()
	ticker := time.NewTicker(stateMgr.RefreshInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Compute loop shutting down")
			return
		case <-ticker.C:
			compute()
		}
	}
}

// computeSky runs the selected engine for one instant.
func computeSky(at time.Time, engine solar.Engine, obs solar.Observer) (*state.Sky, error) {
	in := timescale.FromTime(at.UTC(), timescale.DefaultDeltaT)
	sky := &state.Sky{Time: at, Engine: engine, LunePercent: 100}

	switch engine {
	case solar.EngineSOLPOS:
		res, err := solpos.Compute(in, obs, solpos.DefaultOptions())
		if err != nil {
			return nil, err
		}
		sky.Sun = res.Position
		sky.EquationOfTime = res.EquationOfTime
		sky.Sunrise, sky.Sunset, sky.RiseSetNote = solposRiseSet(res)
		sky.Irradiance = solar.Irradiance{
			DirectNormal:     res.ETRDirect,
			GlobalHorizontal: res.ETRGlobal,
			Airmass:          res.Airmass,
		}

	case solar.EngineSAMPA:
		res, err := sampa.Compute(in, obs, bird.DefaultAtmosphere())
		if err != nil {
			return nil, err
		}
		moon := res.Moon
		sky.Sun = res.Sun
		sky.Moon = &moon
		sky.EquationOfTime = res.SunDetail.EquationOfTime
		sky.Transit = res.SunDetail.Transit
		sky.Sunrise = res.SunDetail.Sunrise
		sky.Sunset = res.SunDetail.Sunset
		sky.RiseSetNote = res.SunDetail.Note
		sky.LunePercent = res.LunePercent
		sky.Irradiance = res.Irradiance.Modified
		if res.Eclipse != sampa.EclipseNone {
			sky.EclipseNote = res.Eclipse.String()
		}

	default:
		res, err := spa.Compute(in, obs, spa.Options{})
		if err != nil {
			return nil, err
		}
		sky.Sun = res.Position
		sky.EquationOfTime = res.EquationOfTime
		sky.Transit = res.Transit
		sky.Sunrise = res.Sunrise
		sky.Sunset = res.Sunset
		sky.RiseSetNote = res.Note
		irr, err := bird.Compute(ephemeris.SunDistance(in), res.Position.Zenith,
			obs.Pressure, bird.DefaultAtmosphere(), -1)
		if err != nil {
			return nil, err
		}
		sky.Irradiance = irr.Irradiance
	}
	return sky, nil
}

// solposRiseSet converts the minute-based rise/set outputs to fractional
// hours, mapping the all-day flags to the note used elsewhere.
func solposRiseSet(res solpos.Result) (sunrise, sunset float64, note string) {
	if res.Sunrise == solpos.NeverRises || res.Sunrise == solpos.NeverSets {
		return math.NaN(), math.NaN(),
			"sun is always above or below the horizon for that day"
	}
	return res.Sunrise / 60, res.Sunset / 60, ""
}

func runHeadless(d *dial.Dial, obs solar.Observer, engine solar.Engine, tz float64, logger *logging.Logger) {
	if summaryMode {
		if err := writeSummary(d); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if eotMode {
		if err := writeCorrections(d); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if positionMode {
		at, err := parseDate(dateArg, tz)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := writePosition(at, engine, obs); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if exportPath != "" {
		if err := writeExport(d, exportPath, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// writeExport writes the machine-readable dial plan.
func writeExport(d *dial.Dial, path string, logger *logging.Logger) error {
	plan, err := d.ExportPlan()
	if err != nil {
		return err
	}
	if path == "-" {
		return plan.WriteJSON(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := plan.WriteJSON(f); err != nil {
		return err
	}
	logger.Info("Wrote dial plan to %s", path)
	return nil
}

func writeSummary(d *dial.Dial) error {
	a, b := d.SemiAxes()
	west, east := d.Foci()
	fmt.Printf("Dial: %.3f m wide, %.3f m tall, foci at %+.3f / %+.3f m\n",
		2*a, 2*b, west, east)
	if lc := d.LongitudeCorrection(); lc != 0 {
		fmt.Printf("Longitude correction: %+.2f min\n", lc)
	}

	fmt.Printf("\n%-5s %9s %9s %9s\n", "Hour", "Bearing", "East m", "North m")
	for _, hp := range d.HourPoints() {
		fmt.Printf("%-5d %8.2f° %9.3f %9.3f\n", hp.Hour, hp.Bearing, hp.X, hp.Y)
	}

	marks, err := d.GnomonMarks()
	if err != nil {
		return err
	}
	fmt.Printf("\n%-8s %14s\n", "Date", "Gnomon north m")
	for _, mk := range marks {
		fmt.Printf("%-8s %+14.3f\n", mk.Label(), mk.Offset)
	}
	return nil
}

func writeCorrections(d *dial.Dial) error {
	corr, err := d.Corrections()
	if err != nil {
		return err
	}
	fmt.Printf("%-8s %16s\n", "Date", "Correction (min)")
	for _, v := range corr.Significant {
		fmt.Printf("%-8s %+16.2f\n",
			fmt.Sprintf("%s %d", v.Month.String()[:3], v.Day), v.Minutes)
	}
	return nil
}

func writePosition(at time.Time, engine solar.Engine, obs solar.Observer) error {
	sky, err := computeSky(at, engine, obs)
	if err != nil {
		return err
	}
	fmt.Printf("Engine:    %s\n", sky.Engine)
	fmt.Printf("Instant:   %s\n", at.Format(time.RFC3339))
	fmt.Printf("Zenith:    %.4f°\n", sky.Sun.Zenith)
	fmt.Printf("Azimuth:   %.4f°\n", sky.Sun.Azimuth)
	fmt.Printf("Elevation: %.4f°\n", sky.Sun.Elevation)
	fmt.Printf("EOT:       %+.3f min\n", sky.EquationOfTime)
	if sky.RiseSetNote != "" {
		fmt.Printf("Note:      %s\n", sky.RiseSetNote)
	} else {
		fmt.Printf("Sunrise:   %.3f h UT\n", sky.Sunrise)
		fmt.Printf("Sunset:    %.3f h UT\n", sky.Sunset)
	}
	if sky.Irradiance.DirectNormal > 0 {
		fmt.Printf("DNI:       %.1f W/m²\n", sky.Irradiance.DirectNormal)
		fmt.Printf("GHI:       %.1f W/m²\n", sky.Irradiance.GlobalHorizontal)
	}
	if sky.Moon != nil {
		fmt.Printf("Moon:      zenith %.4f°, azimuth %.4f°\n", sky.Moon.Zenith, sky.Moon.Azimuth)
		if sky.EclipseNote != "" {
			fmt.Printf("Eclipse:   %s (%.1f%% of disk visible)\n", sky.EclipseNote, sky.LunePercent)
		}
	}
	return nil
}

// parseYears parses a comma list of years, defaulting to the current one.
func parseYears(s string) ([]int, error) {
	if s == "" {
		return []int{time.Now().Year()}, nil
	}
	var years []int
	for _, part := range strings.Split(s, ",") {
		y, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid year %q", part)
		}
		years = append(years, y)
	}
	return years, nil
}

// parseDate parses the -date flag as clock time in the dial's timezone,
// defaulting to now.
func parseDate(s string, tz float64) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	loc := time.FixedZone("dial", int(tz*3600))
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}
