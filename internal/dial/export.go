package dial

import (
	"encoding/json"
	"io"
	"strconv"
	"time"
)

// Export is the JSON-serializable dial plan: everything a builder needs
// to lay out the dial on the ground.
type Export struct {
	GeneratedAt         time.Time         `json:"generated_at"`
	Latitude            float64           `json:"latitude"`
	Longitude           float64           `json:"longitude"`
	WidthMeters         float64           `json:"width_m"`
	HeightMeters        float64           `json:"height_m"`
	FociMeters          [2]float64        `json:"foci_m"`
	LongitudeCorrection float64           `json:"longitude_correction_min"`
	CorrectionFolded    bool              `json:"correction_folded_into_marks"`
	HourMarks           []HourMarkExport  `json:"hour_marks"`
	GnomonCalendar      []GnomonExport    `json:"gnomon_calendar"`
	Corrections         []EOTValueExport  `json:"corrections,omitempty"`
}

// HourMarkExport is a JSON-friendly hour mark.
type HourMarkExport struct {
	Hour    int     `json:"hour"`
	Bearing float64 `json:"bearing_deg"`
	East    float64 `json:"east_m"`
	North   float64 `json:"north_m"`
}

// GnomonExport is a JSON-friendly gnomon calendar entry.
type GnomonExport struct {
	Date   string  `json:"date"`
	Offset float64 `json:"north_offset_m"`
}

// EOTValueExport is a JSON-friendly significant correction value.
type EOTValueExport struct {
	Date    string  `json:"date"`
	Minutes float64 `json:"minutes"`
}

// ExportPlan assembles the full dial plan, computing the gnomon calendar
// and correction chart.
func (d *Dial) ExportPlan() (*Export, error) {
	marks, err := d.GnomonMarks()
	if err != nil {
		return nil, err
	}
	corr, err := d.Corrections()
	if err != nil {
		return nil, err
	}

	west, east := d.Foci()
	export := &Export{
		GeneratedAt:         time.Now().UTC(),
		Latitude:            d.cfg.Latitude,
		Longitude:           d.cfg.Longitude,
		WidthMeters:         d.Width(),
		HeightMeters:        d.Height(),
		FociMeters:          [2]float64{west, east},
		LongitudeCorrection: d.LongitudeCorrection(),
		CorrectionFolded:    d.cfg.CorrectForLongitude,
	}
	for _, hp := range d.HourPoints() {
		export.HourMarks = append(export.HourMarks, HourMarkExport{
			Hour:    hp.Hour,
			Bearing: hp.Bearing,
			East:    hp.X,
			North:   hp.Y,
		})
	}
	for _, mk := range marks {
		export.GnomonCalendar = append(export.GnomonCalendar, GnomonExport{
			Date:   mk.Label(),
			Offset: mk.Offset,
		})
	}
	for _, v := range corr.Significant {
		export.Corrections = append(export.Corrections, EOTValueExport{
			Date:    v.Month.String()[:3] + " " + strconv.Itoa(v.Day),
			Minutes: v.Minutes,
		})
	}
	return export, nil
}

// WriteJSON writes the plan as indented JSON to the given writer.
func (e *Export) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
