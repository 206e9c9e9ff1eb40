package domain

import (
	"fmt"
	"strings"
	"time"
)

// CheckOK marks a result that agrees with its calibration fact, or a date
// that has no fact.
const CheckOK = "OK"

// Notes attached to results.
const (
	NoteCalibrationDate     = "calibration date"
	NoteCalibrationFallback = "calibration fallback"
)

// XiuResult is the resolved mansion for one date.
type XiuResult struct {
	Date              Date      `json:"date"`
	Sunrise           time.Time `json:"sunrise"`
	ObservedAt        time.Time `json:"observed_at"` // sunrise + time offset
	HoursOffset       float64   `json:"delta_hours"`
	DegreesOffset     float64   `json:"phi_deg"`
	RawLongitude      float64   `json:"moon_lon_raw_deg"`
	AdjustedLongitude float64   `json:"moon_lon_used_deg"`
	X28               Mansion   `json:"x28"`
	X27               Mansion   `json:"x27"`
	Check             string    `json:"fixed_check"`
	Note              string    `json:"note,omitempty"`

	CalibrationDate     bool `json:"calibration_date"`
	CalibrationFallback bool `json:"calibration_fallback"`
}

// Consistent reports whether the result agrees with its calibration fact.
func (r XiuResult) Consistent() bool {
	return r.Check == CheckOK
}

// NewXiuResult classifies a raw longitude under the month's calibration and
// checks it against the fact pinned to the date, if any.
func NewXiuResult(date Date, sunrise time.Time, cal Calibration, rawLongitude float64, facts *FactTable) XiuResult {
	adjusted := NormalizeDegrees(rawLongitude + cal.Degrees)
	x28 := Classify28(adjusted)

	r := XiuResult{
		Date:                date,
		Sunrise:             sunrise,
		ObservedAt:          sunrise.Add(cal.Offset()),
		HoursOffset:         cal.Hours,
		DegreesOffset:       cal.Degrees,
		RawLongitude:        rawLongitude,
		AdjustedLongitude:   adjusted,
		X28:                 x28,
		X27:                 Reduce27(x28),
		Check:               CheckOK,
		CalibrationFallback: cal.Fallback(),
	}

	var notes []string
	if want, ok := facts.ForDate(date); ok {
		r.CalibrationDate = true
		notes = append(notes, NoteCalibrationDate)
		if want != x28 {
			r.Check = fmt.Sprintf("mismatch: expected %s", want)
		}
	}
	if r.CalibrationFallback {
		notes = append(notes, NoteCalibrationFallback)
	}
	r.Note = strings.Join(notes, "; ")
	return r
}
