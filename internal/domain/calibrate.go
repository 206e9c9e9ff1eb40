package domain

import (
	"context"
	"time"
)

// Candidate grids. Offsets are step index times unit, scanned in ascending
// index order.
const (
	TimeStep      = 5 * time.Minute
	TimeStepsEach = 72 // ±6h

	AngleStepsPerDegree = 10 // 0.1° steps
	AngleStepsEach      = 1800
)

// Calibration is the fitted offset pair for one month.
type Calibration struct {
	Month         MonthKey `json:"month"`
	Hours         float64  `json:"hours"`
	HoursStep     int      `json:"hours_step"`
	Degrees       float64  `json:"degrees"`
	FactCount     int      `json:"fact_count"`
	TimeFallback  bool     `json:"time_fallback,omitempty"`
	AngleFallback bool     `json:"angle_fallback,omitempty"`
}

// Fallback reports whether the month's facts are left unsatisfied. The angle
// stage runs on top of the time result, so its outcome alone decides; a time
// stage that exhausted its grid is only a diagnostic.
func (c Calibration) Fallback() bool {
	return c.AngleFallback
}

// Offset returns the time offset as an exact duration.
func (c Calibration) Offset() time.Duration {
	return TimeCandidate(c.HoursStep)
}

// TimeCalibration is the result of the time-offset scan.
type TimeCalibration struct {
	Step     int // index into the candidate grid, 0 when no facts or fallback
	Hours    float64
	Fallback bool
}

// Offset returns the time offset as a duration.
func (t TimeCalibration) Offset() time.Duration {
	return TimeCandidate(t.Step)
}

// AngleCalibration is the result of the angle-offset scan.
type AngleCalibration struct {
	Step     int
	Degrees  float64
	Fallback bool
}

// TimeCandidate returns the offset for a step index.
func TimeCandidate(step int) time.Duration {
	return time.Duration(step) * TimeStep
}

// AngleCandidate returns the angle in degrees for a step index.
func AngleCandidate(step int) float64 {
	return float64(step) / AngleStepsPerDegree
}

// CalibrateTime finds the first time offset, scanning from -6h to +6h, at
// which every fact classifies to its expected mansion. With no facts it
// returns zero. If no candidate works it returns zero with Fallback set.
func CalibrateTime(ctx context.Context, facts []CalibrationFact, sunrise SunriseProvider, ephemeris EphemerisProvider) (TimeCalibration, error) {
	if len(facts) == 0 {
		return TimeCalibration{}, nil
	}

	for step := -TimeStepsEach; step <= TimeStepsEach; step++ {
		if err := ctx.Err(); err != nil {
			return TimeCalibration{}, err
		}
		ok, err := allMatchAt(ctx, facts, TimeCandidate(step), sunrise, ephemeris)
		if err != nil {
			return TimeCalibration{}, err
		}
		if ok {
			return TimeCalibration{
				Step:  step,
				Hours: TimeCandidate(step).Hours(),
			}, nil
		}
	}
	return TimeCalibration{Fallback: true}, nil
}

func allMatchAt(ctx context.Context, facts []CalibrationFact, offset time.Duration, sunrise SunriseProvider, ephemeris EphemerisProvider) (bool, error) {
	for _, f := range facts {
		_, lon, err := LongitudeAt(ctx, f.Date, offset, sunrise, ephemeris)
		if err != nil {
			return false, err
		}
		if Classify28(lon) != f.Expected {
			return false, nil
		}
	}
	return true, nil
}

// CalibrateAngle finds the first angle, scanning from -180° to +180°, that
// makes every fact classify correctly once added to the longitude observed at
// sunrise shifted by the already fitted time offset. Zero facts and exhausted
// scans behave as in CalibrateTime.
func CalibrateAngle(ctx context.Context, facts []CalibrationFact, offset time.Duration, sunrise SunriseProvider, ephemeris EphemerisProvider) (AngleCalibration, error) {
	if len(facts) == 0 {
		return AngleCalibration{}, nil
	}

	// The time offset is fixed, so each fact's raw longitude is read once.
	raw := make([]float64, len(facts))
	for i, f := range facts {
		_, lon, err := LongitudeAt(ctx, f.Date, offset, sunrise, ephemeris)
		if err != nil {
			return AngleCalibration{}, err
		}
		raw[i] = lon
	}

	for step := -AngleStepsEach; step <= AngleStepsEach; step++ {
		phi := AngleCandidate(step)
		ok := true
		for i, f := range facts {
			if Classify28(NormalizeDegrees(raw[i]+phi)) != f.Expected {
				ok = false
				break
			}
		}
		if ok {
			return AngleCalibration{Step: step, Degrees: phi}, nil
		}
	}
	return AngleCalibration{Fallback: true}, nil
}

// Calibrate runs both stages for a month: time first, then angle conditioned
// on the chosen time offset.
func Calibrate(ctx context.Context, key MonthKey, facts *FactTable, sunrise SunriseProvider, ephemeris EphemerisProvider) (Calibration, error) {
	monthFacts := facts.ForMonth(key)
	cal := Calibration{Month: key, FactCount: len(monthFacts)}
	if len(monthFacts) == 0 {
		return cal, nil
	}

	tc, err := CalibrateTime(ctx, monthFacts, sunrise, ephemeris)
	if err != nil {
		return Calibration{}, err
	}
	ac, err := CalibrateAngle(ctx, monthFacts, tc.Offset(), sunrise, ephemeris)
	if err != nil {
		return Calibration{}, err
	}

	cal.Hours = tc.Hours
	cal.HoursStep = tc.Step
	cal.TimeFallback = tc.Fallback
	cal.Degrees = ac.Degrees
	cal.AngleFallback = ac.Fallback
	return cal, nil
}
