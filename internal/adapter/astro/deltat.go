package astro

import (
	"time"

	"github.com/soniakeys/meeus/v3/deltat"
	"github.com/soniakeys/meeus/v3/julian"
)

// decimalYear places t mid-month, the convention the ΔT polynomials are
// fitted against.
func decimalYear(t time.Time) float64 {
	t = t.UTC()
	return float64(t.Year()) + (float64(t.Month())-0.5)/12
}

// deltaT returns TT − UT in seconds at t. Between 1620 and 2000 it
// interpolates Meeus table 10.A; outside that span it falls back to the
// chapter 10 polynomials. Interp10A panics off its table, so the year bounds
// must stay inside it.
func deltaT(t time.Time) float64 {
	y := decimalYear(t)
	switch {
	case y < 948:
		return deltat.PolyBefore948(y).Sec()
	case y < 1620:
		return deltat.Poly948to1600(y).Sec()
	case y < 2000:
		return deltat.Interp10A(julian.TimeToJD(t.UTC())).Sec()
	default:
		return deltat.PolyAfter2000(y).Sec()
	}
}
