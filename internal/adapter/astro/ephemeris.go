package astro

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/soniakeys/meeus/v3/julian"
	"github.com/soniakeys/meeus/v3/moonposition"
	"github.com/soniakeys/meeus/v3/nutation"
)

// ErrBadLongitude is returned if the series evaluation produces a non-finite value.
var ErrBadLongitude = errors.New("non-finite lunar longitude")

// MoonEphemeris implements domain.EphemerisProvider with the ELP-2000/82
// truncation from Meeus, chapter 47. The result is the geocentric apparent
// longitude referred to the true equinox of date.
type MoonEphemeris struct{}

// NewMoonEphemeris returns the analytic lunar ephemeris.
func NewMoonEphemeris() MoonEphemeris { return MoonEphemeris{} }

// MoonLongitude returns the Moon's apparent ecliptic longitude in degrees.
func (MoonEphemeris) MoonLongitude(ctx context.Context, t time.Time) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	jde := julianEphemerisDay(t)

	lon, _, _ := moonposition.Position(jde)
	dpsi, _ := nutation.Nutation(jde)

	deg := lon.Deg() + dpsi.Deg()
	if math.IsNaN(deg) || math.IsInf(deg, 0) {
		return 0, ErrBadLongitude
	}
	return domain.NormalizeDegrees(deg), nil
}

// julianEphemerisDay converts a UT instant to the dynamical-time Julian day
// the series are expressed in.
func julianEphemerisDay(t time.Time) float64 {
	jd := julian.TimeToJD(t.UTC())
	return jd + deltaT(t)/86400
}
