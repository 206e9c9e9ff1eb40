package astro

import (
	"context"
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // Asia/Tokyo must resolve on hosts without zoneinfo.

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/nathan-osman/go-sunrise"
)

// ErrNoSunrise is returned when the sun does not rise on a date at the
// configured latitude.
var ErrNoSunrise = errors.New("sun does not rise on this date")

// SunriseCalculator implements domain.SunriseProvider with the NOAA sunrise
// equation for a fixed location.
type SunriseCalculator struct {
	loc  domain.Location
	zone *time.Location
}

// NewSunriseCalculator creates a calculator for loc. The location's zone is
// loaded once.
func NewSunriseCalculator(loc domain.Location) *SunriseCalculator {
	return &SunriseCalculator{loc: loc, zone: loc.Zone()}
}

// Zone returns the time zone results are expressed in.
func (c *SunriseCalculator) Zone() *time.Location { return c.zone }

// Sunrise returns local sunrise on date.
func (c *SunriseCalculator) Sunrise(ctx context.Context, date domain.Date) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	rise, _ := sunrise.SunriseSunset(c.loc.Latitude, c.loc.Longitude, date.Year, date.Month, date.Day)
	if rise.IsZero() {
		return time.Time{}, fmt.Errorf("%s at %.4f,%.4f: %w", date, c.loc.Latitude, c.loc.Longitude, ErrNoSunrise)
	}
	return rise.In(c.zone), nil
}
