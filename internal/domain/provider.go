package domain

import (
	"context"
	"time"
)

// Location is a fixed observing site.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	TimeZone  string // IANA zone name

	// Used when the zone database has no entry for TimeZone.
	ZoneAbbrev string
	UTCOffset  int // seconds east of UTC
}

// Zone loads the location's time zone, falling back to its fixed offset.
func (l Location) Zone() *time.Location {
	if z, err := time.LoadLocation(l.TimeZone); err == nil {
		return z
	}
	return time.FixedZone(l.ZoneAbbrev, l.UTCOffset)
}

// Tokyo is the only observing site the calendar supports.
var Tokyo = Location{
	Name:      "Tokyo",
	Latitude:  35.681236,
	Longitude: 139.767125,
	TimeZone:  "Asia/Tokyo",

	ZoneAbbrev: "JST",
	UTCOffset:  9 * 60 * 60,
}

// SunriseProvider returns local sunrise at the provider's fixed location.
type SunriseProvider interface {
	// Sunrise returns the sunrise instant for the civil date, attributed to
	// the location's time zone.
	Sunrise(ctx context.Context, date Date) (time.Time, error)
}

// EphemerisProvider returns the Moon's apparent geocentric ecliptic longitude.
type EphemerisProvider interface {
	// MoonLongitude returns degrees in [0, 360) for the instant.
	MoonLongitude(ctx context.Context, t time.Time) (float64, error)
}

// LongitudeAt reads the Moon's longitude at sunrise on date shifted by
// offset. It returns the shifted instant along with the longitude.
func LongitudeAt(ctx context.Context, date Date, offset time.Duration, sunrise SunriseProvider, ephemeris EphemerisProvider) (time.Time, float64, error) {
	rise, err := sunrise.Sunrise(ctx, date)
	if err != nil {
		return time.Time{}, 0, wrapProvider("sunrise", date.String(), err)
	}
	at := rise.Add(offset)
	lon, err := ephemeris.MoonLongitude(ctx, at)
	if err != nil {
		return time.Time{}, 0, wrapProvider("ephemeris", at.UTC().Format(time.RFC3339), err)
	}
	return at, lon, nil
}

func wrapProvider(provider, input string, err error) error {
	if IsProviderError(err) {
		return err
	}
	return &ProviderError{Provider: provider, Input: input, Err: err}
}
