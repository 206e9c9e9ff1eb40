// Package resolver turns dates into mansion results, owning the per-month
// calibration cache that the classification depends on.
package resolver

import (
	"context"
	"log/slog"
	"time"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/couchcryptid/lunar-mansion-service/internal/observability"
	"golang.org/x/sync/errgroup"
)

// Resolution modes, used as the metrics label.
const (
	ModeDate     = "date"
	ModeMonth    = "month"
	ModeFixed    = "fixed"
	ModePipeline = "pipeline"
)

const defaultMonthWorkers = 4

// Option configures a Resolver.
type Option func(*Resolver)

// WithFacts replaces the reference fact table.
func WithFacts(facts *domain.FactTable) Option {
	return func(r *Resolver) { r.facts = facts }
}

// WithMonthWorkers bounds how many days of a month resolve concurrently.
func WithMonthWorkers(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.workers = n
		}
	}
}

// WithZone sets the zone used to decide what "today" is.
func WithZone(zone *time.Location) Option {
	return func(r *Resolver) { r.zone = zone }
}

// Resolver resolves dates against the sunrise and ephemeris providers.
type Resolver struct {
	sunrise   domain.SunriseProvider
	ephemeris domain.EphemerisProvider
	facts     *domain.FactTable
	cache     *CalibrationCache
	workers   int
	zone      *time.Location
	logger    *slog.Logger
	metrics   *observability.Metrics
}

// New creates a Resolver using the reference facts unless overridden.
func New(sunrise domain.SunriseProvider, ephemeris domain.EphemerisProvider, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Resolver {
	r := &Resolver{
		sunrise:   sunrise,
		ephemeris: ephemeris,
		facts:     domain.ReferenceFacts,
		workers:   defaultMonthWorkers,
		zone:      domain.Tokyo.Zone(),
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(r)
	}
	r.cache = NewCalibrationCache(r.calibrate)
	return r
}

// Facts returns the fact table the resolver calibrates against.
func (r *Resolver) Facts() *domain.FactTable { return r.facts }

// Calibration returns the month's memoized calibration.
func (r *Resolver) Calibration(ctx context.Context, key domain.MonthKey) (domain.Calibration, error) {
	cal, hit, err := r.cache.Get(ctx, key)
	if hit {
		r.metrics.CalibrationCache.WithLabelValues("hit").Inc()
	} else {
		r.metrics.CalibrationCache.WithLabelValues("miss").Inc()
	}
	return cal, err
}

func (r *Resolver) calibrate(ctx context.Context, key domain.MonthKey) (domain.Calibration, error) {
	start := time.Now()
	cal, err := domain.Calibrate(ctx, key, r.facts, r.sunrise, r.ephemeris)
	if err != nil {
		r.logger.Error("calibration failed", "month", key, "error", err)
		return cal, err
	}

	r.metrics.CalibrationRuns.Inc()
	r.metrics.CalibrationDuration.Observe(time.Since(start).Seconds())

	switch {
	case cal.Fallback():
		r.metrics.CalibrationFallbacks.Inc()
		r.logger.Warn("calibration facts unsatisfiable, using zero offset",
			"month", key,
			"facts", cal.FactCount,
			"time_fallback", cal.TimeFallback,
		)
	case cal.FactCount > 0:
		r.logger.Info("month calibrated",
			"month", key,
			"facts", cal.FactCount,
			"delta_hours", cal.Hours,
			"phi_deg", cal.Degrees,
			"time_fallback", cal.TimeFallback,
		)
	}
	return cal, nil
}

// Resolve computes the mansion for a single date.
func (r *Resolver) Resolve(ctx context.Context, date domain.Date) (domain.XiuResult, error) {
	return r.resolve(ctx, date, ModeDate)
}

// ResolveAs is Resolve with an explicit metrics mode.
func (r *Resolver) ResolveAs(ctx context.Context, date domain.Date, mode string) (domain.XiuResult, error) {
	return r.resolve(ctx, date, mode)
}

// Today resolves the current civil date in the resolver's zone.
func (r *Resolver) Today(ctx context.Context) (domain.XiuResult, error) {
	return r.resolve(ctx, domain.Today(r.zone), ModeDate)
}

func (r *Resolver) resolve(ctx context.Context, date domain.Date, mode string) (domain.XiuResult, error) {
	cal, err := r.Calibration(ctx, date.Key())
	if err != nil {
		return domain.XiuResult{}, err
	}

	offset := cal.Offset()
	at, lon, err := domain.LongitudeAt(ctx, date, offset, r.sunrise, r.ephemeris)
	if err != nil {
		return domain.XiuResult{}, err
	}

	res := domain.NewXiuResult(date, at.Add(-offset), cal, lon, r.facts)
	r.metrics.ResultsResolved.WithLabelValues(mode).Inc()
	if !res.Consistent() {
		r.metrics.FactMismatches.Inc()
		r.logger.Warn("calibration date disagrees with its fact", "date", date, "check", res.Check)
	}
	return res, nil
}

// ResolveMonth resolves every day of the month, in day order.
func (r *Resolver) ResolveMonth(ctx context.Context, key domain.MonthKey) ([]domain.XiuResult, error) {
	return r.resolveMonth(ctx, key, ModeMonth)
}

// ResolveMonthAs is ResolveMonth with an explicit metrics mode.
func (r *Resolver) ResolveMonthAs(ctx context.Context, key domain.MonthKey, mode string) ([]domain.XiuResult, error) {
	return r.resolveMonth(ctx, key, mode)
}

func (r *Resolver) resolveMonth(ctx context.Context, key domain.MonthKey, mode string) ([]domain.XiuResult, error) {
	// Calibrate up front so the workers all hit the cache.
	if _, err := r.Calibration(ctx, key); err != nil {
		return nil, err
	}

	dates := key.Dates()
	results := make([]domain.XiuResult, len(dates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, d := range dates {
		g.Go(func() error {
			res, err := r.resolve(gctx, d, mode)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// ResolveFixed resolves every calibration fact date, in date order. It is the
// self-check that the calibrations reproduce their facts.
func (r *Resolver) ResolveFixed(ctx context.Context) ([]domain.XiuResult, error) {
	facts := r.facts.All()
	results := make([]domain.XiuResult, 0, len(facts))
	for _, f := range facts {
		res, err := r.resolve(ctx, f.Date, ModeFixed)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// CheckReadiness resolves the earliest fact date, proving both providers and
// the calibration path work.
func (r *Resolver) CheckReadiness(ctx context.Context) error {
	day := domain.Date{Year: 2000, Month: time.January, Day: 15}
	if all := r.facts.All(); len(all) > 0 {
		day = all[0].Date
	}
	_, err := r.resolve(ctx, day, ModeDate)
	return err
}
