package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/couchcryptid/lunar-mansion-service/internal/adapter/astro"
	"github.com/couchcryptid/lunar-mansion-service/internal/config"
	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/couchcryptid/lunar-mansion-service/internal/observability"
	"github.com/couchcryptid/lunar-mansion-service/internal/report"
	"github.com/couchcryptid/lunar-mansion-service/internal/resolver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

type options struct {
	month  string
	fixed  bool
	today  bool
	format string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "xiu [YYYY-MM-DD ...]",
		Short: "Resolve the lunar mansion at Tokyo sunrise",
		Long: `Resolve the lunar mansion (宿) for each date from the Moon's apparent
ecliptic longitude at sunrise in Tokyo, calibrated per month against the
reference fact table.

Exactly one of the following selects the dates:
  positional dates  one row per date
  --month YYYY-MM   one row per day of the month
  --test-fixed      one row per calibration fact
  --today           today's date in JST`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && opts.month == "" && !opts.fixed && !opts.today {
				return cmd.Help()
			}
			return run(cmd.Context(), opts, args, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	})

	f := cmd.Flags()
	f.StringVar(&opts.month, "month", "", "resolve every day of `YYYY-MM`")
	f.BoolVar(&opts.fixed, "test-fixed", false, "resolve every calibration fact and check it")
	f.BoolVar(&opts.today, "today", false, "resolve today's date in JST")
	f.StringVar(&opts.format, "format", "csv", "output format: csv or json")

	return cmd
}

func run(ctx context.Context, opts options, args []string, stdout, stderr io.Writer) error {
	if err := exclusive(opts, args); err != nil {
		return err
	}
	format, err := report.ParseFormat(opts.format)
	if err != nil {
		return err
	}

	// Parse everything before touching the providers.
	dates := make([]domain.Date, 0, len(args))
	for _, a := range args {
		d, err := domain.ParseDate(a)
		if err != nil {
			return err
		}
		dates = append(dates, d)
	}
	var month domain.MonthKey
	if opts.month != "" {
		if month, err = domain.ParseMonth(opts.month); err != nil {
			return err
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := observability.NewLoggerTo(stderr, cfg)
	metrics := observability.NewMetricsWith(prometheus.NewRegistry())

	sun := astro.NewCachedSunrise(astro.NewSunriseCalculator(domain.Tokyo), cfg.ProviderCacheSize, metrics)
	eph := astro.NewCachedEphemeris(astro.NewMoonEphemeris(), cfg.ProviderCacheSize, metrics)
	res := resolver.New(sun, eph, logger, metrics, resolver.WithMonthWorkers(cfg.MonthWorkers))

	var rows []domain.XiuResult
	switch {
	case opts.fixed:
		rows, err = res.ResolveFixed(ctx)
	case opts.month != "":
		rows, err = res.ResolveMonth(ctx, month)
	case opts.today:
		var r domain.XiuResult
		if r, err = res.Today(ctx); err == nil {
			rows = []domain.XiuResult{r}
		}
	default:
		rows = make([]domain.XiuResult, 0, len(dates))
		for _, d := range dates {
			r, rerr := res.Resolve(ctx, d)
			if rerr != nil {
				err = rerr
				break
			}
			rows = append(rows, r)
		}
	}
	if err != nil {
		return err
	}
	return report.Write(stdout, format, rows)
}

func exclusive(opts options, args []string) error {
	n := 0
	if len(args) > 0 {
		n++
	}
	if opts.month != "" {
		n++
	}
	if opts.fixed {
		n++
	}
	if opts.today {
		n++
	}
	if n > 1 {
		return fmt.Errorf("%w: dates, --month, --test-fixed and --today are mutually exclusive", domain.ErrInvalidInput)
	}
	return nil
}

// exitCode maps malformed input to 2 and everything else to 1.
func exitCode(err error) int {
	if errors.Is(err, domain.ErrInvalidInput) {
		return 2
	}
	return 1
}
