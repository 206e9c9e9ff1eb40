package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
)

// Resolver is the subset of the resolver the pipeline needs.
type Resolver interface {
	ResolveAs(ctx context.Context, date domain.Date, mode string) (domain.XiuResult, error)
	ResolveMonthAs(ctx context.Context, key domain.MonthKey, mode string) ([]domain.XiuResult, error)
}

// XiuTransformer implements Transformer on top of a Resolver.
type XiuTransformer struct {
	resolver Resolver
	mode     string
	logger   *slog.Logger
}

// NewTransformer creates an XiuTransformer. mode labels the results in the
// resolver's metrics.
func NewTransformer(resolver Resolver, mode string, logger *slog.Logger) *XiuTransformer {
	return &XiuTransformer{
		resolver: resolver,
		mode:     mode,
		logger:   logger,
	}
}

func (t *XiuTransformer) Transform(ctx context.Context, raw domain.RawEvent) ([]domain.ResultEvent, error) {
	req, err := domain.ParseRequest(raw)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		res, err := t.resolver.ResolveAs(ctx, *req.Date, t.mode)
		if err != nil {
			return nil, err
		}
		return []domain.ResultEvent{domain.NewResultEvent(res)}, nil
	}

	rows, err := t.resolver.ResolveMonthAs(ctx, *req.Month, t.mode)
	if err != nil {
		return nil, err
	}
	out := make([]domain.ResultEvent, len(rows))
	for i, r := range rows {
		out[i] = domain.NewResultEvent(r)
	}
	t.logger.Debug("month request resolved", "month", req.Month.String(), "rows", len(out))
	return out, nil
}
