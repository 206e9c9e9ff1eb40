package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	"github.com/couchcryptid/lunar-mansion-service/internal/report"
	"github.com/go-chi/chi/v5"
)

// Resolver is the subset of the resolver the API serves.
type Resolver interface {
	Resolve(ctx context.Context, date domain.Date) (domain.XiuResult, error)
	Today(ctx context.Context) (domain.XiuResult, error)
	ResolveMonth(ctx context.Context, key domain.MonthKey) ([]domain.XiuResult, error)
	ResolveFixed(ctx context.Context) ([]domain.XiuResult, error)
	Calibration(ctx context.Context, key domain.MonthKey) (domain.Calibration, error)
}

type handlers struct {
	resolver Resolver
	logger   *slog.Logger
}

func (h *handlers) today(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	res, err := h.resolver.Today(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeOne(w, format, res)
}

func (h *handlers) date(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	d, err := domain.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	res, err := h.resolver.Resolve(r.Context(), d)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeOne(w, format, res)
}

func (h *handlers) month(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	key, err := domain.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	rows, err := h.resolver.ResolveMonth(r.Context(), key)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMany(w, format, rows)
}

func (h *handlers) fixed(w http.ResponseWriter, r *http.Request) {
	format, ok := h.format(w, r)
	if !ok {
		return
	}
	rows, err := h.resolver.ResolveFixed(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeMany(w, format, rows)
}

func (h *handlers) calibration(w http.ResponseWriter, r *http.Request) {
	key, err := domain.ParseMonth(chi.URLParam(r, "month"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	cal, err := h.resolver.Calibration(r.Context(), key)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cal)
}

// format reads ?format=, defaulting to JSON for the API.
func (h *handlers) format(w http.ResponseWriter, r *http.Request) (report.Format, bool) {
	q := r.URL.Query().Get("format")
	if q == "" {
		return report.FormatJSON, true
	}
	f, err := report.ParseFormat(q)
	if err != nil {
		h.writeError(w, err)
		return "", false
	}
	return f, true
}

func (h *handlers) writeOne(w http.ResponseWriter, format report.Format, res domain.XiuResult) {
	if format == report.FormatJSON {
		writeJSON(w, http.StatusOK, res)
		return
	}
	h.writeMany(w, format, []domain.XiuResult{res})
}

func (h *handlers) writeMany(w http.ResponseWriter, format report.Format, rows []domain.XiuResult) {
	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	if err := report.Write(w, format, rows); err != nil {
		h.logger.Warn("write response failed", "error", err)
	}
}

func (h *handlers) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsProviderError(err):
		return http.StatusBadGateway
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
