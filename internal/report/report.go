// Package report renders resolved results as CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts "csv" or "json", case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (want csv or json)", domain.ErrInvalidInput, s)
	}
}

// ContentType returns the HTTP media type for the format.
func (f Format) ContentType() string {
	if f == FormatJSON {
		return "application/json"
	}
	return "text/csv; charset=utf-8"
}

// Header is the CSV column order.
var Header = []string{
	"date",
	"sunrise_jst",
	"delta_hours",
	"phi_deg",
	"moon_lon_raw_deg",
	"moon_lon_used_deg",
	"x28",
	"x27",
	"fixed_check",
	"note",
}

const timeLayout = "2006-01-02 15:04:05 MST"

// Row renders one result in Header order. The sunrise column carries the
// offset-adjusted observation instant.
func Row(r domain.XiuResult) []string {
	return []string{
		r.Date.String(),
		r.ObservedAt.Format(timeLayout),
		decimal(r.HoursOffset, 3),
		decimal(r.DegreesOffset, 3),
		decimal(r.RawLongitude, 6),
		decimal(r.AdjustedLongitude, 6),
		r.X28.String(),
		r.X27.String(),
		r.Check,
		r.Note,
	}
}

// Write encodes rows in the given format.
func Write(w io.Writer, format Format, rows []domain.XiuResult) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, rows)
	default:
		return WriteCSV(w, rows)
	}
}

// WriteCSV writes the header followed by one line per result.
func WriteCSV(w io.Writer, rows []domain.XiuResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("write csv row %s: %w", r.Date, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the results as an indented JSON array.
func WriteJSON(w io.Writer, rows []domain.XiuResult) error {
	if rows == nil {
		rows = []domain.XiuResult{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rows); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// decimal rounds to places and prints the shortest form, keeping at least
// one fractional digit.
func decimal(v float64, places int) string {
	scale := math.Pow(10, float64(places))
	rounded := math.Round(v*scale) / scale
	if rounded == 0 {
		rounded = 0 // drop negative zero
	}
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
