package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// requestBody is the JSON shape of a request on the source topic.
type requestBody struct {
	Date  string `json:"date"`
	Month string `json:"month"`
}

// ParseRequest deserializes a RawEvent's value into a ResolveRequest. The
// value is a JSON object carrying either "date" (YYYY-MM-DD) or "month"
// (YYYY-MM). All failures wrap ErrInvalidInput.
func ParseRequest(raw RawEvent) (ResolveRequest, error) {
	var body requestBody
	if err := json.Unmarshal(raw.Value, &body); err != nil {
		return ResolveRequest{}, fmt.Errorf("%w: parse request: %v", ErrInvalidInput, err)
	}

	date := strings.TrimSpace(body.Date)
	month := strings.TrimSpace(body.Month)

	switch {
	case date != "" && month != "":
		return ResolveRequest{}, fmt.Errorf("%w: request sets both date and month", ErrInvalidInput)
	case date != "":
		d, err := ParseDate(date)
		if err != nil {
			return ResolveRequest{}, err
		}
		return ResolveRequest{Date: &d}, nil
	case month != "":
		k, err := ParseMonth(month)
		if err != nil {
			return ResolveRequest{}, err
		}
		return ResolveRequest{Month: &k}, nil
	default:
		return ResolveRequest{}, fmt.Errorf("%w: request needs a date or a month", ErrInvalidInput)
	}
}
