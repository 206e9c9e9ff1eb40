package domain

import (
	"context"
	"time"
)

// RawEvent represents an unprocessed message from the source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// ResolveRequest asks for a single date or for every day of a month. Exactly
// one of the two is set.
type ResolveRequest struct {
	Date  *Date
	Month *MonthKey
}

func (r ResolveRequest) String() string {
	switch {
	case r.Date != nil:
		return r.Date.String()
	case r.Month != nil:
		return r.Month.String()
	default:
		return "<empty>"
	}
}

// ResultEvent is one resolved row destined for the sink topic.
type ResultEvent struct {
	XiuResult
	ResolvedAt time.Time `json:"resolved_at"`
}

// NewResultEvent stamps a result with the package clock.
func NewResultEvent(r XiuResult) ResultEvent {
	return ResultEvent{XiuResult: r, ResolvedAt: clock.Now().UTC()}
}
