package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/couchcryptid/lunar-mansion-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapMessageToRawEvent(t *testing.T) {
	now := time.Now()
	msg := kafkago.Message{
		Key:       []byte("key-1"),
		Value:     []byte(`{"date":"1961-09-12"}`),
		Topic:     "xiu-requests",
		Partition: 2,
		Offset:    42,
		Time:      now,
		Headers: []kafkago.Header{
			{Key: "source", Value: []byte("almanac")},
		},
	}

	raw := mapMessageToRawEvent(msg)

	assert.Equal(t, []byte("key-1"), raw.Key)
	assert.JSONEq(t, `{"date":"1961-09-12"}`, string(raw.Value))
	assert.Equal(t, "xiu-requests", raw.Topic)
	assert.Equal(t, 2, raw.Partition)
	assert.Equal(t, int64(42), raw.Offset)
	assert.Equal(t, now, raw.Timestamp)
	assert.Equal(t, "almanac", raw.Headers["source"])
	assert.Nil(t, raw.Commit)
}

func TestSerializeToMessage(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	event := domain.ResultEvent{
		XiuResult: domain.XiuResult{
			Date:  domain.Date{Year: 1961, Month: time.September, Day: 12},
			X28:   "牛",
			X27:   "女",
			Check: domain.CheckOK,
		},
		ResolvedAt: now,
	}

	msg, err := serializeToMessage(event)
	require.NoError(t, err)

	assert.Equal(t, []byte("1961-09-12"), msg.Key)
	require.Len(t, msg.Headers, 4)
	assert.Equal(t, "x28", msg.Headers[0].Key)
	assert.Equal(t, []byte("牛"), msg.Headers[0].Value)
	assert.Equal(t, "x27", msg.Headers[1].Key)
	assert.Equal(t, []byte("女"), msg.Headers[1].Value)
	assert.Equal(t, "fixed_check", msg.Headers[2].Key)
	assert.Equal(t, []byte("OK"), msg.Headers[2].Value)
	assert.Equal(t, "resolved_at", msg.Headers[3].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[3].Value)

	var body map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &body))
	assert.Equal(t, "1961-09-12", body["date"])
	assert.Equal(t, "牛", body["x28"])
	assert.Equal(t, "2026-03-01T12:00:00Z", body["resolved_at"])
}
