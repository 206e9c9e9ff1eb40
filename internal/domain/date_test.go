package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("1961-09-12")
	require.NoError(t, err)
	assert.Equal(t, Date{1961, time.September, 12}, d)
	assert.Equal(t, "1961-09-12", d.String())

	for _, bad := range []string{"", "1961-9-12", "1961-02-30", "12/09/1961", "1961-09"} {
		_, err := ParseDate(bad)
		require.Error(t, err, "input %q", bad)
		assert.True(t, errors.Is(err, ErrInvalidInput), "input %q", bad)
	}
}

func TestParseMonth(t *testing.T) {
	k, err := ParseMonth("1961-09")
	require.NoError(t, err)
	assert.Equal(t, MonthKey{1961, time.September}, k)
	assert.Equal(t, "1961-09", k.String())

	_, err = ParseMonth("1961-13")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestNewDate(t *testing.T) {
	_, err := NewDate(2001, time.February, 29)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	d, err := NewDate(2000, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, MonthKey{2000, time.February}, d.Key())
}

func TestMonthKey_DaysIn(t *testing.T) {
	tests := []struct {
		key  MonthKey
		want int
	}{
		{MonthKey{1961, time.September}, 30},
		{MonthKey{1961, time.December}, 31},
		{MonthKey{2000, time.February}, 29},
		{MonthKey{1900, time.February}, 28},
	}
	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.DaysIn())
			dates := tt.key.Dates()
			require.Len(t, dates, tt.want)
			assert.Equal(t, 1, dates[0].Day)
			assert.Equal(t, tt.want, dates[len(dates)-1].Day)
		})
	}
}

func TestDate_Before(t *testing.T) {
	a := Date{1961, time.February, 15}
	b := Date{1961, time.September, 12}
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestDate_JSON(t *testing.T) {
	payload := struct {
		Date  Date     `json:"date"`
		Month MonthKey `json:"month"`
	}{Date{2025, time.May, 14}, MonthKey{2025, time.May}}

	data, err := json.Marshal(payload)
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2025-05-14","month":"2025-05"}`, string(data))

	var back struct {
		Date  Date     `json:"date"`
		Month MonthKey `json:"month"`
	}
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, payload.Date, back.Date)
	assert.Equal(t, payload.Month, back.Month)

	require.Error(t, json.Unmarshal([]byte(`{"date":"nope"}`), &back))
}
