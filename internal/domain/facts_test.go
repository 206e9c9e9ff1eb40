package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferenceFacts(t *testing.T) {
	want := []CalibrationFact{
		{Date{1957, time.February, 6}, "畢"},
		{Date{1961, time.February, 15}, "室"},
		{Date{1961, time.September, 12}, "氐"},
		{Date{2000, time.January, 15}, "畢"},
		{Date{2025, time.May, 14}, "箕"},
	}
	assert.Equal(t, want, ReferenceFacts.All())
	assert.Equal(t, 5, ReferenceFacts.Len())
}

func TestFactTable_ForDate(t *testing.T) {
	m, ok := ReferenceFacts.ForDate(Date{1961, time.September, 12})
	assert.True(t, ok)
	assert.Equal(t, Mansion("氐"), m)

	_, ok = ReferenceFacts.ForDate(Date{1961, time.September, 13})
	assert.False(t, ok)
}

func TestFactTable_ForMonth(t *testing.T) {
	sep := ReferenceFacts.ForMonth(MonthKey{1961, time.September})
	require.Len(t, sep, 1)
	assert.Equal(t, Mansion("氐"), sep[0].Expected)

	assert.Empty(t, ReferenceFacts.ForMonth(MonthKey{1961, time.October}))
	assert.Len(t, ReferenceFacts.ForMonth(MonthKey{1961, time.February}), 1)
}

func TestNewFactTable_SortsByDate(t *testing.T) {
	table, err := NewFactTable([]CalibrationFact{
		{Date{2000, time.January, 20}, "角"},
		{Date{2000, time.January, 3}, "亢"},
	})
	require.NoError(t, err)

	all := table.All()
	require.Len(t, all, 2)
	assert.Equal(t, 3, all[0].Date.Day)
	assert.Equal(t, 20, all[1].Date.Day)
}

func TestNewFactTable_RejectsDuplicateDate(t *testing.T) {
	_, err := NewFactTable([]CalibrationFact{
		{Date{2000, time.January, 3}, "角"},
		{Date{2000, time.January, 3}, "亢"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.Contains(t, err.Error(), "duplicate")
}

func TestNewFactTable_RejectsUnknownMansion(t *testing.T) {
	_, err := NewFactTable([]CalibrationFact{
		{Date{2000, time.January, 3}, "moon"},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestFactTable_AllReturnsCopy(t *testing.T) {
	all := ReferenceFacts.All()
	all[0].Expected = "角"
	assert.Equal(t, Mansion("畢"), ReferenceFacts.All()[0].Expected)
}
