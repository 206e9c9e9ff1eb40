package domain

import (
	"fmt"
	"sort"
	"time"
)

// CalibrationFact pins a date to the mansion historically attested for it.
type CalibrationFact struct {
	Date     Date
	Expected Mansion
}

// FactTable is an immutable set of calibration facts, at most one per date.
type FactTable struct {
	byDate  map[Date]Mansion
	ordered []CalibrationFact
}

// NewFactTable validates and indexes facts. Duplicate dates and unknown
// mansion names are rejected.
func NewFactTable(facts []CalibrationFact) (*FactTable, error) {
	t := &FactTable{
		byDate:  make(map[Date]Mansion, len(facts)),
		ordered: make([]CalibrationFact, 0, len(facts)),
	}
	for _, f := range facts {
		if !f.Expected.Valid() {
			return nil, fmt.Errorf("%w: fact %s has unknown mansion %q", ErrInvalidInput, f.Date, f.Expected)
		}
		if prev, dup := t.byDate[f.Date]; dup {
			return nil, fmt.Errorf("%w: duplicate fact for %s (%s and %s)", ErrInvalidInput, f.Date, prev, f.Expected)
		}
		t.byDate[f.Date] = f.Expected
		t.ordered = append(t.ordered, f)
	}
	sort.Slice(t.ordered, func(i, j int) bool {
		return t.ordered[i].Date.Before(t.ordered[j].Date)
	})
	return t, nil
}

// MustFactTable is NewFactTable for package-level tables that are known good.
func MustFactTable(facts []CalibrationFact) *FactTable {
	t, err := NewFactTable(facts)
	if err != nil {
		panic(err)
	}
	return t
}

// ReferenceFacts is the ground truth used for calibration.
var ReferenceFacts = MustFactTable([]CalibrationFact{
	{Date: Date{1957, time.February, 6}, Expected: "畢"},
	{Date: Date{1961, time.February, 15}, Expected: "室"},
	{Date: Date{1961, time.September, 12}, Expected: "氐"},
	{Date: Date{2000, time.January, 15}, Expected: "畢"},
	{Date: Date{2025, time.May, 14}, Expected: "箕"},
})

// All returns every fact in date order.
func (t *FactTable) All() []CalibrationFact {
	out := make([]CalibrationFact, len(t.ordered))
	copy(out, t.ordered)
	return out
}

// Len returns the number of facts.
func (t *FactTable) Len() int { return len(t.ordered) }

// ForDate returns the expected mansion for an exact date, if one is pinned.
func (t *FactTable) ForDate(d Date) (Mansion, bool) {
	m, ok := t.byDate[d]
	return m, ok
}

// ForMonth returns the facts that fall in the month, in date order.
func (t *FactTable) ForMonth(k MonthKey) []CalibrationFact {
	var out []CalibrationFact
	for _, f := range t.ordered {
		if f.Date.Key() == k {
			out = append(out, f)
		}
	}
	return out
}
