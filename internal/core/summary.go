package core

import (
	"encoding/json"
	"time"
)

// MonthTotal is one row of the per-month aggregate.
type MonthTotal struct {
	Year  int
	Month time.Month
	Total Money
}

// MonthCategoryTotal is one row of the per-month per-category aggregate.
type MonthCategoryTotal struct {
	Year     int
	Month    time.Month
	Category string
	Total    Money
}

// MonthSummary pairs a month label with its category totals. The Totals map
// always carries a "Total" key plus one key per category the user has ever
// used, zero-filled for months without activity in that category.
type MonthSummary struct {
	Label  string
	Totals map[string]Money
}

// MarshalJSON serializes as the two-element [label, totals] array the
// spending-chart client consumes.
func (s MonthSummary) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{s.Label, s.Totals})
}

func (s *MonthSummary) UnmarshalJSON(data []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw[0], &s.Label); err != nil {
		return err
	}
	return json.Unmarshal(raw[1], &s.Totals)
}
