// Package report derives the monthly spending summaries and the month-range
// listing that drive the dashboard charts.
package report

import (
	"context"
	"time"

	"budgetai/internal/core"
)

// TotalKey is the overall-total entry present in every month summary
// alongside the per-category amounts.
const TotalKey = "Total"

// Store is the subset of the repository the reporting paths need.
type Store interface {
	AggregateByMonth(ctx context.Context, userID string) ([]core.MonthTotal, error)
	AggregateByMonthCategory(ctx context.Context, userID string) ([]core.MonthCategoryTotal, error)
	DistinctCategories(ctx context.Context, userID string) ([]string, error)
	MinMaxDate(ctx context.Context, userID string) (min, max core.Date, ok bool, err error)
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// TransactionTotals builds one summary per month with activity, chronological,
// each carrying the overall total plus every category the user has ever used,
// zero-filled for categories idle that month.
func (e *Engine) TransactionTotals(ctx context.Context, userID string) ([]core.MonthSummary, error) {
	byMonth, err := e.store.AggregateByMonth(ctx, userID)
	if err != nil {
		return nil, err
	}
	byCategory, err := e.store.AggregateByMonthCategory(ctx, userID)
	if err != nil {
		return nil, err
	}
	categories, err := e.store.DistinctCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	overall := make(map[string]core.Money, len(byMonth))
	for _, mt := range byMonth {
		overall[core.MonthLabel(mt.Year, mt.Month)] = mt.Total
	}

	// Months appear in the output in the order the sorted by-category
	// aggregate first mentions them, which is chronological.
	var order []string
	summaries := make(map[string]map[string]core.Money)
	for _, ct := range byCategory {
		label := core.MonthLabel(ct.Year, ct.Month)
		entry, seen := summaries[label]
		if !seen {
			entry = map[string]core.Money{TotalKey: overall[label]}
			summaries[label] = entry
			order = append(order, label)
		}
		entry[ct.Category] = ct.Total
	}

	out := make([]core.MonthSummary, 0, len(order))
	for _, label := range order {
		entry := summaries[label]
		for _, c := range categories {
			if _, ok := entry[c]; !ok {
				entry[c] = core.Money{}
			}
		}
		out = append(out, core.MonthSummary{Label: label, Totals: entry})
	}
	return out, nil
}

// TransactionRange lists every calendar month from the user's earliest
// transaction through the latest, inclusive, as "<Month name> <Year>" labels.
// Returns ErrNoTransactions when the user has none.
func (e *Engine) TransactionRange(ctx context.Context, userID string) ([]string, error) {
	min, max, ok, err := e.store.MinMaxDate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, core.ErrNoTransactions
	}

	cur := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(max.Year(), max.Month(), 1, 0, 0, 0, 0, time.UTC)

	var labels []string
	for !cur.After(end) {
		labels = append(labels, core.MonthLabel(cur.Year(), cur.Month()))
		cur = cur.AddDate(0, 1, 0)
	}
	return labels, nil
}
