// Package query exposes the read side of the ledger: filtered transaction
// listings and the category set.
package query

import (
	"context"

	"budgetai/internal/core"
	"budgetai/internal/storage"
)

// Store is the subset of the repository the query paths need.
type Store interface {
	Find(ctx context.Context, f storage.Filter) ([]core.Transaction, error)
	DistinctCategories(ctx context.Context, userID string) ([]string, error)
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// All returns every transaction the user owns, in insertion order.
func (s *Service) All(ctx context.Context, userID string) ([]core.Transaction, error) {
	return s.store.Find(ctx, storage.Filter{UserID: userID})
}

// ByCategory returns the user's transactions with an exact category match.
func (s *Service) ByCategory(ctx context.Context, userID, category string) ([]core.Transaction, error) {
	if category == "" {
		return nil, core.Invalid("Category field is required")
	}
	return s.store.Find(ctx, storage.Filter{UserID: userID, Category: &category})
}

// ByAmountRange returns the user's transactions with min <= amount <= max.
// Both bounds are mandatory.
func (s *Service) ByAmountRange(ctx context.Context, userID string, min, max *core.Money) ([]core.Transaction, error) {
	if min == nil || max == nil {
		return nil, core.Invalid("Both min_amount and max_amount fields are required")
	}
	return s.store.Find(ctx, storage.Filter{UserID: userID, MinAmount: min, MaxAmount: max})
}

// ByDateRange returns the user's transactions with start <= date <= end. Both
// bounds are mandatory and arrive in YYYY-MM-DD form.
func (s *Service) ByDateRange(ctx context.Context, userID, start, end string) ([]core.Transaction, error) {
	if start == "" || end == "" {
		return nil, core.Invalid("Both start_date and end_date fields are required")
	}
	startDate, err := core.ParseISODate(start)
	if err != nil {
		return nil, core.Invalid("Invalid date format. Use YYYY-MM-DD.")
	}
	endDate, err := core.ParseISODate(end)
	if err != nil {
		return nil, core.Invalid("Invalid date format. Use YYYY-MM-DD.")
	}
	return s.store.Find(ctx, storage.Filter{UserID: userID, StartDate: &startDate, EndDate: &endDate})
}

// Categories returns the sorted set of categories across the user's
// transactions.
func (s *Service) Categories(ctx context.Context, userID string) ([]string, error) {
	return s.store.DistinctCategories(ctx, userID)
}
