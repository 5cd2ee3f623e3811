package query

import (
	"context"
	"errors"
	"testing"

	"budgetai/internal/core"
	"budgetai/internal/storage"
)

type fakeStore struct {
	lastFilter storage.Filter
	txns       []core.Transaction
	categories []string
}

func (f *fakeStore) Find(ctx context.Context, filter storage.Filter) ([]core.Transaction, error) {
	f.lastFilter = filter
	return f.txns, nil
}

func (f *fakeStore) DistinctCategories(ctx context.Context, userID string) ([]string, error) {
	return f.categories, nil
}

func isValidation(err error) bool {
	var verr *core.ValidationError
	return errors.As(err, &verr)
}

func TestAll(t *testing.T) {
	store := &fakeStore{txns: []core.Transaction{{ID: "a1"}}}
	svc := NewService(store)

	got, err := svc.All(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || store.lastFilter.UserID != "u1" {
		t.Errorf("filter = %+v", store.lastFilter)
	}
	if store.lastFilter.Category != nil || store.lastFilter.MinAmount != nil || store.lastFilter.StartDate != nil {
		t.Errorf("All must not constrain: %+v", store.lastFilter)
	}
}

func TestByCategory(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	if _, err := svc.ByCategory(context.Background(), "u1", ""); !isValidation(err) {
		t.Errorf("empty category: err = %v, want validation error", err)
	}

	if _, err := svc.ByCategory(context.Background(), "u1", "Shopping"); err != nil {
		t.Fatal(err)
	}
	if store.lastFilter.Category == nil || *store.lastFilter.Category != "Shopping" {
		t.Errorf("filter = %+v", store.lastFilter)
	}
}

func TestByAmountRange(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)
	min := core.Money{Cents: -200}
	max := core.Money{Cents: 0}

	cases := []struct {
		name     string
		min, max *core.Money
		wantErr  bool
	}{
		{"both present", &min, &max, false},
		{"missing min", nil, &max, true},
		{"missing max", &min, nil, true},
		{"missing both", nil, nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ByAmountRange(context.Background(), "u1", tc.min, tc.max)
			if tc.wantErr != isValidation(err) {
				t.Errorf("err = %v", err)
			}
		})
	}

	if store.lastFilter.MinAmount.Cents != -200 || store.lastFilter.MaxAmount.Cents != 0 {
		t.Errorf("filter = %+v", store.lastFilter)
	}
}

func TestByDateRange(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	cases := []struct {
		name       string
		start, end string
		wantErr    bool
	}{
		{"valid", "2024-09-01", "2024-09-30", false},
		{"missing start", "", "2024-09-30", true},
		{"missing end", "2024-09-01", "", true},
		{"wrong format", "09/01/2024", "2024-09-30", true},
		{"not a date", "2024-13-40", "2024-09-30", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ByDateRange(context.Background(), "u1", tc.start, tc.end)
			if tc.wantErr != isValidation(err) {
				t.Errorf("err = %v", err)
			}
		})
	}

	if store.lastFilter.StartDate.ISO() != "2024-09-01" || store.lastFilter.EndDate.ISO() != "2024-09-30" {
		t.Errorf("filter = %+v", store.lastFilter)
	}
}

func TestCategories(t *testing.T) {
	store := &fakeStore{categories: []string{"Gas", "Shopping"}}
	svc := NewService(store)

	got, err := svc.Categories(context.Background(), "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0] != "Gas" {
		t.Errorf("got %v", got)
	}
}
