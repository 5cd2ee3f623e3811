package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"budgetai/internal/core"
	"budgetai/internal/log"
)

type fakeStore struct {
	batches [][]core.Transaction
	err     error
}

func (f *fakeStore) BulkInsert(ctx context.Context, txns []core.Transaction) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, txns)
	return nil
}

type fakePublisher struct {
	userID string
	count  int
	calls  int
	err    error
}

func (f *fakePublisher) PublishBatchIngested(ctx context.Context, userID string, count int) error {
	f.calls++
	f.userID = userID
	f.count = count
	return f.err
}

func testLogger() *log.Logger {
	return log.New(log.Config{Handler: slog.NewTextHandler(io.Discard, nil)})
}

func TestProcessCSV(t *testing.T) {
	doc := header +
		"09/30/2024,10/01/2024,DOLLAR TREE,Shopping,Sale,1.29,\n" +
		"09/28/2024,09/29/2024,REFUND CO,Shopping,Return,1.29,\n" +
		"bad-date,09/29/2024,JUNK,Misc,Sale,5.00,\n" +
		"09/27/2024,09/28/2024,STARBUCKS,Food & Drink,Sale,5.75,\n"

	store := &fakeStore{}
	events := &fakePublisher{}
	svc := NewService(store, events, testLogger())

	res, err := svc.ProcessCSV(context.Background(), "u1", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ProcessCSV: %v", err)
	}
	if res.Inserted != 2 || res.Skipped != 2 {
		t.Errorf("result = %+v, want inserted 2, skipped 2", res)
	}

	if len(store.batches) != 1 {
		t.Fatalf("got %d batches, want 1", len(store.batches))
	}
	batch := store.batches[0]
	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2", len(batch))
	}
	if batch[0].Description != "DOLLAR TREE" || batch[0].Amount.Cents != -129 {
		t.Errorf("first transaction = %+v", batch[0])
	}
	if batch[1].Description != "STARBUCKS" || batch[1].Amount.Cents != -575 {
		t.Errorf("second transaction = %+v", batch[1])
	}

	if events.calls != 1 || events.userID != "u1" || events.count != 2 {
		t.Errorf("publisher = %+v", events)
	}
}

func TestProcessCSVAllSkipped(t *testing.T) {
	doc := header +
		"09/28/2024,09/29/2024,REFUND CO,Shopping,Return,1.29,\n"

	store := &fakeStore{}
	events := &fakePublisher{}
	svc := NewService(store, events, testLogger())

	res, err := svc.ProcessCSV(context.Background(), "u1", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ProcessCSV: %v", err)
	}
	if res.Inserted != 0 || res.Skipped != 1 {
		t.Errorf("result = %+v", res)
	}
	if events.calls != 0 {
		t.Error("no event expected for an empty batch")
	}
}

func TestProcessCSVBadHeader(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, nil, testLogger())

	_, err := svc.ProcessCSV(context.Background(), "u1", strings.NewReader("Wrong,Header\n"))
	var verr *core.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if len(store.batches) != 0 {
		t.Error("nothing should be persisted on header failure")
	}
}

func TestProcessCSVStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("disk full")}
	svc := NewService(store, nil, testLogger())

	doc := header + "09/30/2024,10/01/2024,DOLLAR TREE,Shopping,Sale,1.29,\n"
	if _, err := svc.ProcessCSV(context.Background(), "u1", strings.NewReader(doc)); err == nil {
		t.Fatal("expected store error to surface")
	}
}

func TestProcessCSVPublishFailureIsBestEffort(t *testing.T) {
	store := &fakeStore{}
	events := &fakePublisher{err: errors.New("broker down")}
	svc := NewService(store, events, testLogger())

	doc := header + "09/30/2024,10/01/2024,DOLLAR TREE,Shopping,Sale,1.29,\n"
	res, err := svc.ProcessCSV(context.Background(), "u1", strings.NewReader(doc))
	if err != nil {
		t.Fatalf("publish failure must not fail the upload: %v", err)
	}
	if res.Inserted != 1 {
		t.Errorf("result = %+v", res)
	}
}
