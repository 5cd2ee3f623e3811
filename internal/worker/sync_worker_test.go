package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"budgetai/internal/amqp"
	"budgetai/internal/core"
)

type fakeTotals struct {
	summaries []core.MonthSummary
	err       error
	lastUser  string
}

func (f *fakeTotals) TransactionTotals(ctx context.Context, userID string) ([]core.MonthSummary, error) {
	f.lastUser = userID
	return f.summaries, f.err
}

type fakeWriter struct {
	calls   int
	userID  string
	written []core.MonthSummary
	err     error
}

func (f *fakeWriter) WriteMonthlySummary(ctx context.Context, userID string, summaries []core.MonthSummary) error {
	f.calls++
	f.userID = userID
	f.written = summaries
	return f.err
}

func msg(userID string, count int) *amqp.BatchIngestedMessage {
	return &amqp.BatchIngestedMessage{UserID: userID, Count: count, Timestamp: time.Now()}
}

func TestHandleBatchIngested(t *testing.T) {
	totals := &fakeTotals{summaries: []core.MonthSummary{
		{Label: "September 2024", Totals: map[string]core.Money{"Total": {Cents: -1800}}},
	}}
	writer := &fakeWriter{}
	w := NewSyncWorker(totals, writer)

	if err := w.HandleBatchIngested(context.Background(), msg("u1", 3)); err != nil {
		t.Fatal(err)
	}
	if totals.lastUser != "u1" {
		t.Errorf("totals computed for %q", totals.lastUser)
	}
	if writer.calls != 1 || writer.userID != "u1" || len(writer.written) != 1 {
		t.Errorf("writer = %+v", writer)
	}
}

func TestHandleBatchIngestedNoSummaries(t *testing.T) {
	writer := &fakeWriter{}
	w := NewSyncWorker(&fakeTotals{}, writer)

	if err := w.HandleBatchIngested(context.Background(), msg("u1", 0)); err != nil {
		t.Fatal(err)
	}
	if writer.calls != 0 {
		t.Error("nothing should be exported when there are no summaries")
	}
}

func TestHandleBatchIngestedTotalsFailure(t *testing.T) {
	w := NewSyncWorker(&fakeTotals{err: errors.New("db gone")}, &fakeWriter{})
	if err := w.HandleBatchIngested(context.Background(), msg("u1", 1)); err == nil {
		t.Fatal("expected totals error to surface")
	}
}

func TestHandleBatchIngestedWriterFailure(t *testing.T) {
	totals := &fakeTotals{summaries: []core.MonthSummary{
		{Label: "September 2024", Totals: map[string]core.Money{"Total": {Cents: -100}}},
	}}
	w := NewSyncWorker(totals, &fakeWriter{err: errors.New("api quota")})
	if err := w.HandleBatchIngested(context.Background(), msg("u1", 1)); err == nil {
		t.Fatal("expected writer error to surface")
	}
}
