// Package worker recomputes monthly summaries after each ingested batch and
// exports them to Google Sheets.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"budgetai/internal/amqp"
	"budgetai/internal/core"
	"budgetai/internal/sheets"
)

// TotalsProvider supplies the summaries the worker exports.
type TotalsProvider interface {
	TransactionTotals(ctx context.Context, userID string) ([]core.MonthSummary, error)
}

// SyncWorker reacts to batch-ingested events by rebuilding the user's monthly
// summary and pushing it to the export sheet.
type SyncWorker struct {
	totals TotalsProvider
	sheets sheets.SummaryWriter
}

func NewSyncWorker(totals TotalsProvider, sheets sheets.SummaryWriter) *SyncWorker {
	return &SyncWorker{
		totals: totals,
		sheets: sheets,
	}
}

// HandleBatchIngested processes one batch-ingested message. The summary is
// recomputed from the store rather than trusting the message payload, so a
// replayed or stale message still produces a correct export.
func (w *SyncWorker) HandleBatchIngested(ctx context.Context, msg *amqp.BatchIngestedMessage) error {
	slog.InfoContext(ctx, "Processing batch ingested message",
		"user_id", msg.UserID,
		"count", msg.Count)

	summaries, err := w.totals.TransactionTotals(ctx, msg.UserID)
	if err != nil {
		return fmt.Errorf("compute transaction totals: %w", err)
	}

	if len(summaries) == 0 {
		slog.WarnContext(ctx, "No summaries to export", "user_id", msg.UserID)
		return nil
	}

	if err := w.sheets.WriteMonthlySummary(ctx, msg.UserID, summaries); err != nil {
		return fmt.Errorf("export monthly summary: %w", err)
	}

	slog.InfoContext(ctx, "Monthly summary synced",
		"user_id", msg.UserID,
		"months", len(summaries))
	return nil
}
