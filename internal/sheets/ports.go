// Package sheets defines the export boundary the worker writes monthly
// summaries through.
package sheets

import (
	"context"

	"budgetai/internal/core"
)

// SummaryWriter replaces a user's monthly summary sheet with fresh data.
type SummaryWriter interface {
	WriteMonthlySummary(ctx context.Context, userID string, summaries []core.MonthSummary) error
}
