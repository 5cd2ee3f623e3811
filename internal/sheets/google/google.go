// Package google implements the sheets export port on top of the Google
// Sheets API.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	ports "budgetai/internal/sheets"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"budgetai/internal/core"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	// Base sheet name; one tab per user is derived from it.
	sheetBase string
}

var _ ports.SummaryWriter = (*Client)(nil)

// NewFromEnv creates a Sheets client from environment variables.
// Required: GOOGLE_SPREADSHEET_ID plus service account credentials via
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or
// GOOGLE_APPLICATION_CREDENTIALS.
// Optional: GOOGLE_SHEET_NAME (default "Spending").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	sheetBase := strings.TrimSpace(os.Getenv("GOOGLE_SHEET_NAME"))
	if sheetBase == "" {
		sheetBase = "Spending"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetBase:     sheetBase,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account
// credentials.
func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	serviceAccountJSON := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON"))
	serviceAccountFile := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if serviceAccountJSON == "" && serviceAccountFile == "" {
		serviceAccountFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var credentialsJSON []byte
	var err error
	switch {
	case serviceAccountJSON != "":
		credentialsJSON = []byte(serviceAccountJSON)
	case serviceAccountFile != "":
		credentialsJSON, err = os.ReadFile(serviceAccountFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// WriteMonthlySummary replaces the user's tab with a header row and one row
// per month. Columns are Month, Total, then every category in sorted order so
// repeated exports keep a stable layout.
func (c *Client) WriteMonthlySummary(ctx context.Context, userID string, summaries []core.MonthSummary) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	sheetName := fmt.Sprintf("%s %s", c.sheetBase, userID)

	// Collect the union of category columns across all months.
	columns := map[string]struct{}{}
	for _, s := range summaries {
		for k := range s.Totals {
			if k != "Total" {
				columns[k] = struct{}{}
			}
		}
	}
	categories := make([]string, 0, len(columns))
	for k := range columns {
		categories = append(categories, k)
	}
	sort.Strings(categories)

	header := append([]any{"Month", "Total"}, anyStrings(categories)...)
	values := [][]any{header}
	for _, s := range summaries {
		row := []any{s.Label, s.Totals["Total"].Float64()}
		for _, cat := range categories {
			row = append(row, s.Totals[cat].Float64())
		}
		values = append(values, row)
	}

	rng := fmt.Sprintf("%s!A1", sheetName)
	clearRng := fmt.Sprintf("%s!A:Z", sheetName)

	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRng, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear %s: %w", clearRng, err)
	}

	vr := &gsheet.ValueRange{Values: values}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update %s: %w", rng, err)
	}

	slog.InfoContext(ctx, "Monthly summary exported",
		"user_id", userID,
		"sheet", sheetName,
		"months", len(summaries))
	return nil
}

func anyStrings(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
