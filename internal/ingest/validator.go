package ingest

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"budgetai/internal/core"
)

// saleType is the only record type that enters the ledger. Refunds, payments
// and adjustments are filtered out here.
const saleType = "Sale"

// ErrSkipped marks a row that is well-formed but not a purchase. Callers
// count these separately from malformed rows.
var ErrSkipped = fmt.Errorf("row skipped")

// Validate checks one parsed row and, when it describes a purchase, converts
// it into a transaction owned by userID. Checks run in a fixed order so the
// first failure wins: date, then type, then amount.
func Validate(row Row, userID string) (core.Transaction, error) {
	date, err := core.ParseDate(row[ColTransactionDate])
	if err != nil {
		return core.Transaction{}, err
	}

	if row[ColType] != saleType {
		return core.Transaction{}, fmt.Errorf("%w: type %q", ErrSkipped, row[ColType])
	}

	cents, err := core.ParseCents(row[ColAmount])
	if err != nil {
		return core.Transaction{}, err
	}

	// Exports record purchases as positive amounts. Ledger convention is
	// outflows negative, so the sign flips on the way in.
	return core.Transaction{
		ID:          NewID(),
		UserID:      userID,
		Date:        date,
		Description: row[ColDescription],
		Category:    row[ColCategory],
		Amount:      core.Money{Cents: cents}.Neg(),
	}, nil
}

// NewID returns a fresh 32 character hex transaction id.
func NewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
