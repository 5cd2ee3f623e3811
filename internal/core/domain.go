package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	// DateLayout is the exact textual form transaction dates arrive in
	// (zero-padded MM/DD/YYYY) and the form they are rendered back out as.
	DateLayout = "01/02/2006"

	// isoLayout is the canonical internal form. It sorts the same way
	// lexicographically and chronologically, which the storage layer relies on.
	isoLayout = "2006-01-02"
)

type (
	// Date is a calendar date. Transactions carry no time-of-day component.
	Date struct {
		time.Time
	}

	// Money is a fixed-point amount in cents. Ledger convention: outflows are
	// negative, inflows positive.
	Money struct {
		Cents int64
	}

	// Transaction is a single validated ledger entry owned by one user.
	// Immutable once created.
	Transaction struct {
		ID          string `json:"_id"`
		UserID      string `json:"user_id"`
		Date        Date   `json:"transaction_date"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Amount      Money  `json:"amount"`
	}
)

// Identity failures keep the wire-visible wording of the original API so
// existing clients keep working.
var (
	ErrNotLoggedIn    = errors.New("User not logged in")
	ErrUserIDNotFound = errors.New("User ID not found")
	ErrNoTransactions = errors.New("no transactions")
	ErrInvalidDate    = errors.New("invalid date")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// ValidationError marks a client-input failure. The HTTP layer maps it to a
// 400 response; everything else surfaces as a server-side failure.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid builds a ValidationError.
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// ParseDate parses the strict ingestion form. Only the zero-padded ten
// character MM/DD/YYYY pattern is accepted; time.Parse alone would also admit
// un-padded variants.
func ParseDate(s string) (Date, error) {
	if len(s) != len(DateLayout) {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// ParseISODate parses the canonical YYYY-MM-DD form used by range queries and
// by the storage layer.
func ParseISODate(s string) (Date, error) {
	t, err := time.Parse(isoLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// NewDate builds a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ISO renders the canonical storage form.
func (d Date) ISO() string { return d.Format(isoLayout) }

// String renders the external MM/DD/YYYY form.
func (d Date) String() string { return d.Format(DateLayout) }

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(DateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MonthLabel renders the human-readable month key, e.g. "September 2024".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %d", month, year)
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money { return Money{Cents: -m.Cents} }

// Float64 returns the amount in whole currency units for display.
func (m Money) Float64() float64 { return float64(m.Cents) / 100.0 }
