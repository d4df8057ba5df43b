package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a single ledger entry.
type Transaction struct {
	// ID is the unique identifier for the transaction (UUID format).
	ID string `json:"id"`

	// MemberID is the member the entry is recorded for.
	MemberID string `json:"memberId"`

	// Description is a short human-readable summary (e.g., "Weekly groceries").
	Description string `json:"description"`

	// Amount is signed: negative for expenses, positive for income.
	Amount decimal.Decimal `json:"amount"`

	// Category is one of the fixed categories.
	Category Category `json:"category"`

	// Date is assigned when the entry is recorded and is the sort key.
	Date time.Time `json:"date"`
}

// IsExpense reports whether the entry reduces the balance.
func (t Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}
