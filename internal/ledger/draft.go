package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/checkbook/internal/models"
)

// Draft is an add-transaction form as the person filled it in: an unsigned
// amount, a direction and a category. Manual entries and scanned receipts
// both go through Resolve.
type Draft struct {
	Description string
	Amount      string // As typed, e.g. "54.20" or "$54.20"
	Category    models.Category
	Expense     bool
	MemberID    string // Empty means the logged-in member
}

// Entry is a resolved draft, ready for AddTransaction.
type Entry struct {
	Description string
	Amount      decimal.Decimal // Signed
	Category    models.Category
	MemberID    string
}

// Resolve validates the draft and applies the polarity rules:
// an expense is always stored negative, and an expense can never be filed as
// Income (it becomes Other). An income draft keeps its amount as typed.
func (d Draft) Resolve() (Entry, error) {
	description := strings.TrimSpace(d.Description)
	if description == "" {
		return Entry{}, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	raw := strings.TrimPrefix(strings.TrimSpace(d.Amount), "$")
	amount, err := models.ParseAmount(strings.ReplaceAll(raw, ",", ""))
	switch {
	case errors.Is(err, models.ErrAmountRange):
		return Entry{}, fmt.Errorf("%w: amount %q is out of range, the limit is %s", ErrInvalidInput, d.Amount, models.MaxAmount)
	case err != nil:
		return Entry{}, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, d.Amount)
	}
	if amount.IsZero() {
		return Entry{}, fmt.Errorf("%w: amount must be non-zero, a zero entry is never recorded", ErrInvalidInput)
	}
	if !models.HasCents(amount) {
		return Entry{}, fmt.Errorf("%w: amount %q has more than two decimal places", ErrInvalidInput, d.Amount)
	}

	category := d.Category
	if category == "" {
		category = models.CategoryOther
	}
	if !category.Valid() {
		return Entry{}, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, string(category))
	}

	if d.Expense {
		amount = amount.Abs().Neg()
		if category == models.CategoryIncome {
			category = models.CategoryOther
		}
	}

	return Entry{
		Description: description,
		Amount:      amount,
		Category:    category,
		MemberID:    strings.TrimSpace(d.MemberID),
	}, nil
}

// AddDraft resolves a draft and records it. It returns the new entry and the
// updated account.
func (s *Store) AddDraft(ctx context.Context, d Draft) (*models.Transaction, *models.FamilyAccount, error) {
	entry, err := d.Resolve()
	if err != nil {
		return nil, nil, err
	}
	return s.AddTransaction(ctx, entry.Description, entry.Amount, entry.Category, entry.MemberID)
}

// DraftFromReceipt pre-fills an expense draft from extracted receipt fields.
// Receipts always represent spending.
func DraftFromReceipt(r *models.Receipt) Draft {
	description := strings.TrimSpace(r.Description)
	if description == "" {
		description = strings.TrimSpace(r.Merchant)
	}
	return Draft{
		Description: description,
		Amount:      r.Total.Abs().StringFixed(2),
		Category:    r.Category,
		Expense:     true,
	}
}
