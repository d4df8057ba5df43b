// Package calculator derives the read-side views of a family ledger: balance,
// totals and per-member and per-category breakdowns. Nothing here is stored;
// every value is recomputed from the transaction log on each call.
package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/checkbook/internal/models"
)

// Summary aggregates a transaction log.
type Summary struct {
	Balance  decimal.Decimal // Sum of all amounts
	Income   decimal.Decimal // Sum of positive amounts
	Expenses decimal.Decimal // Sum of negative amounts, reported as a positive number
	Count    int
}

// MemberTotal is one member's share of the log.
type MemberTotal struct {
	MemberID   string
	MemberName string
	Income     decimal.Decimal
	Expenses   decimal.Decimal // Positive number
	Net        decimal.Decimal // Income - Expenses
	Count      int
}

// CategoryTotal is the net amount recorded under one category.
type CategoryTotal struct {
	Category models.Category
	Total    decimal.Decimal
	Count    int
}

// Balance returns the exact sum of all transaction amounts.
func Balance(txs []models.Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount)
	}
	return sum
}

// Summarize computes balance, income and expense totals in one pass.
func Summarize(txs []models.Transaction) Summary {
	s := Summary{Balance: decimal.Zero, Income: decimal.Zero, Expenses: decimal.Zero}
	for _, tx := range txs {
		s.Balance = s.Balance.Add(tx.Amount)
		if tx.Amount.IsNegative() {
			s.Expenses = s.Expenses.Sub(tx.Amount)
		} else {
			s.Income = s.Income.Add(tx.Amount)
		}
		s.Count++
	}
	return s
}

// MemberTotals breaks the log down per member, in the account's member order.
// Entries recorded for an ID that is not a member are grouped under "Unknown"
// at the end.
func MemberTotals(account *models.FamilyAccount) []MemberTotal {
	index := make(map[string]int, len(account.Members))
	totals := make([]MemberTotal, 0, len(account.Members))
	for _, m := range account.Members {
		index[m.ID] = len(totals)
		totals = append(totals, newMemberTotal(m.ID, m.Name))
	}

	unknown := -1
	for _, tx := range account.Transactions {
		i, ok := index[tx.MemberID]
		if !ok {
			if unknown < 0 {
				unknown = len(totals)
				totals = append(totals, newMemberTotal("", "Unknown"))
			}
			i = unknown
		}
		t := &totals[i]
		if tx.Amount.IsNegative() {
			t.Expenses = t.Expenses.Sub(tx.Amount)
		} else {
			t.Income = t.Income.Add(tx.Amount)
		}
		t.Net = t.Net.Add(tx.Amount)
		t.Count++
	}
	return totals
}

// CategoryTotals returns the net amount per category in category order,
// omitting categories with no entries.
func CategoryTotals(txs []models.Transaction) []CategoryTotal {
	byCategory := make(map[models.Category]*CategoryTotal)
	for _, tx := range txs {
		ct, ok := byCategory[tx.Category]
		if !ok {
			ct = &CategoryTotal{Category: tx.Category, Total: decimal.Zero}
			byCategory[tx.Category] = ct
		}
		ct.Total = ct.Total.Add(tx.Amount)
		ct.Count++
	}

	var out []CategoryTotal
	for _, c := range models.Categories() {
		if ct, ok := byCategory[c]; ok {
			out = append(out, *ct)
		}
	}
	return out
}

func newMemberTotal(id, name string) MemberTotal {
	return MemberTotal{
		MemberID:   id,
		MemberName: name,
		Income:     decimal.Zero,
		Expenses:   decimal.Zero,
		Net:        decimal.Zero,
	}
}
