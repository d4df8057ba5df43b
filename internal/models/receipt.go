package models

import "github.com/shopspring/decimal"

// Receipt holds the fields extracted from a receipt image. It is a candidate
// only: it reaches the ledger through the same draft rules as manual entry.
type Receipt struct {
	Merchant    string
	Total       decimal.Decimal
	Category    Category
	Description string
}
