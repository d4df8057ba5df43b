// Package api defines the checkbook.v1.LedgerService wire contract: the
// request and response messages, procedure names, the JSON codec, and the
// handler and client constructors.
package api

import "time"

type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Family struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Members []Member `json:"members"`
}

type Transaction struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"memberId"`
	MemberName  string    `json:"memberName"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"` // Signed decimal
	Display     string    `json:"display"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date"`
}

type MemberTotal struct {
	MemberID   string `json:"memberId"`
	MemberName string `json:"memberName"`
	Income     string `json:"income"`
	Expenses   string `json:"expenses"`
	Net        string `json:"net"`
	Count      int    `json:"count"`
}

type CategoryTotal struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int    `json:"count"`
}

type CreateFamilyRequest struct {
	FounderName  string `json:"founderName"`
	FounderEmail string `json:"founderEmail"`
	FamilyName   string `json:"familyName"`
}

type CreateFamilyResponse struct {
	Family Family `json:"family"`
	Member Member `json:"member"`
	Invite Invite `json:"invite"`
}

type JoinFamilyRequest struct {
	MemberName  string `json:"memberName"`
	MemberEmail string `json:"memberEmail"`
	FamilyID    string `json:"familyId"`
	Passphrase  string `json:"passphrase"`
}

type JoinFamilyResponse struct {
	Family Family `json:"family"`
	Member Member `json:"member"`
}

type SignInRequest struct {
	FamilyID   string `json:"familyId"`
	Passphrase string `json:"passphrase"`
	Email      string `json:"email"`
}

type SignInResponse struct {
	Family Family `json:"family"`
	Member Member `json:"member"`
}

type LogoutRequest struct{}

type LogoutResponse struct{}

type GetDashboardRequest struct{}

// GetDashboardResponse is everything the main screen shows. Money fields are
// signed decimals; the *Display fields are formatted for people.
type GetDashboardResponse struct {
	Family         Family          `json:"family"`
	Member         Member          `json:"member"`
	Balance        string          `json:"balance"`
	BalanceDisplay string          `json:"balanceDisplay"`
	Income         string          `json:"income"`
	Expenses       string          `json:"expenses"`
	Transactions   []Transaction   `json:"transactions"`
	MemberTotals   []MemberTotal   `json:"memberTotals"`
	CategoryTotals []CategoryTotal `json:"categoryTotals"`
	Categories     []string        `json:"categories"`
}

type GetInviteRequest struct{}

type Invite struct {
	FamilyID   string `json:"familyId"`
	Passphrase string `json:"passphrase"`
	Text       string `json:"text"`
}

type GetInviteResponse struct {
	Invite Invite `json:"invite"`
}

// AddTransactionRequest is the add-transaction form. Amount is unsigned as
// typed; Expense selects the sign. An empty MemberID means the logged-in
// member.
type AddTransactionRequest struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Expense     bool   `json:"expense"`
	MemberID    string `json:"memberId,omitempty"`
}

type AddTransactionResponse struct {
	Transaction    Transaction `json:"transaction"`
	Balance        string      `json:"balance"`
	BalanceDisplay string      `json:"balanceDisplay"`
}

type ScanReceiptRequest struct {
	Image []byte `json:"image"` // Base64 in JSON
}

// Draft is the pre-filled add-transaction form.
type Draft struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Expense     bool   `json:"expense"`
}

type ScanReceiptResponse struct {
	Merchant    string `json:"merchant"`
	Total       string `json:"total"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Draft       Draft  `json:"draft"`
}
