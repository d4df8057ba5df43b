package models

import "strings"

// FamilyAccount is the shared ledger: one member set, one transaction log.
type FamilyAccount struct {
	// ID is the account identifier ("fam-" followed by a random UUID).
	// Together with Passphrase it is the join credential.
	ID string `json:"id"`

	// Name is the display name of the family (e.g., "Smiths").
	Name string `json:"name"`

	// Passphrase is the shared join secret, generated once at creation.
	Passphrase string `json:"passphrase"`

	// Members is every participant, in join order. Emails are unique.
	Members []Member `json:"members"`

	// Transactions is the log, sorted by Date descending (newest first).
	Transactions []Transaction `json:"transactions"`
}

// Member is an individual participant in a family account.
type Member struct {
	// ID is the unique identifier for the member (UUID format).
	ID string `json:"id"`

	// Name is the display name of the member.
	Name string `json:"name"`

	// Email is unique within one family account.
	Email string `json:"email"`
}

// Member returns the member with the given ID.
func (a *FamilyAccount) Member(id string) (Member, bool) {
	for _, m := range a.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// MemberByEmail finds a member by email, ignoring case and surrounding whitespace.
func (a *FamilyAccount) MemberByEmail(email string) (Member, bool) {
	email = NormalizeEmail(email)
	for _, m := range a.Members {
		if NormalizeEmail(m.Email) == email {
			return m, true
		}
	}
	return Member{}, false
}

// MemberName returns the member's display name, or "Unknown" for an ID that
// is not part of the account.
func (a *FamilyAccount) MemberName(id string) string {
	if m, ok := a.Member(id); ok {
		return m.Name
	}
	return "Unknown"
}

// Clone returns a deep copy so callers can build the next state without
// touching the current one.
func (a *FamilyAccount) Clone() *FamilyAccount {
	clone := *a
	clone.Members = append([]Member(nil), a.Members...)
	clone.Transactions = append([]Transaction(nil), a.Transactions...)
	return &clone
}

// NormalizeEmail lowercases and trims an email address for comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
