package models

// Session is the local pointer to the active family account and the member
// acting in it. It is not a server-side session: whoever can read the record
// store is "logged in".
type Session struct {
	FamilyAccountID string `json:"familyAccountId"`
	CurrentMemberID string `json:"currentMemberId"`
}
