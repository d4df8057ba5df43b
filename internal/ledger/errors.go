package ledger

import (
	"errors"

	"github.com/mmynk/checkbook/internal/auth"
)

var (
	// ErrInvalidInput wraps every form validation failure.
	ErrInvalidInput = errors.New("invalid input")

	ErrFamilyNotFound  = errors.New("family account not found")
	ErrWrongPassphrase = auth.ErrWrongPassphrase
	ErrEmailTaken      = errors.New("email is already a member of this family")
	ErrMemberNotFound  = errors.New("no member with that email in this family")
	ErrUnknownMember   = errors.New("member is not part of this family")

	// ErrNoSession means nobody is logged in (or the stored session was discarded).
	ErrNoSession = errors.New("no active session")

	// ErrCorruptRecord marks a stored record that cannot be decoded.
	ErrCorruptRecord = errors.New("stored record is corrupt")
)

// UserMessage returns the text shown to a person for a ledger error.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrFamilyNotFound):
		return "Family ID not found. Please check and try again."
	case errors.Is(err, ErrWrongPassphrase), errors.Is(err, auth.ErrEmptyPassphrase):
		return "Incorrect passphrase. Please check and try again."
	case errors.Is(err, ErrEmailTaken):
		return "This email address is already a member of this family."
	case errors.Is(err, ErrMemberNotFound):
		return "No member with that email address belongs to this family."
	case errors.Is(err, ErrUnknownMember):
		return "That member is not part of this family."
	case errors.Is(err, ErrNoSession):
		return "You are not logged in."
	case errors.Is(err, ErrInvalidInput):
		return "Please fill all fields correctly. (" + err.Error() + ")"
	case errors.Is(err, ErrCorruptRecord):
		return "The saved family data could not be read."
	default:
		return "Something went wrong. Please try again."
	}
}
