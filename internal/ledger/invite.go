package ledger

import (
	"fmt"

	"github.com/mmynk/checkbook/internal/models"
)

// InviteText is the message a member shares to bring someone into the family.
func InviteText(account *models.FamilyAccount) string {
	return fmt.Sprintf("Join my family on PFC Checkbook!\n\nFamily ID: %s\nPassphrase: %s", account.ID, account.Passphrase)
}
