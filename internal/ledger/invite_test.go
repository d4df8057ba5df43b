package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mmynk/checkbook/internal/models"
)

func TestInviteText(t *testing.T) {
	account := &models.FamilyAccount{ID: "fam-123", Passphrase: "a1b2-c3d4-e5f6"}

	assert.Equal(t,
		"Join my family on PFC Checkbook!\n\nFamily ID: fam-123\nPassphrase: a1b2-c3d4-e5f6",
		InviteText(account))
}
