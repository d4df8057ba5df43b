package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/checkbook/internal/receipt"
)

func runCheckbook(t *testing.T, db string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--db", db, "--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

// inviteField pulls "Family ID" or "Passphrase" out of invite text.
func inviteField(t *testing.T, out, field string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if value, ok := strings.CutPrefix(line, field+": "); ok {
			return strings.TrimSpace(value)
		}
	}
	t.Fatalf("%s not found in output:\n%s", field, out)
	return ""
}

func TestFamilyLifecycle(t *testing.T) {
	db := filepath.Join(t.TempDir(), "checkbook.db")

	out, err := runCheckbook(t, db, "family", "create", "--name", "Ann", "--email", "ann@x.com", "--family", "Smiths")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Join my family on PFC Checkbook!")
	familyID := inviteField(t, out, "Family ID")
	passphrase := inviteField(t, out, "Passphrase")
	assert.True(t, strings.HasPrefix(familyID, "fam-"))

	out, err = runCheckbook(t, db, "tx", "add", "-d", "Groceries", "-a", "54.20", "-c", "groceries")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Recorded $54.20 Groceries (Groceries)")

	out, err = runCheckbook(t, db, "logout")
	require.NoError(t, err, out)

	_, err = runCheckbook(t, db, "whoami")
	require.Error(t, err)
	assert.Equal(t, "You are not logged in.", err.Error())

	_, err = runCheckbook(t, db, "family", "join", "--name", "Bob", "--email", "bob@x.com", "--id", familyID, "--passphrase", "wrong")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Incorrect passphrase")

	out, err = runCheckbook(t, db, "family", "join", "--name", "Bob", "--email", "bob@x.com", "--id", familyID, "--passphrase", passphrase)
	require.NoError(t, err, out)
	assert.Contains(t, out, "(2 members)")

	_, err = runCheckbook(t, db, "family", "join", "--name", "Ann2", "--email", "ann@x.com", "--id", familyID, "--passphrase", passphrase)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already a member")

	out, err = runCheckbook(t, db, "tx", "add", "-d", "Paycheck", "-a", "1000", "-c", "Income", "--income")
	require.NoError(t, err, out)
	assert.Contains(t, out, "+$1,000.00")

	out, err = runCheckbook(t, db, "whoami")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Bob <bob@x.com>")

	out, err = runCheckbook(t, db, "balance")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Smiths balance: $945.80")
	assert.Contains(t, out, "Ann")
	assert.Contains(t, out, "Bob")

	out, err = runCheckbook(t, db, "tx", "list")
	require.NoError(t, err, out)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "Paycheck", "newest first")
	assert.Contains(t, lines[2], "Groceries")

	out, err = runCheckbook(t, db, "logout")
	require.NoError(t, err, out)
	out, err = runCheckbook(t, db, "family", "signin", "--id", familyID, "--passphrase", passphrase, "--email", "ANN@x.com")
	require.NoError(t, err, out)
	assert.Contains(t, out, "as Ann")

	out, err = runCheckbook(t, db, "family", "list")
	require.NoError(t, err, out)
	assert.Equal(t, familyID, strings.TrimSpace(out))

	out, err = runCheckbook(t, db, "family", "invite")
	require.NoError(t, err, out)
	assert.Equal(t, passphrase, inviteField(t, out, "Passphrase"))
}

func TestTxAdd_Validation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "checkbook.db")

	_, err := runCheckbook(t, db, "tx", "add", "-d", "Lunch", "-a", "12")
	require.Error(t, err)
	assert.Equal(t, "You are not logged in.", err.Error())

	_, err = runCheckbook(t, db, "family", "create", "--name", "Ann", "--email", "ann@x.com", "--family", "Smiths")
	require.NoError(t, err)

	_, err = runCheckbook(t, db, "tx", "add", "-d", "Lunch", "-a", "12", "-c", "Snacks")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")

	_, err = runCheckbook(t, db, "tx", "add", "-d", "Lunch", "-a", "twelve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please fill all fields correctly")

	_, err = runCheckbook(t, db, "tx", "add", "-d", "Lunch")
	require.Error(t, err, "amount flag is required")
}

func TestScan_WithoutAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("API_KEY", "")
	dir := t.TempDir()
	db := filepath.Join(dir, "checkbook.db")
	image := filepath.Join(dir, "receipt.png")
	require.NoError(t, os.WriteFile(image, []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), 0o644))

	_, err := runCheckbook(t, db, "scan", image)
	require.Error(t, err)
	assert.Equal(t, receipt.UserMessage, err.Error())

	_, err = runCheckbook(t, db, "scan", filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading receipt image")
}
