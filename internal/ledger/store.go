// Package ledger implements the family ledger store: the family account
// record, the local session pointer, and the operations that change them.
//
// Every mutation reads the current records, builds the complete next state
// and writes it back in a single atomic batch, so a failed write leaves the
// previous state intact. The balance is never stored.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/checkbook/internal/auth"
	"github.com/mmynk/checkbook/internal/models"
	"github.com/mmynk/checkbook/internal/storage"
)

// Record layout in the key-value store.
const (
	SessionKey       = "sessionPointer"
	AccountKeyPrefix = "familyAccount:"
)

// AccountKey returns the record key for a family account.
func AccountKey(familyID string) string {
	return AccountKeyPrefix + familyID
}

// View is the authenticated state: the active account and who is acting in it.
type View struct {
	Account *models.FamilyAccount
	Session models.Session
	Member  models.Member
}

// Store owns the ledger records. Create one per record store and pass it to
// every consumer; it is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	records storage.Store
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp new transactions.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates a ledger Store on top of a record store.
func New(records storage.Store, opts ...Option) *Store {
	s := &Store{records: records, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current loads the session pointer and the account it points at.
// Returns ErrNoSession when nobody is logged in. A session pointer that cannot
// be decoded, or that points at a missing or unreadable account or at a member
// the account does not have, is deleted and ErrNoSession is returned.
func (s *Store) Current(ctx context.Context) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(ctx)
}

// CreateFamily creates a new family account with the founder as its only
// member and logs the founder in.
func (s *Store) CreateFamily(ctx context.Context, founderName, founderEmail, familyName string) (*models.FamilyAccount, *models.Session, error) {
	founderName = strings.TrimSpace(founderName)
	founderEmail = strings.TrimSpace(founderEmail)
	familyName = strings.TrimSpace(familyName)

	if err := checkInput(familyInput{
		Founder:    memberInput{Name: founderName, Email: founderEmail},
		FamilyName: familyName,
	}); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	founder := models.Member{ID: uuid.NewString(), Name: founderName, Email: founderEmail}
	account := &models.FamilyAccount{
		ID:           auth.NewFamilyID(),
		Name:         familyName,
		Passphrase:   auth.NewPassphrase(),
		Members:      []models.Member{founder},
		Transactions: []models.Transaction{},
	}
	session := &models.Session{FamilyAccountID: account.ID, CurrentMemberID: founder.ID}

	if err := s.writeLocked(ctx, account, session); err != nil {
		return nil, nil, err
	}

	slog.Info("Family created", "family_id", account.ID, "member_id", founder.ID)
	return account.Clone(), session, nil
}

// JoinFamily adds a new member to an existing account and logs them in.
// The account is left untouched when the family ID is unknown, the passphrase
// does not match exactly, or the email already belongs to a member.
func (s *Store) JoinFamily(ctx context.Context, memberName, memberEmail, familyID, passphrase string) (*models.FamilyAccount, *models.Session, error) {
	memberName = strings.TrimSpace(memberName)
	memberEmail = strings.TrimSpace(memberEmail)
	familyID = strings.TrimSpace(familyID)

	if err := checkInput(joinInput{
		Member:     memberInput{Name: memberName, Email: memberEmail},
		FamilyID:   familyID,
		Passphrase: passphrase,
	}); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.readAccountLocked(ctx, familyID)
	if err != nil {
		return nil, nil, err
	}
	if err := auth.VerifyPassphrase(account.Passphrase, passphrase); err != nil {
		slog.Warn("Join rejected: wrong passphrase", "family_id", familyID)
		return nil, nil, err
	}
	if _, taken := account.MemberByEmail(memberEmail); taken {
		slog.Warn("Join rejected: email already a member", "family_id", familyID)
		return nil, nil, ErrEmailTaken
	}

	member := models.Member{ID: uuid.NewString(), Name: memberName, Email: memberEmail}
	next := account.Clone()
	next.Members = append(next.Members, member)
	session := &models.Session{FamilyAccountID: next.ID, CurrentMemberID: member.ID}

	if err := s.writeLocked(ctx, next, session); err != nil {
		return nil, nil, err
	}

	slog.Info("Member joined family", "family_id", next.ID, "member_id", member.ID, "members_count", len(next.Members))
	return next.Clone(), session, nil
}

// SignIn logs an existing member back in after a logout. It checks the same
// credential pair as JoinFamily and only writes the session pointer.
func (s *Store) SignIn(ctx context.Context, familyID, passphrase, email string) (*models.FamilyAccount, *models.Session, error) {
	familyID = strings.TrimSpace(familyID)
	email = strings.TrimSpace(email)

	if err := checkInput(signInInput{Email: email, FamilyID: familyID, Passphrase: passphrase}); err != nil {
		return nil, nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	account, err := s.readAccountLocked(ctx, familyID)
	if err != nil {
		return nil, nil, err
	}
	if err := auth.VerifyPassphrase(account.Passphrase, passphrase); err != nil {
		slog.Warn("Sign-in rejected: wrong passphrase", "family_id", familyID)
		return nil, nil, err
	}
	member, ok := account.MemberByEmail(email)
	if !ok {
		return nil, nil, ErrMemberNotFound
	}

	session := &models.Session{FamilyAccountID: account.ID, CurrentMemberID: member.ID}
	if err := s.writeLocked(ctx, nil, session); err != nil {
		return nil, nil, err
	}

	slog.Info("Member signed in", "family_id", account.ID, "member_id", member.ID)
	return account, session, nil
}

// AddTransaction records an entry in the active account. An empty memberID
// means the logged-in member. The new entry is stamped with the current time
// and the log is re-sorted newest first. The account as written is returned
// with the new entry.
func (s *Store) AddTransaction(ctx context.Context, description string, amount decimal.Decimal, category models.Category, memberID string) (*models.Transaction, *models.FamilyAccount, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}
	if !category.Valid() {
		return nil, nil, fmt.Errorf("%w: unknown category %q", ErrInvalidInput, string(category))
	}
	if err := models.CheckAmount(amount); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	view, err := s.currentLocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	if memberID == "" {
		memberID = view.Member.ID
	}
	if _, ok := view.Account.Member(memberID); !ok {
		return nil, nil, fmt.Errorf("%w: %s", ErrUnknownMember, memberID)
	}

	tx := models.Transaction{
		ID:          uuid.NewString(),
		MemberID:    memberID,
		Description: description,
		Amount:      amount,
		Category:    category,
		Date:        s.now().UTC(),
	}

	next := view.Account.Clone()
	next.Transactions = append([]models.Transaction{tx}, next.Transactions...)
	sortNewestFirst(next.Transactions)

	if err := s.writeLocked(ctx, next, nil); err != nil {
		return nil, nil, err
	}

	slog.Info("Transaction added",
		"family_id", next.ID,
		"transaction_id", tx.ID,
		"member_id", memberID,
		"category", tx.Category,
		"amount", tx.Amount.String(),
	)
	return &tx, next.Clone(), nil
}

// Logout clears the session pointer. The account record stays stored.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.records.Delete(ctx, SessionKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	slog.Info("Logged out")
	return nil
}

// FamilyIDs lists the family accounts kept in the record store.
func (s *Store) FamilyIDs(ctx context.Context) ([]string, error) {
	keys, err := s.records.Keys(ctx, AccountKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list family accounts: %w", err)
	}
	ids := make([]string, len(keys))
	for i, k := range keys {
		ids[i] = strings.TrimPrefix(k, AccountKeyPrefix)
	}
	return ids, nil
}

func (s *Store) currentLocked(ctx context.Context) (*View, error) {
	raw, err := s.records.Get(ctx, SessionKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, s.discardSessionLocked(ctx, "unparsable session pointer", err)
	}
	if session.FamilyAccountID == "" || session.CurrentMemberID == "" {
		return nil, s.discardSessionLocked(ctx, "incomplete session pointer", nil)
	}

	account, err := s.readAccountLocked(ctx, session.FamilyAccountID)
	if errors.Is(err, ErrFamilyNotFound) || errors.Is(err, ErrCorruptRecord) {
		return nil, s.discardSessionLocked(ctx, "session points at an unusable account", err)
	}
	if err != nil {
		return nil, err
	}

	member, ok := account.Member(session.CurrentMemberID)
	if !ok {
		return nil, s.discardSessionLocked(ctx, "session member is not in the account", nil)
	}

	return &View{Account: account, Session: session, Member: member}, nil
}

// discardSessionLocked deletes a session pointer that cannot be used and
// reports the logged-out state.
func (s *Store) discardSessionLocked(ctx context.Context, reason string, cause error) error {
	slog.Warn("Discarding stored session", "reason", reason, "error", cause)
	if err := s.records.Delete(ctx, SessionKey); err != nil {
		slog.Error("Failed to delete stored session", "error", err)
	}
	return ErrNoSession
}

func (s *Store) readAccountLocked(ctx context.Context, familyID string) (*models.FamilyAccount, error) {
	raw, err := s.records.Get(ctx, AccountKey(familyID))
	if errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrFamilyNotFound, familyID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read family account: %w", err)
	}

	var account models.FamilyAccount
	if err := json.Unmarshal(raw, &account); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptRecord, AccountKey(familyID), err)
	}
	if account.ID != familyID {
		return nil, fmt.Errorf("%w: %s: id mismatch", ErrCorruptRecord, AccountKey(familyID))
	}
	return &account, nil
}

// writeLocked persists the account and/or session in one batch. A nil
// argument leaves that record as it is.
func (s *Store) writeLocked(ctx context.Context, account *models.FamilyAccount, session *models.Session) error {
	var entries []storage.Entry

	if account != nil {
		data, err := json.Marshal(account)
		if err != nil {
			return fmt.Errorf("failed to encode family account: %w", err)
		}
		entries = append(entries, storage.Entry{Key: AccountKey(account.ID), Value: data})
	}
	if session != nil {
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to encode session: %w", err)
		}
		entries = append(entries, storage.Entry{Key: SessionKey, Value: data})
	}

	if err := s.records.Put(ctx, entries...); err != nil {
		slog.Error("Failed to persist ledger records", "error", err)
		return fmt.Errorf("failed to save: %w", err)
	}
	return nil
}

// sortNewestFirst orders by date descending. The sort is stable, so an entry
// inserted at the front stays ahead of older entries with the same timestamp.
func sortNewestFirst(txs []models.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		return txs[i].Date.After(txs[j].Date)
	})
}
