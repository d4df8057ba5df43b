package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/checkbook/internal/api"
	"github.com/mmynk/checkbook/internal/auth"
	"github.com/mmynk/checkbook/internal/calculator"
	"github.com/mmynk/checkbook/internal/ledger"
	"github.com/mmynk/checkbook/internal/metrics"
	"github.com/mmynk/checkbook/internal/middleware"
	"github.com/mmynk/checkbook/internal/models"
	"github.com/mmynk/checkbook/internal/receipt"
)

// LedgerService implements the Connect LedgerService.
type LedgerService struct {
	ledger  *ledger.Store
	scanner receipt.Extractor
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService over the ledger store and a
// receipt extractor.
func NewLedgerService(store *ledger.Store, scanner receipt.Extractor) *LedgerService {
	return &LedgerService{ledger: store, scanner: scanner}
}

// CreateFamily creates a family account and logs the founder in.
func (s *LedgerService) CreateFamily(ctx context.Context, req *connect.Request[api.CreateFamilyRequest]) (*connect.Response[api.CreateFamilyResponse], error) {
	slog.Info("CreateFamily request received", "family_name", req.Msg.FamilyName)

	account, session, err := s.ledger.CreateFamily(ctx, req.Msg.FounderName, req.Msg.FounderEmail, req.Msg.FamilyName)
	if err != nil {
		slog.Error("CreateFamily failed", "error", err)
		return nil, ledgerError(err)
	}
	metrics.FamiliesCreated.Inc()

	member, _ := account.Member(session.CurrentMemberID)
	return connect.NewResponse(&api.CreateFamilyResponse{
		Family: toFamily(account),
		Member: toMember(member),
		Invite: toInvite(account),
	}), nil
}

// JoinFamily adds a member to an existing family and logs them in.
func (s *LedgerService) JoinFamily(ctx context.Context, req *connect.Request[api.JoinFamilyRequest]) (*connect.Response[api.JoinFamilyResponse], error) {
	slog.Info("JoinFamily request received", "family_id", req.Msg.FamilyID)

	account, session, err := s.ledger.JoinFamily(ctx, req.Msg.MemberName, req.Msg.MemberEmail, req.Msg.FamilyID, req.Msg.Passphrase)
	if err != nil {
		slog.Error("JoinFamily failed", "family_id", req.Msg.FamilyID, "error", err)
		return nil, ledgerError(err)
	}
	metrics.MembersJoined.Inc()

	member, _ := account.Member(session.CurrentMemberID)
	return connect.NewResponse(&api.JoinFamilyResponse{
		Family: toFamily(account),
		Member: toMember(member),
	}), nil
}

// SignIn logs an existing member back in.
func (s *LedgerService) SignIn(ctx context.Context, req *connect.Request[api.SignInRequest]) (*connect.Response[api.SignInResponse], error) {
	slog.Info("SignIn request received", "family_id", req.Msg.FamilyID)

	account, session, err := s.ledger.SignIn(ctx, req.Msg.FamilyID, req.Msg.Passphrase, req.Msg.Email)
	if err != nil {
		slog.Error("SignIn failed", "family_id", req.Msg.FamilyID, "error", err)
		return nil, ledgerError(err)
	}

	member, _ := account.Member(session.CurrentMemberID)
	return connect.NewResponse(&api.SignInResponse{
		Family: toFamily(account),
		Member: toMember(member),
	}), nil
}

// Logout clears the session. Logging out twice is not an error.
func (s *LedgerService) Logout(ctx context.Context, req *connect.Request[api.LogoutRequest]) (*connect.Response[api.LogoutResponse], error) {
	slog.Info("Logout request received")

	if err := s.ledger.Logout(ctx); err != nil {
		slog.Error("Logout failed", "error", err)
		return nil, ledgerError(err)
	}
	return connect.NewResponse(&api.LogoutResponse{}), nil
}

// GetDashboard returns the active account with its derived balance, totals
// and newest-first transaction list.
func (s *LedgerService) GetDashboard(ctx context.Context, req *connect.Request[api.GetDashboardRequest]) (*connect.Response[api.GetDashboardResponse], error) {
	view, err := s.view(ctx)
	if err != nil {
		return nil, ledgerError(err)
	}
	account := view.Account
	summary := calculator.Summarize(account.Transactions)

	txs := make([]api.Transaction, len(account.Transactions))
	for i, tx := range account.Transactions {
		txs[i] = toTransaction(account, tx)
	}

	memberTotals := calculator.MemberTotals(account)
	members := make([]api.MemberTotal, len(memberTotals))
	for i, mt := range memberTotals {
		members[i] = api.MemberTotal{
			MemberID:   mt.MemberID,
			MemberName: mt.MemberName,
			Income:     mt.Income.StringFixed(2),
			Expenses:   mt.Expenses.StringFixed(2),
			Net:        mt.Net.StringFixed(2),
			Count:      mt.Count,
		}
	}

	categoryTotals := calculator.CategoryTotals(account.Transactions)
	categories := make([]api.CategoryTotal, len(categoryTotals))
	for i, ct := range categoryTotals {
		categories[i] = api.CategoryTotal{
			Category: string(ct.Category),
			Total:    ct.Total.StringFixed(2),
			Count:    ct.Count,
		}
	}

	slog.Info("GetDashboard successful", "family_id", account.ID, "transactions_count", summary.Count)

	return connect.NewResponse(&api.GetDashboardResponse{
		Family:         toFamily(account),
		Member:         toMember(view.Member),
		Balance:        summary.Balance.StringFixed(2),
		BalanceDisplay: calculator.FormatCurrency(summary.Balance),
		Income:         summary.Income.StringFixed(2),
		Expenses:       summary.Expenses.StringFixed(2),
		Transactions:   txs,
		MemberTotals:   members,
		CategoryTotals: categories,
		Categories:     models.CategoryNames(),
	}), nil
}

// GetInvite returns the credentials and share text for the active family.
func (s *LedgerService) GetInvite(ctx context.Context, req *connect.Request[api.GetInviteRequest]) (*connect.Response[api.GetInviteResponse], error) {
	view, err := s.view(ctx)
	if err != nil {
		return nil, ledgerError(err)
	}
	return connect.NewResponse(&api.GetInviteResponse{Invite: toInvite(view.Account)}), nil
}

// AddTransaction resolves the add-transaction form and records it.
func (s *LedgerService) AddTransaction(ctx context.Context, req *connect.Request[api.AddTransactionRequest]) (*connect.Response[api.AddTransactionResponse], error) {
	slog.Info("AddTransaction request received",
		"category", req.Msg.Category,
		"expense", req.Msg.Expense,
	)

	draft := ledger.Draft{
		Description: req.Msg.Description,
		Amount:      req.Msg.Amount,
		Expense:     req.Msg.Expense,
		MemberID:    req.Msg.MemberID,
	}
	if req.Msg.Category != "" {
		category, err := models.ParseCategory(req.Msg.Category)
		if err != nil {
			return nil, ledgerError(fmt.Errorf("%w: %v", ledger.ErrInvalidInput, err))
		}
		draft.Category = category
	}

	tx, account, err := s.ledger.AddDraft(ctx, draft)
	if err != nil {
		slog.Error("AddTransaction failed", "error", err)
		return nil, ledgerError(err)
	}
	kind := "income"
	if tx.IsExpense() {
		kind = "expense"
	}
	metrics.TransactionsAdded.WithLabelValues(kind).Inc()

	balance := calculator.Balance(account.Transactions)

	return connect.NewResponse(&api.AddTransactionResponse{
		Transaction:    toTransaction(account, *tx),
		Balance:        balance.StringFixed(2),
		BalanceDisplay: calculator.FormatCurrency(balance),
	}), nil
}

// ScanReceipt extracts candidate fields from a receipt image and returns
// them with a pre-filled expense draft. Nothing is recorded.
func (s *LedgerService) ScanReceipt(ctx context.Context, req *connect.Request[api.ScanReceiptRequest]) (*connect.Response[api.ScanReceiptResponse], error) {
	slog.Info("ScanReceipt request received", "image_bytes", len(req.Msg.Image))

	if _, err := s.view(ctx); err != nil {
		return nil, ledgerError(err)
	}

	r, err := s.scanner.Extract(ctx, req.Msg.Image)
	if err != nil {
		if errors.Is(err, receipt.ErrScanInProgress) {
			metrics.ReceiptScans.WithLabelValues(metrics.ScanBusy).Inc()
			return nil, connect.NewError(connect.CodeResourceExhausted, errors.New("A receipt is already being analyzed. Please wait."))
		}
		metrics.ReceiptScans.WithLabelValues(metrics.ScanFailed).Inc()
		slog.Error("ScanReceipt failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, errors.New(receipt.UserMessage))
	}
	metrics.ReceiptScans.WithLabelValues(metrics.ScanOK).Inc()

	draft := ledger.DraftFromReceipt(r)
	return connect.NewResponse(&api.ScanReceiptResponse{
		Merchant:    r.Merchant,
		Total:       r.Total.StringFixed(2),
		Category:    string(r.Category),
		Description: r.Description,
		Draft: api.Draft{
			Description: draft.Description,
			Amount:      draft.Amount,
			Category:    string(draft.Category),
			Expense:     draft.Expense,
		},
	}), nil
}

// view prefers the view loaded by the session interceptor.
func (s *LedgerService) view(ctx context.Context) (*ledger.View, error) {
	if view := middleware.GetView(ctx); view != nil {
		return view, nil
	}
	return s.ledger.Current(ctx)
}

// ledgerError maps ledger errors to Connect codes. The message is the one a
// person should see; the cause stays in the server log.
func ledgerError(err error) error {
	code := connect.CodeInternal
	switch {
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, ledger.ErrUnknownMember):
		code = connect.CodeInvalidArgument
	case errors.Is(err, ledger.ErrFamilyNotFound), errors.Is(err, ledger.ErrMemberNotFound):
		code = connect.CodeNotFound
	case errors.Is(err, ledger.ErrWrongPassphrase), errors.Is(err, auth.ErrEmptyPassphrase):
		code = connect.CodePermissionDenied
	case errors.Is(err, ledger.ErrEmailTaken):
		code = connect.CodeAlreadyExists
	case errors.Is(err, ledger.ErrNoSession):
		code = connect.CodeUnauthenticated
	}
	return connect.NewError(code, errors.New(ledger.UserMessage(err)))
}

func toMember(m models.Member) api.Member {
	return api.Member{ID: m.ID, Name: m.Name, Email: m.Email}
}

func toFamily(account *models.FamilyAccount) api.Family {
	members := make([]api.Member, len(account.Members))
	for i, m := range account.Members {
		members[i] = toMember(m)
	}
	return api.Family{ID: account.ID, Name: account.Name, Members: members}
}

func toInvite(account *models.FamilyAccount) api.Invite {
	return api.Invite{
		FamilyID:   account.ID,
		Passphrase: account.Passphrase,
		Text:       ledger.InviteText(account),
	}
}

func toTransaction(account *models.FamilyAccount, tx models.Transaction) api.Transaction {
	return api.Transaction{
		ID:          tx.ID,
		MemberID:    tx.MemberID,
		MemberName:  account.MemberName(tx.MemberID),
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
		Display:     calculator.FormatEntryAmount(tx.Amount),
		Category:    string(tx.Category),
		Date:        tx.Date,
	}
}
