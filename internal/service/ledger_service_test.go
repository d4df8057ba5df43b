package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/checkbook/internal/api"
	"github.com/mmynk/checkbook/internal/ledger"
	"github.com/mmynk/checkbook/internal/middleware"
	"github.com/mmynk/checkbook/internal/models"
	"github.com/mmynk/checkbook/internal/receipt"
	"github.com/mmynk/checkbook/internal/storage/sqlite"
)

// fakeExtractor returns a fixed receipt or error.
type fakeExtractor struct {
	receipt *models.Receipt
	err     error
	calls   int
}

func (f *fakeExtractor) Extract(ctx context.Context, image []byte) (*models.Receipt, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.receipt, nil
}

// setupTestServer starts the ledger service over a temp SQLite database.
func setupTestServer(t *testing.T, scanner receipt.Extractor) api.LedgerServiceClient {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	ledgerStore := ledger.New(store)

	path, handler := api.NewLedgerServiceHandler(
		NewLedgerService(ledgerStore, scanner),
		connect.WithInterceptors(
			middleware.RequireSession(ledgerStore, api.SessionProcedures...),
			middleware.LoggingInterceptor(),
		),
	)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)

	t.Cleanup(func() {
		server.Close()
		store.Close()
	})

	return api.NewLedgerServiceClient(http.DefaultClient, server.URL)
}

func createSmiths(t *testing.T, client api.LedgerServiceClient) *api.CreateFamilyResponse {
	t.Helper()
	resp, err := client.CreateFamily(context.Background(), connect.NewRequest(&api.CreateFamilyRequest{
		FounderName:  "Ann",
		FounderEmail: "ann@x.com",
		FamilyName:   "Smiths",
	}))
	if err != nil {
		t.Fatalf("CreateFamily failed: %v", err)
	}
	return resp.Msg
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %v error, got nil", want)
	}
	if got := connect.CodeOf(err); got != want {
		t.Errorf("code: expected %v, got %v (%v)", want, got, err)
	}
}

func TestCreateFamily(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})

	created := createSmiths(t, client)

	if !strings.HasPrefix(created.Family.ID, "fam-") {
		t.Errorf("family ID: expected fam- prefix, got '%s'", created.Family.ID)
	}
	if created.Family.Name != "Smiths" {
		t.Errorf("name: expected 'Smiths', got '%s'", created.Family.Name)
	}
	if len(created.Family.Members) != 1 {
		t.Errorf("members: expected 1, got %d", len(created.Family.Members))
	}
	if created.Member.Email != "ann@x.com" {
		t.Errorf("member email: expected 'ann@x.com', got '%s'", created.Member.Email)
	}
	if created.Invite.Passphrase == "" {
		t.Error("expected passphrase in invite")
	}
	if !strings.Contains(created.Invite.Text, "Family ID: "+created.Family.ID) {
		t.Errorf("invite text missing family ID: %q", created.Invite.Text)
	}
}

func TestCreateFamily_InvalidInput(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})

	_, err := client.CreateFamily(context.Background(), connect.NewRequest(&api.CreateFamilyRequest{
		FounderName:  "Ann",
		FounderEmail: "not-an-email",
		FamilyName:   "Smiths",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestJoinFamily_Errors(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})
	created := createSmiths(t, client)

	tests := []struct {
		name string
		req  *api.JoinFamilyRequest
		want connect.Code
	}{
		{
			name: "unknown family",
			req:  &api.JoinFamilyRequest{MemberName: "Bob", MemberEmail: "bob@x.com", FamilyID: "fam-nope", Passphrase: created.Invite.Passphrase},
			want: connect.CodeNotFound,
		},
		{
			name: "wrong passphrase",
			req:  &api.JoinFamilyRequest{MemberName: "Bob", MemberEmail: "bob@x.com", FamilyID: created.Family.ID, Passphrase: "0000-0000-0000"},
			want: connect.CodePermissionDenied,
		},
		{
			name: "email taken",
			req:  &api.JoinFamilyRequest{MemberName: "Ann Again", MemberEmail: "ANN@x.com", FamilyID: created.Family.ID, Passphrase: created.Invite.Passphrase},
			want: connect.CodeAlreadyExists,
		},
		{
			name: "missing name",
			req:  &api.JoinFamilyRequest{MemberEmail: "bob@x.com", FamilyID: created.Family.ID, Passphrase: created.Invite.Passphrase},
			want: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.JoinFamily(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}

	dash, err := client.GetDashboard(context.Background(), connect.NewRequest(&api.GetDashboardRequest{}))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if len(dash.Msg.Family.Members) != 1 {
		t.Errorf("members: expected 1 after rejected joins, got %d", len(dash.Msg.Family.Members))
	}
}

func TestAddTransaction(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})
	createSmiths(t, client)

	resp, err := client.AddTransaction(context.Background(), connect.NewRequest(&api.AddTransactionRequest{
		Description: "Groceries run",
		Amount:      "54.20",
		Category:    "groceries",
		Expense:     true,
	}))
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	if resp.Msg.Transaction.Amount != "-54.20" {
		t.Errorf("amount: expected '-54.20', got '%s'", resp.Msg.Transaction.Amount)
	}
	if resp.Msg.Transaction.Category != "Groceries" {
		t.Errorf("category: expected 'Groceries', got '%s'", resp.Msg.Transaction.Category)
	}
	if resp.Msg.Transaction.MemberName != "Ann" {
		t.Errorf("member name: expected 'Ann', got '%s'", resp.Msg.Transaction.MemberName)
	}
	if resp.Msg.BalanceDisplay != "-$54.20" {
		t.Errorf("balance: expected '-$54.20', got '%s'", resp.Msg.BalanceDisplay)
	}
}

func TestAddTransaction_ExpenseIncomeBecomesOther(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})
	createSmiths(t, client)

	resp, err := client.AddTransaction(context.Background(), connect.NewRequest(&api.AddTransactionRequest{
		Description: "Refund mixup",
		Amount:      "10",
		Category:    "Income",
		Expense:     true,
	}))
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if resp.Msg.Transaction.Category != "Other" {
		t.Errorf("category: expected 'Other', got '%s'", resp.Msg.Transaction.Category)
	}
	if resp.Msg.Transaction.Amount != "-10.00" {
		t.Errorf("amount: expected '-10.00', got '%s'", resp.Msg.Transaction.Amount)
	}
}

func TestAddTransaction_Errors(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})
	createSmiths(t, client)

	tests := []struct {
		name string
		req  *api.AddTransactionRequest
		want connect.Code
	}{
		{"unknown category", &api.AddTransactionRequest{Description: "x", Amount: "1", Category: "Snacks"}, connect.CodeInvalidArgument},
		{"bad amount", &api.AddTransactionRequest{Description: "x", Amount: "abc"}, connect.CodeInvalidArgument},
		{"huge exponent", &api.AddTransactionRequest{Description: "x", Amount: "1e400000000", Expense: true}, connect.CodeInvalidArgument},
		{"fraction of a cent", &api.AddTransactionRequest{Description: "x", Amount: "0.001"}, connect.CodeInvalidArgument},
		{"missing description", &api.AddTransactionRequest{Amount: "1"}, connect.CodeInvalidArgument},
		{"unknown member", &api.AddTransactionRequest{Description: "x", Amount: "1", MemberID: "ghost"}, connect.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.AddTransaction(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.want)
		})
	}
}

func TestSessionRequired(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})
	ctx := context.Background()

	_, err := client.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = client.AddTransaction(ctx, connect.NewRequest(&api.AddTransactionRequest{Description: "x", Amount: "1"}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = client.GetInvite(ctx, connect.NewRequest(&api.GetInviteRequest{}))
	assertCode(t, err, connect.CodeUnauthenticated)

	_, err = client.ScanReceipt(ctx, connect.NewRequest(&api.ScanReceiptRequest{Image: []byte("x")}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestScanReceipt(t *testing.T) {
	scanner := &fakeExtractor{receipt: &models.Receipt{
		Merchant:    "Corner Market",
		Total:       decimal.RequireFromString("54.2"),
		Category:    models.CategoryGroceries,
		Description: "Weekly groceries",
	}}
	client := setupTestServer(t, scanner)
	createSmiths(t, client)

	resp, err := client.ScanReceipt(context.Background(), connect.NewRequest(&api.ScanReceiptRequest{Image: []byte("img")}))
	if err != nil {
		t.Fatalf("ScanReceipt failed: %v", err)
	}

	if resp.Msg.Total != "54.20" {
		t.Errorf("total: expected '54.20', got '%s'", resp.Msg.Total)
	}
	if !resp.Msg.Draft.Expense {
		t.Error("expected draft to be an expense")
	}
	if resp.Msg.Draft.Description != "Weekly groceries" {
		t.Errorf("draft description: expected 'Weekly groceries', got '%s'", resp.Msg.Draft.Description)
	}

	// Scanning never records anything.
	dash, err := client.GetDashboard(context.Background(), connect.NewRequest(&api.GetDashboardRequest{}))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if len(dash.Msg.Transactions) != 0 {
		t.Errorf("transactions: expected 0 after scan, got %d", len(dash.Msg.Transactions))
	}
}

func TestScanReceipt_Errors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    connect.Code
		message string
	}{
		{
			name:    "extraction failed",
			err:     &receipt.ScanError{Cause: errors.New("dial tcp: connection refused")},
			want:    connect.CodeUnavailable,
			message: receipt.UserMessage,
		},
		{
			name: "scan in progress",
			err:  &receipt.ScanError{Cause: receipt.ErrScanInProgress},
			want: connect.CodeResourceExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := setupTestServer(t, &fakeExtractor{err: tt.err})
			createSmiths(t, client)

			_, err := client.ScanReceipt(context.Background(), connect.NewRequest(&api.ScanReceiptRequest{Image: []byte("img")}))
			assertCode(t, err, tt.want)

			var connectErr *connect.Error
			if tt.message != "" && errors.As(err, &connectErr) && connectErr.Message() != tt.message {
				t.Errorf("message: expected %q, got %q", tt.message, connectErr.Message())
			}
			if strings.Contains(err.Error(), "connection refused") {
				t.Errorf("underlying cause leaked to client: %v", err)
			}
		})
	}
}

// TestEndToEnd walks the Smiths scenario through the RPC surface.
func TestEndToEnd(t *testing.T) {
	client := setupTestServer(t, receipt.Unconfigured{})
	ctx := context.Background()

	created := createSmiths(t, client)

	if _, err := client.AddTransaction(ctx, connect.NewRequest(&api.AddTransactionRequest{
		Description: "Groceries", Amount: "54.20", Category: "Groceries", Expense: true,
	})); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	invite, err := client.GetInvite(ctx, connect.NewRequest(&api.GetInviteRequest{}))
	if err != nil {
		t.Fatalf("GetInvite failed: %v", err)
	}
	if invite.Msg.Invite.FamilyID != created.Family.ID {
		t.Errorf("invite family ID: expected '%s', got '%s'", created.Family.ID, invite.Msg.Invite.FamilyID)
	}

	if _, err := client.Logout(ctx, connect.NewRequest(&api.LogoutRequest{})); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	joined, err := client.JoinFamily(ctx, connect.NewRequest(&api.JoinFamilyRequest{
		MemberName:  "Bob",
		MemberEmail: "bob@x.com",
		FamilyID:    invite.Msg.Invite.FamilyID,
		Passphrase:  invite.Msg.Invite.Passphrase,
	}))
	if err != nil {
		t.Fatalf("JoinFamily failed: %v", err)
	}
	if len(joined.Msg.Family.Members) != 2 {
		t.Errorf("members: expected 2, got %d", len(joined.Msg.Family.Members))
	}

	if _, err := client.AddTransaction(ctx, connect.NewRequest(&api.AddTransactionRequest{
		Description: "Paycheck", Amount: "1000", Category: "Income",
	})); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	if _, err := client.Logout(ctx, connect.NewRequest(&api.LogoutRequest{})); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if _, err := client.SignIn(ctx, connect.NewRequest(&api.SignInRequest{
		FamilyID:   created.Family.ID,
		Passphrase: created.Invite.Passphrase,
		Email:      "ann@x.com",
	})); err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}

	dash, err := client.GetDashboard(ctx, connect.NewRequest(&api.GetDashboardRequest{}))
	if err != nil {
		t.Fatalf("GetDashboard failed: %v", err)
	}
	if dash.Msg.Balance != "945.80" {
		t.Errorf("balance: expected '945.80', got '%s'", dash.Msg.Balance)
	}
	if dash.Msg.BalanceDisplay != "$945.80" {
		t.Errorf("balance display: expected '$945.80', got '%s'", dash.Msg.BalanceDisplay)
	}
	if dash.Msg.Member.Name != "Ann" {
		t.Errorf("member: expected 'Ann', got '%s'", dash.Msg.Member.Name)
	}
	if len(dash.Msg.Transactions) != 2 {
		t.Fatalf("transactions: expected 2, got %d", len(dash.Msg.Transactions))
	}
	if dash.Msg.Transactions[0].Description != "Paycheck" {
		t.Errorf("newest first: expected 'Paycheck', got '%s'", dash.Msg.Transactions[0].Description)
	}
	if dash.Msg.Transactions[0].MemberName != "Bob" {
		t.Errorf("member name: expected 'Bob', got '%s'", dash.Msg.Transactions[0].MemberName)
	}
}
