package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the ledger service.
const LedgerServiceName = "checkbook.v1.LedgerService"

// Procedure paths, as they appear in URLs and in Spec().Procedure.
const (
	LedgerServiceCreateFamilyProcedure   = "/checkbook.v1.LedgerService/CreateFamily"
	LedgerServiceJoinFamilyProcedure     = "/checkbook.v1.LedgerService/JoinFamily"
	LedgerServiceSignInProcedure         = "/checkbook.v1.LedgerService/SignIn"
	LedgerServiceLogoutProcedure         = "/checkbook.v1.LedgerService/Logout"
	LedgerServiceGetDashboardProcedure   = "/checkbook.v1.LedgerService/GetDashboard"
	LedgerServiceGetInviteProcedure      = "/checkbook.v1.LedgerService/GetInvite"
	LedgerServiceAddTransactionProcedure = "/checkbook.v1.LedgerService/AddTransaction"
	LedgerServiceScanReceiptProcedure    = "/checkbook.v1.LedgerService/ScanReceipt"
)

// SessionProcedures need a logged-in member.
var SessionProcedures = []string{
	LedgerServiceGetDashboardProcedure,
	LedgerServiceGetInviteProcedure,
	LedgerServiceAddTransactionProcedure,
	LedgerServiceScanReceiptProcedure,
}

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	CreateFamily(context.Context, *connect.Request[CreateFamilyRequest]) (*connect.Response[CreateFamilyResponse], error)
	JoinFamily(context.Context, *connect.Request[JoinFamilyRequest]) (*connect.Response[JoinFamilyResponse], error)
	SignIn(context.Context, *connect.Request[SignInRequest]) (*connect.Response[SignInResponse], error)
	Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error)
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
	GetInvite(context.Context, *connect.Request[GetInviteRequest]) (*connect.Response[GetInviteResponse], error)
	AddTransaction(context.Context, *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error)
	ScanReceipt(context.Context, *connect.Request[ScanReceiptRequest]) (*connect.Response[ScanReceiptResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)

	createFamily := connect.NewUnaryHandler(LedgerServiceCreateFamilyProcedure, svc.CreateFamily, opts...)
	joinFamily := connect.NewUnaryHandler(LedgerServiceJoinFamilyProcedure, svc.JoinFamily, opts...)
	signIn := connect.NewUnaryHandler(LedgerServiceSignInProcedure, svc.SignIn, opts...)
	logout := connect.NewUnaryHandler(LedgerServiceLogoutProcedure, svc.Logout, opts...)
	getDashboard := connect.NewUnaryHandler(LedgerServiceGetDashboardProcedure, svc.GetDashboard, opts...)
	getInvite := connect.NewUnaryHandler(LedgerServiceGetInviteProcedure, svc.GetInvite, opts...)
	addTransaction := connect.NewUnaryHandler(LedgerServiceAddTransactionProcedure, svc.AddTransaction, opts...)
	scanReceipt := connect.NewUnaryHandler(LedgerServiceScanReceiptProcedure, svc.ScanReceipt, opts...)

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateFamilyProcedure:
			createFamily.ServeHTTP(w, r)
		case LedgerServiceJoinFamilyProcedure:
			joinFamily.ServeHTTP(w, r)
		case LedgerServiceSignInProcedure:
			signIn.ServeHTTP(w, r)
		case LedgerServiceLogoutProcedure:
			logout.ServeHTTP(w, r)
		case LedgerServiceGetDashboardProcedure:
			getDashboard.ServeHTTP(w, r)
		case LedgerServiceGetInviteProcedure:
			getInvite.ServeHTTP(w, r)
		case LedgerServiceAddTransactionProcedure:
			addTransaction.ServeHTTP(w, r)
		case LedgerServiceScanReceiptProcedure:
			scanReceipt.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient calls a remote ledger service.
type LedgerServiceClient interface {
	CreateFamily(context.Context, *connect.Request[CreateFamilyRequest]) (*connect.Response[CreateFamilyResponse], error)
	JoinFamily(context.Context, *connect.Request[JoinFamilyRequest]) (*connect.Response[JoinFamilyResponse], error)
	SignIn(context.Context, *connect.Request[SignInRequest]) (*connect.Response[SignInResponse], error)
	Logout(context.Context, *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error)
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
	GetInvite(context.Context, *connect.Request[GetInviteRequest]) (*connect.Response[GetInviteResponse], error)
	AddTransaction(context.Context, *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error)
	ScanReceipt(context.Context, *connect.Request[ScanReceiptRequest]) (*connect.Response[ScanReceiptResponse], error)
}

// NewLedgerServiceClient constructs a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &ledgerServiceClient{
		createFamily:   connect.NewClient[CreateFamilyRequest, CreateFamilyResponse](httpClient, baseURL+LedgerServiceCreateFamilyProcedure, opts...),
		joinFamily:     connect.NewClient[JoinFamilyRequest, JoinFamilyResponse](httpClient, baseURL+LedgerServiceJoinFamilyProcedure, opts...),
		signIn:         connect.NewClient[SignInRequest, SignInResponse](httpClient, baseURL+LedgerServiceSignInProcedure, opts...),
		logout:         connect.NewClient[LogoutRequest, LogoutResponse](httpClient, baseURL+LedgerServiceLogoutProcedure, opts...),
		getDashboard:   connect.NewClient[GetDashboardRequest, GetDashboardResponse](httpClient, baseURL+LedgerServiceGetDashboardProcedure, opts...),
		getInvite:      connect.NewClient[GetInviteRequest, GetInviteResponse](httpClient, baseURL+LedgerServiceGetInviteProcedure, opts...),
		addTransaction: connect.NewClient[AddTransactionRequest, AddTransactionResponse](httpClient, baseURL+LedgerServiceAddTransactionProcedure, opts...),
		scanReceipt:    connect.NewClient[ScanReceiptRequest, ScanReceiptResponse](httpClient, baseURL+LedgerServiceScanReceiptProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createFamily   *connect.Client[CreateFamilyRequest, CreateFamilyResponse]
	joinFamily     *connect.Client[JoinFamilyRequest, JoinFamilyResponse]
	signIn         *connect.Client[SignInRequest, SignInResponse]
	logout         *connect.Client[LogoutRequest, LogoutResponse]
	getDashboard   *connect.Client[GetDashboardRequest, GetDashboardResponse]
	getInvite      *connect.Client[GetInviteRequest, GetInviteResponse]
	addTransaction *connect.Client[AddTransactionRequest, AddTransactionResponse]
	scanReceipt    *connect.Client[ScanReceiptRequest, ScanReceiptResponse]
}

func (c *ledgerServiceClient) CreateFamily(ctx context.Context, req *connect.Request[CreateFamilyRequest]) (*connect.Response[CreateFamilyResponse], error) {
	return c.createFamily.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) JoinFamily(ctx context.Context, req *connect.Request[JoinFamilyRequest]) (*connect.Response[JoinFamilyResponse], error) {
	return c.joinFamily.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SignIn(ctx context.Context, req *connect.Request[SignInRequest]) (*connect.Response[SignInResponse], error) {
	return c.signIn.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) Logout(ctx context.Context, req *connect.Request[LogoutRequest]) (*connect.Response[LogoutResponse], error) {
	return c.logout.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetInvite(ctx context.Context, req *connect.Request[GetInviteRequest]) (*connect.Response[GetInviteResponse], error) {
	return c.getInvite.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddTransaction(ctx context.Context, req *connect.Request[AddTransactionRequest]) (*connect.Response[AddTransactionResponse], error) {
	return c.addTransaction.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ScanReceipt(ctx context.Context, req *connect.Request[ScanReceiptRequest]) (*connect.Response[ScanReceiptResponse], error) {
	return c.scanReceipt.CallUnary(ctx, req)
}
