package middleware

import (
	"context"
	"errors"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/checkbook/internal/ledger"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// ViewKey is the context key for the logged-in ledger view.
const ViewKey contextKey = "ledger_view"

// SessionLoader loads the logged-in state. *ledger.Store implements it.
type SessionLoader interface {
	Current(ctx context.Context) (*ledger.View, error)
}

// GetView returns the ledger view stored by RequireSession, or nil.
func GetView(ctx context.Context) *ledger.View {
	view, _ := ctx.Value(ViewKey).(*ledger.View)
	return view
}

// GetMemberID returns the logged-in member ID, or "" before a session exists.
func GetMemberID(ctx context.Context) string {
	if view := GetView(ctx); view != nil {
		return view.Member.ID
	}
	return ""
}

// GetFamilyID returns the active family account ID, or "".
func GetFamilyID(ctx context.Context) string {
	if view := GetView(ctx); view != nil {
		return view.Account.ID
	}
	return ""
}

// RequireSession rejects calls to the listed procedures unless a member is
// logged in, and adds the ledger view to the context of those calls.
// Other procedures pass through untouched.
func RequireSession(sessions SessionLoader, procedures ...string) connect.UnaryInterceptorFunc {
	protected := make(map[string]bool, len(procedures))
	for _, p := range procedures {
		protected[p] = true
	}

	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			procedure := req.Spec().Procedure
			if !protected[procedure] {
				return next(ctx, req)
			}

			view, err := sessions.Current(ctx)
			if err != nil {
				if errors.Is(err, ledger.ErrNoSession) {
					slog.Warn("RPC rejected: no session", "procedure", procedure)
					return nil, connect.NewError(connect.CodeUnauthenticated, errors.New(ledger.UserMessage(err)))
				}
				slog.Error("Failed to load session", "procedure", procedure, "error", err)
				return nil, connect.NewError(connect.CodeInternal, errors.New(ledger.UserMessage(err)))
			}

			return next(context.WithValue(ctx, ViewKey, view), req)
		}
	}
}
