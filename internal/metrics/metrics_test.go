package metrics

import (
	"context"
	"errors"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInterceptor(t *testing.T) {
	failing := Interceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return nil, connect.NewError(connect.CodeNotFound, errors.New("family account not found"))
	})
	succeeding := Interceptor()(func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
		return connect.NewResponse(&struct{}{}), nil
	})

	req := connect.NewRequest(&struct{}{})
	procedure := req.Spec().Procedure
	beforeFailed := testutil.ToFloat64(RPCRequests.WithLabelValues(procedure, "not_found"))
	beforeOK := testutil.ToFloat64(RPCRequests.WithLabelValues(procedure, "ok"))

	if _, err := failing(context.Background(), req); connect.CodeOf(err) != connect.CodeNotFound {
		t.Fatalf("expected error to pass through, got %v", err)
	}
	if _, err := succeeding(context.Background(), req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := testutil.ToFloat64(RPCRequests.WithLabelValues(procedure, "not_found")) - beforeFailed; got != 1 {
		t.Errorf("not_found count: expected 1, got %v", got)
	}
	if got := testutil.ToFloat64(RPCRequests.WithLabelValues(procedure, "ok")) - beforeOK; got != 1 {
		t.Errorf("ok count: expected 1, got %v", got)
	}
}
