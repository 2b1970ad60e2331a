package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settle/internal/metrics"
	"github.com/mmynk/settle/pkg/api"
	"github.com/mmynk/settle/pkg/api/apiconnect"
)

// stubSettlement records the request ID seen by the handler.
type stubSettlement struct {
	apiconnect.UnimplementedSettlementServiceHandler
	mu   sync.Mutex
	seen string
}

func (s *stubSettlement) lastID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen
}

func (s *stubSettlement) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	s.mu.Lock()
	s.seen = GetRequestID(ctx)
	s.mu.Unlock()
	if len(req.Msg.Expenses) > 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("boom"))
	}
	return connect.NewResponse(&api.SettleResponse{}), nil
}

func newTestClient(t *testing.T, stub *stubSettlement, m *metrics.Metrics) apiconnect.SettlementServiceClient {
	t.Helper()
	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewSettlementServiceHandler(stub,
		connect.WithInterceptors(RequestID(), LoggingInterceptor(), MetricsInterceptor(m)),
	))
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return apiconnect.NewSettlementServiceClient(srv.Client(), srv.URL)
}

func TestRequestID(t *testing.T) {
	stub := &stubSettlement{}
	client := newTestClient(t, stub, nil)

	req := connect.NewRequest(&api.SettleRequest{})
	req.Header().Set(RequestIDHeader, "abc")
	resp, err := client.Settle(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "abc", stub.lastID())
	assert.Equal(t, "abc", resp.Header().Get(RequestIDHeader))

	resp, err = client.Settle(context.Background(), connect.NewRequest(&api.SettleRequest{}))
	require.NoError(t, err)
	assert.Len(t, stub.lastID(), 36)
	assert.Equal(t, stub.lastID(), resp.Header().Get(RequestIDHeader))
}

func TestGetRequestID_Missing(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	client := newTestClient(t, &stubSettlement{}, metrics.New(reg))

	_, err := client.Settle(context.Background(), connect.NewRequest(&api.SettleRequest{}))
	require.NoError(t, err)
	_, err = client.Settle(context.Background(), connect.NewRequest(&api.SettleRequest{
		Expenses: []*api.Expense{{Payer: "A"}},
	}))
	require.Error(t, err)

	n, err := testutil.GatherAndCount(reg, "settle_rpc_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n, "one series per result code")
}

func TestIsClientError(t *testing.T) {
	tests := []struct {
		code connect.Code
		want bool
	}{
		{connect.CodeInvalidArgument, true},
		{connect.CodeNotFound, true},
		{connect.CodeFailedPrecondition, true},
		{connect.CodeInternal, false},
		{connect.CodeUnknown, false},
	}
	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, isClientError(tt.code))
		})
	}
}
