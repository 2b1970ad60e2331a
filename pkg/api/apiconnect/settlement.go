// Package apiconnect wires the settle services to Connect handlers and clients.
package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/pkg/api"
)

const (
	// SettlementServiceName is the fully-qualified name of the SettlementService.
	SettlementServiceName = "settle.v1.SettlementService"

	SettlementServiceCalculateSplitProcedure  = "/settle.v1.SettlementService/CalculateSplit"
	SettlementServiceComputeBalancesProcedure = "/settle.v1.SettlementService/ComputeBalances"
	SettlementServiceSimplifyDebtsProcedure   = "/settle.v1.SettlementService/SimplifyDebts"
	SettlementServiceSettleProcedure          = "/settle.v1.SettlementService/Settle"
)

// SettlementServiceHandler is the server side of the stateless settlement API.
type SettlementServiceHandler interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	ComputeBalances(context.Context, *connect.Request[api.ComputeBalancesRequest]) (*connect.Response[api.ComputeBalancesResponse], error)
	SimplifyDebts(context.Context, *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error)
	Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error)
}

// NewSettlementServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewSettlementServiceHandler(svc SettlementServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(SettlementServiceCalculateSplitProcedure, connect.NewUnaryHandler(SettlementServiceCalculateSplitProcedure, svc.CalculateSplit, opts...))
	mux.Handle(SettlementServiceComputeBalancesProcedure, connect.NewUnaryHandler(SettlementServiceComputeBalancesProcedure, svc.ComputeBalances, opts...))
	mux.Handle(SettlementServiceSimplifyDebtsProcedure, connect.NewUnaryHandler(SettlementServiceSimplifyDebtsProcedure, svc.SimplifyDebts, opts...))
	mux.Handle(SettlementServiceSettleProcedure, connect.NewUnaryHandler(SettlementServiceSettleProcedure, svc.Settle, opts...))
	return "/" + SettlementServiceName + "/", mux
}

// SettlementServiceClient is a client for the settle.v1.SettlementService service.
type SettlementServiceClient interface {
	CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error)
	ComputeBalances(context.Context, *connect.Request[api.ComputeBalancesRequest]) (*connect.Response[api.ComputeBalancesResponse], error)
	SimplifyDebts(context.Context, *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error)
	Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error)
}

// NewSettlementServiceClient constructs a client for the settle.v1.SettlementService service.
// baseURL is the scheme and host of the server, e.g. http://localhost:8080.
func NewSettlementServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) SettlementServiceClient {
	opts = clientOptions(opts)
	return &settlementServiceClient{
		calculateSplit:  connect.NewClient[api.CalculateSplitRequest, api.CalculateSplitResponse](httpClient, baseURL+SettlementServiceCalculateSplitProcedure, opts...),
		computeBalances: connect.NewClient[api.ComputeBalancesRequest, api.ComputeBalancesResponse](httpClient, baseURL+SettlementServiceComputeBalancesProcedure, opts...),
		simplifyDebts:   connect.NewClient[api.SimplifyDebtsRequest, api.SimplifyDebtsResponse](httpClient, baseURL+SettlementServiceSimplifyDebtsProcedure, opts...),
		settle:          connect.NewClient[api.SettleRequest, api.SettleResponse](httpClient, baseURL+SettlementServiceSettleProcedure, opts...),
	}
}

type settlementServiceClient struct {
	calculateSplit  *connect.Client[api.CalculateSplitRequest, api.CalculateSplitResponse]
	computeBalances *connect.Client[api.ComputeBalancesRequest, api.ComputeBalancesResponse]
	simplifyDebts   *connect.Client[api.SimplifyDebtsRequest, api.SimplifyDebtsResponse]
	settle          *connect.Client[api.SettleRequest, api.SettleResponse]
}

func (c *settlementServiceClient) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return c.calculateSplit.CallUnary(ctx, req)
}

func (c *settlementServiceClient) ComputeBalances(ctx context.Context, req *connect.Request[api.ComputeBalancesRequest]) (*connect.Response[api.ComputeBalancesResponse], error) {
	return c.computeBalances.CallUnary(ctx, req)
}

func (c *settlementServiceClient) SimplifyDebts(ctx context.Context, req *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	return c.simplifyDebts.CallUnary(ctx, req)
}

func (c *settlementServiceClient) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return c.settle.CallUnary(ctx, req)
}

// UnimplementedSettlementServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedSettlementServiceHandler struct{}

func (UnimplementedSettlementServiceHandler) CalculateSplit(context.Context, *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.SettlementService.CalculateSplit is not implemented"))
}

func (UnimplementedSettlementServiceHandler) ComputeBalances(context.Context, *connect.Request[api.ComputeBalancesRequest]) (*connect.Response[api.ComputeBalancesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.SettlementService.ComputeBalances is not implemented"))
}

func (UnimplementedSettlementServiceHandler) SimplifyDebts(context.Context, *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.SettlementService.SimplifyDebts is not implemented"))
}

func (UnimplementedSettlementServiceHandler) Settle(context.Context, *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.SettlementService.Settle is not implemented"))
}

// handlerOptions puts the JSON codec first so callers can still override it.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
