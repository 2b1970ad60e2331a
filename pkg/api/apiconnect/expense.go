package apiconnect

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/pkg/api"
)

const (
	// ExpenseServiceName is the fully-qualified name of the ExpenseService.
	ExpenseServiceName = "settle.v1.ExpenseService"

	ExpenseServiceAddExpenseProcedure    = "/settle.v1.ExpenseService/AddExpense"
	ExpenseServiceGetExpenseProcedure    = "/settle.v1.ExpenseService/GetExpense"
	ExpenseServiceListExpensesProcedure  = "/settle.v1.ExpenseService/ListExpenses"
	ExpenseServiceDeleteExpenseProcedure = "/settle.v1.ExpenseService/DeleteExpense"
)

// ExpenseServiceHandler records and retrieves the expenses of a group.
type ExpenseServiceHandler interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceAddExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceAddExpenseProcedure, svc.AddExpense, opts...))
	mux.Handle(ExpenseServiceGetExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceGetExpenseProcedure, svc.GetExpense, opts...))
	mux.Handle(ExpenseServiceListExpensesProcedure, connect.NewUnaryHandler(ExpenseServiceListExpensesProcedure, svc.ListExpenses, opts...))
	mux.Handle(ExpenseServiceDeleteExpenseProcedure, connect.NewUnaryHandler(ExpenseServiceDeleteExpenseProcedure, svc.DeleteExpense, opts...))
	return "/" + ExpenseServiceName + "/", mux
}

// ExpenseServiceClient is a client for the settle.v1.ExpenseService service.
type ExpenseServiceClient interface {
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error)
}

// NewExpenseServiceClient constructs a client for the settle.v1.ExpenseService service.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	opts = clientOptions(opts)
	return &expenseServiceClient{
		addExpense:    connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+ExpenseServiceAddExpenseProcedure, opts...),
		getExpense:    connect.NewClient[api.GetExpenseRequest, api.GetExpenseResponse](httpClient, baseURL+ExpenseServiceGetExpenseProcedure, opts...),
		listExpenses:  connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+ExpenseServiceListExpensesProcedure, opts...),
		deleteExpense: connect.NewClient[api.DeleteExpenseRequest, api.DeleteExpenseResponse](httpClient, baseURL+ExpenseServiceDeleteExpenseProcedure, opts...),
	}
}

type expenseServiceClient struct {
	addExpense    *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	getExpense    *connect.Client[api.GetExpenseRequest, api.GetExpenseResponse]
	listExpenses  *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	deleteExpense *connect.Client[api.DeleteExpenseRequest, api.DeleteExpenseResponse]
}

func (c *expenseServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return c.getExpense.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return c.deleteExpense.CallUnary(ctx, req)
}

// UnimplementedExpenseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedExpenseServiceHandler struct{}

func (UnimplementedExpenseServiceHandler) AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.ExpenseService.AddExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) GetExpense(context.Context, *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.ExpenseService.GetExpense is not implemented"))
}

func (UnimplementedExpenseServiceHandler) ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.ExpenseService.ListExpenses is not implemented"))
}

func (UnimplementedExpenseServiceHandler) DeleteExpense(context.Context, *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	return nil, connect.NewError(connect.CodeUnimplemented, errors.New("settle.v1.ExpenseService.DeleteExpense is not implemented"))
}
