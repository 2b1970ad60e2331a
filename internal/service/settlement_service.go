package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/metrics"
	"github.com/mmynk/settle/pkg/api"
	"github.com/mmynk/settle/pkg/api/apiconnect"
)

// SettlementService implements the stateless Connect SettlementService.
// Every call works only on the data in its request.
type SettlementService struct {
	apiconnect.UnimplementedSettlementServiceHandler
	metrics *metrics.Metrics
}

// NewSettlementService creates a new SettlementService. m may be nil.
func NewSettlementService(m *metrics.Metrics) *SettlementService {
	return &SettlementService{metrics: m}
}

// CalculateSplit returns what each member owes for a single expense.
func (s *SettlementService) CalculateSplit(ctx context.Context, req *connect.Request[api.CalculateSplitRequest]) (*connect.Response[api.CalculateSplitResponse], error) {
	expense, err := expenseFromAPI(0, req.Msg.Expense)
	if err != nil {
		return nil, calculatorError(s.metrics, err, fromRequest)
	}

	for i, item := range expense.Items {
		slog.Debug("Processing item",
			"index", i+1,
			"name", item.Name,
			"price", item.Price,
			"participants", item.Participants,
		)
	}

	splits, err := calculator.SplitExpense(expense)
	if err != nil {
		slog.Error("CalculateSplit failed", "error", err)
		return nil, calculatorError(s.metrics, err, fromRequest)
	}
	itemsTotal, err := calculator.ItemsTotal(expense)
	if err != nil {
		return nil, calculatorError(s.metrics, err, fromRequest)
	}
	logTotalMismatch(expense, itemsTotal)

	return connect.NewResponse(&api.CalculateSplitResponse{
		Splits:        splitsToAPI(splits),
		ItemsTotal:    itemsTotal,
		DeclaredTotal: expense.Total,
	}), nil
}

// ComputeBalances folds the request's expenses into net balances.
func (s *SettlementService) ComputeBalances(ctx context.Context, req *connect.Request[api.ComputeBalancesRequest]) (*connect.Response[api.ComputeBalancesResponse], error) {
	expenses, err := expensesFromAPI(req.Msg.Expenses)
	if err != nil {
		return nil, calculatorError(s.metrics, err, fromRequest)
	}

	balances, err := calculator.ComputeBalances(expenses)
	if err != nil {
		slog.Warn("ComputeBalances rejected input", "error", err)
		return nil, calculatorError(s.metrics, err, fromRequest)
	}

	return connect.NewResponse(&api.ComputeBalancesResponse{
		Balances: balancesToAPI(balances),
	}), nil
}

// SimplifyDebts turns client-supplied balances into a settlement plan.
// Balances that do not sum to zero fail with CodeFailedPrecondition.
func (s *SettlementService) SimplifyDebts(ctx context.Context, req *connect.Request[api.SimplifyDebtsRequest]) (*connect.Response[api.SimplifyDebtsResponse], error) {
	balances, err := balancesFromAPI(req.Msg.Balances)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	txs, err := calculator.SimplifyDebts(balances)
	if err != nil {
		slog.Warn("SimplifyDebts rejected input", "error", err)
		return nil, calculatorError(s.metrics, err, fromRequestBalances)
	}
	s.metrics.ObservePlan("request", len(txs))

	return connect.NewResponse(&api.SimplifyDebtsResponse{
		Transactions: transactionsToAPI(txs),
	}), nil
}

// Settle runs the whole pipeline on the request's expenses.
func (s *SettlementService) Settle(ctx context.Context, req *connect.Request[api.SettleRequest]) (*connect.Response[api.SettleResponse], error) {
	expenses, err := expensesFromAPI(req.Msg.Expenses)
	if err != nil {
		return nil, calculatorError(s.metrics, err, fromRequest)
	}

	p, err := computePlan(expenses)
	if err != nil {
		slog.Warn("Settle failed", "expenses_count", len(expenses), "error", err)
		return nil, calculatorError(s.metrics, err, fromRequest)
	}
	s.metrics.ObservePlan("request", len(p.transactions))

	slog.Info("Settle successful",
		"expenses_count", len(expenses),
		"members_count", len(p.balances),
		"transactions_count", len(p.transactions),
	)

	return connect.NewResponse(&api.SettleResponse{
		Balances:     balancesToAPI(p.balances),
		Summaries:    summariesToAPI(p.summaries),
		Transactions: transactionsToAPI(p.transactions),
	}), nil
}

// plan is the full output of the settlement pipeline.
type plan struct {
	summaries    []calculator.MemberSummary
	balances     calculator.Balances
	transactions []calculator.Transaction
}

// computePlan aggregates expenses, simplifies the balances and checks that
// replaying the plan reproduces them.
func computePlan(expenses []calculator.Expense) (*plan, error) {
	summaries, err := calculator.Summarize(expenses)
	if err != nil {
		return nil, err
	}

	balances := make(calculator.Balances, len(summaries))
	for i, s := range summaries {
		balances[i] = calculator.Balance{Member: s.Member, Amount: s.Net}
	}

	txs, err := calculator.SimplifyDebts(balances)
	if err != nil {
		return nil, err
	}
	if err := verifyPlan(balances, txs); err != nil {
		return nil, err
	}

	return &plan{summaries: summaries, balances: balances, transactions: txs}, nil
}

// verifyPlan checks that replaying txs yields exactly the non-zero balances.
func verifyPlan(balances calculator.Balances, txs []calculator.Transaction) error {
	replayed := calculator.Replay(txs).Map()
	for member, amount := range balances.Map() {
		if replayed[member] != amount {
			return fmt.Errorf("settlement plan leaves %s at %d, want %d", member, replayed[member], amount)
		}
		delete(replayed, member)
	}
	for member, amount := range replayed {
		if amount != 0 {
			return fmt.Errorf("settlement plan moves %d for unknown member %s", amount, member)
		}
	}
	return nil
}

func logTotalMismatch(e calculator.Expense, itemsTotal int64) {
	if e.Total != 0 && e.Total != itemsTotal {
		slog.Debug("Declared total differs from items total",
			"payer", e.Payer,
			"declared_total", e.Total,
			"items_total", itemsTotal,
		)
	}
}
