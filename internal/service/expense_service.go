package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/metrics"
	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/internal/storage"
	"github.com/mmynk/settle/pkg/api"
	"github.com/mmynk/settle/pkg/api/apiconnect"
)

// ExpenseService implements the Connect ExpenseService
type ExpenseService struct {
	apiconnect.UnimplementedExpenseServiceHandler
	store   storage.Store
	metrics *metrics.Metrics
}

// NewExpenseService creates a new ExpenseService with the given storage backend.
func NewExpenseService(store storage.Store, m *metrics.Metrics) *ExpenseService {
	return &ExpenseService{store: store, metrics: m}
}

// newMembers returns the payer and participants of e that are not in members,
// in first-seen order.
func newMembers(e calculator.Expense, members []string) []string {
	var out []string
	add := func(m string) {
		if !slices.Contains(members, m) && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	add(e.Payer)
	for _, item := range e.Items {
		for _, p := range item.Participants {
			add(p)
		}
	}
	return out
}

// fitsGroupTotals checks that the group's balances stay representable once e
// is added, so a stored group can always be settled.
func fitsGroupTotals(stored []*models.Expense, e calculator.Expense) error {
	expenses := make([]calculator.Expense, 0, len(stored)+1)
	for _, s := range stored {
		expenses = append(expenses, expenseFromModel(s))
	}
	expenses = append(expenses, e)

	if _, err := calculator.Summarize(expenses); err != nil {
		if errors.Is(err, calculator.ErrDegenerateAmount) {
			return fmt.Errorf("%w: expense would overflow the group's running totals", calculator.ErrDegenerateAmount)
		}
		// e is already valid, so the stored data is at fault.
		return fmt.Errorf("stored expenses of group: %v", err)
	}
	return nil
}

// AddExpense validates an expense, stores it in a group and returns its split.
// The payer and participants not yet in the group become members.
func (s *ExpenseService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("AddExpense request received", "group_id", groupID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	expense, err := expenseFromAPI(0, req.Msg.Expense)
	if err != nil {
		return nil, calculatorError(s.metrics, err, fromRequest)
	}
	splits, err := calculator.SplitExpense(expense)
	if err != nil {
		slog.Warn("AddExpense rejected expense", "group_id", groupID, "error", err)
		return nil, calculatorError(s.metrics, err, fromRequest)
	}
	itemsTotal, err := calculator.ItemsTotal(expense)
	if err != nil {
		return nil, calculatorError(s.metrics, err, fromRequest)
	}
	logTotalMismatch(expense, itemsTotal)

	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		slog.Error("AddExpense failed - group not found", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	stored, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("AddExpense failed - could not list expenses", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}
	if err := fitsGroupTotals(stored, expense); err != nil {
		slog.Warn("AddExpense rejected expense", "group_id", groupID, "error", err)
		return nil, calculatorError(s.metrics, err, fromRequest)
	}

	record := expenseModel(groupID, req.Msg.Expense.Title, expense)
	added := newMembers(expense, group.Members)

	// Save to storage (generates IDs, CreatedAt and Title, adds new members)
	if err := s.store.CreateExpense(ctx, record); err != nil {
		slog.Error("AddExpense failed", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}
	if len(added) > 0 {
		slog.Info("Auto-added participants to group", "group_id", groupID, "new_members", added)
	}

	slog.Info("Expense added",
		"group_id", groupID,
		"expense_id", record.ID,
		"items_count", len(record.Items),
	)

	return connect.NewResponse(&api.AddExpenseResponse{
		Expense: expenseToAPI(record),
		Splits:  splitsToAPI(splits),
	}), nil
}

// GetExpense retrieves a stored expense and recomputes its split.
func (s *ExpenseService) GetExpense(ctx context.Context, req *connect.Request[api.GetExpenseRequest]) (*connect.Response[api.GetExpenseResponse], error) {
	slog.Info("GetExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}

	record, err := s.store.GetExpense(ctx, req.Msg.ExpenseID)
	if err != nil {
		slog.Error("GetExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError(err)
	}

	splits, err := calculator.SplitExpense(expenseFromModel(record))
	if err != nil {
		slog.Error("GetExpense failed - stored expense does not split", "expense_id", record.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.GetExpenseResponse{
		Expense: expenseToAPI(record),
		Splits:  splitsToAPI(splits),
	}), nil
}

// ListExpenses returns summaries of a group's expenses in recording order.
func (s *ExpenseService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	groupID := req.Msg.GroupID
	slog.Info("ListExpenses request received", "group_id", groupID)

	if groupID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("group_id required"))
	}

	if _, err := s.store.GetGroup(ctx, groupID); err != nil {
		slog.Error("ListExpenses failed - group not found", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	records, err := s.store.ListExpensesByGroup(ctx, groupID)
	if err != nil {
		slog.Error("ListExpenses failed", "group_id", groupID, "error", err)
		return nil, storageError(err)
	}

	out := make([]*api.ExpenseSummary, len(records))
	for i, e := range records {
		out[i] = &api.ExpenseSummary{
			ID:         e.ID,
			Title:      e.Title,
			Payer:      e.Payer,
			ItemsTotal: e.ItemsTotal(),
			ItemCount:  int32(len(e.Items)),
			CreatedAt:  e.CreatedAt,
		}
	}

	slog.Info("ListExpenses successful", "group_id", groupID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// DeleteExpense removes an expense by ID.
func (s *ExpenseService) DeleteExpense(ctx context.Context, req *connect.Request[api.DeleteExpenseRequest]) (*connect.Response[api.DeleteExpenseResponse], error) {
	slog.Info("DeleteExpense request received", "expense_id", req.Msg.ExpenseID)

	if req.Msg.ExpenseID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("expense_id required"))
	}

	if err := s.store.DeleteExpense(ctx, req.Msg.ExpenseID); err != nil {
		slog.Error("DeleteExpense failed", "expense_id", req.Msg.ExpenseID, "error", err)
		return nil, storageError(err)
	}

	slog.Info("Expense deleted", "expense_id", req.Msg.ExpenseID)

	return connect.NewResponse(&api.DeleteExpenseResponse{}), nil
}
