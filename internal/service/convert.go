package service

import (
	"fmt"

	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/pkg/api"
)

// expenseFromAPI converts a wire expense into calculator form.
// Amount problems are reported as *calculator.ExpenseError with index idx.
func expenseFromAPI(idx int, e *api.Expense) (calculator.Expense, error) {
	if e == nil {
		return calculator.Expense{}, &calculator.ExpenseError{Expense: idx, Item: -1, Kind: calculator.ErrInvalidExpense, Reason: "expense is required"}
	}

	total, err := calculator.AmountFromFloat(e.Total)
	if err != nil {
		return calculator.Expense{}, &calculator.ExpenseError{
			Expense: idx, Item: -1, Kind: calculator.ErrDegenerateAmount,
			Reason: fmt.Sprintf("total %v is not a whole amount", e.Total),
		}
	}

	items := make([]calculator.Item, len(e.Items))
	for i, item := range e.Items {
		if item == nil {
			return calculator.Expense{}, &calculator.ExpenseError{Expense: idx, Item: i, Kind: calculator.ErrInvalidExpense, Reason: "item is required"}
		}
		price, err := calculator.AmountFromFloat(item.Price)
		if err != nil {
			return calculator.Expense{}, &calculator.ExpenseError{
				Expense: idx, Item: i, Kind: calculator.ErrDegenerateAmount,
				Reason: fmt.Sprintf("price %v is not a whole amount", item.Price),
			}
		}
		items[i] = calculator.Item{
			Name:         item.Name,
			Price:        price,
			Participants: item.Participants,
		}
	}

	return calculator.Expense{Payer: e.Payer, Items: items, Total: total}, nil
}

func expensesFromAPI(expenses []*api.Expense) ([]calculator.Expense, error) {
	out := make([]calculator.Expense, len(expenses))
	for i, e := range expenses {
		converted, err := expenseFromAPI(i, e)
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}

func balancesFromAPI(balances []*api.Balance) (calculator.Balances, error) {
	out := make(calculator.Balances, len(balances))
	for i, b := range balances {
		if b == nil || b.Member == "" {
			return nil, fmt.Errorf("balance %d has no member", i)
		}
		out[i] = calculator.Balance{Member: b.Member, Amount: b.Amount}
	}
	return out, nil
}

// expenseFromModel converts a stored expense into calculator form.
func expenseFromModel(e *models.Expense) calculator.Expense {
	items := make([]calculator.Item, len(e.Items))
	for i, item := range e.Items {
		items[i] = calculator.Item{
			Name:         item.Name,
			Price:        item.Price,
			Participants: item.Participants,
		}
	}
	return calculator.Expense{Payer: e.Payer, Items: items, Total: e.Total}
}

// expenseModel builds the stored form of a validated expense.
func expenseModel(groupID, title string, e calculator.Expense) *models.Expense {
	items := make([]models.Item, len(e.Items))
	for i, item := range e.Items {
		items[i] = models.Item{
			Name:         item.Name,
			Price:        item.Price,
			Participants: append([]string(nil), item.Participants...),
		}
	}
	return &models.Expense{
		GroupID: groupID,
		Title:   title,
		Payer:   e.Payer,
		Items:   items,
		Total:   e.Total,
	}
}

func expenseToAPI(e *models.Expense) *api.Expense {
	items := make([]*api.Item, len(e.Items))
	for i, item := range e.Items {
		items[i] = &api.Item{
			ID:           item.ID,
			Name:         item.Name,
			Price:        float64(item.Price),
			Participants: item.Participants,
		}
	}
	return &api.Expense{
		ID:        e.ID,
		GroupID:   e.GroupID,
		Title:     e.Title,
		Payer:     e.Payer,
		Items:     items,
		Total:     float64(e.Total),
		CreatedAt: e.CreatedAt,
	}
}

func groupToAPI(g *models.Group) *api.Group {
	return &api.Group{
		ID:        g.ID,
		Name:      g.Name,
		Members:   g.Members,
		CreatedAt: g.CreatedAt,
	}
}

func splitsToAPI(splits []calculator.MemberSplit) []*api.MemberSplit {
	out := make([]*api.MemberSplit, len(splits))
	for i, s := range splits {
		items := make([]*api.ItemShare, len(s.Items))
		for j, item := range s.Items {
			items[j] = &api.ItemShare{Name: item.Name, Amount: item.Amount}
		}
		out[i] = &api.MemberSplit{Member: s.Member, Total: s.Total, Items: items}
	}
	return out
}

func balancesToAPI(balances calculator.Balances) []*api.Balance {
	out := make([]*api.Balance, len(balances))
	for i, b := range balances {
		out[i] = &api.Balance{Member: b.Member, Amount: b.Amount}
	}
	return out
}

func summariesToAPI(summaries []calculator.MemberSummary) []*api.MemberSummary {
	out := make([]*api.MemberSummary, len(summaries))
	for i, s := range summaries {
		out[i] = &api.MemberSummary{Member: s.Member, Paid: s.Paid, Share: s.Share, Net: s.Net}
	}
	return out
}

func transactionsToAPI(txs []calculator.Transaction) []*api.Transaction {
	out := make([]*api.Transaction, len(txs))
	for i, tx := range txs {
		out[i] = &api.Transaction{From: tx.From, To: tx.To, Amount: tx.Amount}
	}
	return out
}
