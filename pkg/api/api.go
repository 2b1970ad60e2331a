// Package api defines the request and response messages of the settle RPC services.
//
// Messages are plain Go structs encoded as JSON (see Codec). Amounts sent by
// clients are JSON numbers and must be whole values in the smallest currency
// unit; amounts returned by the server are always integers.
package api

// Item is one line of an expense.
type Item struct {
	ID           string   `json:"id,omitempty"`
	Name         string   `json:"name"`
	Price        float64  `json:"price"`
	Participants []string `json:"participants"`
}

// Expense is one payment event.
type Expense struct {
	ID        string  `json:"id,omitempty"`
	GroupID   string  `json:"group_id,omitempty"`
	Title     string  `json:"title,omitempty"`
	Payer     string  `json:"payer"`
	Items     []*Item `json:"items"`
	Total     float64 `json:"total,omitempty"`
	CreatedAt int64   `json:"created_at,omitempty"`
}

// Balance is a member's net position: positive is owed money, negative owes money.
type Balance struct {
	Member string `json:"member"`
	Amount int64  `json:"amount"`
}

// Transaction is one payment of a settlement plan.
type Transaction struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// ItemShare is a member's share of one item.
type ItemShare struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
}

// MemberSplit is what one member owes for a single expense.
type MemberSplit struct {
	Member string       `json:"member"`
	Total  int64        `json:"total"`
	Items  []*ItemShare `json:"items"`
}

// MemberSummary reports what a member paid, what they consumed and the difference.
type MemberSummary struct {
	Member string `json:"member"`
	Paid   int64  `json:"paid"`
	Share  int64  `json:"share"`
	Net    int64  `json:"net"`
}

// Group is a set of members sharing expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Members   []string `json:"members"`
	CreatedAt int64    `json:"created_at"`
}

// SettlementService messages.

type CalculateSplitRequest struct {
	Expense *Expense `json:"expense"`
}

type CalculateSplitResponse struct {
	Splits        []*MemberSplit `json:"splits"`
	ItemsTotal    int64          `json:"items_total"`
	DeclaredTotal int64          `json:"declared_total"`
}

type ComputeBalancesRequest struct {
	Expenses []*Expense `json:"expenses"`
}

type ComputeBalancesResponse struct {
	Balances []*Balance `json:"balances"`
}

type SimplifyDebtsRequest struct {
	Balances []*Balance `json:"balances"`
}

type SimplifyDebtsResponse struct {
	Transactions []*Transaction `json:"transactions"`
}

type SettleRequest struct {
	Expenses []*Expense `json:"expenses"`
}

type SettleResponse struct {
	Balances     []*Balance       `json:"balances"`
	Summaries    []*MemberSummary `json:"summaries"`
	Transactions []*Transaction   `json:"transactions"`
}

// GroupService messages.

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type CreateGroupResponse struct {
	Group *Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupResponse struct {
	Group *Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []*Group `json:"groups"`
}

type UpdateGroupRequest struct {
	GroupID string   `json:"group_id"`
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type UpdateGroupResponse struct {
	Group *Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"group_id"`
}

type DeleteGroupResponse struct{}

type GetGroupBalancesRequest struct {
	GroupID string `json:"group_id"`
}

type GetGroupBalancesResponse struct {
	Balances     []*Balance       `json:"balances"`
	Summaries    []*MemberSummary `json:"summaries"`
	Transactions []*Transaction   `json:"transactions"`
}

// ExpenseService messages.

type AddExpenseRequest struct {
	GroupID string   `json:"group_id"`
	Expense *Expense `json:"expense"`
}

type AddExpenseResponse struct {
	Expense *Expense       `json:"expense"`
	Splits  []*MemberSplit `json:"splits"`
}

type GetExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type GetExpenseResponse struct {
	Expense *Expense       `json:"expense"`
	Splits  []*MemberSplit `json:"splits"`
}

type ListExpensesRequest struct {
	GroupID string `json:"group_id"`
}

type ExpenseSummary struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Payer      string `json:"payer"`
	ItemsTotal int64  `json:"items_total"`
	ItemCount  int32  `json:"item_count"`
	CreatedAt  int64  `json:"created_at"`
}

type ListExpensesResponse struct {
	Expenses []*ExpenseSummary `json:"expenses"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expense_id"`
}

type DeleteExpenseResponse struct{}
