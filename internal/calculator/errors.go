package calculator

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidExpense is returned when an expense or one of its items cannot be split:
	// no payer, no items, an empty or duplicated participant set, or a negative price.
	ErrInvalidExpense = errors.New("invalid expense")

	// ErrUnbalancedInput is returned by SimplifyDebts when the balances do not sum to zero.
	ErrUnbalancedInput = errors.New("unbalanced input")

	// ErrDegenerateAmount is returned when an amount is not a finite integer
	// in the smallest currency unit, or when accumulating amounts overflows.
	ErrDegenerateAmount = errors.New("degenerate amount")
)

// ExpenseError identifies the record that failed validation.
type ExpenseError struct {
	Expense int // index into the expense list
	Item    int // index into the expense's items, -1 for expense-level problems
	Kind    error
	Reason  string
}

func (e *ExpenseError) Error() string {
	if e.Item < 0 {
		return fmt.Sprintf("%v: expense %d: %s", e.Kind, e.Expense, e.Reason)
	}
	return fmt.Sprintf("%v: expense %d item %d: %s", e.Kind, e.Expense, e.Item, e.Reason)
}

func (e *ExpenseError) Unwrap() error {
	return e.Kind
}

// UnbalancedError reports the non-zero sum of a balance set.
type UnbalancedError struct {
	Sum int64
}

func (e *UnbalancedError) Error() string {
	return fmt.Sprintf("%v: balances sum to %d, want 0", ErrUnbalancedInput, e.Sum)
}

func (e *UnbalancedError) Unwrap() error {
	return ErrUnbalancedInput
}
