package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/settle/internal/calculator"
	"github.com/mmynk/settle/internal/metrics"
	"github.com/mmynk/settle/internal/storage"
)

// inputSource says where the data behind a calculator error came from.
type inputSource int

const (
	// fromRequest is expenses sent by the caller.
	fromRequest inputSource = iota
	// fromRequestBalances is balances sent by the caller.
	fromRequestBalances
	// fromStore is expenses loaded from storage. They were validated on
	// insert, so any calculator error on them is a server fault.
	fromStore
)

// calculatorError maps a calculator or storage error onto a Connect error.
// Unbalanced input is the caller's fault only when the balances came from the
// request; balances computed here from expenses always sum to zero.
func calculatorError(m *metrics.Metrics, err error, src inputSource) *connect.Error {
	invalid := connect.CodeInvalidArgument
	if src == fromStore {
		invalid = connect.CodeInternal
	}

	switch {
	case errors.Is(err, calculator.ErrInvalidExpense):
		m.ObserveRejected("invalid_expense")
		return connect.NewError(invalid, err)
	case errors.Is(err, calculator.ErrDegenerateAmount):
		m.ObserveRejected("degenerate_amount")
		return connect.NewError(invalid, err)
	case errors.Is(err, calculator.ErrUnbalancedInput):
		m.ObserveRejected("unbalanced_input")
		if src == fromRequestBalances {
			return connect.NewError(connect.CodeFailedPrecondition, err)
		}
		return connect.NewError(connect.CodeInternal, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// storageError maps a storage error onto a Connect error.
func storageError(err error) *connect.Error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
