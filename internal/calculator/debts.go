package calculator

import (
	"fmt"
	"math"
	"math/bits"
	"sort"
)

// Transaction is one payment in a settlement plan: From pays Amount to To.
type Transaction struct {
	From   string // member who owes
	To     string // member who is owed
	Amount int64
}

type position struct {
	member    string
	remaining int64
}

// SimplifyDebts turns balances into a settlement plan.
//
// Algorithm (greedy largest match):
//   - split members into debtors (< 0) and creditors (> 0), dropping zeros
//   - sort both sides by magnitude, largest first; equal amounts keep input order
//   - pay min(debtor, creditor) from the current debtor to the current creditor
//     and move past whichever side reached zero
//
// Every step settles at least one member, so the plan has at most
// nonzero-1 transactions. The heuristic is not globally minimal for every
// distribution; finding the true minimum is a subset-sum problem.
//
// Balances must sum to zero, otherwise an *UnbalancedError is returned.
// A member listed more than once is merged into its first occurrence.
func SimplifyDebts(balances Balances) ([]Transaction, error) {
	merged, err := mergeBalances(balances)
	if err != nil {
		return nil, err
	}

	// Credits and debts are totalled as magnitudes so that sets which net to
	// zero are accepted even when a running signed sum would overflow.
	var credit, debit uint64
	var debtors, creditors []position
	for _, bal := range merged {
		var carry uint64
		switch {
		case bal.Amount == math.MinInt64:
			return nil, fmt.Errorf("%w: balance of %q cannot be negated", ErrDegenerateAmount, bal.Member)
		case bal.Amount < 0:
			debit, carry = bits.Add64(debit, uint64(-bal.Amount), 0)
			debtors = append(debtors, position{member: bal.Member, remaining: -bal.Amount})
		case bal.Amount > 0:
			credit, carry = bits.Add64(credit, uint64(bal.Amount), 0)
			creditors = append(creditors, position{member: bal.Member, remaining: bal.Amount})
		}
		if carry != 0 {
			return nil, fmt.Errorf("%w: balance totals overflow", ErrDegenerateAmount)
		}
	}
	if credit != debit {
		return nil, &UnbalancedError{Sum: netSum(credit, debit)}
	}

	sort.SliceStable(debtors, func(a, b int) bool { return debtors[a].remaining > debtors[b].remaining })
	sort.SliceStable(creditors, func(a, b int) bool { return creditors[a].remaining > creditors[b].remaining })

	txs := make([]Transaction, 0, max(0, len(debtors)+len(creditors)-1))
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor, creditor := &debtors[i], &creditors[j]

		amount := min(debtor.remaining, creditor.remaining)
		txs = append(txs, Transaction{From: debtor.member, To: creditor.member, Amount: amount})

		debtor.remaining -= amount
		creditor.remaining -= amount
		if debtor.remaining == 0 {
			i++
		}
		if creditor.remaining == 0 {
			j++
		}
	}
	return txs, nil
}

// netSum returns credit-debit, clamped to the int64 range.
func netSum(credit, debit uint64) int64 {
	if credit >= debit {
		return int64(min(credit-debit, math.MaxInt64))
	}
	d := debit - credit
	if d >= 1<<63 {
		return math.MinInt64
	}
	return -int64(d)
}

func mergeBalances(balances Balances) (Balances, error) {
	index := make(map[string]int, len(balances))
	merged := make(Balances, 0, len(balances))
	for _, bal := range balances {
		pos, ok := index[bal.Member]
		if !ok {
			index[bal.Member] = len(merged)
			merged = append(merged, bal)
			continue
		}
		amount, ok := addAmount(merged[pos].Amount, bal.Amount)
		if !ok {
			return nil, fmt.Errorf("%w: balance of %q overflows", ErrDegenerateAmount, bal.Member)
		}
		merged[pos].Amount = amount
	}
	return merged, nil
}

// Replay applies a settlement plan to a zero balance map: each transaction
// debits From and credits To. Replaying SimplifyDebts(b) yields b's non-zero
// entries. Members are ordered by first appearance.
func Replay(txs []Transaction) Balances {
	index := make(map[string]int)
	balances := Balances{}
	apply := func(member string, delta int64) {
		pos, ok := index[member]
		if !ok {
			pos = len(balances)
			index[member] = pos
			balances = append(balances, Balance{Member: member})
		}
		balances[pos].Amount += delta
	}
	for _, tx := range txs {
		apply(tx.From, -tx.Amount)
		apply(tx.To, tx.Amount)
	}
	return balances
}
