package calculator

import "sort"

// Balance is one member's net position.
// Positive = owed money (creditor), negative = owes money (debtor).
type Balance struct {
	Member string
	Amount int64
}

// Balances is an ordered member → balance mapping.
// ComputeBalances orders members by first appearance.
type Balances []Balance

// Get returns the member's balance, 0 for unknown members.
func (b Balances) Get(member string) int64 {
	for _, bal := range b {
		if bal.Member == member {
			return bal.Amount
		}
	}
	return 0
}

// Sum adds every balance. Well-formed balances sum to zero.
func (b Balances) Sum() int64 {
	var sum int64
	for _, bal := range b {
		sum += bal.Amount
	}
	return sum
}

// Map converts the balances to a plain map.
func (b Balances) Map() map[string]int64 {
	m := make(map[string]int64, len(b))
	for _, bal := range b {
		m[bal.Member] += bal.Amount
	}
	return m
}

// BalancesFromMap builds Balances from a map, ordered by member id so that
// SimplifyDebts output is deterministic.
func BalancesFromMap(m map[string]int64) Balances {
	members := make([]string, 0, len(m))
	for member := range m {
		members = append(members, member)
	}
	sort.Strings(members)

	b := make(Balances, len(members))
	for i, member := range members {
		b[i] = Balance{Member: member, Amount: m[member]}
	}
	return b
}

// MemberSummary is the per-member report shown next to a settlement plan.
type MemberSummary struct {
	Member string
	Paid   int64 // total of item prices this member fronted
	Share  int64 // total of this member's allocated shares
	Net    int64 // Paid - Share, same as the member's balance
}

// tally accumulates paid and share amounts in first-seen member order.
type tally struct {
	index     map[string]int
	summaries []MemberSummary
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) member(id string) *MemberSummary {
	pos, ok := t.index[id]
	if !ok {
		pos = len(t.summaries)
		t.index[id] = pos
		t.summaries = append(t.summaries, MemberSummary{Member: id})
	}
	return &t.summaries[pos]
}

// add folds one validated expense into the tally.
func (t *tally) add(idx int, e Expense) error {
	t.member(e.Payer)
	for i, item := range e.Items {
		for _, s := range allocate(item.Price, item.Participants) {
			m := t.member(s.Member)
			share, ok := addAmount(m.Share, s.Amount)
			if !ok {
				return &ExpenseError{Expense: idx, Item: i, Kind: ErrDegenerateAmount, Reason: "share total overflows"}
			}
			m.Share = share
		}
		// Pointer taken after the participants: t.member may grow the slice.
		payer := t.member(e.Payer)
		paid, ok := addAmount(payer.Paid, item.Price)
		if !ok {
			return &ExpenseError{Expense: idx, Item: i, Kind: ErrDegenerateAmount, Reason: "paid total overflows"}
		}
		payer.Paid = paid
	}
	return nil
}

func (t *tally) finish() []MemberSummary {
	for i := range t.summaries {
		t.summaries[i].Net = t.summaries[i].Paid - t.summaries[i].Share
	}
	return t.summaries
}

// Summarize computes paid, share and net amounts per member.
// Every expense is validated before any is applied.
func Summarize(expenses []Expense) ([]MemberSummary, error) {
	if err := Validate(expenses); err != nil {
		return nil, err
	}

	t := newTally()
	for i, e := range expenses {
		if err := t.add(i, e); err != nil {
			return nil, err
		}
	}
	summaries := t.finish()
	if summaries == nil {
		summaries = []MemberSummary{}
	}
	return summaries, nil
}

// ComputeBalances folds expenses into one net balance per member.
//
// For each item the payer is credited the full price and every participant,
// the payer included, is debited their share from AllocateShares. The result
// always sums to zero. Members are ordered by first appearance: an expense's
// payer, then its item participants in list order.
//
// Validation is strict: if any expense is invalid nothing is applied and an
// *ExpenseError wrapping ErrInvalidExpense is returned.
func ComputeBalances(expenses []Expense) (Balances, error) {
	summaries, err := Summarize(expenses)
	if err != nil {
		return nil, err
	}

	balances := make(Balances, len(summaries))
	for i, s := range summaries {
		balances[i] = Balance{Member: s.Member, Amount: s.Net}
	}
	return balances, nil
}
