package calculator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBalances(t *testing.T) {
	tests := []struct {
		name     string
		expenses []Expense
		want     Balances
	}{
		{
			name: "three-way split with remainder",
			expenses: []Expense{
				{Payer: "A", Items: []Item{{Price: 50000, Participants: []string{"A", "B", "C"}}}},
			},
			// Shares are 16667, 16667, 16666 in list order.
			want: Balances{{"A", 33333}, {"B", -16667}, {"C", -16666}},
		},
		{
			name: "payer not among participants",
			expenses: []Expense{
				{Payer: "Alice", Items: []Item{{Name: "Taxi", Price: 9000, Participants: []string{"Bob", "Charlie"}}}},
			},
			want: Balances{{"Alice", 9000}, {"Bob", -4500}, {"Charlie", -4500}},
		},
		{
			name: "payer only item nets to zero",
			expenses: []Expense{
				{Payer: "Alice", Items: []Item{{Name: "Coffee", Price: 450, Participants: []string{"Alice"}}}},
			},
			want: Balances{{"Alice", 0}},
		},
		{
			name: "multiple payers offset each other",
			expenses: []Expense{
				{Payer: "Alice", Items: []Item{{Name: "Dinner", Price: 6000, Participants: []string{"Alice", "Bob"}}}},
				{Payer: "Bob", Items: []Item{{Name: "Drinks", Price: 4000, Participants: []string{"Alice", "Bob"}}}},
			},
			want: Balances{{"Alice", 1000}, {"Bob", -1000}},
		},
		{
			name: "declared total is ignored",
			expenses: []Expense{
				{Payer: "A", Total: 999999, Items: []Item{{Price: 100, Participants: []string{"B"}}}},
			},
			want: Balances{{"A", 100}, {"B", -100}},
		},
		{
			name: "itemized receipt with different participant sets",
			expenses: []Expense{
				{Payer: "Alice", Items: []Item{
					{Name: "Pizza", Price: 2000, Participants: []string{"Alice", "Bob"}},
					{Name: "Salad", Price: 1000, Participants: []string{"Alice"}},
					{Name: "Beer", Price: 1500, Participants: []string{"Bob", "Charlie"}},
				}},
			},
			want: Balances{{"Alice", 2500}, {"Bob", -1750}, {"Charlie", -750}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeBalances(tt.expenses)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Zero(t, got.Sum())
		})
	}
}

func TestComputeBalances_Empty(t *testing.T) {
	got, err := ComputeBalances(nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestComputeBalances_RejectsWithoutPartialApply(t *testing.T) {
	expenses := []Expense{
		{Payer: "A", Items: []Item{{Price: 100, Participants: []string{"B"}}}},
		{Payer: "B", Items: []Item{{Name: "orphan", Price: 100}}},
	}

	got, err := ComputeBalances(expenses)
	require.ErrorIs(t, err, ErrInvalidExpense)
	assert.Nil(t, got)

	var expErr *ExpenseError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, 1, expErr.Expense)
	assert.Equal(t, 0, expErr.Item)
}

func TestComputeBalances_Overflow(t *testing.T) {
	expenses := []Expense{
		{Payer: "A", Items: []Item{
			{Price: math.MaxInt64, Participants: []string{"B"}},
			{Price: 1, Participants: []string{"B"}},
		}},
	}
	_, err := ComputeBalances(expenses)
	assert.ErrorIs(t, err, ErrDegenerateAmount)
}

func TestComputeBalances_DoesNotMutateInput(t *testing.T) {
	participants := []string{"A", "B", "C"}
	expenses := []Expense{{Payer: "A", Items: []Item{{Name: "x", Price: 10, Participants: participants}}}}

	_, err := ComputeBalances(expenses)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, participants)
	assert.Equal(t, int64(10), expenses[0].Items[0].Price)
}

func TestComputeBalances_Conservation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	members := []string{"A", "B", "C", "D", "E", "F"}

	for round := 0; round < 200; round++ {
		expenses := randomExpenses(rng, members, 1+rng.Intn(8))
		balances, err := ComputeBalances(expenses)
		require.NoError(t, err)
		assert.Zero(t, balances.Sum(), "round %d", round)
	}
}

func TestSummarize(t *testing.T) {
	expenses := []Expense{
		{Payer: "Alice", Items: []Item{{Name: "Hotel", Price: 30000, Participants: []string{"Alice", "Bob", "Charlie"}}}},
		{Payer: "Bob", Items: []Item{{Name: "Gas", Price: 6000, Participants: []string{"Alice", "Bob"}}}},
	}

	summaries, err := Summarize(expenses)
	require.NoError(t, err)

	want := []MemberSummary{
		{Member: "Alice", Paid: 30000, Share: 13000, Net: 17000},
		{Member: "Bob", Paid: 6000, Share: 13000, Net: -7000},
		{Member: "Charlie", Paid: 0, Share: 10000, Net: -10000},
	}
	assert.Equal(t, want, summaries)

	balances, err := ComputeBalances(expenses)
	require.NoError(t, err)
	for _, s := range summaries {
		assert.Equal(t, s.Net, balances.Get(s.Member), s.Member)
	}
}

func TestBalancesFromMap(t *testing.T) {
	b := BalancesFromMap(map[string]int64{"C": 3, "A": -1, "B": -2})
	assert.Equal(t, Balances{{"A", -1}, {"B", -2}, {"C", 3}}, b)
	assert.Equal(t, map[string]int64{"A": -1, "B": -2, "C": 3}, b.Map())
	assert.Equal(t, int64(0), b.Get("missing"))
}

func randomExpenses(rng *rand.Rand, members []string, count int) []Expense {
	expenses := make([]Expense, count)
	for i := range expenses {
		items := make([]Item, 1+rng.Intn(4))
		for j := range items {
			perm := rng.Perm(len(members))[:1+rng.Intn(len(members))]
			participants := make([]string, len(perm))
			for k, p := range perm {
				participants[k] = members[p]
			}
			items[j] = Item{Price: rng.Int63n(100000), Participants: participants}
		}
		expenses[i] = Expense{Payer: members[rng.Intn(len(members))], Items: items}
	}
	return expenses
}
