package calculator

import (
	"fmt"
	"math"
)

// Item represents a single line of an expense.
type Item struct {
	Name         string
	Price        int64    // smallest currency unit, non-negative
	Participants []string // members who jointly owe this item
}

// Expense represents one payment event: a single payer fronted every item.
type Expense struct {
	Payer string
	Items []Item

	// Total is the declared total printed on the receipt. It is display-only
	// and never used for balance math.
	Total int64
}

// Share is one participant's allocated part of an item price.
type Share struct {
	Member string
	Amount int64
}

// ItemShare is a member's share of one named item.
type ItemShare struct {
	Name   string
	Amount int64
}

// MemberSplit is one member's part of a single expense, item by item.
type MemberSplit struct {
	Member string
	Total  int64
	Items  []ItemShare
}

// AllocateShares splits price among participants in whole units.
// Each participant gets floor(price/n); the first price mod n participants,
// in list order, get one extra unit, so the shares always add up to price.
func AllocateShares(price int64, participants []string) ([]Share, error) {
	if reason := checkItem(price, participants); reason != "" {
		return nil, &ExpenseError{Expense: 0, Item: 0, Kind: ErrInvalidExpense, Reason: reason}
	}
	return allocate(price, participants), nil
}

func allocate(price int64, participants []string) []Share {
	n := int64(len(participants))
	base, rem := price/n, price%n

	shares := make([]Share, len(participants))
	for i, p := range participants {
		amount := base
		if int64(i) < rem {
			amount++
		}
		shares[i] = Share{Member: p, Amount: amount}
	}
	return shares
}

// SplitExpense computes how much each member owes for one expense.
// Members appear in the order they are first listed across the items.
func SplitExpense(e Expense) ([]MemberSplit, error) {
	if err := validateExpense(0, e); err != nil {
		return nil, err
	}

	index := make(map[string]int)
	var splits []MemberSplit
	for i, item := range e.Items {
		for _, s := range allocate(item.Price, item.Participants) {
			pos, ok := index[s.Member]
			if !ok {
				pos = len(splits)
				index[s.Member] = pos
				splits = append(splits, MemberSplit{Member: s.Member})
			}
			total, ok := addAmount(splits[pos].Total, s.Amount)
			if !ok {
				return nil, &ExpenseError{Expense: 0, Item: i, Kind: ErrDegenerateAmount, Reason: "share total overflows"}
			}
			splits[pos].Total = total
			splits[pos].Items = append(splits[pos].Items, ItemShare{Name: item.Name, Amount: s.Amount})
		}
	}
	return splits, nil
}

// ItemsTotal sums the item prices of an expense.
func ItemsTotal(e Expense) (int64, error) {
	var total int64
	for i, item := range e.Items {
		var ok bool
		if total, ok = addAmount(total, item.Price); !ok {
			return 0, &ExpenseError{Expense: 0, Item: i, Kind: ErrDegenerateAmount, Reason: "items total overflows"}
		}
	}
	return total, nil
}

// Validate checks every expense without computing anything.
// The returned error is an *ExpenseError naming the first bad record.
func Validate(expenses []Expense) error {
	for i, e := range expenses {
		if err := validateExpense(i, e); err != nil {
			return err
		}
	}
	return nil
}

func validateExpense(idx int, e Expense) error {
	if e.Payer == "" {
		return &ExpenseError{Expense: idx, Item: -1, Kind: ErrInvalidExpense, Reason: "payer is required"}
	}
	if len(e.Items) == 0 {
		return &ExpenseError{Expense: idx, Item: -1, Kind: ErrInvalidExpense, Reason: "at least one item is required"}
	}
	for i, item := range e.Items {
		if reason := checkItem(item.Price, item.Participants); reason != "" {
			return &ExpenseError{Expense: idx, Item: i, Kind: ErrInvalidExpense, Reason: reason}
		}
	}
	return nil
}

func checkItem(price int64, participants []string) string {
	if price < 0 {
		return fmt.Sprintf("price %d is negative", price)
	}
	if len(participants) == 0 {
		return "item has no participants"
	}
	seen := make(map[string]struct{}, len(participants))
	for _, p := range participants {
		if p == "" {
			return "participant id is empty"
		}
		if _, dup := seen[p]; dup {
			return fmt.Sprintf("participant %q listed twice", p)
		}
		seen[p] = struct{}{}
	}
	return ""
}

// addAmount adds two amounts, reporting false on int64 overflow.
func addAmount(a, b int64) (int64, bool) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, false
	}
	return a + b, true
}
