package models

// Expense represents one payment event: a single payer fronted the money
// for every item on it.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// GroupID is the group this expense belongs to.
	GroupID string

	// Title is the human-readable name for the expense.
	// Auto-generated from the payer and item names when left empty.
	Title string

	// Payer is the member who paid.
	Payer string

	// Items are the individual line items, in receipt order.
	Items []Item

	// Total is the declared total (e.g., read off the receipt).
	// Display only: balances are always computed from item prices.
	Total int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// ItemsTotal returns the sum of item prices.
func (e *Expense) ItemsTotal() int64 {
	var total int64
	for _, item := range e.Items {
		total += item.Price
	}
	return total
}

// Item represents a single line item on an expense.
type Item struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Name is the display label of the item (e.g., "Pizza", "Beer").
	Name string

	// Price is the item price in the smallest currency unit.
	Price int64

	// Participants are the members who share this item.
	// Order matters: remainder units go to the first participants listed.
	Participants []string
}
