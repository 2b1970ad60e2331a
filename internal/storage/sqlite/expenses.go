package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/internal/storage"
)

// CreateExpense persists a new expense with its items and participants and
// adds its payer and participants to the group, all in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	// Generate IDs if not set
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Title == "" {
		expense.Title = generateTitle(expense.Payer, expense.Items)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, group_id, title, payer, total, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, expense.GroupID, expense.Title, expense.Payer, expense.Total, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i := range expense.Items {
		item := &expense.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}

		_, err = tx.ExecContext(ctx,
			"INSERT INTO items (id, expense_id, position, name, price) VALUES (?, ?, ?, ?, ?)",
			item.ID, expense.ID, i, item.Name, item.Price,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}

		for pos, member := range item.Participants {
			_, err = tx.ExecContext(ctx,
				"INSERT INTO item_participants (item_id, member, position) VALUES (?, ?, ?)",
				item.ID, member, pos,
			)
			if err != nil {
				return fmt.Errorf("failed to insert item participant: %w", err)
			}
		}
	}

	if err := appendMembers(ctx, tx, expense.GroupID, expenseMembers(expense)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// expenseMembers lists the payer, then every participant in item order.
// Repeats are left to insertMembers.
func expenseMembers(e *models.Expense) []string {
	members := []string{e.Payer}
	for _, item := range e.Items {
		members = append(members, item.Participants...)
	}
	return members
}

// GetExpense retrieves an expense by ID, including all items and participants.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	expense := &models.Expense{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, group_id, title, payer, total, created_at FROM expenses WHERE id = ?",
		expenseID,
	).Scan(&expense.ID, &expense.GroupID, &expense.Title, &expense.Payer, &expense.Total, &expense.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	items, err := s.expenseItems(ctx, expense.ID)
	if err != nil {
		return nil, err
	}
	expense.Items = items
	return expense, nil
}

// ListExpensesByGroup retrieves all expenses of a group in recording order.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, title, payer, total, created_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at, rowid`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses by group: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.Title, &expense.Payer, &expense.Total, &expense.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		items, err := s.expenseItems(ctx, expense.ID)
		if err != nil {
			return nil, err
		}
		expense.Items = items
	}
	return expenses, nil
}

// DeleteExpense removes an expense by ID. Items and participants cascade.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, expenseID string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM expenses WHERE id = ?", expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("expense %s: %w", expenseID, storage.ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) expenseItems(ctx context.Context, expenseID string) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, price FROM items WHERE expense_id = ? ORDER BY position",
		expenseID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate items: %w", err)
	}
	rows.Close()

	for i := range items {
		participants, err := s.itemParticipants(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Participants = participants
	}
	return items, nil
}

func (s *SQLiteStore) itemParticipants(ctx context.Context, itemID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT member FROM item_participants WHERE item_id = ? ORDER BY position",
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get item participants: %w", err)
	}
	defer rows.Close()

	var participants []string
	for rows.Next() {
		var member string
		if err := rows.Scan(&member); err != nil {
			return nil, fmt.Errorf("failed to scan item participant: %w", err)
		}
		participants = append(participants, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate item participants: %w", err)
	}
	return participants, nil
}

// generateTitle creates an auto-generated title from the payer and item names.
func generateTitle(payer string, items []models.Item) string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		if item.Name != "" {
			names = append(names, item.Name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("Expense - %s", time.Now().Format("Jan 2, 2006"))
	}
	if len(names) <= 3 {
		return fmt.Sprintf("%s (paid by %s)", strings.Join(names, ", "), payer)
	}
	return fmt.Sprintf("%s and %d more (paid by %s)",
		strings.Join(names[:2], ", "),
		len(names)-2,
		payer,
	)
}
