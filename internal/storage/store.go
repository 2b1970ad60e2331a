// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/settle/internal/models"
)

// ErrNotFound is returned (wrapped) when a group or expense does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the interface for group and expense storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateGroup persists a new group.
	// The group.ID and group.CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by its ID, members in insertion order.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// ListGroups retrieves all groups, newest first.
	ListGroups(ctx context.Context) ([]*models.Group, error)

	// UpdateGroup replaces the name and member list of an existing group.
	UpdateGroup(ctx context.Context, group *models.Group) error

	// DeleteGroup removes a group together with its expenses.
	DeleteGroup(ctx context.Context, groupID string) error

	// CreateExpense persists a new expense with its items. The payer and
	// participants not yet in the group are appended to its members in the
	// same transaction: either both are stored or neither is.
	// The expense and item IDs, CreatedAt and an empty Title are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense by ID, including items and participants
	// in their original order.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpensesByGroup retrieves every expense of a group in the order
	// they were recorded, fully populated.
	ListExpensesByGroup(ctx context.Context, groupID string) ([]*models.Expense, error)

	// DeleteExpense removes an expense by ID.
	DeleteExpense(ctx context.Context, expenseID string) error

	// Close releases any resources held by the store.
	Close() error
}
