package sqlite

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/settle/internal/models"
	"github.com/mmynk/settle/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err, "Failed to create store")
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_Groups(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateGroup generates ID and keeps member order", func(t *testing.T) {
		group := &models.Group{Name: "Roommates", Members: []string{"Charlie", "Alice", "Bob"}}
		require.NoError(t, store.CreateGroup(ctx, group))

		assert.NotEmpty(t, group.ID)
		assert.NotZero(t, group.CreatedAt)

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Roommates", got.Name)
		assert.Equal(t, []string{"Charlie", "Alice", "Bob"}, got.Members)
	})

	t.Run("GetGroup returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetGroup(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("UpdateGroup replaces members", func(t *testing.T) {
		group := &models.Group{Name: "Trip", Members: []string{"A", "B"}}
		require.NoError(t, store.CreateGroup(ctx, group))

		group.Name = "Jeju Trip"
		group.Members = []string{"B", "C"}
		require.NoError(t, store.UpdateGroup(ctx, group))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, "Jeju Trip", got.Name)
		assert.Equal(t, []string{"B", "C"}, got.Members)

		err = store.UpdateGroup(ctx, &models.Group{ID: "missing", Name: "x"})
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("CreateExpense appends new members only", func(t *testing.T) {
		group := &models.Group{Name: "Lunch", Members: []string{"A", "B"}}
		require.NoError(t, store.CreateGroup(ctx, group))

		require.NoError(t, store.CreateExpense(ctx, &models.Expense{
			GroupID: group.ID,
			Payer:   "B",
			Items:   []models.Item{{Name: "Noodles", Price: 900, Participants: []string{"B", "D", "C"}}},
		}))

		got, err := store.GetGroup(ctx, group.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"A", "B", "D", "C"}, got.Members)
	})

	t.Run("ListGroups includes members", func(t *testing.T) {
		groups, err := store.ListGroups(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(groups), 3)
		for _, g := range groups {
			assert.NotNil(t, g.Members, "group %s", g.ID)
		}
	})

	t.Run("DeleteGroup cascades to expenses", func(t *testing.T) {
		group := &models.Group{Name: "Temp", Members: []string{"A", "B"}}
		require.NoError(t, store.CreateGroup(ctx, group))

		expense := &models.Expense{
			GroupID: group.ID,
			Payer:   "A",
			Items:   []models.Item{{Name: "Snacks", Price: 500, Participants: []string{"A", "B"}}},
		}
		require.NoError(t, store.CreateExpense(ctx, expense))

		require.NoError(t, store.DeleteGroup(ctx, group.ID))

		_, err := store.GetExpense(ctx, expense.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteGroup(ctx, group.ID), storage.ErrNotFound)
	})
}

func TestSQLiteStore_Expenses(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Dinner Club", Members: []string{"Alice", "Bob", "Charlie"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	t.Run("CreateExpense generates IDs and title", func(t *testing.T) {
		expense := &models.Expense{
			GroupID: group.ID,
			Payer:   "Alice",
			Total:   3300,
			Items: []models.Item{
				{Name: "Pizza", Price: 2000, Participants: []string{"Alice", "Bob"}},
				{Name: "Beer", Price: 1000, Participants: []string{"Bob"}},
			},
		}
		require.NoError(t, store.CreateExpense(ctx, expense))

		assert.NotEmpty(t, expense.ID)
		assert.NotZero(t, expense.CreatedAt)
		assert.Equal(t, "Pizza, Beer (paid by Alice)", expense.Title)
		for _, item := range expense.Items {
			assert.NotEmpty(t, item.ID)
		}
	})

	t.Run("GetExpense preserves item and participant order", func(t *testing.T) {
		original := &models.Expense{
			GroupID: group.ID,
			Title:   "Groceries",
			Payer:   "Bob",
			Total:   50000,
			Items: []models.Item{
				{Name: "Rice", Price: 30000, Participants: []string{"Charlie", "Alice", "Bob"}},
				{Name: "Kimchi", Price: 20000, Participants: []string{"Bob", "Alice"}},
			},
		}
		require.NoError(t, store.CreateExpense(ctx, original))

		got, err := store.GetExpense(ctx, original.ID)
		require.NoError(t, err)

		assert.Equal(t, original.ID, got.ID)
		assert.Equal(t, "Groceries", got.Title)
		assert.Equal(t, "Bob", got.Payer)
		assert.Equal(t, int64(50000), got.Total)
		require.Len(t, got.Items, 2)
		assert.Equal(t, "Rice", got.Items[0].Name)
		assert.Equal(t, []string{"Charlie", "Alice", "Bob"}, got.Items[0].Participants)
		assert.Equal(t, "Kimchi", got.Items[1].Name)
		assert.Equal(t, []string{"Bob", "Alice"}, got.Items[1].Participants)
	})

	t.Run("ListExpensesByGroup returns recording order", func(t *testing.T) {
		expenses, err := store.ListExpensesByGroup(ctx, group.ID)
		require.NoError(t, err)
		require.Len(t, expenses, 2)
		assert.Equal(t, "Alice", expenses[0].Payer)
		assert.Equal(t, "Bob", expenses[1].Payer)
		assert.Len(t, expenses[1].Items, 2)
	})

	t.Run("CreateExpense rejects unknown group", func(t *testing.T) {
		err := store.CreateExpense(ctx, &models.Expense{
			GroupID: "no-such-group",
			Payer:   "A",
			Items:   []models.Item{{Name: "x", Price: 1, Participants: []string{"A"}}},
		})
		assert.Error(t, err)
	})

	t.Run("DeleteExpense", func(t *testing.T) {
		expense := &models.Expense{
			GroupID: group.ID,
			Payer:   "Charlie",
			Items:   []models.Item{{Name: "Taxi", Price: 1200, Participants: []string{"Charlie", "Alice"}}},
		}
		require.NoError(t, store.CreateExpense(ctx, expense))
		require.NoError(t, store.DeleteExpense(ctx, expense.ID))

		_, err := store.GetExpense(ctx, expense.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, store.DeleteExpense(ctx, expense.ID), storage.ErrNotFound)
	})

	t.Run("GetExpense returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetExpense(ctx, "nonexistent-id")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})
}

func TestSQLiteStore_CreateExpenseAddsMembers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []string{"Bob"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	require.NoError(t, store.CreateExpense(ctx, &models.Expense{
		GroupID: group.ID,
		Payer:   "Alice",
		Items: []models.Item{
			{Name: "Fuel", Price: 900, Participants: []string{"Bob", "Dana", "Alice"}},
			{Name: "Snacks", Price: 300, Participants: []string{"Carol", "Dana"}},
		},
	}))

	got, err := store.GetGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob", "Alice", "Dana", "Carol"}, got.Members)
}

func TestSQLiteStore_CreateExpenseIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group := &models.Group{Name: "Trip", Members: []string{"Alice"}}
	require.NoError(t, store.CreateGroup(ctx, group))

	// Make every member insert fail after the expense rows are written.
	_, err := store.db.ExecContext(ctx, `CREATE TRIGGER fail_member_insert BEFORE INSERT ON group_members
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	err = store.CreateExpense(ctx, &models.Expense{
		GroupID: group.ID,
		Payer:   "Alice",
		Items:   []models.Item{{Name: "Taxi", Price: 1200, Participants: []string{"Alice", "Bob"}}},
	})
	require.ErrorContains(t, err, "disk full")

	expenses, err := store.ListExpensesByGroup(ctx, group.ID)
	require.NoError(t, err)
	assert.Empty(t, expenses)

	var items int
	require.NoError(t, store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items").Scan(&items))
	assert.Zero(t, items)
}

func TestGenerateTitle(t *testing.T) {
	item := func(name string) models.Item { return models.Item{Name: name} }

	tests := []struct {
		items        []models.Item
		wantContains string
	}{
		{nil, "Expense -"},
		{[]models.Item{item("")}, "Expense -"},
		{[]models.Item{item("Pizza")}, "Pizza (paid by Alice)"},
		{[]models.Item{item("Pizza"), item("Beer"), item("Salad")}, "Pizza, Beer, Salad (paid by Alice)"},
		{[]models.Item{item("Pizza"), item("Beer"), item("Salad"), item("Wine")}, "Pizza, Beer and 2 more"},
	}

	for _, tt := range tests {
		t.Run(tt.wantContains, func(t *testing.T) {
			got := generateTitle("Alice", tt.items)
			if !strings.Contains(got, tt.wantContains) {
				t.Errorf("generateTitle(%v) = %q, want to contain %q", tt.items, got, tt.wantContains)
			}
		})
	}
}
