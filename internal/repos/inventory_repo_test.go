package repos

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/internal/domain"
)

func TestSeededStore(t *testing.T) {
	db, err := OpenDB(":memory:", true)
	require.NoError(t, err)
	defer db.Close()

	rows, err := NewInventoryRepo(db).ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, rows, 5)

	u, err := NewUserRepo(db).ByUsername(context.Background(), "ADMIN")
	require.NoError(t, err)
	assert.True(t, u.IsStaff)
	assert.True(t, u.IsSuperuser)
}

func TestDecrementNeverGoesNegative(t *testing.T) {
	db, err := OpenDB(":memory:", true)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()
	inv := NewInventoryRepo(db)

	require.NoError(t, inv.Decrement(ctx, "console-002", 3))
	err = inv.Decrement(ctx, "console-002", 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	n, err := inv.Qty(ctx, "console-002")
	require.NoError(t, err)
	assert.Zero(t, n)

	assert.ErrorIs(t, inv.Decrement(ctx, "missing", 1), domain.ErrNotFound)
	assert.ErrorIs(t, inv.Increment(ctx, "missing", 1), domain.ErrNotFound)
}

func TestInTxRollsBack(t *testing.T) {
	db, err := OpenDB(":memory:", true)
	require.NoError(t, err)
	defer db.Close()
	ctx := context.Background()

	err = InTx(ctx, db, func(tx *sqlx.Tx) error {
		if err := NewInventoryRepo(tx).SetQty(ctx, "acc-001", 1); err != nil {
			return err
		}
		return domain.Validation("abort")
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	n, err := NewInventoryRepo(db).Qty(ctx, "acc-001")
	require.NoError(t, err)
	assert.Equal(t, 40, n)
}
