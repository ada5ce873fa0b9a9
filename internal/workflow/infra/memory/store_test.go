package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dwikikusuma/storefront-ops/internal/workflow/app"
	"github.com/dwikikusuma/storefront-ops/internal/workflow/domain"
)

func TestUpsertRejectsSharedUser(t *testing.T) {
	ctx := context.Background()
	d := NewProviderDirectory(domain.Provider{ID: "p1", UserID: "user-1", ManagerID: "mgr-1"})

	err := d.Upsert(ctx, domain.Provider{ID: "p2", UserID: "user-1", ManagerID: "mgr-2"})
	require.ErrorIs(t, err, app.ErrInvalidInput)

	got, err := d.ByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)

	_, err = d.Get(ctx, "p2")
	assert.ErrorIs(t, err, app.ErrNotFound)
}

func TestUpsertKeepsCountOnReassign(t *testing.T) {
	ctx := context.Background()
	d := NewProviderDirectory(domain.Provider{ID: "p1", UserID: "user-1", ManagerID: "mgr-1"})
	require.NoError(t, d.IncrementCompleted(ctx, "p1"))

	require.NoError(t, d.Upsert(ctx, domain.Provider{ID: "p1", UserID: "user-1", ManagerID: "mgr-2"}))

	got, err := d.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "mgr-2", got.ManagerID)
	assert.Equal(t, 1, got.CompletedOrders)
}

func TestNewProviderDirectoryPanicsOnSharedUser(t *testing.T) {
	assert.Panics(t, func() {
		NewProviderDirectory(
			domain.Provider{ID: "p1", UserID: "user-1"},
			domain.Provider{ID: "p2", UserID: "user-1"},
		)
	})
}
