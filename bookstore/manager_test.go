package bookstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T) *SalesManager {
	t.Helper()
	dir := t.TempDir()
	mgr, err := NewSalesManager(filepath.Join(dir, "store.db"))
	require.NoError(t, err)
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func TestManagerSaleRoundTrip(t *testing.T) {
	mgr := newManager(t)

	saleID, total, err := mgr.CreateSale("2024-02-01", "M001", "B001", 2, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), total)

	newTotal, err := mgr.UpdateSaleDiscount(saleID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1150), newTotal)

	lines, err := mgr.ListSalesWithContext()
	require.NoError(t, err)
	out := FormatSalesReport(lines)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "1,150")

	require.NoError(t, mgr.DeleteSale(saleID))
	_, err = mgr.GetSale(saleID)
	assert.ErrorIs(t, err, ErrNotFound)
}
