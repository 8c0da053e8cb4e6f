package bookstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempDB(t *testing.T) *Database {
	t.Helper()
	dir := t.TempDir()
	db, err := NewDatabase(filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func saleCount(t *testing.T, db *Database) int {
	t.Helper()
	lines, err := db.ListSalesWithContext()
	require.NoError(t, err)
	return len(lines)
}

func bookStock(t *testing.T, db *Database, id string) int64 {
	t.Helper()
	b, err := db.GetBook(id)
	require.NoError(t, err)
	return b.Stock
}

func TestSeedData(t *testing.T) {
	db := tempDB(t)

	members, err := db.GetAllMembers()
	require.NoError(t, err)
	assert.Len(t, members, 3)

	books, err := db.GetAllBooks()
	require.NoError(t, err)
	assert.Len(t, books, 3)

	assert.Equal(t, 4, saleCount(t, db))
	assert.Equal(t, int64(50), bookStock(t, db, "B001"))

	m, err := db.GetMember("M001")
	require.NoError(t, err)
	assert.Equal(t, "Alice", m.Name)
	assert.Equal(t, "alice@example.com", m.Email)
}

// Every seed total must obey the engine's own arithmetic.
func TestSeedTotalsMatchFormula(t *testing.T) {
	db := tempDB(t)

	lines, err := db.ListSalesWithContext()
	require.NoError(t, err)
	require.Len(t, lines, 4)
	for _, l := range lines {
		assert.Equal(t, SaleTotal(l.BookPrice, l.Quantity, l.Discount), l.Total,
			"sale %d total inconsistent", l.ID)
	}
}

func TestInitializationIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "store.db")

	db, err := NewDatabase(path)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// Reopening the same store must not duplicate schema or seed rows.
	db, err = NewDatabase(path)
	require.NoError(t, err)
	defer db.Close()

	members, err := db.GetAllMembers()
	require.NoError(t, err)
	assert.Len(t, members, 3)
	books, err := db.GetAllBooks()
	require.NoError(t, err)
	assert.Len(t, books, 3)
	assert.Equal(t, 4, saleCount(t, db))
}

func TestCreateSale(t *testing.T) {
	db := tempDB(t)

	saleID, total, err := db.CreateSale("2024-02-01", "M001", "B001", 2, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), total)
	assert.Equal(t, int64(48), bookStock(t, db, "B001"))

	s, err := db.GetSale(saleID)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-01", s.Date)
	assert.Equal(t, "M001", s.MemberID)
	assert.Equal(t, "B001", s.BookID)
	assert.Equal(t, int64(2), s.Quantity)
	assert.Equal(t, int64(100), s.Discount)
	assert.Equal(t, int64(1100), s.Total)
}

func TestCreateSaleTotalFloorsAtZero(t *testing.T) {
	db := tempDB(t)

	_, total, err := db.CreateSale("2024-02-01", "M002", "B001", 1, 100_000)
	require.NoError(t, err)
	assert.Equal(t, int64(0), total)
}

func TestCreateSaleInvalidInput(t *testing.T) {
	db := tempDB(t)
	before := saleCount(t, db)

	_, _, err := db.CreateSale("2024/02/01", "M001", "B001", 1, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = db.CreateSale("2024-02-01", "M001", "B001", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, _, err = db.CreateSale("2024-02-01", "M001", "B001", 1, -5)
	assert.ErrorIs(t, err, ErrInvalidInput)

	assert.Equal(t, before, saleCount(t, db))
	assert.Equal(t, int64(50), bookStock(t, db, "B001"))
}

func TestCreateSaleUnknownMemberOrBook(t *testing.T) {
	db := tempDB(t)
	before := saleCount(t, db)

	_, _, err := db.CreateSale("2024-02-01", "M999", "B001", 1, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "member M999")

	_, _, err = db.CreateSale("2024-02-01", "M001", "B999", 1, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "book B999")

	assert.Equal(t, before, saleCount(t, db))
	assert.Equal(t, int64(50), bookStock(t, db, "B001"))
}

func TestCreateSaleInsufficientStock(t *testing.T) {
	db := tempDB(t)
	before := saleCount(t, db)

	_, _, err := db.CreateSale("2024-02-01", "M001", "B003", 999, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConflict)
	assert.Contains(t, err.Error(), "current stock is 20")

	var stockErr *StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, int64(20), stockErr.Available)
	assert.Equal(t, int64(999), stockErr.Requested)

	// No partial writes.
	assert.Equal(t, before, saleCount(t, db))
	assert.Equal(t, int64(20), bookStock(t, db, "B003"))
}

func TestUpdateSaleDiscount(t *testing.T) {
	db := tempDB(t)

	saleID, total, err := db.CreateSale("2024-02-01", "M001", "B001", 2, 100)
	require.NoError(t, err)
	require.Equal(t, int64(1100), total)

	newTotal, err := db.UpdateSaleDiscount(saleID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(1150), newTotal)

	// Only discount and total change; stock is untouched.
	s, err := db.GetSale(saleID)
	require.NoError(t, err)
	assert.Equal(t, int64(50), s.Discount)
	assert.Equal(t, int64(1150), s.Total)
	assert.Equal(t, int64(2), s.Quantity)
	assert.Equal(t, "M001", s.MemberID)
	assert.Equal(t, "B001", s.BookID)
	assert.Equal(t, "2024-02-01", s.Date)
	assert.Equal(t, int64(48), bookStock(t, db, "B001"))
}

func TestUpdateSaleDiscountUsesCurrentPrice(t *testing.T) {
	db := tempDB(t)

	saleID, _, err := db.CreateSale("2024-02-01", "M001", "B001", 2, 100)
	require.NoError(t, err)

	// Recompute joins to the book's live price, not the price at sale time.
	_, err = db.db.Exec(`UPDATE book SET bprice=700 WHERE bid='B001'`)
	require.NoError(t, err)

	newTotal, err := db.UpdateSaleDiscount(saleID, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1300), newTotal)
}

func TestUpdateSaleDiscountErrors(t *testing.T) {
	db := tempDB(t)

	_, err := db.UpdateSaleDiscount(1, -10)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = db.UpdateSaleDiscount(9999, 0)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Contains(t, err.Error(), "sale 9999")
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	db := tempDB(t)

	// Seed sale 1 is B001, quantity 2.
	require.NoError(t, db.DeleteSale(1))
	assert.Equal(t, 3, saleCount(t, db))
	assert.Equal(t, int64(52), bookStock(t, db, "B001"))

	// Remaining sales keep their identifiers and fields.
	lines, err := db.ListSalesWithContext()
	require.NoError(t, err)
	assert.Equal(t, int64(2), lines[0].ID)
	assert.Equal(t, int64(3), lines[1].ID)
	assert.Equal(t, int64(4), lines[2].ID)

	err = db.DeleteSale(1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaleIdentifiersNeverReused(t *testing.T) {
	db := tempDB(t)

	require.NoError(t, db.DeleteSale(4))
	saleID, _, err := db.CreateSale("2024-02-02", "M002", "B002", 1, 0)
	require.NoError(t, err)
	assert.Greater(t, saleID, int64(4))
}

func TestListSalesWithContext(t *testing.T) {
	db := tempDB(t)

	lines, err := db.ListSalesWithContext()
	require.NoError(t, err)
	require.Len(t, lines, 4)

	// Ascending by sale id, joined with member name and book title/price.
	var prev int64
	for _, l := range lines {
		assert.Greater(t, l.ID, prev)
		prev = l.ID
	}
	assert.Equal(t, "Alice", lines[0].MemberName)
	assert.Equal(t, "Python Programming", lines[0].BookTitle)
	assert.Equal(t, int64(600), lines[0].BookPrice)
	assert.Equal(t, "Cathy", lines[3].MemberName)
}

func TestAddMemberAndBook(t *testing.T) {
	db := tempDB(t)

	require.NoError(t, db.AddMember(Member{ID: "M010", Name: "Dora", Phone: "0911-000111", Email: "dora@example.com"}))
	require.NoError(t, db.AddBook(Book{ID: "B010", Title: "Go in Practice", Price: 900, Stock: 12}))

	_, _, err := db.CreateSale("2024-03-01", "M010", "B010", 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(10), bookStock(t, db, "B010"))

	// Duplicate identifiers violate the primary key.
	err = db.AddMember(Member{ID: "M010", Name: "Dora", Phone: "0911-000111"})
	assert.Error(t, err)
}
