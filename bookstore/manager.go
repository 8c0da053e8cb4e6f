package bookstore

// SalesManager is a thin façade over the Database, keeping CLI code simple.
type SalesManager struct {
	db *Database
}

// NewSalesManager opens (or creates) the SQLite database at dbPath.
func NewSalesManager(dbPath string) (*SalesManager, error) {
	db, err := NewDatabase(dbPath)
	if err != nil {
		return nil, err
	}
	return &SalesManager{db: db}, nil
}

// Close closes the underlying database.
func (sm *SalesManager) Close() error { return sm.db.Close() }

// ------------------ Catalog helpers ------------------

func (sm *SalesManager) AddMember(m Member) error             { return sm.db.AddMember(m) }
func (sm *SalesManager) AddBook(b Book) error                 { return sm.db.AddBook(b) }
func (sm *SalesManager) GetMember(id string) (*Member, error) { return sm.db.GetMember(id) }
func (sm *SalesManager) GetBook(id string) (*Book, error)     { return sm.db.GetBook(id) }
func (sm *SalesManager) GetAllMembers() ([]*Member, error)    { return sm.db.GetAllMembers() }
func (sm *SalesManager) GetAllBooks() ([]*Book, error)        { return sm.db.GetAllBooks() }

// ------------------ Sales ------------------

func (sm *SalesManager) CreateSale(date, memberID, bookID string, qty, discount int64) (int64, int64, error) {
	return sm.db.CreateSale(date, memberID, bookID, qty, discount)
}

func (sm *SalesManager) UpdateSaleDiscount(saleID, newDiscount int64) (int64, error) {
	return sm.db.UpdateSaleDiscount(saleID, newDiscount)
}

func (sm *SalesManager) DeleteSale(saleID int64) error { return sm.db.DeleteSale(saleID) }

func (sm *SalesManager) GetSale(id int64) (*Sale, error) { return sm.db.GetSale(id) }

func (sm *SalesManager) ListSalesWithContext() ([]*SaleLine, error) {
	return sm.db.ListSalesWithContext()
}
