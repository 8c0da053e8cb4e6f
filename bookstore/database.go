package bookstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Database provides high-level helpers around a SQLite connection. It owns
// the sale engine: every multi-step mutation runs in a single transaction so
// stock and sale history can never drift apart.
type Database struct {
	db *sql.DB

	addMemberStmt *sql.Stmt
	addBookStmt   *sql.Stmt
}

// NewDatabase opens (or creates) the SQLite database at dbPath, applies the
// schema, and seeds demonstration data if the store is empty.
func NewDatabase(dbPath string) (*Database, error) {
	// Ensure directory exists so first-run succeeds.
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}

	// Enable busy_timeout and foreign keys.
	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=1", dbPath)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := applyMigrations(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := seed(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed store: %w", err)
	}

	database := &Database{db: db}
	if err := database.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}
	return database, nil
}

// Close releases prepared statements and closes the DB.
func (d *Database) Close() error {
	if d.addMemberStmt != nil {
		d.addMemberStmt.Close()
	}
	if d.addBookStmt != nil {
		d.addBookStmt.Close()
	}
	return d.db.Close()
}

// ---------------------------------------------------------------------------
// Schema migration
// ---------------------------------------------------------------------------

const schemaVersion = 1

func applyMigrations(db *sql.DB) error {
	// WAL improves write concurrency.
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return fmt.Errorf("enable WAL: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS meta (key TEXT PRIMARY KEY, value TEXT);`); err != nil {
		return err
	}

	var current int
	_ = db.QueryRow(`SELECT value FROM meta WHERE key='schema_version';`).Scan(&current)
	if current >= schemaVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS member (
            mid TEXT PRIMARY KEY,
            mname TEXT NOT NULL,
            mphone TEXT NOT NULL,
            memail TEXT
        );`,
		`CREATE TABLE IF NOT EXISTS book (
            bid TEXT PRIMARY KEY,
            btitle TEXT NOT NULL,
            bprice INTEGER NOT NULL,
            bstock INTEGER NOT NULL
        );`,
		`CREATE TABLE IF NOT EXISTS sale (
            sid INTEGER PRIMARY KEY AUTOINCREMENT,
            sdate TEXT NOT NULL,
            mid TEXT NOT NULL,
            bid TEXT NOT NULL,
            sqty INTEGER NOT NULL,
            sdiscount INTEGER NOT NULL,
            stotal INTEGER NOT NULL,
            FOREIGN KEY (mid) REFERENCES member(mid),
            FOREIGN KEY (bid) REFERENCES book(bid)
        );`,
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration: %w", err)
		}
	}

	if _, err := tx.Exec(`INSERT INTO meta(key,value) VALUES('schema_version',?)
            ON CONFLICT(key) DO UPDATE SET value=excluded.value;`, schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Seed data
// ---------------------------------------------------------------------------

// seed inserts demonstration rows when the member table is empty, so running
// it twice never duplicates anything. Sale totals go through SaleTotal rather
// than being hard-coded, keeping the seeds consistent with the engine's own
// arithmetic. Stock counts are the on-hand figures after the seeded sales.
func seed(db *sql.DB) error {
	var members int
	if err := db.QueryRow(`SELECT COUNT(*) FROM member`).Scan(&members); err != nil {
		return err
	}
	if members > 0 {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	seedMembers := []Member{
		{ID: "M001", Name: "Alice", Phone: "0912-345678", Email: "alice@example.com"},
		{ID: "M002", Name: "Bob", Phone: "0923-456789", Email: "bob@example.com"},
		{ID: "M003", Name: "Cathy", Phone: "0934-567890", Email: "cathy@example.com"},
	}
	for _, m := range seedMembers {
		if _, err := tx.Exec(`INSERT INTO member(mid,mname,mphone,memail) VALUES(?,?,?,?)`,
			m.ID, m.Name, m.Phone, m.Email); err != nil {
			return err
		}
	}

	seedBooks := []Book{
		{ID: "B001", Title: "Python Programming", Price: 600, Stock: 50},
		{ID: "B002", Title: "Data Science Basics", Price: 800, Stock: 30},
		{ID: "B003", Title: "Machine Learning Guide", Price: 1200, Stock: 20},
	}
	price := make(map[string]int64, len(seedBooks))
	for _, b := range seedBooks {
		price[b.ID] = b.Price
		if _, err := tx.Exec(`INSERT INTO book(bid,btitle,bprice,bstock) VALUES(?,?,?,?)`,
			b.ID, b.Title, b.Price, b.Stock); err != nil {
			return err
		}
	}

	seedSales := []struct {
		date     string
		memberID string
		bookID   string
		qty      int64
		discount int64
	}{
		{"2024-01-15", "M001", "B001", 2, 100},
		{"2024-01-16", "M002", "B002", 1, 50},
		{"2024-01-17", "M001", "B003", 3, 200},
		{"2024-01-18", "M003", "B001", 1, 0},
	}
	for _, s := range seedSales {
		total := SaleTotal(price[s.bookID], s.qty, s.discount)
		if _, err := tx.Exec(`INSERT INTO sale(sdate,mid,bid,sqty,sdiscount,stotal) VALUES(?,?,?,?,?,?)`,
			s.date, s.memberID, s.bookID, s.qty, s.discount, total); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// ---------------------------------------------------------------------------
// Prepared statements
// ---------------------------------------------------------------------------

func (d *Database) prepareStatements() error {
	var err error
	if d.addMemberStmt, err = d.db.Prepare(`INSERT INTO member(mid,mname,mphone,memail) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	if d.addBookStmt, err = d.db.Prepare(`INSERT INTO book(bid,btitle,bprice,bstock) VALUES(?,?,?,?)`); err != nil {
		return err
	}
	return nil
}

// ---------------------------------------------------------------------------
// Catalog helpers
// ---------------------------------------------------------------------------

// AddMember registers a member with a caller-chosen identifier.
func (d *Database) AddMember(m Member) error {
	_, err := d.addMemberStmt.Exec(m.ID, m.Name, m.Phone, m.Email)
	return err
}

// AddBook registers a book with a caller-chosen identifier.
func (d *Database) AddBook(b Book) error {
	_, err := d.addBookStmt.Exec(b.ID, b.Title, b.Price, b.Stock)
	return err
}

func (d *Database) GetMember(id string) (*Member, error) {
	var m Member
	err := d.db.QueryRow(`SELECT mid,mname,mphone,COALESCE(memail,'') FROM member WHERE mid=?`, id).
		Scan(&m.ID, &m.Name, &m.Phone, &m.Email)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: member %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (d *Database) GetBook(id string) (*Book, error) {
	var b Book
	err := d.db.QueryRow(`SELECT bid,btitle,bprice,bstock FROM book WHERE bid=?`, id).
		Scan(&b.ID, &b.Title, &b.Price, &b.Stock)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: book %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetAllMembers returns all members ordered by identifier.
func (d *Database) GetAllMembers() ([]*Member, error) {
	rows, err := d.db.Query(`SELECT mid,mname,mphone,COALESCE(memail,'') FROM member ORDER BY mid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*Member
	for rows.Next() {
		var m Member
		if err := rows.Scan(&m.ID, &m.Name, &m.Phone, &m.Email); err != nil {
			return nil, err
		}
		members = append(members, &m)
	}
	return members, rows.Err()
}

// GetAllBooks returns all books ordered by identifier.
func (d *Database) GetAllBooks() ([]*Book, error) {
	rows, err := d.db.Query(`SELECT bid,btitle,bprice,bstock FROM book ORDER BY bid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*Book
	for rows.Next() {
		var b Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Price, &b.Stock); err != nil {
			return nil, err
		}
		books = append(books, &b)
	}
	return books, rows.Err()
}

func (d *Database) GetSale(id int64) (*Sale, error) {
	var s Sale
	err := d.db.QueryRow(`SELECT sid,sdate,mid,bid,sqty,sdiscount,stotal FROM sale WHERE sid=?`, id).
		Scan(&s.ID, &s.Date, &s.MemberID, &s.BookID, &s.Quantity, &s.Discount, &s.Total)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: sale %d", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ---------------------------------------------------------------------------
// Sale engine
// ---------------------------------------------------------------------------

// CreateSale validates the request, computes the total, and atomically inserts
// the sale row while decrementing the book's stock. Checks run in order: date
// shape, quantity, discount, member existence, book existence, stock
// sufficiency. The first failure is returned and nothing is written.
func (d *Database) CreateSale(date, memberID, bookID string, qty, discount int64) (saleID, total int64, err error) {
	if err := ValidateDate(date); err != nil {
		return 0, 0, err
	}
	if err := ValidateQuantity(qty); err != nil {
		return 0, 0, err
	}
	if err := ValidateDiscount(discount); err != nil {
		return 0, 0, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, 0, err
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM member WHERE mid=?)`, memberID).Scan(&exists); err != nil {
		return 0, 0, err
	}
	if !exists {
		return 0, 0, fmt.Errorf("%w: member %s", ErrNotFound, memberID)
	}

	var price, stock int64
	err = tx.QueryRow(`SELECT bprice,bstock FROM book WHERE bid=?`, bookID).Scan(&price, &stock)
	if err == sql.ErrNoRows {
		return 0, 0, fmt.Errorf("%w: book %s", ErrNotFound, bookID)
	}
	if err != nil {
		return 0, 0, err
	}
	if qty > stock {
		return 0, 0, &StockError{BookID: bookID, Requested: qty, Available: stock}
	}

	total = SaleTotal(price, qty, discount)

	res, err := tx.Exec(`INSERT INTO sale(sdate,mid,bid,sqty,sdiscount,stotal) VALUES(?,?,?,?,?,?)`,
		date, memberID, bookID, qty, discount, total)
	if err != nil {
		return 0, 0, err
	}
	saleID, err = res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}
	if _, err := tx.Exec(`UPDATE book SET bstock=bstock-? WHERE bid=?`, qty, bookID); err != nil {
		return 0, 0, err
	}
	return saleID, total, tx.Commit()
}

// UpdateSaleDiscount replaces a sale's discount and recomputes its total from
// the book's current price and the sale's original quantity. Quantity, member,
// book and date are immutable once a sale exists.
func (d *Database) UpdateSaleDiscount(saleID, newDiscount int64) (int64, error) {
	if err := ValidateDiscount(newDiscount); err != nil {
		return 0, err
	}

	tx, err := d.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var qty, price int64
	err = tx.QueryRow(`SELECT s.sqty, b.bprice FROM sale s JOIN book b ON b.bid = s.bid WHERE s.sid=?`, saleID).
		Scan(&qty, &price)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("%w: sale %d", ErrNotFound, saleID)
	}
	if err != nil {
		return 0, err
	}

	total := SaleTotal(price, qty, newDiscount)
	if _, err := tx.Exec(`UPDATE sale SET sdiscount=?, stotal=? WHERE sid=?`, newDiscount, total, saleID); err != nil {
		return 0, err
	}
	return total, tx.Commit()
}

// DeleteSale removes the sale row and returns its quantity to the book's
// stock in the same transaction, keeping inventory reconciled with the
// remaining sale history. Deleted identifiers are never reissued.
func (d *Database) DeleteSale(saleID int64) error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var bookID string
	var qty int64
	err = tx.QueryRow(`SELECT bid, sqty FROM sale WHERE sid=?`, saleID).Scan(&bookID, &qty)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: sale %d", ErrNotFound, saleID)
	}
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM sale WHERE sid=?`, saleID); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE book SET bstock=bstock+? WHERE bid=?`, qty, bookID); err != nil {
		return err
	}
	return tx.Commit()
}

// ListSalesWithContext returns all sales ascending by identifier, joined live
// with the member's name and the book's title and current price.
func (d *Database) ListSalesWithContext() ([]*SaleLine, error) {
	rows, err := d.db.Query(`
        SELECT s.sid, s.sdate, s.mid, s.bid, s.sqty, s.sdiscount, s.stotal,
               m.mname, b.btitle, b.bprice
        FROM sale s
        JOIN member m ON m.mid = s.mid
        JOIN book b ON b.bid = s.bid
        ORDER BY s.sid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lines []*SaleLine
	for rows.Next() {
		var l SaleLine
		if err := rows.Scan(&l.ID, &l.Date, &l.MemberID, &l.BookID, &l.Quantity, &l.Discount, &l.Total,
			&l.MemberName, &l.BookTitle, &l.BookPrice); err != nil {
			return nil, err
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}
