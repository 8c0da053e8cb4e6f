package bookstore

// Member is a registered customer. Members are created at seed time or by the
// catalog importer; the sale engine only reads them.
type Member struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// Book is an inventory item. Price and all derived amounts are integers in
// the smallest currency unit.
type Book struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Price int64  `json:"price"`
	Stock int64  `json:"stock"`
}

// Sale links one member and one book. Total is derived: price at sale time
// times quantity, minus the discount, floored at zero.
type Sale struct {
	ID       int64  `json:"id"`
	Date     string `json:"date"`
	MemberID string `json:"member_id"`
	BookID   string `json:"book_id"`
	Quantity int64  `json:"quantity"`
	Discount int64  `json:"discount"`
	Total    int64  `json:"total"`
}

// SaleLine is a sale joined with its member and book for reporting.
// BookPrice is the book's price at query time, not the price frozen when the
// sale was recorded.
type SaleLine struct {
	Sale
	MemberName string `json:"member_name"`
	BookTitle  string `json:"book_title"`
	BookPrice  int64  `json:"book_price"`
}
