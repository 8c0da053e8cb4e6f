package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"bookstore-management/bookstore"
)

// import_catalog bulk-loads books and members into the store from CSV files.
// Usage: import_catalog [catalog-dir]
//
// Expected files inside the catalog directory:
//
//	books.csv   – bid,title,price,stock
//	members.csv – mid,name,phone,email
func main() {
	catalogDir := "catalog"
	if len(os.Args) > 1 {
		catalogDir = os.Args[1]
	}

	manager, err := bookstore.NewSalesManager("bookstore.db")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer manager.Close()

	booksOK, booksErr := importBooks(manager, filepath.Join(catalogDir, "books.csv"))
	membersOK, membersErr := importMembers(manager, filepath.Join(catalogDir, "members.csv"))

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Books imported: %d (errors: %d)\n", booksOK, booksErr)
	fmt.Printf("Members imported: %d (errors: %d)\n", membersOK, membersErr)

	if booksOK > 0 {
		books, err := manager.GetAllBooks()
		if err != nil {
			fmt.Printf("Error retrieving books: %v\n", err)
			return
		}
		fmt.Println("\nCatalog:")
		fmt.Printf("%-6s %-40s %10s %8s\n", "ID", "Title", "Price", "Stock")
		fmt.Println(strings.Repeat("-", 68))
		for _, b := range books {
			fmt.Printf("%-6s %-40s %10d %8d\n", b.ID, truncateString(b.Title, 40), b.Price, b.Stock)
		}
	}
}

func openRecords(path string) ([][]string, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func importBooks(manager *bookstore.SalesManager, path string) (ok, failed int) {
	records, err := openRecords(path)
	if err != nil {
		fmt.Printf("Skipping books: %v\n", err)
		return 0, 0
	}

	for _, rec := range records {
		if len(rec) != 4 {
			fmt.Printf("Skipping malformed book row: %v\n", rec)
			failed++
			continue
		}
		price, errP := strconv.ParseInt(rec[2], 10, 64)
		stock, errS := strconv.ParseInt(rec[3], 10, 64)
		if errP != nil || errS != nil || price < 0 || stock < 0 {
			fmt.Printf("Skipping book %s: price and stock must be non-negative integers\n", rec[0])
			failed++
			continue
		}

		fmt.Printf("Importing book: %s... ", rec[1])
		err := manager.AddBook(bookstore.Book{ID: rec[0], Title: rec[1], Price: price, Stock: stock})
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			failed++
			continue
		}
		fmt.Printf("SUCCESS (ID: %s)\n", rec[0])
		ok++
	}
	return ok, failed
}

func importMembers(manager *bookstore.SalesManager, path string) (ok, failed int) {
	records, err := openRecords(path)
	if err != nil {
		fmt.Printf("Skipping members: %v\n", err)
		return 0, 0
	}

	for _, rec := range records {
		if len(rec) != 4 {
			fmt.Printf("Skipping malformed member row: %v\n", rec)
			failed++
			continue
		}

		fmt.Printf("Importing member: %s... ", rec[1])
		err := manager.AddMember(bookstore.Member{ID: rec[0], Name: rec[1], Phone: rec[2], Email: rec[3]})
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			failed++
			continue
		}
		fmt.Printf("SUCCESS (ID: %s)\n", rec[0])
		ok++
	}
	return ok, failed
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
