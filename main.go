package main

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"bookstore-management/bookstore"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultDBFile = "bookstore.db"

func main() {
	var dbPath string

	root := &cobra.Command{
		Use:          "bookstore",
		Short:        "Bookstore sales record keeper",
		Long:         "Interactive menu for recording, listing, amending and removing bookstore sales.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := bookstore.NewSalesManager(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer mgr.Close()
			runMenu(mgr)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dbPath, "db", defaultDBFile, "path to the SQLite database file")

	report := &cobra.Command{
		Use:   "report",
		Short: "Print the sales report and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := bookstore.NewSalesManager(dbPath)
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer mgr.Close()
			lines, err := mgr.ListSalesWithContext()
			if err != nil {
				return err
			}
			fmt.Print(bookstore.FormatSalesReport(lines))
			return nil
		},
	}
	root.AddCommand(report)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runMenu drives the numbered menu loop. Prompts are suppressed when stdin is
// not a terminal so the shell can be scripted with piped input.
func runMenu(mgr *bookstore.SalesManager) {
	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	scanner := bufio.NewScanner(os.Stdin)

	if interactive {
		printMenu()
	}

	for {
		if interactive {
			fmt.Println("Choose an option (Enter to exit):")
		}
		if !scanner.Scan() {
			break
		}
		choice := strings.TrimSpace(scanner.Text())

		switch choice {
		case "1":
			handleAddSale(scanner, mgr, interactive)
		case "2":
			handleReport(mgr)
		case "3":
			handleUpdateSale(scanner, mgr, interactive)
		case "4":
			handleDeleteSale(scanner, mgr, interactive)
		case "5", "":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid option, please choose again.")
		}
	}
}

func printMenu() {
	fmt.Println(strings.Repeat("*", 15) + " Menu " + strings.Repeat("*", 15))
	fmt.Println("1. Add sale")
	fmt.Println("2. Show sales report")
	fmt.Println("3. Update sale")
	fmt.Println("4. Delete sale")
	fmt.Println("5. Exit")
}

// prompt prints the label when interactive and reads one trimmed line.
func prompt(sc *bufio.Scanner, label string, interactive bool) (string, bool) {
	if interactive {
		fmt.Print(label)
	}
	if !sc.Scan() {
		return "", false
	}
	return strings.TrimSpace(sc.Text()), true
}

func handleAddSale(sc *bufio.Scanner, mgr *bookstore.SalesManager, interactive bool) {
	date, ok := prompt(sc, "Sale date (YYYY-MM-DD): ", interactive)
	if !ok {
		return
	}
	memberID, ok := prompt(sc, "Member ID: ", interactive)
	if !ok {
		return
	}
	bookID, ok := prompt(sc, "Book ID: ", interactive)
	if !ok {
		return
	}

	qtyStr, ok := prompt(sc, "Quantity: ", interactive)
	if !ok {
		return
	}
	qty, err := strconv.ParseInt(qtyStr, 10, 64)
	if err != nil {
		fmt.Printf("Invalid quantity: %s\n", qtyStr)
		return
	}

	discountStr, ok := prompt(sc, "Discount amount: ", interactive)
	if !ok {
		return
	}
	discount, err := strconv.ParseInt(discountStr, 10, 64)
	if err != nil {
		fmt.Printf("Invalid discount: %s\n", discountStr)
		return
	}

	saleID, total, err := mgr.CreateSale(date, memberID, bookID, qty, discount)
	if err != nil {
		fmt.Printf("Error adding sale: %v\n", err)
		return
	}
	fmt.Printf("Sale %d recorded (total: %s)\n", saleID, humanize.Comma(total))
}

func handleReport(mgr *bookstore.SalesManager) {
	lines, err := mgr.ListSalesWithContext()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	fmt.Print(bookstore.FormatSalesReport(lines))
}

// pickSale lists all sales and lets the user choose one by ordinal.
// Returns false when there is nothing to pick or the user cancels.
func pickSale(sc *bufio.Scanner, mgr *bookstore.SalesManager, verb string, interactive bool) (int64, bool) {
	lines, err := mgr.ListSalesWithContext()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 0, false
	}
	if len(lines) == 0 {
		fmt.Printf("No sales to %s.\n", verb)
		return 0, false
	}

	fmt.Println("======== Sales ========")
	for i, l := range lines {
		fmt.Printf("%d. Sale ID: %d - Member: %s - Date: %s\n", i+1, l.ID, l.MemberName, l.Date)
	}
	fmt.Println("=======================")

	choice, ok := prompt(sc, fmt.Sprintf("Pick a sale to %s (number, Enter to cancel): ", verb), interactive)
	if !ok || choice == "" {
		fmt.Printf("Cancelled %s.\n", verb)
		return 0, false
	}
	idx, err := strconv.Atoi(choice)
	if err != nil || idx < 1 || idx > len(lines) {
		fmt.Println("Please enter a valid number.")
		return 0, false
	}
	return lines[idx-1].ID, true
}

func handleUpdateSale(sc *bufio.Scanner, mgr *bookstore.SalesManager, interactive bool) {
	saleID, ok := pickSale(sc, mgr, "update", interactive)
	if !ok {
		return
	}

	discountStr, ok := prompt(sc, "New discount amount: ", interactive)
	if !ok {
		return
	}
	discount, err := strconv.ParseInt(discountStr, 10, 64)
	if err != nil {
		fmt.Printf("Invalid discount: %s\n", discountStr)
		return
	}

	total, err := mgr.UpdateSaleDiscount(saleID, discount)
	if err != nil {
		fmt.Printf("Error updating sale: %v\n", err)
		return
	}
	fmt.Printf("Sale %d updated (total: %s)\n", saleID, humanize.Comma(total))
}

func handleDeleteSale(sc *bufio.Scanner, mgr *bookstore.SalesManager, interactive bool) {
	saleID, ok := pickSale(sc, mgr, "delete", interactive)
	if !ok {
		return
	}

	if err := mgr.DeleteSale(saleID); err != nil {
		fmt.Printf("Error deleting sale: %v\n", err)
		return
	}
	fmt.Printf("Sale %d deleted\n", saleID)
}
