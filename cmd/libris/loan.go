package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var borrowCmd = &cobra.Command{
	Use:   "borrow STUDENT_ID BOOK_ID",
	Short: "Lend a book to a student",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		studentID := mustInt("registration id", args[0])
		bookID := mustInt("book id", args[1])

		ctx := context.Background()
		svc := openService(ctx, "")
		loan, err := svc.Borrow(studentID, bookID)
		if err != nil {
			fatal("Failed to borrow book", err)
		}
		commit(ctx, svc)
		fmt.Printf("Book %d borrowed by student %d. Due: %s\n", loan.BookID, loan.StudentRegID, formatTime(loan.DueAt))
	},
}

var returnCmd = &cobra.Command{
	Use:   "return BOOK_ID",
	Short: "Close the active loan of a book",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		bookID := mustInt("book id", args[0])

		ctx := context.Background()
		svc := openService(ctx, "")
		receipt, err := svc.Return(bookID)
		if err != nil {
			fatal("Failed to return book", err)
		}
		commit(ctx, svc)
		printReceipt(os.Stdout, receipt)
	},
}

var loansCmd = &cobra.Command{
	Use:   "loans",
	Short: "Inspect the loan ledger",
}

var loansActiveCmd = &cobra.Command{
	Use:   "active",
	Short: "List loans that have not been returned",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(context.Background(), "")
		if err := printLoans(os.Stdout, loanFormat(), svc.ActiveLoans(), "No active loans."); err != nil {
			fatal("Failed to print loans", err)
		}
	},
}

var loansOverdueCmd = &cobra.Command{
	Use:   "overdue",
	Short: "List active loans past their due date",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(context.Background(), "")
		if err := printLoans(os.Stdout, loanFormat(), svc.OverdueLoans(), "No overdue loans."); err != nil {
			fatal("Failed to print loans", err)
		}
	},
}

var loansHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List every loan ever recorded",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(context.Background(), "")
		if err := printLoans(os.Stdout, loanFormat(), svc.LoanHistory(), "No loans recorded."); err != nil {
			fatal("Failed to print loans", err)
		}
	},
}

var (
	loansJSON   bool
	loansFormat string
)

// loanFormat lets --json win over --output.
func loanFormat() string {
	if loansJSON {
		return formatJSON
	}
	return loansFormat
}

func init() {
	for _, c := range []*cobra.Command{loansActiveCmd, loansOverdueCmd, loansHistoryCmd} {
		c.Flags().BoolVar(&loansJSON, "json", false, "Output in JSON format")
		c.Flags().StringVarP(&loansFormat, "output", "o", formatTable, "Output format: table, json or yaml")
	}
	loansCmd.AddCommand(loansActiveCmd, loansOverdueCmd, loansHistoryCmd)
	rootCmd.AddCommand(borrowCmd, returnCmd, loansCmd)
}
