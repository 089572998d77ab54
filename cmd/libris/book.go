package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Manage the book catalog",
}

var bookAddCmd = &cobra.Command{
	Use:   "add ID NAME PRICE",
	Short: "Add a book to the catalog",
	Args:  cobra.MinimumNArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustInt("book id", args[0])
		price := mustInt("price", args[len(args)-1])
		name := strings.Join(args[1:len(args)-1], " ")

		ctx := context.Background()
		svc := openService(ctx, "")
		book, err := svc.AddBook(id, name, price)
		if err != nil {
			fatal("Failed to add book", err)
		}
		commit(ctx, svc)
		fmt.Printf("Book '%s' added successfully.\n", book.Name)
	},
}

var bookListFormat string

var bookListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all books",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		svc := openService(context.Background(), "")
		if err := printBooks(os.Stdout, bookListFormat, svc.ListBooks()); err != nil {
			fatal("Failed to print books", err)
		}
	},
}

var bookFindCmd = &cobra.Command{
	Use:   "find ID",
	Short: "Show a single book",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustInt("book id", args[0])
		svc := openService(context.Background(), "")
		book, err := svc.FindBook(id)
		if err != nil {
			fatal("Book not found", err)
		}
		printBook(os.Stdout, book)
	},
}

var bookRemoveCmd = &cobra.Command{
	Use:   "remove ID",
	Short: "Remove a book that is not lent out",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		id := mustInt("book id", args[0])
		ctx := context.Background()
		svc := openService(ctx, "")
		book, err := svc.RemoveBook(id)
		if err != nil {
			fatal("Failed to remove book", err)
		}
		commit(ctx, svc)
		fmt.Printf("Book '%s' removed.\n", book.Name)
	},
}

func init() {
	bookListCmd.Flags().StringVarP(&bookListFormat, "output", "o", formatTable, "Output format: table, json or yaml")
	bookCmd.AddCommand(bookAddCmd, bookListCmd, bookFindCmd, bookRemoveCmd)
	rootCmd.AddCommand(bookCmd)
}

func mustInt(what, raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		fatal(fmt.Sprintf("Invalid %s %q", what, raw), err)
	}
	return n
}
