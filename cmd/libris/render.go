package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/aretw0/libris/pkg/core"
	"gopkg.in/yaml.v3"
)

// output formats for listings
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

const timeFormat = "2006-01-02 15:04"

type bookView struct {
	ID        int    `json:"book_id" yaml:"book_id"`
	Name      string `json:"name" yaml:"name"`
	Price     int    `json:"price" yaml:"price"`
	Available bool   `json:"available" yaml:"available"`
}

type studentView struct {
	RegID int    `json:"reg_id" yaml:"reg_id"`
	Name  string `json:"name" yaml:"name"`
}

type loanView struct {
	ID           int        `json:"loan_id" yaml:"loan_id"`
	BookID       int        `json:"book_id" yaml:"book_id"`
	StudentRegID int        `json:"student_reg_id" yaml:"student_reg_id"`
	BorrowedAt   *time.Time `json:"borrowed_at" yaml:"borrowed_at"`
	DueAt        *time.Time `json:"due_at" yaml:"due_at"`
	ReturnedAt   *time.Time `json:"returned_at" yaml:"returned_at"`
}

func toLoanView(l core.Loan) loanView {
	v := loanView{ID: l.ID, BookID: l.BookID, StudentRegID: l.StudentRegID, ReturnedAt: l.ReturnedAt}
	if !l.BorrowedAt.IsZero() {
		t := l.BorrowedAt
		v.BorrowedAt = &t
	}
	if !l.DueAt.IsZero() {
		t := l.DueAt
		v.DueAt = &t
	}
	return v
}

func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	default:
		return fmt.Errorf("unknown output format %q (choose table, json or yaml)", format)
	}
}

func bookStatus(b core.Book) string {
	if b.Available {
		return "Available"
	}
	return "Borrowed"
}

func printBook(w io.Writer, b core.Book) {
	fmt.Fprintf(w, "ID: %d | Name: %s | Price: %d | %s\n", b.ID, b.Name, b.Price, bookStatus(b))
}

func printBooks(w io.Writer, format string, books []core.Book) error {
	if format != formatTable {
		views := make([]bookView, 0, len(books))
		for _, b := range books {
			views = append(views, bookView{ID: b.ID, Name: b.Name, Price: b.Price, Available: b.Available})
		}
		return encode(w, format, views)
	}

	if len(books) == 0 {
		fmt.Fprintln(w, "Library empty.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tSTATUS")
	for _, b := range books {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", b.ID, b.Name, b.Price, bookStatus(b))
	}
	return tw.Flush()
}

func printStudents(w io.Writer, format string, students []core.Student) error {
	if format != formatTable {
		views := make([]studentView, 0, len(students))
		for _, s := range students {
			views = append(views, studentView{RegID: s.RegID, Name: s.Name})
		}
		return encode(w, format, views)
	}

	if len(students) == 0 {
		fmt.Fprintln(w, "No students registered.")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "REG ID\tNAME")
	for _, s := range students {
		fmt.Fprintf(tw, "%d\t%s\n", s.RegID, s.Name)
	}
	return tw.Flush()
}

func printLoans(w io.Writer, format string, loans []core.Loan, empty string) error {
	if format != formatTable {
		views := make([]loanView, 0, len(loans))
		for _, l := range loans {
			views = append(views, toLoanView(l))
		}
		return encode(w, format, views)
	}

	if len(loans) == 0 {
		fmt.Fprintln(w, empty)
		return nil
	}
	for _, l := range loans {
		fmt.Fprintf(w, "Loan ID: %d | Book ID: %d | Student: %d | Due: %s\n",
			l.ID, l.BookID, l.StudentRegID, formatTime(l.DueAt))
	}
	return nil
}

func printReceipt(w io.Writer, r core.Receipt) {
	if r.OnTime() {
		fmt.Fprintf(w, "Book %d returned on time. No fine.\n", r.Loan.BookID)
	} else {
		fmt.Fprintf(w, "Book %d returned late by %d day(s). Fine: %d units.\n", r.Loan.BookID, r.LateDays, r.Fine)
	}
	if r.BookMissing {
		fmt.Fprintf(w, "Warning: book %d is no longer in the catalog.\n", r.Loan.BookID)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "<unknown>"
	}
	return t.Local().Format(timeFormat)
}
