package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	source "github.com/aretw0/libris/pkg/adapters/lifecycle"
	"github.com/aretw0/libris/pkg/core"
	"github.com/spf13/cobra"
)

const menuText = `
========== LIBRARY MENU ==========
 1. Add books
 2. View books
 3. Search book
 4. Remove book
 5. Register students
 6. View students
 7. Borrow book
 8. Return book
 9. Active loans
10. Overdue loans
11. Remove student
 s. Save now
 0. Exit
==================================`

var menuCmd = &cobra.Command{
	Use:   "menu [data-file]",
	Short: "Open the interactive numbered menu",
	Args:  cobra.MaximumNArgs(1),
	Run:   runInteractive,
}

func init() {
	rootCmd.AddCommand(menuCmd)
}

func runInteractive(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	argPath := ""
	if len(args) > 0 {
		argPath = args[0]
	}
	svc := openService(ctx, argPath)

	if events, err := svc.Watch(ctx); err != nil {
		slog.Debug("data file watcher not started", "error", err)
	} else {
		src := source.NewSource(events)
		if err := src.Start(ctx); err == nil {
			go func() {
				for e := range src.Events() {
					slog.Warn("data file changed by another process, the next save overwrites it", "event", e.String())
				}
			}()
		}
	}

	if err := runMenu(ctx, svc, os.Stdin, os.Stdout); err != nil {
		fatal("Menu stopped", err)
	}
}

// runMenu drives the numbered menu until the user exits or input ends.
// Every action that changes the library is followed by a save; a failed save
// is reported and retried by the next one.
func runMenu(ctx context.Context, svc *core.Service, in io.Reader, out io.Writer) error {
	m := &menu{ctx: ctx, svc: svc, in: bufio.NewScanner(in), out: out}
	for {
		if err := ctx.Err(); err != nil {
			m.leave()
			return nil
		}

		fmt.Fprintln(out, menuText)
		raw, err := m.readLine("Enter your choice: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.leave()
				return nil
			}
			return err
		}

		switch raw {
		case "":
			continue
		case "s", "S":
			m.save()
			continue
		}

		choice, err := strconv.Atoi(raw)
		if err != nil {
			fmt.Fprintln(out, "Invalid input. Must be a number.")
			continue
		}
		if choice == 0 {
			m.leave()
			return nil
		}

		action, ok := m.actions()[choice]
		if !ok {
			fmt.Fprintln(out, "Invalid choice!")
			continue
		}
		// Input may end halfway through an action; what was applied is
		// still saved.
		err = action()
		if svc.Dirty() {
			m.save()
		}
		if errors.Is(err, io.EOF) {
			m.leave()
			return nil
		}
		if err != nil {
			return err
		}
	}
}

type menu struct {
	ctx context.Context
	svc *core.Service
	in  *bufio.Scanner
	out io.Writer
}

func (m *menu) actions() map[int]func() error {
	return map[int]func() error{
		1:  m.addBooks,
		2:  m.viewBooks,
		3:  m.searchBook,
		4:  m.removeBook,
		5:  m.registerStudents,
		6:  m.viewStudents,
		7:  m.borrow,
		8:  m.giveBack,
		9:  m.activeLoans,
		10: m.overdueLoans,
		11: m.removeStudent,
	}
}

func (m *menu) readLine(prompt string) (string, error) {
	fmt.Fprint(m.out, prompt)
	if !m.in.Scan() {
		fmt.Fprintln(m.out)
		if err := m.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(m.in.Text()), nil
}

// readInt returns ok=false when the input is empty or not a number.
func (m *menu) readInt(prompt string) (int, bool, error) {
	raw, err := m.readLine(prompt)
	if err != nil || raw == "" {
		return 0, false, err
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		fmt.Fprintln(m.out, "Invalid input. Must be a number.")
		return 0, false, nil
	}
	return n, true, nil
}

func (m *menu) save() {
	if err := m.svc.Save(m.ctx); err != nil {
		fmt.Fprintf(m.out, "Error saving data: %v\n", err)
		return
	}
	slog.Debug("library saved from menu")
}

func (m *menu) leave() {
	if m.svc.Dirty() {
		fmt.Fprintln(m.out, "Warning: the last changes could not be saved.")
	}
	fmt.Fprintln(m.out, "Goodbye")
}

func (m *menu) addBooks() error {
	n, ok, err := m.readInt("Enter number of books to add: ")
	if err != nil {
		return err
	}
	if !ok || n <= 0 {
		fmt.Fprintln(m.out, "Nothing to add.")
		return nil
	}
	for i := 1; i <= n; i++ {
		id, ok, err := m.readInt(fmt.Sprintf("Enter unique Book ID %d: ", i))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		name, err := m.readLine(fmt.Sprintf("Enter Name of Book %d: ", i))
		if err != nil {
			return err
		}
		price, ok, err := m.readInt(fmt.Sprintf("Enter Price of Book %d: ", i))
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(m.out, "Invalid price. Skipping.")
			continue
		}
		book, err := m.svc.AddBook(id, name, price)
		if err != nil {
			fmt.Fprintf(m.out, "Skipped: %v\n", err)
			continue
		}
		fmt.Fprintf(m.out, "Book '%s' added successfully.\n", book.Name)
	}
	return nil
}

func (m *menu) viewBooks() error {
	return printBooks(m.out, formatTable, m.svc.ListBooks())
}

func (m *menu) searchBook() error {
	id, ok, err := m.readInt("Enter Book ID to search: ")
	if err != nil || !ok {
		return err
	}
	book, err := m.svc.FindBook(id)
	if err != nil {
		fmt.Fprintln(m.out, "Book not found.")
		return nil
	}
	fmt.Fprint(m.out, "Found -> ")
	printBook(m.out, book)
	return nil
}

func (m *menu) removeBook() error {
	id, ok, err := m.readInt("Enter Book ID to remove: ")
	if err != nil || !ok {
		return err
	}
	book, err := m.svc.RemoveBook(id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(m.out, "Book not found.")
	case errors.Is(err, core.ErrInUse):
		fmt.Fprintln(m.out, "Cannot remove. Book is borrowed.")
	case err != nil:
		fmt.Fprintf(m.out, "Cannot remove: %v\n", err)
	default:
		fmt.Fprintf(m.out, "Book '%s' removed.\n", book.Name)
	}
	return nil
}

func (m *menu) registerStudents() error {
	n, ok, err := m.readInt("Enter number of students to register: ")
	if err != nil {
		return err
	}
	if !ok || n <= 0 {
		fmt.Fprintln(m.out, "Nothing to register.")
		return nil
	}
	for i := 1; i <= n; i++ {
		id, ok, err := m.readInt(fmt.Sprintf("Enter unique Reg ID for student %d: ", i))
		if err != nil {
			return err
		}
		if !ok {
			continue
		}
		name, err := m.readLine(fmt.Sprintf("Enter Name for student %d: ", i))
		if err != nil {
			return err
		}
		student, err := m.svc.RegisterStudent(id, name)
		if err != nil {
			fmt.Fprintf(m.out, "Skipped: %v\n", err)
			continue
		}
		fmt.Fprintf(m.out, "Student '%s' registered.\n", student.Name)
	}
	return nil
}

func (m *menu) viewStudents() error {
	return printStudents(m.out, formatTable, m.svc.ListStudents())
}

func (m *menu) removeStudent() error {
	id, ok, err := m.readInt("Enter Student Reg ID to remove: ")
	if err != nil || !ok {
		return err
	}
	student, err := m.svc.RemoveStudent(id)
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintln(m.out, "Student not found.")
	case errors.Is(err, core.ErrInUse):
		fmt.Fprintln(m.out, "Cannot remove. Student has borrowed books.")
	case err != nil:
		fmt.Fprintf(m.out, "Cannot remove: %v\n", err)
	default:
		fmt.Fprintf(m.out, "Student '%s' removed.\n", student.Name)
	}
	return nil
}

func (m *menu) borrow() error {
	studentID, ok, err := m.readInt("Enter Student Reg ID: ")
	if err != nil || !ok {
		return err
	}
	bookID, ok, err := m.readInt("Enter Book ID to borrow: ")
	if err != nil || !ok {
		return err
	}
	loan, err := m.svc.Borrow(studentID, bookID)
	switch {
	case errors.Is(err, core.ErrUnavailable):
		fmt.Fprintln(m.out, "Book already borrowed.")
	case errors.Is(err, core.ErrLimitExceeded):
		fmt.Fprintf(m.out, "Student already has the maximum of %d active loans.\n", m.svc.Policy().MaxLoansPerStudent)
	case err != nil:
		fmt.Fprintf(m.out, "Cannot borrow: %v\n", err)
	default:
		fmt.Fprintf(m.out, "Book %d borrowed by student %d. Due: %s\n", loan.BookID, loan.StudentRegID, formatTime(loan.DueAt))
	}
	return nil
}

func (m *menu) giveBack() error {
	bookID, ok, err := m.readInt("Enter Book ID to return: ")
	if err != nil || !ok {
		return err
	}
	receipt, err := m.svc.Return(bookID)
	if errors.Is(err, core.ErrNoActiveLoan) {
		fmt.Fprintln(m.out, "No active loan found for this book.")
		return nil
	}
	if err != nil {
		fmt.Fprintf(m.out, "Cannot return: %v\n", err)
		return nil
	}
	printReceipt(m.out, receipt)
	return nil
}

func (m *menu) activeLoans() error {
	return printLoans(m.out, formatTable, m.svc.ActiveLoans(), "No active loans.")
}

func (m *menu) overdueLoans() error {
	return printLoans(m.out, formatTable, m.svc.OverdueLoans(), "No overdue loans.")
}
