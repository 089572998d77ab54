package core

import (
	"fmt"
	"log/slog"
	"sort"
	"time"
)

// Ledger is the append-only history of loans. It flips availability flags in
// the catalog it is bound to.
type Ledger struct {
	catalog *Catalog
	loans   []Loan
	policy  Policy
	logger  *slog.Logger
}

// NewLedger binds a ledger to a catalog.
func NewLedger(catalog *Catalog, loans []Loan, policy Policy, logger *slog.Logger) *Ledger {
	l := &Ledger{
		catalog: catalog,
		loans:   make([]Loan, len(loans)),
		policy:  policy,
		logger:  logger,
	}
	for i, loan := range loans {
		l.loans[i] = loan.clone()
	}
	return l
}

// Borrow lends a book to a student.
func (l *Ledger) Borrow(studentID, bookID int, now time.Time, maxLoans int) (Loan, error) {
	if _, err := l.catalog.FindStudent(studentID); err != nil {
		return Loan{}, err
	}
	book, err := l.catalog.FindBook(bookID)
	if err != nil {
		return Loan{}, err
	}
	if !book.Available {
		return Loan{}, fmt.Errorf("%w: book %d is already lent out", ErrUnavailable, bookID)
	}
	if active := len(l.LoansFor(studentID)); active >= maxLoans {
		return Loan{}, fmt.Errorf("%w: student %d already has %d active loans (limit %d)",
			ErrLimitExceeded, studentID, active, maxLoans)
	}

	loan := Loan{
		ID:           l.nextID(),
		BookID:       bookID,
		StudentRegID: studentID,
		BorrowedAt:   now,
		DueAt:        now.AddDate(0, 0, l.policy.LoanPeriodDays),
	}
	l.catalog.setAvailable(bookID, false)
	l.loans = append(l.loans, loan)
	return loan.clone(), nil
}

// Return closes the active loan for a book and computes the fine.
func (l *Ledger) Return(bookID int, now time.Time) (Receipt, error) {
	var candidates []int
	for i := range l.loans {
		if l.loans[i].BookID == bookID && l.loans[i].Active() {
			candidates = append(candidates, i)
		}
	}
	if len(candidates) == 0 {
		return Receipt{}, fmt.Errorf("%w: book %d", ErrNoActiveLoan, bookID)
	}

	// Only reachable with inconsistent data: close the most recent borrow.
	idx := candidates[0]
	for _, i := range candidates[1:] {
		if l.loans[i].BorrowedAt.After(l.loans[idx].BorrowedAt) {
			idx = i
		}
	}
	if len(candidates) > 1 && l.logger != nil {
		l.logger.Warn("multiple active loans for one book, closing the latest",
			"book_id", bookID, "active_loans", len(candidates), "loan_id", l.loans[idx].ID)
	}

	returned := now
	l.loans[idx].ReturnedAt = &returned
	loan := l.loans[idx]

	lateDays := LateDays(loan.DueAt, now)
	receipt := Receipt{
		Loan:     loan.clone(),
		LateDays: lateDays,
		Fine:     lateDays * l.policy.FinePerDay,
	}

	if !l.catalog.setAvailable(bookID, true) {
		receipt.BookMissing = true
		if l.logger != nil {
			l.logger.Warn("returned book is not in the catalog", "book_id", bookID, "loan_id", loan.ID)
		}
	}
	return receipt, nil
}

// LateDays counts whole days elapsed past due at now. Unknown due dates and
// on-time returns count as zero.
func LateDays(due, now time.Time) int {
	if due.IsZero() || !now.After(due) {
		return 0
	}
	return int(now.Sub(due) / (24 * time.Hour))
}

// Loans returns a copy of the full history.
func (l *Ledger) Loans() []Loan {
	return l.filter(func(Loan) bool { return true })
}

// Active returns the loans not yet returned.
func (l *Ledger) Active() []Loan {
	return l.filter(Loan.Active)
}

// Overdue returns active loans whose known due date is before now.
func (l *Ledger) Overdue(now time.Time) []Loan {
	return l.filter(func(loan Loan) bool { return loan.OverdueAt(now) })
}

// LoansFor returns the active loans held by a student.
func (l *Ledger) LoansFor(studentID int) []Loan {
	return l.filter(func(loan Loan) bool {
		return loan.Active() && loan.StudentRegID == studentID
	})
}

// ActiveFor returns the active loans referencing a book.
func (l *Ledger) ActiveFor(bookID int) []Loan {
	return l.filter(func(loan Loan) bool {
		return loan.Active() && loan.BookID == bookID
	})
}

// Verify reports every place where the catalog and the ledger disagree.
// An empty result means the data is consistent.
func (l *Ledger) Verify() []string {
	var issues []string

	seenBooks := make(map[int]bool)
	for _, b := range l.catalog.books {
		if seenBooks[b.ID] {
			issues = append(issues, fmt.Sprintf("book id %d appears more than once", b.ID))
		}
		seenBooks[b.ID] = true

		active := len(l.ActiveFor(b.ID))
		switch {
		case active > 1:
			issues = append(issues, fmt.Sprintf("book %d has %d active loans", b.ID, active))
		case active == 1 && b.Available:
			issues = append(issues, fmt.Sprintf("book %d is marked available but is lent out", b.ID))
		case active == 0 && !b.Available:
			issues = append(issues, fmt.Sprintf("book %d is marked unavailable but has no active loan", b.ID))
		}
	}

	seenStudents := make(map[int]bool)
	for _, s := range l.catalog.students {
		if seenStudents[s.RegID] {
			issues = append(issues, fmt.Sprintf("student id %d appears more than once", s.RegID))
		}
		seenStudents[s.RegID] = true
	}

	seenLoans := make(map[int]bool)
	for _, loan := range l.loans {
		if seenLoans[loan.ID] {
			issues = append(issues, fmt.Sprintf("loan id %d appears more than once", loan.ID))
		}
		seenLoans[loan.ID] = true
	}

	sort.Strings(issues)
	return issues
}

func (l *Ledger) nextID() int {
	maxID := 0
	for _, loan := range l.loans {
		if loan.ID > maxID {
			maxID = loan.ID
		}
	}
	return maxID + 1
}

func (l *Ledger) filter(keep func(Loan) bool) []Loan {
	var out []Loan
	for _, loan := range l.loans {
		if keep(loan) {
			out = append(out, loan.clone())
		}
	}
	return out
}
