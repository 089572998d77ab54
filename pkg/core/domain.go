// Package core holds the record-management domain: the catalog of books and
// students, the loan ledger and the Service that composes them.
package core

import (
	"fmt"
	"time"
)

// Book is a catalog entry.
type Book struct {
	ID        int
	Name      string
	Price     int
	Available bool
}

// Student is a registered borrower.
type Student struct {
	RegID int
	Name  string
}

// Loan records one borrow of a book by a student.
// A zero BorrowedAt or DueAt means the value was missing or unparseable in the
// persisted document. A nil ReturnedAt means the loan is still active.
type Loan struct {
	ID           int
	BookID       int
	StudentRegID int
	BorrowedAt   time.Time
	DueAt        time.Time
	ReturnedAt   *time.Time
}

// Active reports whether the loan has not been returned yet.
func (l Loan) Active() bool {
	return l.ReturnedAt == nil
}

// OverdueAt reports whether the loan is active and past its due date at now.
// Loans without a known due date are never overdue.
func (l Loan) OverdueAt(now time.Time) bool {
	if !l.Active() || l.DueAt.IsZero() {
		return false
	}
	return l.DueAt.Before(now)
}

// Snapshot is the full persisted state. Repositories exchange whole snapshots;
// they never keep references to the Service's collections.
type Snapshot struct {
	Books    []Book
	Students []Student
	Loans    []Loan
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Books:    append([]Book(nil), s.Books...),
		Students: append([]Student(nil), s.Students...),
		Loans:    make([]Loan, len(s.Loans)),
	}
	for i, l := range s.Loans {
		out.Loans[i] = l.clone()
	}
	return out
}

func (l Loan) clone() Loan {
	if l.ReturnedAt != nil {
		t := *l.ReturnedAt
		l.ReturnedAt = &t
	}
	return l
}

// Receipt describes the outcome of a return.
type Receipt struct {
	Loan        Loan
	LateDays    int
	Fine        int
	BookMissing bool
}

// OnTime reports whether the book came back by its due date.
func (r Receipt) OnTime() bool {
	return r.LateDays == 0
}

// Policy holds the lending rules.
type Policy struct {
	MaxLoansPerStudent int `json:"max_loans_per_student" yaml:"max_loans_per_student"`
	LoanPeriodDays     int `json:"loan_period_days" yaml:"loan_period_days"`
	FinePerDay         int `json:"fine_per_day" yaml:"fine_per_day"`
}

// DefaultPolicy returns the standard lending rules: 3 simultaneous loans,
// 14 calendar days, 10 units per late day.
func DefaultPolicy() Policy {
	return Policy{
		MaxLoansPerStudent: 3,
		LoanPeriodDays:     14,
		FinePerDay:         10,
	}
}

// Validate checks that every knob is usable.
func (p Policy) Validate() error {
	if p.MaxLoansPerStudent <= 0 {
		return fmt.Errorf("%w: max loans per student must be positive, got %d", ErrInvalidInput, p.MaxLoansPerStudent)
	}
	if p.LoanPeriodDays <= 0 {
		return fmt.Errorf("%w: loan period must be positive, got %d", ErrInvalidInput, p.LoanPeriodDays)
	}
	if p.FinePerDay < 0 {
		return fmt.Errorf("%w: fine per day must not be negative, got %d", ErrInvalidInput, p.FinePerDay)
	}
	return nil
}

// EventType represents the kind of change observed on the data file.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
)

// Event reports a change of the persisted document made outside this process.
type Event struct {
	Type      EventType
	Path      string
	Timestamp int64 // Unix timestamp
}

func (e Event) String() string {
	return fmt.Sprintf("%s %s", e.Type, e.Path)
}
