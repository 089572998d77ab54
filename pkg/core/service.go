package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Service is the engine facade. It owns the catalog and the ledger for the
// lifetime of the process and exposes one operation per menu action.
//
// The Service never persists on its own: callers invoke Save after each
// successful mutation. Until a save succeeds, Dirty reports true.
type Service struct {
	mu      sync.RWMutex
	repo    Repository
	catalog *Catalog
	ledger  *Ledger
	policy  Policy
	logger  *slog.Logger
	now     func() time.Time
	dirty   bool

	lastSave    time.Time
	lastSaveErr error
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithPolicy overrides the default lending rules.
func WithPolicy(p Policy) ServiceOption {
	return func(s *Service) {
		s.policy = p
	}
}

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a Service with an empty catalog. Call Load to pull the
// persisted state.
func NewService(repo Repository, opts ...ServiceOption) *Service {
	s := &Service{
		repo:   repo,
		policy: DefaultPolicy(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reset(Snapshot{})
	return s
}

func (s *Service) reset(snap Snapshot) {
	s.catalog = NewCatalog(snap.Books, snap.Students)
	s.ledger = NewLedger(s.catalog, snap.Loans, s.policy, s.logger)
}

// Policy returns the lending rules in effect.
func (s *Service) Policy() Policy {
	return s.policy
}

// Load replaces the in-memory state with the persisted one. On a read or
// parse failure the Service starts empty and the error is returned for the
// caller to report; it is not fatal.
func (s *Service) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snap, err := s.repo.Load(ctx)
	if err != nil {
		snap = Snapshot{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset(snap)
	s.dirty = false

	if s.logger != nil {
		s.logger.Debug("library loaded",
			"books", len(snap.Books), "students", len(snap.Students), "loans", len(snap.Loans))
	}
	return err
}

// Save persists a full snapshot. A failure keeps the in-memory state and the
// dirty flag so that a later Save can retry.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.repo == nil {
		return fmt.Errorf("%w: no repository configured", ErrPersistence)
	}

	err := s.repo.Save(ctx, s.snapshot())
	s.lastSaveErr = err
	if err != nil {
		if !errors.Is(err, ErrPersistence) {
			err = fmt.Errorf("%w: %w", ErrPersistence, err)
		}
		return err
	}
	s.dirty = false
	s.lastSave = s.now()
	return nil
}

// Dirty reports whether there are mutations not yet saved.
func (s *Service) Dirty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dirty
}

// Snapshot returns a deep copy of the current state.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot()
}

func (s *Service) snapshot() Snapshot {
	return Snapshot{
		Books:    s.catalog.Books(),
		Students: s.catalog.Students(),
		Loans:    s.ledger.Loans(),
	}
}

// AddBook adds a new book to the catalog.
func (s *Service) AddBook(id int, name string, price int) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := s.catalog.AddBook(id, name, price)
	if err != nil {
		return Book{}, err
	}
	s.dirty = true
	return b, nil
}

// ListBooks returns all books in insertion order.
func (s *Service) ListBooks() []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Books()
}

// FindBook looks a book up by id.
func (s *Service) FindBook(id int) (Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.FindBook(id)
}

// RemoveBook deletes a book unless it is currently lent out.
func (s *Service) RemoveBook(id int) (Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.catalog.FindBook(id); err != nil {
		return Book{}, err
	}
	if active := s.ledger.ActiveFor(id); len(active) > 0 {
		return Book{}, fmt.Errorf("%w: book %d is borrowed (loan %d)", ErrInUse, id, active[0].ID)
	}
	b, err := s.catalog.removeBook(id)
	if err != nil {
		return Book{}, err
	}
	s.dirty = true
	return b, nil
}

// RegisterStudent adds a new student.
func (s *Service) RegisterStudent(id int, name string) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.catalog.RegisterStudent(id, name)
	if err != nil {
		return Student{}, err
	}
	s.dirty = true
	return st, nil
}

// ListStudents returns all students in insertion order.
func (s *Service) ListStudents() []Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.Students()
}

// FindStudent looks a student up by registration id.
func (s *Service) FindStudent(id int) (Student, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog.FindStudent(id)
}

// RemoveStudent deletes a student who holds no active loan.
func (s *Service) RemoveStudent(id int) (Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.catalog.FindStudent(id); err != nil {
		return Student{}, err
	}
	if active := s.ledger.LoansFor(id); len(active) > 0 {
		return Student{}, fmt.Errorf("%w: student %d has %d borrowed book(s)", ErrInUse, id, len(active))
	}
	st, err := s.catalog.removeStudent(id)
	if err != nil {
		return Student{}, err
	}
	s.dirty = true
	return st, nil
}

// Borrow lends a book to a student under the configured policy.
func (s *Service) Borrow(studentID, bookID int) (Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loan, err := s.ledger.Borrow(studentID, bookID, s.now(), s.policy.MaxLoansPerStudent)
	if err != nil {
		return Loan{}, err
	}
	s.dirty = true
	return loan, nil
}

// Return closes the active loan of a book.
func (s *Service) Return(bookID int) (Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, err := s.ledger.Return(bookID, s.now())
	if err != nil {
		return Receipt{}, err
	}
	s.dirty = true
	return r, nil
}

// ActiveLoans lists loans not yet returned.
func (s *Service) ActiveLoans() []Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Active()
}

// OverdueLoans lists active loans past their due date.
func (s *Service) OverdueLoans() []Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Overdue(s.now())
}

// LoanHistory lists every loan ever recorded.
func (s *Service) LoanHistory() []Loan {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Loans()
}

// Verify reports consistency problems between the catalog and the ledger.
func (s *Service) Verify() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ledger.Verify()
}

// Watch observes out-of-band changes of the store if supported.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	w, ok := s.repo.(Watchable)
	if !ok {
		return nil, errors.New("repository does not support watching")
	}
	return w.Watch(ctx)
}
