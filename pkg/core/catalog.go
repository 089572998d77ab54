package core

import (
	"fmt"
	"strings"
)

// Catalog keeps books and students in insertion order.
type Catalog struct {
	books    []Book
	students []Student
}

// NewCatalog builds a catalog from existing records.
func NewCatalog(books []Book, students []Student) *Catalog {
	return &Catalog{
		books:    append([]Book(nil), books...),
		students: append([]Student(nil), students...),
	}
}

// AddBook appends a new, available book.
func (c *Catalog) AddBook(id int, name string, price int) (Book, error) {
	name = strings.TrimSpace(name)
	if c.bookIndex(id) >= 0 {
		return Book{}, fmt.Errorf("%w: book %d already exists", ErrDuplicateID, id)
	}
	if name == "" {
		return Book{}, fmt.Errorf("%w: book name cannot be empty", ErrInvalidInput)
	}
	if price <= 0 {
		return Book{}, fmt.Errorf("%w: book price must be positive, got %d", ErrInvalidInput, price)
	}

	b := Book{ID: id, Name: name, Price: price, Available: true}
	c.books = append(c.books, b)
	return b, nil
}

// FindBook returns the book with the given id.
func (c *Catalog) FindBook(id int) (Book, error) {
	i := c.bookIndex(id)
	if i < 0 {
		return Book{}, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}
	return c.books[i], nil
}

// Books returns a copy of all books.
func (c *Catalog) Books() []Book {
	return append([]Book(nil), c.books...)
}

// RegisterStudent appends a new student.
func (c *Catalog) RegisterStudent(id int, name string) (Student, error) {
	name = strings.TrimSpace(name)
	if c.studentIndex(id) >= 0 {
		return Student{}, fmt.Errorf("%w: student %d already exists", ErrDuplicateID, id)
	}
	if name == "" {
		return Student{}, fmt.Errorf("%w: student name cannot be empty", ErrInvalidInput)
	}

	s := Student{RegID: id, Name: name}
	c.students = append(c.students, s)
	return s, nil
}

// FindStudent returns the student with the given registration id.
func (c *Catalog) FindStudent(id int) (Student, error) {
	i := c.studentIndex(id)
	if i < 0 {
		return Student{}, fmt.Errorf("%w: student %d", ErrNotFound, id)
	}
	return c.students[i], nil
}

// Students returns a copy of all students.
func (c *Catalog) Students() []Student {
	return append([]Student(nil), c.students...)
}

// removeBook drops the book. In-use checks belong to the caller, which owns
// the ledger.
func (c *Catalog) removeBook(id int) (Book, error) {
	i := c.bookIndex(id)
	if i < 0 {
		return Book{}, fmt.Errorf("%w: book %d", ErrNotFound, id)
	}
	b := c.books[i]
	c.books = append(c.books[:i], c.books[i+1:]...)
	return b, nil
}

func (c *Catalog) removeStudent(id int) (Student, error) {
	i := c.studentIndex(id)
	if i < 0 {
		return Student{}, fmt.Errorf("%w: student %d", ErrNotFound, id)
	}
	s := c.students[i]
	c.students = append(c.students[:i], c.students[i+1:]...)
	return s, nil
}

// setAvailable flips the availability flag. It returns false if the book is
// not in the catalog.
func (c *Catalog) setAvailable(id int, available bool) bool {
	i := c.bookIndex(id)
	if i < 0 {
		return false
	}
	c.books[i].Available = available
	return true
}

func (c *Catalog) bookIndex(id int) int {
	for i := range c.books {
		if c.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (c *Catalog) studentIndex(id int) int {
	for i := range c.students {
		if c.students[i].RegID == id {
			return i
		}
	}
	return -1
}
