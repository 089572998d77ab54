package fs

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/aretw0/libris/pkg/core"
)

var errMalformed = errors.New("invalid json: malformed document")

// UnknownName replaces a missing book name on load.
const UnknownName = "<unknown>"

// timeLayouts are tried in order when parsing stored timestamps. The naive
// layouts match what older data files contain and are read in local time.
var timeLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// document is the on-disk shape of the library.
type document struct {
	Books    []bookRecord    `json:"book_list"`
	Students []studentRecord `json:"student_list"`
	Loans    []loanRecord    `json:"loan_list"`
}

type bookRecord struct {
	BookID    int      `json:"book_id"`
	Name      *string  `json:"name,omitempty"`
	Price     *float64 `json:"price,omitempty"`
	Available *bool    `json:"available,omitempty"`
	// Avaliable is the misspelled key written by early versions. Read only.
	Avaliable *bool `json:"avaliable,omitempty"`
}

type studentRecord struct {
	RegID int    `json:"reg_id"`
	Name  string `json:"name"`
}

type loanRecord struct {
	LoanID       int     `json:"loan_id"`
	BookID       int     `json:"book_id"`
	StudentRegID int     `json:"student_reg_id"`
	BorrowedAt   *string `json:"borrowed_at"`
	DueAt        *string `json:"due_at"`
	ReturnedAt   *string `json:"returned_at"`
}

// decodeSnapshot parses a document and applies every default exactly once.
func decodeSnapshot(data []byte) (core.Snapshot, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return core.Snapshot{}, errMalformed
	}

	// Unmarshal also rejects anything left after the document.
	var doc document
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(data, &doc); err != nil {
		return core.Snapshot{}, fmt.Errorf("invalid json: %w", err)
	}

	snap := core.Snapshot{
		Books:    make([]core.Book, 0, len(doc.Books)),
		Students: make([]core.Student, 0, len(doc.Students)),
		Loans:    make([]core.Loan, 0, len(doc.Loans)),
	}

	for _, b := range doc.Books {
		book := core.Book{ID: b.BookID, Name: UnknownName, Available: true}
		if b.Name != nil {
			book.Name = *b.Name
		}
		if b.Price != nil {
			// Hand-edited files may carry 20.0; the fraction is dropped.
			book.Price = int(math.Trunc(*b.Price))
		}
		switch {
		case b.Available != nil:
			book.Available = *b.Available
		case b.Avaliable != nil:
			book.Available = *b.Avaliable
		}
		snap.Books = append(snap.Books, book)
	}

	for _, s := range doc.Students {
		snap.Students = append(snap.Students, core.Student{RegID: s.RegID, Name: s.Name})
	}

	for _, l := range doc.Loans {
		loan := core.Loan{
			ID:           l.LoanID,
			BookID:       l.BookID,
			StudentRegID: l.StudentRegID,
			BorrowedAt:   parseTime(l.BorrowedAt),
			DueAt:        parseTime(l.DueAt),
		}
		if l.ReturnedAt != nil {
			// A present but unparseable value still closes the loan.
			returned := parseTime(l.ReturnedAt)
			loan.ReturnedAt = &returned
		}
		snap.Loans = append(snap.Loans, loan)
	}

	return snap, nil
}

// encodeSnapshot renders the snapshot as an indented document. The legacy
// availability key is never written.
func encodeSnapshot(s core.Snapshot) ([]byte, error) {
	doc := document{
		Books:    make([]bookRecord, 0, len(s.Books)),
		Students: make([]studentRecord, 0, len(s.Students)),
		Loans:    make([]loanRecord, 0, len(s.Loans)),
	}

	for _, b := range s.Books {
		name, price, available := b.Name, float64(b.Price), b.Available
		doc.Books = append(doc.Books, bookRecord{
			BookID:    b.ID,
			Name:      &name,
			Price:     &price,
			Available: &available,
		})
	}

	for _, st := range s.Students {
		doc.Students = append(doc.Students, studentRecord{RegID: st.RegID, Name: st.Name})
	}

	for _, l := range s.Loans {
		rec := loanRecord{
			LoanID:       l.ID,
			BookID:       l.BookID,
			StudentRegID: l.StudentRegID,
			BorrowedAt:   formatTime(l.BorrowedAt),
			DueAt:        formatTime(l.DueAt),
		}
		if l.ReturnedAt != nil {
			rec.ReturnedAt = formatTime(*l.ReturnedAt)
			if rec.ReturnedAt == nil {
				// Keep the loan closed even if its return time was lost.
				empty := ""
				rec.ReturnedAt = &empty
			}
		}
		doc.Loans = append(doc.Loans, rec)
	}

	return json.MarshalIndent(doc, "", "    ")
}

func parseTime(s *string) time.Time {
	if s == nil || *s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, *s); err == nil {
		return t
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, *s, time.Local); err == nil {
			return t
		}
	}
	return time.Time{}
}

func formatTime(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	s := t.Format(time.RFC3339Nano)
	return &s
}
