package libris_test

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/libris"
	"github.com/aretw0/libris/pkg/core"
)

// Example_basic adds a book, lends it and brings it back late.
func Example_basic() {
	tmpDir, err := os.MkdirTemp("", "libris-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	now := time.Date(2024, time.March, 1, 10, 0, 0, 0, time.UTC)
	svc, err := libris.New(filepath.Join(tmpDir, "library_data.json"),
		libris.WithClock(func() time.Time { return now }),
	)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		log.Fatal(err)
	}

	if _, err := svc.AddBook(1, "Dune", 20); err != nil {
		log.Fatal(err)
	}
	if _, err := svc.RegisterStudent(100, "Ann"); err != nil {
		log.Fatal(err)
	}

	loan, err := svc.Borrow(100, 1)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("loan %d due %s\n", loan.ID, loan.DueAt.Format("2006-01-02"))

	if _, err := svc.RemoveBook(1); errors.Is(err, core.ErrInUse) {
		fmt.Println("book 1 is lent out")
	}

	now = now.AddDate(0, 0, 16)
	receipt, err := svc.Return(1)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("late %d day(s), fine %d\n", receipt.LateDays, receipt.Fine)

	if err := svc.Save(ctx); err != nil {
		log.Fatal(err)
	}

	// Output:
	// loan 1 due 2024-03-15
	// book 1 is lent out
	// late 2 day(s), fine 20
}
