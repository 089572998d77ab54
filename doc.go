// Package libris is the composition root of the student library engine.
//
// It wires the record-management core (catalog, loan ledger and the Service
// facade in pkg/core) to the JSON file store in pkg/adapters/fs.
//
// The whole library lives in memory while the process runs. The data file is
// a checkpoint: callers load it once at startup and save after every
// successful mutation. Saves are atomic (temporary sibling + rename), so a
// crash never leaves a half-written file behind.
//
// Usage:
//
//	svc, err := libris.New("./library_data.json",
//		libris.WithLogger(logger),
//	)
//	if err := svc.Load(ctx); err != nil {
//		// not fatal: the library starts empty
//	}
//
//	if _, err := svc.AddBook(1, "Dune", 20); err != nil { ... }
//	if err := svc.Save(ctx); err != nil { ... }
package libris
