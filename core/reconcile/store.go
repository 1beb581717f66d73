package reconcile

import "context"

// Store is the mutable side of a reconciliation. Implementations are bound
// to one open session; the Reconciler never commits or rolls back.
type Store interface {
	// Exists reports whether a row with id is present.
	Exists(ctx context.Context, id string) (bool, error)

	// Insert adds a row projected from rec.
	Insert(ctx context.Context, rec Record) error

	// Update rewrites the projected fields of the row for rec.ID. It returns
	// false without error when no such row exists.
	Update(ctx context.Context, rec Record) (bool, error)

	// Delete removes the row with id. Deleting an absent id is not an error.
	Delete(ctx context.Context, id string) error
}

// BatchInserter is implemented by stores that can insert many rows in one
// statement. LoadAll prefers it when available.
type BatchInserter interface {
	InsertBatch(ctx context.Context, recs []Record) error
}
