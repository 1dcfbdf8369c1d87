// Package repository owns the in-memory transaction collection. It is the
// single writer: every successful mutation is immediately mirrored to the
// backing store. A failed write does not roll the in-memory change back;
// the session state stays authoritative and the error is surfaced to the
// caller as a notice.
package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"fintrack/internal/core"
)

// ErrPersist marks a mutation that succeeded in memory but failed to
// reach the store.
var ErrPersist = errors.New("persist transactions")

// Store is the persistence boundary the repository writes through.
type Store interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txns []core.Transaction) error
}

// Draft is user input for a new transaction. AmountCents is the positive
// magnitude; Type decides the sign applied to it.
type Draft struct {
	Description string
	AmountCents int64
	Date        core.Date
	Category    core.Category
	Type        core.TxnType
}

// Fields is user input for an edit. The original sign (and therefore the
// income/expense classification) is preserved regardless of these values.
type Fields struct {
	Description string
	AmountCents int64
	Date        core.Date
	Category    core.Category
}

type Repository struct {
	mu     sync.Mutex
	store  Store
	txns   []core.Transaction
	lastID int64

	now func() time.Time
}

func New(store Store) *Repository {
	return &Repository{store: store, now: time.Now}
}

// Load replaces the in-memory collection with the persisted one. Called
// once at startup.
func (r *Repository) Load(ctx context.Context) error {
	txns, err := r.store.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load repository: %w", err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.txns = txns
	for _, t := range txns {
		if t.ID > r.lastID {
			r.lastID = t.ID
		}
	}
	slog.InfoContext(ctx, "Repository loaded", "count", len(txns))
	return nil
}

// Add validates the draft, applies the sign from its type, assigns a
// creation-time ID and appends the transaction. Validation failures leave
// both memory and storage untouched.
func (r *Repository) Add(ctx context.Context, d Draft) (core.Transaction, error) {
	signed, err := signedCents(d.AmountCents, d.Type)
	if err != nil {
		return core.Transaction{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	txn := core.Transaction{
		ID:          r.nextID(),
		Description: strings.TrimSpace(d.Description),
		Amount:      core.Money{Cents: signed},
		Date:        d.Date,
		Category:    d.Category,
	}
	if err := txn.Validate(); err != nil {
		return core.Transaction{}, err
	}

	r.txns = append(r.txns, txn)
	slog.InfoContext(ctx, "Transaction added",
		"id", txn.ID,
		"type", txn.Type(),
		"amount_cents", txn.Amount.Cents,
		"category", txn.Category)
	return txn, r.persist(ctx)
}

// Update replaces the editable fields of the transaction matching id,
// preserving its original sign. An unknown id is a deliberate silent
// no-op: edits racing a delete are ignored, not errored.
func (r *Repository) Update(ctx context.Context, id int64, f Fields) (bool, error) {
	if f.AmountCents <= 0 {
		return false, core.ErrInvalidAmount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}

	updated := r.txns[i]
	updated.Description = strings.TrimSpace(f.Description)
	updated.Date = f.Date
	updated.Category = f.Category
	if r.txns[i].Amount.Cents > 0 {
		updated.Amount = core.Money{Cents: f.AmountCents}
	} else {
		updated.Amount = core.Money{Cents: -f.AmountCents}
	}
	if err := updated.Validate(); err != nil {
		return false, err
	}

	r.txns[i] = updated
	slog.InfoContext(ctx, "Transaction updated",
		"id", id,
		"amount_cents", updated.Amount.Cents,
		"category", updated.Category)
	return true, r.persist(ctx)
}

// Remove deletes the transaction matching id. Removing an unknown id is a
// no-op, which makes the operation idempotent.
func (r *Repository) Remove(ctx context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return false, nil
	}
	r.txns = append(r.txns[:i], r.txns[i+1:]...)
	slog.InfoContext(ctx, "Transaction removed", "id", id, "remaining", len(r.txns))
	return true, r.persist(ctx)
}

// FindByID returns a copy of the matching transaction.
func (r *Repository) FindByID(id int64) (core.Transaction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i := r.indexOf(id); i >= 0 {
		return r.txns[i], true
	}
	return core.Transaction{}, false
}

// All returns a copy of the full collection in insertion order.
func (r *Repository) All() []core.Transaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Transaction, len(r.txns))
	copy(out, r.txns)
	return out
}

// nextID uses the creation timestamp in milliseconds, bumped past the last
// assigned ID when two additions land on the same millisecond.
// Caller holds r.mu.
func (r *Repository) nextID() int64 {
	id := r.now().UnixMilli()
	if id <= r.lastID {
		id = r.lastID + 1
	}
	r.lastID = id
	return id
}

// indexOf returns the position of id or -1. Caller holds r.mu.
func (r *Repository) indexOf(id int64) int {
	for i, t := range r.txns {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// persist mirrors the current list to the store. Caller holds r.mu.
func (r *Repository) persist(ctx context.Context) error {
	snapshot := make([]core.Transaction, len(r.txns))
	copy(snapshot, r.txns)
	if err := r.store.SaveTransactions(ctx, snapshot); err != nil {
		slog.ErrorContext(ctx, "Persist failed, in-memory state kept", "error", err, "count", len(snapshot))
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func signedCents(magnitude int64, typ core.TxnType) (int64, error) {
	if magnitude <= 0 {
		return 0, core.ErrInvalidAmount
	}
	switch typ {
	case core.TypeIncome:
		return magnitude, nil
	case core.TypeExpense:
		return -magnitude, nil
	default:
		return 0, fmt.Errorf("unknown transaction type %q: %w", typ, core.ErrInvalidAmount)
	}
}
