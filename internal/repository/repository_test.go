package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
)

// fakeStore records saves and can be told to fail.
type fakeStore struct {
	saved    [][]core.Transaction
	initial  []core.Transaction
	failNext bool
}

func (f *fakeStore) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	return f.initial, nil
}

func (f *fakeStore) SaveTransactions(ctx context.Context, txns []core.Transaction) error {
	if f.failNext {
		f.failNext = false
		return errors.New("disk full")
	}
	f.saved = append(f.saved, txns)
	return nil
}

func newTestRepo(t *testing.T, store *fakeStore) *Repository {
	t.Helper()
	r := New(store)
	if err := r.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return r
}

func coffeeDraft() Draft {
	return Draft{
		Description: "Coffee",
		AmountCents: 15000,
		Date:        core.NewDate(2024, 3, 5),
		Category:    core.CategoryFood,
		Type:        core.TypeExpense,
	}
}

func TestAddAppliesSignAndPersists(t *testing.T) {
	store := &fakeStore{}
	r := newTestRepo(t, store)
	ctx := context.Background()

	before := core.Balance(r.All())
	txn, err := r.Add(ctx, coffeeDraft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if txn.Amount.Cents != -15000 {
		t.Fatalf("expense magnitude 15000 should store as -15000, got %d", txn.Amount.Cents)
	}
	if txn.Type() != core.TypeExpense {
		t.Fatalf("type = %s", txn.Type())
	}
	after := core.Balance(r.All())
	if after.Cents != before.Cents-15000 {
		t.Fatalf("balance should drop by 15000: %d -> %d", before.Cents, after.Cents)
	}
	if got := core.MonthlyExpense(r.All(), "2024-03"); got.Cents != 15000 {
		t.Fatalf("monthly expense for 2024-03 = %d", got.Cents)
	}
	if len(store.saved) != 1 {
		t.Fatalf("expected one persistence write, got %d", len(store.saved))
	}
}

func TestAddValidation(t *testing.T) {
	store := &fakeStore{}
	r := newTestRepo(t, store)
	ctx := context.Background()

	cases := []struct {
		name   string
		mutate func(*Draft)
		want   error
	}{
		{"empty description", func(d *Draft) { d.Description = "  " }, core.ErrEmptyDescription},
		{"zero magnitude", func(d *Draft) { d.AmountCents = 0 }, core.ErrInvalidAmount},
		{"negative magnitude", func(d *Draft) { d.AmountCents = -100 }, core.ErrInvalidAmount},
		{"missing date", func(d *Draft) { d.Date = core.Date{} }, core.ErrInvalidDate},
		{"bad category", func(d *Draft) { d.Category = "misc" }, core.ErrUnknownCategory},
		{"bad type", func(d *Draft) { d.Type = "transfer" }, core.ErrInvalidAmount},
	}
	for _, tc := range cases {
		d := coffeeDraft()
		tc.mutate(&d)
		if _, err := r.Add(ctx, d); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	if len(r.All()) != 0 {
		t.Fatal("failed adds must not change state")
	}
	if len(store.saved) != 0 {
		t.Fatal("failed adds must not persist")
	}
}

func TestUpdatePreservesSign(t *testing.T) {
	store := &fakeStore{}
	r := newTestRepo(t, store)
	ctx := context.Background()

	txn, err := r.Add(ctx, Draft{
		Description: "Salary",
		AmountCents: 5000000,
		Date:        core.NewDate(2024, 3, 1),
		Category:    core.CategorySalary,
		Type:        core.TypeIncome,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	ok, err := r.Update(ctx, txn.ID, Fields{
		Description: "Salary",
		AmountCents: 4500000,
		Date:        txn.Date,
		Category:    txn.Category,
	})
	if err != nil || !ok {
		t.Fatalf("update: ok=%v err=%v", ok, err)
	}

	got, found := r.FindByID(txn.ID)
	if !found {
		t.Fatal("transaction vanished after update")
	}
	if got.Amount.Cents != 4500000 {
		t.Fatalf("income sign must survive edit: got %d", got.Amount.Cents)
	}
	if got.Category != core.CategorySalary || got.Date.String() != "2024-03-01" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
}

func TestUpdateUnknownIDIsSilentNoop(t *testing.T) {
	store := &fakeStore{}
	r := newTestRepo(t, store)
	ctx := context.Background()

	ok, err := r.Update(ctx, 12345, Fields{
		Description: "ghost",
		AmountCents: 100,
		Date:        core.NewDate(2024, 1, 1),
		Category:    core.CategoryOther,
	})
	if err != nil {
		t.Fatalf("unknown id must not error: %v", err)
	}
	if ok {
		t.Fatal("unknown id must report no-op")
	}
	if len(store.saved) != 0 {
		t.Fatal("no-op must not persist")
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	store := &fakeStore{}
	r := newTestRepo(t, store)
	ctx := context.Background()

	txn, err := r.Add(ctx, coffeeDraft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	ok, err := r.Remove(ctx, txn.ID)
	if err != nil || !ok {
		t.Fatalf("first remove: ok=%v err=%v", ok, err)
	}
	ok, err = r.Remove(ctx, txn.ID)
	if err != nil {
		t.Fatalf("second remove errored: %v", err)
	}
	if ok {
		t.Fatal("second remove should no-op")
	}
	if len(r.All()) != 0 {
		t.Fatal("transaction still present")
	}
}

func TestIDsAreUniqueAndMonotonic(t *testing.T) {
	store := &fakeStore{}
	r := newTestRepo(t, store)
	// Freeze the clock so every addition collides on the same millisecond.
	fixed := time.UnixMilli(1710000000000)
	r.now = func() time.Time { return fixed }

	ctx := context.Background()
	var prev int64
	for i := 0; i < 5; i++ {
		txn, err := r.Add(ctx, coffeeDraft())
		if err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
		if txn.ID <= prev {
			t.Fatalf("ids not strictly increasing: %d after %d", txn.ID, prev)
		}
		prev = txn.ID
	}
}

func TestPersistFailureKeepsInMemoryState(t *testing.T) {
	store := &fakeStore{}
	r := newTestRepo(t, store)
	ctx := context.Background()

	store.failNext = true
	txn, err := r.Add(ctx, coffeeDraft())
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected persist error, got %v", err)
	}
	if _, found := r.FindByID(txn.ID); !found {
		t.Fatal("in-memory state must survive a failed write")
	}
}

func TestLoadSeedsLastID(t *testing.T) {
	store := &fakeStore{initial: []core.Transaction{
		{ID: 1710000000123, Description: "old", Amount: core.Money{Cents: -100}, Date: core.NewDate(2024, 1, 1), Category: core.CategoryOther},
	}}
	r := newTestRepo(t, store)
	r.now = func() time.Time { return time.UnixMilli(1710000000000) }

	txn, err := r.Add(context.Background(), coffeeDraft())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if txn.ID <= 1710000000123 {
		t.Fatalf("new id %d must exceed loaded maximum", txn.ID)
	}
}
