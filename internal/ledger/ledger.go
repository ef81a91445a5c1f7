// Package ledger holds the active session's ordered expense collection and
// keeps it synchronized to the persistence store on every mutation.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"kharcha/internal/core"
	"kharcha/internal/kvstore"
	"kharcha/internal/log"
	"kharcha/internal/session"
)

// ErrNotFound is returned when a delete targets an id not in the ledger.
var ErrNotFound = errors.New("expense not found")

// Ledger is the in-memory expense list for one session, sorted descending
// by date after every mutation. The whole list is persisted on each change;
// list sizes here are small enough that this stays cheap.
type Ledger struct {
	store kvstore.Store
	scope session.Scope
	items []core.Expense
}

func New(store kvstore.Store, scope session.Scope) *Ledger {
	return &Ledger{store: store, scope: scope}
}

// Load reads and decodes the persisted expense list. One malformed entry
// aborts the whole load with a format error; partial results are never
// kept.
func (l *Ledger) Load(ctx context.Context) error {
	docs, ok, err := l.store.GetStringList(ctx, l.scope.ExpensesKey())
	if err != nil {
		return fmt.Errorf("read expenses: %w", err)
	}
	if !ok {
		l.items = nil
		return nil
	}

	items := make([]core.Expense, 0, len(docs))
	for _, doc := range docs {
		e, err := core.DecodeExpense([]byte(doc))
		if err != nil {
			return fmt.Errorf("load expenses: %w", err)
		}
		items = append(items, e)
	}
	core.SortByDateDesc(items)
	l.items = items

	slog.DebugContext(ctx, "Loaded expenses",
		log.FieldComponent, log.ComponentLedger,
		"count", len(items))
	return nil
}

// Expenses returns a copy of the current list, newest first.
func (l *Ledger) Expenses() []core.Expense {
	out := make([]core.Expense, len(l.items))
	copy(out, l.items)
	return out
}

// Add creates a new expense with a fresh id, re-sorts and persists.
func (l *Ledger) Add(ctx context.Context, title, note string, amount float64, date time.Time, category string) (core.Expense, error) {
	e := core.Expense{
		ID:       uuid.NewString(),
		Title:    title,
		Note:     core.NormalizeNote(note),
		Amount:   amount,
		Date:     date,
		Category: category,
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	items := append(l.Expenses(), e)
	core.SortByDateDesc(items)
	if err := l.persist(ctx, items); err != nil {
		return core.Expense{}, err
	}
	l.items = items

	slog.InfoContext(ctx, "Expense added",
		log.NewFields().
			WithComponent(log.ComponentLedger).
			WithOperation(log.OpAdd).
			WithExpense(e.ID, e.Amount, e.Category).
			ToSlice()...)
	return e, nil
}

// Delete removes the expense with the given id and persists. It returns
// the removed record and its index so the caller can offer one-shot undo
// via Reinsert.
func (l *Ledger) Delete(ctx context.Context, id string) (core.Expense, int, error) {
	index := -1
	for i, e := range l.items {
		if e.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return core.Expense{}, 0, ErrNotFound
	}

	removed := l.items[index]
	items := append(l.items[:index:index], l.items[index+1:]...)
	if err := l.persist(ctx, items); err != nil {
		return core.Expense{}, 0, err
	}
	l.items = items

	slog.InfoContext(ctx, "Expense deleted",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpDelete,
		log.FieldExpenseID, id)
	return removed, index, nil
}

// Reinsert puts a previously deleted expense back at its original index
// without assigning a new id. Out-of-range indexes clamp to the list ends.
func (l *Ledger) Reinsert(ctx context.Context, e core.Expense, at int) error {
	if at < 0 {
		at = 0
	}
	if at > len(l.items) {
		at = len(l.items)
	}

	items := make([]core.Expense, 0, len(l.items)+1)
	items = append(items, l.items[:at]...)
	items = append(items, e)
	items = append(items, l.items[at:]...)

	if err := l.persist(ctx, items); err != nil {
		return err
	}
	l.items = items

	slog.InfoContext(ctx, "Expense reinserted",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpUndo,
		log.FieldExpenseID, e.ID,
		"index", at)
	return nil
}

// ReplaceAll swaps in a whole new list (restore-from-backup), re-sorted and
// persisted.
func (l *Ledger) ReplaceAll(ctx context.Context, expenses []core.Expense) error {
	items := make([]core.Expense, len(expenses))
	copy(items, expenses)
	core.SortByDateDesc(items)

	if err := l.persist(ctx, items); err != nil {
		return err
	}
	l.items = items

	slog.InfoContext(ctx, "Ledger replaced",
		log.FieldComponent, log.ComponentLedger,
		log.FieldOperation, log.OpImport,
		"count", len(items))
	return nil
}

func (l *Ledger) persist(ctx context.Context, items []core.Expense) error {
	docs := make([]string, len(items))
	for i, e := range items {
		data, err := core.EncodeExpense(e)
		if err != nil {
			return err
		}
		docs[i] = string(data)
	}
	if err := l.store.SetStringList(ctx, l.scope.ExpensesKey(), docs); err != nil {
		return fmt.Errorf("persist expenses: %w", err)
	}
	return nil
}
