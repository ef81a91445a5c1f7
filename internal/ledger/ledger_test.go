package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"kharcha/internal/core"
	"kharcha/internal/kvstore"
	"kharcha/internal/session"
)

type LedgerTestSuite struct {
	suite.Suite
	store  *kvstore.MemoryStore
	ledger *Ledger
}

func (s *LedgerTestSuite) SetupTest() {
	s.store = kvstore.NewMemoryStore()
	s.ledger = New(s.store, session.ForUser("alice"))
	require.NoError(s.T(), s.ledger.Load(context.Background()))
}

func (s *LedgerTestSuite) addAt(title string, amount float64, date time.Time) core.Expense {
	e, err := s.ledger.Add(context.Background(), title, "", amount, date, core.CategoryFood)
	require.NoError(s.T(), err)
	return e
}

func (s *LedgerTestSuite) TestAddThenLoadRoundTrips() {
	ctx := context.Background()

	date := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)
	added, err := s.ledger.Add(ctx, "Groceries run", "  weekly shop  ", 450.75, date, core.CategoryFood)
	require.NoError(s.T(), err)
	assert.NotEmpty(s.T(), added.ID)
	require.NotNil(s.T(), added.Note)
	assert.Equal(s.T(), "weekly shop", *added.Note, "note is trimmed on entry")

	// A fresh ledger over the same store sees the identical record.
	reloaded := New(s.store, session.ForUser("alice"))
	require.NoError(s.T(), reloaded.Load(ctx))
	got := reloaded.Expenses()
	require.Len(s.T(), got, 1)
	assert.Equal(s.T(), added, got[0])
}

func (s *LedgerTestSuite) TestEmptyNoteBecomesAbsent() {
	e := s.addAt("Bus ticket", 30, time.Now())
	assert.Nil(s.T(), e.Note)
}

func (s *LedgerTestSuite) TestOrderingDescendingByDate() {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.addAt("oldest", 10, base)
	s.addAt("newest", 30, base.AddDate(0, 0, 2))
	s.addAt("middle", 20, base.AddDate(0, 0, 1))

	got := s.ledger.Expenses()
	require.Len(s.T(), got, 3)
	assert.Equal(s.T(), "newest", got[0].Title)
	assert.Equal(s.T(), "middle", got[1].Title)
	assert.Equal(s.T(), "oldest", got[2].Title)
}

func (s *LedgerTestSuite) TestAddRejectsInvalidInput() {
	ctx := context.Background()

	_, err := s.ledger.Add(ctx, "", "", 10, time.Now(), core.CategoryFood)
	assert.ErrorIs(s.T(), err, core.ErrEmptyTitle)

	_, err = s.ledger.Add(ctx, "x", "", 0, time.Now(), core.CategoryFood)
	assert.ErrorIs(s.T(), err, core.ErrInvalidAmount)

	assert.Empty(s.T(), s.ledger.Expenses(), "failed adds must not mutate the ledger")
}

func (s *LedgerTestSuite) TestDeleteAndUndoRestoresExactOrder() {
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.addAt("third", 10, base)
	s.addAt("first", 30, base.AddDate(0, 0, 2))
	s.addAt("second", 20, base.AddDate(0, 0, 1))

	before := s.ledger.Expenses()

	removed, index, err := s.ledger.Delete(ctx, before[1].ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "second", removed.Title)
	assert.Equal(s.T(), 1, index)
	require.Len(s.T(), s.ledger.Expenses(), 2)

	require.NoError(s.T(), s.ledger.Reinsert(ctx, removed, index))
	assert.Equal(s.T(), before, s.ledger.Expenses(), "undo must restore the pre-delete list exactly")
}

func (s *LedgerTestSuite) TestDeleteUnknownID() {
	_, _, err := s.ledger.Delete(context.Background(), "not-there")
	assert.ErrorIs(s.T(), err, ErrNotFound)
}

func (s *LedgerTestSuite) TestDeletePersists() {
	ctx := context.Background()
	e := s.addAt("temp", 10, time.Now())

	_, _, err := s.ledger.Delete(ctx, e.ID)
	require.NoError(s.T(), err)

	reloaded := New(s.store, session.ForUser("alice"))
	require.NoError(s.T(), reloaded.Load(ctx))
	assert.Empty(s.T(), reloaded.Expenses())
}

func (s *LedgerTestSuite) TestReplaceAllSortsAndPersists() {
	ctx := context.Background()
	s.addAt("will be replaced", 99, time.Now())

	restored := []core.Expense{
		{ID: "r1", Title: "older", Amount: 10, Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Category: core.CategoryBills},
		{ID: "r2", Title: "newer", Amount: 20, Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), Category: core.CategoryFood},
	}
	require.NoError(s.T(), s.ledger.ReplaceAll(ctx, restored))

	got := s.ledger.Expenses()
	require.Len(s.T(), got, 2)
	assert.Equal(s.T(), "newer", got[0].Title)
	assert.Equal(s.T(), "older", got[1].Title)
}

func (s *LedgerTestSuite) TestLoadAbortsOnMalformedEntry() {
	ctx := context.Background()
	docs := []string{
		`{"id":"ok","title":"fine","amount":10,"date":"2024-03-01T00:00:00Z","category":"Food"}`,
		`{not valid json`,
	}
	require.NoError(s.T(), s.store.SetStringList(ctx, "alice_expenses", docs))

	fresh := New(s.store, session.ForUser("alice"))
	err := fresh.Load(ctx)
	require.Error(s.T(), err)

	var formatErr *core.FormatError
	assert.ErrorAs(s.T(), err, &formatErr)
	assert.Empty(s.T(), fresh.Expenses(), "no partial results after a failed load")
}

func (s *LedgerTestSuite) TestScopeIsolation() {
	ctx := context.Background()
	s.addAt("alice only", 10, time.Now())

	bob := New(s.store, session.ForUser("bob"))
	require.NoError(s.T(), bob.Load(ctx))
	assert.Empty(s.T(), bob.Expenses())
}

func TestLedgerSuite(t *testing.T) {
	suite.Run(t, new(LedgerTestSuite))
}
