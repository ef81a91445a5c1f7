// Package services wires the account directory, expense ledger and
// settings store into one session-scoped application service.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"kharcha/internal/accounts"
	"kharcha/internal/backup"
	"kharcha/internal/cache"
	"kharcha/internal/core"
	"kharcha/internal/kvstore"
	"kharcha/internal/ledger"
	"kharcha/internal/log"
	"kharcha/internal/settings"
)

var (
	// ErrNoSession is returned when an operation requires a logged-in
	// account and none is active.
	ErrNoSession = errors.New("no active session")

	// ErrInvalidPIN is returned when a new PIN is not exactly four
	// digits.
	ErrInvalidPIN = errors.New("PIN must be exactly 4 digits")

	// ErrNothingToUndo is returned when no delete is pending undo.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrLocked is returned for ledger operations while the PIN gate is
	// closed.
	ErrLocked = errors.New("session is locked")
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

const (
	overviewCacheSize = 24
	overviewCacheTTL  = 5 * time.Minute
)

type pendingDelete struct {
	expense core.Expense
	index   int
}

// Tracker owns the active session and its scoped data. One Tracker serves
// one process; user actions arrive serialized, so no internal locking is
// needed beyond what the store provides.
type Tracker struct {
	store     kvstore.Store
	directory *accounts.Directory

	sess          *accounts.Session
	ledger        *ledger.Ledger
	settingsStore *settings.Store
	prefs         settings.Settings

	lastDelete    *pendingDelete
	overviewCache *cache.LRU[core.MonthOverview]
}

func NewTracker(store kvstore.Store) *Tracker {
	return &Tracker{
		store:         store,
		directory:     accounts.NewDirectory(store),
		prefs:         settings.Defaults(),
		overviewCache: cache.NewLRU[core.MonthOverview](overviewCacheSize, overviewCacheTTL),
	}
}

// Register creates an account and establishes its session, loading the
// (empty) ledger and default settings.
func (t *Tracker) Register(ctx context.Context, username, password, displayName string) error {
	sess, err := t.directory.Register(ctx, username, password, displayName)
	if err != nil {
		return err
	}
	return t.establish(ctx, sess)
}

// Login authenticates and establishes the session, triggering a full load
// of that user's ledger and settings.
func (t *Tracker) Login(ctx context.Context, username, password string) error {
	sess, err := t.directory.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return t.establish(ctx, sess)
}

// RestoreLastSession silently re-establishes the last logged-in account at
// startup. Returns false when there is nothing to restore.
func (t *Tracker) RestoreLastSession(ctx context.Context) (bool, error) {
	sess, found, err := t.directory.RestoreLastSession(ctx)
	if err != nil || !found {
		return false, err
	}
	if err := t.establish(ctx, sess); err != nil {
		return false, err
	}
	return true, nil
}

// Logout removes the user's scoped keys (account record stays) and resets
// all in-memory state to defaults.
func (t *Tracker) Logout(ctx context.Context) error {
	if t.sess == nil {
		return ErrNoSession
	}
	if err := t.directory.Logout(ctx, t.sess); err != nil {
		return err
	}
	t.reset()
	return nil
}

func (t *Tracker) establish(ctx context.Context, sess *accounts.Session) error {
	scope := sess.Scope
	led := ledger.New(t.store, scope)
	if err := led.Load(ctx); err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	settingsStore := settings.NewStore(t.store, scope)
	prefs, err := settingsStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	sess.Unlocked = !prefs.PINEnabled()

	t.sess = sess
	t.ledger = led
	t.settingsStore = settingsStore
	t.prefs = prefs
	t.lastDelete = nil
	t.overviewCache.Clear()

	slog.InfoContext(ctx, "Session established",
		log.FieldComponent, log.ComponentApp,
		log.FieldUsername, sess.Account.Username,
		"expenses", len(led.Expenses()),
		"pin_enabled", prefs.PINEnabled())
	return nil
}

func (t *Tracker) reset() {
	t.sess = nil
	t.ledger = nil
	t.settingsStore = nil
	t.prefs = settings.Defaults()
	t.lastDelete = nil
	t.overviewCache.Clear()
}

// Session returns the active session, or nil when logged out.
func (t *Tracker) Session() *accounts.Session {
	return t.sess
}

// Settings returns the loaded settings of the active session.
func (t *Tracker) Settings() settings.Settings {
	return t.prefs
}

func (t *Tracker) requireSession() error {
	if t.sess == nil {
		return ErrNoSession
	}
	return nil
}

func (t *Tracker) requireUnlocked() error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if !t.sess.Unlocked {
		return ErrLocked
	}
	return nil
}

// Expenses returns the session's ledger, newest first.
func (t *Tracker) Expenses() ([]core.Expense, error) {
	if err := t.requireUnlocked(); err != nil {
		return nil, err
	}
	return t.ledger.Expenses(), nil
}

// AddExpense records a new expense and invalidates derived summaries.
func (t *Tracker) AddExpense(ctx context.Context, title, note string, amount float64, date time.Time, category string) (core.Expense, error) {
	if err := t.requireUnlocked(); err != nil {
		return core.Expense{}, err
	}
	e, err := t.ledger.Add(ctx, title, note, amount, date, category)
	if err != nil {
		return core.Expense{}, err
	}
	t.invalidateMonth(e.Date)
	return e, nil
}

// DeleteExpense removes an expense and remembers it for one-shot undo.
func (t *Tracker) DeleteExpense(ctx context.Context, id string) (core.Expense, error) {
	if err := t.requireUnlocked(); err != nil {
		return core.Expense{}, err
	}
	removed, index, err := t.ledger.Delete(ctx, id)
	if err != nil {
		return core.Expense{}, err
	}
	t.lastDelete = &pendingDelete{expense: removed, index: index}
	t.invalidateMonth(removed.Date)
	return removed, nil
}

// UndoDelete reinserts the most recently deleted expense at its original
// index. Only the latest delete in this session can be undone, once.
func (t *Tracker) UndoDelete(ctx context.Context) (core.Expense, error) {
	if err := t.requireUnlocked(); err != nil {
		return core.Expense{}, err
	}
	if t.lastDelete == nil {
		return core.Expense{}, ErrNothingToUndo
	}
	pending := *t.lastDelete
	if err := t.ledger.Reinsert(ctx, pending.expense, pending.index); err != nil {
		return core.Expense{}, err
	}
	t.lastDelete = nil
	t.invalidateMonth(pending.expense.Date)
	return pending.expense, nil
}

// FilterByWindow returns the expenses inside the window, newest first.
func (t *Tracker) FilterByWindow(window core.TimeWindow, ref time.Time) ([]core.Expense, error) {
	if err := t.requireUnlocked(); err != nil {
		return nil, err
	}
	return core.FilterByWindow(t.ledger.Expenses(), window, ref), nil
}

// MonthOverview returns the cached total and category breakdown for one
// month, recomputing on miss.
func (t *Tracker) MonthOverview(year, month int) (core.MonthOverview, error) {
	if err := t.requireUnlocked(); err != nil {
		return core.MonthOverview{}, err
	}
	key := overviewKey(year, month)
	if cached, ok := t.overviewCache.Get(key); ok {
		return cached, nil
	}
	overview := core.OverviewForMonth(t.ledger.Expenses(), year, month)
	t.overviewCache.Set(key, overview)
	return overview, nil
}

// MonthsWithData returns the distinct months present in the ledger, most
// recent first.
func (t *Tracker) MonthsWithData() ([]core.YearMonth, error) {
	if err := t.requireUnlocked(); err != nil {
		return nil, err
	}
	return core.MonthsWithData(t.ledger.Expenses()), nil
}

// LatestMonthWithData returns the month of the newest expense.
func (t *Tracker) LatestMonthWithData() (core.YearMonth, bool, error) {
	if err := t.requireUnlocked(); err != nil {
		return core.YearMonth{}, false, err
	}
	ym, ok := core.LatestMonthWithData(t.ledger.Expenses())
	return ym, ok, nil
}

// RemainingBudget reports how much of the monthly budget is left for the
// month containing ref. The second return is false when no budget is set.
func (t *Tracker) RemainingBudget(ref time.Time) (float64, bool, error) {
	if err := t.requireUnlocked(); err != nil {
		return 0, false, err
	}
	if t.prefs.MonthlyBudget == nil {
		return 0, false, nil
	}
	spent := core.Total(core.FilterByWindow(t.ledger.Expenses(), core.WindowMonth, ref))
	return *t.prefs.MonthlyBudget - spent, true, nil
}

// ExportBackup serializes the ledger to the interchange blob.
func (t *Tracker) ExportBackup() (string, error) {
	if err := t.requireUnlocked(); err != nil {
		return "", err
	}
	return backup.Export(t.ledger.Expenses())
}

// RestoreBackup parses a backup blob and wholesale-replaces the ledger.
// On any format error the existing ledger is left untouched.
func (t *Tracker) RestoreBackup(ctx context.Context, blob string) error {
	if err := t.requireUnlocked(); err != nil {
		return err
	}
	expenses, err := backup.Parse(blob)
	if err != nil {
		return err
	}
	if err := t.ledger.ReplaceAll(ctx, expenses); err != nil {
		return err
	}
	t.lastDelete = nil
	t.overviewCache.Clear()
	return nil
}

// SetPIN stores a new 4-digit PIN and closes the gate until it is entered.
func (t *Tracker) SetPIN(ctx context.Context, pin string) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if !pinPattern.MatchString(pin) {
		return ErrInvalidPIN
	}
	if err := t.settingsStore.SetPIN(ctx, pin); err != nil {
		return err
	}
	t.prefs.PINCode = pin
	t.sess.Unlocked = false
	return nil
}

// VerifyPIN opens the gate on a correct PIN; a wrong PIN leaves the gate
// closed and returns an error.
func (t *Tracker) VerifyPIN(pin string) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if !t.prefs.PINEnabled() {
		t.sess.Unlocked = true
		return nil
	}
	if pin != t.prefs.PINCode {
		return settings.ErrWrongPIN
	}
	t.sess.Unlocked = true
	return nil
}

// ClearPIN disables the lock; no PIN implies unlocked.
func (t *Tracker) ClearPIN(ctx context.Context) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if err := t.settingsStore.ClearPIN(ctx); err != nil {
		return err
	}
	t.prefs.PINCode = ""
	t.sess.Unlocked = true
	return nil
}

func (t *Tracker) SetTheme(ctx context.Context, theme settings.ThemeMode) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if err := t.settingsStore.SetTheme(ctx, theme); err != nil {
		return err
	}
	t.prefs.Theme = theme
	return nil
}

func (t *Tracker) SetCurrencySymbol(ctx context.Context, symbol string) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if err := t.settingsStore.SetCurrencySymbol(ctx, symbol); err != nil {
		return err
	}
	t.prefs.CurrencySymbol = symbol
	return nil
}

func (t *Tracker) SetMonthlyBudget(ctx context.Context, budget float64) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if err := t.settingsStore.SetMonthlyBudget(ctx, budget); err != nil {
		return err
	}
	t.prefs.MonthlyBudget = &budget
	return nil
}

func (t *Tracker) ClearMonthlyBudget(ctx context.Context) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if err := t.settingsStore.ClearMonthlyBudget(ctx); err != nil {
		return err
	}
	t.prefs.MonthlyBudget = nil
	return nil
}

func (t *Tracker) SetDailyReminder(ctx context.Context, enabled bool) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if err := t.settingsStore.SetDailyReminder(ctx, enabled); err != nil {
		return err
	}
	t.prefs.DailyReminder = enabled
	return nil
}

func (t *Tracker) SetOnboardingDone(ctx context.Context, done bool) error {
	if err := t.requireSession(); err != nil {
		return err
	}
	if err := t.settingsStore.SetOnboardingDone(ctx, done); err != nil {
		return err
	}
	t.prefs.OnboardingDone = done
	return nil
}

func (t *Tracker) invalidateMonth(date time.Time) {
	t.overviewCache.Delete(overviewKey(date.Year(), int(date.Month())))
}

func overviewKey(year, month int) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}
