// Package settings persists the per-user preference set: onboarding flag,
// theme, currency symbol, monthly budget, PIN code and the daily reminder
// flag. Budget and PIN use presence/absence to mean "unset", never a
// sentinel value.
package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"kharcha/internal/kvstore"
	"kharcha/internal/session"
)

const (
	ThemeLight ThemeMode = "light"
	ThemeDark  ThemeMode = "dark"
)

// DefaultCurrencySymbol is used until the user picks another.
const DefaultCurrencySymbol = "Rs."

// ThemeMode is the persisted display theme.
type ThemeMode string

// DecodeThemeMode maps a stored string to a theme. Anything unrecognized
// (including the conceptual "system" value) decodes to light; this is the
// documented default, not an error.
func DecodeThemeMode(raw string) ThemeMode {
	switch ThemeMode(raw) {
	case ThemeDark:
		return ThemeDark
	default:
		return ThemeLight
	}
}

// ErrWrongPIN is returned when a supplied PIN does not match the stored
// one.
var ErrWrongPIN = errors.New("wrong PIN")

// Settings holds the loaded preference values for one session.
type Settings struct {
	OnboardingDone bool
	Theme          ThemeMode
	CurrencySymbol string
	MonthlyBudget  *float64 // nil = unset, distinct from zero
	PINCode        string   // empty = lock disabled
	DailyReminder  bool     // stored flag only, nothing schedules it
}

// Defaults returns the settings of a fresh account.
func Defaults() Settings {
	return Settings{
		Theme:          ThemeLight,
		CurrencySymbol: DefaultCurrencySymbol,
	}
}

// PINEnabled reports whether a PIN lock is configured.
func (s Settings) PINEnabled() bool {
	return s.PINCode != ""
}

// Store loads and saves settings under one session's key scope. Each field
// persists independently; every setter writes through immediately.
type Store struct {
	store kvstore.Store
	scope session.Scope
}

func NewStore(store kvstore.Store, scope session.Scope) *Store {
	return &Store{store: store, scope: scope}
}

// Load reads every field, falling back to defaults for absent keys.
func (s *Store) Load(ctx context.Context) (Settings, error) {
	out := Defaults()

	onboarding, ok, err := s.store.GetBool(ctx, s.scope.OnboardingDoneKey())
	if err != nil {
		return Settings{}, fmt.Errorf("load onboarding flag: %w", err)
	}
	if ok {
		out.OnboardingDone = onboarding
	}

	theme, ok, err := s.store.GetString(ctx, s.scope.ThemeModeKey())
	if err != nil {
		return Settings{}, fmt.Errorf("load theme: %w", err)
	}
	if ok {
		out.Theme = DecodeThemeMode(theme)
	}

	symbol, ok, err := s.store.GetString(ctx, s.scope.CurrencySymbolKey())
	if err != nil {
		return Settings{}, fmt.Errorf("load currency symbol: %w", err)
	}
	if ok && symbol != "" {
		out.CurrencySymbol = symbol
	}

	budget, ok, err := s.store.GetFloat(ctx, s.scope.MonthlyBudgetKey())
	if err != nil {
		return Settings{}, fmt.Errorf("load monthly budget: %w", err)
	}
	if ok {
		out.MonthlyBudget = &budget
	}

	pin, ok, err := s.store.GetString(ctx, s.scope.PINCodeKey())
	if err != nil {
		return Settings{}, fmt.Errorf("load pin: %w", err)
	}
	if ok {
		out.PINCode = pin
	}

	reminder, ok, err := s.store.GetBool(ctx, s.scope.DailyReminderKey())
	if err != nil {
		return Settings{}, fmt.Errorf("load reminder flag: %w", err)
	}
	if ok {
		out.DailyReminder = reminder
	}

	return out, nil
}

func (s *Store) SetOnboardingDone(ctx context.Context, done bool) error {
	return s.store.SetBool(ctx, s.scope.OnboardingDoneKey(), done)
}

func (s *Store) SetTheme(ctx context.Context, theme ThemeMode) error {
	return s.store.SetString(ctx, s.scope.ThemeModeKey(), string(theme))
}

func (s *Store) SetCurrencySymbol(ctx context.Context, symbol string) error {
	return s.store.SetString(ctx, s.scope.CurrencySymbolKey(), symbol)
}

func (s *Store) SetMonthlyBudget(ctx context.Context, budget float64) error {
	return s.store.SetFloat(ctx, s.scope.MonthlyBudgetKey(), budget)
}

// ClearMonthlyBudget removes the budget entirely; unset is represented by
// key absence.
func (s *Store) ClearMonthlyBudget(ctx context.Context) error {
	return s.store.Delete(ctx, s.scope.MonthlyBudgetKey())
}

func (s *Store) SetPIN(ctx context.Context, pin string) error {
	if err := s.store.SetString(ctx, s.scope.PINCodeKey(), pin); err != nil {
		return err
	}
	slog.InfoContext(ctx, "PIN updated")
	return nil
}

// ClearPIN disables the lock by removing the stored code.
func (s *Store) ClearPIN(ctx context.Context) error {
	return s.store.Delete(ctx, s.scope.PINCodeKey())
}

func (s *Store) SetDailyReminder(ctx context.Context, enabled bool) error {
	return s.store.SetBool(ctx, s.scope.DailyReminderKey(), enabled)
}
