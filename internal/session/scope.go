// Package session derives the user-scoped key namespace that partitions
// one account's data from another's inside the shared key-value store.
package session

import "strings"

// GuestPrefix is the sentinel namespace used when no account is active.
// Normal flow always logs in first, so keys under this prefix are not
// written in practice.
const GuestPrefix = "guest"

const (
	lastLoggedInKey = "last_logged_in_user"
	userKeyPrefix   = "user_"
)

// NormalizeUsername trims and lowercases a username. The result is the
// canonical account identity and the storage key prefix.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

// UserKey is the global (non-scoped) key holding an account record.
func UserKey(normalizedUsername string) string {
	return userKeyPrefix + normalizedUsername
}

// LastLoggedInKey is the global key holding the normalized username of the
// most recently logged-in account.
func LastLoggedInKey() string {
	return lastLoggedInKey
}

// Scope is a user-scoped key namespace. All ledger and settings keys are
// the prefix plus a fixed suffix.
type Scope struct {
	prefix string
}

// ForUser returns the scope for a normalized username.
func ForUser(normalizedUsername string) Scope {
	if normalizedUsername == "" {
		return Guest()
	}
	return Scope{prefix: normalizedUsername}
}

// Guest returns the sentinel scope used when no account is active.
func Guest() Scope {
	return Scope{prefix: GuestPrefix}
}

func (s Scope) Prefix() string { return s.prefix }

func (s Scope) ExpensesKey() string       { return s.prefix + "_expenses" }
func (s Scope) OnboardingDoneKey() string { return s.prefix + "_onboarding_done" }
func (s Scope) ThemeModeKey() string      { return s.prefix + "_theme_mode" }
func (s Scope) CurrencySymbolKey() string { return s.prefix + "_currency_symbol" }
func (s Scope) MonthlyBudgetKey() string  { return s.prefix + "_monthly_budget" }
func (s Scope) PINCodeKey() string        { return s.prefix + "_pin_code" }
func (s Scope) DailyReminderKey() string  { return s.prefix + "_daily_reminder" }

// AllKeys lists every scoped key, in the order they are cleared on logout.
func (s Scope) AllKeys() []string {
	return []string{
		s.ExpensesKey(),
		s.OnboardingDoneKey(),
		s.ThemeModeKey(),
		s.CurrencySymbolKey(),
		s.MonthlyBudgetKey(),
		s.PINCodeKey(),
		s.DailyReminderKey(),
	}
}
