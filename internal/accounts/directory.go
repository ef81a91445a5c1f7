// Package accounts manages the global account registry: registration,
// login, logout and restoring the last logged-in session at startup.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"kharcha/internal/kvstore"
	"kharcha/internal/log"
	"kharcha/internal/session"
)

var (
	// ErrInvalidCredentials is returned for both unknown usernames and
	// wrong passwords, leaking no detail about which part failed.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrUsernameTaken is returned when the normalized username already
	// has a stored account.
	ErrUsernameTaken = errors.New("username already registered")

	// ErrMissingFields is returned when a required registration field is
	// empty after trimming.
	ErrMissingFields = errors.New("username, password and display name are required")
)

// Directory manages account records in the global key namespace.
type Directory struct {
	store kvstore.Store
}

func NewDirectory(store kvstore.Store) *Directory {
	return &Directory{store: store}
}

// Register creates a new account, records it as the last logged-in user and
// returns the established session. The username is normalized (trimmed and
// lowercased) before uniqueness is checked.
func (d *Directory) Register(ctx context.Context, username, password, displayName string) (*Session, error) {
	normalized := session.NormalizeUsername(username)
	displayName = strings.TrimSpace(displayName)

	if normalized == "" || password == "" || displayName == "" {
		return nil, ErrMissingFields
	}

	key := session.UserKey(normalized)
	_, exists, err := d.store.GetString(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("check existing account: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account := Account{
		Username:    normalized,
		Password:    string(hash),
		DisplayName: displayName,
	}
	raw, err := encodeAccount(account)
	if err != nil {
		return nil, err
	}
	if err := d.store.SetString(ctx, key, raw); err != nil {
		return nil, fmt.Errorf("persist account: %w", err)
	}
	if err := d.store.SetString(ctx, session.LastLoggedInKey(), normalized); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}

	slog.InfoContext(ctx, "Account registered",
		log.FieldComponent, log.ComponentAccounts,
		log.FieldOperation, log.OpRegister,
		log.FieldUsername, normalized)
	return newSession(account), nil
}

// Login authenticates an account and establishes its session. Lookup uses
// the normalized username first and falls back to the raw username for
// accounts created before normalization existed.
func (d *Directory) Login(ctx context.Context, username, password string) (*Session, error) {
	normalized := session.NormalizeUsername(username)

	account, found, err := d.lookup(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !found && username != normalized {
		account, found, err = d.lookup(ctx, username)
		if err != nil {
			return nil, err
		}
	}
	if !found {
		return nil, ErrInvalidCredentials
	}

	if !checkPassword(account.Password, password) {
		return nil, ErrInvalidCredentials
	}

	if err := d.store.SetString(ctx, session.LastLoggedInKey(), session.NormalizeUsername(account.Username)); err != nil {
		return nil, fmt.Errorf("record last login: %w", err)
	}

	slog.InfoContext(ctx, "Login succeeded",
		log.FieldComponent, log.ComponentAccounts,
		log.FieldOperation, log.OpLogin,
		log.FieldUsername, account.Username)
	return newSession(account), nil
}

// Logout deletes the session's scoped storage keys and the last-login
// pointer. The account record itself is kept.
func (d *Directory) Logout(ctx context.Context, sess *Session) error {
	if sess == nil {
		return nil
	}

	keys := append(sess.Scope.AllKeys(), session.LastLoggedInKey())
	if err := d.store.Delete(ctx, keys...); err != nil {
		return fmt.Errorf("clear session data: %w", err)
	}

	slog.InfoContext(ctx, "Logged out",
		log.FieldComponent, log.ComponentAccounts,
		log.FieldOperation, log.OpLogout,
		log.FieldUsername, sess.Account.Username)
	return nil
}

// RestoreLastSession re-establishes the most recently logged-in account at
// startup. It reports found=false when there is no pointer or the account
// record is gone; this is the only implicit login path.
func (d *Directory) RestoreLastSession(ctx context.Context) (*Session, bool, error) {
	normalized, ok, err := d.store.GetString(ctx, session.LastLoggedInKey())
	if err != nil {
		return nil, false, fmt.Errorf("read last login: %w", err)
	}
	if !ok || normalized == "" {
		return nil, false, nil
	}

	account, found, err := d.lookup(ctx, normalized)
	if err != nil {
		return nil, false, err
	}
	if !found {
		return nil, false, nil
	}

	slog.InfoContext(ctx, "Restored last session",
		log.FieldComponent, log.ComponentAccounts,
		log.FieldOperation, log.OpRestore,
		log.FieldUsername, account.Username)
	return newSession(account), true, nil
}

func (d *Directory) lookup(ctx context.Context, usernameKey string) (Account, bool, error) {
	key := session.UserKey(usernameKey)
	raw, ok, err := d.store.GetString(ctx, key)
	if err != nil {
		return Account{}, false, fmt.Errorf("read account: %w", err)
	}
	if !ok {
		return Account{}, false, nil
	}
	account, err := decodeAccount(key, raw)
	if err != nil {
		return Account{}, false, err
	}
	return account, true, nil
}

// checkPassword verifies a candidate against the stored credential. Stored
// values without a bcrypt prefix are legacy plaintext and compare by exact
// equality.
func checkPassword(stored, candidate string) bool {
	if strings.HasPrefix(stored, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(candidate)) == nil
	}
	return stored != "" && stored == candidate
}
