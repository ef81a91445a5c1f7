package accounts

import (
	"encoding/json"
	"fmt"
	"strings"

	"kharcha/internal/kvstore"
	"kharcha/internal/session"
)

// Account is a stored user record. The password field holds a bcrypt hash;
// records written before hashing existed may still hold plaintext and are
// accepted on verify (see checkPassword).
type Account struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// Session is the runtime association between an active account and its
// scoped data. One session is active per process at a time.
type Session struct {
	Account  Account
	Scope    session.Scope
	Unlocked bool
}

func newSession(account Account) *Session {
	return &Session{
		Account:  account,
		Scope:    session.ForUser(session.NormalizeUsername(account.Username)),
		Unlocked: true,
	}
}

func encodeAccount(a Account) (string, error) {
	data, err := json.Marshal(a)
	if err != nil {
		return "", fmt.Errorf("encode account: %w", err)
	}
	return string(data), nil
}

// decodeAccount validates the stored shape explicitly so a corrupt record
// fails as a typed data-format error instead of producing a half-empty
// account.
func decodeAccount(key, raw string) (Account, error) {
	var a Account
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return Account{}, fmt.Errorf("key %s: %w: %v", key, kvstore.ErrMalformedValue, err)
	}
	if strings.TrimSpace(a.Username) == "" {
		return Account{}, fmt.Errorf("key %s: %w: missing username", key, kvstore.ErrMalformedValue)
	}
	return a, nil
}
