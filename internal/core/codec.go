package core

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FormatError reports a JSON document that does not match the expected
// expense shape. Loads and restores fail as a whole on the first one; the
// existing ledger is left untouched.
type FormatError struct {
	Reason string
	Err    error
}

func (e *FormatError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid expense format: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid expense format: %s", e.Reason)
}

func (e *FormatError) Unwrap() error { return e.Err }

// EncodeExpense serializes one expense to its persisted JSON document.
func EncodeExpense(e Expense) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("encode expense %s: %w", e.ID, err)
	}
	return data, nil
}

// DecodeExpense parses and shape-checks one persisted expense document.
// Identity and display fields must be present; amount and category are not
// re-validated here, matching entry-time-only enforcement.
func DecodeExpense(data []byte) (Expense, error) {
	var e Expense
	if err := json.Unmarshal(data, &e); err != nil {
		return Expense{}, &FormatError{Reason: "not a valid JSON object", Err: err}
	}
	return e, validateShape(e)
}

// DecodeExpenseList parses a JSON array of expense documents, the backup
// interchange shape. Any malformed element fails the whole parse.
func DecodeExpenseList(data []byte) ([]Expense, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &FormatError{Reason: "not a valid JSON array", Err: err}
	}
	expenses := make([]Expense, 0, len(raw))
	for i, doc := range raw {
		e, err := DecodeExpense(doc)
		if err != nil {
			return nil, &FormatError{Reason: fmt.Sprintf("entry %d", i), Err: err}
		}
		expenses = append(expenses, e)
	}
	return expenses, nil
}

func validateShape(e Expense) error {
	if strings.TrimSpace(e.ID) == "" {
		return &FormatError{Reason: "missing id"}
	}
	if strings.TrimSpace(e.Title) == "" {
		return &FormatError{Reason: "missing title"}
	}
	if e.Date.IsZero() {
		return &FormatError{Reason: "missing date"}
	}
	return nil
}
