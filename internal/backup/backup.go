// Package backup exports and parses the ledger interchange format: a JSON
// array of expense objects, the same shape as the persisted entries,
// carried as a text blob (clipboard-sized).
package backup

import (
	"encoding/json"
	"fmt"

	"kharcha/internal/core"
)

// Export serializes the expenses to the backup blob.
func Export(expenses []core.Expense) (string, error) {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	data, err := json.MarshalIndent(expenses, "", "  ")
	if err != nil {
		return "", fmt.Errorf("export expenses: %w", err)
	}
	return string(data), nil
}

// Parse validates a backup blob and returns its expenses. Restore is
// all-or-nothing: any parse or shape error returns a *core.FormatError and
// the caller keeps its existing ledger untouched.
func Parse(blob string) ([]core.Expense, error) {
	return core.DecodeExpenseList([]byte(blob))
}
