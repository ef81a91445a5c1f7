package core

import (
	"errors"
	"sort"
	"strings"
	"time"
)

var (
	ErrEmptyTitle    = errors.New("empty title")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrZeroDate      = errors.New("date cannot be zero")
)

// Expense is a single immutable spending record. Once created it is never
// edited; deletion supports a one-shot undo via reinsertion at the original
// index, and restore-from-backup replaces the whole list.
type Expense struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Note     *string   `json:"note,omitempty"`
	Amount   float64   `json:"amount"`
	Date     time.Time `json:"date"`
	Category string    `json:"category"`
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return ErrEmptyTitle
	}
	if e.Amount <= 0 {
		return ErrInvalidAmount
	}
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// NormalizeNote maps empty or whitespace-only input to an absent note.
func NormalizeNote(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// SortByDateDesc orders expenses newest first. The sort is stable so
// same-instant records keep their relative order across reloads.
func SortByDateDesc(expenses []Expense) {
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Date.After(expenses[j].Date)
	})
}
