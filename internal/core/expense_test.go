package core

import (
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:       "e1",
		Title:    "Lunch",
		Amount:   250,
		Date:     time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Category: CategoryFood,
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{ID: "e2", Title: "", Amount: 1, Date: time.Now(), Category: CategoryFood},
		{ID: "e3", Title: "   ", Amount: 1, Date: time.Now(), Category: CategoryFood},
		{ID: "e4", Title: "a", Amount: 0, Date: time.Now(), Category: CategoryFood},
		{ID: "e5", Title: "a", Amount: -5, Date: time.Now(), Category: CategoryFood},
		{ID: "e6", Title: "a", Amount: 1, Date: time.Time{}, Category: CategoryFood},
	}
	for i, e := range bads {
		if err := e.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestNormalizeNote(t *testing.T) {
	cases := []struct {
		in   string
		want *string
	}{
		{"", nil},
		{"   ", nil},
		{"\t\n", nil},
	}
	for i, tc := range cases {
		if got := NormalizeNote(tc.in); got != nil {
			t.Fatalf("case %d expected nil, got %q", i, *got)
		}
	}

	got := NormalizeNote("  paid in cash  ")
	if got == nil || *got != "paid in cash" {
		t.Fatalf("expected trimmed note, got %v", got)
	}
}

func TestSortByDateDescIsStable(t *testing.T) {
	at := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	expenses := []Expense{
		{ID: "a", Date: at},
		{ID: "b", Date: at},
		{ID: "c", Date: at.Add(time.Hour)},
	}
	SortByDateDesc(expenses)

	if expenses[0].ID != "c" {
		t.Fatalf("expected newest first, got %s", expenses[0].ID)
	}
	// Ties keep insertion order.
	if expenses[1].ID != "a" || expenses[2].ID != "b" {
		t.Fatalf("expected stable tie order a,b, got %s,%s", expenses[1].ID, expenses[2].ID)
	}
}

func TestIsKnownCategory(t *testing.T) {
	for _, c := range KnownCategories() {
		if !IsKnownCategory(c) {
			t.Fatalf("expected %q known", c)
		}
	}
	if IsKnownCategory("Groceries") {
		t.Fatalf("expected Groceries unknown")
	}
}
