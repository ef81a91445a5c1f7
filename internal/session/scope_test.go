package session

import "testing"

func TestNormalizeUsername(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"  Alice  ", "alice"},
		{"BOB", "bob"},
		{"", ""},
		{"   ", ""},
	}
	for i, tc := range cases {
		if got := NormalizeUsername(tc.in); got != tc.want {
			t.Fatalf("case %d: expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestScopeKeys(t *testing.T) {
	s := ForUser("alice")
	if s.ExpensesKey() != "alice_expenses" {
		t.Fatalf("unexpected expenses key %q", s.ExpensesKey())
	}
	if s.MonthlyBudgetKey() != "alice_monthly_budget" {
		t.Fatalf("unexpected budget key %q", s.MonthlyBudgetKey())
	}
	if len(s.AllKeys()) != 7 {
		t.Fatalf("expected 7 scoped keys, got %d", len(s.AllKeys()))
	}
}

func TestGuestScope(t *testing.T) {
	if ForUser("").Prefix() != GuestPrefix {
		t.Fatalf("empty username must map to the guest scope")
	}
	if Guest().ExpensesKey() != "guest_expenses" {
		t.Fatalf("unexpected guest key %q", Guest().ExpensesKey())
	}
}

func TestGlobalKeys(t *testing.T) {
	if UserKey("alice") != "user_alice" {
		t.Fatalf("unexpected user key %q", UserKey("alice"))
	}
	if LastLoggedInKey() != "last_logged_in_user" {
		t.Fatalf("unexpected last-login key %q", LastLoggedInKey())
	}
}
