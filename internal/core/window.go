package core

import "time"

const (
	WindowToday TimeWindow = "today"
	WindowWeek  TimeWindow = "week"
	WindowMonth TimeWindow = "month"
	WindowAll   TimeWindow = "all"
)

// TimeWindow selects a slice of the ledger relative to a reference instant.
type TimeWindow string

// IsValid returns true if the window is one of the supported values.
func (w TimeWindow) IsValid() bool {
	switch w {
	case WindowToday, WindowWeek, WindowMonth, WindowAll:
		return true
	default:
		return false
	}
}

// FilterByWindow returns the expenses inside the window around ref, newest
// first. The week window is half-open: Monday 00:00 of the reference week
// up to (excluding) the following Monday 00:00.
func FilterByWindow(expenses []Expense, window TimeWindow, ref time.Time) []Expense {
	var match func(Expense) bool

	switch window {
	case WindowToday:
		y, m, d := ref.Date()
		match = func(e Expense) bool {
			ey, em, ed := e.Date.Date()
			return ey == y && em == m && ed == d
		}
	case WindowWeek:
		start := startOfWeek(ref)
		end := start.AddDate(0, 0, 7)
		match = func(e Expense) bool {
			return !e.Date.Before(start) && e.Date.Before(end)
		}
	case WindowMonth:
		y, m, _ := ref.Date()
		match = func(e Expense) bool {
			ey, em, _ := e.Date.Date()
			return ey == y && em == m
		}
	default:
		match = func(Expense) bool { return true }
	}

	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if match(e) {
			out = append(out, e)
		}
	}
	SortByDateDesc(out)
	return out
}

// startOfWeek returns Monday 00:00 of the week containing t.
func startOfWeek(t time.Time) time.Time {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	offset := int(midnight.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7 // Sunday
	}
	return midnight.AddDate(0, 0, -offset)
}
