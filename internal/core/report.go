package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount float64
}

// MonthOverview is a compact summary for a specific year+month.
type MonthOverview struct {
	Year       int
	Month      int // 1-12
	Total      float64
	ByCategory []CategoryAmount
}

// YearMonth identifies a calendar month with ledger data.
type YearMonth struct {
	Year  int
	Month int // 1-12
}

// Total sums the amounts of the given expenses. The additive identity is 0
// for empty input.
func Total(expenses []Expense) float64 {
	var sum float64
	for _, e := range expenses {
		sum += e.Amount
	}
	return sum
}

// CategoryTotals maps each known category to its summed amount. Expenses
// whose category is not in knownCategories contribute nothing and are not
// reported as an error.
func CategoryTotals(expenses []Expense, knownCategories []string) map[string]float64 {
	known := make(map[string]struct{}, len(knownCategories))
	totals := make(map[string]float64, len(knownCategories))
	for _, c := range knownCategories {
		known[c] = struct{}{}
		totals[c] = 0
	}
	for _, e := range expenses {
		if _, ok := known[e.Category]; ok {
			totals[e.Category] += e.Amount
		}
	}
	return totals
}

// MonthsWithData returns the distinct (year, month) pairs present in the
// expenses, most recent first.
func MonthsWithData(expenses []Expense) []YearMonth {
	seen := make(map[YearMonth]struct{})
	var months []YearMonth
	for _, e := range expenses {
		ym := YearMonth{Year: e.Date.Year(), Month: int(e.Date.Month())}
		if _, ok := seen[ym]; ok {
			continue
		}
		seen[ym] = struct{}{}
		months = append(months, ym)
	}
	sort.Slice(months, func(i, j int) bool {
		if months[i].Year != months[j].Year {
			return months[i].Year > months[j].Year
		}
		return months[i].Month > months[j].Month
	})
	return months
}

// LatestMonthWithData returns the (year, month) of the most recent expense,
// or false if the ledger is empty.
func LatestMonthWithData(expenses []Expense) (YearMonth, bool) {
	if len(expenses) == 0 {
		return YearMonth{}, false
	}
	latest := expenses[0]
	for _, e := range expenses[1:] {
		if e.Date.After(latest.Date) {
			latest = e
		}
	}
	return YearMonth{Year: latest.Date.Year(), Month: int(latest.Date.Month())}, true
}

// OverviewForMonth builds a MonthOverview from the given expenses, counting
// only records dated inside the month and only known categories in the
// per-category breakdown.
func OverviewForMonth(expenses []Expense, year, month int) MonthOverview {
	overview := MonthOverview{Year: year, Month: month}

	var inMonth []Expense
	for _, e := range expenses {
		if e.Date.Year() == year && int(e.Date.Month()) == month {
			inMonth = append(inMonth, e)
		}
	}
	overview.Total = Total(inMonth)

	totals := CategoryTotals(inMonth, KnownCategories())
	for _, name := range KnownCategories() {
		if totals[name] == 0 {
			continue
		}
		overview.ByCategory = append(overview.ByCategory, CategoryAmount{
			Name:   name,
			Amount: totals[name],
		})
	}
	return overview
}
