package core

// Known spending categories. Stored expenses are not re-validated against
// this set on load, so records restored from older backups may carry
// categories outside it; aggregation treats those as unknown.
const (
	CategoryFood         = "Food"
	CategoryTravel       = "Travel"
	CategoryBills        = "Bills"
	CategoryMobileReload = "Mobile Reload"
	CategoryOther        = "Other"
)

// KnownCategories returns the fixed category set in display order.
func KnownCategories() []string {
	return []string{
		CategoryFood,
		CategoryTravel,
		CategoryBills,
		CategoryMobileReload,
		CategoryOther,
	}
}

// IsKnownCategory reports whether name belongs to the fixed category set.
func IsKnownCategory(name string) bool {
	for _, c := range KnownCategories() {
		if c == name {
			return true
		}
	}
	return false
}
