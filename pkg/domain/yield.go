package domain

// Yield returns the milk produced by a record, in liters: the sum of its age
// in years and months for cows, zero for every other category.
func Yield(r *Record) int {
	if r.Kind() != CategoryCow {
		return 0
	}
	return r.ageYears + r.ageMonths
}
