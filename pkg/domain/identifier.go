package domain

// IDLength is the exact number of digits in a record identifier.
const IDLength = 8

// ValidID reports whether s is an eligible record identifier: exactly eight
// ASCII decimal digits with a non-zero leading digit. No trimming is applied.
func ValidID(s string) bool {
	if len(s) != IDLength || s[0] == '0' {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
