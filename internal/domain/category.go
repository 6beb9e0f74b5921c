package domain

import "strings"

// Uncategorized is the sentinel category for items whose category was deleted
// or never set. It is reserved: it never appears in Trip.Categories.
const Uncategorized = "Uncategorized"

// SameName reports whether two category or tag names are equal ignoring case
// and surrounding whitespace.
func SameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// IndexOfName returns the index of the first entry in names equal to name
// under SameName, or -1.
func IndexOfName(names []string, name string) int {
	for i, n := range names {
		if SameName(n, name) {
			return i
		}
	}
	return -1
}

// IsUncategorized reports whether name refers to the reserved sentinel.
func IsUncategorized(name string) bool {
	return SameName(name, Uncategorized)
}
