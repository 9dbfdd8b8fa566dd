package utils

import "strings"

// ParseOrdering splits an ordering expression into a field name and
// direction. A leading '-' means descending.
// Example:
//
//	"name"          → ("name", false)
//	"-entrance_fee" → ("entrance_fee", true)
func ParseOrdering(raw string) (field string, desc bool) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "-") {
		return strings.TrimPrefix(raw, "-"), true
	}
	return raw, false
}
