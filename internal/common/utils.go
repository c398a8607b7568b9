package common

import "strings"

// ContainsFold reports whether sub is within s, ignoring case.
func ContainsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
