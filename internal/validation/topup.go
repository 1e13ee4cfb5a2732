// Package validation holds request-level input checks.
package validation

import "regexp"

// Target identifiers are phone numbers: optional +, 8 to 15 digits.
var targetIdentifierPattern = regexp.MustCompile(`^\+?[0-9]{8,15}$`)

// ValidTargetIdentifier reports whether s is an acceptable top-up target.
func ValidTargetIdentifier(s string) bool {
	return targetIdentifierPattern.MatchString(s)
}
