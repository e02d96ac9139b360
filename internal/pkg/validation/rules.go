package validation

import (
	"regexp"
)

// Validation rule patterns
var (
	// Email validation pattern
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,4}$`

	// Student number pattern, digits only
	StudentNumberPattern = `^\d{1,10}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email         *regexp.Regexp
	StudentNumber *regexp.Regexp
}{
	Email:         regexp.MustCompile(EmailPattern),
	StudentNumber: regexp.MustCompile(StudentNumberPattern),
}
