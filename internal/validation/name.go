package validation

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims a file name and puts it in Unicode NFC form, so the same
// visible name always compares equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}
