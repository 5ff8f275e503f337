package model

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Identifier length limits (spec 3): block/frame codes are bounded by
// the line-length limit itself; data names are limited to 5 code
// points fewer.
const (
	MaxCodeLength     = 2048
	MaxDatanameLength = MaxCodeLength - 5
)

// NormalizeCode returns the normalized form of a block code, frame
// code, or data name: Unicode NFD, then case-fold, then NFC (spec 3).
// Uniqueness within a document is enforced on this form.
func NormalizeCode(s string) string {
	folded, _, err := transform.String(cases.Fold(), norm.NFD.String(s))
	if err != nil {
		folded = s
	}
	return norm.NFC.String(folded)
}

// NormalizeTableKey returns the normalized form of a table key: NFC
// only, no case fold (spec 3).
func NormalizeTableKey(s string) string {
	return norm.NFC.String(s)
}

// ValidDataname reports whether s is an acceptable data name: begins
// with '_', within the length limit, and contains no whitespace.
func ValidDataname(s string) bool {
	if !strings.HasPrefix(s, "_") {
		return false
	}
	return len([]rune(s)) <= MaxDatanameLength && !containsForbidden(s)
}

// ValidCode reports whether s is an acceptable block or frame code.
func ValidCode(s string) bool {
	if s == "" {
		return false
	}
	return len([]rune(s)) <= MaxCodeLength && !containsForbidden(s)
}

func containsForbidden(s string) bool {
	for _, r := range s {
		if unicode.IsSpace(r) {
			return true
		}
		if r == 0x7f || (r >= 0xFDD0 && r <= 0xFDEF) {
			return true
		}
		if low := r & 0xFFFF; low == 0xFFFE || low == 0xFFFF {
			return true
		}
	}
	return false
}
