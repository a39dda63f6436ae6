package domain

import (
	"regexp"
	"strings"
)

// ColorPalette is the set of card background colours offered by the
// dashboard's colour picker.
var ColorPalette = []string{
	"#FFFFFF", "#FFF3E0", "#E8F5E8", "#E3F2FD",
	"#FCE4EC", "#F3E5F5", "#FFF8E1", "#E0F2F1",
	"#FFEBEE", "#F1F8E9", "#E8EAF6", "#FFF9C4",
}

var hexColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// IsHexColor reports whether s looks like #RRGGBB.
func IsHexColor(s string) bool {
	return hexColorPattern.MatchString(strings.TrimSpace(s))
}

// NormalizeColor trims and upper-cases a colour value.
func NormalizeColor(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// InPalette reports whether the colour is one of ColorPalette.
func InPalette(s string) bool {
	s = NormalizeColor(s)
	for _, c := range ColorPalette {
		if c == s {
			return true
		}
	}
	return false
}
