package validation

import (
	"encoding/base64"
	"fmt"
	"strings"
	"unicode/utf8"

	"taskboard/internal/domain"
)

// Rules holds the configurable limits applied to task input.
type Rules struct {
	TitleMinLength int
	// TitleMaxLength of zero leaves titles unbounded.
	TitleMaxLength       int
	DescriptionMinLength int
	MaxImageBytes        int64
}

// DefaultRules returns the limits used when no configuration is supplied.
func DefaultRules() Rules {
	return Rules{
		TitleMinLength:       3,
		DescriptionMinLength: 10,
		MaxImageBytes:        5 * 1024 * 1024,
	}
}

// Validator provides common validation utilities
type Validator struct {
	rules Rules
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return NewValidatorWithRules(DefaultRules())
}

// NewValidatorWithRules creates a validator with the given limits. Zero
// fields fall back to the defaults, except TitleMaxLength.
func NewValidatorWithRules(rules Rules) *Validator {
	def := DefaultRules()
	if rules.TitleMinLength <= 0 {
		rules.TitleMinLength = def.TitleMinLength
	}
	if rules.TitleMaxLength < 0 {
		rules.TitleMaxLength = 0
	}
	if rules.DescriptionMinLength <= 0 {
		rules.DescriptionMinLength = def.DescriptionMinLength
	}
	if rules.MaxImageBytes <= 0 {
		rules.MaxImageBytes = def.MaxImageBytes
	}
	return &Validator{rules: rules}
}

// Rules returns the limits in effect.
func (v *Validator) Rules() Rules {
	return v.rules
}

// IsNonEmptyString checks if a string is not empty after trimming whitespace
func (v *Validator) IsNonEmptyString(s string) bool {
	return strings.TrimSpace(s) != ""
}

// TrimmedLength counts characters, not bytes, after trimming whitespace.
func (v *Validator) TrimmedLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

// IsValidStringLength checks if a string length is within the specified range.
// A max of zero means unbounded.
func (v *Validator) IsValidStringLength(s string, min, max int) bool {
	length := v.TrimmedLength(s)
	return length >= min && (max <= 0 || length <= max)
}

// IsValidHexColor accepts an empty string or #RRGGBB.
func (v *Validator) IsValidHexColor(s string) bool {
	return strings.TrimSpace(s) == "" || domain.IsHexColor(s)
}

// IsDataURL reports whether s is an inline data: URL rather than a reference.
func (v *Validator) IsDataURL(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// ParseDataURL splits a base64 data URL into its media type and decoded size.
func (v *Validator) ParseDataURL(s string) (mediaType string, size int64, err error) {
	s = strings.TrimSpace(s)
	header, payload, ok := strings.Cut(strings.TrimPrefix(s, "data:"), ",")
	if !ok {
		return "", 0, fmt.Errorf("missing data separator")
	}
	params := strings.Split(header, ";")
	mediaType = strings.ToLower(params[0])
	base64Encoded := false
	for _, p := range params[1:] {
		if p == "base64" {
			base64Encoded = true
		}
	}
	if !base64Encoded {
		return mediaType, int64(len(payload)), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return mediaType, 0, fmt.Errorf("invalid base64 payload: %w", err)
	}
	return mediaType, int64(len(decoded)), nil
}
