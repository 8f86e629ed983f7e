// Package sanitize is the input gate in front of the scheduling pipeline.
// It normalizes the free-text request and the requester email and rejects
// oversized, empty, or injection-bearing input before any other component
// runs. ValidateAndSanitize is pure: same inputs, same outputs, no side
// effects beyond the returned error.
package sanitize

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/hupe1980/calmesh/core"
)

// MaxInputLen caps the raw request text (characters).
const MaxInputLen = 500

// MaxEmailLen caps the requester email per RFC 5321.
const MaxEmailLen = 254

// injectionPatterns flag attempts to hijack the downstream extraction step
// via crafted text. Matched case-insensitively against the raw input before
// any markup stripping.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(previous|all|above)`),
	regexp.MustCompile(`(?i)system\s*:`),
	regexp.MustCompile(`(?i)<\s*script`),
	regexp.MustCompile(`(?i)javascript\s*:`),
	regexp.MustCompile(`(?i)disregard`),
	regexp.MustCompile(`(?i)forget\s+(everything|instructions)`),
	regexp.MustCompile(`(?i)new\s+instructions`),
	regexp.MustCompile(`(?i)admin\s+mode`),
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// ValidateAndSanitize validates and normalizes both inputs, returning the
// cleaned request text and email. On failure it returns a
// *core.ValidationError naming the offending field; nothing downstream of
// the gate should ever see the raw values.
func ValidateAndSanitize(rawInput, rawEmail string) (string, string, error) {
	input, err := Input(rawInput)
	if err != nil {
		return "", "", err
	}
	email, err := Email(rawEmail)
	if err != nil {
		return "", "", err
	}
	return input, email, nil
}

// Input sanitizes the free-text meeting request: enforces the length cap,
// rejects empty and injection-bearing text, strips HTML-like tags, and
// collapses whitespace runs into single spaces.
func Input(raw string) (string, error) {
	if utf8.RuneCountInString(raw) > MaxInputLen {
		return "", &core.ValidationError{
			Field:  "user_input",
			Value:  truncate(raw, 50),
			Reason: "Input too long (max 500 characters)",
		}
	}
	if strings.TrimSpace(raw) == "" {
		return "", &core.ValidationError{
			Field:  "user_input",
			Value:  "",
			Reason: "Input cannot be empty",
		}
	}

	// Injection check runs on the raw text so markup stripping cannot be
	// used to smuggle a pattern through.
	for _, p := range injectionPatterns {
		if p.MatchString(raw) {
			return "", &core.ValidationError{
				Field:  "user_input",
				Value:  truncate(raw, 50),
				Reason: "Input contains potentially malicious content",
			}
		}
	}

	clean := tagPattern.ReplaceAllString(raw, "")
	clean = strings.Join(strings.Fields(clean), " ")

	return clean, nil
}

// Email lower-cases, trims, and validates the requester address.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))

	if !core.ValidEmail(email) {
		return "", &core.ValidationError{
			Field:  "email",
			Value:  email,
			Reason: "Invalid email format",
		}
	}
	if utf8.RuneCountInString(email) > MaxEmailLen {
		return "", &core.ValidationError{
			Field:  "email",
			Value:  truncate(email, 50),
			Reason: "Email too long",
		}
	}

	return email, nil
}

// truncate shortens s to at most n characters without splitting a rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
