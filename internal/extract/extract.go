// Package extract detects structured tokens inside free text. It is a
// declared heuristic, not a validator: false positives and negatives are
// acceptable on purpose.
package extract

import "strings"

// Fields are the structured tokens found in a message.
type Fields struct {
	// CPF is the normalized 11-digit identifier, empty when not found.
	CPF string
	// Email is the lowercased email-looking token, empty when not found.
	Email string
}

// FromText scans text for a CPF and an email address. A CPF is detected
// when stripping every non-digit leaves exactly 11 digits, so "123.456.
// 789-09" and "12345678909" both match while 10- or 12-digit runs do not.
func FromText(text string) Fields {
	var f Fields

	digits := onlyDigits(text)
	if len(digits) == 11 {
		f.CPF = digits
	}

	f.Email = emailToken(text)
	return f
}

func onlyDigits(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// emailToken returns the first whitespace-delimited token containing both
// "@" and ".", lowercased.
func emailToken(text string) string {
	for _, token := range strings.Fields(text) {
		if strings.Contains(token, "@") && strings.Contains(token, ".") {
			return strings.ToLower(strings.Trim(token, ".,;:!?<>()"))
		}
	}
	return ""
}

// FormatCPF renders an 11-digit CPF as 123.456.789-09 for display.
// Anything else is returned unchanged.
func FormatCPF(digits string) string {
	if len(digits) != 11 {
		return digits
	}
	return digits[:3] + "." + digits[3:6] + "." + digits[6:9] + "-" + digits[9:]
}
