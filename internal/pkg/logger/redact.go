package logger

import "strings"

// RedactEmail masks an email address for safe logging.
// "jane.doe@example.com" → "ja***@example.com"
// Short local parts (≤2 chars) are fully masked: "ab@example.com" → "***@example.com"
func RedactEmail(email string) string {
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return "***@***"
	}
	name := parts[0]
	if len(name) > 2 {
		return name[:2] + "***@" + parts[1]
	}
	return "***@" + parts[1]
}

// RedactPhone keeps only the last two digits of a phone number.
// Leads reached over the phone channel carry these in their contact
// fields.
func RedactPhone(phone string) string {
	digits := 0
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits < 4 {
		return "***"
	}
	trimmed := strings.TrimSpace(phone)
	return "***" + trimmed[len(trimmed)-2:]
}
