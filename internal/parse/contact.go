package parse

import (
	"regexp"
	"strings"
)

// Contact holds best-effort contact fields pulled from resume text.
// Empty Email or Phone means nothing was found.
type Contact struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

var (
	emailRe = regexp.MustCompile(`[\w.+-]+@[\w-]+\.[\w.-]+`)
	// Loose on purpose: 10-15 characters of digits and phone punctuation.
	// False positives are acceptable, a missing phone deduction is worse.
	phoneRe    = regexp.MustCompile(`[+]?[\d\s\-()]{10,15}`)
	numericRe  = regexp.MustCompile(`^[\d+\-()\s]+$`)
)

// ExtractContact pulls name, email, and phone from resume text. Name is the
// first non-blank line, falling back to the second when the first looks like
// an email address or a bare number.
func ExtractContact(text string) Contact {
	email := emailRe.FindString(text)
	phone := strings.TrimSpace(phoneRe.FindString(text))

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	name := "Unknown"
	if len(lines) > 0 {
		name = lines[0]
		if strings.Contains(name, "@") || numericRe.MatchString(name) {
			if len(lines) > 1 {
				name = lines[1]
			} else {
				name = "Unknown"
			}
		}
	}

	return Contact{Name: name, Email: email, Phone: phone}
}
