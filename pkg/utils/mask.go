package utils

import "regexp"

var (
	formPasswordRegex = regexp.MustCompile(`(password=)([^&\s]+)`)
	ticketCookieRegex = regexp.MustCompile(`(PVEAuthCookie=)([^;\s]+)`)
)

// MaskForm hides the password value in a form-encoded body.
func MaskForm(body string) string {
	return formPasswordRegex.ReplaceAllString(body, "${1}***")
}

// MaskCookie hides the ticket value in a cookie header.
func MaskCookie(header string) string {
	return ticketCookieRegex.ReplaceAllString(header, "${1}***")
}

// MaskSecret shortens a secret to its first four characters for log output.
func MaskSecret(s string) string {
	if len(s) <= 4 {
		return "***"
	}
	return s[:4] + "***"
}
