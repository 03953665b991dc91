package utils

import "strings"

// FormatPhoneNumber normalizes Indonesian numbers to the 62 country-code
// form so the unique index treats 08x and +628x as the same number.
func FormatPhoneNumber(raw string) string {
	number := strings.TrimSpace(raw)
	number = strings.ReplaceAll(number, " ", "")
	number = strings.ReplaceAll(number, "-", "")
	number = strings.TrimPrefix(number, "+")

	if strings.HasPrefix(number, "0") {
		return "62" + number[1:]
	}
	return number
}
