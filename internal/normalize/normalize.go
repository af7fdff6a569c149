// Package normalize cleans raw text scraped from listing pages into typed
// values. Every function is pure and treats empty input as absent.
package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonDigits      = regexp.MustCompile(`\D`)
	trailingDigits = regexp.MustCompile(`(\d+)$`)
)

// Price parses strings like "15 500 $" into 15500.
func Price(text string) (int, bool) {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0, false
	}

	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Odometer parses strings like "95 тис. км" into 95000. The "тис" token is
// the Ukrainian thousand marker; when present the numeric base is multiplied
// by 1000, otherwise the digits are taken as written ("120000 км" → 120000).
func Odometer(text string) (int, bool) {
	lower := strings.ToLower(text)
	digits := nonDigits.ReplaceAllString(lower, "")
	if digits == "" {
		return 0, false
	}

	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}

	if strings.Contains(lower, "тис") {
		v *= 1000
	}
	return v, true
}

// PhotoCount extracts the total from gallery captions like "Фото 1 з 19"
// by taking the trailing run of digits.
func PhotoCount(text string) (int, bool) {
	m := trailingDigits.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return 0, false
	}

	v, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return v, true
}

// Phone normalizes "(063) 213 44 11" into 380632134411. A bare 10-digit
// number gets the "38" country prefix, a 9-digit one gets "380"; any other
// length is kept as its digits.
func Phone(text string) (int64, bool) {
	digits := nonDigits.ReplaceAllString(text, "")
	if digits == "" {
		return 0, false
	}

	switch len(digits) {
	case 10:
		digits = "38" + digits
	case 9:
		digits = "380" + digits
	}

	v, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
