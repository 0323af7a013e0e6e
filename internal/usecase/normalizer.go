package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Package-level compiled regex patterns for performance
var (
	// Everything that is not part of a plain decimal number
	nonNumericRegex = regexp.MustCompile(`[^0-9.]`)

	// Runs of whitespace, including non-breaking spaces from page markup
	whitespaceRunRegex = regexp.MustCompile(`[\s\x{00a0}]+`)
)

var hundred = decimal.NewFromInt(100)

// ParseCurrency strips every character except digits and '.', then parses the
// rest as a non-negative decimal. Anything unparseable becomes 0.
func ParseCurrency(text string) decimal.Decimal {
	cleaned := nonNumericRegex.ReplaceAllString(text, "")
	if cleaned == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Round3 rounds half away from zero to 3 fractional digits
func Round3(d decimal.Decimal) decimal.Decimal {
	return d.Round(3)
}

// Round2 rounds half away from zero to 2 fractional digits. Display only.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// NormalizeSpace collapses whitespace runs to single spaces and trims
func NormalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRunRegex.ReplaceAllString(s, " "))
}

// parseQty converts a captured quantity to a positive integer, defaulting to 1
func parseQty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// ParsePeople splits a comma separated list of names, dropping blanks
func ParsePeople(input string) []string {
	var people []string
	for _, p := range strings.Split(input, ",") {
		if p = NormalizeSpace(p); p != "" {
			people = append(people, p)
		}
	}
	return people
}
