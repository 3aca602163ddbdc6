package util

import (
	"regexp"
	"strconv"
	"strings"
)

// currencyRule maps substring markers to an ISO-like code. Order matters:
// FCFA amounts are sometimes written with a stray dollar glyph, so the USD
// rule must yield to any FCFA marker in the same text.
type currencyRule struct {
	code    string
	markers []string
}

var currencyRules = []currencyRule{
	{code: "EUR", markers: []string{"€", "eur"}},
	{code: "USD", markers: []string{"$"}},
	{code: "XAF", markers: []string{"fcfa", "xaf", "cfa"}},
	{code: "GBP", markers: []string{"£", "gbp"}},
	{code: "CNY", markers: []string{"¥", "cny", "rmb"}},
	{code: "MAD", markers: []string{"dh", "mad"}},
	{code: "DZD", markers: []string{"da", "dzd"}},
}

var digitRunPattern = regexp.MustCompile(`[0-9][0-9.]*`)

// DetectCurrency scans text for currency markers in priority order and
// returns the matching code, or "" when nothing matches. Callers substitute
// their configured default for "".
func DetectCurrency(text string) string {
	lower := strings.ToLower(text)
	for _, rule := range currencyRules {
		if rule.code == "USD" && strings.Contains(lower, "fcfa") {
			continue
		}
		for _, marker := range rule.markers {
			if strings.Contains(lower, marker) {
				return rule.code
			}
		}
	}
	return ""
}

// ParsePrice pulls a decimal amount and an optional currency out of a price
// cell like "4 500 FCFA" or "12,5 €". The amount is nil when the cell holds
// no digits. Comma is treated as a decimal separator, so a thousands comma
// ("1,234") reads as 1.234; the upstream data never writes prices that way.
func ParsePrice(value string) (*float64, *string) {
	var currency *string
	if code := DetectCurrency(value); code != "" {
		currency = StringPtr(code)
	}

	cleaned := strings.ToLower(value)
	for _, rule := range currencyRules {
		for _, marker := range rule.markers {
			cleaned = strings.ReplaceAll(cleaned, marker, "")
		}
	}
	cleaned = stripSpaces(cleaned)
	cleaned = strings.ReplaceAll(cleaned, ",", ".")

	token := digitRunPattern.FindString(cleaned)
	if token == "" {
		return nil, currency
	}
	parsed, err := strconv.ParseFloat(strings.TrimRight(token, "."), 64)
	if err != nil {
		return nil, currency
	}
	return FloatPtr(parsed), currency
}

// ParseDecimal parses a numeric cell with either separator convention:
// spaces between digit groups are dropped and a comma becomes a dot.
func ParseDecimal(value string) *float64 {
	token := strings.ReplaceAll(stripSpaces(value), ",", ".")
	if token == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return nil
	}
	return FloatPtr(parsed)
}

func stripSpaces(value string) string {
	value = strings.ReplaceAll(value, " ", " ")
	return strings.Join(strings.Fields(value), "")
}

func StringPtr(v string) *string { return &v }

func FloatPtr(v float64) *float64 { return &v }
