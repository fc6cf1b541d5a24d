package rankmdx

import (
	"regexp"
	"strconv"
	"strings"
)

// PriceOnRequest is displayed when no price could be found for a product.
const PriceOnRequest = "Consultar precio"

const amountPattern = `\d+(?:[.\s]\d{3})*(?:[.,]\d{1,2})?`

var (
	symbolFirstRe = regexp.MustCompile(`(€|\$|£)\s*(` + amountPattern + `)`)
	symbolLastRe  = regexp.MustCompile(`(?i)(` + amountPattern + `)\s*(€|\$|£|eur\b|euros?\b)`)
)

// ParsePrice finds the first currency amount in text and returns its value
// (decimal comma preserved) and currency symbol.
// "87 € en Amazon" yields ("87", "€", true).
func ParsePrice(text string) (value, currency string, ok bool) {
	last := symbolLastRe.FindStringSubmatchIndex(text)
	first := symbolFirstRe.FindStringSubmatchIndex(text)
	switch {
	case last != nil && (first == nil || last[0] <= first[0]):
		value = text[last[2]:last[3]]
		currency = text[last[4]:last[5]]
	case first != nil:
		currency = text[first[2]:first[3]]
		value = text[first[4]:first[5]]
	default:
		return "", "", false
	}
	value = strings.Join(strings.Fields(value), "")
	return value, normalizeSymbol(currency), true
}

func normalizeSymbol(s string) string {
	switch strings.ToLower(s) {
	case "eur", "euro", "euros":
		return "€"
	}
	return s
}

// SchemaPrice converts a localized amount into the dot-decimal form used by
// structured data: "87" becomes "87.00", "87,50" becomes "87.50" and
// "1.299,99" becomes "1299.99". Zero is rendered as "0".
// It reports false when value is not a number.
func SchemaPrice(value string) (string, bool) {
	v := strings.Join(strings.Fields(value), "")
	if v == "" {
		return "", false
	}
	lastDot := strings.LastIndex(v, ".")
	lastComma := strings.LastIndex(v, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			v = strings.ReplaceAll(v, ".", "")
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	case lastComma >= 0:
		if strings.Count(v, ",") == 1 && len(v)-lastComma-1 <= 2 {
			v = strings.Replace(v, ",", ".", 1)
		} else {
			v = strings.ReplaceAll(v, ",", "")
		}
	case lastDot >= 0:
		// A single dot followed by three digits is a thousands separator.
		if strings.Count(v, ".") > 1 || len(v)-lastDot-1 == 3 {
			v = strings.ReplaceAll(v, ".", "")
		}
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return "", false
	}
	if f == 0 {
		return "0", true
	}
	return strconv.FormatFloat(f, 'f', 2, 64), true
}

// CurrencyCode maps a currency symbol to its ISO 4217 code.
// Unknown or empty symbols default to EUR.
func CurrencyCode(symbol string) string {
	switch strings.ToUpper(strings.TrimSpace(symbol)) {
	case "$", "USD":
		return "USD"
	case "£", "GBP":
		return "GBP"
	default:
		return "EUR"
	}
}

// DisplayPrice formats a price for readers, e.g. "87,50 €".
func DisplayPrice(value, currency string) string {
	if value == "" {
		return PriceOnRequest
	}
	if currency == "" {
		currency = "€"
	}
	return value + " " + currency
}
