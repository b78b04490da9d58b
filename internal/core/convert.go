package core

// convert.go provides the shared cell-level parsers used by row validation
// and record construction.
//
// The parsers handle the messy reality of operator-provided tabular data:
// Excel formula prefixes, stray quotes, BOM markers, and inconsistent
// casing. All parsers return an ok flag instead of an error so validation
// can build its own row-numbered messages.

import (
	"strconv"
	"strings"
	"time"
)

// ISODateLayout is the only accepted date format for *_iso columns.
const ISODateLayout = "2006-01-02"

// Currencies accepted for amount_currency and budget_currency columns.
const (
	CurrencyUSD = "USD"
	CurrencyLRD = "LRD"
)

// dateColumns are the column names that carry ISO dates, across all kinds.
var dateColumns = map[string]bool{
	"date_iso":       true,
	"start_date_iso": true,
	"end_date_iso":   true,
	"due_date_iso":   true,
}

// yesNoColumns are the column names that carry Y/N flags, across all kinds.
var yesNoColumns = map[string]bool{
	"consent_y_n":   true,
	"anonymous_y_n": true,
	"approved_y_n":  true,
}

// currencyColumns are the column names that carry a currency code.
var currencyColumns = map[string]bool{
	"amount_currency": true,
	"budget_currency": true,
}

// CleanCell removes common artifacts from a cell value:
// whitespace, a UTF-8 BOM, Excel formula prefixes (="..."), and
// surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	s = strings.Trim(s, `"'`)

	return strings.TrimSpace(s)
}

// ParseISODate parses a strict YYYY-MM-DD date.
func ParseISODate(s string) (time.Time, bool) {
	t, err := time.Parse(ISODateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// NormalizeCurrency validates a currency code case-insensitively and
// returns it normalized to upper case.
func NormalizeCurrency(s string) (string, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case CurrencyUSD:
		return CurrencyUSD, true
	case CurrencyLRD:
		return CurrencyLRD, true
	default:
		return "", false
	}
}

// ParseAmount parses a monetary value as a floating-point number.
func ParseAmount(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// ParseYesNo parses a Y/N flag case-insensitively.
// Returns the flag value and whether the input was one of Y or N.
func ParseYesNo(s string) (bool, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "Y":
		return true, true
	case "N":
		return false, true
	default:
		return false, false
	}
}

// ValidEmail reports whether a value is email-shaped.
// The bar is deliberately low: the operator-facing contract only
// requires an @ somewhere in the value.
func ValidEmail(s string) bool {
	return strings.Contains(s, "@")
}

// TypeForColumn infers a column's field type from its name. Kind schemas
// declare types explicitly; this fallback covers columns that appear in
// an upload but not in the kind's schema, so the shared rules still apply.
func TypeForColumn(name string) FieldType {
	name = strings.ToLower(name)
	switch {
	case dateColumns[name]:
		return FieldDate
	case currencyColumns[name]:
		return FieldCurrency
	case yesNoColumns[name]:
		return FieldYesNo
	case name == "amount":
		return FieldAmount
	case name == "email":
		return FieldEmail
	default:
		return FieldText
	}
}
