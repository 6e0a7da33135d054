// Package currency holds the static currency table and conversion/formatting
// helpers. Rates are fixed and expressed relative to the base currency.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// BaseCurrency is the currency all conversion rates are expressed against.
const BaseCurrency = "INR"

// Currency describes one supported currency.
type Currency struct {
	Code       string          `json:"code"`
	Symbol     string          `json:"symbol"`
	Name       string          `json:"name"`
	Rate       decimal.Decimal `json:"rate"` // units per one BaseCurrency unit
	MinorUnits int             `json:"-"`    // fraction digits when formatting
}

// Currencies is the supported set, in display order.
var Currencies = []Currency{
	{Code: "INR", Symbol: "₹", Name: "Indian Rupee", Rate: decimal.NewFromInt(1), MinorUnits: 2},
	{Code: "USD", Symbol: "$", Name: "US Dollar", Rate: decimal.RequireFromString("0.012"), MinorUnits: 2},
	{Code: "EUR", Symbol: "€", Name: "Euro", Rate: decimal.RequireFromString("0.011"), MinorUnits: 2},
	{Code: "GBP", Symbol: "£", Name: "British Pound", Rate: decimal.RequireFromString("0.0095"), MinorUnits: 2},
	{Code: "AUD", Symbol: "A$", Name: "Australian Dollar", Rate: decimal.RequireFromString("0.018"), MinorUnits: 2},
	{Code: "CAD", Symbol: "C$", Name: "Canadian Dollar", Rate: decimal.RequireFromString("0.016"), MinorUnits: 2},
	{Code: "JPY", Symbol: "¥", Name: "Japanese Yen", Rate: decimal.RequireFromString("1.8"), MinorUnits: 0},
}

// Lookup returns the currency for a code, normalizing case and whitespace.
func Lookup(code string) (Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range Currencies {
		if c.Code == code {
			return c, true
		}
	}
	return Currency{}, false
}

func rateOrOne(code string) decimal.Decimal {
	if c, ok := Lookup(code); ok {
		return c.Rate
	}
	// Unknown codes fall through at rate 1 rather than failing; callers that
	// want a hard error should Lookup first.
	return decimal.NewFromInt(1)
}

// Convert converts an amount between currencies via the base currency.
func Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	base := amount.Div(rateOrOne(from))
	return base.Mul(rateOrOne(to))
}

// Format renders an amount with the currency's symbol and Indian-style digit
// grouping (1,50,000.00). Currencies without a minor unit render with no
// fraction digits. Unknown codes render the bare numeric value.
func Format(amount decimal.Decimal, code string) string {
	c, ok := Lookup(code)
	if !ok {
		return amount.String()
	}
	return c.Symbol + groupIndian(amount.StringFixed(int32(c.MinorUnits)))
}

// groupIndian inserts Indian-system separators into a plain decimal string:
// the last three integer digits form one group, the rest pair off in twos.
func groupIndian(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign = "-"
		s = s[1:]
	}
	intPart := s
	frac := ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart = s[:i]
		frac = s[i:]
	}
	if len(intPart) <= 3 {
		return sign + intPart + frac
	}
	head := intPart[:len(intPart)-3]
	groups := []string{intPart[len(intPart)-3:]}
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	if head != "" {
		groups = append([]string{head}, groups...)
	}
	return sign + strings.Join(groups, ",") + frac
}
